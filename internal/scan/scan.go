// Package scan extracts design-unit names from VHDL sources. It is a
// line-oriented matcher, not a parser: just enough to tell whether a library
// actually defines the entity a test bench registration names.
package scan

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	entityRe        = regexp.MustCompile(`(?i)^\s*entity\s+([a-zA-Z][a-zA-Z0-9_]*)\s+is\b`)
	configurationRe = regexp.MustCompile(`(?i)^\s*configuration\s+([a-zA-Z][a-zA-Z0-9_]*)\s+of\b`)
)

type Scanner struct{}

func New() Scanner {
	return Scanner{}
}

// Units scans the given files and returns the lowercased names of every
// entity and configuration declaration found. An unreadable file fails the
// whole scan; callers treat that as "validation unavailable".
func (Scanner) Units(files []string) (map[string]struct{}, error) {
	units := make(map[string]struct{})
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("scan design units in %q: %w", path, err)
		}
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := stripComment(scanner.Text())
			if m := entityRe.FindStringSubmatch(line); m != nil {
				units[strings.ToLower(m[1])] = struct{}{}
			} else if m := configurationRe.FindStringSubmatch(line); m != nil {
				units[strings.ToLower(m[1])] = struct{}{}
			}
		}
		err = scanner.Err()
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("scan design units in %q: %w", path, err)
		}
	}
	return units, nil
}

func stripComment(line string) string {
	if idx := strings.Index(line, "--"); idx >= 0 {
		return line[:idx]
	}
	return line
}
