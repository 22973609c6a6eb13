// Package fsglob expands glob patterns against a directory tree.
//
// Patterns use forward slashes and are matched against paths relative to the
// expansion root; absolute patterns and patterns escaping the root are
// rejected. `*` never crosses a directory separator; a `**/` segment matches
// zero or more directory levels, so `rtl/**/*.vhd` matches both
// `rtl/core.vhd` and `rtl/core/alu.vhd`. Matches are files only, returned as
// cleaned absolute paths in sorted order, so expansion is deterministic for
// a fixed filesystem snapshot.
package fsglob

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// Globber is the expansion seam: pattern + root in, sorted path list out.
// Patterns are root-relative. Implementations must not mutate anything; the
// production implementation only reads the filesystem.
type Globber interface {
	Glob(root, pattern string) ([]string, error)
}

// Walker expands patterns by walking the root with filepath.WalkDir and
// matching each file's root-relative path.
type Walker struct{}

func NewWalker() Walker {
	return Walker{}
}

func (Walker) Glob(root, pattern string) ([]string, error) {
	if filepath.IsAbs(pattern) {
		return nil, fmt.Errorf("glob pattern %q must be relative to the project root", pattern)
	}
	cleaned := strings.TrimPrefix(filepath.ToSlash(filepath.Clean(pattern)), "./")
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return nil, fmt.Errorf("glob pattern %q escapes the project root", pattern)
	}

	globs, err := compileVariants(cleaned)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve glob root %q: %w", root, err)
	}

	var matches []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		slashRel := filepath.ToSlash(rel)
		for _, g := range globs {
			if g.Match(slashRel) {
				matches = append(matches, filepath.Clean(path))
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("expand pattern %q under %q: %w", pattern, root, err)
	}

	sort.Strings(matches)
	return matches, nil
}

// compileVariants compiles the pattern once per `**/` elision. The matcher
// library requires `**/` to consume at least one directory level, but
// recursive globbing lets it span zero, so every combination of kept and
// elided `**/` segments is matched.
func compileVariants(pattern string) ([]glob.Glob, error) {
	variants := expandDoubleStar(pattern)
	seen := make(map[string]bool, len(variants))
	globs := make([]glob.Glob, 0, len(variants))
	for _, v := range variants {
		if seen[v] {
			continue
		}
		seen[v] = true
		g, err := glob.Compile(v, '/')
		if err != nil {
			return nil, err
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func expandDoubleStar(pattern string) []string {
	idx := strings.Index(pattern, "**/")
	if idx < 0 {
		return []string{pattern}
	}
	tails := expandDoubleStar(pattern[idx+len("**/"):])
	out := make([]string, 0, 2*len(tails))
	for _, tail := range tails {
		out = append(out, pattern[:idx]+"**/"+tail)
		out = append(out, pattern[:idx]+tail)
	}
	return out
}
