package project

import (
	"fmt"

	"hdlbench/internal/core/errors"
	"hdlbench/internal/shared/util"
)

// Library is a named, ordered collection of source files. Files appear in
// sorted-match order within a pattern, then pattern order; a file matched by
// two overlapping patterns is listed twice.
type Library struct {
	name    string
	project *Project
	files   []string
}

func (l *Library) Name() string {
	return l.name
}

// Files returns the resolved file list in insertion order.
func (l *Library) Files() []string {
	out := make([]string, len(l.files))
	copy(out, l.files)
	return out
}

// AddSourceFiles expands each pattern against the project root and appends
// the matches. In strict mode a pattern with zero matches fails the whole
// call and leaves the library untouched.
func (l *Library) AddSourceFiles(patterns ...string) error {
	var resolved []string
	for _, pattern := range patterns {
		matches, err := l.project.globber.Glob(l.project.root, pattern)
		if err != nil {
			derr := &errors.DomainError{Code: errors.CodeInternal, Message: "glob expansion failed", Err: err}
			derr.WithContext(errors.CtxLibrary, l.name).WithContext(errors.CtxPattern, pattern)
			return derr
		}
		if len(matches) == 0 {
			if l.project.lenient {
				continue
			}
			derr := &errors.DomainError{
				Code:    errors.CodeNoMatch,
				Message: fmt.Sprintf("pattern %q matched no files", pattern),
			}
			derr.WithContext(errors.CtxLibrary, l.name)
			return derr
		}
		for _, m := range matches {
			resolved = append(resolved, util.AbsClean(l.project.root, m))
		}
	}
	l.files = append(l.files, resolved...)
	return nil
}
