// Package project holds the in-memory model of one simulation run: named
// libraries with their resolved source files, registered test benches with
// generic bindings, and global simulator options. The model is mutated only
// while the builder runs and is treated as read-only afterwards.
package project

import (
	"github.com/zclconf/go-cty/cty"

	"hdlbench/internal/core/errors"
	"hdlbench/internal/fsglob"
)

// Options configures graph construction. Zero value means strict glob
// matching with the production filesystem globber.
type Options struct {
	// Root is the directory glob patterns are expanded against.
	Root string
	// LenientGlobs skips patterns with zero matches instead of failing.
	LenientGlobs bool
	// Globber overrides filesystem expansion, mainly for tests.
	Globber fsglob.Globber
}

// Project is the aggregate built once per invocation.
type Project struct {
	root    string
	lenient bool
	globber fsglob.Globber

	libs    map[string]*Library
	order   []string
	benches []*TestBench
	simOpts map[string]cty.Value
	optKeys []string
}

func New(opts Options) *Project {
	globber := opts.Globber
	if globber == nil {
		globber = fsglob.NewWalker()
	}
	root := opts.Root
	if root == "" {
		root = "."
	}
	return &Project{
		root:    root,
		lenient: opts.LenientGlobs,
		globber: globber,
		libs:    make(map[string]*Library),
		simOpts: make(map[string]cty.Value),
	}
}

// AddLibrary registers a new, empty library.
func (p *Project) AddLibrary(name string) (*Library, error) {
	if name == "" {
		return nil, errors.New(errors.CodeValidationError, "library name must not be empty")
	}
	if _, exists := p.libs[name]; exists {
		return nil, errors.Newf(errors.CodeDuplicateLibrary, "library %q already exists", name)
	}
	lib := &Library{name: name, project: p}
	p.libs[name] = lib
	p.order = append(p.order, name)
	return lib, nil
}

// Library returns a previously registered library.
func (p *Project) Library(name string) (*Library, error) {
	lib, ok := p.libs[name]
	if !ok {
		return nil, errors.Newf(errors.CodeUnknownLibrary, "library %q was never registered", name)
	}
	return lib, nil
}

// Libraries iterates in registration order. The editor config depends on
// this order, so it is never sorted.
func (p *Project) Libraries() []*Library {
	out := make([]*Library, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, p.libs[name])
	}
	return out
}

func (p *Project) LibraryCount() int {
	return len(p.order)
}

// SetSimOption inserts or overwrites a global simulator option. The last
// write for a key wins; option semantics are the simulator's concern.
func (p *Project) SetSimOption(key string, value cty.Value) error {
	if key == "" {
		return errors.New(errors.CodeValidationError, "simulator option name must not be empty")
	}
	if !IsScalar(value) && !IsStringList(value) {
		return errors.Newf(errors.CodeValidationError,
			"simulator option %q has unsupported type %s", key, describeType(value))
	}
	if _, seen := p.simOpts[key]; !seen {
		p.optKeys = append(p.optKeys, key)
	}
	p.simOpts[key] = value
	return nil
}

// SimOption looks up one option value.
func (p *Project) SimOption(key string) (cty.Value, bool) {
	v, ok := p.simOpts[key]
	return v, ok
}

// SimOptionKeys returns option names in first-set order.
func (p *Project) SimOptionKeys() []string {
	out := make([]string, len(p.optKeys))
	copy(out, p.optKeys)
	return out
}

// TestBenches returns registered benches in registration order.
func (p *Project) TestBenches() []*TestBench {
	out := make([]*TestBench, len(p.benches))
	copy(out, p.benches)
	return out
}
