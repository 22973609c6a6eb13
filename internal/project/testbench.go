package project

import (
	"strings"

	"github.com/zclconf/go-cty/cty"

	"hdlbench/internal/core/errors"
)

// UnitScanner reports the design-unit names defined by a set of source
// files. A nil scanner, or a scanner error, defers unit validation to the
// simulator itself.
type UnitScanner interface {
	Units(files []string) (map[string]struct{}, error)
}

// TestBench is the handle for one simulatable top-level unit. Generic
// bindings accumulate through SetGeneric; a name bound twice is a
// configuration error and the first value is kept.
type TestBench struct {
	library  *Library
	unit     string
	generics map[string]cty.Value
	keys     []string
}

// TestBench registers a top-level unit in an existing library. When a unit
// scanner is configured the unit name is checked against the entities the
// library's sources actually define.
func (p *Project) TestBench(library, unit string, scanner UnitScanner) (*TestBench, error) {
	lib, err := p.Library(library)
	if err != nil {
		return nil, err
	}
	if unit == "" {
		return nil, errors.New(errors.CodeValidationError, "test bench unit name must not be empty")
	}

	if scanner != nil {
		units, scanErr := scanner.Units(lib.Files())
		if scanErr == nil {
			// VHDL identifiers are case-insensitive; scanners report
			// lowercased names.
			if _, ok := units[strings.ToLower(unit)]; !ok {
				return nil, errors.Newf(errors.CodeUnknownUnit,
					"no source in library %q defines unit %q", library, unit)
			}
		}
	}

	tb := &TestBench{
		library:  lib,
		unit:     unit,
		generics: make(map[string]cty.Value),
	}
	p.benches = append(p.benches, tb)
	return tb, nil
}

func (tb *TestBench) Library() *Library {
	return tb.library
}

func (tb *TestBench) Unit() string {
	return tb.unit
}

// SetGeneric binds one generic to a scalar value.
func (tb *TestBench) SetGeneric(key string, value cty.Value) error {
	if key == "" {
		return errors.New(errors.CodeValidationError, "generic name must not be empty")
	}
	if !IsScalar(value) {
		return errors.Newf(errors.CodeValidationError,
			"generic %q has unsupported type %s (want bool, integer or string)", key, describeType(value))
	}
	if _, bound := tb.generics[key]; bound {
		return errors.Newf(errors.CodeDuplicateBinding,
			"generic %q is already bound for unit %q", key, tb.unit)
	}
	tb.generics[key] = value
	tb.keys = append(tb.keys, key)
	return nil
}

// Generic looks up one binding.
func (tb *TestBench) Generic(key string) (cty.Value, bool) {
	v, ok := tb.generics[key]
	return v, ok
}

// GenericKeys returns generic names in binding order.
func (tb *TestBench) GenericKeys() []string {
	out := make([]string, len(tb.keys))
	copy(out, tb.keys)
	return out
}
