package project

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Generic bindings and simulator options carry loosely-typed scalars. They
// are stored as cty values so each binding keeps its semantic type: a bool
// stays a bool, an integer stays an integer, with no implicit coercion.
// Simulator options additionally allow lists of strings (raw flag bundles
// such as ghdl.sim_flags).

// FromGo converts a decoded TOML value into a binding value. Supported
// inputs are bool, int64, string and []string (or a []interface{} holding
// only strings).
func FromGo(v interface{}) (cty.Value, error) {
	switch x := v.(type) {
	case bool:
		return cty.BoolVal(x), nil
	case int64:
		return cty.NumberIntVal(x), nil
	case int:
		return cty.NumberIntVal(int64(x)), nil
	case string:
		return cty.StringVal(x), nil
	case []string:
		return stringList(x)
	case []interface{}:
		items := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return cty.NilVal, fmt.Errorf("list values must hold only strings, found %T", item)
			}
			items = append(items, s)
		}
		return stringList(items)
	default:
		return cty.NilVal, fmt.Errorf("unsupported value type %T (want bool, integer, string or string list)", v)
	}
}

func stringList(items []string) (cty.Value, error) {
	if len(items) == 0 {
		return cty.ListValEmpty(cty.String), nil
	}
	vals := make([]cty.Value, len(items))
	for i, s := range items {
		vals[i] = cty.StringVal(s)
	}
	return cty.ListVal(vals), nil
}

// IsScalar reports whether v is a legal generic binding value.
func IsScalar(v cty.Value) bool {
	switch v.Type() {
	case cty.Bool, cty.Number, cty.String:
		return true
	}
	return false
}

// IsStringList reports whether v holds a list of strings.
func IsStringList(v cty.Value) bool {
	return v.Type().IsListType() && v.Type().ElementType() == cty.String
}

// FlagString renders a scalar for a simulator command line: booleans as
// true/false, numbers as decimal integers, strings verbatim.
func FlagString(v cty.Value) string {
	switch v.Type() {
	case cty.Bool:
		if v.True() {
			return "true"
		}
		return "false"
	case cty.Number:
		bf := v.AsBigFloat()
		if i, acc := bf.Int64(); acc == big.Exact {
			return fmt.Sprintf("%d", i)
		}
		return bf.Text('g', -1)
	case cty.String:
		return v.AsString()
	}
	return v.GoString()
}

// StringList extracts the elements of a string-list value.
func StringList(v cty.Value) ([]string, bool) {
	if !IsStringList(v) {
		return nil, false
	}
	var out []string
	for it := v.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		out = append(out, elem.AsString())
	}
	return out, true
}

// describeType names a value's type in error messages.
func describeType(v cty.Value) string {
	return strings.ToLower(v.Type().FriendlyName())
}
