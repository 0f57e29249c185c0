package criterion

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a sealed interface over the literal types a clause can bind.
// Only Null, String, Int, Float, Bool, and List implement it.
//
// A nil Value and an explicit Null are equivalent: both mean "no bound
// value" (the plain model clause renders its template untouched for them).
type Value interface {
	literalValue() // Sealed - only types in this package implement it
}

// Null represents the absence of a bound value.
type Null struct{}

func (Null) literalValue() {}

// String is a string literal.
type String string

func (String) literalValue() {}

// Int is an integer literal. Always int64.
type Int int64

func (Int) literalValue() {}

// Float is a floating point literal.
type Float float64

func (Float) literalValue() {}

// Bool is a boolean literal.
type Bool bool

func (Bool) literalValue() {}

// List is an ordered list of scalar literals, used by the range, array and
// IN shaped clauses. Nesting lists inside lists is not meaningful and is
// rejected by validation.
type List []Value

func (List) literalValue() {}

// Values builds a List from the given literals.
func Values(vals ...Value) List {
	return List(vals)
}

// Strings builds a List of String literals.
func Strings(vals ...string) List {
	out := make(List, len(vals))
	for i, v := range vals {
		out[i] = String(v)
	}
	return out
}

// Ints builds a List of Int literals.
func Ints(vals ...int64) List {
	out := make(List, len(vals))
	for i, v := range vals {
		out[i] = Int(v)
	}
	return out
}

// FromNative converts a plain Go value into a Value. Supported inputs are
// nil, bool, string, the signed integer types, float32/float64, and slices
// of any supported scalar. Used by the document loader; programmatic
// callers construct typed literals directly.
func FromNative(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case float32:
		return Float(val), nil
	case float64:
		return Float(val), nil
	case []any:
		out := make(List, len(val))
		for i, elem := range val {
			converted, err := FromNative(elem)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			out[i] = converted
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported literal type %T", v)
	}
}

// Native converts a Value into the Go value bound through database/sql.
func Native(v Value) any {
	switch val := v.(type) {
	case nil, Null:
		return nil
	case String:
		return string(val)
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case Bool:
		return bool(val)
	case List:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = Native(elem)
		}
		return out
	default:
		return nil
	}
}

// isNull reports whether v carries no bindable value.
func isNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// asList normalizes v for the list-shaped clauses: a List is returned
// as-is, null becomes the empty list, and a scalar becomes a one-element
// list. The bool result reports whether v actually was a List.
func asList(v Value) (List, bool) {
	switch val := v.(type) {
	case nil, Null:
		return nil, false
	case List:
		return val, true
	default:
		return List{v}, false
	}
}

// valueEqual is strict equality: same concrete type and same content, with
// lists compared element-wise in order. nil and Null are interchangeable.
func valueEqual(a, b Value) bool {
	if isNull(a) || isNull(b) {
		return isNull(a) && isNull(b)
	}
	la, aList := a.(List)
	lb, bList := b.(List)
	if aList != bList {
		return false
	}
	if aList {
		if len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !valueEqual(la[i], lb[i]) {
				return false
			}
		}
		return true
	}
	return a == b
}

// encodeValue produces a deterministic serialization of v for hashing.
// Each scalar is prefixed with a type tag so that String("1") and Int(1)
// never collide.
func encodeValue(v Value) string {
	switch val := v.(type) {
	case nil, Null:
		return "null"
	case String:
		return "s:" + string(val)
	case Int:
		return "i:" + strconv.FormatInt(int64(val), 10)
	case Float:
		return "f:" + strconv.FormatFloat(float64(val), 'g', -1, 64)
	case Bool:
		return "b:" + strconv.FormatBool(bool(val))
	case List:
		parts := make([]string, len(val))
		for i, elem := range val {
			parts[i] = encodeValue(elem)
		}
		return "l:[" + strings.Join(parts, ",") + "]"
	default:
		return "?"
	}
}
