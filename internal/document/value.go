// Package document provides a tagged-variant value tree used for save files and wire payloads
package document

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Value is one node of a document tree. The concrete types are Null, Int, Float,
// String, Bool, Map and List; no other type implements Value.
type Value interface {
	isValue()
}

// Null is an explicit null
type Null struct{}

// Int is a whole number
type Int int64

// Float is a floating point number
type Float float64

// String is a text value
type String string

// Bool is a boolean value
type Bool bool

// Map is a text-keyed object
type Map map[string]Value

// List is an ordered sequence of values
type List []Value

func (Null) isValue()   {}
func (Int) isValue()    {}
func (Float) isValue()  {}
func (String) isValue() {}
func (Bool) isValue()   {}
func (Map) isValue()    {}
func (List) isValue()   {}

// Kind names the variant of a value
type Kind string

const (
	KindNull   Kind = "null"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindString Kind = "string"
	KindBool   Kind = "bool"
	KindMap    Kind = "map"
	KindList   Kind = "list"
)

// KindOf returns the variant of v. A nil interface is reported as null.
func KindOf(v Value) Kind {
	switch v.(type) {
	case Int:
		return KindInt
	case Float:
		return KindFloat
	case String:
		return KindString
	case Bool:
		return KindBool
	case Map:
		return KindMap
	case List:
		return KindList
	}
	return KindNull
}

// ToInt coerces v to an integer. Floats are truncated toward zero, strings are
// parsed as integer or float literals and booleans map to 0/1.
func ToInt(v Value) (int64, bool) {
	switch x := v.(type) {
	case Int:
		return int64(x), true
	case Float:
		return floatToInt(float64(x))
	case Bool:
		if x {
			return 1, true
		}
		return 0, true
	case String:
		s := strings.TrimSpace(string(x))
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return floatToInt(f)
		}
	}
	return 0, false
}

func floatToInt(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	t := math.Trunc(f)
	if t < math.MinInt64 || t >= math.MaxInt64 {
		return 0, false
	}
	return int64(t), true
}

// ToFloat coerces v to a float
func ToFloat(v Value) (float64, bool) {
	switch x := v.(type) {
	case Float:
		return float64(x), true
	case Int:
		return float64(x), true
	case Bool:
		if x {
			return 1, true
		}
		return 0, true
	case String:
		if f, err := strconv.ParseFloat(strings.TrimSpace(string(x)), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// ToString coerces scalars to text. Maps, lists and null do not coerce.
func ToString(v Value) (string, bool) {
	switch x := v.(type) {
	case String:
		return string(x), true
	case Int:
		return strconv.FormatInt(int64(x), 10), true
	case Float:
		return strconv.FormatFloat(float64(x), 'g', -1, 64), true
	case Bool:
		return strconv.FormatBool(bool(x)), true
	}
	return "", false
}

// ToBool coerces v to a boolean. Numbers are true when non-zero.
func ToBool(v Value) (bool, bool) {
	switch x := v.(type) {
	case Bool:
		return bool(x), true
	case Int:
		return x != 0, true
	case Float:
		return x != 0, true
	case String:
		if b, err := strconv.ParseBool(strings.TrimSpace(string(x))); err == nil {
			return b, true
		}
	}
	return false, false
}

// Int reads key as an integer, returning def when absent or not coercible
func (m Map) Int(key string, def int) int {
	if n, ok := ToInt(m[key]); ok {
		return int(n)
	}
	return def
}

// Int64 is Int without narrowing
func (m Map) Int64(key string, def int64) int64 {
	if n, ok := ToInt(m[key]); ok {
		return n
	}
	return def
}

// Float reads key as a float
func (m Map) Float(key string, def float64) float64 {
	if f, ok := ToFloat(m[key]); ok {
		return f
	}
	return def
}

// String reads key as text
func (m Map) String(key string, def string) string {
	if s, ok := ToString(m[key]); ok {
		return s
	}
	return def
}

// Bool reads key as a boolean
func (m Map) Bool(key string, def bool) bool {
	if b, ok := ToBool(m[key]); ok {
		return b
	}
	return def
}

// Map returns the nested object under key
func (m Map) Map(key string) (Map, bool) {
	sub, ok := m[key].(Map)
	return sub, ok
}

// List returns the nested list under key
func (m Map) List(key string) (List, bool) {
	l, ok := m[key].(List)
	return l, ok
}

// Has reports whether key is present
func (m Map) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// Keys returns the keys of m in ascending order
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of v
func Clone(v Value) Value {
	switch x := v.(type) {
	case Map:
		out := make(Map, len(x))
		for k, e := range x {
			out[k] = Clone(e)
		}
		return out
	case List:
		out := make(List, len(x))
		for i, e := range x {
			out[i] = Clone(e)
		}
		return out
	case nil:
		return Null{}
	}
	return v
}

// Equal reports whether a and b are structurally identical, including variant kinds
func Equal(a, b Value) bool {
	if KindOf(a) != KindOf(b) {
		return false
	}
	switch x := a.(type) {
	case Map:
		y := b.(Map)
		if len(x) != len(y) {
			return false
		}
		for k, e := range x {
			f, ok := y[k]
			if !ok || !Equal(e, f) {
				return false
			}
		}
		return true
	case List:
		y := b.(List)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case nil, Null:
		return true
	}
	return a == b
}
