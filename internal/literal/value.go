// Package literal implements the closed data-literal grammar used by step
// reference argument lists: quoted strings, numbers, booleans, a null
// keyword, and arbitrarily nested sequences and mappings. It is a data
// language, not an expression language; identifiers, operators, and calls
// are rejected outright.
package literal

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindList
	KindMap
)

// String returns a human readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MapEntry is one key/value pair of a mapping. Entries keep the order in
// which they appeared in the source text.
type MapEntry struct {
	Key   string
	Value Value
}

// Value is an immutable tagged union over the literal grammar. The zero
// Value is the null literal.
type Value struct {
	kind    Kind
	str     string
	i       int64
	f       float64
	b       bool
	list    []Value
	entries []MapEntry
}

// NullVal returns the null literal.
func NullVal() Value { return Value{kind: KindNull} }

// StringVal returns a string literal.
func StringVal(s string) Value { return Value{kind: KindString, str: s} }

// IntVal returns an integer literal.
func IntVal(i int64) Value { return Value{kind: KindInt, i: i} }

// FloatVal returns a float literal.
func FloatVal(f float64) Value { return Value{kind: KindFloat, f: f} }

// BoolVal returns a boolean literal.
func BoolVal(b bool) Value { return Value{kind: KindBool, b: b} }

// ListVal returns a sequence literal holding the given elements.
func ListVal(elems ...Value) Value {
	return Value{kind: KindList, list: append([]Value(nil), elems...)}
}

// MapVal returns a mapping literal holding the given entries, in order.
func MapVal(entries ...MapEntry) Value {
	return Value{kind: KindMap, entries: append([]MapEntry(nil), entries...)}
}

// Kind reports which variant the value holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is the null literal.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string payload. It panics on other kinds.
func (v Value) AsString() string {
	v.mustBe(KindString)
	return v.str
}

// AsInt returns the integer payload. It panics on other kinds.
func (v Value) AsInt() int64 {
	v.mustBe(KindInt)
	return v.i
}

// AsFloat returns the numeric payload as a float. Integer values convert.
func (v Value) AsFloat() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	v.mustBe(KindFloat)
	return v.f
}

// AsBool returns the boolean payload. It panics on other kinds.
func (v Value) AsBool() bool {
	v.mustBe(KindBool)
	return v.b
}

// Elems returns the elements of a sequence. It panics on other kinds.
func (v Value) Elems() []Value {
	v.mustBe(KindList)
	return append([]Value(nil), v.list...)
}

// Entries returns the ordered entries of a mapping. It panics on other kinds.
func (v Value) Entries() []MapEntry {
	v.mustBe(KindMap)
	return append([]MapEntry(nil), v.entries...)
}

// Len returns the element count of a sequence or mapping.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindMap:
		return len(v.entries)
	}
	panic(fmt.Sprintf("literal: Len on %s value", v.kind))
}

func (v Value) mustBe(k Kind) {
	if v.kind != k {
		panic(fmt.Sprintf("literal: %s value accessed as %s", v.kind, k))
	}
}

// Equal reports deep equality of two values. Int and float values never
// compare equal to each other even when numerically identical.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == o.str
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindBool:
		return v.b == o.b
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.entries) != len(o.entries) {
			return false
		}
		for i := range v.entries {
			if v.entries[i].Key != o.entries[i].Key {
				return false
			}
			if !v.entries[i].Value.Equal(o.entries[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// Interface converts the value to its closest Go representation: string,
// int64, float64, bool, nil, []any, or map[string]any. Mapping order is not
// preserved by the Go map; callers needing order use Entries.
func (v Value) Interface() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindString:
		return v.str
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.entries))
		for _, e := range v.entries {
			out[e.Key] = e.Value.Interface()
		}
		return out
	}
	return nil
}

// String renders the value back in literal syntax.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return strconv.Quote(v.str)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindList:
		parts := make([]string, len(v.list))
		for i, e := range v.list {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		parts := make([]string, len(v.entries))
		for i, e := range v.entries {
			parts[i] = strconv.Quote(e.Key) + ": " + e.Value.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return "<invalid>"
}

// keyString renders a scalar value as a mapping key.
func (v Value) keyString() (string, bool) {
	switch v.kind {
	case KindString:
		return v.str, true
	case KindInt:
		return strconv.FormatInt(v.i, 10), true
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64), true
	case KindBool:
		if v.b {
			return "true", true
		}
		return "false", true
	}
	return "", false
}
