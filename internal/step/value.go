// Package step implements the STEP physical-file collaborators: a byte-range
// scanner that locates entity records without parsing their attributes, and an
// on-demand decoder that turns a single record into a typed attribute list.
// The decoder keeps no cache; callers that need an attribute twice decode twice.
package step

import (
	"strconv"
	"strings"
)

// ValueKind identifies the shape of a decoded attribute value.
type ValueKind uint8

const (
	KindNull ValueKind = iota // $
	KindDerived               // *
	KindInt
	KindFloat
	KindString
	KindEnum // .NAME.
	KindRef  // #123
	KindList // (...)
)

// Value is one positional attribute of a decoded entity. Typed wrappers such
// as IFCBOOLEAN(.T.) decay to a KindList whose first element is the wrapper
// type name as a KindString, followed by the wrapped values.
type Value struct {
	Kind     ValueKind
	IntVal   int64
	FloatVal float64
	StrVal   string // text of KindString and KindEnum
	RefID    uint32
	Items    []Value
}

// Ref returns the entity id for KindRef values.
func (v Value) Ref() (uint32, bool) {
	if v.Kind != KindRef {
		return 0, false
	}
	return v.RefID, true
}

// Str returns the unescaped text for KindString values.
func (v Value) Str() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.StrVal, true
}

// Enum returns the name between the dots for KindEnum values.
func (v Value) Enum() (string, bool) {
	if v.Kind != KindEnum {
		return "", false
	}
	return v.StrVal, true
}

// Float returns the numeric value, coercing integers.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case KindFloat:
		return v.FloatVal, true
	case KindInt:
		return float64(v.IntVal), true
	}
	return 0, false
}

// Int returns the numeric value, truncating floats.
func (v Value) Int() (int64, bool) {
	switch v.Kind {
	case KindInt:
		return v.IntVal, true
	case KindFloat:
		return int64(v.FloatVal), true
	}
	return 0, false
}

// Bool interprets the boolean and logical enums .T./.TRUE. and .F./.FALSE..
// The logical unknown .U. reports ok=false like any non-boolean value.
func (v Value) Bool() (bool, bool) {
	if v.Kind != KindEnum {
		return false, false
	}
	switch v.StrVal {
	case "T", "TRUE":
		return true, true
	case "F", "FALSE":
		return false, true
	}
	return false, false
}

// List returns the elements of KindList values, including decayed wrappers.
func (v Value) List() ([]Value, bool) {
	if v.Kind != KindList {
		return nil, false
	}
	return v.Items, true
}

// IsNull reports whether the attribute carries no value. Derived values (*)
// count as null: the file says the value exists but does not state it.
func (v Value) IsNull() bool {
	return v.Kind == KindNull || v.Kind == KindDerived
}

// String renders the value in STEP notation. Used for fallback display of
// property values whose shape has no dedicated formatting.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "$"
	case KindDerived:
		return "*"
	case KindInt:
		return strconv.FormatInt(v.IntVal, 10)
	case KindFloat:
		return strconv.FormatFloat(v.FloatVal, 'g', -1, 64)
	case KindString:
		return "'" + v.StrVal + "'"
	case KindEnum:
		return "." + v.StrVal + "."
	case KindRef:
		return "#" + strconv.FormatUint(uint64(v.RefID), 10)
	case KindList:
		var b strings.Builder
		b.WriteByte('(')
		for i, it := range v.Items {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(it.String())
		}
		b.WriteByte(')')
		return b.String()
	}
	return ""
}
