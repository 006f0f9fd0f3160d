package widget

import (
	"fmt"
	"strconv"
)

// Kind tells which payload a Value carries.
type Kind uint8

const (
	KindNone Kind = iota
	KindText
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value holds at most one of text, integer or floating-point content. The
// constructors set exactly one payload, so two Values are equal (==) only
// when both kind and payload match.
type Value struct {
	kind     Kind
	text     string
	integer  int64
	unsigned bool
	float    float64
}

// TextValue returns a text Value.
func TextValue(s string) Value {
	return Value{kind: KindText, text: s}
}

// IntValue returns a signed integer Value.
func IntValue(v int32) Value {
	return Value{kind: KindInt, integer: int64(v)}
}

// UintValue returns an unsigned integer Value.
func UintValue(v uint32) Value {
	return Value{kind: KindInt, integer: int64(v), unsigned: true}
}

// FloatValue returns a floating-point Value.
func FloatValue(v float64) Value {
	return Value{kind: KindFloat, float: v}
}

// Kind returns which payload v carries.
func (v Value) Kind() Kind { return v.kind }

// Text returns the text payload.
func (v Value) Text() (string, bool) {
	return v.text, v.kind == KindText
}

// Int returns the integer payload. Unsigned values are returned widened, so
// the full uint32 range is representable.
func (v Value) Int() (int64, bool) {
	return v.integer, v.kind == KindInt
}

// Float returns the floating-point payload.
func (v Value) Float() (float64, bool) {
	return v.float, v.kind == KindFloat
}

// IsUnsigned reports whether an integer Value was set from a uint32.
func (v Value) IsUnsigned() bool {
	return v.kind == KindInt && v.unsigned
}

// Format renders v for display. Floats get precision digits after the
// decimal point.
func (v Value) Format(precision uint8) string {
	switch v.kind {
	case KindText:
		return v.text
	case KindInt:
		if v.unsigned {
			return strconv.FormatUint(uint64(v.integer), 10)
		}
		return strconv.FormatInt(v.integer, 10)
	case KindFloat:
		return strconv.FormatFloat(v.float, 'f', int(precision), 64)
	}
	return ""
}

// formatted applies a caller supplied fmt verb string to a numeric value.
// The integer is passed in its original width and signedness so verbs like
// %x print the same digits they would for the caller's own variable.
func (v Value) formatted(format string) Value {
	switch v.kind {
	case KindInt:
		if v.unsigned {
			return TextValue(fmt.Sprintf(format, uint32(v.integer)))
		}
		return TextValue(fmt.Sprintf(format, int32(v.integer)))
	case KindFloat:
		return TextValue(fmt.Sprintf(format, v.float))
	}
	return v
}
