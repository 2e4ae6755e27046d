package tlv

import (
	"bytes"
	"fmt"
	"math"
	"slices"
)

// FieldID identifies one value inside a Struct.
type FieldID uint32

// Kind names the variant of a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUint
	KindInt
	KindBool
	KindArray
	KindStruct
	KindFloat32
	KindFloat64
	KindBytes
	KindString
	KindNull
	KindDecodeFailure
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindBytes:
		return "bytes"
	case KindString:
		return "string"
	case KindNull:
		return "null"
	case KindDecodeFailure:
		return "decode-failure"
	default:
		return "invalid"
	}
}

// Value is a decoded attribute value.
type Value interface {
	// Kind returns the variant of the value.
	Kind() Kind

	value()
}

// Uint is a non-negative integer of up to 64 bits.
type Uint uint64

// Int is a signed integer of up to 64 bits.
type Int int64

// Bool is a boolean.
type Bool bool

// Float32 is a single-precision float. It is never widened to Float64.
type Float32 float32

// Float64 is a double-precision float.
type Float64 float64

// Bytes is a raw octet string.
type Bytes []byte

// String is a UTF-8 string.
type String string

// Null is an explicit null.
type Null struct{}

// Array is an ordered sequence of values.
type Array []Value

// Field is one member of a Struct.
type Field struct {
	ID    FieldID
	Value Value
}

// Struct is an ordered set of fields. Field IDs are unique.
type Struct []Field

// DecodeFailure stands in for a value the decoder could not produce.
type DecodeFailure struct {
	Reason string
}

func (Uint) Kind() Kind          { return KindUint }
func (Int) Kind() Kind           { return KindInt }
func (Bool) Kind() Kind          { return KindBool }
func (Float32) Kind() Kind       { return KindFloat32 }
func (Float64) Kind() Kind       { return KindFloat64 }
func (Bytes) Kind() Kind         { return KindBytes }
func (String) Kind() Kind        { return KindString }
func (Null) Kind() Kind          { return KindNull }
func (Array) Kind() Kind         { return KindArray }
func (Struct) Kind() Kind        { return KindStruct }
func (DecodeFailure) Kind() Kind { return KindDecodeFailure }

func (Uint) value()          {}
func (Int) value()           {}
func (Bool) value()          {}
func (Float32) value()       {}
func (Float64) value()       {}
func (Bytes) value()         {}
func (String) value()        {}
func (Null) value()          {}
func (Array) value()         {}
func (Struct) value()        {}
func (DecodeFailure) value() {}

// Error returns the diagnostic message, so a DecodeFailure can be reported
// wherever an error is expected.
func (d DecodeFailure) Error() string {
	return d.Reason
}

// Failf is shorthand for a DecodeFailure with a formatted reason.
func Failf(format string, args ...any) DecodeFailure {
	return DecodeFailure{Reason: fmt.Sprintf(format, args...)}
}

// NewStruct builds a Struct from a map, ordering fields by ID.
func NewStruct(fields map[FieldID]Value) Struct {
	ids := make([]FieldID, 0, len(fields))
	for id := range fields {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	s := make(Struct, 0, len(ids))
	for _, id := range ids {
		s = append(s, Field{ID: id, Value: fields[id]})
	}
	return s
}

// Get returns the value of the field with the given ID.
func (s Struct) Get(id FieldID) (Value, bool) {
	for _, f := range s {
		if f.ID == id {
			return f.Value, true
		}
	}
	return nil, false
}

// IDs returns the field IDs in order.
func (s Struct) IDs() []FieldID {
	ids := make([]FieldID, len(s))
	for i, f := range s {
		ids[i] = f.ID
	}
	return ids
}

// Equal reports whether two trees are structurally identical, including
// variant and field order.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case Array:
		y, ok := b.(Array)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case Struct:
		y, ok := b.(Struct)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if x[i].ID != y[i].ID || !Equal(x[i].Value, y[i].Value) {
				return false
			}
		}
		return true
	case Bytes:
		y, ok := b.(Bytes)
		return ok && bytes.Equal(x, y)
	case Float32:
		y, ok := b.(Float32)
		return ok && (x == y || (math.IsNaN(float64(x)) && math.IsNaN(float64(y))))
	case Float64:
		y, ok := b.(Float64)
		return ok && (x == y || (math.IsNaN(float64(x)) && math.IsNaN(float64(y))))
	default:
		return a == b
	}
}
