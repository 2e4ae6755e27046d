package tlv

import (
	"fmt"
	"math"
	"slices"
)

// FromAny converts a Go-native attribute value, as returned by a session
// Read, into a typed tree.
//
// Integer widths collapse to Uint or Int by signedness; float32 and float64
// stay distinct. An error becomes a DecodeFailure carrying its message, as
// does any type that has no typed representation.
func FromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null{}
	case Value:
		return x
	case bool:
		return Bool(x)

	case uint8:
		return Uint(x)
	case uint16:
		return Uint(x)
	case uint32:
		return Uint(x)
	case uint64:
		return Uint(x)
	case uint:
		return Uint(x)

	case int8:
		return Int(x)
	case int16:
		return Int(x)
	case int32:
		return Int(x)
	case int64:
		return Int(x)
	case int:
		return Int(x)

	case float32:
		return Float32(x)
	case float64:
		return Float64(x)

	case []byte:
		return Bytes(slices.Clone(x))
	case string:
		return String(x)

	case []any:
		arr := make(Array, len(x))
		for i, item := range x {
			arr[i] = FromAny(item)
		}
		return arr

	case map[uint16]any:
		return structFromMap(x)
	case map[uint8]any:
		return structFromMap(x)
	case map[uint32]any:
		return structFromMap(x)
	case map[uint64]any:
		return structFromMap(x)
	case map[any]any:
		return structFromAnyKeys(x)

	case error:
		return DecodeFailure{Reason: x.Error()}

	default:
		return Failf("unsupported value type %T", v)
	}
}

func structFromMap[K uint8 | uint16 | uint32 | uint64](m map[K]any) Value {
	fields := make(map[FieldID]Value, len(m))
	for k, v := range m {
		if uint64(k) > math.MaxUint32 {
			return Failf("field id %d out of range", k)
		}
		fields[FieldID(k)] = FromAny(v)
	}
	return NewStruct(fields)
}

// structFromAnyKeys handles the map[any]any shape the generic CBOR decoder
// produces for maps.
func structFromAnyKeys(m map[any]any) Value {
	fields := make(map[FieldID]Value, len(m))
	for k, v := range m {
		id, ok := fieldIDOf(k)
		if !ok {
			return Failf("invalid field id %v (%T)", k, k)
		}
		if _, dup := fields[id]; dup {
			return Failf("duplicate field id %d", id)
		}
		fields[id] = FromAny(v)
	}
	return NewStruct(fields)
}

func fieldIDOf(k any) (FieldID, bool) {
	var n uint64
	switch x := k.(type) {
	case uint64:
		n = x
	case uint32:
		n = uint64(x)
	case uint16:
		n = uint64(x)
	case uint8:
		n = uint64(x)
	case int64:
		if x < 0 {
			return 0, false
		}
		n = uint64(x)
	case int:
		if x < 0 {
			return 0, false
		}
		n = uint64(x)
	default:
		return 0, false
	}
	if n > math.MaxUint32 {
		return 0, false
	}
	return FieldID(n), true
}

// Native returns the untagged Go view of a tree: integers as uint64/int64,
// structs as map[uint32]any, decode failures as error values.
func Native(v Value) any {
	switch x := v.(type) {
	case Uint:
		return uint64(x)
	case Int:
		return int64(x)
	case Bool:
		return bool(x)
	case Float32:
		return float32(x)
	case Float64:
		return float64(x)
	case Bytes:
		return []byte(x)
	case String:
		return string(x)
	case Null, nil:
		return nil
	case Array:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = Native(item)
		}
		return out
	case Struct:
		out := make(map[uint32]any, len(x))
		for _, f := range x {
			out[uint32(f.ID)] = Native(f.Value)
		}
		return out
	case DecodeFailure:
		return x
	default:
		panic(fmt.Sprintf("tlv: unhandled value type %T", v))
	}
}
