package tlv

import (
	"errors"
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"
)

// ErrNotEncodable is returned when a tree holds a value with no CBOR form.
var ErrNotEncodable = errors.New("value cannot be encoded")

// FailureTag is the CBOR tag number that carries a DecodeFailure reason in
// snapshot files. It lies in the first-come-first-served range and has no
// meaning outside this package.
const FailureTag = 80001

// encMode is the CBOR encoder mode for value trees.
// Configured for deterministic encoding with integer keys.
var encMode cbor.EncMode

// decMode is the CBOR decoder mode for value trees.
var decMode cbor.DecMode

func init() {
	var err error

	// Floats keep their encoded width so Float32 survives a round trip.
	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		ShortestFloat: cbor.ShortestFloatNone,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder mode: %v", err))
	}

	// Lenient like the protocol decoder: last duplicate key wins.
	// Nesting is limited only by the codec maximum.
	decOpts := cbor.DecOptions{
		MaxNestedLevels:   65535,
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR decoder mode: %v", err))
	}
}

// CBOR major types, from the high three bits of the initial byte.
const (
	majorUint   = 0
	majorNegInt = 1
	majorBytes  = 2
	majorText   = 3
	majorArray  = 4
	majorMap    = 5
	majorTag    = 6
	majorSimple = 7
)

// Initial bytes of major type 7 items.
const (
	simpleFalse     = 0xf4
	simpleTrue      = 0xf5
	simpleNull      = 0xf6
	simpleUndefined = 0xf7
	floatHalf       = 0xf9
	floatSingle     = 0xfa
	floatDouble     = 0xfb
)

// DecodeCBOR decodes a single CBOR data item into a typed tree.
//
// Malformed input is an error. Well-formed items that have no typed
// representation become DecodeFailure leaves and decoding continues.
func DecodeCBOR(data []byte) (Value, error) {
	var raw cbor.RawMessage
	if err := decMode.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode value: %w", err)
	}
	return decodeRaw(raw), nil
}

// UnmarshalCBOR decodes data into a map of typed values keyed by K. It is the
// entry point for container formats whose outer levels are plain CBOR maps.
func UnmarshalCBOR[K comparable](data []byte) (map[K]Value, error) {
	var raw map[K]cbor.RawMessage
	if err := decMode.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode value map: %w", err)
	}
	out := make(map[K]Value, len(raw))
	for k, item := range raw {
		out[k] = decodeRaw(item)
	}
	return out, nil
}

func decodeRaw(raw cbor.RawMessage) Value {
	if len(raw) == 0 {
		return Failf("empty data item")
	}

	switch raw[0] >> 5 {
	case majorUint:
		var v uint64
		if err := decMode.Unmarshal(raw, &v); err != nil {
			return Failf("bad unsigned integer: %v", err)
		}
		return Uint(v)

	case majorNegInt:
		var v int64
		if err := decMode.Unmarshal(raw, &v); err != nil {
			return Failf("negative integer out of range: %v", err)
		}
		return Int(v)

	case majorBytes:
		var v []byte
		if err := decMode.Unmarshal(raw, &v); err != nil {
			return Failf("bad byte string: %v", err)
		}
		return Bytes(v)

	case majorText:
		var v string
		if err := decMode.Unmarshal(raw, &v); err != nil {
			return Failf("bad text string: %v", err)
		}
		return String(v)

	case majorArray:
		var items []cbor.RawMessage
		if err := decMode.Unmarshal(raw, &items); err != nil {
			return Failf("bad array: %v", err)
		}
		arr := make(Array, len(items))
		for i, item := range items {
			arr[i] = decodeRaw(item)
		}
		return arr

	case majorMap:
		var m map[uint64]cbor.RawMessage
		if err := decMode.Unmarshal(raw, &m); err != nil {
			return Failf("bad struct: %v", err)
		}
		fields := make(map[FieldID]Value, len(m))
		for k, item := range m {
			if k > math.MaxUint32 {
				return Failf("field id %d out of range", k)
			}
			fields[FieldID(k)] = decodeRaw(item)
		}
		return NewStruct(fields)

	case majorTag:
		var tag cbor.RawTag
		if err := decMode.Unmarshal(raw, &tag); err != nil {
			return Failf("bad tag: %v", err)
		}
		if tag.Number == FailureTag {
			var reason string
			if err := decMode.Unmarshal(tag.Content, &reason); err != nil {
				return Failf("bad failure reason: %v", err)
			}
			return DecodeFailure{Reason: reason}
		}
		return Failf("unsupported tag %d", tag.Number)

	default:
		return decodeSimple(raw)
	}
}

func decodeSimple(raw cbor.RawMessage) Value {
	switch raw[0] {
	case simpleFalse:
		return Bool(false)
	case simpleTrue:
		return Bool(true)
	case simpleNull:
		return Null{}
	case simpleUndefined:
		return Failf("undefined value")
	case floatHalf, floatSingle:
		var v float32
		if err := decMode.Unmarshal(raw, &v); err != nil {
			return Failf("bad float: %v", err)
		}
		return Float32(v)
	case floatDouble:
		var v float64
		if err := decMode.Unmarshal(raw, &v); err != nil {
			return Failf("bad double: %v", err)
		}
		return Float64(v)
	default:
		return Failf("unsupported simple value 0x%02x", raw[0])
	}
}

// EncodeCBOR encodes a typed tree to canonical CBOR. A DecodeFailure is
// written as its reason wrapped in FailureTag.
func EncodeCBOR(v Value) ([]byte, error) {
	native, err := cborNative(v)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(native)
}

// MarshalCBOR encodes a map of typed values keyed by K.
func MarshalCBOR[K comparable](m map[K]Value) ([]byte, error) {
	out := make(map[K]any, len(m))
	for k, v := range m {
		native, err := cborNative(v)
		if err != nil {
			return nil, fmt.Errorf("key %v: %w", k, err)
		}
		out[k] = native
	}
	return encMode.Marshal(out)
}

// cborNative maps a tree onto Go types whose CBOR encoding preserves the
// variant.
func cborNative(v Value) (any, error) {
	switch x := v.(type) {
	case Uint:
		return uint64(x), nil
	case Int:
		return int64(x), nil
	case Bool:
		return bool(x), nil
	case Float32:
		return float32(x), nil
	case Float64:
		return float64(x), nil
	case Bytes:
		return []byte(x), nil
	case String:
		return string(x), nil
	case Null:
		return nil, nil
	case Array:
		out := make([]any, len(x))
		for i, item := range x {
			n, err := cborNative(item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = n
		}
		return out, nil
	case Struct:
		out := make(map[uint32]any, len(x))
		for _, f := range x {
			n, err := cborNative(f.Value)
			if err != nil {
				return nil, fmt.Errorf("field %d: %w", f.ID, err)
			}
			out[uint32(f.ID)] = n
		}
		return out, nil
	case DecodeFailure:
		return cbor.Tag{Number: FailureTag, Content: x.Reason}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotEncodable, v)
	}
}
