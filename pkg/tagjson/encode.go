package tagjson

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"

	"github.com/mash-protocol/mash-dump/pkg/tlv"
)

// Encoder errors.
var (
	// ErrUnmappedVariant means a value's type has no tag. The tag table and
	// the value model are out of sync; the dump must not be produced.
	ErrUnmappedVariant = errors.New("value type has no tag")

	// ErrDuplicateField means a struct holds the same field ID twice.
	ErrDuplicateField = errors.New("duplicate field id")

	// ErrInvalidKey is returned for annotated keys that cannot be parsed.
	ErrInvalidKey = errors.New("invalid annotated key")
)

// Encode converts a field mapping into an annotated JSON object.
//
// Fields are emitted in input order. A DecodeFailure anywhere in the tree is
// encoded as its message; only a value of unknown type (or a nil Value) or a
// duplicate field ID makes Encode fail.
func Encode(tree tlv.Struct) (Object, error) {
	obj := make(Object, 0, len(tree))
	seen := make(map[tlv.FieldID]struct{}, len(tree))

	for _, f := range tree {
		if _, dup := seen[f.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateField, f.ID)
		}
		seen[f.ID] = struct{}{}

		key, err := keyFor(f.ID, f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", f.ID, err)
		}

		converted, err := convert(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", f.ID, err)
		}

		obj = append(obj, Member{Key: key.String(), Value: converted})
	}

	return obj, nil
}

// keyFor builds the annotated key for one field.
func keyFor(id tlv.FieldID, v tlv.Value) (Key, error) {
	tag, err := tagFor(v)
	if err != nil {
		return Key{}, err
	}

	key := Key{ID: id, Tag: tag}
	if arr, ok := v.(tlv.Array); ok {
		// Only the first element is consulted; mixed arrays keep its tag.
		key.SubTag = TagUnknown
		if len(arr) > 0 {
			key.SubTag, err = tagFor(arr[0])
			if err != nil {
				return Key{}, fmt.Errorf("element 0: %w", err)
			}
		}
	}
	return key, nil
}

// tagFor looks up the tag of a value's dynamic type.
func tagFor(v tlv.Value) (Tag, error) {
	kind, err := kindFor(v)
	if err != nil {
		return "", err
	}
	tag, ok := tagTable[kind]
	if !ok {
		return "", fmt.Errorf("%w: kind %v", ErrUnmappedVariant, kind)
	}
	return tag, nil
}

// kindFor resolves the variant from the concrete type rather than from
// Value.Kind, so a foreign type cannot pass itself off as a known variant.
func kindFor(v tlv.Value) (tlv.Kind, error) {
	switch v.(type) {
	case tlv.Uint:
		return tlv.KindUint, nil
	case tlv.Int:
		return tlv.KindInt, nil
	case tlv.Bool:
		return tlv.KindBool, nil
	case tlv.Array:
		return tlv.KindArray, nil
	case tlv.Struct:
		return tlv.KindStruct, nil
	case tlv.Float32:
		return tlv.KindFloat32, nil
	case tlv.Float64:
		return tlv.KindFloat64, nil
	case tlv.Bytes:
		return tlv.KindBytes, nil
	case tlv.String:
		return tlv.KindString, nil
	case tlv.DecodeFailure:
		return tlv.KindDecodeFailure, nil
	case tlv.Null:
		return tlv.KindNull, nil
	default:
		return tlv.KindInvalid, fmt.Errorf("%w: %T", ErrUnmappedVariant, v)
	}
}

// convert produces the JSON-safe payload of a value.
func convert(v tlv.Value) (any, error) {
	switch x := v.(type) {
	case tlv.Uint:
		return uint64(x), nil
	case tlv.Int:
		return int64(x), nil
	case tlv.Bool:
		return bool(x), nil
	case tlv.Float32:
		if s, ok := nonFinite(float64(x)); ok {
			return s, nil
		}
		return float32(x), nil
	case tlv.Float64:
		if s, ok := nonFinite(float64(x)); ok {
			return s, nil
		}
		return float64(x), nil
	case tlv.Bytes:
		return base64.StdEncoding.EncodeToString(x), nil
	case tlv.String:
		return string(x), nil
	case tlv.Null:
		return nil, nil
	case tlv.DecodeFailure:
		return x.Reason, nil
	case tlv.Array:
		out := make([]any, len(x))
		for i, item := range x {
			c, err := convert(item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = c
		}
		return out, nil
	case tlv.Struct:
		return Encode(x)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnmappedVariant, v)
	}
}

// Spellings for floats JSON numbers cannot carry.
const (
	nanString    = "NaN"
	posInfString = "Infinity"
	negInfString = "-Infinity"
)

func nonFinite(f float64) (string, bool) {
	switch {
	case math.IsNaN(f):
		return nanString, true
	case math.IsInf(f, 1):
		return posInfString, true
	case math.IsInf(f, -1):
		return negInfString, true
	default:
		return "", false
	}
}
