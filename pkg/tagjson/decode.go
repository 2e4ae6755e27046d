package tagjson

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/mash-protocol/mash-dump/pkg/tlv"
)

// ErrInvalidDocument is returned when annotated JSON does not match its tags.
var ErrInvalidDocument = errors.New("invalid annotated document")

// errMismatch marks a token that does not fit the tag it was read under.
var errMismatch = errors.New("token does not match tag")

// Decode parses an annotated JSON object back into a typed tree.
//
// Keyed values are decoded strictly by their tag. Array elements use the
// array's sub-tag where it fits and fall back to inference otherwise, since
// the sub-tag only describes the first element. Inference maps integers to
// Uint or Int by sign, other numbers to Float64 and strings to String, so an
// ERROR or BYTES element after the first does not keep its variant.
func Decode(data []byte) (tlv.Struct, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	p := &parser{dec: dec}

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: expected object, got %v", ErrInvalidDocument, tok)
	}

	tree, err := p.object()
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after object", ErrInvalidDocument)
	}
	return tree, nil
}

type parser struct {
	dec *json.Decoder
}

// object reads members up to and including the closing brace.
func (p *parser) object() (tlv.Struct, error) {
	tree := tlv.Struct{}
	seen := make(map[tlv.FieldID]struct{})

	for p.dec.More() {
		tok, err := p.dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected key, got %v", ErrInvalidDocument, tok)
		}

		key, err := ParseKey(name)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[key.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateField, key.ID)
		}
		seen[key.ID] = struct{}{}

		tok, err = p.dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		v, err := p.typed(tok, key.Tag, key.SubTag)
		if errors.Is(err, errMismatch) {
			return nil, fmt.Errorf("%w: key %q: %v", ErrInvalidDocument, name, err)
		}
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", name, err)
		}
		tree = append(tree, tlv.Field{ID: key.ID, Value: v})
	}

	if err := p.closing('}'); err != nil {
		return nil, err
	}
	return tree, nil
}

// array reads elements up to and including the closing bracket.
func (p *parser) array(hint Tag) (tlv.Array, error) {
	arr := tlv.Array{}

	for p.dec.More() {
		tok, err := p.dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}

		var v tlv.Value
		if hint != "" && hint != TagUnknown {
			v, err = p.typed(tok, hint, "")
			if errors.Is(err, errMismatch) {
				v, err = p.infer(tok)
			}
		} else {
			v, err = p.infer(tok)
		}
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", len(arr), err)
		}
		arr = append(arr, v)
	}

	if err := p.closing(']'); err != nil {
		return nil, err
	}
	return arr, nil
}

func (p *parser) closing(want json.Delim) error {
	tok, err := p.dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%w: expected %v, got %v", ErrInvalidDocument, want, tok)
	}
	return nil
}

// typed decodes tok as the given tag. Scalar mismatches return errMismatch
// before anything beyond tok is consumed.
func (p *parser) typed(tok json.Token, tag, sub Tag) (tlv.Value, error) {
	switch tag {
	case TagUint:
		n, ok := tok.(json.Number)
		if !ok {
			return nil, errMismatch
		}
		u, err := strconv.ParseUint(n.String(), 10, 64)
		if err != nil {
			return nil, errMismatch
		}
		return tlv.Uint(u), nil

	case TagInt:
		n, ok := tok.(json.Number)
		if !ok {
			return nil, errMismatch
		}
		i, err := strconv.ParseInt(n.String(), 10, 64)
		if err != nil {
			return nil, errMismatch
		}
		return tlv.Int(i), nil

	case TagBool:
		b, ok := tok.(bool)
		if !ok {
			return nil, errMismatch
		}
		return tlv.Bool(b), nil

	case TagFloat:
		f, err := parseFloat(tok, 32)
		if err != nil {
			return nil, err
		}
		return tlv.Float32(float32(f)), nil

	case TagDouble:
		f, err := parseFloat(tok, 64)
		if err != nil {
			return nil, err
		}
		return tlv.Float64(f), nil

	case TagBytes:
		s, ok := tok.(string)
		if !ok {
			return nil, errMismatch
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, errMismatch
		}
		return tlv.Bytes(b), nil

	case TagString:
		s, ok := tok.(string)
		if !ok {
			return nil, errMismatch
		}
		return tlv.String(s), nil

	case TagError:
		s, ok := tok.(string)
		if !ok {
			return nil, errMismatch
		}
		return tlv.DecodeFailure{Reason: s}, nil

	case TagNull:
		if tok != nil {
			return nil, errMismatch
		}
		return tlv.Null{}, nil

	case TagStruct:
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return nil, errMismatch
		}
		return p.object()

	case TagArray:
		if d, ok := tok.(json.Delim); !ok || d != '[' {
			return nil, errMismatch
		}
		return p.array(sub)

	default:
		return nil, fmt.Errorf("%w: unknown tag %q", ErrInvalidKey, tag)
	}
}

// infer picks a variant from the JSON token alone.
func (p *parser) infer(tok json.Token) (tlv.Value, error) {
	switch x := tok.(type) {
	case nil:
		return tlv.Null{}, nil
	case bool:
		return tlv.Bool(x), nil
	case string:
		return tlv.String(x), nil
	case json.Number:
		s := x.String()
		if !strings.ContainsAny(s, ".eE") {
			if strings.HasPrefix(s, "-") {
				if i, err := strconv.ParseInt(s, 10, 64); err == nil {
					return tlv.Int(i), nil
				}
			} else if u, err := strconv.ParseUint(s, 10, 64); err == nil {
				return tlv.Uint(u), nil
			}
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad number %q", ErrInvalidDocument, s)
		}
		return tlv.Float64(f), nil
	case json.Delim:
		switch x {
		case '{':
			return p.object()
		case '[':
			return p.array("")
		}
	}
	return nil, fmt.Errorf("%w: unexpected token %v", ErrInvalidDocument, tok)
}

func parseFloat(tok json.Token, bits int) (float64, error) {
	switch x := tok.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(x.String(), bits)
		if err != nil {
			return 0, errMismatch
		}
		return f, nil
	case string:
		switch x {
		case nanString:
			return math.NaN(), nil
		case posInfString:
			return math.Inf(1), nil
		case negInfString:
			return math.Inf(-1), nil
		}
	}
	return 0, errMismatch
}
