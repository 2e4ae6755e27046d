package tlv

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestDecodeCBORScalars(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Value
	}{
		{"uint small", []byte{0x05}, Uint(5)},
		{"uint 64-bit", []byte{0x1b, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, Uint(math.MaxUint64)},
		{"negative int", []byte{0x20}, Int(-1)},
		{"false", []byte{0xf4}, Bool(false)},
		{"true", []byte{0xf5}, Bool(true)},
		{"null", []byte{0xf6}, Null{}},
		{"half float widens to float32", []byte{0xf9, 0x3e, 0x00}, Float32(1.5)},
		{"single float", []byte{0xfa, 0x3f, 0xc0, 0x00, 0x00}, Float32(1.5)},
		{"double", []byte{0xfb, 0x3f, 0xf8, 0, 0, 0, 0, 0, 0}, Float64(1.5)},
		{"bytes", []byte{0x42, 0x00, 0x01}, Bytes{0x00, 0x01}},
		{"text", []byte{0x63, 'a', 'b', 'c'}, String("abc")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCBOR(tt.data)
			if err != nil {
				t.Fatalf("DecodeCBOR failed: %v", err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("DecodeCBOR = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeCBORContainers(t *testing.T) {
	// {2: [1, -1], 1: {3: "x"}}
	data := []byte{
		0xa2,
		0x02, 0x82, 0x01, 0x20,
		0x01, 0xa1, 0x03, 0x61, 'x',
	}

	got, err := DecodeCBOR(data)
	if err != nil {
		t.Fatalf("DecodeCBOR failed: %v", err)
	}

	want := Struct{
		{ID: 1, Value: Struct{{ID: 3, Value: String("x")}}},
		{ID: 2, Value: Array{Uint(1), Int(-1)}},
	}
	if !Equal(got, want) {
		t.Errorf("DecodeCBOR = %#v, want %#v", got, want)
	}
}

func TestDecodeCBORFailuresAreData(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		reason string
	}{
		{"negative int overflow", []byte{0x3b, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, "out of range"},
		{"undefined", []byte{0xf7}, "undefined"},
		{"tag", []byte{0xc1, 0x05}, "unsupported tag 1"},
		{"text map key", []byte{0xa1, 0x61, 'a', 0x01}, "bad struct"},
		{"field id too large", []byte{0xa1, 0x1b, 0, 0, 0, 1, 0, 0, 0, 0, 0x01}, "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCBOR(tt.data)
			if err != nil {
				t.Fatalf("DecodeCBOR failed: %v", err)
			}
			df, ok := got.(DecodeFailure)
			if !ok {
				t.Fatalf("DecodeCBOR = %#v, want DecodeFailure", got)
			}
			if !strings.Contains(df.Reason, tt.reason) {
				t.Errorf("reason = %q, want substring %q", df.Reason, tt.reason)
			}
		})
	}
}

func TestDecodeCBORSiblingSurvivesFailure(t *testing.T) {
	// {1: undefined, 2: 7}
	got, err := DecodeCBOR([]byte{0xa2, 0x01, 0xf7, 0x02, 0x07})
	if err != nil {
		t.Fatalf("DecodeCBOR failed: %v", err)
	}
	s, ok := got.(Struct)
	if !ok {
		t.Fatalf("DecodeCBOR = %T, want Struct", got)
	}
	if v, _ := s.Get(1); v.Kind() != KindDecodeFailure {
		t.Errorf("field 1 kind = %v, want decode-failure", v.Kind())
	}
	if v, _ := s.Get(2); !Equal(v, Uint(7)) {
		t.Errorf("field 2 = %#v, want Uint(7)", v)
	}
}

func TestDecodeCBORMalformed(t *testing.T) {
	inputs := [][]byte{
		nil,
		{0x18},       // truncated uint
		{0x01, 0x02}, // trailing data
	}
	for _, data := range inputs {
		if _, err := DecodeCBOR(data); err == nil {
			t.Errorf("DecodeCBOR(%x) succeeded, want error", data)
		}
	}
}

func TestEncodeCBORRoundTrip(t *testing.T) {
	tree := Struct{
		{ID: 0, Value: Uint(42)},
		{ID: 1, Value: Int(-7)},
		{ID: 2, Value: Float32(0.25)},
		{ID: 3, Value: Float64(0.1)},
		{ID: 4, Value: Bytes{0xde, 0xad}},
		{ID: 5, Value: String("evse")},
		{ID: 6, Value: Null{}},
		{ID: 7, Value: Array{Bool(true), Struct{{ID: 9, Value: Uint(1)}}}},
	}

	data, err := EncodeCBOR(tree)
	if err != nil {
		t.Fatalf("EncodeCBOR failed: %v", err)
	}
	got, err := DecodeCBOR(data)
	if err != nil {
		t.Fatalf("DecodeCBOR failed: %v", err)
	}
	if !Equal(got, tree) {
		t.Errorf("round trip = %#v, want %#v", got, tree)
	}
}

func TestEncodeCBORKeepsDecodeFailure(t *testing.T) {
	tree := Struct{{ID: 1, Value: Array{Uint(1), DecodeFailure{Reason: "bad TLV"}}}}

	data, err := EncodeCBOR(tree)
	if err != nil {
		t.Fatalf("EncodeCBOR failed: %v", err)
	}
	got, err := DecodeCBOR(data)
	if err != nil {
		t.Fatalf("DecodeCBOR failed: %v", err)
	}
	if !Equal(got, tree) {
		t.Errorf("round trip = %#v, want %#v", got, tree)
	}
}

// embedded satisfies Value without being one of its variants.
type embedded struct {
	Null
}

func TestEncodeCBORRejectsForeignValue(t *testing.T) {
	tree := Struct{{ID: 1, Value: Array{embedded{}}}}

	_, err := EncodeCBOR(tree)
	if !errors.Is(err, ErrNotEncodable) {
		t.Fatalf("EncodeCBOR error = %v, want ErrNotEncodable", err)
	}
	if !strings.Contains(err.Error(), "field 1: element 0") {
		t.Errorf("error %q does not locate the failure", err)
	}
}

func TestMarshalUnmarshalCBORMap(t *testing.T) {
	in := map[uint16]Value{
		0: Struct{{ID: 1, Value: String("root")}},
		1: Struct{{ID: 2, Value: Float32(3.5)}},
	}

	data, err := MarshalCBOR(in)
	if err != nil {
		t.Fatalf("MarshalCBOR failed: %v", err)
	}
	out, err := UnmarshalCBOR[uint16](data)
	if err != nil {
		t.Fatalf("UnmarshalCBOR failed: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("len = %d, want %d", len(out), len(in))
	}
	for k, v := range in {
		if !Equal(out[k], v) {
			t.Errorf("key %d = %#v, want %#v", k, out[k], v)
		}
	}
}

func TestDecodeCBORDeepNesting(t *testing.T) {
	const depth = 100

	var tree Value = Uint(7)
	for i := 0; i < depth; i++ {
		if i%2 == 0 {
			tree = Struct{{ID: 1, Value: tree}}
		} else {
			tree = Array{tree}
		}
	}

	data, err := EncodeCBOR(tree)
	if err != nil {
		t.Fatalf("EncodeCBOR failed: %v", err)
	}
	got, err := DecodeCBOR(data)
	if err != nil {
		t.Fatalf("DecodeCBOR failed at depth %d: %v", depth, err)
	}
	if !Equal(tree, got) {
		t.Errorf("tree of depth %d changed in round trip", depth)
	}
}
