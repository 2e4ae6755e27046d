package tagjson

import (
	"encoding/base64"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mash-protocol/mash-dump/pkg/tlv"
)

func TestEncodeScenarios(t *testing.T) {
	tests := []struct {
		name string
		tree tlv.Struct
		want Object
	}{
		{
			name: "boolean",
			tree: tlv.Struct{{ID: 1, Value: tlv.Bool(true)}},
			want: Object{{Key: "1:BOOL", Value: true}},
		},
		{
			name: "empty array",
			tree: tlv.Struct{{ID: 2, Value: tlv.Array{}}},
			want: Object{{Key: "2:ARRAY-?", Value: []any{}}},
		},
		{
			name: "uint array",
			tree: tlv.Struct{{ID: 3, Value: tlv.Array{tlv.Uint(5), tlv.Uint(6)}}},
			want: Object{{Key: "3:ARRAY-UINT", Value: []any{uint64(5), uint64(6)}}},
		},
		{
			name: "bytes",
			tree: tlv.Struct{{ID: 4, Value: tlv.Bytes{0x00, 0x01}}},
			want: Object{{Key: "4:BYTES", Value: "AAE="}},
		},
		{
			name: "decode failure",
			tree: tlv.Struct{{ID: 5, Value: tlv.DecodeFailure{Reason: "bad TLV"}}},
			want: Object{{Key: "5:ERROR", Value: "bad TLV"}},
		},
		{
			name: "struct with float",
			tree: tlv.Struct{{ID: 6, Value: tlv.Struct{{ID: 7, Value: tlv.Float32(1.5)}}}},
			want: Object{{Key: "6:STRUCT", Value: Object{{Key: "7:FLOAT", Value: float32(1.5)}}}},
		},
		{
			name: "empty input",
			tree: tlv.Struct{},
			want: Object{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.tree)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Encode mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeScalarTags(t *testing.T) {
	tests := []struct {
		value tlv.Value
		key   string
		want  any
	}{
		{tlv.Uint(math.MaxUint64), "9:UINT", uint64(math.MaxUint64)},
		{tlv.Int(-5), "9:INT", int64(-5)},
		{tlv.Bool(false), "9:BOOL", false},
		{tlv.Float32(0.25), "9:FLOAT", float32(0.25)},
		{tlv.Float64(0.1), "9:DOUBLE", 0.1},
		{tlv.String("evse"), "9:STRING", "evse"},
		{tlv.Null{}, "9:NULL", nil},
		{tlv.Float64(math.Inf(1)), "9:DOUBLE", "Infinity"},
		{tlv.Float32(float32(math.Inf(-1))), "9:FLOAT", "-Infinity"},
		{tlv.Float64(math.NaN()), "9:DOUBLE", "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := Encode(tlv.Struct{{ID: 9, Value: tt.value}})
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			want := Object{{Key: tt.key, Value: tt.want}}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Encode mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTagTableCoversEveryKind(t *testing.T) {
	for k := tlv.KindUint; k <= tlv.KindDecodeFailure; k++ {
		if _, ok := TagOf(k); !ok {
			t.Errorf("kind %v has no tag", k)
		}
	}
	if _, ok := TagOf(tlv.KindInvalid); ok {
		t.Error("KindInvalid should have no tag")
	}
}

func TestEncodeBytesRoundTrip(t *testing.T) {
	payload := []byte{0x00, 0xff, 0x10, 0x80, 0x7f}

	got, err := Encode(tlv.Struct{{ID: 1, Value: tlv.Bytes(payload)}})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	v, _ := got.Get("1:BYTES")
	s, ok := v.(string)
	if !ok {
		t.Fatalf("BYTES value is %T, want string", v)
	}
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		t.Fatalf("base64 decode failed: %v", err)
	}
	if diff := cmp.Diff(payload, decoded); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeArraySubTagUsesFirstElement(t *testing.T) {
	tests := []struct {
		name string
		arr  tlv.Array
		key  string
	}{
		{"empty", tlv.Array{}, "1:ARRAY-?"},
		{"strings", tlv.Array{tlv.String("a")}, "1:ARRAY-STRING"},
		{"mixed keeps first", tlv.Array{tlv.Int(-1), tlv.String("a"), tlv.Null{}}, "1:ARRAY-INT"},
		{"struct elements", tlv.Array{tlv.Struct{}}, "1:ARRAY-STRUCT"},
		{"nested arrays", tlv.Array{tlv.Array{tlv.Uint(1)}}, "1:ARRAY-ARRAY"},
		{"failure first", tlv.Array{tlv.DecodeFailure{Reason: "x"}}, "1:ARRAY-ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tlv.Struct{{ID: 1, Value: tt.arr}})
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if keys := got.Keys(); len(keys) != 1 || keys[0] != tt.key {
				t.Errorf("keys = %v, want [%s]", keys, tt.key)
			}
		})
	}
}

func TestEncodeArrayElements(t *testing.T) {
	arr := tlv.Array{
		tlv.Struct{{ID: 0, Value: tlv.Bytes{0x01}}},
		tlv.Array{tlv.Float64(2)},
		tlv.DecodeFailure{Reason: "element lost"},
	}

	got, err := Encode(tlv.Struct{{ID: 1, Value: arr}})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := Object{{
		Key: "1:ARRAY-STRUCT",
		Value: []any{
			Object{{Key: "0:BYTES", Value: "AQ=="}},
			[]any{float64(2)},
			"element lost",
		},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Encode mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeDeepNesting(t *testing.T) {
	const depth = 64

	var tree tlv.Struct = tlv.Struct{{ID: 99, Value: tlv.String("leaf")}}
	for i := 0; i < depth; i++ {
		tree = tlv.Struct{{ID: tlv.FieldID(i), Value: tree}}
	}

	got, err := Encode(tree)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var cur any = got
	for i := depth - 1; i >= 0; i-- {
		obj, ok := cur.(Object)
		if !ok || len(obj) != 1 {
			t.Fatalf("level %d: got %#v", i, cur)
		}
		cur = obj[0].Value
	}
	leaf, ok := cur.(Object)
	if !ok {
		t.Fatalf("leaf level is %T", cur)
	}
	if v, _ := leaf.Get("99:STRING"); v != "leaf" {
		t.Errorf("leaf = %v, want leaf", v)
	}
}

func TestEncodeDecodeFailureKeepsSiblings(t *testing.T) {
	tree := tlv.Struct{
		{ID: 1, Value: tlv.Uint(1)},
		{ID: 2, Value: tlv.DecodeFailure{Reason: "bad TLV"}},
		{ID: 3, Value: tlv.Struct{
			{ID: 1, Value: tlv.DecodeFailure{Reason: "nested"}},
			{ID: 2, Value: tlv.Bool(true)},
		}},
	}

	got, err := Encode(tree)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := Object{
		{Key: "1:UINT", Value: uint64(1)},
		{Key: "2:ERROR", Value: "bad TLV"},
		{Key: "3:STRUCT", Value: Object{
			{Key: "1:ERROR", Value: "nested"},
			{Key: "2:BOOL", Value: true},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Encode mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeDoesNotMutateInput(t *testing.T) {
	build := func() tlv.Struct {
		return tlv.Struct{
			{ID: 3, Value: tlv.Bytes{1, 2, 3}},
			{ID: 1, Value: tlv.Array{tlv.Struct{{ID: 5, Value: tlv.Float32(1)}}, tlv.Uint(2)}},
			{ID: 2, Value: tlv.DecodeFailure{Reason: "x"}},
		}
	}
	tree := build()

	if _, err := Encode(tree); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !tlv.Equal(tree, build()) {
		t.Errorf("input mutated: %#v", tree)
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	tree := tlv.Struct{
		{ID: 10, Value: tlv.Uint(1)},
		{ID: 2, Value: tlv.String("b")},
		{ID: 7, Value: tlv.Array{tlv.Int(1)}},
	}

	first, err := Encode(tree)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Encode(tree)
			if err != nil {
				t.Errorf("Encode failed: %v", err)
				return
			}
			if diff := cmp.Diff(first, got); diff != "" {
				t.Errorf("concurrent Encode differs:\n%s", diff)
			}
		}()
	}
	wg.Wait()

	want := []string{"10:UINT", "2:STRING", "7:ARRAY-INT"}
	if diff := cmp.Diff(want, first.Keys()); diff != "" {
		t.Errorf("key order (-want +got):\n%s", diff)
	}
}

// foreign embeds a known variant but is not one of them.
type foreign struct {
	tlv.Null
}

func TestEncodeUnmappedVariantFails(t *testing.T) {
	tests := []struct {
		name string
		tree tlv.Struct
	}{
		{"foreign type", tlv.Struct{{ID: 1, Value: foreign{}}}},
		{"nil value", tlv.Struct{{ID: 1, Value: nil}}},
		{"inside array", tlv.Struct{{ID: 1, Value: tlv.Array{tlv.Uint(1), foreign{}}}}},
		{"first array element", tlv.Struct{{ID: 1, Value: tlv.Array{nil}}}},
		{"deep in struct", tlv.Struct{
			{ID: 1, Value: tlv.Uint(1)},
			{ID: 2, Value: tlv.Struct{{ID: 3, Value: foreign{}}}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.tree)
			if !errors.Is(err, ErrUnmappedVariant) {
				t.Fatalf("Encode error = %v, want ErrUnmappedVariant", err)
			}
			if got != nil {
				t.Errorf("Encode returned partial output %#v", got)
			}
		})
	}
}

func TestEncodeDuplicateField(t *testing.T) {
	tree := tlv.Struct{
		{ID: 1, Value: tlv.Uint(1)},
		{ID: 1, Value: tlv.Int(1)},
	}
	if _, err := Encode(tree); !errors.Is(err, ErrDuplicateField) {
		t.Fatalf("Encode error = %v, want ErrDuplicateField", err)
	}
}
