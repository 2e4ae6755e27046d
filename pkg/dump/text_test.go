package dump

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/mash-protocol/mash-dump/pkg/tlv"
)

func TestFormatValue(t *testing.T) {
	f := NewFormatter()

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, "null"},
		{"true", true, "true"},
		{"false", false, "false"},
		{"string", "hello", `"hello"`},
		{"uint64", uint64(42), "42"},
		{"int64", int64(-7), "-7"},
		{"float32", float32(1.5), "1.5"},
		{"float64", float64(230.25), "230.25"},
		{"bytes", []byte{0xde, 0xad}, "0xdead"},
		{"error", errors.New("bad TLV"), "<decode failure: bad TLV>"},
		{"decode failure", tlv.DecodeFailure{Reason: "truncated"}, "<decode failure: truncated>"},
		{"other", []int{1}, "[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.FormatValue(tt.value); got != tt.want {
				t.Errorf("FormatValue(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestFormatterIndent(t *testing.T) {
	f := &Formatter{IndentWidth: 4}
	if got := f.Indent(2, "x"); got != "        x" {
		t.Errorf("Indent(2) = %q", got)
	}

	f = &Formatter{}
	if got := f.Indent(1, "x"); got != "  x" {
		t.Errorf("zero width should fall back to 2, got %q", got)
	}
}

func TestWriteNodeNestedArrays(t *testing.T) {
	node := Node{
		{ID: 2, Fields: tlv.Struct{
			{ID: 1, Value: tlv.Array{
				tlv.Struct{{ID: 1, Value: tlv.Uint(1)}},
				tlv.Struct{},
			}},
		}},
		{ID: 3},
	}

	var buf bytes.Buffer
	if err := NewFormatter().WriteNode(&buf, node); err != nil {
		t.Fatalf("WriteNode failed: %v", err)
	}

	want := strings.Join([]string{
		"Endpoint 2:",
		"  [1]:",
		"    - 0:",
		"      [1]: 1",
		"    - 1: {}",
		"Endpoint 3:",
		"  (no features)",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("WriteNode output:\n%s\nwant:\n%s", buf.String(), want)
	}
}
