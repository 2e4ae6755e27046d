package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mash-protocol/mash-dump/pkg/tagjson"
	"github.com/mash-protocol/mash-dump/pkg/tlv"
)

// RunEncodeFile is RunEncode reading from the file at path.
func RunEncodeFile(path string, w io.Writer, indent int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()
	return RunEncode(f, w, indent)
}

// RunEncode reads one CBOR field map from r and writes its annotated JSON
// form to w.
func RunEncode(r io.Reader, w io.Writer, indent int) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	v, err := tlv.DecodeCBOR(data)
	if err != nil {
		return err
	}

	var tree tlv.Struct
	switch x := v.(type) {
	case tlv.Struct:
		tree = x
	case tlv.DecodeFailure:
		return fmt.Errorf("input is not a field map: %s", x.Reason)
	default:
		return fmt.Errorf("input is not a field map: got %v", v.Kind())
	}

	obj, err := tagjson.Encode(tree)
	if err != nil {
		return err
	}

	out, err := tagjson.Marshal(obj, strings.Repeat(" ", indent))
	if err != nil {
		return err
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}
