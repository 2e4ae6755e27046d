package dump

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

// WriteJSON writes the document as JSON followed by a newline. A positive
// indent pretty-prints with that many spaces per level.
func WriteJSON(w io.Writer, doc Document, indent int) error {
	data, err := doc.MarshalJSON()
	if err != nil {
		return err
	}
	if indent > 0 {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", strings.Repeat(" ", indent)); err != nil {
			return err
		}
		data = buf.Bytes()
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteText writes the untagged pretty-print of a node.
func WriteText(w io.Writer, node Node, indent int) error {
	f := NewFormatter()
	if indent > 0 {
		f.IndentWidth = indent
	}
	return f.WriteNode(w, node)
}

// Paths returns the JSON and text file paths for a dump base path. Any
// extension on base is replaced.
func Paths(base string) (jsonPath, textPath string) {
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + ".json", stem + ".txt"
}

// WriteFiles encodes the node and writes the dump files next to base. The
// node is encoded before anything is written, so an encoder error leaves no
// files behind.
func WriteFiles(base string, node Node, cfg Config) (Document, error) {
	doc, err := Encode(node)
	if err != nil {
		return nil, err
	}

	jsonPath, textPath := Paths(base)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, doc, cfg.Indent); err != nil {
		return nil, fmt.Errorf("failed to format dump: %w", err)
	}
	if err := os.WriteFile(jsonPath, buf.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("failed to write dump: %w", err)
	}

	if cfg.Text {
		buf.Reset()
		if err := WriteText(&buf, node, cfg.TextIndent); err != nil {
			return nil, fmt.Errorf("failed to format text dump: %w", err)
		}
		if err := os.WriteFile(textPath, buf.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("failed to write text dump: %w", err)
		}
	}

	return doc, nil
}

// LoadDocument reads a JSON dump and re-encodes it, giving a document that
// can be compared with Diff.
func LoadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dump: %w", err)
	}
	node, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Encode(node)
}
