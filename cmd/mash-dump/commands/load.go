package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mash-protocol/mash-dump/pkg/dump"
)

// loadNode reads a node from a CBOR snapshot or an annotated JSON dump,
// chosen by file extension.
func loadNode(path string) (dump.Node, error) {
	if isSnapshot(path) {
		return dump.LoadSnapshot(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dump: %w", err)
	}
	node, err := dump.ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return node, nil
}

// loadDocument reads a snapshot or JSON dump as an annotated document.
func loadDocument(path string) (dump.Document, error) {
	node, err := loadNode(path)
	if err != nil {
		return nil, err
	}
	doc, err := dump.Encode(node)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func isSnapshot(path string) bool {
	return strings.EqualFold(filepath.Ext(path), dump.SnapshotExt)
}
