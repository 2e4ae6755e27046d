package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mash-protocol/mash-dump/pkg/dump"
)

// RunSnapshot converts an annotated JSON dump into a CBOR snapshot. An empty
// output path writes next to the input with the snapshot extension. It
// returns the path written.
func RunSnapshot(path, output string) (string, error) {
	if isSnapshot(path) {
		return "", fmt.Errorf("%s is already a snapshot", path)
	}

	node, err := loadNode(path)
	if err != nil {
		return "", err
	}

	if output == "" {
		output = strings.TrimSuffix(path, filepath.Ext(path)) + dump.SnapshotExt
	}
	if err := dump.SaveSnapshot(output, node); err != nil {
		return "", err
	}
	return output, nil
}
