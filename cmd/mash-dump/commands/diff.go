package commands

import (
	"fmt"
	"io"

	"github.com/mash-protocol/mash-dump/pkg/dump"
)

// RunDiff compares two dumps and writes one line per change. It reports
// whether the dumps differ.
func RunDiff(pathA, pathB string, w io.Writer) (bool, error) {
	a, err := loadDocument(pathA)
	if err != nil {
		return false, err
	}
	b, err := loadDocument(pathB)
	if err != nil {
		return false, err
	}

	changes := dump.Diff(a, b)
	for _, c := range changes {
		fmt.Fprintln(w, c.String())
	}
	return len(changes) > 0, nil
}
