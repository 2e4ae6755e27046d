package tagjson

import (
	"fmt"
	"strconv"
)

// ChangeType classifies a difference between two annotated objects.
type ChangeType uint8

const (
	ChangeAdded ChangeType = iota
	ChangeRemoved
	ChangeModified
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	case ChangeModified:
		return "modified"
	default:
		return "unknown"
	}
}

// Change is one difference found by Diff.
type Change struct {
	// Path is the slash-separated key path, with array indices as [n].
	Path string
	Type ChangeType
	Old  any
	New  any
}

// String formats the change for display.
func (c Change) String() string {
	switch c.Type {
	case ChangeAdded:
		return fmt.Sprintf("+ %s: %v", c.Path, c.New)
	case ChangeRemoved:
		return fmt.Sprintf("- %s: %v", c.Path, c.Old)
	default:
		return fmt.Sprintf("~ %s: %v -> %v", c.Path, c.Old, c.New)
	}
}

// Diff compares two annotated objects. Keys are compared verbatim, so a
// field whose type tag changed shows up as removed plus added.
func Diff(a, b Object) []Change {
	var changes []Change
	diffObjects("", a, b, &changes)
	return changes
}

func diffObjects(prefix string, a, b Object, changes *[]Change) {
	for _, m := range a {
		path := join(prefix, m.Key)
		nv, ok := b.Get(m.Key)
		if !ok {
			*changes = append(*changes, Change{Path: path, Type: ChangeRemoved, Old: m.Value})
			continue
		}
		diffValues(path, m.Value, nv, changes)
	}
	for _, m := range b {
		if _, ok := a.Get(m.Key); !ok {
			*changes = append(*changes, Change{Path: join(prefix, m.Key), Type: ChangeAdded, New: m.Value})
		}
	}
}

func diffValues(path string, a, b any, changes *[]Change) {
	switch x := a.(type) {
	case Object:
		if y, ok := b.(Object); ok {
			diffObjects(path, x, y, changes)
			return
		}
	case []any:
		if y, ok := b.([]any); ok {
			diffArrays(path, x, y, changes)
			return
		}
	default:
		if sameScalar(a, b) {
			return
		}
	}
	*changes = append(*changes, Change{Path: path, Type: ChangeModified, Old: a, New: b})
}

func diffArrays(path string, a, b []any, changes *[]Change) {
	n := max(len(a), len(b))
	for i := 0; i < n; i++ {
		p := path + "[" + strconv.Itoa(i) + "]"
		switch {
		case i >= len(a):
			*changes = append(*changes, Change{Path: p, Type: ChangeAdded, New: b[i]})
		case i >= len(b):
			*changes = append(*changes, Change{Path: p, Type: ChangeRemoved, Old: a[i]})
		default:
			diffValues(p, a[i], b[i], changes)
		}
	}
}

func sameScalar(a, b any) bool {
	switch a.(type) {
	case Object, []any:
		return false
	}
	switch b.(type) {
	case Object, []any:
		return false
	}
	return a == b
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}
