package tagjson

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mash-protocol/mash-dump/pkg/tlv"
)

// Tag is the type annotation carried in an annotated key.
type Tag string

const (
	TagUint   Tag = "UINT"
	TagInt    Tag = "INT"
	TagBool   Tag = "BOOL"
	TagArray  Tag = "ARRAY"
	TagStruct Tag = "STRUCT"
	TagFloat  Tag = "FLOAT"
	TagDouble Tag = "DOUBLE"
	TagBytes  Tag = "BYTES"
	TagString Tag = "STRING"
	TagError  Tag = "ERROR"
	TagNull   Tag = "NULL"

	// TagUnknown is the sub-tag of an empty array.
	TagUnknown Tag = "?"
)

// tagTable maps every value kind to its tag.
var tagTable = map[tlv.Kind]Tag{
	tlv.KindUint:          TagUint,
	tlv.KindInt:           TagInt,
	tlv.KindBool:          TagBool,
	tlv.KindArray:         TagArray,
	tlv.KindStruct:        TagStruct,
	tlv.KindFloat32:       TagFloat,
	tlv.KindFloat64:       TagDouble,
	tlv.KindBytes:         TagBytes,
	tlv.KindString:        TagString,
	tlv.KindDecodeFailure: TagError,
	tlv.KindNull:          TagNull,
}

// kindTable is the inverse of tagTable.
var kindTable = func() map[Tag]tlv.Kind {
	m := make(map[Tag]tlv.Kind, len(tagTable))
	for k, t := range tagTable {
		m[t] = k
	}
	return m
}()

// TagOf returns the tag for a kind.
func TagOf(k tlv.Kind) (Tag, bool) {
	t, ok := tagTable[k]
	return t, ok
}

// KindOf returns the kind a tag stands for.
func KindOf(t Tag) (tlv.Kind, bool) {
	k, ok := kindTable[t]
	return k, ok
}

// Key is a parsed annotated key.
type Key struct {
	ID     tlv.FieldID
	Tag    Tag
	SubTag Tag // empty unless Tag is TagArray
}

// String formats the key as "<id>:<tag>" or "<id>:<tag>-<subtag>".
func (k Key) String() string {
	if k.SubTag != "" {
		return fmt.Sprintf("%d:%s-%s", k.ID, k.Tag, k.SubTag)
	}
	return fmt.Sprintf("%d:%s", k.ID, k.Tag)
}

// ParseKey parses an annotated key.
func ParseKey(s string) (Key, error) {
	idPart, tagPart, ok := strings.Cut(s, ":")
	if !ok {
		return Key{}, fmt.Errorf("%w: %q has no tag", ErrInvalidKey, s)
	}

	id, err := strconv.ParseUint(idPart, 10, 32)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q has bad field id", ErrInvalidKey, s)
	}

	key := Key{ID: tlv.FieldID(id)}
	tag, sub, hasSub := strings.Cut(tagPart, "-")
	key.Tag = Tag(tag)
	if _, known := KindOf(key.Tag); !known {
		return Key{}, fmt.Errorf("%w: %q has unknown tag %q", ErrInvalidKey, s, tag)
	}

	if hasSub {
		if key.Tag != TagArray {
			return Key{}, fmt.Errorf("%w: %q has a sub-tag on a non-array", ErrInvalidKey, s)
		}
		key.SubTag = Tag(sub)
		if _, known := KindOf(key.SubTag); !known && key.SubTag != TagUnknown {
			return Key{}, fmt.Errorf("%w: %q has unknown sub-tag %q", ErrInvalidKey, s, sub)
		}
	} else if key.Tag == TagArray {
		return Key{}, fmt.Errorf("%w: %q is an array without a sub-tag", ErrInvalidKey, s)
	}

	return key, nil
}
