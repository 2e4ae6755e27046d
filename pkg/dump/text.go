package dump

import (
	"fmt"
	"io"
	"strings"

	"github.com/mash-protocol/mash-dump/pkg/tlv"
)

// Formatter renders the untagged view of a node.
type Formatter struct {
	// IndentWidth is the number of spaces per indent level
	IndentWidth int
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{IndentWidth: 2}
}

// Indent returns the content with indentation.
func (f *Formatter) Indent(depth int, content string) string {
	width := f.IndentWidth
	if width == 0 {
		width = 2
	}
	return strings.Repeat(" ", depth*width) + content
}

// FormatValue formats a scalar from the untagged view for display.
func (f *Formatter) FormatValue(value any) string {
	if value == nil {
		return "null"
	}

	switch v := value.(type) {
	case bool:
		if v {
			return "true"
		}
		return "false"

	case string:
		return fmt.Sprintf("%q", v)

	case uint64:
		return fmt.Sprintf("%d", v)

	case int64:
		return fmt.Sprintf("%d", v)

	case float32:
		return fmt.Sprintf("%g", v)

	case float64:
		return fmt.Sprintf("%g", v)

	case []byte:
		return fmt.Sprintf("0x%x", v)

	case error:
		return fmt.Sprintf("<decode failure: %s>", v.Error())

	default:
		return fmt.Sprintf("%v", v)
	}
}

// WriteNode writes the whole node, endpoint by endpoint.
func (f *Formatter) WriteNode(w io.Writer, node Node) error {
	var sb strings.Builder
	for _, ep := range node {
		sb.WriteString(fmt.Sprintf("Endpoint %d:\n", ep.ID))
		if len(ep.Fields) == 0 {
			sb.WriteString(f.Indent(1, "(no features)\n"))
			continue
		}
		f.writeFields(&sb, 1, ep.Fields)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (f *Formatter) writeFields(sb *strings.Builder, depth int, fields tlv.Struct) {
	for _, field := range fields {
		f.writeEntry(sb, depth, fmt.Sprintf("[%d]", field.ID), field.Value)
	}
}

func (f *Formatter) writeEntry(sb *strings.Builder, depth int, label string, v tlv.Value) {
	switch x := v.(type) {
	case tlv.Struct:
		if len(x) == 0 {
			sb.WriteString(f.Indent(depth, label+": {}\n"))
			return
		}
		sb.WriteString(f.Indent(depth, label+":\n"))
		f.writeFields(sb, depth+1, x)

	case tlv.Array:
		if scalar, ok := f.inlineArray(x); ok {
			sb.WriteString(f.Indent(depth, label+": "+scalar+"\n"))
			return
		}
		sb.WriteString(f.Indent(depth, label+":\n"))
		for i, item := range x {
			f.writeEntry(sb, depth+1, fmt.Sprintf("- %d", i), item)
		}

	default:
		sb.WriteString(f.Indent(depth, label+": "+f.FormatValue(tlv.Native(v))+"\n"))
	}
}

// inlineArray renders an array of scalars on one line.
func (f *Formatter) inlineArray(arr tlv.Array) (string, bool) {
	parts := make([]string, len(arr))
	for i, item := range arr {
		switch item.(type) {
		case tlv.Struct, tlv.Array:
			return "", false
		}
		parts[i] = f.FormatValue(tlv.Native(item))
	}
	return "[" + strings.Join(parts, ", ") + "]", true
}
