package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/mash-protocol/mash-dump/pkg/dump"
)

// DumpOptions controls the dump command.
type DumpOptions struct {
	// Output is the base path of the dump files. Empty writes JSON to the
	// command's output writer.
	Output string

	Config dump.Config
}

// RunDump reads a snapshot or JSON dump and writes the annotated dump.
func RunDump(path string, opts DumpOptions, w io.Writer, logger *slog.Logger) error {
	node, err := loadNode(path)
	if err != nil {
		return err
	}

	if opts.Output == "" {
		doc, err := dump.Encode(node)
		if err != nil {
			return err
		}
		return dump.WriteJSON(w, doc, opts.Config.Indent)
	}

	doc, err := dump.WriteFiles(opts.Output, node, opts.Config)
	if err != nil {
		return err
	}

	jsonPath, textPath := dump.Paths(opts.Output)
	attrs := []any{
		slog.String("label", opts.Config.Label),
		slog.Int("endpoints", len(doc)),
		slog.String("json", jsonPath),
	}
	if opts.Config.Text {
		attrs = append(attrs, slog.String("text", textPath))
	}
	logger.Info("dump written", attrs...)

	fmt.Fprintf(w, "Wrote %s\n", jsonPath)
	if opts.Config.Text {
		fmt.Fprintf(w, "Wrote %s\n", textPath)
	}
	return nil
}
