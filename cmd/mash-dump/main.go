// Command mash-dump converts MASH attribute snapshots into type-tagged JSON
// dumps and compares dumps across test runs.
//
// Usage:
//
//	mash-dump <command> [flags] <file>
//
// Commands:
//
//	dump      Write the annotated JSON (and text) dump of a snapshot
//	encode    Annotate a single CBOR field map read from stdin
//	diff      Compare two dumps or snapshots
//	snapshot  Convert an annotated JSON dump back into a CBOR snapshot
//
// Examples:
//
//	# Print the dump of a snapshot
//	mash-dump dump evse.cbor
//
//	# Write evse.json and evse.txt using a config file
//	mash-dump dump --config dump.yaml -o out/evse evse.cbor
//
//	# Compare two runs; exits 1 when they differ
//	mash-dump diff run1.json run2.json
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/mash-protocol/mash-dump/cmd/mash-dump/commands"
	"github.com/mash-protocol/mash-dump/pkg/dump"
)

const usage = `mash-dump - MASH Composition Dump Tool

Usage:
  mash-dump <command> [flags] <file>

Commands:
  dump      Write the annotated JSON (and text) dump of a snapshot
  encode    Annotate a single CBOR field map read from stdin
  diff      Compare two dumps or snapshots
  snapshot  Convert an annotated JSON dump back into a CBOR snapshot

Use "mash-dump <command> --help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "dump":
		runDump(args)
	case "encode":
		runEncode(args)
	case "diff":
		runDiff(args)
	case "snapshot":
		runSnapshot(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// newFlagSet creates a flag set whose usage text starts with header.
func newFlagSet(name, header string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, header)
		fmt.Fprintln(os.Stderr, "\nFlags:")
		fs.PrintDefaults()
	}
	return fs
}

func parse(fs *pflag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runDump(args []string) {
	fs := newFlagSet("dump", `mash-dump dump - Write the annotated dump of a snapshot

Usage:
  mash-dump dump [flags] <file.cbor|file.json>
`)

	configPath := fs.String("config", "", "YAML config file")
	output := fs.StringP("output", "o", "", "Base path of the dump files (default: JSON to stdout)")
	indent := fs.Int("indent", 2, "Spaces per JSON indent level (0 for compact)")
	noText := fs.Bool("no-text", false, "Do not write the .txt pretty-print")
	label := fs.String("label", "", "Label attached to log records")
	verbose := fs.BoolP("verbose", "v", false, "Enable debug logging")

	parse(fs, args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: input file required")
		fs.Usage()
		os.Exit(1)
	}

	cfg := dump.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = dump.LoadConfig(*configPath); err != nil {
			fail(err)
		}
	}
	if fs.Changed("indent") {
		cfg.Indent = *indent
	}
	if *noText {
		cfg.Text = false
	}
	if *label != "" {
		cfg.Label = *label
	}
	if err := cfg.Validate(); err != nil {
		fail(err)
	}

	opts := commands.DumpOptions{Output: *output, Config: cfg}
	if err := commands.RunDump(fs.Arg(0), opts, os.Stdout, newLogger(*verbose)); err != nil {
		fail(err)
	}
}

func runEncode(args []string) {
	fs := newFlagSet("encode", `mash-dump encode - Annotate a CBOR field map read from stdin

Usage:
  mash-dump encode [flags] < field-map.cbor
`)

	indent := fs.Int("indent", 2, "Spaces per JSON indent level (0 for compact)")

	parse(fs, args)

	if *indent < 0 || *indent > 8 {
		fail(fmt.Errorf("%w: indent %d not in 0..8", dump.ErrInvalidConfig, *indent))
	}

	var err error
	if fs.NArg() > 0 {
		err = commands.RunEncodeFile(fs.Arg(0), os.Stdout, *indent)
	} else {
		err = commands.RunEncode(os.Stdin, os.Stdout, *indent)
	}
	if err != nil {
		fail(err)
	}
}

func runDiff(args []string) {
	fs := newFlagSet("diff", `mash-dump diff - Compare two dumps or snapshots

Exits 0 when the dumps match, 1 when they differ and 2 on error.

Usage:
  mash-dump diff <a> <b>
`)

	parse(fs, args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Error: two input files required")
		fs.Usage()
		os.Exit(2)
	}

	differ, err := commands.RunDiff(fs.Arg(0), fs.Arg(1), os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if differ {
		os.Exit(1)
	}
}

func runSnapshot(args []string) {
	fs := newFlagSet("snapshot", `mash-dump snapshot - Convert an annotated JSON dump into a CBOR snapshot

Usage:
  mash-dump snapshot [flags] <file.json>
`)

	output := fs.StringP("output", "o", "", "Snapshot path (default: input with .cbor extension)")

	parse(fs, args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: input file required")
		fs.Usage()
		os.Exit(1)
	}

	path, err := commands.RunSnapshot(fs.Arg(0), *output)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Wrote %s\n", path)
}
