package composition

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/mash-protocol/mash-dump/pkg/dump"
)

// Failer is the part of testing.TB used to report a fatal failure.
type Failer interface {
	Helper()
	Fatalf(format string, args ...any)
}

// Suite holds the node read during setup and the problems recorded by the
// tests that use it.
type Suite struct {
	// Config controls collection and output. Config.Label names the suite in
	// log records and problem notices.
	Config dump.Config

	// DumpPath is the base path of the dump files. Empty disables file
	// output.
	DumpPath string

	// Logger receives setup progress and the raw dump at debug level.
	// Nil uses slog.Default().
	Logger *slog.Logger

	// Node and Document are set by a successful Setup.
	Node     dump.Node
	Document dump.Document

	mu       sync.Mutex
	problems []ProblemNotice
}

// NewSuite creates a suite with the given config.
func NewSuite(cfg dump.Config, dumpPath string, logger *slog.Logger) *Suite {
	return &Suite{
		Config:   cfg,
		DumpPath: dumpPath,
		Logger:   logger,
	}
}

func (s *Suite) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// Setup reads the node through reader, encodes it and, when DumpPath is set,
// writes the dump files. Any failure is recorded as a problem and reported
// through t as fatal.
func (s *Suite) Setup(ctx context.Context, t Failer, reader dump.SessionReader) {
	t.Helper()

	node, err := dump.NewCollector(reader, s.logger(), s.Config.Label).Collect(ctx, s.Config.Layout)
	if err != nil {
		s.RecordProblem(s.Config.Label, "setup", SeverityError, fmt.Sprintf("failed to read node: %v", err))
		s.FailCurrentTest(t, "")
		return
	}

	var doc dump.Document
	if s.DumpPath != "" {
		doc, err = dump.WriteFiles(s.DumpPath, node, s.Config)
	} else {
		doc, err = dump.Encode(node)
	}
	if err != nil {
		s.RecordProblem(s.Config.Label, "setup", SeverityError, fmt.Sprintf("failed to encode node: %v", err))
		s.FailCurrentTest(t, "")
		return
	}

	logger := s.logger().With(slog.String("label", s.Config.Label))
	logRawDump(ctx, logger, doc)

	if s.DumpPath != "" {
		jsonPath, _ := dump.Paths(s.DumpPath)
		logger.Info("dump written", slog.String("path", jsonPath))
	}

	s.Node = node
	s.Document = doc
}

// logRawDump logs the annotated document of each endpoint at debug level.
func logRawDump(ctx context.Context, logger *slog.Logger, doc dump.Document) {
	if !logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	for _, ep := range doc {
		data, err := ep.Object.MarshalJSON()
		if err != nil {
			logger.Warn("failed to format raw dump",
				slog.Int("endpoint", int(ep.ID)),
				slog.String("error", err.Error()))
			continue
		}
		logger.LogAttrs(ctx, slog.LevelDebug, "raw dump",
			slog.Int("endpoint", int(ep.ID)),
			slog.String("fields", string(data)),
		)
	}
}

// RecordProblem adds a notice to the suite. testName is a caller-supplied
// label, usually the test case ID.
func (s *Suite) RecordProblem(testName, location string, severity Severity, problem string) {
	notice := ProblemNotice{
		TestName: testName,
		Location: location,
		Severity: severity,
		Problem:  problem,
	}

	s.mu.Lock()
	s.problems = append(s.problems, notice)
	s.mu.Unlock()

	level := slog.LevelInfo
	switch severity {
	case SeverityWarning:
		level = slog.LevelWarn
	case SeverityError:
		level = slog.LevelError
	}
	s.logger().LogAttrs(context.Background(), level, "problem recorded",
		slog.String("test", testName),
		slog.String("location", location),
		slog.String("problem", problem),
	)
}

// Problems returns a copy of the recorded notices in order.
func (s *Suite) Problems() []ProblemNotice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ProblemNotice, len(s.problems))
	copy(out, s.problems)
	return out
}

// FailCurrentTest fails the running test with msg. An empty msg uses the
// most recent problem.
func (s *Suite) FailCurrentTest(t Failer, msg string) {
	t.Helper()

	if msg == "" {
		s.mu.Lock()
		if n := len(s.problems); n > 0 {
			msg = s.problems[n-1].String()
		}
		s.mu.Unlock()
	}
	if msg == "" {
		msg = "test failed"
	}
	t.Fatalf("%s", msg)
}

// WriteReport writes every recorded problem, one per line, followed by a
// count per severity.
func (s *Suite) WriteReport(w io.Writer) {
	problems := s.Problems()

	fmt.Fprintf(w, "=== Problems: %s ===\n", s.Config.Label)
	counts := make(map[Severity]int)
	for _, p := range problems {
		fmt.Fprintln(w, p.String())
		counts[p.Severity]++
	}

	fmt.Fprintf(w, "Errors:   %d\n", counts[SeverityError])
	fmt.Fprintf(w, "Warnings: %d\n", counts[SeverityWarning])
	fmt.Fprintf(w, "Info:     %d\n", counts[SeverityInfo])
}
