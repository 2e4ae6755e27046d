package composition

import "fmt"

// Severity classifies a recorded problem.
type Severity uint8

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ProblemNotice is one problem observed while running a test.
type ProblemNotice struct {
	// TestName is the label supplied by the test that recorded the problem.
	TestName string

	// Location names the attribute or step the problem relates to.
	Location string

	Severity Severity
	Problem  string
}

// String formats the notice for reports and failure messages.
func (p ProblemNotice) String() string {
	if p.Location == "" {
		return fmt.Sprintf("[%s] %s: %s", p.Severity, p.TestName, p.Problem)
	}
	return fmt.Sprintf("[%s] %s (%s): %s", p.Severity, p.TestName, p.Location, p.Problem)
}
