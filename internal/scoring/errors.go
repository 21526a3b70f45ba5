package scoring

import "fmt"

// ScoringError records which stage of the pipeline failed.
type ScoringError struct {
	Operation string
	Policy    string
	Message   string
	Cause     error
}

func (e *ScoringError) Error() string {
	msg := e.Operation
	if e.Policy != "" {
		msg += fmt.Sprintf(" %q", e.Policy)
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ScoringError) Unwrap() error {
	return e.Cause
}
