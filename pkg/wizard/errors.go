package wizard

import (
	"errors"
	"fmt"
)

var (
	// ErrSubmissionInFlight rejects a submit while another one is pending.
	ErrSubmissionInFlight = errors.New("submission already in progress")
	ErrUnknownCountry     = errors.New("unsupported country")
)

// User-facing reasons recorded on a failed submission.
const (
	ReasonNotConfigured = "Signup is not available right now because storage is not configured. Please try again later."
	ReasonSubmitFailed  = "We could not save your signup. Please check your connection and try again."
)

// ValidationError blocks advancing past a step whose input is incomplete.
type ValidationError struct {
	Step    int
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %d: %s", e.Step, e.Message)
}

// SubmissionError describes a failed hand-off to the sink. Reason is safe to
// show to the user; Err carries the underlying cause.
type SubmissionError struct {
	Reason string
	Err    error
}

func (e *SubmissionError) Error() string {
	if e.Err == nil {
		return "submission failed: " + e.Reason
	}
	return fmt.Sprintf("submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
