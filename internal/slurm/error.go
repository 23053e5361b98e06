package slurm

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	// ErrSbatchNotFound indicates the sbatch binary was not found in PATH
	ErrSbatchNotFound = errors.New("sbatch binary not found in PATH")
)

// SubmissionError represents a failed sbatch invocation, carrying the
// scheduler output for diagnostics.
type SubmissionError struct {
	Script string // control file that was submitted
	Output string // captured scheduler output
	Err    error  // underlying error
}

func (e *SubmissionError) Error() string {
	msg := fmt.Sprintf("sbatch failed for %s", e.Script)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		msg = fmt.Sprintf("%s\nscheduler output:\n%s", msg, out)
	}
	return msg
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// NewSubmissionError creates a SubmissionError.
func NewSubmissionError(script, output string, err error) *SubmissionError {
	return &SubmissionError{Script: script, Output: output, Err: err}
}

// IsSubmissionError checks if an error is a SubmissionError.
func IsSubmissionError(err error) bool {
	var se *SubmissionError
	return errors.As(err, &se)
}
