package stress

import (
	"errors"
	"fmt"
)

// ErrOpCountMismatch means the table counted a different number of
// operations than the workers issued.
var ErrOpCountMismatch = errors.New("operation count mismatch")

// Run phases.
const (
	PhaseRun    = "run"
	PhaseVerify = "verify"
)

// RunError wraps a failure with the phase it happened in.
type RunError struct {
	Phase string
	RunID string
	Err   error
}

// Error implements the error interface.
func (e *RunError) Error() string {
	if e.RunID != "" {
		return fmt.Sprintf("stress %s failed (run %s): %v", e.Phase, e.RunID, e.Err)
	}
	return fmt.Sprintf("stress %s failed: %v", e.Phase, e.Err)
}

// Unwrap returns the underlying error.
func (e *RunError) Unwrap() error {
	return e.Err
}
