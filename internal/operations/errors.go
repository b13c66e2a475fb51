package operations

import (
	"errors"

	apperrors "custclean/internal/errors"
)

var errNoTable = apperrors.NewValidationError("no table loaded", nil)

// ErrStepFailed wraps the error of the step that stopped a run
var ErrStepFailed = errors.New("step failed")

// StepError identifies the step a run failed at
type StepError struct {
	StepID string
	Err    error
}

func (e *StepError) Error() string {
	return "step " + e.StepID + " failed: " + e.Err.Error()
}

// Unwrap returns the step's own error
func (e *StepError) Unwrap() []error {
	return []error{ErrStepFailed, e.Err}
}
