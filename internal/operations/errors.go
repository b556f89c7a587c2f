package operations

import (
	"fmt"

	apperrors "stockprep/internal/errors"
)

// StepError attributes a failure to the step that produced it
type StepError struct {
	Step  string
	Cause error
}

// Error implements the error interface
func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed: %v", e.Step, e.Cause)
}

// Unwrap returns the underlying error
func (e *StepError) Unwrap() error {
	return e.Cause
}

// WrapError attributes err to step. A nil err stays nil.
func WrapError(err error, step string) error {
	if err == nil {
		return nil
	}
	return &StepError{Step: step, Cause: err}
}

// newMissingInputError reports a step run before the step that feeds it.
func newMissingInputError(step, missing string) error {
	return apperrors.NewAppValidationError(fmt.Sprintf("%s requires %s, which no earlier step produced", step, missing)).
		WithContext("step", step)
}
