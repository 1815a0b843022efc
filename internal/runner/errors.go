package runner

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/goodbot/internal/expect"
)

var ErrMissingSecret = errors.New("secret environment variable is not set")

// StepError wraps the failure of one step with its position and
// expectation kind.
type StepError struct {
	Index int
	Kind  expect.Kind
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Kind, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
