package scheme

import (
	"errors"
	"fmt"
)

// ErrUnknownScheme is returned by [New] for names not in the registry.
var ErrUnknownScheme = errors.New("scheme: unknown scheme")

// StepError wraps a failure inside a time step with the scheme and level.
type StepError struct {
	Scheme string
	Step   int
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: step %d: %v", e.Scheme, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
