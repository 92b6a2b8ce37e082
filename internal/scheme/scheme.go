package scheme

import (
	"context"

	"github.com/san-kum/heatslab/internal/grid"
)

type Scheme interface {
	// Name is the registry name, e.g. "laasonen".
	Name() string
	Params() grid.Params
	// Solve computes the profile at Params().TEnd, restarting from t=0.
	Solve(ctx context.Context) error
	// Solution returns a copy of the latest computed level, ordered from
	// XMin to XMax. It is nil for an Analytical scheme that was never solved.
	Solution() []float64
}

// Stepper is a Scheme that can be advanced one time level at a time.
type Stepper interface {
	Scheme
	// Reset restores the t=0 state.
	Reset()
	// Step advances one level.
	Step() error
	// Level is the index of the current time level.
	Level() int
}

// march drives a stepper from t=0 to its final level.
func march(ctx context.Context, s Stepper) error {
	s.Reset()
	steps := s.Params().Steps()
	for s.Level() < steps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

func clone(u []float64) []float64 {
	if u == nil {
		return nil
	}
	c := make([]float64, len(u))
	copy(c, u)
	return c
}
