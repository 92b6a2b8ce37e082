package scheme

import (
	"context"

	"github.com/san-kum/heatslab/internal/grid"
)

// ExplicitRule computes interior node i of the next level from the two
// previous levels.
type ExplicitRule func(old, cur []float64, i int, r float64) float64

// DuFortFrankel is unconditionally stable.
func DuFortFrankel(old, cur []float64, i int, r float64) float64 {
	return (old[i] + 2*r*(cur[i+1]-old[i]+cur[i-1])) / (1 + 2*r)
}

// Richardson is unconditionally unstable for diffusion. It is kept as a
// comparison scheme; its growth is part of the expected output.
func Richardson(old, cur []float64, i int, r float64) float64 {
	return old[i] + 2*r*(cur[i+1]-2*cur[i]+cur[i-1])
}

// Explicit marches a three-level scheme. Levels -1 and 0 both start from the
// initial profile, so the first step already has two levels of history.
type Explicit struct {
	p     grid.Params
	name  string
	rule  ExplicitRule
	r     float64
	level int

	prev, cur, next []float64
}

func NewExplicit(name string, p grid.Params, rule ExplicitRule) *Explicit {
	e := &Explicit{p: p, name: name, rule: rule, r: p.R()}
	e.Reset()
	return e
}

func NewDuFortFrankel(p grid.Params) *Explicit {
	return NewExplicit(NameDuFortFrankel, p, DuFortFrankel)
}

func NewRichardson(p grid.Params) *Explicit {
	return NewExplicit(NameRichardson, p, Richardson)
}

func (e *Explicit) Name() string        { return e.name }
func (e *Explicit) Params() grid.Params { return e.p }
func (e *Explicit) Level() int          { return e.level }
func (e *Explicit) Solution() []float64 { return clone(e.cur) }

func (e *Explicit) Reset() {
	e.prev = e.p.InitialProfile()
	e.cur = e.p.InitialProfile()
	e.next = make([]float64, len(e.cur))
	e.level = 0
}

// Step never fails; divergence shows up as Inf or NaN in the levels.
func (e *Explicit) Step() error {
	s := len(e.cur) - 1
	for i := 1; i < s; i++ {
		e.next[i] = e.rule(e.prev, e.cur, i, e.r)
	}
	e.p.ApplyBoundary(e.next)

	e.prev, e.cur, e.next = e.cur, e.next, e.prev
	e.level++
	return nil
}

func (e *Explicit) Solve(ctx context.Context) error {
	return march(ctx, e)
}
