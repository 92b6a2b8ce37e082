package scheme

import (
	"context"

	"github.com/san-kum/heatslab/internal/grid"
	"github.com/san-kum/heatslab/internal/tridiag"
)

// ImplicitRule fills every entry of sys for the step that starts from the
// node-indexed level u. Row k of sys is the equation for node k+1. The rule
// must also add the boundary contribution to the first and last rows.
type ImplicitRule func(sys *tridiag.System, u []float64, r, tExt float64)

// Laasonen is backward Euler in time.
func Laasonen(sys *tridiag.System, u []float64, r, tExt float64) {
	m := sys.Size()
	for k := 0; k < m; k++ {
		sys.A[k] = -r
		sys.B[k] = 2*r + 1
		sys.C[k] = -r
		sys.D[k] = u[k+1]
	}
	closeEnds(sys, r*tExt)
}

// CrankNicolson is the trapezoidal rule in time.
func CrankNicolson(sys *tridiag.System, u []float64, r, tExt float64) {
	m := sys.Size()
	half := r / 2
	for k := 0; k < m; k++ {
		sys.A[k] = -half
		sys.B[k] = r + 1
		sys.C[k] = -half
		sys.D[k] = half*u[k+2] + (1-r)*u[k+1] + half*u[k]
	}
	closeEnds(sys, half*tExt)
}

// closeEnds removes the couplings that would reach past the boundary nodes
// and moves the known boundary term to the right-hand side.
func closeEnds(sys *tridiag.System, correction float64) {
	m := sys.Size()
	sys.A[0] = 0
	sys.C[m-1] = 0
	sys.D[0] += correction
	sys.D[m-1] += correction
}

// Implicit marches a two-level scheme with one tridiagonal solve per step.
// The system is step-local: the rule rewrites all of it before each solve,
// because the previous solve overwrote B and D.
type Implicit struct {
	p     grid.Params
	name  string
	rule  ImplicitRule
	r     float64
	level int

	cur, next []float64
	sys       *tridiag.System
}

func NewImplicit(name string, p grid.Params, rule ImplicitRule) *Implicit {
	im := &Implicit{p: p, name: name, rule: rule, r: p.R()}
	im.Reset()
	return im
}

func NewLaasonen(p grid.Params) *Implicit {
	return NewImplicit(NameLaasonen, p, Laasonen)
}

func NewCrankNicolson(p grid.Params) *Implicit {
	return NewImplicit(NameCrankNicolson, p, CrankNicolson)
}

func (im *Implicit) Name() string        { return im.name }
func (im *Implicit) Params() grid.Params { return im.p }
func (im *Implicit) Level() int          { return im.level }
func (im *Implicit) Solution() []float64 { return clone(im.cur) }

func (im *Implicit) Reset() {
	im.cur = im.p.InitialProfile()
	im.next = make([]float64, len(im.cur))
	im.sys = tridiag.New(len(im.cur) - 2)
	im.level = 0
}

func (im *Implicit) Step() error {
	im.rule(im.sys, im.cur, im.r, im.p.TExt)
	if err := im.sys.Solve(im.next, im.p.TExt); err != nil {
		return &StepError{Scheme: im.name, Step: im.level + 1, Err: err}
	}
	im.cur, im.next = im.next, im.cur
	im.level++
	return nil
}

func (im *Implicit) Solve(ctx context.Context) error {
	return march(ctx, im)
}
