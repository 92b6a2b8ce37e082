package grid

import (
	"fmt"
	"math"
)

// floorSlack absorbs representation error in ratios such as 0.3/0.01, which
// evaluates to 29.999999999999996 and would otherwise lose a level.
const floorSlack = 1e-9

// Params is the configuration shared by every scheme.
type Params struct {
	TIn  float64 `json:"t_in"`  // initial interior temperature
	TExt float64 `json:"t_ext"` // boundary temperature at both faces
	XMin float64 `json:"x_min"`
	XMax float64 `json:"x_max"`
	TEnd float64 `json:"t_end"`
	D    float64 `json:"diffusivity"`
	Dx   float64 `json:"dx"`
	Dt   float64 `json:"dt"`
}

// New builds a validated Params.
func New(tIn, tExt, xMin, xMax, tEnd, d, dx, dt float64) (Params, error) {
	p := Params{
		TIn:  tIn,
		TExt: tExt,
		XMin: xMin,
		XMax: xMax,
		TEnd: tEnd,
		D:    d,
		Dx:   dx,
		Dt:   dt,
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Validate reports whether p describes a usable grid. At least two intervals
// are required so that there is one interior unknown.
func (p Params) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"t_in", p.TIn}, {"t_ext", p.TExt}, {"x_min", p.XMin}, {"x_max", p.XMax},
		{"t_end", p.TEnd}, {"diffusivity", p.D}, {"dx", p.Dx}, {"dt", p.Dt},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidParams, f.name)
		}
	}
	if p.Dx <= 0 {
		return fmt.Errorf("%w: dx must be positive, got %g", ErrInvalidParams, p.Dx)
	}
	if p.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidParams, p.Dt)
	}
	if p.XMax <= p.XMin {
		return fmt.Errorf("%w: x_max (%g) must exceed x_min (%g)", ErrInvalidParams, p.XMax, p.XMin)
	}
	if p.D <= 0 {
		return fmt.Errorf("%w: diffusivity must be positive, got %g", ErrInvalidParams, p.D)
	}
	if p.TEnd < 0 {
		return fmt.Errorf("%w: t_end must not be negative, got %g", ErrInvalidParams, p.TEnd)
	}
	if s := p.Intervals(); s < 2 {
		return fmt.Errorf("%w: need at least 2 intervals, dx=%g gives %d", ErrInvalidParams, p.Dx, s)
	}
	return nil
}

// Steps is the number of time levels after the initial one.
func (p Params) Steps() int {
	return floorCount(p.TEnd / p.Dt)
}

// Intervals is s, the number of spatial intervals. Nodes are indexed 0..s.
func (p Params) Intervals() int {
	return floorCount((p.XMax - p.XMin) / p.Dx)
}

// Nodes is s+1.
func (p Params) Nodes() int {
	return p.Intervals() + 1
}

// Length is XMax - XMin.
func (p Params) Length() float64 {
	return p.XMax - p.XMin
}

// R is the diffusion number D·Dt/Dx².
func (p Params) R() float64 {
	return p.D * p.Dt / (p.Dx * p.Dx)
}

// X returns the position of node i.
func (p Params) X(i int) float64 {
	return p.XMin + float64(i)*p.Dx
}

// Positions returns x for every node, in increasing order.
func (p Params) Positions() []float64 {
	xs := make([]float64, p.Nodes())
	for i := range xs {
		xs[i] = p.X(i)
	}
	return xs
}

// InitialProfile returns the t=0 level: TIn inside, TExt on both faces.
func (p Params) InitialProfile() []float64 {
	u := make([]float64, p.Nodes())
	for i := range u {
		u[i] = p.TIn
	}
	p.ApplyBoundary(u)
	return u
}

// ApplyBoundary forces the Dirichlet values onto the first and last node.
func (p Params) ApplyBoundary(u []float64) {
	if len(u) == 0 {
		return
	}
	u[0] = p.TExt
	u[len(u)-1] = p.TExt
}

// WithEndTime returns a copy of p with a different TEnd.
func (p Params) WithEndTime(tEnd float64) Params {
	p.TEnd = tEnd
	return p
}

// WithTimeStep returns a copy of p with a different Dt.
func (p Params) WithTimeStep(dt float64) Params {
	p.Dt = dt
	return p
}

func (p Params) String() string {
	return fmt.Sprintf("t_in=%g t_ext=%g x=[%g,%g] t_end=%g D=%g dx=%g dt=%g r=%.4f",
		p.TIn, p.TExt, p.XMin, p.XMax, p.TEnd, p.D, p.Dx, p.Dt, p.R())
}

func floorCount(v float64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Floor(v + floorSlack))
}
