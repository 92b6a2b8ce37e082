package metrics

import "math"

// Monitor observes successive time levels of one scheme.
type Monitor interface {
	Name() string
	Observe(level int, u []float64)
	Value() float64
	Reset()
}

// MeanTemperature tracks the trapezoidal mean of the latest level, which is
// proportional to the heat stored in the wall.
type MeanTemperature struct {
	name    string
	current float64
	samples int
}

func NewMeanTemperature() *MeanTemperature {
	return &MeanTemperature{name: "mean_temperature"}
}

func (m *MeanTemperature) Name() string { return m.name }

func (m *MeanTemperature) Observe(level int, u []float64) {
	if len(u) < 2 {
		return
	}
	sum := 0.5 * (u[0] + u[len(u)-1])
	for _, v := range u[1 : len(u)-1] {
		sum += v
	}
	m.current = sum / float64(len(u)-1)
	m.samples++
}

func (m *MeanTemperature) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.current
}

func (m *MeanTemperature) Reset() {
	m.current = 0
	m.samples = 0
}

// Divergence records the first level at which any node leaves [lo, hi] or
// stops being finite. Value is -1 while the profile stays bounded.
type Divergence struct {
	name   string
	lo, hi float64
	first  int
}

// NewDivergence bounds the profile by the physical range of the problem
// widened by margin on both sides.
func NewDivergence(tIn, tExt, margin float64) *Divergence {
	lo, hi := math.Min(tIn, tExt), math.Max(tIn, tExt)
	return &Divergence{name: "divergence_level", lo: lo - margin, hi: hi + margin, first: -1}
}

func (d *Divergence) Name() string { return d.name }

func (d *Divergence) Observe(level int, u []float64) {
	if d.first >= 0 {
		return
	}
	for _, v := range u {
		if math.IsNaN(v) || v < d.lo || v > d.hi {
			d.first = level
			return
		}
	}
}

func (d *Divergence) Value() float64 {
	return float64(d.first)
}

func (d *Divergence) Diverged() bool {
	return d.first >= 0
}

func (d *Divergence) Reset() {
	d.first = -1
}
