package tridiag

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// System is a tridiagonal system of m equations
//
//	A[k]·x[k-1] + B[k]·x[k] + C[k]·x[k+1] = D[k]
//
// with A[0] and C[m-1] unused (expected to be zero).
type System struct {
	A []float64 // sub-diagonal
	B []float64 // diagonal
	C []float64 // super-diagonal
	D []float64 // right-hand side
}

// New allocates a zeroed system of size m.
func New(m int) *System {
	return &System{
		A: make([]float64, m),
		B: make([]float64, m),
		C: make([]float64, m),
		D: make([]float64, m),
	}
}

// Size is the number of unknowns.
func (s *System) Size() int { return len(s.B) }

func (s *System) check() error {
	m := len(s.B)
	if m == 0 {
		return fmt.Errorf("%w: empty system", ErrDimension)
	}
	if len(s.A) != m || len(s.C) != m || len(s.D) != m {
		return fmt.Errorf("%w: a=%d b=%d c=%d d=%d", ErrDimension, len(s.A), m, len(s.C), len(s.D))
	}
	return nil
}

// Solve runs the Thomas algorithm and writes the m unknowns into
// nodes[1..m]. nodes must have length m+2; nodes[0] and nodes[m+1] are set
// to boundary. The system's B and D slices are overwritten.
func (s *System) Solve(nodes []float64, boundary float64) error {
	if err := s.check(); err != nil {
		return err
	}
	m := len(s.B)
	if len(nodes) != m+2 {
		return fmt.Errorf("%w: %d unknowns need %d nodes, got %d", ErrDimension, m, m+2, len(nodes))
	}

	if s.B[0] == 0 {
		return fmt.Errorf("%w at row 0", ErrZeroPivot)
	}
	for k := 1; k < m; k++ {
		factor := s.A[k] / s.B[k-1]
		s.B[k] -= factor * s.C[k-1]
		s.D[k] -= factor * s.D[k-1]
		if s.B[k] == 0 {
			return fmt.Errorf("%w at row %d", ErrZeroPivot, k)
		}
	}

	// nodes[k+1] holds unknown k.
	nodes[m] = s.D[m-1] / s.B[m-1]
	for k := m - 2; k >= 0; k-- {
		nodes[k+1] = (s.D[k] - s.C[k]*nodes[k+2]) / s.B[k]
	}

	nodes[0] = boundary
	nodes[m+1] = boundary
	return nil
}

// SolveVector solves the system and returns the m unknowns in a new slice.
func (s *System) SolveVector() ([]float64, error) {
	nodes := make([]float64, s.Size()+2)
	if err := s.Solve(nodes, 0); err != nil {
		return nil, err
	}
	return nodes[1 : len(nodes)-1], nil
}

// Dense expands the coefficients into a full m×m matrix.
func (s *System) Dense() *mat.Dense {
	m := len(s.B)
	dense := mat.NewDense(m, m, nil)
	for k := 0; k < m; k++ {
		dense.Set(k, k, s.B[k])
		if k > 0 {
			dense.Set(k, k-1, s.A[k])
		}
		if k < m-1 {
			dense.Set(k, k+1, s.C[k])
		}
	}
	return dense
}

// Apply computes M·x for the tridiagonal matrix M without touching D.
func (s *System) Apply(x []float64) []float64 {
	var out mat.VecDense
	out.MulVec(s.Dense(), mat.NewVecDense(len(x), append([]float64(nil), x...)))
	return out.RawVector().Data
}

// Clone returns a deep copy, useful when the same system must be solved twice.
func (s *System) Clone() *System {
	return &System{
		A: append([]float64(nil), s.A...),
		B: append([]float64(nil), s.B...),
		C: append([]float64(nil), s.C...),
		D: append([]float64(nil), s.D...),
	}
}

// DiagonallyDominant reports whether |B[k]| >= |A[k]| + |C[k]| for every row,
// with strict inequality in at least one. This is the no-pivoting guarantee.
func (s *System) DiagonallyDominant() bool {
	strict := false
	for k := range s.B {
		off := 0.0
		if k > 0 {
			off += math.Abs(s.A[k])
		}
		if k < len(s.B)-1 {
			off += math.Abs(s.C[k])
		}
		d := math.Abs(s.B[k])
		if d < off {
			return false
		}
		if d > off {
			strict = true
		}
	}
	return strict
}

