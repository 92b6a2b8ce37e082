package tridiag

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// randomDominant builds a strictly diagonally dominant system with a known
// solution and returns it alongside that solution.
func randomDominant(rng *rand.Rand, m int) (*System, []float64) {
	s := New(m)
	for k := 0; k < m; k++ {
		if k > 0 {
			s.A[k] = rng.Float64()*2 - 1
		}
		if k < m-1 {
			s.C[k] = rng.Float64()*2 - 1
		}
		s.B[k] = math.Abs(s.A[k]) + math.Abs(s.C[k]) + 0.5 + rng.Float64()
		if rng.Intn(2) == 0 {
			s.B[k] = -s.B[k]
		}
	}

	known := make([]float64, m)
	for k := range known {
		known[k] = rng.Float64()*200 - 100
	}
	copy(s.D, s.Apply(known))
	return s, known
}

func TestSolveRecoversKnownSolution(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, m := range []int{1, 2, 3, 5, 19, 64, 257} {
		s, known := randomDominant(rng, m)
		require.True(t, s.DiagonallyDominant())

		got, err := s.SolveVector()
		require.NoError(t, err, "m=%d", m)
		require.Len(t, got, m)

		for k := range known {
			rel := math.Abs(got[k]-known[k]) / math.Max(1, math.Abs(known[k]))
			assert.Less(t, rel, 1e-9, "m=%d k=%d: got %g want %g", m, k, got[k], known[k])
		}
	}
}

func TestSolveMatchesDenseLU(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s, _ := randomDominant(rng, 30)

	dense := s.Dense()
	rhs := mat.NewVecDense(30, append([]float64(nil), s.D...))
	var want mat.VecDense
	require.NoError(t, want.SolveVec(dense, rhs))

	got, err := s.Clone().SolveVector()
	require.NoError(t, err)
	for k := range got {
		assert.InDelta(t, want.AtVec(k), got[k], 1e-9)
	}
}

func TestSolveWritesBoundaries(t *testing.T) {
	// Laasonen rows with r = 0.4 around a uniform 100° interior and 300° faces.
	const r, tExt = 0.4, 300.0
	m := 5
	s := New(m)
	for k := 0; k < m; k++ {
		s.A[k], s.B[k], s.C[k], s.D[k] = -r, 2*r+1, -r, 100
	}
	s.A[0], s.C[m-1] = 0, 0
	s.D[0] += r * tExt
	s.D[m-1] += r * tExt

	nodes := make([]float64, m+2)
	require.NoError(t, s.Solve(nodes, tExt))

	assert.Equal(t, tExt, nodes[0])
	assert.Equal(t, tExt, nodes[m+1])
	for k := 1; k <= m; k++ {
		assert.Greater(t, nodes[k], 100.0)
		assert.Less(t, nodes[k], tExt)
	}
	// Symmetric problem, symmetric answer.
	assert.InDelta(t, nodes[1], nodes[m], 1e-9)
	assert.InDelta(t, nodes[2], nodes[m-1], 1e-9)
}

func TestSolveConsumesSystem(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	s, _ := randomDominant(rng, 8)
	before := s.Clone()

	_, err := s.SolveVector()
	require.NoError(t, err)

	assert.Equal(t, before.A, s.A)
	assert.Equal(t, before.C, s.C)
	assert.NotEqual(t, before.B, s.B)
}

func TestSolveZeroPivot(t *testing.T) {
	s := New(3)
	copy(s.B, []float64{0, 1, 1})
	copy(s.D, []float64{1, 1, 1})

	_, err := s.SolveVector()
	require.ErrorIs(t, err, ErrZeroPivot)

	// Pivot that only vanishes after elimination.
	s = New(2)
	copy(s.A, []float64{0, 1})
	copy(s.B, []float64{1, 1})
	copy(s.C, []float64{1, 0})
	copy(s.D, []float64{1, 1})
	assert.False(t, s.DiagonallyDominant())
	_, err = s.SolveVector()
	require.ErrorIs(t, err, ErrZeroPivot)
}

func TestSolveDimensionMismatch(t *testing.T) {
	s := New(4)
	s.D = s.D[:3]
	_, err := s.SolveVector()
	require.ErrorIs(t, err, ErrDimension)

	s = New(4)
	for k := range s.B {
		s.B[k] = 1
	}
	require.ErrorIs(t, s.Solve(make([]float64, 5), 0), ErrDimension)

	_, err = New(0).SolveVector()
	require.ErrorIs(t, err, ErrDimension)
}

func BenchmarkSolve(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	base, _ := randomDominant(rng, 1000)
	nodes := make([]float64, 1002)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := base.Clone()
		if err := s.Solve(nodes, 0); err != nil {
			b.Fatal(err)
		}
	}
}
