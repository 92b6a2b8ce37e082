package metrics

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrLengthMismatch is returned when two profiles have different node counts.
var ErrLengthMismatch = errors.New("metrics: profiles differ in length")

// NormOne is the sum of absolute values.
func NormOne(u []float64) float64 {
	if len(u) == 0 {
		return 0
	}
	return floats.Norm(u, 1)
}

// NormTwo is the Euclidean norm.
func NormTwo(u []float64) float64 {
	if len(u) == 0 {
		return 0
	}
	return floats.Norm(u, 2)
}

// NormUniform is the largest absolute value.
func NormUniform(u []float64) float64 {
	if len(u) == 0 {
		return 0
	}
	return floats.Norm(u, math.Inf(1))
}

// Diff returns computed - reference node by node.
func Diff(computed, reference []float64) ([]float64, error) {
	if len(computed) != len(reference) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(computed), len(reference))
	}
	d := make([]float64, len(computed))
	floats.SubTo(d, computed, reference)
	return d, nil
}

// Errors holds the three norms of an error vector.
type Errors struct {
	One     float64 `json:"norm_one"`
	Two     float64 `json:"norm_two"`
	Uniform float64 `json:"norm_uniform"`
}

// Measure computes the norms of computed - reference.
func Measure(computed, reference []float64) (Errors, []float64, error) {
	d, err := Diff(computed, reference)
	if err != nil {
		return Errors{}, nil, err
	}
	return Errors{
		One:     NormOne(d),
		Two:     NormTwo(d),
		Uniform: NormUniform(d),
	}, d, nil
}

// Finite reports whether no value is NaN or ±Inf.
func Finite(u []float64) bool {
	for _, v := range u {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
