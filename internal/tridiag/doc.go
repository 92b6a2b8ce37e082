// Package tridiag solves tridiagonal linear systems with the Thomas algorithm.
//
// The solver is the O(m) specialisation of Gaussian elimination: one forward
// sweep that eliminates the sub-diagonal, one backward sweep that substitutes.
// It does not pivot. Callers must supply a system whose diagonal stays
// non-zero during elimination; diagonally dominant systems, such as the ones
// built by the implicit heat schemes for any r > 0, always qualify. A zero
// pivot is reported as [ErrZeroPivot].
//
// [System.Solve] consumes the system: B and D are overwritten by the sweep.
package tridiag
