package tridiag

import "errors"

var (
	// ErrZeroPivot indicates a zero diagonal entry during elimination.
	ErrZeroPivot = errors.New("tridiag: zero pivot")

	// ErrDimension indicates coefficient or output slices of inconsistent length.
	ErrDimension = errors.New("tridiag: dimension mismatch")
)
