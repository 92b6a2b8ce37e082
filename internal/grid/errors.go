package grid

import "errors"

// ErrInvalidParams indicates a discretization that cannot produce a usable grid.
var ErrInvalidParams = errors.New("grid: invalid parameters")
