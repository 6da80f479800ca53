package halftrans

import "errors"

// Transform errors. Validation failures wrap one of these.
var (
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrMatrixShape       = errors.New("transformation matrix block has wrong shape")
	ErrMatrixIncomplete  = errors.New("transformation matrix block missing")
	ErrInvalidDirection  = errors.New("invalid transform direction")
	ErrNilBuffer         = errors.New("nil buffer")
)
