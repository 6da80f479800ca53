package tensor

import "errors"

// Common errors.
var (
	ErrInvalidShape = errors.New("invalid block shape")
	ErrGemmArgument = errors.New("invalid gemm argument")
)
