package dpd

import (
	"errors"
	"fmt"
)

// Lifecycle and construction errors.
var (
	ErrNotOpen       = errors.New("irrep is not open")
	ErrAlreadyOpen   = errors.New("irrep is already open")
	ErrUnknownIrrep  = errors.New("irrep out of range")
	ErrNoStore       = errors.New("buffer has no backing store")
	ErrInvalidParams = errors.New("invalid buffer parameters")
)

// LifecycleError reports a failed buffer verb on one irrep.
type LifecycleError struct {
	Buffer string
	Irrep  int
	Op     string
	Err    error
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("dpd: %s %q irrep %d: %v", e.Op, e.Buffer, e.Irrep, e.Err)
}

func (e *LifecycleError) Unwrap() error {
	return e.Err
}
