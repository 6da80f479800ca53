package tensor

import (
	"fmt"
	"math"
)

// Shape is the (rows, cols) extent of a dense block.
type Shape struct {
	Rows int
	Cols int
}

// NumElements returns rows*cols computed in 64-bit arithmetic.
// Row and column counts of large symmetry blocks routinely exceed
// what their product fits into when multiplied as 32-bit values.
func (s Shape) NumElements() int64 {
	return int64(s.Rows) * int64(s.Cols)
}

// Empty reports whether the shape holds no elements.
func (s Shape) Empty() bool {
	return s.Rows == 0 || s.Cols == 0
}

// Validate checks that both dimensions are non-negative and that the
// element count is addressable on this platform.
func (s Shape) Validate() error {
	if s.Rows < 0 || s.Cols < 0 {
		return fmt.Errorf("%w: negative dimension %dx%d", ErrInvalidShape, s.Rows, s.Cols)
	}
	if n := s.NumElements(); n > math.MaxInt {
		return fmt.Errorf("%w: %dx%d = %d elements exceeds addressable size", ErrInvalidShape, s.Rows, s.Cols, n)
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	return s.Rows == other.Rows && s.Cols == other.Cols
}

// String returns "RxC".
func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.Rows, s.Cols)
}
