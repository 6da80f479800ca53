// Package symmetry describes finite Abelian point groups as used to block
// four-index tensors: irrep labels, their direct product, orbital counts per
// irrep, and the column offset tables derived from them.
//
// Irreps are labelled 0..n-1 with n a power of two no larger than eight (D2h
// and its subgroups). The direct product of two irreps is the XOR of their
// labels, and irrep 0 is totally symmetric.
package symmetry

import (
	"errors"
	"fmt"
)

// MaxIrreps is the order of the largest supported group (D2h).
const MaxIrreps = 8

// Common errors.
var (
	ErrInvalidGroup = errors.New("invalid point group")
	ErrInvalidDims  = errors.New("invalid dimension table")
	ErrInvalidIrrep = errors.New("irrep out of range")
)

// Group is an Abelian point group identified by its number of irreps.
type Group struct {
	NumIrreps int
}

// NewGroup returns a validated group.
func NewGroup(nirreps int) (Group, error) {
	g := Group{NumIrreps: nirreps}
	if err := g.Validate(); err != nil {
		return Group{}, err
	}
	return g, nil
}

// Validate checks that the irrep count is a power of two in [1, MaxIrreps].
func (g Group) Validate() error {
	n := g.NumIrreps
	if n < 1 || n > MaxIrreps || n&(n-1) != 0 {
		return fmt.Errorf("%w: %d irreps (want 1, 2, 4 or 8)", ErrInvalidGroup, n)
	}
	return nil
}

// Product returns the direct product of two irreps.
func (g Group) Product(a, b int) int {
	return a ^ b
}

// CheckIrrep returns ErrInvalidIrrep if h is not a label of g.
func (g Group) CheckIrrep(h int) error {
	if h < 0 || h >= g.NumIrreps {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidIrrep, h, g.NumIrreps)
	}
	return nil
}

// Dims counts basis functions (orbitals) per irrep.
type Dims []int

// Total returns the number of functions across all irreps.
func (d Dims) Total() int {
	n := 0
	for _, v := range d {
		n += v
	}
	return n
}

// Validate checks that the table has one non-negative entry per irrep of g.
func (d Dims) Validate(g Group) error {
	if len(d) != g.NumIrreps {
		return fmt.Errorf("%w: %d entries for %d irreps", ErrInvalidDims, len(d), g.NumIrreps)
	}
	for h, v := range d {
		if v < 0 {
			return fmt.Errorf("%w: irrep %d has %d functions", ErrInvalidDims, h, v)
		}
	}
	return nil
}

// Clone returns a copy of the table.
func (d Dims) Clone() Dims {
	out := make(Dims, len(d))
	copy(out, d)
	return out
}
