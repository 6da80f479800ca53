package dpd

import (
	"fmt"

	"github.com/born-ml/symtensor/internal/storage"
	"github.com/born-ml/symtensor/internal/symmetry"
)

// Params describes the row and column structure of a family of tensors.
// RowTot[h] and ColTot[h] count the composite rows and columns of irrep h.
type Params struct {
	Name      string
	NumIrreps int
	RowTot    []int
	ColTot    []int
}

// NewParams builds the parameters of a four-index tensor whose rows are
// pairs of p×q orbitals and whose columns are pairs of r×s orbitals.
func NewParams(name string, g symmetry.Group, p, q, r, s symmetry.Dims) Params {
	return Params{
		Name:      name,
		NumIrreps: g.NumIrreps,
		RowTot:    symmetry.PairTotals(g, p, q),
		ColTot:    symmetry.PairTotals(g, r, s),
	}
}

// Validate checks the group size and the extent tables.
func (p Params) Validate() error {
	if _, err := symmetry.NewGroup(p.NumIrreps); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	if len(p.RowTot) != p.NumIrreps || len(p.ColTot) != p.NumIrreps {
		return fmt.Errorf("%w: %q needs %d row and column totals, got %d/%d",
			ErrInvalidParams, p.Name, p.NumIrreps, len(p.RowTot), len(p.ColTot))
	}
	for h := 0; h < p.NumIrreps; h++ {
		if p.RowTot[h] < 0 || p.ColTot[h] < 0 {
			return fmt.Errorf("%w: %q has a negative total at irrep %d", ErrInvalidParams, p.Name, h)
		}
	}
	return nil
}

// BlockSize returns the element count of irrep h for a tensor of the given
// symmetry, using 64-bit arithmetic.
func (p Params) BlockSize(h, myIrrep int) int64 {
	return int64(p.RowTot[h]) * int64(p.ColTot[h^myIrrep])
}

// Layout returns the storage layout of a tensor with these parameters.
func (p Params) Layout(name string, myIrrep int) storage.Layout {
	return storage.Layout{
		Name:      name,
		NumIrreps: p.NumIrreps,
		MyIrrep:   myIrrep,
		RowTot:    append([]int(nil), p.RowTot...),
		ColTot:    append([]int(nil), p.ColTot...),
	}
}
