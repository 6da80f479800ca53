package halftrans

import (
	"fmt"

	"github.com/born-ml/symtensor/internal/symmetry"
	"github.com/born-ml/symtensor/internal/tensor"
)

// Matrix is a symmetry-blocked SO-to-MO transformation. Blocks[g] holds the
// coefficients of irrep g, shaped sospi[g] x mospi[g]: row mu, column p is
// the weight of basis function mu in orbital p.
type Matrix struct {
	Blocks []*tensor.Block
}

// NewMatrix allocates a zeroed matrix for the given dimensions.
func NewMatrix(sospi, mospi symmetry.Dims) *Matrix {
	n := min(len(sospi), len(mospi))
	m := &Matrix{Blocks: make([]*tensor.Block, n)}
	for g := 0; g < n; g++ {
		m.Blocks[g] = tensor.NewBlock(sospi[g], mospi[g])
	}
	return m
}

// Block returns the coefficients of irrep g.
func (m *Matrix) Block(g int) *tensor.Block {
	return m.Blocks[g]
}

// Validate checks that every irrep block exists with the right shape.
// A block may be absent only where sospi[g] or mospi[g] is zero.
func (m *Matrix) Validate(g symmetry.Group, mospi, sospi symmetry.Dims) error {
	if m == nil {
		return fmt.Errorf("%w: nil matrix", ErrMatrixIncomplete)
	}
	if len(m.Blocks) != g.NumIrreps {
		return fmt.Errorf("%w: %d irrep blocks for %d irreps", ErrMatrixShape, len(m.Blocks), g.NumIrreps)
	}
	for h, b := range m.Blocks {
		want := tensor.Shape{Rows: sospi[h], Cols: mospi[h]}
		if b == nil {
			if want.Empty() {
				continue
			}
			return fmt.Errorf("%w: irrep %d needs %s", ErrMatrixIncomplete, h, want)
		}
		if !b.Shape().Equal(want) {
			return fmt.Errorf("%w: irrep %d is %s, want %s", ErrMatrixShape, h, b.Shape(), want)
		}
		if !want.Empty() && b.Empty() {
			return fmt.Errorf("%w: irrep %d has been freed", ErrMatrixIncomplete, h)
		}
	}
	return nil
}
