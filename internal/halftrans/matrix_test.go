package halftrans

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/symtensor/internal/symmetry"
)

func TestNewMatrix(t *testing.T) {
	m := NewMatrix(symmetry.Dims{5, 0, 2}, symmetry.Dims{3, 0, 2})
	require.Len(t, m.Blocks, 3)
	assert.Equal(t, 5, m.Block(0).Rows())
	assert.Equal(t, 3, m.Block(0).Cols())
	assert.True(t, m.Block(1).Empty())
	assert.Equal(t, make([]float64, 4), m.Block(2).Data)
}

func TestMatrix_ValidateAllowsAbsentEmptyBlocks(t *testing.T) {
	g := symmetry.Group{NumIrreps: 2}
	mopi, sopi := symmetry.Dims{2, 0}, symmetry.Dims{3, 1}

	m := NewMatrix(sopi, mopi)
	m.Blocks[1] = nil
	assert.NoError(t, m.Validate(g, mopi, sopi))

	m.Blocks = m.Blocks[:1]
	assert.ErrorIs(t, m.Validate(g, mopi, sopi), ErrMatrixShape)
}

func TestRandomOrthonormal(t *testing.T) {
	sopi, mopi := symmetry.Dims{5, 2, 3, 0}, symmetry.Dims{3, 2, 1, 0}
	c, err := RandomOrthonormal(rand.New(rand.NewSource(42)), sopi, mopi)
	require.NoError(t, err)
	require.NoError(t, c.Validate(symmetry.Group{NumIrreps: 4}, mopi, sopi))

	for g := 0; g < 3; g++ {
		b := c.Block(g)
		cm := mat.NewDense(b.Rows(), b.Cols(), b.Data)
		var ctc mat.Dense
		ctc.Mul(cm.T(), cm)

		id := mat.NewDiagDense(mopi[g], nil)
		for i := 0; i < mopi[g]; i++ {
			id.SetDiag(i, 1)
		}
		assert.True(t, mat.EqualApprox(&ctc, id, 1e-12), "irrep %d", g)
	}
}

func TestRandomOrthonormal_TooFewBasisFunctions(t *testing.T) {
	_, err := RandomOrthonormal(rand.New(rand.NewSource(1)), symmetry.Dims{1}, symmetry.Dims{2})
	assert.ErrorIs(t, err, ErrMatrixShape)
}

func TestDirection(t *testing.T) {
	assert.True(t, MOToSO.Valid())
	assert.True(t, SOToMO.Valid())
	assert.False(t, Direction(0).Valid())
	assert.Equal(t, "mo_to_so", MOToSO.String())
	assert.Equal(t, "so_to_mo", SOToMO.String())
	assert.Equal(t, "direction(7)", Direction(7).String())
}

func TestNewTables(t *testing.T) {
	g := symmetry.Group{NumIrreps: 2}
	tb := NewTables(g, symmetry.Dims{2, 1}, symmetry.Dims{3, 2}, 0)

	assert.Equal(t, [][]int{{0, 4}, {0, 2}}, tb.MORow)
	assert.Equal(t, [][]int{{0, 9}, {0, 6}}, tb.SORow)
	assert.Equal(t, []int{5, 4}, tb.MOColTot())
	assert.Equal(t, []int{13, 12}, tb.SOColTot())
	assert.NoError(t, tb.validate())
}
