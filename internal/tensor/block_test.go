package tensor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBlock(t *testing.T) {
	b := NewBlock(3, 4)
	require.Len(t, b.Data, 12)
	assert.Equal(t, Shape{Rows: 3, Cols: 4}, b.Shape())
	for _, v := range b.Data {
		assert.Zero(t, v)
	}

	b.Set(2, 1, 7.5)
	assert.Equal(t, 7.5, b.At(2, 1))
	assert.Equal(t, 7.5, b.Row(2)[1])
	assert.Equal(t, 7.5, b.RowFrom(2, 1)[0])
	assert.Len(t, b.RowFrom(2, 1), 3)
}

func TestNewBlock_Empty(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
	}{
		{"zero rows", 0, 5},
		{"zero cols", 5, 0},
		{"zero both", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBlock(tt.rows, tt.cols)
			assert.True(t, b.Empty())
			assert.Nil(t, b.Data)
			assert.NotPanics(t, b.Free)
		})
	}
}

func TestNewBlock_NegativePanics(t *testing.T) {
	assert.Panics(t, func() { NewBlock(-1, 2) })
}

func TestBlock_FreeNil(t *testing.T) {
	var b *Block
	assert.NotPanics(t, b.Free)
	assert.True(t, b.Empty())
}

func TestBlock_Free(t *testing.T) {
	b := NewBlock(2, 2)
	b.Free()
	assert.True(t, b.Empty())
}

func TestBlockFrom(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}
	b, err := BlockFrom(2, 3, data)
	require.NoError(t, err)
	assert.Equal(t, 6.0, b.At(1, 2))

	// Shares storage.
	data[0] = 42
	assert.Equal(t, 42.0, b.At(0, 0))

	_, err = BlockFrom(2, 2, data)
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestBlock_Clone(t *testing.T) {
	b := NewBlock(2, 2)
	b.Fill(3)
	c := b.Clone()
	c.Set(0, 0, 1)
	assert.Equal(t, 3.0, b.At(0, 0))
	assert.Equal(t, 1.0, c.At(0, 0))
}

func TestShape_NumElementsWide(t *testing.T) {
	// 70000 * 70000 overflows int32 but not int64.
	s := Shape{Rows: 70000, Cols: 70000}
	assert.Equal(t, int64(4_900_000_000), s.NumElements())
	assert.Greater(t, s.NumElements(), int64(math.MaxInt32))
}

func TestShape_Validate(t *testing.T) {
	assert.NoError(t, Shape{Rows: 0, Cols: 3}.Validate())
	assert.ErrorIs(t, Shape{Rows: -1, Cols: 3}.Validate(), ErrInvalidShape)
	assert.Equal(t, "2x3", Shape{Rows: 2, Cols: 3}.String())
}
