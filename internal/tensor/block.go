// Package tensor provides the dense block type and the scaled matrix-multiply
// contract shared by all compute backends.
package tensor

import "fmt"

// Block is a dense, row-major rectangular matrix of float64.
//
// A Block is the unit of scratch memory for the half-transformation and the
// in-memory form of one irrep of a symmetry-blocked tensor. Element (r, c)
// lives at Data[r*Cols+c].
type Block struct {
	shape Shape
	Data  []float64
}

// NewBlock allocates a zero-initialized rows x cols block.
//
// A block with rows == 0 or cols == 0 is valid: it has no backing storage
// and may be freed like any other block. Negative dimensions and sizes that
// do not fit the address space panic; allocation failure is not recoverable.
func NewBlock(rows, cols int) *Block {
	shape := Shape{Rows: rows, Cols: cols}
	if err := shape.Validate(); err != nil {
		panic(fmt.Sprintf("tensor.NewBlock: %v", err))
	}

	b := &Block{shape: shape}
	if !shape.Empty() {
		b.Data = make([]float64, shape.NumElements())
	}
	return b
}

// BlockFrom wraps data as a rows x cols block without copying.
func BlockFrom(rows, cols int, data []float64) (*Block, error) {
	shape := Shape{Rows: rows, Cols: cols}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if int64(len(data)) != shape.NumElements() {
		return nil, fmt.Errorf("%w: %s block needs %d elements, got %d",
			ErrInvalidShape, shape, shape.NumElements(), len(data))
	}
	if shape.Empty() {
		data = nil
	}
	return &Block{shape: shape, Data: data}, nil
}

// Free releases the backing storage. It is safe on nil and on empty blocks.
func (b *Block) Free() {
	if b == nil {
		return
	}
	b.Data = nil
}

// Shape returns the block's extent.
func (b *Block) Shape() Shape {
	return b.shape
}

// Rows returns the number of rows.
func (b *Block) Rows() int {
	return b.shape.Rows
}

// Cols returns the number of columns (also the leading dimension).
func (b *Block) Cols() int {
	return b.shape.Cols
}

// Empty reports whether the block holds no data, either because its shape
// is empty or because it has been freed.
func (b *Block) Empty() bool {
	return b == nil || len(b.Data) == 0
}

// At returns element (r, c).
func (b *Block) At(r, c int) float64 {
	return b.Data[r*b.shape.Cols+c]
}

// Set stores v at (r, c).
func (b *Block) Set(r, c int, v float64) {
	b.Data[r*b.shape.Cols+c] = v
}

// Row returns row r as a slice sharing the block's storage.
func (b *Block) Row(r int) []float64 {
	start := r * b.shape.Cols
	return b.Data[start : start+b.shape.Cols]
}

// RowFrom returns the tail of row r starting at column c, extended to the end
// of the block. It is the Go form of taking &matrix[r][c] as the origin of a
// sub-matrix with a smaller leading dimension.
func (b *Block) RowFrom(r, c int) []float64 {
	return b.Data[r*b.shape.Cols+c:]
}

// Fill sets every element to v.
func (b *Block) Fill(v float64) {
	for i := range b.Data {
		b.Data[i] = v
	}
}

// Clone returns a deep copy.
func (b *Block) Clone() *Block {
	out := &Block{shape: b.shape}
	if b.Data != nil {
		out.Data = make([]float64, len(b.Data))
		copy(out.Data, b.Data)
	}
	return out
}
