// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/symtensor/internal/tensor"

// Block is a dense row-major float64 matrix.
type Block = tensor.Block

// Shape is the extent of a Block.
type Shape = tensor.Shape

// ErrInvalidShape is returned for negative or oversized shapes.
var ErrInvalidShape = tensor.ErrInvalidShape

// NewBlock allocates a zeroed rows x cols block.
func NewBlock(rows, cols int) *Block {
	return tensor.NewBlock(rows, cols)
}

// BlockFrom wraps data as a rows x cols block without copying.
func BlockFrom(rows, cols int, data []float64) (*Block, error) {
	return tensor.BlockFrom(rows, cols, data)
}
