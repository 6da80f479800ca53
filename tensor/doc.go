// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor exposes the dense block type and the scaled matrix-multiply
// contract used by symtensor backends.
//
// # Overview
//
// A Block is a row-major float64 matrix. It is the in-memory form of one
// irrep of a symmetry-blocked tensor and the scratch space of the
// half-transformation. A Backend computes
//
//	C = alpha * op(A) * op(B) + beta * C
//
// on row-major slices with explicit leading dimensions, so sub-matrices of a
// larger block can be addressed in place with Block.RowFrom.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/symtensor/backend/cpu"
//	    "github.com/born-ml/symtensor/tensor"
//	)
//
//	func main() {
//	    a := tensor.NewBlock(2, 3)
//	    b := tensor.NewBlock(3, 2)
//	    c := tensor.NewBlock(2, 2)
//	    err := cpu.New().Gemm(tensor.NoTrans, tensor.NoTrans, 2, 2, 3,
//	        1, a.Data, 3, b.Data, 2, 0, c.Data, 2)
//	}
package tensor
