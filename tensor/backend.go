// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/symtensor/internal/tensor"

// Backend computes the scaled matrix multiply on row-major operands.
//
// Implementations:
//   - backend/cpu: pure Go, row-parallel
//   - backend/gonum: gonum BLAS
type Backend = tensor.Backend

// Transpose selects whether a Gemm operand is used transposed.
type Transpose = tensor.Transpose

// Transpose flags.
const (
	NoTrans = tensor.NoTrans
	Trans   = tensor.Trans
)

// CheckGemm validates Gemm arguments; backends call it before computing.
func CheckGemm(transA, transB Transpose, m, n, k int, a []float64, lda int,
	b []float64, ldb int, c []float64, ldc int) error {
	return tensor.CheckGemm(transA, transB, m, n, k, a, lda, b, ldb, c, ldc)
}

// ErrGemmArgument wraps every Gemm argument error.
var ErrGemmArgument = tensor.ErrGemmArgument
