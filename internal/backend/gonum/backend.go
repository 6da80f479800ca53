// Package gonum implements tensor.Backend on top of gonum's BLAS.
//
// The default gonum implementation is pure Go; linking a cgo BLAS through
// blas64.Use swaps in a vendor library without touching callers.
package gonum

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/born-ml/symtensor/internal/tensor"
)

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// Backend dispatches Gemm to blas64.
type Backend struct {
	impl blas.Float64
}

// New creates a backend bound to the currently registered blas64 implementation.
func New() *Backend {
	return &Backend{impl: blas64.Implementation()}
}

// NewWith creates a backend using the given BLAS implementation.
func NewWith(impl blas.Float64) *Backend {
	return &Backend{impl: impl}
}

// Name returns the backend name.
func (g *Backend) Name() string {
	return "gonum"
}

// Gemm computes C = alpha*op(A)*op(B) + beta*C via Dgemm.
func (g *Backend) Gemm(transA, transB tensor.Transpose, m, n, k int, alpha float64, a []float64, lda int,
	b []float64, ldb int, beta float64, c []float64, ldc int) error {
	if err := tensor.CheckGemm(transA, transB, m, n, k, a, lda, b, ldb, c, ldc); err != nil {
		return err
	}
	if m == 0 || n == 0 {
		return nil
	}
	if k == 0 || alpha == 0 {
		// Dgemm requires non-empty operands even when the product vanishes.
		scale(c, m, n, ldc, beta)
		return nil
	}

	g.impl.Dgemm(toBlas(transA), toBlas(transB), m, n, k, alpha, a, lda, b, ldb, beta, c, ldc)
	return nil
}

func toBlas(t tensor.Transpose) blas.Transpose {
	if t {
		return blas.Trans
	}
	return blas.NoTrans
}

func scale(c []float64, m, n, ldc int, beta float64) {
	for i := 0; i < m; i++ {
		row := c[i*ldc : i*ldc+n]
		for j := range row {
			if beta == 0 {
				row[j] = 0
			} else {
				row[j] *= beta
			}
		}
	}
}
