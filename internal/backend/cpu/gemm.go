package cpu

import (
	"github.com/born-ml/symtensor/internal/parallel"
	"github.com/born-ml/symtensor/internal/tensor"
)

// Gemm computes C = alpha*op(A)*op(B) + beta*C in row-major storage.
//
// Rows of C are independent, so they are distributed across workers. Within a
// row the k-loop is the outer loop for the untransposed-B case so that B is
// streamed along its rows.
func (cpu *CPUBackend) Gemm(transA, transB tensor.Transpose, m, n, k int, alpha float64, a []float64, lda int,
	b []float64, ldb int, beta float64, c []float64, ldc int) error {
	if err := tensor.CheckGemm(transA, transB, m, n, k, a, lda, b, ldb, c, ldc); err != nil {
		return err
	}
	if m == 0 || n == 0 {
		return nil
	}

	cfg := cpu.parallel
	if int64(m)*int64(n)*int64(k) < 4096 {
		cfg = parallel.Sequential()
	}

	parallel.For(m, func(i int) {
		row := c[i*ldc : i*ldc+n]
		scaleRow(row, beta)
		if alpha == 0 || k == 0 {
			return
		}
		switch {
		case transB == tensor.NoTrans:
			gemmRowNN(row, transA, a, lda, b, ldb, alpha, i, n, k)
		default:
			gemmRowNT(row, transA, a, lda, b, ldb, alpha, i, n, k)
		}
	}, cfg)

	return nil
}

// scaleRow applies beta to one output row. beta == 0 overwrites.
func scaleRow(row []float64, beta float64) {
	switch beta {
	case 0:
		for j := range row {
			row[j] = 0
		}
	case 1:
	default:
		for j := range row {
			row[j] *= beta
		}
	}
}

// aElem returns op(A)[i,p].
func aElem(transA tensor.Transpose, a []float64, lda, i, p int) float64 {
	if transA {
		return a[p*lda+i]
	}
	return a[i*lda+p]
}

// gemmRowNN accumulates alpha * op(A)[i,:] * B into row.
func gemmRowNN(row []float64, transA tensor.Transpose, a []float64, lda int, b []float64, ldb int,
	alpha float64, i, n, k int) {
	for p := 0; p < k; p++ {
		s := alpha * aElem(transA, a, lda, i, p)
		if s == 0 {
			continue
		}
		bRow := b[p*ldb : p*ldb+n]
		for j, v := range bRow {
			row[j] += s * v
		}
	}
}

// gemmRowNT accumulates alpha * op(A)[i,:] * B^T into row.
func gemmRowNT(row []float64, transA tensor.Transpose, a []float64, lda int, b []float64, ldb int,
	alpha float64, i, n, k int) {
	for j := 0; j < n; j++ {
		bRow := b[j*ldb : j*ldb+k]
		var sum float64
		for p, v := range bRow {
			sum += aElem(transA, a, lda, i, p) * v
		}
		row[j] += alpha * sum
	}
}
