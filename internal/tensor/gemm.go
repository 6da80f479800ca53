package tensor

import "fmt"

// CheckGemm validates the arguments of a Gemm call against the row-major
// BLAS contract. Backends call it before touching memory.
func CheckGemm(transA, transB Transpose, m, n, k int, a []float64, lda int,
	b []float64, ldb int, c []float64, ldc int) error {
	if m < 0 || n < 0 || k < 0 {
		return fmt.Errorf("%w: negative dimension m=%d n=%d k=%d", ErrGemmArgument, m, n, k)
	}

	// Stored shapes: A is m x k (or k x m when transposed), likewise for B.
	aRows, aCols := m, k
	if transA {
		aRows, aCols = k, m
	}
	bRows, bCols := k, n
	if transB {
		bRows, bCols = n, k
	}

	if err := checkOperand("a", aRows, aCols, a, lda); err != nil {
		return err
	}
	if err := checkOperand("b", bRows, bCols, b, ldb); err != nil {
		return err
	}
	return checkOperand("c", m, n, c, ldc)
}

func checkOperand(name string, rows, cols int, data []float64, ld int) error {
	if ld < max(1, cols) {
		return fmt.Errorf("%w: ld%s=%d < max(1,%d)", ErrGemmArgument, name, ld, cols)
	}
	if rows == 0 || cols == 0 {
		return nil
	}
	need := int64(rows-1)*int64(ld) + int64(cols)
	if int64(len(data)) < need {
		return fmt.Errorf("%w: %s has %d elements, %dx%d with ld=%d needs %d",
			ErrGemmArgument, name, len(data), rows, cols, ld, need)
	}
	return nil
}
