package tensor

// Transpose selects whether a GEMM operand is used as stored or transposed.
type Transpose bool

// Transpose flags.
const (
	NoTrans Transpose = false
	Trans   Transpose = true
)

// String returns the BLAS character for the flag.
func (t Transpose) String() string {
	if t {
		return "t"
	}
	return "n"
}

// Backend defines the dense matrix-multiply primitive that compute backends implement.
//
// Gemm computes, in row-major storage,
//
//	C = alpha * op(A) * op(B) + beta * C
//
// where op(A) is m x k, op(B) is k x n and C is m x n. lda, ldb and ldc are the
// row strides of the stored (untransposed) operands. When beta is zero, C is
// write-only: its prior contents, NaN included, never reach the result. When
// alpha is zero the product is not formed.
//
// Implementations:
//   - internal/backend/cpu: pure Go, row-parallel
//   - internal/backend/gonum: gonum BLAS (blas64)
type Backend interface {
	Gemm(transA, transB Transpose, m, n, k int, alpha float64, a []float64, lda int,
		b []float64, ldb int, beta float64, c []float64, ldc int) error

	// Name returns a short backend identifier.
	Name() string
}
