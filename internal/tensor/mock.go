package tensor

// Verify that MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)

// GemmCall records the scalar arguments of one Gemm invocation.
type GemmCall struct {
	TransA, TransB Transpose
	M, N, K        int
	Alpha, Beta    float64
	LDA, LDB, LDC  int
}

// MockBackend is a reference backend for testing.
// It implements Gemm naively for correctness verification and records every call.
type MockBackend struct {
	Calls []GemmCall

	// Err, when set, is returned from every Gemm call after validation.
	Err error
}

// NewMockBackend creates a new MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Name returns the backend name.
func (m *MockBackend) Name() string {
	return "mock"
}

// Gemm performs C = alpha*op(A)*op(B) + beta*C with a straightforward triple loop.
func (m *MockBackend) Gemm(transA, transB Transpose, mm, n, k int, alpha float64, a []float64, lda int,
	b []float64, ldb int, beta float64, c []float64, ldc int) error {
	if err := CheckGemm(transA, transB, mm, n, k, a, lda, b, ldb, c, ldc); err != nil {
		return err
	}
	m.Calls = append(m.Calls, GemmCall{
		TransA: transA, TransB: transB,
		M: mm, N: n, K: k,
		Alpha: alpha, Beta: beta,
		LDA: lda, LDB: ldb, LDC: ldc,
	})
	if m.Err != nil {
		return m.Err
	}

	for i := 0; i < mm; i++ {
		for j := 0; j < n; j++ {
			var sum float64
			if alpha != 0 {
				for p := 0; p < k; p++ {
					sum += ElemA(transA, a, lda, i, p) * ElemA(transB, b, ldb, p, j)
				}
			}
			if beta == 0 {
				c[i*ldc+j] = alpha * sum
			} else {
				c[i*ldc+j] = alpha*sum + beta*c[i*ldc+j]
			}
		}
	}
	return nil
}

// Reset clears the recorded calls.
func (m *MockBackend) Reset() {
	m.Calls = m.Calls[:0]
}

// ElemA returns element (i, j) of op(X) where X is stored row-major with leading dimension ld.
func ElemA(t Transpose, x []float64, ld, i, j int) float64 {
	if t {
		return x[j*ld+i]
	}
	return x[i*ld+j]
}
