package tensor

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckGemm(t *testing.T) {
	a := make([]float64, 6)  // 2x3
	b := make([]float64, 12) // 3x4
	c := make([]float64, 8)  // 2x4

	tests := []struct {
		name    string
		transA  Transpose
		transB  Transpose
		m, n, k int
		lda     int
		ldb     int
		ldc     int
		wantErr bool
	}{
		{"plain", NoTrans, NoTrans, 2, 4, 3, 3, 4, 4, false},
		{"transposed A as 3x2", Trans, NoTrans, 2, 4, 3, 2, 4, 4, false},
		{"lda too small", NoTrans, NoTrans, 2, 4, 3, 2, 4, 4, true},
		{"c too short", NoTrans, NoTrans, 3, 4, 3, 3, 4, 4, true},
		{"negative", NoTrans, NoTrans, -1, 4, 3, 3, 4, 4, true},
		{"empty m", NoTrans, NoTrans, 0, 4, 3, 3, 4, 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckGemm(tt.transA, tt.transB, tt.m, tt.n, tt.k, a, tt.lda, b, tt.ldb, c, tt.ldc)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrGemmArgument)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMockBackend_Gemm(t *testing.T) {
	m := NewMockBackend()

	// A = [[1,2],[3,4]], B = [[5,6],[7,8]]
	a := []float64{1, 2, 3, 4}
	b := []float64{5, 6, 7, 8}

	c := make([]float64, 4)
	require.NoError(t, m.Gemm(NoTrans, NoTrans, 2, 2, 2, 1, a, 2, b, 2, 0, c, 2))
	assert.Equal(t, []float64{19, 22, 43, 50}, c)

	// A^T B = [[26,30],[38,44]]
	require.NoError(t, m.Gemm(Trans, NoTrans, 2, 2, 2, 1, a, 2, b, 2, 0, c, 2))
	assert.Equal(t, []float64{26, 30, 38, 44}, c)

	// 2 * A B^T + 1 * C
	require.NoError(t, m.Gemm(NoTrans, Trans, 2, 2, 2, 2, a, 2, b, 2, 1, c, 2))
	assert.Equal(t, []float64{26 + 34, 30 + 46, 38 + 78, 44 + 106}, c)

	assert.Len(t, m.Calls, 3)
	assert.Equal(t, Trans, m.Calls[2].TransB)
	assert.Equal(t, 2.0, m.Calls[2].Alpha)
}

func TestMockBackend_BetaZeroIgnoresNaN(t *testing.T) {
	m := NewMockBackend()
	a := []float64{1}
	b := []float64{2}
	c := []float64{math.NaN()}
	require.NoError(t, m.Gemm(NoTrans, NoTrans, 1, 1, 1, 1, a, 1, b, 1, 0, c, 1))
	assert.Equal(t, 2.0, c[0])
}

func TestMockBackend_Err(t *testing.T) {
	boom := errors.New("boom")
	m := &MockBackend{Err: boom}
	c := make([]float64, 1)
	err := m.Gemm(NoTrans, NoTrans, 1, 1, 1, 1, []float64{1}, 1, []float64{1}, 1, 0, c, 1)
	assert.ErrorIs(t, err, boom)
}
