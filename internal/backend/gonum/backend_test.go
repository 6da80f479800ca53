package gonum

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/symtensor/internal/backend/cpu"
	"github.com/born-ml/symtensor/internal/tensor"
)

func TestBackend_AgreesWithCPU(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	g := New()
	c := cpu.New()

	trans := []tensor.Transpose{tensor.NoTrans, tensor.Trans}
	m, n, k := 6, 5, 4

	for _, ta := range trans {
		for _, tb := range trans {
			lda := k
			if ta {
				lda = m
			}
			ldb := n
			if tb {
				ldb = k
			}
			a := make([]float64, m*k)
			b := make([]float64, k*n)
			c0 := make([]float64, m*n)
			for i := range a {
				a[i] = rng.NormFloat64()
			}
			for i := range b {
				b[i] = rng.NormFloat64()
			}
			for i := range c0 {
				c0[i] = rng.NormFloat64()
			}

			want := append([]float64(nil), c0...)
			require.NoError(t, c.Gemm(ta, tb, m, n, k, 1.5, a, lda, b, ldb, 0.5, want, n))
			got := append([]float64(nil), c0...)
			require.NoError(t, g.Gemm(ta, tb, m, n, k, 1.5, a, lda, b, ldb, 0.5, got, n))

			assert.InDeltaSlice(t, want, got, 1e-12, "%s%s", ta, tb)
		}
	}
}

func TestBackend_BetaZero(t *testing.T) {
	g := New()
	c := []float64{math.NaN()}
	require.NoError(t, g.Gemm(tensor.NoTrans, tensor.NoTrans, 1, 1, 1, 1, []float64{2}, 1, []float64{3}, 1, 0, c, 1))
	assert.Equal(t, 6.0, c[0])
}

func TestBackend_EmptyInner(t *testing.T) {
	g := New()
	c := []float64{1, 2}
	require.NoError(t, g.Gemm(tensor.NoTrans, tensor.NoTrans, 1, 2, 0, 1, nil, 1, nil, 2, 2, c, 2))
	assert.Equal(t, []float64{2, 4}, c)
}

func TestBackend_Name(t *testing.T) {
	assert.Equal(t, "gonum", New().Name())
}
