// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/symtensor/backend/cpu"
	"github.com/born-ml/symtensor/backend/gonum"
	"github.com/born-ml/symtensor/tensor"
)

func TestPublicGemm(t *testing.T) {
	a, err := tensor.BlockFrom(2, 3, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	b, err := tensor.BlockFrom(3, 2, []float64{7, 8, 9, 10, 11, 12})
	require.NoError(t, err)

	for _, backend := range []tensor.Backend{cpu.New(), gonum.New()} {
		c := tensor.NewBlock(2, 2)
		require.NoError(t, backend.Gemm(tensor.NoTrans, tensor.NoTrans, 2, 2, 3,
			1, a.Data, 3, b.Data, 2, 0, c.Data, 2), backend.Name())
		assert.Equal(t, []float64{58, 64, 139, 154}, c.Data, backend.Name())
	}
}

func TestPublicGemm_RejectsShortOperand(t *testing.T) {
	c := tensor.NewBlock(2, 2)
	err := cpu.New().Gemm(tensor.NoTrans, tensor.NoTrans, 2, 2, 3,
		1, make([]float64, 5), 3, make([]float64, 6), 2, 0, c.Data, 2)
	assert.ErrorIs(t, err, tensor.ErrGemmArgument)
}
