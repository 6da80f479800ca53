// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for the scaled matrix multiply.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - All four transpose combinations on row-major operands
//   - Row-parallel execution for large outputs
//   - beta == 0 treated as write-only output
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/symtensor/backend/cpu"
//	    "github.com/born-ml/symtensor/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    c := tensor.NewBlock(m, n)
//	    err := backend.Gemm(tensor.NoTrans, tensor.Trans, m, n, k,
//	        1, a, k, b, k, 0, c.Data, n)
//	}
package cpu
