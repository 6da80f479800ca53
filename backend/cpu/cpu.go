// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/symtensor/internal/backend/cpu"
	"github.com/born-ml/symtensor/internal/parallel"
	"github.com/born-ml/symtensor/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Option configures the CPU backend.
type Option = internalcpu.Option

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	import "github.com/born-ml/symtensor/backend/cpu"
//
//	func main() {
//	    backend := cpu.New(cpu.WithWorkers(4))
//	    engine := halftrans.New(halftrans.WithBackend(backend))
//	}
func New(opts ...Option) *Backend {
	return internalcpu.New(opts...)
}

// WithWorkers splits large multiplies across n goroutines.
// n <= 1 runs sequentially.
func WithWorkers(n int) Option {
	cfg := parallel.DefaultConfig()
	cfg.NumWorkers = n
	cfg.Enabled = n > 1
	return internalcpu.WithParallel(cfg)
}
