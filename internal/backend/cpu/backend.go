// Package cpu implements the pure-Go CPU backend for the scaled matrix multiply.
package cpu

import (
	"github.com/born-ml/symtensor/internal/parallel"
	"github.com/born-ml/symtensor/internal/tensor"
)

// Compile-time check that CPUBackend implements tensor.Backend.
var _ tensor.Backend = (*CPUBackend)(nil)

// CPUBackend implements tensor.Backend on CPU without external BLAS.
type CPUBackend struct {
	parallel parallel.Config
}

// Option configures a CPUBackend.
type Option func(*CPUBackend)

// WithParallel overrides the row-splitting configuration.
func WithParallel(cfg parallel.Config) Option {
	return func(c *CPUBackend) {
		c.parallel = cfg
	}
}

// New creates a new CPU backend.
func New(opts ...Option) *CPUBackend {
	c := &CPUBackend{
		parallel: parallel.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "cpu"
}

// Parallel returns the row-splitting configuration in use.
func (cpu *CPUBackend) Parallel() parallel.Config {
	return cpu.parallel
}
