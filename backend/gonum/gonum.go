// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package gonum provides a scaled matrix multiply backed by gonum's BLAS.
//
// The default implementation is gonum's pure Go BLAS. Any blas.Float64,
// such as a cgo binding to a vendor library, can be substituted with NewWith.
package gonum

import (
	"gonum.org/v1/gonum/blas"

	internalgonum "github.com/born-ml/symtensor/internal/backend/gonum"
	"github.com/born-ml/symtensor/tensor"
)

// Backend is the gonum BLAS backend.
type Backend = internalgonum.Backend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New returns a backend using the registered blas64 implementation.
func New() *Backend {
	return internalgonum.New()
}

// NewWith returns a backend using impl.
func NewWith(impl blas.Float64) *Backend {
	return internalgonum.NewWith(impl)
}
