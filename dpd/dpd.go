// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dpd provides symmetry-blocked four-index tensor buffers with an
// explicit backing store and checked Init/Read/Write/Close lifecycle.
package dpd

import (
	"github.com/born-ml/symtensor/internal/dpd"
	"github.com/born-ml/symtensor/storage"
	"github.com/born-ml/symtensor/symmetry"
)

// Buffer is a symmetry-blocked tensor bound to a store.
type Buffer = dpd.Buffer

// Params describes row and column totals per irrep.
type Params = dpd.Params

// Option configures a Buffer.
type Option = dpd.Option

// LifecycleError reports a failed buffer verb.
type LifecycleError = dpd.LifecycleError

// Errors.
var (
	ErrNotOpen       = dpd.ErrNotOpen
	ErrAlreadyOpen   = dpd.ErrAlreadyOpen
	ErrUnknownIrrep  = dpd.ErrUnknownIrrep
	ErrNoStore       = dpd.ErrNoStore
	ErrInvalidParams = dpd.ErrInvalidParams
)

// Buffer options.
var (
	WithInCore = dpd.WithInCore
	WithLoad   = dpd.WithLoad
)

// NewBuffer creates a buffer of overall irrep myIrrep backed by store.
func NewBuffer(params Params, myIrrep int, store storage.Store, opts ...Option) (*Buffer, error) {
	return dpd.NewBuffer(params, myIrrep, store, opts...)
}

// NewParams builds the parameters of a (pq|rs) tensor.
func NewParams(name string, g symmetry.Group, p, q, r, s symmetry.Dims) Params {
	return dpd.NewParams(name, g, p, q, r, s)
}
