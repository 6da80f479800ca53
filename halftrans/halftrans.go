// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package halftrans transforms symmetry-blocked four-index tensors between
// the molecular-orbital (MO) and atomic-orbital (SO) bases, one column
// index pair at a time.
//
// # Basic Usage
//
//	g := symmetry.Group{NumIrreps: 4}
//	mopi, sopi := symmetry.Dims{3, 1, 2, 1}, symmetry.Dims{5, 2, 3, 2}
//	tables := halftrans.NewTables(g, mopi, sopi, 0)
//
//	rows := []int{4, 2, 3, 1}
//	mo, _ := dpd.NewBuffer(dpd.Params{Name: "V", NumIrreps: 4, RowTot: rows, ColTot: tables.MOColTot()}, 0, moStore)
//	so, _ := dpd.NewBuffer(dpd.Params{Name: "S", NumIrreps: 4, RowTot: rows, ColTot: tables.SOColTot()}, 0, soStore)
//
//	engine := halftrans.New(halftrans.WithBackend(cpu.New()))
//	err := engine.Transform(ctx, mo, so, c, tables, halftrans.MOToSO, 1, 0)
package halftrans

import (
	"math/rand"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/born-ml/symtensor/internal/halftrans"
	"github.com/born-ml/symtensor/symmetry"
)

// Engine runs half-transformations.
type Engine = halftrans.Engine

// Option configures an Engine.
type Option = halftrans.Option

// Matrix is a symmetry-blocked transformation matrix.
type Matrix = halftrans.Matrix

// Tables carries the dimension and offset tables of a transform.
type Tables = halftrans.Tables

// Direction selects the source side of a transform.
type Direction = halftrans.Direction

// Metrics holds the engine's Prometheus collectors.
type Metrics = halftrans.Metrics

// Transform directions.
const (
	MOToSO = halftrans.MOToSO
	SOToMO = halftrans.SOToMO
)

// Errors returned by Transform.
var (
	ErrDimensionMismatch = halftrans.ErrDimensionMismatch
	ErrMatrixShape       = halftrans.ErrMatrixShape
	ErrMatrixIncomplete  = halftrans.ErrMatrixIncomplete
	ErrInvalidDirection  = halftrans.ErrInvalidDirection
	ErrNilBuffer         = halftrans.ErrNilBuffer
)

// Engine options.
var (
	WithBackend = halftrans.WithBackend
	WithLogger  = halftrans.WithLogger
	WithMetrics = halftrans.WithMetrics
	WithTracer  = halftrans.WithTracer
)

// New creates an engine on the CPU backend unless WithBackend is given.
func New(opts ...Option) *Engine {
	return halftrans.New(opts...)
}

// NewTables derives Gc-ordered offset tables.
func NewTables(g symmetry.Group, mopi, sopi symmetry.Dims, myIrrep int) Tables {
	return halftrans.NewTables(g, mopi, sopi, myIrrep)
}

// NewMatrix allocates a zeroed transformation matrix.
func NewMatrix(sospi, mospi symmetry.Dims) *Matrix {
	return halftrans.NewMatrix(sospi, mospi)
}

// RandomOrthonormal draws a matrix with orthonormal columns per irrep.
func RandomOrthonormal(rng *rand.Rand, sospi, mospi symmetry.Dims) (*Matrix, error) {
	return halftrans.RandomOrthonormal(rng, sospi, mospi)
}

// NewMetrics creates engine collectors registered with reg.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	return halftrans.NewMetrics(reg, namespace)
}
