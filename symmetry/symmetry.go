// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package symmetry describes Abelian point groups and the per-irrep
// dimension and offset tables of pair indices.
package symmetry

import "github.com/born-ml/symtensor/internal/symmetry"

// Group is an Abelian point group with 1, 2, 4 or 8 irreps.
type Group = symmetry.Group

// Dims counts orbitals or basis functions per irrep.
type Dims = symmetry.Dims

// MaxIrreps is the irrep count of D2h.
const MaxIrreps = symmetry.MaxIrreps

// Errors.
var (
	ErrInvalidGroup = symmetry.ErrInvalidGroup
	ErrInvalidDims  = symmetry.ErrInvalidDims
	ErrInvalidIrrep = symmetry.ErrInvalidIrrep
)

// NewGroup validates nirreps and returns the group.
func NewGroup(nirreps int) (Group, error) {
	return symmetry.NewGroup(nirreps)
}

// PairTotals returns the composite pair count of every irrep.
func PairTotals(g Group, p, q Dims) []int {
	return symmetry.PairTotals(g, p, q)
}

// OffsetTable returns the Gc-ordered sub-block offsets of a pair index.
func OffsetTable(g Group, p, q Dims, myIrrep int) [][]int {
	return symmetry.OffsetTable(g, p, q, myIrrep)
}
