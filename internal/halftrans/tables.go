package halftrans

import (
	"fmt"

	"github.com/born-ml/symtensor/internal/symmetry"
)

// Direction selects which side of the transform is the source.
type Direction int

// Transform directions.
const (
	MOToSO Direction = iota + 1
	SOToMO
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == MOToSO || d == SOToMO
}

func (d Direction) String() string {
	switch d {
	case MOToSO:
		return "mo_to_so"
	case SOToMO:
		return "so_to_mo"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Tables carries the dimension and offset tables of one transform.
//
// MORow[h][Gc] is the column of an MO-buffer row of irrep h at which the
// (Gc, Gd) orbital-pair sub-block begins; SORow is the same for the SO
// buffer. MOPI and SOPI count orbitals and basis functions per irrep.
type Tables struct {
	Group symmetry.Group
	MORow [][]int
	SORow [][]int
	MOPI  symmetry.Dims
	SOPI  symmetry.Dims
}

// NewTables derives Gc-ordered offset tables for tensors of overall irrep
// myIrrep.
func NewTables(g symmetry.Group, mopi, sopi symmetry.Dims, myIrrep int) Tables {
	return Tables{
		Group: g,
		MORow: symmetry.OffsetTable(g, mopi, mopi, myIrrep),
		SORow: symmetry.OffsetTable(g, sopi, sopi, myIrrep),
		MOPI:  mopi.Clone(),
		SOPI:  sopi.Clone(),
	}
}

// MOColTot returns the composite column counts of the MO buffer.
func (t Tables) MOColTot() []int {
	return symmetry.PairTotals(t.Group, t.MOPI, t.MOPI)
}

// SOColTot returns the composite column counts of the SO buffer.
func (t Tables) SOColTot() []int {
	return symmetry.PairTotals(t.Group, t.SOPI, t.SOPI)
}

func (t Tables) validate() error {
	if err := t.Group.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrDimensionMismatch, err)
	}
	if err := t.MOPI.Validate(t.Group); err != nil {
		return fmt.Errorf("%w: mopi: %w", ErrDimensionMismatch, err)
	}
	if err := t.SOPI.Validate(t.Group); err != nil {
		return fmt.Errorf("%w: sopi: %w", ErrDimensionMismatch, err)
	}
	for _, named := range []struct {
		name string
		tbl  [][]int
	}{{"mo_row", t.MORow}, {"so_row", t.SORow}} {
		name, tbl := named.name, named.tbl
		if len(tbl) != t.Group.NumIrreps {
			return fmt.Errorf("%w: %s has %d rows, want %d", ErrDimensionMismatch, name, len(tbl), t.Group.NumIrreps)
		}
		for h, row := range tbl {
			if len(row) != t.Group.NumIrreps {
				return fmt.Errorf("%w: %s[%d] has %d entries, want %d",
					ErrDimensionMismatch, name, h, len(row), t.Group.NumIrreps)
			}
		}
	}
	return nil
}
