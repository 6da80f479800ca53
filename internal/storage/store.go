// Package storage provides the backing stores behind an irrep tensor buffer.
//
// A Store holds one tensor: a fixed set of irrep blocks whose sizes are known
// when the store is created. Buffers bring a block into memory with ReadBlock
// and persist it with WriteBlock; nothing in a Store decides when either
// happens.
//
// Implementations:
//   - MemoryStore: process memory (tests, small tensors)
//   - FileStore:   a .symt block file with in-place block I/O
//   - BadgerStore: one key per block in a BadgerDB instance, optionally zstd-compressed
//
// Instrument wraps any Store with Prometheus metrics.
package storage

import (
	"errors"
	"fmt"

	"github.com/born-ml/symtensor/internal/symmetry"
)

// Common errors.
var (
	ErrUnknownIrrep  = errors.New("irrep not in store layout")
	ErrSizeMismatch  = errors.New("block size does not match layout")
	ErrBlockNotFound = errors.New("block has never been written")
	ErrClosed        = errors.New("store is closed")
	ErrInvalidLayout = errors.New("invalid store layout")
)

// Store persists the irrep blocks of one tensor.
type Store interface {
	// ReadBlock copies the stored block for irrep into dst.
	ReadBlock(irrep int, dst []float64) error
	// WriteBlock replaces the stored block for irrep with src.
	WriteBlock(irrep int, src []float64) error
	// Close releases resources held by the store.
	Close() error
}

// Layout describes the tensor a store holds.
type Layout struct {
	Name      string
	NumIrreps int
	MyIrrep   int
	RowTot    []int // rows per row irrep
	ColTot    []int // columns per column irrep
}

// Validate checks that the layout is internally consistent.
func (l Layout) Validate() error {
	g, err := symmetry.NewGroup(l.NumIrreps)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}
	if err := g.CheckIrrep(l.MyIrrep); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}
	if len(l.RowTot) != l.NumIrreps || len(l.ColTot) != l.NumIrreps {
		return fmt.Errorf("%w: rowtot/coltot need %d entries, got %d/%d",
			ErrInvalidLayout, l.NumIrreps, len(l.RowTot), len(l.ColTot))
	}
	for h := 0; h < l.NumIrreps; h++ {
		if l.RowTot[h] < 0 || l.ColTot[h] < 0 {
			return fmt.Errorf("%w: negative extent at irrep %d", ErrInvalidLayout, h)
		}
	}
	return nil
}

// BlockSize returns the number of values in the block for row irrep h,
// computed in 64-bit arithmetic.
func (l Layout) BlockSize(h int) int64 {
	return int64(l.RowTot[h]) * int64(l.ColTot[h^l.MyIrrep])
}

// checkBlock validates irrep and buffer length against the layout.
func (l Layout) checkBlock(irrep, n int) error {
	if irrep < 0 || irrep >= l.NumIrreps {
		return fmt.Errorf("%w: %d (store %q has %d irreps)", ErrUnknownIrrep, irrep, l.Name, l.NumIrreps)
	}
	if want := l.BlockSize(irrep); int64(n) != want {
		return fmt.Errorf("%w: store %q irrep %d holds %d values, buffer has %d",
			ErrSizeMismatch, l.Name, irrep, want, n)
	}
	return nil
}
