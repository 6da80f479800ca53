// Package dpd implements symmetry-blocked four-index tensor buffers.
//
// A Buffer holds one tensor of fixed overall irrep. Its data are split into
// one dense matrix per row irrep h, of shape RowTot[h] x ColTot[h^MyIrrep].
// Only open irreps occupy memory; callers move them between memory and the
// buffer's Store with four verbs:
//
//	Init(h)   allocate the irrep matrix (zeroed)
//	Read(h)   fill it from the store
//	Write(h)  persist it to the store
//	Close(h)  release it
//
// Every irrep follows Closed -> Open -> Closed. Misuse returns a
// *LifecycleError instead of corrupting state.
package dpd

import (
	"fmt"

	"github.com/born-ml/symtensor/internal/storage"
	"github.com/born-ml/symtensor/internal/symmetry"
	"github.com/born-ml/symtensor/internal/tensor"
)

// Verb names used in errors.
const (
	OpInit  = "init"
	OpRead  = "read"
	OpWrite = "write"
	OpClose = "close"
)

// Buffer is a symmetry-blocked tensor bound to a backing store.
type Buffer struct {
	params  Params
	myIrrep int
	store   storage.Store

	inCore bool
	open   []bool
	blocks []*tensor.Block
}

// Option configures a Buffer.
type Option func(*bufferConfig)

type bufferConfig struct {
	inCore bool
	load   bool
}

// WithInCore keeps every irrep matrix resident for the buffer's lifetime.
// Init and Close then only track state, and Read and Write do not touch the
// store; Flush persists the resident data.
func WithInCore() Option {
	return func(c *bufferConfig) {
		c.inCore = true
	}
}

// WithLoad fills resident matrices from the store at construction.
// It implies WithInCore.
func WithLoad() Option {
	return func(c *bufferConfig) {
		c.inCore = true
		c.load = true
	}
}

// NewBuffer creates a buffer with the given parameters and overall irrep.
// store may be nil only for an in-core buffer that is never loaded or flushed.
func NewBuffer(params Params, myIrrep int, store storage.Store, opts ...Option) (*Buffer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	g := symmetry.Group{NumIrreps: params.NumIrreps}
	if err := g.CheckIrrep(myIrrep); err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidParams, params.Name, err)
	}

	var cfg bufferConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if store == nil && (!cfg.inCore || cfg.load) {
		return nil, fmt.Errorf("%w: %q", ErrNoStore, params.Name)
	}

	b := &Buffer{
		params:  params,
		myIrrep: myIrrep,
		store:   store,
		inCore:  cfg.inCore,
		open:    make([]bool, params.NumIrreps),
		blocks:  make([]*tensor.Block, params.NumIrreps),
	}

	if b.inCore {
		for h := 0; h < params.NumIrreps; h++ {
			b.blocks[h] = b.alloc(h)
			if cfg.load && !b.blocks[h].Empty() {
				if err := store.ReadBlock(h, b.blocks[h].Data); err != nil {
					return nil, &LifecycleError{Buffer: params.Name, Irrep: h, Op: OpRead, Err: err}
				}
			}
		}
	}
	return b, nil
}

// Params returns the buffer's row and column structure.
func (b *Buffer) Params() Params {
	return b.params
}

// Name returns the buffer's label.
func (b *Buffer) Name() string {
	return b.params.Name
}

// NumIrreps returns the number of irreps in the point group.
func (b *Buffer) NumIrreps() int {
	return b.params.NumIrreps
}

// MyIrrep returns the overall symmetry of the tensor.
func (b *Buffer) MyIrrep() int {
	return b.myIrrep
}

// InCore reports whether every irrep matrix is resident.
func (b *Buffer) InCore() bool {
	return b.inCore
}

// Store returns the backing store, which may be nil for in-core buffers.
func (b *Buffer) Store() storage.Store {
	return b.store
}

// RowTot returns the composite row count of irrep h.
func (b *Buffer) RowTot(h int) int {
	return b.params.RowTot[h]
}

// ColTot returns the composite column count of the rows of irrep h.
func (b *Buffer) ColTot(h int) int {
	return b.params.ColTot[h^b.myIrrep]
}

// BlockSize returns the element count of irrep h.
func (b *Buffer) BlockSize(h int) int64 {
	return b.params.BlockSize(h, b.myIrrep)
}

func (b *Buffer) alloc(h int) *tensor.Block {
	return tensor.NewBlock(b.RowTot(h), b.ColTot(h))
}

func (b *Buffer) fail(h int, op string, err error) error {
	return &LifecycleError{Buffer: b.params.Name, Irrep: h, Op: op, Err: err}
}

func (b *Buffer) check(h int, op string, wantOpen bool) error {
	if h < 0 || h >= b.params.NumIrreps {
		return b.fail(h, op, ErrUnknownIrrep)
	}
	switch {
	case wantOpen && !b.open[h]:
		return b.fail(h, op, ErrNotOpen)
	case !wantOpen && b.open[h]:
		return b.fail(h, op, ErrAlreadyOpen)
	}
	return nil
}

// Init opens irrep h. Out of core it allocates a zeroed matrix; an irrep
// with no rows or no columns gets an empty matrix and is not an error.
func (b *Buffer) Init(h int) error {
	if err := b.check(h, OpInit, false); err != nil {
		return err
	}
	if !b.inCore {
		b.blocks[h] = b.alloc(h)
	}
	b.open[h] = true
	return nil
}

// Read loads irrep h from the store.
func (b *Buffer) Read(h int) error {
	if err := b.check(h, OpRead, true); err != nil {
		return err
	}
	if b.inCore || b.blocks[h].Empty() {
		return nil
	}
	if err := b.store.ReadBlock(h, b.blocks[h].Data); err != nil {
		return b.fail(h, OpRead, err)
	}
	return nil
}

// Write persists irrep h to the store.
func (b *Buffer) Write(h int) error {
	if err := b.check(h, OpWrite, true); err != nil {
		return err
	}
	if b.inCore || b.blocks[h].Empty() {
		return nil
	}
	if err := b.store.WriteBlock(h, b.blocks[h].Data); err != nil {
		return b.fail(h, OpWrite, err)
	}
	return nil
}

// Close releases irrep h. Unwritten changes to an out-of-core irrep are lost.
func (b *Buffer) Close(h int) error {
	if err := b.check(h, OpClose, true); err != nil {
		return err
	}
	if !b.inCore {
		b.blocks[h].Free()
		b.blocks[h] = nil
	}
	b.open[h] = false
	return nil
}

// IsOpen reports whether irrep h is open.
func (b *Buffer) IsOpen(h int) bool {
	return h >= 0 && h < len(b.open) && b.open[h]
}

// OpenIrreps lists the irreps that are currently open.
func (b *Buffer) OpenIrreps() []int {
	var out []int
	for h, ok := range b.open {
		if ok {
			out = append(out, h)
		}
	}
	return out
}

// Matrix returns the memory of irrep h, or nil when it is not resident.
// The returned block is mutable and owned by the buffer.
func (b *Buffer) Matrix(h int) *tensor.Block {
	if h < 0 || h >= len(b.blocks) {
		return nil
	}
	return b.blocks[h]
}

// Flush writes every resident irrep of an in-core buffer to the store.
func (b *Buffer) Flush() error {
	if !b.inCore {
		return nil
	}
	if b.store == nil {
		return fmt.Errorf("%w: %q", ErrNoStore, b.params.Name)
	}
	for h, blk := range b.blocks {
		if blk.Empty() {
			continue
		}
		if err := b.store.WriteBlock(h, blk.Data); err != nil {
			return b.fail(h, OpWrite, err)
		}
	}
	return nil
}
