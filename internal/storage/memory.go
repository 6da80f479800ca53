package storage

import "sync"

// Compile-time check that MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps private copies of every written block.
// Blocks that have never been written read back as zeros.
type MemoryStore struct {
	mu     sync.Mutex
	layout Layout
	blocks map[int][]float64
	closed bool
}

// NewMemoryStore creates an empty store for layout.
func NewMemoryStore(layout Layout) (*MemoryStore, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &MemoryStore{
		layout: layout,
		blocks: make(map[int][]float64, layout.NumIrreps),
	}, nil
}

// Layout returns the store's layout.
func (s *MemoryStore) Layout() Layout {
	return s.layout
}

// ReadBlock copies the block for irrep into dst.
func (s *MemoryStore) ReadBlock(irrep int, dst []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if err := s.layout.checkBlock(irrep, len(dst)); err != nil {
		return err
	}
	src, ok := s.blocks[irrep]
	if !ok {
		clear(dst)
		return nil
	}
	copy(dst, src)
	return nil
}

// WriteBlock stores a copy of src for irrep.
func (s *MemoryStore) WriteBlock(irrep int, src []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if err := s.layout.checkBlock(irrep, len(src)); err != nil {
		return err
	}
	dst, ok := s.blocks[irrep]
	if !ok {
		dst = make([]float64, len(src))
		s.blocks[irrep] = dst
	}
	copy(dst, src)
	return nil
}

// Close drops all blocks.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.blocks = nil
	return nil
}
