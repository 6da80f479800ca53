package storage

import (
	"fmt"

	"github.com/born-ml/symtensor/internal/serialization"
)

// Compile-time check that FileStore implements Store.
var _ Store = (*FileStore)(nil)

// FileStore keeps a tensor in a .symt block file.
// Each irrep block occupies a fixed region, so reads and writes touch only
// that block's bytes.
type FileStore struct {
	layout Layout
	file   *serialization.BlockFile
	seal   bool
}

// FileOptions configures a FileStore.
type FileOptions struct {
	// SealOnClose recomputes the data checksum when the store is closed.
	SealOnClose bool
	// Metadata is recorded in the header of newly created files.
	Metadata map[string]string
}

// CreateFileStore creates (or truncates) the block file at path for layout.
func CreateFileStore(path string, layout Layout, opts FileOptions) (*FileStore, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	header := serialization.NewHeader(layout.Name, layout.NumIrreps, layout.MyIrrep, layout.RowTot, layout.ColTot)
	header.Metadata = opts.Metadata

	f, err := serialization.Create(path, header)
	if err != nil {
		return nil, fmt.Errorf("create file store %q: %w", layout.Name, err)
	}
	return &FileStore{layout: layout, file: f, seal: opts.SealOnClose}, nil
}

// OpenFileStore opens an existing block file, verifying its checksum when
// the file is sealed. The layout is taken from the file header.
func OpenFileStore(path string, opts FileOptions) (*FileStore, error) {
	f, err := serialization.Open(path, serialization.OpenOptions{})
	if err != nil {
		return nil, fmt.Errorf("open file store: %w", err)
	}
	if f.Sealed() {
		if err := f.Verify(); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("open file store %s: %w", path, err)
		}
	}

	hdr := f.Header()
	layout := Layout{
		Name:      hdr.Name,
		NumIrreps: hdr.NumIrreps,
		MyIrrep:   hdr.MyIrrep,
		RowTot:    make([]int, hdr.NumIrreps),
		ColTot:    make([]int, hdr.NumIrreps),
	}
	for _, b := range hdr.Blocks {
		layout.RowTot[b.Irrep] = b.Rows
		layout.ColTot[b.Irrep^hdr.MyIrrep] = b.Cols
	}
	return &FileStore{layout: layout, file: f, seal: opts.SealOnClose}, nil
}

// Layout returns the store's layout.
func (s *FileStore) Layout() Layout {
	return s.layout
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.file.Path()
}

// ReadBlock reads the block for irrep from disk.
func (s *FileStore) ReadBlock(irrep int, dst []float64) error {
	if err := s.layout.checkBlock(irrep, len(dst)); err != nil {
		return err
	}
	return translate(s.file.ReadBlock(irrep, dst))
}

// WriteBlock writes the block for irrep to disk.
func (s *FileStore) WriteBlock(irrep int, src []float64) error {
	if err := s.layout.checkBlock(irrep, len(src)); err != nil {
		return err
	}
	return translate(s.file.WriteBlock(irrep, src))
}

// Seal checksums the data section now.
func (s *FileStore) Seal() error {
	return translate(s.file.Seal())
}

// Close seals the file if configured and closes it.
func (s *FileStore) Close() error {
	var err error
	if s.seal {
		if sealErr := s.file.Seal(); sealErr != nil && sealErr != serialization.ErrClosed {
			err = sealErr
		}
	}
	if closeErr := s.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// translate maps block-file errors onto store errors.
func translate(err error) error {
	if err == serialization.ErrClosed {
		return ErrClosed
	}
	return err
}
