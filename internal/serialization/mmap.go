package serialization

import (
	"fmt"
	"os"
)

// MmapReader provides read-only memory-mapped access to a .symt file.
// Only the header is parsed up front; block data is decoded on demand from
// the OS page cache, which suits inspecting tensors larger than memory.
type MmapReader struct {
	file       *os.File
	data       []byte // mmap'd region (read-only)
	size       int64
	header     Header
	fixed      fixedHeader
	dataOffset int64
	dataSize   int64
	closed     bool
}

// NewMmapReader maps path read-only and parses its header.
//
// Important: Always call Close() when done to unmap the file (use defer).
func NewMmapReader(path string) (*MmapReader, error) {
	//nolint:gosec // G304: path is supplied by the operator
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if stat.Size() < FixedHeaderSize {
		_ = file.Close()
		return nil, fmt.Errorf("file too small: %d bytes (minimum %d bytes required)", stat.Size(), FixedHeaderSize)
	}

	data, err := mmapFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("mmap failed: %w", err)
	}

	r := &MmapReader{
		file: file,
		data: data,
		size: stat.Size(),
	}

	if err := r.parseHeader(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	return r, nil
}

// parseHeader reads the fixed prefix and JSON header from the mapped region.
func (r *MmapReader) parseHeader() error {
	fh, err := parseFixedHeader(r.data[:FixedHeaderSize])
	if err != nil {
		return err
	}

	//nolint:gosec // G115: headerSize bounded by MaxHeaderSize
	headerEnd := int64(FixedHeaderSize) + int64(fh.headerSize)
	if headerEnd > r.size {
		return fmt.Errorf("header extends beyond file: header_end=%d, file_size=%d", headerEnd, r.size)
	}

	header, err := parseHeaderJSON(r.data[FixedHeaderSize:headerEnd])
	if err != nil {
		return err
	}

	r.fixed = fh
	r.header = header
	r.dataOffset = dataOffset(fh.headerSize)
	r.dataSize = int64(fh.dataSize) //nolint:gosec // G115: checked in parseFixedHeader

	if r.dataOffset+r.dataSize > r.size {
		return fmt.Errorf("%w: data section ends at %d, file is %d bytes",
			ErrOutOfBounds, r.dataOffset+r.dataSize, r.size)
	}

	if err := ValidateHeader(&r.header, r.dataSize, ValidationStrict); err != nil {
		return fmt.Errorf("header validation failed: %w", err)
	}
	return nil
}

// Close unmaps and closes the file.
func (r *MmapReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	var err error
	if r.data != nil {
		err = munmapFile(r.data)
		r.data = nil
	}

	if closeErr := r.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	return err
}

// Header returns the file header.
func (r *MmapReader) Header() Header {
	return r.header
}

// Sealed reports whether the file carries a valid-at-seal-time checksum.
func (r *MmapReader) Sealed() bool {
	return r.fixed.flags&FlagSealed != 0
}

// Verify checks the data section against the stored checksum.
func (r *MmapReader) Verify() error {
	if r.closed {
		return ErrClosed
	}
	if !r.Sealed() {
		return ErrNotSealed
	}
	return SumBytes(r.data[r.dataOffset : r.dataOffset+r.dataSize]).Check(r.fixed.checksum)
}

// Checksum returns the stored data checksum.
func (r *MmapReader) Checksum() Checksum {
	return r.fixed.checksum
}

// BlockBytes returns a zero-copy view of the encoded block for irrep.
// The returned slice is valid only while the reader is open and must not be written.
func (r *MmapReader) BlockBytes(irrep int) ([]byte, error) {
	if r.closed {
		return nil, ErrClosed
	}
	meta, ok := r.header.Block(irrep)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBlock, irrep)
	}
	start := r.dataOffset + meta.Offset
	return r.data[start : start+meta.Size], nil
}

// Block decodes the block for irrep into a new slice.
func (r *MmapReader) Block(irrep int) ([]float64, error) {
	raw, err := r.BlockBytes(irrep)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(raw)/elemSize)
	decodeFloat64s(out, raw)
	return out, nil
}
