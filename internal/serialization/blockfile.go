package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// BlockFile is an open .symt file supporting random access by irrep.
type BlockFile struct {
	file       *os.File
	path       string
	header     Header
	fixed      fixedHeader
	dataOffset int64
	dataSize   int64
	readOnly   bool
	closed     bool
}

// OpenOptions configures Open.
type OpenOptions struct {
	ReadOnly        bool            // Open without write access
	VerifyChecksum  bool            // Require a sealed file and verify its checksum
	ValidationLevel ValidationLevel // Header validation strictness
}

// Create writes a new .symt file with every block zero-filled.
func Create(path string, header Header) (*BlockFile, error) {
	header.FormatVersion = FormatVersion
	if header.SymtensorVersion == "" {
		header.SymtensorVersion = symtensorVersion
	}
	dataSize := header.DataSize()
	if err := ValidateHeader(&header, dataSize, ValidationStrict); err != nil {
		return nil, fmt.Errorf("invalid header: %w", err)
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal header: %w", err)
	}
	if len(headerJSON) > MaxHeaderSize {
		return nil, ErrHeaderTooLarge
	}

	//nolint:gosec // G304: path is chosen by the caller's storage configuration
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	fh := fixedHeader{
		version:    FormatVersion,
		headerSize: uint64(len(headerJSON)),
		dataSize:   uint64(dataSize), //nolint:gosec // G115: non-negative by construction
	}
	if len(header.Metadata) > 0 {
		fh.flags |= FlagHasMetadata
	}

	f := &BlockFile{
		file:       file,
		path:       path,
		header:     header,
		fixed:      fh,
		dataOffset: dataOffset(fh.headerSize),
		dataSize:   dataSize,
	}

	if _, err := file.Write(fh.encode()); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to write fixed header: %w", err)
	}
	if _, err := file.Write(headerJSON); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	// Truncate extends with zeros; the blocks start out as a valid all-zero tensor.
	if err := file.Truncate(f.dataOffset + dataSize); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to size data section: %w", err)
	}

	return f, nil
}

// Open opens an existing .symt file.
func Open(path string, opts OpenOptions) (*BlockFile, error) {
	flag := os.O_RDWR
	if opts.ReadOnly {
		flag = os.O_RDONLY
	}
	//nolint:gosec // G304: path is chosen by the caller's storage configuration
	file, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	f := &BlockFile{file: file, path: path, readOnly: opts.ReadOnly}
	if err := f.parseHeader(opts.ValidationLevel); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	if opts.VerifyChecksum {
		if err := f.Verify(); err != nil {
			_ = file.Close()
			return nil, err
		}
	}

	return f, nil
}

// parseHeader reads the fixed prefix and JSON header.
func (f *BlockFile) parseHeader(level ValidationLevel) error {
	prefix := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(f.file, prefix); err != nil {
		return fmt.Errorf("failed to read fixed header: %w", err)
	}
	fh, err := parseFixedHeader(prefix)
	if err != nil {
		return err
	}

	headerJSON := make([]byte, fh.headerSize)
	if _, err := io.ReadFull(f.file, headerJSON); err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	header, err := parseHeaderJSON(headerJSON)
	if err != nil {
		return err
	}

	stat, err := f.file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	f.fixed = fh
	f.header = header
	f.dataOffset = dataOffset(fh.headerSize)
	f.dataSize = int64(fh.dataSize) //nolint:gosec // G115: checked in parseFixedHeader

	if f.dataOffset+f.dataSize > stat.Size() {
		return fmt.Errorf("%w: data section ends at %d, file is %d bytes",
			ErrOutOfBounds, f.dataOffset+f.dataSize, stat.Size())
	}

	return ValidateHeader(&f.header, f.dataSize, level)
}

// Header returns the file header.
func (f *BlockFile) Header() Header {
	return f.header
}

// Path returns the file path.
func (f *BlockFile) Path() string {
	return f.path
}

// Sealed reports whether the stored checksum covers the current data.
func (f *BlockFile) Sealed() bool {
	return f.fixed.flags&FlagSealed != 0
}

// Checksum returns the stored SHA-256 of the data section.
func (f *BlockFile) Checksum() Checksum {
	return f.fixed.checksum
}

// ReadBlock decodes the block for irrep into dst, which must hold exactly rows*cols values.
func (f *BlockFile) ReadBlock(irrep int, dst []float64) error {
	meta, err := f.block(irrep, len(dst))
	if err != nil {
		return err
	}
	if meta.Size == 0 {
		return nil
	}

	buf := make([]byte, meta.Size)
	if _, err := f.file.ReadAt(buf, f.dataOffset+meta.Offset); err != nil {
		return fmt.Errorf("failed to read block %d: %w", irrep, err)
	}
	decodeFloat64s(dst, buf)
	return nil
}

// WriteBlock encodes src as the block for irrep. The file is unsealed until the next Seal.
func (f *BlockFile) WriteBlock(irrep int, src []float64) error {
	if f.readOnly {
		return ErrReadOnly
	}
	meta, err := f.block(irrep, len(src))
	if err != nil {
		return err
	}
	if err := f.setFlags(f.fixed.flags &^ FlagSealed); err != nil {
		return err
	}
	if meta.Size == 0 {
		return nil
	}

	buf := make([]byte, meta.Size)
	encodeFloat64s(buf, src)
	if _, err := f.file.WriteAt(buf, f.dataOffset+meta.Offset); err != nil {
		return fmt.Errorf("failed to write block %d: %w", irrep, err)
	}
	return nil
}

// block looks up irrep and checks the caller's buffer length.
func (f *BlockFile) block(irrep, n int) (BlockMeta, error) {
	if f.closed {
		return BlockMeta{}, ErrClosed
	}
	meta, ok := f.header.Block(irrep)
	if !ok {
		return BlockMeta{}, fmt.Errorf("%w: %d", ErrUnknownBlock, irrep)
	}
	if int64(n) != meta.Elements() {
		return BlockMeta{}, fmt.Errorf("%w: irrep %d holds %d values, buffer has %d",
			ErrBlockSize, irrep, meta.Elements(), n)
	}
	return meta, nil
}

// Seal computes the checksum of the data section and marks the file sealed.
func (f *BlockFile) Seal() error {
	if f.closed {
		return ErrClosed
	}
	if f.readOnly {
		return ErrReadOnly
	}
	sum, err := f.computeChecksum()
	if err != nil {
		return err
	}
	if _, err := f.file.WriteAt(sum[:], ChecksumOffset); err != nil {
		return fmt.Errorf("failed to write checksum: %w", err)
	}
	f.fixed.checksum = sum
	return f.setFlags(f.fixed.flags | FlagSealed)
}

// Verify recomputes the data checksum and compares it with the stored one.
func (f *BlockFile) Verify() error {
	if f.closed {
		return ErrClosed
	}
	if !f.Sealed() {
		return ErrNotSealed
	}
	sum, err := f.computeChecksum()
	if err != nil {
		return err
	}
	return sum.Check(f.fixed.checksum)
}

func (f *BlockFile) computeChecksum() (Checksum, error) {
	sum, err := SumSection(f.file, f.dataOffset, f.dataSize)
	if err != nil {
		return sum, fmt.Errorf("failed to checksum data section: %w", err)
	}
	return sum, nil
}

func (f *BlockFile) setFlags(flags uint32) error {
	if flags == f.fixed.flags {
		return nil
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], flags)
	if _, err := f.file.WriteAt(buf[:], flagsOffset); err != nil {
		return fmt.Errorf("failed to write flags: %w", err)
	}
	f.fixed.flags = flags
	return nil
}

// Sync flushes file contents to stable storage.
func (f *BlockFile) Sync() error {
	if f.closed {
		return ErrClosed
	}
	return f.file.Sync()
}

// Close closes the file. Closing twice is a no-op.
func (f *BlockFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	return f.file.Close()
}
