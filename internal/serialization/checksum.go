package serialization

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// Checksum is the SHA-256 of a file's data section.
type Checksum [ChecksumSize]byte

// String returns the checksum in hex.
func (c Checksum) String() string {
	return hex.EncodeToString(c[:])
}

// IsZero reports whether no checksum has been stored.
func (c Checksum) IsZero() bool {
	return c == Checksum{}
}

// SumBytes hashes an in-memory data section.
func SumBytes(data []byte) Checksum {
	return sha256.Sum256(data)
}

// SumSection streams n bytes at off through the hash, so sealing never
// needs the tensor in memory.
func SumSection(r io.ReaderAt, off, n int64) (Checksum, error) {
	h := sha256.New()
	if _, err := io.Copy(h, io.NewSectionReader(r, off, n)); err != nil {
		return Checksum{}, err
	}
	var sum Checksum
	copy(sum[:], h.Sum(nil))
	return sum, nil
}

// Check returns an ErrChecksumMismatch-wrapped error when c differs from stored.
func (c Checksum) Check(stored Checksum) error {
	if c != stored {
		return fmt.Errorf("%w: data hashes to %.16s..., header records %.16s...",
			ErrChecksumMismatch, c, stored)
	}
	return nil
}
