package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrOffsetOverlap      = errors.New("block offsets overlap")
	ErrOutOfBounds        = errors.New("block extends beyond data section")
	ErrNegativeOffset     = errors.New("negative offset or size")
	ErrInvalidName        = errors.New("invalid tensor name")
	ErrHeaderTooLarge     = errors.New("header exceeds maximum size")
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrUnknownBlock       = errors.New("no block for irrep")
	ErrBlockSize          = errors.New("block size mismatch")
	ErrClosed             = errors.New("block file is closed")
	ErrReadOnly           = errors.New("block file is read-only")
	ErrNotSealed          = errors.New("block file is not sealed")
)

// ValidationError provides detailed information about validation failures.
type ValidationError struct {
	Type    string // Type of error (e.g., "offset_overlap", "out_of_bounds")
	Irrep   int    // Primary irrep block involved, -1 when not block-specific
	Irrep2  int    // Secondary irrep (for overlap errors), -1 otherwise
	Details string // Additional details
	Err     error  // Sentinel for errors.Is
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Irrep2 >= 0 {
		return fmt.Sprintf("%s: blocks %d and %d: %s", e.Type, e.Irrep, e.Irrep2, e.Details)
	}
	if e.Irrep >= 0 {
		return fmt.Sprintf("%s: block %d: %s", e.Type, e.Irrep, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}

// Unwrap returns the sentinel error, if any.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
