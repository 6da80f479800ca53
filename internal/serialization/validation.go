package serialization

import (
	"fmt"
	"sort"
	"strings"

	"github.com/born-ml/symtensor/internal/symmetry"
)

// Validation limits for security and resource protection.
const (
	MaxHeaderSize   = 16 * 1024 * 1024 // 16MB - maximum header size
	MaxNameLen      = 256              // Maximum tensor name length
	MaxMetadataSize = 1024 * 1024      // 1MB - maximum metadata size
)

// ValidationLevel controls the strictness of validation.
type ValidationLevel int

const (
	// ValidationStrict performs all validation checks (default).
	ValidationStrict ValidationLevel = iota
	// ValidationNormal skips the block offset checks.
	ValidationNormal
	// ValidationNone skips validation (use only with trusted input).
	ValidationNone
)

// ValidateBlockOffsets checks for overlapping blocks and out-of-bounds access.
// A malformed header could otherwise direct reads and writes of one irrep into
// the storage of another.
func ValidateBlockOffsets(blocks []BlockMeta, dataSize int64) error {
	sorted := make([]BlockMeta, len(blocks))
	copy(sorted, blocks)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})

	for i, b := range sorted {
		if b.Offset < 0 || b.Size < 0 {
			return &ValidationError{
				Type:    "negative_offset",
				Irrep:   b.Irrep,
				Irrep2:  -1,
				Details: fmt.Sprintf("offset=%d, size=%d (negative values not allowed)", b.Offset, b.Size),
				Err:     ErrNegativeOffset,
			}
		}

		if b.Offset+b.Size > dataSize {
			return &ValidationError{
				Type:    "out_of_bounds",
				Irrep:   b.Irrep,
				Irrep2:  -1,
				Details: fmt.Sprintf("offset %d + size %d > data_size %d", b.Offset, b.Size, dataSize),
				Err:     ErrOutOfBounds,
			}
		}

		if i < len(sorted)-1 {
			next := sorted[i+1]
			if b.Size > 0 && next.Size > 0 && b.Offset+b.Size > next.Offset {
				return &ValidationError{
					Type:   "offset_overlap",
					Irrep:  b.Irrep,
					Irrep2: next.Irrep,
					Details: fmt.Sprintf("regions [%d-%d] and [%d-%d] overlap",
						b.Offset, b.Offset+b.Size, next.Offset, next.Offset+next.Size),
					Err: ErrOffsetOverlap,
				}
			}
		}
	}

	return nil
}

// ValidateName checks tensor names for path traversal and control characters.
// Names are also used as store keys and file stems.
func ValidateName(name string) error {
	invalid := func(details string) error {
		return &ValidationError{Type: "invalid_name", Irrep: -1, Irrep2: -1, Details: details, Err: ErrInvalidName}
	}

	if name == "" {
		return invalid("empty name")
	}
	if len(name) > MaxNameLen {
		return invalid(fmt.Sprintf("length %d > max %d", len(name), MaxNameLen))
	}
	if strings.Contains(name, "..") {
		return invalid("contains '..' (path traversal attempt)")
	}
	if strings.ContainsAny(name, "/\\") {
		return invalid("contains path separator (/ or \\)")
	}
	if strings.ContainsRune(name, 0) {
		return invalid("contains null byte")
	}
	return nil
}

// ValidateHeader performs comprehensive header validation.
func ValidateHeader(h *Header, dataSize int64, level ValidationLevel) error {
	if level == ValidationNone {
		return nil
	}

	if h.FormatVersion != FormatVersion {
		return fmt.Errorf("%w: header declares %d", ErrUnsupportedVersion, h.FormatVersion)
	}
	if err := ValidateName(h.Name); err != nil {
		return err
	}
	g, err := symmetry.NewGroup(h.NumIrreps)
	if err != nil {
		return err
	}
	if err := g.CheckIrrep(h.MyIrrep); err != nil {
		return err
	}

	if len(h.Blocks) != h.NumIrreps {
		return &ValidationError{
			Type:    "block_count",
			Irrep:   -1,
			Irrep2:  -1,
			Details: fmt.Sprintf("got %d blocks for %d irreps", len(h.Blocks), h.NumIrreps),
			Err:     ErrUnknownBlock,
		}
	}

	seen := make([]bool, h.NumIrreps)
	for _, b := range h.Blocks {
		if g.CheckIrrep(b.Irrep) != nil || seen[b.Irrep] {
			return &ValidationError{
				Type:    "block_irrep",
				Irrep:   b.Irrep,
				Irrep2:  -1,
				Details: "irrep out of range or duplicated",
				Err:     ErrUnknownBlock,
			}
		}
		seen[b.Irrep] = true

		if b.Rows < 0 || b.Cols < 0 || b.Elements()*elemSize != b.Size {
			return &ValidationError{
				Type:    "block_size",
				Irrep:   b.Irrep,
				Irrep2:  -1,
				Details: fmt.Sprintf("%dx%d block declares %d bytes", b.Rows, b.Cols, b.Size),
				Err:     ErrBlockSize,
			}
		}
	}

	if level == ValidationStrict {
		if err := ValidateBlockOffsets(h.Blocks, dataSize); err != nil {
			return err
		}
	}

	return nil
}
