package serialization

import (
	"time"
)

// Format constants.
const (
	MagicBytes      = "SYMT"
	FormatVersion   = 1
	FixedHeaderSize = 64   // Fixed prefix before the JSON header (0x40 bytes).
	DataAlignment   = 64   // Alignment of the data section and of every block within it.
	ChecksumSize    = 32   // SHA-256 checksum size (32 bytes).
	ChecksumOffset  = 0x20 // Checksum offset in the fixed header.
	flagsOffset     = 0x08
	elemSize        = 8 // float64
)

const symtensorVersion = "0.1.0"

// Flags for the .symt format.
const (
	FlagSealed      uint32 = 1 << 0 // bit 0: checksum matches data section
	FlagHasMetadata uint32 = 1 << 1 // bit 1: custom metadata included
)

// Header represents the JSON header in a .symt file.
type Header struct {
	FormatVersion    int               `json:"format_version"`     // Version of the .symt format
	SymtensorVersion string            `json:"symtensor_version"`  // Version of the library that created the file
	Name             string            `json:"name"`               // Tensor label
	NumIrreps        int               `json:"nirreps"`            // Order of the point group
	MyIrrep          int               `json:"my_irrep"`           // Overall irrep of the tensor
	CreatedAt        time.Time         `json:"created_at"`         // When the file was created
	Blocks           []BlockMeta       `json:"blocks"`             // One entry per row irrep
	Metadata         map[string]string `json:"metadata,omitempty"` // Custom metadata
}

// BlockMeta describes the block for one row irrep.
type BlockMeta struct {
	Irrep  int   `json:"irrep"`  // Row irrep h
	Rows   int   `json:"rows"`   // rowtot[h]
	Cols   int   `json:"cols"`   // coltot[h^my_irrep]
	Offset int64 `json:"offset"` // Offset in the data section (bytes from start of block data)
	Size   int64 `json:"size"`   // Size in bytes
}

// Elements returns the number of float64 values in the block.
func (b BlockMeta) Elements() int64 {
	return int64(b.Rows) * int64(b.Cols)
}

// NewHeader lays out a tensor with the given row and column totals.
// coltot is indexed by column irrep; block h has coltot[h^myIrrep] columns.
func NewHeader(name string, nirreps, myIrrep int, rowtot, coltot []int) Header {
	h := Header{
		FormatVersion:    FormatVersion,
		SymtensorVersion: symtensorVersion,
		Name:             name,
		NumIrreps:        nirreps,
		MyIrrep:          myIrrep,
		CreatedAt:        time.Now().UTC(),
		Blocks:           make([]BlockMeta, nirreps),
	}

	var offset int64
	for irrep := 0; irrep < nirreps; irrep++ {
		rows := rowtot[irrep]
		cols := coltot[irrep^myIrrep]
		size := int64(rows) * int64(cols) * elemSize
		h.Blocks[irrep] = BlockMeta{
			Irrep:  irrep,
			Rows:   rows,
			Cols:   cols,
			Offset: offset,
			Size:   size,
		}
		offset = align(offset + size)
	}
	return h
}

// DataSize returns the length of the data section implied by the block layout.
func (h *Header) DataSize() int64 {
	var end int64
	for _, b := range h.Blocks {
		end = max(end, align(b.Offset+b.Size))
	}
	return end
}

// Block returns the metadata for irrep.
func (h *Header) Block(irrep int) (BlockMeta, bool) {
	if irrep >= 0 && irrep < len(h.Blocks) && h.Blocks[irrep].Irrep == irrep {
		return h.Blocks[irrep], true
	}
	for _, b := range h.Blocks {
		if b.Irrep == irrep {
			return b, true
		}
	}
	return BlockMeta{}, false
}

func align(n int64) int64 {
	return (n + DataAlignment - 1) / DataAlignment * DataAlignment
}
