package serialization

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/symtensor/internal/symmetry"
)

func TestValidateBlockOffsets(t *testing.T) {
	tests := []struct {
		name     string
		blocks   []BlockMeta
		dataSize int64
		want     error
	}{
		{
			name: "valid",
			blocks: []BlockMeta{
				{Irrep: 0, Offset: 0, Size: 64},
				{Irrep: 1, Offset: 64, Size: 64},
			},
			dataSize: 128,
		},
		{
			name: "overlap",
			blocks: []BlockMeta{
				{Irrep: 0, Offset: 0, Size: 100},
				{Irrep: 1, Offset: 64, Size: 64},
			},
			dataSize: 256,
			want:     ErrOffsetOverlap,
		},
		{
			name:     "out of bounds",
			blocks:   []BlockMeta{{Irrep: 0, Offset: 64, Size: 128}},
			dataSize: 128,
			want:     ErrOutOfBounds,
		},
		{
			name:     "negative",
			blocks:   []BlockMeta{{Irrep: 0, Offset: -8, Size: 8}},
			dataSize: 128,
			want:     ErrNegativeOffset,
		},
		{
			name: "empty blocks share an offset",
			blocks: []BlockMeta{
				{Irrep: 0, Offset: 0, Size: 0},
				{Irrep: 1, Offset: 0, Size: 64},
			},
			dataSize: 64,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBlockOffsets(tt.blocks, tt.dataSize)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			var ve *ValidationError
			assert.True(t, errors.As(err, &ve))
		})
	}
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("tau_ijab"))
	for _, bad := range []string{"", "a/b", `a\b`, "..", "a\x00b"} {
		assert.ErrorIs(t, ValidateName(bad), ErrInvalidName, "%q", bad)
	}
}

func TestValidateHeader(t *testing.T) {
	h := NewHeader("x", 2, 0, []int{3, 2}, []int{5, 4})
	require.NoError(t, ValidateHeader(&h, h.DataSize(), ValidationStrict))

	bad := h
	bad.Blocks = append([]BlockMeta(nil), h.Blocks...)
	bad.Blocks[1].Size = 8
	assert.ErrorIs(t, ValidateHeader(&bad, h.DataSize(), ValidationStrict), ErrBlockSize)

	dup := h
	dup.Blocks = []BlockMeta{h.Blocks[0], h.Blocks[0]}
	assert.ErrorIs(t, ValidateHeader(&dup, h.DataSize(), ValidationStrict), ErrUnknownBlock)

	group := h
	group.NumIrreps = 3
	assert.ErrorIs(t, ValidateHeader(&group, h.DataSize(), ValidationStrict), symmetry.ErrInvalidGroup)

	// Offsets are only checked in strict mode.
	assert.NoError(t, ValidateHeader(&h, 0, ValidationNormal))
	assert.ErrorIs(t, ValidateHeader(&h, 0, ValidationStrict), ErrOutOfBounds)
	assert.NoError(t, ValidateHeader(&bad, 0, ValidationNone))
}
