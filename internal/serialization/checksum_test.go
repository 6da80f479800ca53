package serialization

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumSection_MatchesSumBytes(t *testing.T) {
	data := bytes.Repeat([]byte{1, 2, 3, 4}, 50000)

	sum, err := SumSection(bytes.NewReader(data), 100, 4000)
	require.NoError(t, err)
	assert.Equal(t, SumBytes(data[100:4100]), sum)
	assert.NoError(t, sum.Check(SumBytes(data[100:4100])))
}

func TestChecksum_Check(t *testing.T) {
	a, b := SumBytes([]byte("irrep 0")), SumBytes([]byte("irrep 1"))
	assert.NotEqual(t, a, b)

	err := a.Check(b)
	require.ErrorIs(t, err, ErrChecksumMismatch)
	assert.Contains(t, err.Error(), a.String()[:16])
}

func TestChecksum_String(t *testing.T) {
	var c Checksum
	assert.True(t, c.IsZero())
	assert.Equal(t, strings.Repeat("0", 64), c.String())
	assert.False(t, SumBytes(nil).IsZero())
}
