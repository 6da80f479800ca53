package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
)

// fixedHeader is the decoded 64-byte prefix of a .symt file.
type fixedHeader struct {
	version    uint32
	flags      uint32
	headerSize uint64
	dataSize   uint64
	checksum   Checksum
}

// encode renders the prefix into a FixedHeaderSize buffer.
func (fh fixedHeader) encode() []byte {
	buf := make([]byte, FixedHeaderSize)
	copy(buf[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(buf[4:8], fh.version)
	binary.LittleEndian.PutUint32(buf[flagsOffset:flagsOffset+4], fh.flags)
	binary.LittleEndian.PutUint64(buf[16:24], fh.headerSize)
	binary.LittleEndian.PutUint64(buf[24:32], fh.dataSize)
	copy(buf[ChecksumOffset:ChecksumOffset+ChecksumSize], fh.checksum[:])
	return buf
}

// parseFixedHeader decodes and sanity-checks the 64-byte prefix.
func parseFixedHeader(buf []byte) (fixedHeader, error) {
	var fh fixedHeader
	if len(buf) < FixedHeaderSize {
		return fh, fmt.Errorf("file too small: %d bytes (minimum %d bytes required)", len(buf), FixedHeaderSize)
	}
	if string(buf[0:4]) != MagicBytes {
		return fh, ErrInvalidMagic
	}

	fh.version = binary.LittleEndian.Uint32(buf[4:8])
	if fh.version != FormatVersion {
		return fh, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, fh.version, FormatVersion)
	}
	fh.flags = binary.LittleEndian.Uint32(buf[flagsOffset : flagsOffset+4])
	fh.headerSize = binary.LittleEndian.Uint64(buf[16:24])
	fh.dataSize = binary.LittleEndian.Uint64(buf[24:32])
	copy(fh.checksum[:], buf[ChecksumOffset:ChecksumOffset+ChecksumSize])

	if fh.headerSize > MaxHeaderSize {
		return fh, ErrHeaderTooLarge
	}
	if fh.dataSize > math.MaxInt64 {
		return fh, fmt.Errorf("data size too large: %d", fh.dataSize)
	}
	return fh, nil
}

// dataOffset returns where the data section starts for a JSON header of the given size.
func dataOffset(headerSize uint64) int64 {
	//nolint:gosec // G115: headerSize bounded by MaxHeaderSize
	return align(FixedHeaderSize + int64(headerSize))
}

// parseHeaderJSON decodes the JSON header.
func parseHeaderJSON(buf []byte) (Header, error) {
	var h Header
	if err := json.Unmarshal(buf, &h); err != nil {
		return h, fmt.Errorf("failed to parse header JSON: %w", err)
	}
	return h, nil
}

// encodeFloat64s writes src as little-endian float64 into dst (len(dst) >= 8*len(src)).
func encodeFloat64s(dst []byte, src []float64) {
	for i, v := range src {
		binary.LittleEndian.PutUint64(dst[i*elemSize:], math.Float64bits(v))
	}
}

// decodeFloat64s reads little-endian float64 from src into dst.
func decodeFloat64s(dst []float64, src []byte) {
	for i := range dst {
		dst[i] = math.Float64frombits(binary.LittleEndian.Uint64(src[i*elemSize:]))
	}
}
