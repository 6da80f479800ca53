//go:build unix

package serialization

import (
	"fmt"
	"math"
	"os"

	"golang.org/x/sys/unix"
)

// mmapFile maps size bytes of f read-only (Unix implementation).
func mmapFile(f *os.File, size int64) ([]byte, error) {
	if size <= 0 || size > math.MaxInt {
		return nil, fmt.Errorf("cannot map %d bytes", size)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED) //nolint:gosec // G115: fd fits in int
	if err != nil {
		return nil, fmt.Errorf("mmap: %w", err)
	}
	// Blocks are decoded whole, one irrep at a time.
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
	return data, nil
}

// munmapFile unmaps a region returned by mmapFile (Unix implementation).
func munmapFile(data []byte) error {
	return unix.Munmap(data)
}
