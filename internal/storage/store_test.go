package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLayout has blocks of 3x5 and 2x4 values.
func testLayout(name string) Layout {
	return Layout{
		Name:      name,
		NumIrreps: 2,
		RowTot:    []int{3, 2},
		ColTot:    []int{5, 4},
	}
}

func seq(n int, start float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)
	}
	return out
}

// storeFactories builds every Store implementation over the same layout.
func storeFactories(t *testing.T) map[string]func(Layout) Store {
	t.Helper()
	return map[string]func(Layout) Store{
		"memory": func(l Layout) Store {
			s, err := NewMemoryStore(l)
			require.NoError(t, err)
			return s
		},
		"file": func(l Layout) Store {
			s, err := CreateFileStore(filepath.Join(t.TempDir(), l.Name+".symt"), l, FileOptions{SealOnClose: true})
			require.NoError(t, err)
			return s
		},
		"badger": func(l Layout) Store {
			db, err := OpenBadgerDB(BadgerConfig{InMemory: true}, nil)
			require.NoError(t, err)
			t.Cleanup(func() { _ = db.Close() })
			s, err := NewBadgerStore(db, l, BadgerOptions{})
			require.NoError(t, err)
			return s
		},
		"badger-compressed-chunked": func(l Layout) Store {
			db, err := OpenBadgerDB(BadgerConfig{InMemory: true}, nil)
			require.NoError(t, err)
			t.Cleanup(func() { _ = db.Close() })
			s, err := NewBadgerStore(db, l, BadgerOptions{Compress: true, ChunkValues: 4})
			require.NoError(t, err)
			return s
		},
	}
}

func TestStores_RoundTrip(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory(testLayout("t2"))
			defer s.Close()

			// Unwritten blocks read as zeros.
			got := seq(15, 99)
			require.NoError(t, s.ReadBlock(0, got))
			assert.Equal(t, make([]float64, 15), got)

			require.NoError(t, s.WriteBlock(0, seq(15, 1)))
			require.NoError(t, s.WriteBlock(1, seq(8, -3.5)))

			require.NoError(t, s.ReadBlock(0, got))
			assert.Equal(t, seq(15, 1), got)

			got1 := make([]float64, 8)
			require.NoError(t, s.ReadBlock(1, got1))
			assert.Equal(t, seq(8, -3.5), got1)

			// Overwrite.
			require.NoError(t, s.WriteBlock(1, seq(8, 10)))
			require.NoError(t, s.ReadBlock(1, got1))
			assert.Equal(t, seq(8, 10), got1)
		})
	}
}

func TestStores_RejectBadRequests(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory(testLayout("bad"))
			defer s.Close()

			assert.ErrorIs(t, s.WriteBlock(2, nil), ErrUnknownIrrep)
			assert.ErrorIs(t, s.WriteBlock(0, make([]float64, 14)), ErrSizeMismatch)
			assert.ErrorIs(t, s.ReadBlock(-1, nil), ErrUnknownIrrep)
		})
	}
}

func TestStores_ClosedStore(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory(testLayout("closed"))
			require.NoError(t, s.Close())
			assert.ErrorIs(t, s.ReadBlock(0, make([]float64, 15)), ErrClosed)
		})
	}
}

func TestMemoryStore_CopiesData(t *testing.T) {
	s, err := NewMemoryStore(testLayout("m"))
	require.NoError(t, err)

	src := seq(15, 0)
	require.NoError(t, s.WriteBlock(0, src))
	src[0] = 42

	got := make([]float64, 15)
	require.NoError(t, s.ReadBlock(0, got))
	assert.Equal(t, 0.0, got[0])
}

func TestLayout_Validate(t *testing.T) {
	assert.NoError(t, testLayout("ok").Validate())

	l := testLayout("x")
	l.NumIrreps = 3
	assert.ErrorIs(t, l.Validate(), ErrInvalidLayout)

	l = testLayout("x")
	l.RowTot = []int{1}
	assert.ErrorIs(t, l.Validate(), ErrInvalidLayout)

	l = testLayout("x")
	l.MyIrrep = 1
	assert.NoError(t, l.Validate())
	assert.Equal(t, int64(3*4), l.BlockSize(0))
	assert.Equal(t, int64(2*5), l.BlockSize(1))
}

func TestLayout_BlockSizeIsWide(t *testing.T) {
	l := Layout{Name: "big", NumIrreps: 1, RowTot: []int{100000}, ColTot: []int{100000}}
	assert.Equal(t, int64(10_000_000_000), l.BlockSize(0))
}

func TestFileStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "re.symt")
	s, err := CreateFileStore(path, testLayout("re"), FileOptions{SealOnClose: true})
	require.NoError(t, err)
	require.NoError(t, s.WriteBlock(1, seq(8, 7)))
	require.NoError(t, s.Close())

	s, err = OpenFileStore(path, FileOptions{})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, testLayout("re").RowTot, s.Layout().RowTot)
	assert.Equal(t, testLayout("re").ColTot, s.Layout().ColTot)

	got := make([]float64, 8)
	require.NoError(t, s.ReadBlock(1, got))
	assert.Equal(t, seq(8, 7), got)
}

func TestBadgerStore_Strict(t *testing.T) {
	db, err := OpenBadgerDB(BadgerConfig{InMemory: true}, nil)
	require.NoError(t, err)
	defer db.Close()

	s, err := NewBadgerStore(db, testLayout("strict"), BadgerOptions{Strict: true})
	require.NoError(t, err)
	defer s.Close()

	err = s.ReadBlock(0, make([]float64, 15))
	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestBadgerStore_SharedDatabase(t *testing.T) {
	db, err := OpenBadgerDB(BadgerConfig{InMemory: true}, nil)
	require.NoError(t, err)
	defer db.Close()

	a, err := NewBadgerStore(db, testLayout("a"), BadgerOptions{})
	require.NoError(t, err)
	b, err := NewBadgerStore(db, testLayout("b"), BadgerOptions{})
	require.NoError(t, err)

	require.NoError(t, a.WriteBlock(0, seq(15, 1)))
	got := seq(15, 5)
	require.NoError(t, b.ReadBlock(0, got))
	assert.Equal(t, make([]float64, 15), got, "stores with different names do not alias")
}

func TestBadgerStore_Persistent(t *testing.T) {
	dir := t.TempDir()
	db, err := OpenBadgerDB(BadgerConfig{Path: dir}, nil)
	require.NoError(t, err)
	s, err := NewBadgerStore(db, testLayout("p"), BadgerOptions{Compress: true})
	require.NoError(t, err)
	require.NoError(t, s.WriteBlock(1, seq(8, 3)))
	require.NoError(t, s.Close())
	require.NoError(t, db.Close())

	db, err = OpenBadgerDB(BadgerConfig{Path: dir}, nil)
	require.NoError(t, err)
	defer db.Close()
	s, err = NewBadgerStore(db, testLayout("p"), BadgerOptions{Compress: true})
	require.NoError(t, err)

	got := make([]float64, 8)
	require.NoError(t, s.ReadBlock(1, got))
	assert.Equal(t, seq(8, 3), got)
}

func TestOpenBadgerDB_RequiresPath(t *testing.T) {
	_, err := OpenBadgerDB(BadgerConfig{}, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

type failingStore struct{ Store }

func (failingStore) ReadBlock(int, []float64) error { return errors.New("disk on fire") }

func TestInstrument(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "symtensor")

	mem, err := NewMemoryStore(testLayout("inst"))
	require.NoError(t, err)
	s := Instrument(mem, "inst", m)

	require.NoError(t, s.WriteBlock(0, seq(15, 0)))
	require.NoError(t, s.ReadBlock(0, make([]float64, 15)))
	require.NoError(t, s.ReadBlock(1, make([]float64, 8)))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.blocks.WithLabelValues("inst", opWrite)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.blocks.WithLabelValues("inst", opRead)))
	assert.Equal(t, float64((15+8)*8), testutil.ToFloat64(m.bytes.WithLabelValues("inst", opRead)))

	bad := Instrument(failingStore{mem}, "bad", m)
	assert.Error(t, bad.ReadBlock(0, make([]float64, 15)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("bad", opRead)))

	assert.Same(t, mem, Instrument(mem, "x", nil))
}
