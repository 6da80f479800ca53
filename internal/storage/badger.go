package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
)

// Compile-time check that BadgerStore implements Store.
var _ Store = (*BadgerStore)(nil)

// DefaultChunkValues is the number of float64 values per Badger value (4 MiB).
const DefaultChunkValues = 512 * 1024

// BadgerConfig holds configuration for the BadgerDB instance behind BadgerStores.
type BadgerConfig struct {
	// Path is the directory for BadgerDB files. Ignored when InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool
}

// badgerLogger adapts zap to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *zap.SugaredLogger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Errorf(format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warnf(format, args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Infof(format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debugf(format, args...)
}

// OpenBadgerDB opens a BadgerDB instance. A nil logger disables Badger's own logging.
// The caller owns the returned database and must Close it.
func OpenBadgerDB(cfg BadgerConfig, logger *zap.Logger) (*badger.DB, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	if logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: logger.Named("badger").Sugar()})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return db, nil
}

// BadgerOptions configures a BadgerStore.
type BadgerOptions struct {
	// Compress stores chunks zstd-compressed.
	Compress bool
	// ChunkValues caps the float64 values per key; zero means DefaultChunkValues.
	ChunkValues int
	// Strict makes reads of never-written blocks fail with ErrBlockNotFound
	// instead of returning zeros.
	Strict bool
}

// BadgerStore keeps each irrep block as a run of chunk values under
// "<name>/<irrep>/<chunk>" keys in a shared BadgerDB.
type BadgerStore struct {
	db     *badger.DB
	layout Layout
	opts   BadgerOptions

	mu     sync.Mutex
	enc    *zstd.Encoder
	dec    *zstd.Decoder
	closed bool
}

// NewBadgerStore creates a store for layout in db. Several stores may share
// one database as long as their layout names differ.
func NewBadgerStore(db *badger.DB, layout Layout, opts BadgerOptions) (*BadgerStore, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if opts.ChunkValues <= 0 {
		opts.ChunkValues = DefaultChunkValues
	}

	s := &BadgerStore{db: db, layout: layout, opts: opts}
	if opts.Compress {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("create zstd encoder: %w", err)
		}
		dec, err := zstd.NewReader(nil)
		if err != nil {
			_ = enc.Close()
			return nil, fmt.Errorf("create zstd decoder: %w", err)
		}
		s.enc, s.dec = enc, dec
	}
	return s, nil
}

// Layout returns the store's layout.
func (s *BadgerStore) Layout() Layout {
	return s.layout
}

func (s *BadgerStore) chunkKey(irrep, chunk int) []byte {
	return []byte(fmt.Sprintf("%s/%d/%06d", s.layout.Name, irrep, chunk))
}

// chunks returns the number of chunks a block of n values occupies.
func (s *BadgerStore) chunks(n int) int {
	return (n + s.opts.ChunkValues - 1) / s.opts.ChunkValues
}

// ReadBlock reads every chunk of the block for irrep into dst.
func (s *BadgerStore) ReadBlock(irrep int, dst []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if err := s.layout.checkBlock(irrep, len(dst)); err != nil {
		return err
	}
	if len(dst) == 0 {
		return nil
	}

	err := s.db.View(func(txn *badger.Txn) error {
		for c := 0; c < s.chunks(len(dst)); c++ {
			lo := c * s.opts.ChunkValues
			hi := min(lo+s.opts.ChunkValues, len(dst))

			item, err := txn.Get(s.chunkKey(irrep, c))
			if err != nil {
				return err
			}
			if err := item.Value(func(val []byte) error {
				return s.decode(dst[lo:hi], val)
			}); err != nil {
				return fmt.Errorf("chunk %d: %w", c, err)
			}
		}
		return nil
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		if s.opts.Strict {
			return fmt.Errorf("%w: store %q irrep %d", ErrBlockNotFound, s.layout.Name, irrep)
		}
		clear(dst)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read store %q irrep %d: %w", s.layout.Name, irrep, err)
	}
	return nil
}

// WriteBlock writes the block for irrep as a batch of chunk values.
func (s *BadgerStore) WriteBlock(irrep int, src []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if err := s.layout.checkBlock(irrep, len(src)); err != nil {
		return err
	}
	if len(src) == 0 {
		return nil
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for c := 0; c < s.chunks(len(src)); c++ {
		lo := c * s.opts.ChunkValues
		hi := min(lo+s.opts.ChunkValues, len(src))
		if err := wb.Set(s.chunkKey(irrep, c), s.encode(src[lo:hi])); err != nil {
			return fmt.Errorf("write store %q irrep %d chunk %d: %w", s.layout.Name, irrep, c, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("write store %q irrep %d: %w", s.layout.Name, irrep, err)
	}
	return nil
}

func (s *BadgerStore) encode(src []float64) []byte {
	raw := make([]byte, len(src)*8)
	putFloat64s(raw, src)
	if s.enc == nil {
		return raw
	}
	return s.enc.EncodeAll(raw, make([]byte, 0, len(raw)/2))
}

func (s *BadgerStore) decode(dst []float64, val []byte) error {
	raw := val
	if s.dec != nil {
		var err error
		raw, err = s.dec.DecodeAll(val, make([]byte, 0, len(dst)*8))
		if err != nil {
			return fmt.Errorf("decompress: %w", err)
		}
	}
	if len(raw) != len(dst)*8 {
		return fmt.Errorf("%w: chunk holds %d bytes, want %d", ErrSizeMismatch, len(raw), len(dst)*8)
	}
	getFloat64s(dst, raw)
	return nil
}

// Close releases the compression codecs. The database is owned by the caller.
func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.enc != nil {
		_ = s.enc.Close()
		s.dec.Close()
	}
	return nil
}

func putFloat64s(dst []byte, src []float64) {
	for i, v := range src {
		binary.LittleEndian.PutUint64(dst[i*8:], math.Float64bits(v))
	}
}

func getFloat64s(dst []float64, src []byte) {
	for i := range dst {
		dst[i] = math.Float64frombits(binary.LittleEndian.Uint64(src[i*8:]))
	}
}
