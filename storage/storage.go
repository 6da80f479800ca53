// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package storage provides the backing stores of dpd buffers: process
// memory, .symt block files and BadgerDB.
package storage

import (
	"github.com/dgraph-io/badger/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/born-ml/symtensor/internal/storage"
)

// Store persists the irrep blocks of one tensor.
type Store = storage.Store

// Layout describes the tensor a store holds.
type Layout = storage.Layout

// Store implementations and their options.
type (
	MemoryStore   = storage.MemoryStore
	FileStore     = storage.FileStore
	FileOptions   = storage.FileOptions
	BadgerStore   = storage.BadgerStore
	BadgerConfig  = storage.BadgerConfig
	BadgerOptions = storage.BadgerOptions
	Metrics       = storage.Metrics
)

// Errors.
var (
	ErrUnknownIrrep  = storage.ErrUnknownIrrep
	ErrSizeMismatch  = storage.ErrSizeMismatch
	ErrBlockNotFound = storage.ErrBlockNotFound
	ErrClosed        = storage.ErrClosed
	ErrInvalidLayout = storage.ErrInvalidLayout
)

// NewMemoryStore creates an in-process store.
func NewMemoryStore(layout Layout) (*MemoryStore, error) {
	return storage.NewMemoryStore(layout)
}

// CreateFileStore creates a zero-filled block file at path.
func CreateFileStore(path string, layout Layout, opts FileOptions) (*FileStore, error) {
	return storage.CreateFileStore(path, layout, opts)
}

// OpenFileStore opens an existing block file.
func OpenFileStore(path string, opts FileOptions) (*FileStore, error) {
	return storage.OpenFileStore(path, opts)
}

// OpenBadgerDB opens a BadgerDB instance for Badger stores.
func OpenBadgerDB(cfg BadgerConfig, logger *zap.Logger) (*badger.DB, error) {
	return storage.OpenBadgerDB(cfg, logger)
}

// NewBadgerStore creates a store for layout in db.
func NewBadgerStore(db *badger.DB, layout Layout, opts BadgerOptions) (*BadgerStore, error) {
	return storage.NewBadgerStore(db, layout, opts)
}

// NewMetrics creates store collectors registered with reg.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	return storage.NewMetrics(reg, namespace)
}

// Instrument wraps s with metrics under name.
func Instrument(s Store, name string, m *Metrics) Store {
	return storage.Instrument(s, name, m)
}
