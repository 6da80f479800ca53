package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/born-ml/symtensor/internal/backend/cpu"
	"github.com/born-ml/symtensor/internal/backend/gonum"
	"github.com/born-ml/symtensor/internal/config"
	"github.com/born-ml/symtensor/internal/dpd"
	"github.com/born-ml/symtensor/internal/halftrans"
	"github.com/born-ml/symtensor/internal/logging"
	"github.com/born-ml/symtensor/internal/storage"
	"github.com/born-ml/symtensor/internal/symmetry"
	"github.com/born-ml/symtensor/internal/tensor"
)

type roundTripOptions struct {
	configPath  string
	mospi       []int
	sospi       []int
	seed        int64
	tolerance   float64
	metricsFile string
}

func newRoundTripCmd() *cobra.Command {
	opts := roundTripOptions{}
	cmd := &cobra.Command{
		Use:   "roundtrip",
		Short: "Transform a random tensor MO->SO->MO and report the error",
		Long: `roundtrip builds a random totally symmetric (ij|cd) tensor and a random
transformation with orthonormal columns, transforms it to the SO basis and
back through the configured store and backend, and reports the largest
absolute deviation from the input. It fails if that exceeds --tolerance.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRoundTrip(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "YAML config file")
	f.IntSliceVar(&opts.mospi, "mospi", []int{3, 1, 2, 1}, "orbitals per irrep")
	f.IntSliceVar(&opts.sospi, "sospi", []int{5, 2, 3, 2}, "basis functions per irrep")
	f.Int64Var(&opts.seed, "seed", 1, "random seed")
	f.Float64Var(&opts.tolerance, "tolerance", 1e-10, "largest acceptable absolute error")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file when metrics are enabled")
	return cmd
}

func runRoundTrip(cmd *cobra.Command, opts roundTripOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))

	g, err := symmetry.NewGroup(len(opts.mospi))
	if err != nil {
		return err
	}
	mopi, sopi := symmetry.Dims(opts.mospi), symmetry.Dims(opts.sospi)
	if err := mopi.Validate(g); err != nil {
		return fmt.Errorf("--mospi: %w", err)
	}
	if err := sopi.Validate(g); err != nil {
		return fmt.Errorf("--sospi: %w", err)
	}

	reg := prometheus.NewRegistry()
	var engineMetrics *halftrans.Metrics
	var storeMetrics *storage.Metrics
	if cfg.Metrics.Enabled {
		engineMetrics = halftrans.NewMetrics(reg, cfg.Metrics.Namespace)
		storeMetrics = storage.NewMetrics(reg, cfg.Metrics.Namespace)
	}

	stores, err := newStoreFactory(cfg.Storage, runID, logger, storeMetrics)
	if err != nil {
		return err
	}
	defer stores.Close()

	rng := rand.New(rand.NewSource(opts.seed))
	c, err := halftrans.RandomOrthonormal(rng, sopi, mopi)
	if err != nil {
		return err
	}

	tables := halftrans.NewTables(g, mopi, sopi, 0)
	rows := symmetry.PairTotals(g, mopi, mopi)
	moParams := dpd.Params{Name: "V", NumIrreps: g.NumIrreps, RowTot: rows, ColTot: tables.MOColTot()}
	soParams := dpd.Params{Name: "S", NumIrreps: g.NumIrreps, RowTot: rows, ColTot: tables.SOColTot()}

	mo, err := stores.buffer(moParams, "mo")
	if err != nil {
		return err
	}
	so, err := stores.buffer(soParams, "so")
	if err != nil {
		return err
	}
	back, err := stores.buffer(moParams, "back")
	if err != nil {
		return err
	}

	if err := fillRandom(mo, rng); err != nil {
		return err
	}

	engine := halftrans.New(
		halftrans.WithBackend(newBackend(cfg)),
		halftrans.WithLogger(logger),
		halftrans.WithMetrics(engineMetrics),
	)
	ctx := context.Background()
	if err := engine.Transform(ctx, mo, so, c, tables, halftrans.MOToSO, 1, 0); err != nil {
		return err
	}
	if err := engine.Transform(ctx, back, so, c, tables, halftrans.SOToMO, 1, 0); err != nil {
		return err
	}

	maxErr, err := maxAbsDiff(mo, back)
	if err != nil {
		return err
	}

	if cfg.Metrics.Enabled && opts.metricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.metricsFile, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run:       %s\n", runID)
	fmt.Fprintf(out, "backend:   %s\n", engine.Backend().Name())
	fmt.Fprintf(out, "storage:   %s\n", cfg.Storage.Kind)
	fmt.Fprintf(out, "irreps:    %d\n", g.NumIrreps)
	fmt.Fprintf(out, "mospi:     %v\n", []int(mopi))
	fmt.Fprintf(out, "sospi:     %v\n", []int(sopi))
	fmt.Fprintf(out, "max error: %.3e\n", maxErr)

	if maxErr > opts.tolerance {
		return fmt.Errorf("round-trip error %.3e exceeds tolerance %.3e", maxErr, opts.tolerance)
	}
	return nil
}

func newBackend(cfg config.Config) tensor.Backend {
	if cfg.Backend.Name == config.BackendGonum {
		return gonum.New()
	}
	return cpu.New(cpu.WithParallel(cfg.Parallel))
}

// storeFactory creates one store per buffer according to the storage config.
type storeFactory struct {
	cfg     config.StorageConfig
	runID   string
	db      *badger.DB
	metrics *storage.Metrics
	stores  []storage.Store
}

func newStoreFactory(cfg config.StorageConfig, runID string, logger *zap.Logger, m *storage.Metrics) (*storeFactory, error) {
	f := &storeFactory{cfg: cfg, runID: runID, metrics: m}
	if cfg.Kind == config.StorageFile {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}
	if cfg.Kind == config.StorageBadger {
		db, err := storage.OpenBadgerDB(storage.BadgerConfig{
			Path:       cfg.Path,
			InMemory:   cfg.Path == "",
			SyncWrites: cfg.SyncWrites,
		}, logger)
		if err != nil {
			return nil, err
		}
		f.db = db
	}
	return f, nil
}

func (f *storeFactory) buffer(p dpd.Params, label string) (*dpd.Buffer, error) {
	name := f.runID + "-" + label
	layout := p.Layout(name, 0)

	var s storage.Store
	var err error
	switch f.cfg.Kind {
	case config.StorageFile:
		s, err = storage.CreateFileStore(filepath.Join(f.cfg.Path, name+".symt"), layout,
			storage.FileOptions{SealOnClose: true, Metadata: map[string]string{"label": label}})
	case config.StorageBadger:
		s, err = storage.NewBadgerStore(f.db, layout, storage.BadgerOptions{
			Compress:    f.cfg.Compress,
			ChunkValues: f.cfg.ChunkValues,
		})
	default:
		s, err = storage.NewMemoryStore(layout)
	}
	if err != nil {
		return nil, err
	}
	f.stores = append(f.stores, s)
	return dpd.NewBuffer(p, 0, storage.Instrument(s, label, f.metrics))
}

// Close closes every store, then the shared database.
func (f *storeFactory) Close() {
	for _, s := range f.stores {
		_ = s.Close()
	}
	if f.db != nil {
		_ = f.db.Close()
	}
}

func fillRandom(b *dpd.Buffer, rng *rand.Rand) error {
	for h := 0; h < b.NumIrreps(); h++ {
		if err := b.Init(h); err != nil {
			return err
		}
		m := b.Matrix(h)
		for i := range m.Data {
			m.Data[i] = rng.NormFloat64()
		}
		if err := b.Write(h); err != nil {
			return err
		}
		if err := b.Close(h); err != nil {
			return err
		}
	}
	return nil
}

func maxAbsDiff(a, b *dpd.Buffer) (float64, error) {
	var worst float64
	for h := 0; h < a.NumIrreps(); h++ {
		if err := a.Init(h); err != nil {
			return 0, err
		}
		if err := b.Init(h); err != nil {
			return 0, err
		}
		if err := a.Read(h); err != nil {
			return 0, err
		}
		if err := b.Read(h); err != nil {
			return 0, err
		}
		x, y := a.Matrix(h).Data, b.Matrix(h).Data
		for i := range x {
			worst = math.Max(worst, math.Abs(x[i]-y[i]))
		}
		if err := a.Close(h); err != nil {
			return 0, err
		}
		if err := b.Close(h); err != nil {
			return 0, err
		}
	}
	return worst, nil
}
