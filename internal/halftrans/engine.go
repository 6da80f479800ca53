// Package halftrans implements the symmetry-blocked half-transformation of
// four-index tensors between the MO and SO bases.
//
// The transform acts on the two column indices of a tensor stored as
// dpd buffers. For every row irrep h and every column sub-irrep Gc, with
// Gd = (h^my)^Gc, each row ij of the sub-block is transformed with two dense
// multiplies through a scratch block X:
//
//	MO -> SO:  X = V(ij) * C[Gd]^T          S(ij) = alpha * C[Gc] * X + beta * S(ij)
//	SO -> MO:  X = S(ij) * C[Gd]            V(ij) = alpha * C[Gc]^T * X + beta * V(ij)
//
// Only one irrep of each buffer and one scratch block are resident at a time.
package halftrans

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/born-ml/symtensor/internal/backend/cpu"
	"github.com/born-ml/symtensor/internal/dpd"
	"github.com/born-ml/symtensor/internal/logging"
	"github.com/born-ml/symtensor/internal/tensor"
)

// TracerName is the instrumentation scope of the engine's spans.
const TracerName = "github.com/born-ml/symtensor/halftrans"

// Engine runs half-transformations on a compute backend.
type Engine struct {
	backend tensor.Backend
	logger  *zap.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

// Option configures an Engine.
type Option func(*Engine)

// WithBackend selects the dense multiply implementation.
func WithBackend(b tensor.Backend) Option {
	return func(e *Engine) {
		e.backend = b
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithTracer sets the OpenTelemetry tracer.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = t
	}
}

// New creates an engine. By default it multiplies on the CPU backend,
// logs nothing and traces through the global tracer provider.
func New(opts ...Option) *Engine {
	e := &Engine{
		backend: cpu.New(),
		logger:  zap.NewNop(),
		tracer:  otel.Tracer(TracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Backend returns the engine's compute backend.
func (e *Engine) Backend() tensor.Backend {
	return e.backend
}

// Transform half-transforms between mo and so in direction dir, using the
// transformation matrix c and the offset tables t. The destination becomes
// alpha * transform(source) + beta * destination.
//
// The source is read only when alpha is nonzero and the destination only when
// beta is nonzero. With beta zero the destination's previous contents, NaN
// included, never reach the result. Every irrep opened is closed again, on
// failure too. ctx carries trace context; the transform cannot be cancelled.
func (e *Engine) Transform(ctx context.Context, mo, so *dpd.Buffer, c *Matrix, t Tables,
	dir Direction, alpha, beta float64) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := e.tracer.Start(ctx, "halftrans.Transform", trace.WithAttributes(
		attribute.String("direction", dir.String()),
		attribute.Float64("alpha", alpha),
		attribute.Float64("beta", beta),
	))
	defer span.End()

	start := time.Now()
	var st stats
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		e.metrics.record(dir, st, start, err)
	}()

	log := logging.WithTrace(ctx, e.logger)

	if err := validate(mo, so, c, t, dir); err != nil {
		log.Warn("transform rejected", zap.Stringer("direction", dir), zap.Error(err))
		return err
	}
	span.SetAttributes(
		attribute.String("mo_buffer", mo.Name()),
		attribute.String("so_buffer", so.Name()),
		attribute.Int("nirreps", t.Group.NumIrreps),
	)

	src, dst := mo, so
	if dir == SOToMO {
		src, dst = so, mo
	}

	for h := 0; h < t.Group.NumIrreps; h++ {
		if err := e.transformIrrep(ctx, src, dst, c, t, dir, h, alpha, beta, &st); err != nil {
			log.Error("transform failed",
				zap.Stringer("direction", dir),
				zap.String("source", src.Name()),
				zap.String("destination", dst.Name()),
				zap.Error(err))
			return err
		}
	}

	log.Info("transform complete",
		zap.Stringer("direction", dir),
		zap.String("source", src.Name()),
		zap.String("destination", dst.Name()),
		zap.String("backend", e.backend.Name()),
		zap.Int("pairs", st.transformed),
		zap.Int("skipped", st.skipped),
		zap.Int("gemms", st.gemms),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// transformIrrep processes row irrep h and leaves both buffers closed.
func (e *Engine) transformIrrep(ctx context.Context, src, dst *dpd.Buffer, c *Matrix, t Tables,
	dir Direction, h int, alpha, beta float64, st *stats) (err error) {
	ctx, span := e.tracer.Start(ctx, "halftrans.irrep", trace.WithAttributes(
		attribute.Int("irrep", h),
		attribute.Int("rows", src.RowTot(h)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := src.Init(h); err != nil {
		return fmt.Errorf("halftrans: irrep %d: init source: %w", h, err)
	}
	if err := dst.Init(h); err != nil {
		_ = src.Close(h)
		return fmt.Errorf("halftrans: irrep %d: init destination: %w", h, err)
	}

	if err := e.multiplyIrrep(src, dst, c, t, dir, h, alpha, beta, st); err != nil {
		_ = src.Close(h)
		_ = dst.Close(h)
		return err
	}

	if err := src.Close(h); err != nil {
		_ = dst.Close(h)
		return fmt.Errorf("halftrans: irrep %d: close source: %w", h, err)
	}
	if err := dst.Close(h); err != nil {
		return fmt.Errorf("halftrans: irrep %d: close destination: %w", h, err)
	}

	st.irreps++
	logging.WithTrace(ctx, e.logger).Debug("irrep transformed",
		zap.Int("irrep", h),
		zap.Int("rows", src.RowTot(h)))
	return nil
}

// multiplyIrrep reads, transforms and writes the open irrep h.
func (e *Engine) multiplyIrrep(src, dst *dpd.Buffer, c *Matrix, t Tables,
	dir Direction, h int, alpha, beta float64, st *stats) error {
	if alpha != 0 {
		if err := src.Read(h); err != nil {
			return fmt.Errorf("halftrans: irrep %d: read source: %w", h, err)
		}
	}
	if beta != 0 {
		if err := dst.Read(h); err != nil {
			return fmt.Errorf("halftrans: irrep %d: read destination: %w", h, err)
		}
	}

	g := t.Group
	colIrrep := g.Product(h, src.MyIrrep())
	rows := src.RowTot(h)
	srcM, dstM := src.Matrix(h), dst.Matrix(h)

	for gc := 0; gc < g.NumIrreps; gc++ {
		gd := g.Product(colIrrep, gc)
		moC, moD := t.MOPI[gc], t.MOPI[gd]
		soC, soD := t.SOPI[gc], t.SOPI[gd]
		if moC == 0 || moD == 0 || soC == 0 || soD == 0 {
			st.skipped++
			continue
		}
		if rows == 0 {
			continue
		}
		cd, pq := t.MORow[h][gc], t.SORow[h][gc]
		cGc, cGd := c.Blocks[gc].Data, c.Blocks[gd].Data

		var err error
		switch dir {
		case MOToSO:
			x := tensor.NewBlock(moC, soD)
			for ij := 0; ij < rows; ij++ {
				// X = V(ij) * C[Gd]^T
				if err = e.backend.Gemm(tensor.NoTrans, tensor.Trans, moC, soD, moD,
					1, srcM.RowFrom(ij, cd), moD, cGd, moD, 0, x.Data, soD); err != nil {
					break
				}
				// S(ij) = alpha * C[Gc] * X + beta * S(ij)
				if err = e.backend.Gemm(tensor.NoTrans, tensor.NoTrans, soC, soD, moC,
					alpha, cGc, moC, x.Data, soD, beta, dstM.RowFrom(ij, pq), soD); err != nil {
					break
				}
				st.gemms += 2
			}
			x.Free()
		case SOToMO:
			x := tensor.NewBlock(soC, moD)
			for ij := 0; ij < rows; ij++ {
				// X = S(ij) * C[Gd]
				if err = e.backend.Gemm(tensor.NoTrans, tensor.NoTrans, soC, moD, soD,
					1, srcM.RowFrom(ij, pq), soD, cGd, moD, 0, x.Data, moD); err != nil {
					break
				}
				// V(ij) = alpha * C[Gc]^T * X + beta * V(ij)
				if err = e.backend.Gemm(tensor.Trans, tensor.NoTrans, moC, moD, soC,
					alpha, cGc, moC, x.Data, moD, beta, dstM.RowFrom(ij, cd), moD); err != nil {
					break
				}
				st.gemms += 2
			}
			x.Free()
		}
		if err != nil {
			return fmt.Errorf("halftrans: irrep %d: pair (%d,%d): multiply: %w", h, gc, gd, err)
		}
		st.transformed++
	}

	if err := dst.Write(h); err != nil {
		return fmt.Errorf("halftrans: irrep %d: write destination: %w", h, err)
	}
	return nil
}

// validate checks every precondition before any buffer is touched.
func validate(mo, so *dpd.Buffer, c *Matrix, t Tables, dir Direction) error {
	if !dir.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidDirection, dir)
	}
	if mo == nil || so == nil {
		return fmt.Errorf("%w: mo=%t so=%t", ErrNilBuffer, mo != nil, so != nil)
	}
	if err := t.validate(); err != nil {
		return err
	}
	if err := c.Validate(t.Group, t.MOPI, t.SOPI); err != nil {
		return err
	}

	g := t.Group
	if mo.NumIrreps() != g.NumIrreps || so.NumIrreps() != g.NumIrreps {
		return fmt.Errorf("%w: buffers have %d and %d irreps, tables have %d",
			ErrDimensionMismatch, mo.NumIrreps(), so.NumIrreps(), g.NumIrreps)
	}
	if mo.MyIrrep() != so.MyIrrep() {
		return fmt.Errorf("%w: %q has symmetry %d, %q has %d",
			ErrDimensionMismatch, mo.Name(), mo.MyIrrep(), so.Name(), so.MyIrrep())
	}

	for h := 0; h < g.NumIrreps; h++ {
		if mo.RowTot(h) != so.RowTot(h) {
			return fmt.Errorf("%w: irrep %d has %d rows in %q and %d in %q",
				ErrDimensionMismatch, h, mo.RowTot(h), mo.Name(), so.RowTot(h), so.Name())
		}
		colIrrep := g.Product(h, mo.MyIrrep())
		for gc := 0; gc < g.NumIrreps; gc++ {
			gd := g.Product(colIrrep, gc)
			if t.MOPI[gc] == 0 || t.MOPI[gd] == 0 || t.SOPI[gc] == 0 || t.SOPI[gd] == 0 {
				continue
			}
			if err := fits("mo_row", mo, h, gc, t.MORow[h][gc], t.MOPI[gc]*t.MOPI[gd]); err != nil {
				return err
			}
			if err := fits("so_row", so, h, gc, t.SORow[h][gc], t.SOPI[gc]*t.SOPI[gd]); err != nil {
				return err
			}
		}
	}
	return nil
}

// fits checks that a sub-block of width n at offset lies inside the row.
func fits(table string, b *dpd.Buffer, h, gc, offset, n int) error {
	if offset < 0 || offset+n > b.ColTot(h) {
		return fmt.Errorf("%w: %s[%d][%d] = %d with width %d exceeds %d columns of %q",
			ErrDimensionMismatch, table, h, gc, offset, n, b.ColTot(h), b.Name())
	}
	return nil
}
