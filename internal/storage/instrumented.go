package storage

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation label values.
const (
	opRead  = "read"
	opWrite = "write"
)

// Metrics holds the Prometheus collectors shared by instrumented stores.
type Metrics struct {
	blocks  *prometheus.CounterVec
	bytes   *prometheus.CounterVec
	errors  *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// NewMetrics creates store collectors registered with reg.
// A nil reg yields working but unregistered collectors.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		blocks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "blocks_total",
			Help:      "Irrep blocks moved between memory and backing store",
		}, []string{"store", "op"}),
		bytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "bytes_total",
			Help:      "Payload bytes moved between memory and backing store",
		}, []string{"store", "op"}),
		errors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "errors_total",
			Help:      "Failed block reads and writes",
		}, []string{"store", "op"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "block_duration_seconds",
			Help:      "Latency of a single block read or write",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"op"}),
	}
}

// instrumented decorates a Store with metrics.
type instrumented struct {
	Store
	name    string
	metrics *Metrics
}

// Instrument wraps s so that every block transfer is counted under name.
// It returns s unchanged when m is nil.
func Instrument(s Store, name string, m *Metrics) Store {
	if m == nil {
		return s
	}
	return &instrumented{Store: s, name: name, metrics: m}
}

func (s *instrumented) ReadBlock(irrep int, dst []float64) error {
	start := time.Now()
	err := s.Store.ReadBlock(irrep, dst)
	s.observe(opRead, len(dst), start, err)
	return err
}

func (s *instrumented) WriteBlock(irrep int, src []float64) error {
	start := time.Now()
	err := s.Store.WriteBlock(irrep, src)
	s.observe(opWrite, len(src), start, err)
	return err
}

// Unwrap returns the decorated store.
func (s *instrumented) Unwrap() Store {
	return s.Store
}

func (s *instrumented) observe(op string, n int, start time.Time, err error) {
	s.metrics.latency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.errors.WithLabelValues(s.name, op).Inc()
		return
	}
	s.metrics.blocks.WithLabelValues(s.name, op).Inc()
	s.metrics.bytes.WithLabelValues(s.name, op).Add(float64(n) * 8)
}
