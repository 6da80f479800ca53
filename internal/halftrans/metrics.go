package halftrans

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of an Engine.
type Metrics struct {
	transforms *prometheus.CounterVec
	irreps     *prometheus.CounterVec
	pairs      *prometheus.CounterVec
	gemms      prometheus.Counter
	duration   *prometheus.HistogramVec
}

// NewMetrics creates engine collectors registered with reg.
// A nil reg yields working but unregistered collectors.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		transforms: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "halftrans",
			Name:      "transforms_total",
			Help:      "Half-transformations by direction and result",
		}, []string{"direction", "result"}),
		irreps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "halftrans",
			Name:      "irreps_total",
			Help:      "Row irreps processed",
		}, []string{"direction"}),
		pairs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "halftrans",
			Name:      "pairs_total",
			Help:      "Orbital-pair sub-blocks by outcome",
		}, []string{"direction", "outcome"}),
		gemms: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "halftrans",
			Name:      "gemm_calls_total",
			Help:      "Dense multiply calls issued",
		}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "halftrans",
			Name:      "transform_duration_seconds",
			Help:      "Wall time of a complete transform",
			Buckets:   prometheus.DefBuckets,
		}, []string{"direction"}),
	}
}

// stats accumulates counters for one transform.
type stats struct {
	irreps      int
	transformed int
	skipped     int
	gemms       int
}

func (m *Metrics) record(dir Direction, s stats, start time.Time, err error) {
	if m == nil {
		return
	}
	d := dir.String()
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.transforms.WithLabelValues(d, result).Inc()
	m.irreps.WithLabelValues(d).Add(float64(s.irreps))
	m.pairs.WithLabelValues(d, "transformed").Add(float64(s.transformed))
	m.pairs.WithLabelValues(d, "skipped").Add(float64(s.skipped))
	m.gemms.Add(float64(s.gemms))
	m.duration.WithLabelValues(d).Observe(time.Since(start).Seconds())
}
