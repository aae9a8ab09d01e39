// Package metrics holds the Prometheus collectors for dataset loading.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/born-ml/dataset/internal/npy"
)

// Load modes.
const (
	ModeRaw    = "raw"
	ModeShared = "shared"
)

// Load results.
const (
	ResultOK        = "ok"
	ResultNotFound  = "not_found"
	ResultMalformed = "malformed"
	ResultError     = "error"
)

// Metrics groups the loader's collectors. A nil *Metrics records nothing.
type Metrics struct {
	LoadsTotal   *prometheus.CounterVec
	BytesRead    prometheus.Counter
	LoadDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on the default handler.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LoadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dataset_loads_total",
			Help: "Total number of dataset loads by mode and result",
		}, []string{"mode", "result"}),
		BytesRead: factory.NewCounter(prometheus.CounterOpts{
			Name: "dataset_bytes_read_total",
			Help: "Total array bytes loaded from disk",
		}),
		LoadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dataset_load_duration_seconds",
			Help:    "Histogram of dataset load latency",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"mode"}),
	}
}

// ObserveLoad records one finished load.
func (m *Metrics) ObserveLoad(mode string, bytes int, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.LoadsTotal.WithLabelValues(mode, Result(err)).Inc()
	m.LoadDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
	if err == nil {
		m.BytesRead.Add(float64(bytes))
	}
}

// Result maps a load error to its result label.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, npy.ErrNotFound):
		return ResultNotFound
	case errors.Is(err, npy.ErrMalformed):
		return ResultMalformed
	default:
		return ResultError
	}
}
