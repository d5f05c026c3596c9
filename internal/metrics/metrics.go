package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics holds the Prometheus collectors for the project write path
type Metrics struct {
	storeOps        *prometheus.CounterVec
	storeLatency    *prometheus.HistogramVec
	uploadedBytes   prometheus.Counter
	rollbacks       *prometheus.CounterVec
	cleanupFailures *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors on reg, or on the default registerer when nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		storeOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "object_store_operations_total",
				Help: "Total number of object store operations by operation and result",
			},
			[]string{"operation", "result"},
		),
		storeLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "object_store_latency_ms",
				Help:    "Latency of object store operations in milliseconds",
				Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
			},
			[]string{"operation"},
		),
		uploadedBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "object_store_uploaded_bytes_total",
				Help: "Total bytes uploaded to the object store",
			},
		),
		rollbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "project_write_rollbacks_total",
				Help: "Total number of compensating rollbacks by write operation",
			},
			[]string{"operation"},
		),
		cleanupFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "project_blob_cleanup_failures_total",
				Help: "Total number of blob deletions that failed during cleanup or rollback",
			},
			[]string{"operation"},
		),
	}
}

func (m *Metrics) ObserveStoreOp(operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	m.storeOps.WithLabelValues(operation, result).Inc()
	m.storeLatency.WithLabelValues(operation).Observe(float64(time.Since(started).Microseconds()) / 1000.0)
}

func (m *Metrics) AddUploadedBytes(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.uploadedBytes.Add(float64(n))
}

func (m *Metrics) IncRollback(operation string) {
	if m == nil {
		return
	}
	m.rollbacks.WithLabelValues(operation).Inc()
}

func (m *Metrics) AddCleanupFailures(operation string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.cleanupFailures.WithLabelValues(operation).Add(float64(n))
}
