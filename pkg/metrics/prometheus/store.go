package prometheus

import (
	"time"

	"github.com/aquarist-labs/glass/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// storeMetrics is the Prometheus implementation of metrics.StoreMetrics.
type storeMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	bytesTransferred  *prometheus.CounterVec
}

// NewStoreMetrics creates a new Prometheus-backed StoreMetrics instance for
// the named backend (e.g., "s3").
//
// Returns a no-op implementation if metrics are not enabled (InitRegistry not called).
func NewStoreMetrics(backend string) metrics.StoreMetrics {
	if !metrics.IsEnabled() {
		return metrics.NewNoopStoreMetrics()
	}

	reg := metrics.GetRegistry()
	labels := prometheus.Labels{"backend": backend}

	return &storeMetrics{
		operationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   metrics.Namespace,
				Subsystem:   metrics.SubsystemStore,
				Name:        "operations_total",
				Help:        "Total number of store backend operations by operation and status",
				ConstLabels: labels,
			},
			[]string{"operation", "status"},
		),
		operationDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   metrics.Namespace,
				Subsystem:   metrics.SubsystemStore,
				Name:        "operation_duration_seconds",
				Help:        "Duration of store backend operations in seconds",
				ConstLabels: labels,
				Buckets: []float64{
					0.01, // 10ms
					0.05, // 50ms
					0.1,  // 100ms
					0.5,  // 500ms
					1,    // 1s
					5,    // 5s
				},
			},
			[]string{"operation"},
		),
		bytesTransferred: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   metrics.Namespace,
				Subsystem:   metrics.SubsystemStore,
				Name:        "bytes_transferred_total",
				Help:        "Total payload bytes transferred to and from the store backend",
				ConstLabels: labels,
			},
			[]string{"direction"},
		),
	}
}

func (m *storeMetrics) RecordOperation(operation string, duration time.Duration, err error) {
	m.operationsTotal.WithLabelValues(operation, status(err)).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *storeMetrics) RecordBytes(direction string, bytes int64) {
	m.bytesTransferred.WithLabelValues(direction).Add(float64(bytes))
}
