// Package prometheus provides Prometheus-backed implementations of the
// interfaces in pkg/metrics.
package prometheus

import (
	"time"

	"github.com/aquarist-labs/glass/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// directoryMetrics is the Prometheus implementation of metrics.DirectoryMetrics.
type directoryMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	services          *prometheus.GaugeVec
}

// NewDirectoryMetrics creates a new Prometheus-backed DirectoryMetrics instance.
//
// Returns a no-op implementation if metrics are not enabled (InitRegistry not called).
func NewDirectoryMetrics() metrics.DirectoryMetrics {
	if !metrics.IsEnabled() {
		return metrics.NewNoopDirectoryMetrics()
	}

	reg := metrics.GetRegistry()

	return &directoryMetrics{
		operationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metrics.Namespace,
				Subsystem: metrics.SubsystemDirectory,
				Name:      "operations_total",
				Help:      "Total number of service directory operations by operation and status",
			},
			[]string{"operation", "status"},
		),
		operationDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metrics.Namespace,
				Subsystem: metrics.SubsystemDirectory,
				Name:      "operation_duration_milliseconds",
				Help:      "Duration of service directory operations in milliseconds",
				Buckets: []float64{
					1,    // 1ms
					10,   // 10ms
					100,  // 100ms
					1000, // 1s
				},
			},
			[]string{"operation"},
		),
		services: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metrics.Namespace,
				Name:      "services",
				Help:      "Number of configured services by type",
			},
			[]string{"type"},
		),
	}
}

func (m *directoryMetrics) RecordOperation(operation string, duration time.Duration, err error) {
	m.operationsTotal.WithLabelValues(operation, status(err)).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds() * 1000)
}

func (m *directoryMetrics) SetServiceCount(serviceType string, count int) {
	m.services.WithLabelValues(serviceType).Set(float64(count))
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
