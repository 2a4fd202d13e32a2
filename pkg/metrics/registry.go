// Package metrics provides Prometheus metrics collection for glass components.
//
// All metrics are optional - if InitRegistry is never called, components use
// no-op implementations. This lets the CLI run one-shot commands without a
// registry while `glass serve` exports everything under the "glass_" prefix.
//
// Usage:
//
//	metrics.InitRegistry()
//	metrics.RegisterBuildInfo(version, commit)
//
//	dirMetrics := prometheus.NewDirectoryMetrics()
//	apiMetrics := prometheus.NewAPIMetrics()
//
//	// Or use nil for no-op behavior
//	dir := services.NewDirectory(store, nil)
package metrics

import (
	"errors"
	"runtime"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Namespace prefixes every glass metric name.
const Namespace = "glass"

// Subsystems of the glass metric families.
const (
	SubsystemAPI       = "api"
	SubsystemDirectory = "directory"
	SubsystemStore     = "store"
)

var (
	// registry is written once by InitRegistry and only read afterwards
	registry     *prometheus.Registry
	registryOnce sync.Once
)

// InitRegistry creates the global registry along with the Go runtime and
// process collectors. Calls after the first are ignored.
//
// If it is never called, GetRegistry returns nil and every metrics
// constructor returns a no-op implementation.
func InitRegistry() {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: Namespace}),
		)
	})
}

// GetRegistry returns the global registry, or nil when metrics are disabled.
func GetRegistry() *prometheus.Registry {
	return registry
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	return GetRegistry() != nil
}

// RegisterBuildInfo exports glass_build_info{version,commit,goversion} = 1.
// It is a no-op when metrics are disabled and when the gauge is already
// registered.
func RegisterBuildInfo(version, commit string) {
	reg := GetRegistry()
	if reg == nil {
		return
	}

	info := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "build_info",
		Help:      "Build information of the running glass binary",
		ConstLabels: prometheus.Labels{
			"version":   version,
			"commit":    commit,
			"goversion": runtime.Version(),
		},
	})
	info.Set(1)

	if err := reg.Register(info); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			panic(err)
		}
	}
}
