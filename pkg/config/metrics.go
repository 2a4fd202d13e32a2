package config

import (
	"github.com/aquarist-labs/glass/pkg/metrics"
	promMetrics "github.com/aquarist-labs/glass/pkg/metrics/prometheus"
)

// MetricsResult contains all metrics-related components created from configuration.
type MetricsResult struct {
	// Server is the HTTP server exposing Prometheus metrics (nil if disabled)
	Server *metrics.Server

	// Directory, API and Store are never nil; they are no-ops when disabled
	Directory metrics.DirectoryMetrics
	API       metrics.APIMetrics
	Store     metrics.StoreMetrics
}

// InitializeMetrics creates and initializes all metrics components based on configuration.
//
// If metrics are disabled no registry is created and every collector is a
// no-op.
func InitializeMetrics(cfg *Config) *MetricsResult {
	if !cfg.Metrics.Enabled {
		return &MetricsResult{
			Directory: metrics.NewNoopDirectoryMetrics(),
			API:       metrics.NewNoopAPIMetrics(),
			Store:     metrics.NewNoopStoreMetrics(),
		}
	}

	metrics.InitRegistry()

	return &MetricsResult{
		Server:    metrics.NewServer(metrics.ServerConfig{Port: cfg.Metrics.Port}),
		Directory: promMetrics.NewDirectoryMetrics(),
		API:       promMetrics.NewAPIMetrics(),
		Store:     promMetrics.NewStoreMetrics(cfg.Store.Type),
	}
}
