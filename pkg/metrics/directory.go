package metrics

import "time"

// DirectoryMetrics observes service directory operations (list, create,
// delete, authorization lookups).
type DirectoryMetrics interface {
	// RecordOperation records a completed operation with its duration and
	// outcome (err == nil means success).
	RecordOperation(operation string, duration time.Duration, err error)

	// SetServiceCount updates the number of configured services per type.
	SetServiceCount(serviceType string, count int)
}

// NewNoopDirectoryMetrics returns a DirectoryMetrics that discards everything.
func NewNoopDirectoryMetrics() DirectoryMetrics {
	return noopDirectoryMetrics{}
}

type noopDirectoryMetrics struct{}

func (noopDirectoryMetrics) RecordOperation(string, time.Duration, error) {}
func (noopDirectoryMetrics) SetServiceCount(string, int)                  {}
