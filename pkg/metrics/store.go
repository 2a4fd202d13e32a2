package metrics

import "time"

// StoreMetrics observes calls made by remote store backends (S3).
type StoreMetrics interface {
	// RecordOperation records a backend call (e.g., "GetObject") with its
	// duration and outcome.
	RecordOperation(operation string, duration time.Duration, err error)

	// RecordBytes records payload bytes moved in the given direction
	// ("read" or "write").
	RecordBytes(direction string, bytes int64)
}

// NewNoopStoreMetrics returns a StoreMetrics that discards everything.
func NewNoopStoreMetrics() StoreMetrics {
	return noopStoreMetrics{}
}

type noopStoreMetrics struct{}

func (noopStoreMetrics) RecordOperation(string, time.Duration, error) {}
func (noopStoreMetrics) RecordBytes(string, int64)                    {}
