package metrics

import "time"

// APIMetrics observes REST API requests.
type APIMetrics interface {
	// RecordRequest records a completed request by route and status code.
	RecordRequest(method string, route string, status int, duration time.Duration)

	RecordRequestStart(route string)
	RecordRequestEnd(route string)
}

// NewNoopAPIMetrics returns an APIMetrics that discards everything.
func NewNoopAPIMetrics() APIMetrics {
	return noopAPIMetrics{}
}

type noopAPIMetrics struct{}

func (noopAPIMetrics) RecordRequest(string, string, int, time.Duration) {}
func (noopAPIMetrics) RecordRequestStart(string)                        {}
func (noopAPIMetrics) RecordRequestEnd(string)                          {}
