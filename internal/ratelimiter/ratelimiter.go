// Package ratelimiter throttles API requests with a token bucket.
package ratelimiter

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ant0ine/go-json-rest/rest"
	"golang.org/x/time/rate"

	"github.com/aquarist-labs/glass/internal/logger"
)

// unlimited stands in for rate.Inf, which disables burst accounting.
const unlimited = 1_000_000_000

// RateLimiter provides request rate limiting using the token bucket algorithm.
//
// Tokens are added to the bucket at a constant rate and every request
// consumes one. Bursts up to the bucket capacity are served immediately;
// once the bucket is empty, requests are rejected until it refills.
//
// Thread safety:
// All methods are safe for concurrent use.
type RateLimiter struct {
	limiter *rate.Limiter
}

// New creates a RateLimiter with the specified rate and burst capacity.
//
// Parameters:
//   - requestsPerSecond: Maximum sustained rate (tokens added per second).
//     Zero disables limiting.
//   - burst: Maximum burst size (bucket capacity). Zero defaults to twice
//     requestsPerSecond.
//
// Example:
//
//	// 50 req/s sustained, 100 req/s burst
//	limiter := New(50, 0)
func New(requestsPerSecond, burst uint) *RateLimiter {
	if requestsPerSecond == 0 {
		requestsPerSecond = unlimited
		burst = unlimited
	}
	if burst == 0 {
		burst = requestsPerSecond * 2
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), int(burst)),
	}
}

// Allow checks if a request is allowed under the current rate limit.
//
// It never waits.
//
// Returns:
//   - true if a token was available and consumed
//   - false if the request should be rejected
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}

// Tokens returns the current number of available tokens (possibly
// fractional). The value is a snapshot and may change immediately.
func (r *RateLimiter) Tokens() float64 {
	return r.limiter.Tokens()
}

// Middleware throttles a go-json-rest API through a shared RateLimiter.
//
// Requests arriving while the bucket is empty are answered with
// 429 Too Many Requests and a Retry-After header (whole seconds until the
// next token). A nil Limiter lets every request through.
//
// Usage:
//
//	api := rest.NewApi()
//	api.Use(&ratelimiter.Middleware{Limiter: ratelimiter.New(100, 200)})
type Middleware struct {
	Limiter *RateLimiter
}

// MiddlewareFunc implements rest.Middleware.
func (m *Middleware) MiddlewareFunc(h rest.HandlerFunc) rest.HandlerFunc {
	return func(w rest.ResponseWriter, r *rest.Request) {
		if m.Limiter == nil || m.Limiter.Allow() {
			h(w, r)
			return
		}

		logger.Debug("Rate limit exceeded: %s %s", r.Method, r.URL.Path)
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter(m.Limiter)))
		rest.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
	}
}

// retryAfter estimates whole seconds until one token is available.
func retryAfter(r *RateLimiter) int {
	limit := float64(r.limiter.Limit())
	if limit <= 0 {
		return 1
	}
	missing := 1 - r.Tokens()
	if missing <= 0 {
		return 1
	}
	wait := time.Duration(missing / limit * float64(time.Second))
	if secs := int((wait + time.Second - 1) / time.Second); secs > 1 {
		return secs
	}
	return 1
}
