// Package middleware provides batch interceptors for the executor: result
// caches, a slow-statement log, a circuit breaker and request tracing.
package middleware

import (
	"context"
	"time"

	"github.com/shrek82/stationd/executor"
)

// CacheTTLKey is the context key enabling result caching for one request.
// Store a time.Duration under it: 0 disables caching, a negative value
// caches without expiry.
const CacheTTLKey = "stationd_cache_ttl"

// cacheTTL extracts the opt-in TTL from the context. ok is false when the
// request did not ask for caching.
func cacheTTL(ctx context.Context) (ttl time.Duration, permanent, ok bool) {
	v := ctx.Value(CacheTTLKey)
	if v == nil {
		return 0, false, false
	}
	d, isDur := v.(time.Duration)
	if !isDur || d == 0 {
		return 0, false, false
	}
	if d < 0 {
		return 0, true, true
	}
	return d, false, true
}

// cacheable reports whether a batch result may be stored: only all-read
// batches where every statement succeeded.
func cacheable(batch *executor.Batch, outcomes []executor.Outcome) bool {
	if !batch.ReadOnly() {
		return false
	}
	for _, out := range outcomes {
		if !out.Success {
			return false
		}
	}
	return true
}
