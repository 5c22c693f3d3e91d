package middleware

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/shrek82/stationd/executor"
)

// MemoryCacheMiddleware caches batch results in a bounded in-process LRU.
// Enable per request by putting a TTL under CacheTTLKey in the context.
type MemoryCacheMiddleware struct {
	cache *lru.Cache[string, memoryCacheEntry]
}

type memoryCacheEntry struct {
	outcomes  []executor.Outcome
	expiresAt time.Time // zero means no expiry
}

// NewMemoryCache creates a cache holding at most size batch results.
func NewMemoryCache(size int) (*MemoryCacheMiddleware, error) {
	c, err := lru.New[string, memoryCacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &MemoryCacheMiddleware{cache: c}, nil
}

func (m *MemoryCacheMiddleware) Name() string { return "MemoryCache" }

func (m *MemoryCacheMiddleware) Init(e *executor.Executor) error { return nil }

func (m *MemoryCacheMiddleware) Shutdown() error {
	m.cache.Purge()
	return nil
}

func (m *MemoryCacheMiddleware) Process(ctx context.Context, batch *executor.Batch, next executor.BatchFunc) ([]executor.Outcome, error) {
	ttl, permanent, ok := cacheTTL(ctx)
	if !ok || !batch.ReadOnly() {
		return next(ctx, batch)
	}

	key := batch.CacheKey()
	if entry, hit := m.cache.Get(key); hit {
		if entry.expiresAt.IsZero() || time.Now().Before(entry.expiresAt) {
			return entry.outcomes, nil
		}
		m.cache.Remove(key)
	}

	outcomes, err := next(ctx, batch)
	if err != nil {
		return outcomes, err
	}

	if cacheable(batch, outcomes) {
		entry := memoryCacheEntry{outcomes: outcomes}
		if !permanent {
			entry.expiresAt = time.Now().Add(ttl)
		}
		m.cache.Add(key, entry)
	}
	return outcomes, nil
}
