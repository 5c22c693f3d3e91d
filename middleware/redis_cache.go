package middleware

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shrek82/stationd/executor"
)

// RedisCacheMiddleware caches batch results in Redis so several stationd
// instances can share one cache. Enable per request via CacheTTLKey.
//
// Cached outcomes round-trip through JSON, so a hit carries the payloads
// as generic maps; the HTTP layer re-serializes them identically.
type RedisCacheMiddleware struct {
	Client *redis.Client
}

func NewRedisCache(opt *redis.Options) *RedisCacheMiddleware {
	return &RedisCacheMiddleware{Client: redis.NewClient(opt)}
}

func (m *RedisCacheMiddleware) Name() string { return "RedisCache" }

func (m *RedisCacheMiddleware) Init(e *executor.Executor) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.Client.Ping(ctx).Err()
}

func (m *RedisCacheMiddleware) Shutdown() error {
	return m.Client.Close()
}

func (m *RedisCacheMiddleware) Process(ctx context.Context, batch *executor.Batch, next executor.BatchFunc) ([]executor.Outcome, error) {
	ttl, permanent, ok := cacheTTL(ctx)
	if !ok || !batch.ReadOnly() {
		return next(ctx, batch)
	}

	key := "stationd:cache:" + batch.CacheKey()
	if val, err := m.Client.Get(ctx, key).Result(); err == nil {
		var outcomes []executor.Outcome
		if err := json.Unmarshal([]byte(val), &outcomes); err == nil {
			return outcomes, nil
		}
		// Corrupt entry: fall through to the database.
	}

	outcomes, err := next(ctx, batch)
	if err != nil {
		return outcomes, err
	}

	if cacheable(batch, outcomes) {
		if data, err := json.Marshal(outcomes); err == nil {
			expiry := ttl
			if permanent {
				expiry = 0 // Redis: no expiration
			}
			m.Client.Set(ctx, key, data, expiry)
		}
	}
	return outcomes, nil
}
