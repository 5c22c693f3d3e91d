package middleware

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/shrek82/stationd/executor"
)

// FileCacheMiddleware caches batch results as JSON files under a cache
// directory. Slower than the memory cache but survives restarts, which
// suits dashboard queries that change rarely.
type FileCacheMiddleware struct {
	Dir        string
	DefaultTTL time.Duration
}

type fileCacheEntry struct {
	ExpiresAt time.Time          `json:"expires_at"`
	Outcomes  []executor.Outcome `json:"outcomes"`
}

func NewFileCache(dir string, defaultTTL time.Duration) *FileCacheMiddleware {
	return &FileCacheMiddleware{Dir: dir, DefaultTTL: defaultTTL}
}

func (m *FileCacheMiddleware) Name() string { return "FileCache" }

func (m *FileCacheMiddleware) Init(e *executor.Executor) error {
	return os.MkdirAll(m.Dir, 0o755)
}

func (m *FileCacheMiddleware) Shutdown() error { return nil }

func (m *FileCacheMiddleware) Process(ctx context.Context, batch *executor.Batch, next executor.BatchFunc) ([]executor.Outcome, error) {
	ttl, permanent, ok := cacheTTL(ctx)
	if !ok || !batch.ReadOnly() {
		return next(ctx, batch)
	}
	if ttl == 0 && !permanent {
		ttl = m.DefaultTTL
	}

	path := filepath.Join(m.Dir, batch.CacheKey()+".json")
	if data, err := os.ReadFile(path); err == nil {
		var entry fileCacheEntry
		if err := json.Unmarshal(data, &entry); err == nil {
			if entry.ExpiresAt.IsZero() || time.Now().Before(entry.ExpiresAt) {
				return entry.Outcomes, nil
			}
			os.Remove(path)
		}
	}

	outcomes, err := next(ctx, batch)
	if err != nil {
		return outcomes, err
	}

	if cacheable(batch, outcomes) {
		entry := fileCacheEntry{Outcomes: outcomes}
		if !permanent {
			entry.ExpiresAt = time.Now().Add(ttl)
		}
		if data, err := json.Marshal(entry); err == nil {
			os.WriteFile(path, data, 0o644)
		}
	}
	return outcomes, nil
}
