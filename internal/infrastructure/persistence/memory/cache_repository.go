// Package memory provides in-process repository implementations: the
// default enrichment cache and a cellar store used by tests and demos.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cellarmind/v1/internal/ports/outbound"
	"go.uber.org/zap"
)

const defaultTTL = 24 * time.Hour

type cacheItem struct {
	value     []byte
	expiresAt time.Time
}

// CacheRepository is the in-process enrichment cache. Expiry is lazy: an
// entry past its deadline is evicted on the read that finds it, and there
// is no background sweep. No capacity bound either; keys are bounded by
// the cellar's cardinality.
type CacheRepository struct {
	mu     sync.RWMutex
	items  map[string]cacheItem
	logger *zap.Logger
	now    func() time.Time
}

// NewCacheRepository creates an empty cache.
func NewCacheRepository(logger *zap.Logger) *CacheRepository {
	return &CacheRepository{
		items:  make(map[string]cacheItem),
		logger: logger.Named("cache"),
		now:    time.Now,
	}
}

// SetClock pins the cache's clock, for expiry tests.
func (r *CacheRepository) SetClock(now func() time.Time) { r.now = now }

// Get returns the cached value or outbound.ErrCacheMiss, both for a key
// never set and for one past expiry. Expired entries are removed as a
// side effect.
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	item, exists := r.items[key]
	r.mu.RUnlock()

	if !exists {
		return nil, outbound.ErrCacheMiss
	}
	if r.now().After(item.expiresAt) {
		r.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have
		// refreshed the entry.
		if current, ok := r.items[key]; ok && r.now().After(current.expiresAt) {
			delete(r.items, key)
		}
		r.mu.Unlock()
		return nil, outbound.ErrCacheMiss
	}
	return item.value, nil
}

// Set stores a value with the given TTL. Empty values are rejected with a
// warning rather than stored: a cached "no data" placeholder would be
// indistinguishable from a genuine miss on the next read.
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if len(value) == 0 || string(value) == "null" || string(value) == "{}" || string(value) == "[]" {
		r.logger.Warn("refusing to cache empty value", zap.String("key", key))
		return nil
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}

	r.mu.Lock()
	r.items[key] = cacheItem{value: value, expiresAt: r.now().Add(ttl)}
	r.mu.Unlock()
	return nil
}

// Delete removes a key.
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	delete(r.items, key)
	r.mu.Unlock()
	return nil
}

// Len reports the current entry count, including not-yet-evicted expired
// entries.
func (r *CacheRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
