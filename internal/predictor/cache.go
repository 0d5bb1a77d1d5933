package predictor

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/edge-calibrator/internal/models"
)

// CacheKey identifies a cached probability
type CacheKey struct {
	RecordID uuid.UUID
	Market   models.MarketType
}

// String returns the string form used by the underlying cache
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s", k.RecordID, k.Market)
}

// CachedSource wraps a ProbabilitySource with an in-memory TTL cache.
// Negative results (unavailable probabilities) are cached too, so a run
// that retries the same record set does not hammer the service.
type CachedSource struct {
	source    ProbabilitySource
	cache     *cache.Cache
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

type cachedEntry struct {
	probability float64
	unavailable bool
}

// NewCachedSource creates a caching wrapper with the given TTL
func NewCachedSource(source ProbabilitySource, ttl time.Duration) *CachedSource {
	return &CachedSource{
		source: source,
		cache:  cache.New(ttl, ttl*2),
	}
}

// WinProbability returns the cached probability or consults the wrapped source
func (c *CachedSource) WinProbability(ctx context.Context, record *models.HistoricalRecord, market models.MarketType) (float64, error) {
	key := CacheKey{RecordID: record.ID, Market: market}.String()
	if raw, found := c.cache.Get(key); found {
		c.hitCount.Add(1)
		entry := raw.(cachedEntry)
		if entry.unavailable {
			return 0, ErrProbabilityUnavailable
		}
		return entry.probability, nil
	}
	c.missCount.Add(1)

	p, err := c.source.WinProbability(ctx, record, market)
	switch {
	case err == nil:
		c.cache.SetDefault(key, cachedEntry{probability: p})
	case err == ErrProbabilityUnavailable:
		c.cache.SetDefault(key, cachedEntry{unavailable: true})
	default:
		return 0, err
	}
	return p, err
}

// Stats reports cache hits and misses
func (c *CachedSource) Stats() (hits, misses uint64) {
	return c.hitCount.Load(), c.missCount.Load()
}

// Clear drops every cached entry
func (c *CachedSource) Clear() {
	c.cache.Flush()
}
