package search

import (
	"container/list"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type cacheEntry struct {
	key       string
	value     *SearchResult
	expiresAt time.Time
}

// ResultCache is a bounded LRU cache for assembled search results with lazy
// TTL expiry. Eviction is deliberately least-recently-used: Get refreshes
// recency, Set evicts the tail once the capacity bound is exceeded.
//
// A single mutex guards lookup and insert, making check-then-act atomic under
// concurrent request handling. The cache is an optimization only: a cold or
// evicted cache changes latency, never results.
type ResultCache struct {
	logger *zerolog.Logger

	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List // front = most recently used
	ttl        time.Duration
	maxEntries int
	lastReset  time.Time

	now func() time.Time
}

// CacheStats is a read-only snapshot for introspection.
type CacheStats struct {
	Size        int       `json:"size"`
	Capacity    int       `json:"capacity"`
	LastResetAt time.Time `json:"lastResetAt"`
}

func NewResultCache(ttl time.Duration, maxEntries int, logger *zerolog.Logger) *ResultCache {
	return &ResultCache{
		logger:     logger,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		ttl:        ttl,
		maxEntries: maxEntries,
		lastReset:  time.Now(),
		now:        time.Now,
	}
}

// Get returns the cached result for key, or absent. Entries past their TTL
// are purged here rather than by a background sweep.
func (c *ResultCache) Get(key string) (*SearchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	entry := elem.Value.(*cacheEntry)
	if !c.now().Before(entry.expiresAt) {
		c.order.Remove(elem)
		delete(c.entries, key)
		return nil, false
	}

	c.order.MoveToFront(elem)

	c.logger.Trace().Str("key", key).Msg("result cache hit")

	return entry.value, true
}

// Set inserts or overwrites the entry for key and evicts the least recently
// used entry when the capacity bound is exceeded.
func (c *ResultCache) Set(key string, value *SearchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.ttl)

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*cacheEntry)
		entry.value = value
		entry.expiresAt = expiresAt
		c.order.MoveToFront(elem)
		return
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{
		key:       key,
		value:     value,
		expiresAt: expiresAt,
	})

	if len(c.entries) <= c.maxEntries {
		return
	}

	oldest := c.order.Back()
	if oldest == nil {
		return
	}
	evicted := oldest.Value.(*cacheEntry)
	c.order.Remove(oldest)
	delete(c.entries, evicted.key)

	c.logger.Trace().Str("key", evicted.key).Msg("result cache eviction")
}

// Clear atomically empties the cache.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.order = list.New()
	c.lastReset = c.now()
}

// Size returns the current entry count.
func (c *ResultCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Stats returns the introspection snapshot.
func (c *ResultCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		Size:        len(c.entries),
		Capacity:    c.maxEntries,
		LastResetAt: c.lastReset,
	}
}
