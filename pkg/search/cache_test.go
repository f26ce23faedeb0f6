package search

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testResult(total int) *SearchResult {
	return &SearchResult{Pagination: Pagination{Total: total}}
}

func newTestCache(ttl time.Duration, maxEntries int) (*ResultCache, *time.Time) {
	logger := zerolog.Nop()
	cache := NewResultCache(ttl, maxEntries, &logger)

	now := time.Now()
	cache.now = func() time.Time { return now }

	return cache, &now
}

func TestResultCache_TTLBoundary(t *testing.T) {
	cache, now := newTestCache(time.Minute, 10)

	cache.Set("k", testResult(1))

	// Any lookup before storedAt+ttl sees the entry.
	*now = now.Add(59 * time.Second)
	if _, ok := cache.Get("k"); !ok {
		t.Error("expected hit just before TTL expiry")
	}

	// A lookup at exactly storedAt+ttl is stale.
	*now = now.Add(time.Second)
	if _, ok := cache.Get("k"); ok {
		t.Error("expected miss at TTL boundary")
	}

	// The stale entry is purged lazily on lookup.
	if cache.Size() != 0 {
		t.Errorf("Size() = %d after stale lookup, want 0", cache.Size())
	}
}

func TestResultCache_Overwrite(t *testing.T) {
	cache, _ := newTestCache(time.Minute, 10)

	cache.Set("k", testResult(1))
	cache.Set("k", testResult(2))

	got, ok := cache.Get("k")
	if !ok || got.Pagination.Total != 2 {
		t.Errorf("Get() = (%v, %v), want overwritten entry", got, ok)
	}
	if cache.Size() != 1 {
		t.Errorf("Size() = %d, want 1", cache.Size())
	}
}

func TestResultCache_EvictsExactlyOne(t *testing.T) {
	const capacity = 5
	cache, _ := newTestCache(time.Minute, capacity)

	for i := range capacity + 1 {
		cache.Set(fmt.Sprintf("k%d", i), testResult(i))
	}

	if cache.Size() != capacity {
		t.Errorf("Size() = %d after overflow, want %d", cache.Size(), capacity)
	}

	// The least recently used entry is the one that went.
	if _, ok := cache.Get("k0"); ok {
		t.Error("expected oldest entry to be evicted")
	}
	for i := 1; i <= capacity; i++ {
		if _, ok := cache.Get(fmt.Sprintf("k%d", i)); !ok {
			t.Errorf("entry k%d unexpectedly evicted", i)
		}
	}
}

func TestResultCache_GetRefreshesRecency(t *testing.T) {
	cache, _ := newTestCache(time.Minute, 2)

	cache.Set("a", testResult(1))
	cache.Set("b", testResult(2))

	// Touch "a" so "b" becomes the eviction candidate.
	if _, ok := cache.Get("a"); !ok {
		t.Fatal("expected hit for a")
	}

	cache.Set("c", testResult(3))

	if _, ok := cache.Get("b"); ok {
		t.Error("expected b to be evicted as least recently used")
	}
	if _, ok := cache.Get("a"); !ok {
		t.Error("expected a to survive eviction")
	}
	if _, ok := cache.Get("c"); !ok {
		t.Error("expected c to be present")
	}
}

func TestResultCache_Clear(t *testing.T) {
	cache, now := newTestCache(time.Minute, 10)

	cache.Set("a", testResult(1))
	cache.Set("b", testResult(2))

	*now = now.Add(time.Second)
	cache.Clear()

	if cache.Size() != 0 {
		t.Errorf("Size() = %d after Clear, want 0", cache.Size())
	}

	stats := cache.Stats()
	if !stats.LastResetAt.Equal(*now) {
		t.Errorf("LastResetAt = %v, want %v", stats.LastResetAt, *now)
	}
	if stats.Capacity != 10 {
		t.Errorf("Capacity = %d, want 10", stats.Capacity)
	}
}
