package search

import "time"

type Config struct {
	// CacheTTL bounds how long an assembled result stays servable.
	CacheTTL time.Duration `env:"SEARCH_CACHE_TTL,default=5m"`
	// CacheMaxEntries bounds the result cache; one entry is evicted (LRU)
	// when an insert exceeds it.
	CacheMaxEntries int `env:"SEARCH_CACHE_MAX_ENTRIES,default=1000" validate:"min=1"`
	// FacetLimit caps the bucket count for list-valued facets.
	FacetLimit int `env:"SEARCH_FACET_LIMIT,default=20" validate:"min=1"`
	// AggregationWorkers bounds concurrent facet count queries.
	AggregationWorkers int `env:"SEARCH_AGGREGATION_WORKERS,default=4" validate:"min=1"`
}
