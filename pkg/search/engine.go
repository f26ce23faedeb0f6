package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Store is the content-store capability the engine consumes. It finds records
// matching a predicate set and counts matching records grouped by a facet
// attribute. Implementations own their timeout and retry policy.
type Store interface {
	// Search returns one candidate page plus the total matching count.
	Search(ctx context.Context, f Filters, sort SortSpec, limit, offset int) ([]*Exercise, int, error)
	// CountByFacet groups matching records by facet value. List-valued
	// facets count each record once per contained value. A limit of 0
	// means uncapped.
	CountByFacet(ctx context.Context, f Filters, facet FacetField, limit int) (map[string]int, error)
}

// Engine is the query-time search pipeline: normalize, filter, cache lookup,
// store query plus facet aggregation, rank, assemble, cache store.
type Engine struct {
	store      Store
	cache      *ResultCache
	aggregator *aggregator
	logger     *zerolog.Logger
}

func NewEngine(logger *zerolog.Logger, cfg *Config, store Store, cache *ResultCache) *Engine {
	return &Engine{
		store:      store,
		cache:      cache,
		aggregator: newAggregator(store, cfg.AggregationWorkers, cfg.FacetLimit),
		logger:     logger,
	}
}

// Search runs one search request end to end. Either the full result is
// produced or an error is returned; there is no truncated best-effort mode.
func (e *Engine) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	req = req.withDefaults()

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	start := time.Now()

	var queries []string
	hasQuery := strings.TrimSpace(req.Query) != ""
	if hasQuery {
		queries = NormalizeQuery(req.Query, req.Fuzzy)
	}

	filters := buildFilters(req, queries)

	key := req.CacheKey
	if key == "" {
		key = DeriveCacheKey(req)
	}

	if cached, ok := e.cache.Get(key); ok {
		// The payload is immutable; only the per-call metadata differs.
		hit := *cached
		hit.Metadata.CacheHit = true
		hit.Metadata.QueryTimeMS = time.Since(start).Milliseconds()
		hit.Metadata.TotalIndexed = e.cache.Size()
		return &hit, nil
	}

	var (
		exercises    []*Exercise
		total        int
		aggregations = emptyAggregations()
	)

	// The page query and the facet counts are logically independent.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		exercises, total, err = e.store.Search(gctx, filters, SortSpec{By: req.SortBy, Order: req.SortOrder}, req.Limit, req.Offset)
		if err != nil {
			return fmt.Errorf("execute search: %w", err)
		}
		return nil
	})
	if *req.IncludeAggregations {
		g.Go(func() error {
			var err error
			aggregations, err = e.aggregator.aggregate(gctx, filters)
			if err != nil {
				return fmt.Errorf("aggregate facets: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var scored []ScoredExercise
	if hasQuery {
		scored = rankExercises(exercises, req.Query, queries, time.Now())
	} else {
		scored = make([]ScoredExercise, len(exercises))
		for i, ex := range exercises {
			scored[i] = ScoredExercise{Exercise: ex}
		}
	}

	result := &SearchResult{
		Exercises:    scored,
		Aggregations: aggregations,
		Pagination: Pagination{
			Total:   total,
			Limit:   req.Limit,
			Offset:  req.Offset,
			HasMore: req.Offset+req.Limit < total,
		},
		Metadata: Metadata{
			QueryTimeMS: time.Since(start).Milliseconds(),
			CacheHit:    false,
			Algorithm:   chooseAlgorithm(req, filters),
		},
	}

	// Cache a snapshot, not the returned value: once published the payload
	// is shared with concurrent hits and must never be written again. The
	// per-call metadata fields are overwritten on every hit anyway.
	snapshot := *result
	e.cache.Set(key, &snapshot)
	result.Metadata.TotalIndexed = e.cache.Size()

	e.logger.Debug().
		Str("cache_key", key).
		Str("algorithm", string(result.Metadata.Algorithm)).
		Int("total", total).
		Int64("query_time_ms", result.Metadata.QueryTimeMS).
		Msg("search executed")

	return result, nil
}

// chooseAlgorithm labels the matching strategy for the metadata block.
func chooseAlgorithm(req SearchRequest, f Filters) Algorithm {
	switch {
	case f.HasText() && req.Fuzzy:
		return AlgorithmFuzzyFullText
	case f.HasText():
		return AlgorithmExactFullText
	case f.HasFacetFilters():
		return AlgorithmFacetedFilter
	default:
		return AlgorithmSimpleFilter
	}
}

// CacheStats exposes the read-only cache introspection surface.
func (e *Engine) CacheStats() CacheStats {
	return e.cache.Stats()
}

// InvalidateCache atomically empties the result cache.
func (e *Engine) InvalidateCache() {
	e.cache.Clear()
	e.logger.Info().Msg("search result cache invalidated")
}
