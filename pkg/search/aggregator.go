package search

import (
	"context"
	"fmt"

	"github.com/alitto/pond/v2"
)

// aggregator computes the facet count buckets. The facet-bound filters are
// stripped from the predicate set first, so each facet counts over the full
// filtered population rather than the current facet selection.
type aggregator struct {
	store      Store
	pool       pond.Pool
	facetLimit int
}

func newAggregator(store Store, workers, facetLimit int) *aggregator {
	return &aggregator{
		store:      store,
		pool:       pond.NewPool(workers),
		facetLimit: facetLimit,
	}
}

// aggregate runs the four facet count queries on the bounded worker pool.
// Category and difficulty buckets are uncapped; the list-valued facets are
// capped at facetLimit values to bound response size.
func (a *aggregator) aggregate(ctx context.Context, f Filters) (Aggregations, error) {
	base := f.WithoutFacets()

	out := emptyAggregations()
	group := a.pool.NewGroup()

	count := func(facet FacetField, limit int, dst *map[string]int) {
		group.SubmitErr(func() error {
			buckets, err := a.store.CountByFacet(ctx, base, facet, limit)
			if err != nil {
				return fmt.Errorf("count by %s: %w", facet, err)
			}
			*dst = buckets
			return nil
		})
	}

	count(FacetCategory, 0, &out.Categories)
	count(FacetDifficulty, 0, &out.Difficulties)
	count(FacetBodyPart, a.facetLimit, &out.BodyParts)
	count(FacetEquipment, a.facetLimit, &out.Equipment)

	if err := group.Wait(); err != nil {
		return Aggregations{}, err
	}

	return out, nil
}

// emptyAggregations returns non-nil maps so the response always serializes
// every facet block, including the unimplemented therapeutic-goal facet.
func emptyAggregations() Aggregations {
	return Aggregations{
		Categories:       map[string]int{},
		Difficulties:     map[string]int{},
		BodyParts:        map[string]int{},
		Equipment:        map[string]int{},
		TherapeuticGoals: map[string]int{},
	}
}
