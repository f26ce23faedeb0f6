package search

// Filters is the store-agnostic predicate set for a single query. Filter
// groups combine with logical AND; values within one group with logical OR.
type Filters struct {
	ApprovedOnly     bool
	AICategorized    *bool
	MinAIConfidence  *float64
	Categories       []string
	Difficulties     []string
	MinDuration      *int
	MaxDuration      *int
	BodyParts        []string
	Equipment        []string
	TherapeuticGoals []string
	HasMedia         bool

	// TextQueries holds the normalized query variants. Empty means no
	// free-text predicate. With ExactText set, the single entry is matched
	// literally against name/description only.
	TextQueries []string
	ExactText   bool
}

// buildFilters translates a default-resolved request plus the normalized
// query variants into the predicate set. Malformed requests never reach this
// point; validation runs first.
func buildFilters(req SearchRequest, queries []string) Filters {
	f := Filters{
		ApprovedOnly:     req.ApprovedOnly == nil || *req.ApprovedOnly,
		AICategorized:    req.AICategorized,
		MinAIConfidence:  req.MinAIConfidence,
		Categories:       req.Categories,
		Difficulties:     req.Difficulties,
		MinDuration:      req.MinDuration,
		MaxDuration:      req.MaxDuration,
		BodyParts:        req.BodyParts,
		Equipment:        req.Equipment,
		TherapeuticGoals: req.TherapeuticGoals,
		HasMedia:         req.HasMedia,
	}

	if len(queries) > 0 {
		f.TextQueries = queries
		f.ExactText = !req.Fuzzy
	}

	return f
}

// WithoutFacets strips the facet-bound filter groups (category, difficulty,
// body part, equipment, goals) while keeping everything else, notably the
// approval filter. Aggregations count over this wider population.
func (f Filters) WithoutFacets() Filters {
	f.Categories = nil
	f.Difficulties = nil
	f.BodyParts = nil
	f.Equipment = nil
	f.TherapeuticGoals = nil
	return f
}

// HasText reports whether a free-text predicate is present.
func (f Filters) HasText() bool {
	return len(f.TextQueries) > 0
}

// HasFacetFilters reports whether any facet-bound filter group is set.
func (f Filters) HasFacetFilters() bool {
	return len(f.Categories) > 0 ||
		len(f.Difficulties) > 0 ||
		len(f.BodyParts) > 0 ||
		len(f.Equipment) > 0 ||
		len(f.TherapeuticGoals) > 0
}

// SortSpec is the ordering the store applies before pagination.
type SortSpec struct {
	By    SortBy
	Order SortOrder
}

// FacetField identifies an aggregation attribute.
type FacetField string

const (
	FacetCategory   FacetField = "category"
	FacetDifficulty FacetField = "difficulty"
	FacetBodyPart   FacetField = "body_part"
	FacetEquipment  FacetField = "equipment"
)

// ListValued reports whether the facet counts each record once per contained
// value rather than once per record.
func (f FacetField) ListValued() bool {
	return f == FacetBodyPart || f == FacetEquipment
}
