package search

import "time"

// SortBy defines the search result ordering field.
type SortBy string

const (
	SortByRelevance    SortBy = "relevance"
	SortByName         SortBy = "name"
	SortByCategory     SortBy = "category"
	SortByDifficulty   SortBy = "difficulty"
	SortByCreatedAt    SortBy = "created_at"
	SortByAIConfidence SortBy = "ai_confidence"
)

// SortFields lists every accepted sort field value.
func SortFields() []string {
	return []string{
		string(SortByRelevance),
		string(SortByName),
		string(SortByCategory),
		string(SortByDifficulty),
		string(SortByCreatedAt),
		string(SortByAIConfidence),
	}
}

func (s SortBy) Valid() bool {
	switch s {
	case SortByRelevance, SortByName, SortByCategory, SortByDifficulty, SortByCreatedAt, SortByAIConfidence:
		return true
	}
	return false
}

// SortOrder defines the sort direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func (s SortOrder) Valid() bool {
	return s == SortAsc || s == SortDesc
}

// Difficulty labels are a closed set; categories stay data-driven.
const (
	DifficultyBeginner     = "iniciante"
	DifficultyIntermediate = "intermediario"
	DifficultyAdvanced     = "avancado"
)

// KnownDifficulties lists the accepted difficulty labels.
func KnownDifficulties() []string {
	return []string{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}
}

// SearchRequest is a single search invocation. It is validated once and never
// mutated afterwards; defaults are resolved into a copy before validation.
type SearchRequest struct {
	Query            string   `json:"query,omitempty"`
	Categories       []string `json:"categories,omitempty"`
	BodyParts        []string `json:"bodyParts,omitempty"`
	Equipment        []string `json:"equipment,omitempty"`
	Difficulties     []string `json:"difficulties,omitempty"`
	TherapeuticGoals []string `json:"therapeuticGoals,omitempty"`
	MinDuration      *int     `json:"minDuration,omitempty" validate:"omitempty,min=0"`
	MaxDuration      *int     `json:"maxDuration,omitempty" validate:"omitempty,min=0"`
	AICategorized    *bool    `json:"aiCategorized,omitempty"`
	// MinAIConfidence filters on the AI confidence score (0-100 scale).
	MinAIConfidence *float64 `json:"minAiConfidence,omitempty" validate:"omitempty,min=0,max=100"`
	// HasMedia restricts to exercises with at least one of video or thumbnail.
	HasMedia bool `json:"hasMedia,omitempty"`
	// ApprovedOnly defaults to true; set to false explicitly to include
	// unapproved exercises.
	ApprovedOnly *bool     `json:"approvedOnly,omitempty"`
	SortBy       SortBy    `json:"sortBy,omitempty"`
	SortOrder    SortOrder `json:"sortOrder,omitempty"`
	Limit        int       `json:"limit,omitempty" validate:"min=1,max=100"`
	Offset       int       `json:"offset,omitempty" validate:"min=0"`
	// Fuzzy broadens the free-text query with token, stem and synonym variants.
	Fuzzy bool `json:"fuzzy,omitempty"`
	// CacheKey overrides the derived cache key when set.
	CacheKey string `json:"cacheKey,omitempty"`
	// IncludeAggregations defaults to true.
	IncludeAggregations *bool `json:"includeAggregations,omitempty"`
}

const defaultLimit = 20

// withDefaults resolves omitted fields to their defaults so that validation
// and cache-key derivation see a fully concrete request.
func (r SearchRequest) withDefaults() SearchRequest {
	if r.Limit == 0 {
		r.Limit = defaultLimit
	}
	if r.SortBy == "" {
		r.SortBy = SortByRelevance
	}
	if r.SortOrder == "" {
		r.SortOrder = SortDesc
	}
	if r.ApprovedOnly == nil {
		approved := true
		r.ApprovedOnly = &approved
	}
	if r.IncludeAggregations == nil {
		include := true
		r.IncludeAggregations = &include
	}
	return r
}

// Exercise is the content-store record. Read-only to the engine.
type Exercise struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	Subcategory      string    `json:"subcategory,omitempty"`
	BodyParts        []string  `json:"bodyParts"`
	Equipment        []string  `json:"equipment"`
	Difficulty       string    `json:"difficulty"`
	DurationSeconds  int       `json:"durationSeconds"`
	TherapeuticGoals string    `json:"therapeuticGoals,omitempty"`
	AICategorized    bool      `json:"aiCategorized"`
	AIConfidence     *float64  `json:"aiConfidence,omitempty"`
	Approved         bool      `json:"approved"`
	VideoURL         string    `json:"videoUrl,omitempty"`
	ThumbnailURL     string    `json:"thumbnailUrl,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ScoredExercise annotates an exercise with its relevance score. The score is
// only populated for free-text searches.
type ScoredExercise struct {
	*Exercise
	Relevance float64 `json:"relevance,omitempty"`
}

// Aggregations holds per-facet count buckets, recomputed per query.
type Aggregations struct {
	Categories   map[string]int `json:"categories"`
	Difficulties map[string]int `json:"difficulties"`
	BodyParts    map[string]int `json:"bodyParts"`
	Equipment    map[string]int `json:"equipment"`
	// TherapeuticGoals is always empty: goal facets are not implemented
	// because goals are free text, not an enumerable attribute.
	TherapeuticGoals map[string]int `json:"therapeuticGoals"`
}

// Pagination describes the page window of a result.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// Algorithm labels which matching strategy produced a result. Informational
// only; it never affects correctness.
type Algorithm string

const (
	AlgorithmFuzzyFullText Algorithm = "fuzzy_full_text"
	AlgorithmExactFullText Algorithm = "exact_full_text"
	AlgorithmFacetedFilter Algorithm = "faceted_filter"
	AlgorithmSimpleFilter  Algorithm = "simple_filter"
)

// Metadata carries execution information about a search.
type Metadata struct {
	QueryTimeMS  int64     `json:"queryTimeMs"`
	CacheHit     bool      `json:"cacheHit"`
	Algorithm    Algorithm `json:"algorithm"`
	TotalIndexed int       `json:"totalIndexed"`
}

// SearchResult is the response envelope and the cached payload. It is
// immutable once assembled; cache hits copy it before touching metadata.
type SearchResult struct {
	Exercises    []ScoredExercise `json:"exercises"`
	Aggregations Aggregations     `json:"aggregations"`
	Pagination   Pagination       `json:"pagination"`
	Metadata     Metadata         `json:"searchMetadata"`
}
