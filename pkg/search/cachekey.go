package search

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
)

const cacheKeyLength = 32

// cacheKeyParams is the canonical form of a request used for key derivation.
// Array-valued filters are sorted copies, so input ordering never changes the
// key; every other field difference does.
type cacheKeyParams struct {
	Query            string   `json:"q,omitempty"`
	Categories       []string `json:"cat,omitempty"`
	BodyParts        []string `json:"bp,omitempty"`
	Equipment        []string `json:"eq,omitempty"`
	Difficulties     []string `json:"dif,omitempty"`
	TherapeuticGoals []string `json:"tg,omitempty"`
	MinDuration      *int     `json:"dmin,omitempty"`
	MaxDuration      *int     `json:"dmax,omitempty"`
	AICategorized    *bool    `json:"ai,omitempty"`
	MinAIConfidence  *float64 `json:"conf,omitempty"`
	HasMedia         bool     `json:"media,omitempty"`
	ApprovedOnly     bool     `json:"appr"`
	SortBy           string   `json:"sort"`
	SortOrder        string   `json:"ord"`
	Limit            int      `json:"lim"`
	Offset           int      `json:"off"`
	Fuzzy            bool     `json:"fuzzy,omitempty"`
	Aggregations     bool     `json:"aggs"`
}

// DeriveCacheKey canonicalizes a default-resolved request into a
// deterministic, order-independent cache key.
func DeriveCacheKey(req SearchRequest) string {
	params := cacheKeyParams{
		Query:            req.Query,
		Categories:       sortedCopy(req.Categories),
		BodyParts:        sortedCopy(req.BodyParts),
		Equipment:        sortedCopy(req.Equipment),
		Difficulties:     sortedCopy(req.Difficulties),
		TherapeuticGoals: sortedCopy(req.TherapeuticGoals),
		MinDuration:      req.MinDuration,
		MaxDuration:      req.MaxDuration,
		AICategorized:    req.AICategorized,
		MinAIConfidence:  req.MinAIConfidence,
		HasMedia:         req.HasMedia,
		ApprovedOnly:     req.ApprovedOnly == nil || *req.ApprovedOnly,
		SortBy:           string(req.SortBy),
		SortOrder:        string(req.SortOrder),
		Limit:            req.Limit,
		Offset:           req.Offset,
		Fuzzy:            req.Fuzzy,
		Aggregations:     req.IncludeAggregations == nil || *req.IncludeAggregations,
	}

	// Marshaling a flat struct of scalars and sorted slices cannot fail.
	raw, _ := json.Marshal(params)
	sum := sha256.Sum256(raw)

	return "search:" + hex.EncodeToString(sum[:])[:cacheKeyLength]
}

func sortedCopy(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}
