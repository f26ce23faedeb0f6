package search

import (
	"testing"
)

func TestBuildFilters_ApprovalDefault(t *testing.T) {
	f := buildFilters(SearchRequest{}.withDefaults(), nil)
	if !f.ApprovedOnly {
		t.Error("approval filter should default to on")
	}

	disabled := false
	f = buildFilters(SearchRequest{ApprovedOnly: &disabled}.withDefaults(), nil)
	if f.ApprovedOnly {
		t.Error("explicitly disabled approval filter should be off")
	}
}

func TestBuildFilters_TextMode(t *testing.T) {
	exact := buildFilters(SearchRequest{Query: "ombro"}.withDefaults(), []string{"ombro"})
	if !exact.HasText() || !exact.ExactText {
		t.Errorf("exact mode filters = %+v, want literal text predicate", exact)
	}

	fuzzy := buildFilters(SearchRequest{Query: "ombro", Fuzzy: true}.withDefaults(), []string{"ombro", "ombros"})
	if !fuzzy.HasText() || fuzzy.ExactText {
		t.Errorf("fuzzy mode filters = %+v, want variant OR predicate", fuzzy)
	}

	none := buildFilters(SearchRequest{}.withDefaults(), nil)
	if none.HasText() {
		t.Errorf("filters without query should carry no text predicate")
	}
}

func TestFilters_WithoutFacets(t *testing.T) {
	confidence := 50.0
	f := Filters{
		ApprovedOnly:     true,
		MinAIConfidence:  &confidence,
		Categories:       []string{"Alongamento"},
		Difficulties:     []string{DifficultyBeginner},
		BodyParts:        []string{"ombro"},
		Equipment:        []string{"faixa elástica"},
		TherapeuticGoals: []string{"dor"},
		TextQueries:      []string{"ombro"},
	}

	stripped := f.WithoutFacets()

	if stripped.HasFacetFilters() {
		t.Errorf("WithoutFacets() = %+v, facet filters should be gone", stripped)
	}
	// Everything else survives, notably approval and the text predicate.
	if !stripped.ApprovedOnly || stripped.MinAIConfidence == nil || !stripped.HasText() {
		t.Errorf("WithoutFacets() = %+v, non-facet filters must be retained", stripped)
	}
	// The original is untouched.
	if !f.HasFacetFilters() {
		t.Error("WithoutFacets() must not mutate the receiver")
	}
}
