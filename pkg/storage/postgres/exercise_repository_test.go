package postgres

import (
	"strings"
	"testing"

	"github.com/fisiolab/fisiosearch/pkg/search"
)

func TestBuildSearchQuery_Filters(t *testing.T) {
	confidence := 70.0
	categorized := true
	minDuration := 60

	f := search.Filters{
		ApprovedOnly:    true,
		AICategorized:   &categorized,
		MinAIConfidence: &confidence,
		Categories:      []string{"Alongamento", "Mobilidade"},
		Difficulties:    []string{search.DifficultyBeginner},
		MinDuration:     &minDuration,
		BodyParts:       []string{"ombro", "cervical"},
		HasMedia:        true,
	}

	query, args := buildSearchQuery(f, search.SortSpec{By: search.SortByName, Order: search.SortAsc}, 20, 40)

	for _, fragment := range []string{
		`"approved" = `,
		`"ai_categorized" = `,
		`"ai_confidence" >= `,
		`"category" IN `,
		`"difficulty" IN `,
		`"duration_seconds" >= `,
		`"body_parts" ?| `,
		`"video_url" <> `,
		`"thumbnail_url" <> `,
		"ORDER BY",
		"LIMIT 20",
		"OFFSET 40",
	} {
		if !strings.Contains(query, fragment) {
			t.Errorf("query missing %q:\n%s", fragment, query)
		}
	}

	// approved, categorized, confidence, two categories, one difficulty,
	// duration, the body-part array, two empty-string media comparisons.
	if len(args) != 10 {
		t.Errorf("got %d args, want 10: %v", len(args), args)
	}
}

func TestBuildSearchQuery_TextModes(t *testing.T) {
	exact := search.Filters{TextQueries: []string{"ombro"}, ExactText: true}
	query, args := buildSearchQuery(exact, search.SortSpec{By: search.SortByRelevance}, 20, 0)

	// One literal pattern against name and description.
	if got := strings.Count(query, "ILIKE"); got != 2 {
		t.Errorf("exact text query has %d ILIKE predicates, want 2:\n%s", got, query)
	}
	if len(args) != 2 {
		t.Errorf("got %d args, want 2: %v", len(args), args)
	}

	fuzzy := search.Filters{TextQueries: []string{"ombro", "ombros"}}
	query, args = buildSearchQuery(fuzzy, search.SortSpec{By: search.SortByRelevance}, 20, 0)

	// Two variants across name, description, category and goals.
	if got := strings.Count(query, "ILIKE"); got != 8 {
		t.Errorf("fuzzy text query has %d ILIKE predicates, want 8:\n%s", got, query)
	}
	if len(args) != 8 {
		t.Errorf("got %d args, want 8: %v", len(args), args)
	}
}

func TestBuildSearchQuery_Sorting(t *testing.T) {
	tests := []struct {
		name string
		f    search.Filters
		spec search.SortSpec
		want string
		not  string
	}{
		{
			name: "relevance without text pre-sorts by confidence then recency",
			spec: search.SortSpec{By: search.SortByRelevance, Order: search.SortDesc},
			want: `ai_confidence DESC NULLS LAST, "created_at" DESC`,
		},
		{
			name: "relevance with text leaves final order to the ranker",
			f:    search.Filters{TextQueries: []string{"ombro"}},
			spec: search.SortSpec{By: search.SortByRelevance, Order: search.SortDesc},
			want: "ai_confidence DESC NULLS LAST",
			not:  `"created_at" DESC`,
		},
		{
			name: "relevance ascending flips the confidence pre-sort",
			spec: search.SortSpec{By: search.SortByRelevance, Order: search.SortAsc},
			want: `ai_confidence ASC NULLS FIRST, "created_at" ASC`,
			not:  "DESC",
		},
		{
			name: "name sort carries a name tiebreak",
			spec: search.SortSpec{By: search.SortByCategory, Order: search.SortDesc},
			want: `"category" DESC, "name" ASC`,
		},
		{
			name: "created_at sort is direct",
			spec: search.SortSpec{By: search.SortByCreatedAt, Order: search.SortAsc},
			want: `"created_at" ASC`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, _ := buildSearchQuery(tt.f, tt.spec, 20, 0)
			if !strings.Contains(query, tt.want) {
				t.Errorf("query missing %q:\n%s", tt.want, query)
			}
			if tt.not != "" && strings.Contains(query, tt.not) {
				t.Errorf("query should not contain %q:\n%s", tt.not, query)
			}
		})
	}
}

func TestBuildCountQuery(t *testing.T) {
	query, args := buildCountQuery(search.Filters{
		ApprovedOnly: true,
		Categories:   []string{"Alongamento"},
	})

	if !strings.Contains(query, "COUNT(*)") {
		t.Errorf("count query missing COUNT(*):\n%s", query)
	}
	if strings.Contains(query, "LIMIT") || strings.Contains(query, "OFFSET") {
		t.Errorf("count query must not paginate:\n%s", query)
	}
	if len(args) != 2 {
		t.Errorf("got %d args, want 2: %v", len(args), args)
	}
}

func TestBuildFacetQuery_Scalar(t *testing.T) {
	query, _, err := buildFacetQuery(search.Filters{ApprovedOnly: true}, search.FacetCategory, 0)
	if err != nil {
		t.Fatalf("buildFacetQuery() error = %v", err)
	}

	for _, fragment := range []string{
		`"category"`,
		"COUNT(*)",
		`GROUP BY "category"`,
		"total DESC",
	} {
		if !strings.Contains(query, fragment) {
			t.Errorf("facet query missing %q:\n%s", fragment, query)
		}
	}
	// Scalar facets are uncapped.
	if strings.Contains(query, "LIMIT") {
		t.Errorf("uncapped facet query must not limit:\n%s", query)
	}
}

func TestBuildFacetQuery_ListValued(t *testing.T) {
	query, _, err := buildFacetQuery(search.Filters{ApprovedOnly: true}, search.FacetBodyPart, 20)
	if err != nil {
		t.Fatalf("buildFacetQuery() error = %v", err)
	}

	for _, fragment := range []string{
		"jsonb_array_elements_text(body_parts)",
		`"facet_values"`,
		`GROUP BY "value"`,
		"total DESC",
		"LIMIT 20",
	} {
		if !strings.Contains(query, fragment) {
			t.Errorf("facet query missing %q:\n%s", fragment, query)
		}
	}
	// The filters apply inside the subquery, before unnesting.
	if !strings.Contains(query, `"approved" = `) {
		t.Errorf("facet subquery missing approval filter:\n%s", query)
	}
}

func TestBuildFacetQuery_UnknownFacet(t *testing.T) {
	if _, _, err := buildFacetQuery(search.Filters{}, search.FacetField("nope"), 0); err == nil {
		t.Error("expected error for unknown facet field")
	}
}
