package search

import (
	"errors"
	"strings"
	"testing"

	"github.com/fisiolab/fisiosearch/pkg/lib"
)

func TestValidateRequest(t *testing.T) {
	minDuration := 300
	maxDuration := 60
	confidence := 120.0

	tests := []struct {
		name    string
		req     SearchRequest
		wantErr bool
		detail  string
	}{
		{
			name: "valid defaults",
			req:  SearchRequest{Query: "ombro"}.withDefaults(),
		},
		{
			name:    "limit above bound",
			req:     SearchRequest{Limit: 101}.withDefaults(),
			wantErr: true,
			detail:  "Limit",
		},
		{
			name:    "negative offset",
			req:     SearchRequest{Offset: -1}.withDefaults(),
			wantErr: true,
			detail:  "Offset",
		},
		{
			name:    "unknown sort field",
			req:     SearchRequest{SortBy: "nam"}.withDefaults(),
			wantErr: true,
			detail:  `did you mean "name"`,
		},
		{
			name:    "unknown sort order",
			req:     SearchRequest{SortOrder: "descending"}.withDefaults(),
			wantErr: true,
			detail:  "sortOrder",
		},
		{
			name:    "unknown difficulty",
			req:     SearchRequest{Difficulties: []string{"expert"}}.withDefaults(),
			wantErr: true,
			detail:  "difficulties",
		},
		{
			name: "known difficulties",
			req:  SearchRequest{Difficulties: []string{DifficultyBeginner, DifficultyAdvanced}}.withDefaults(),
		},
		{
			name:    "inverted duration range",
			req:     SearchRequest{MinDuration: &minDuration, MaxDuration: &maxDuration}.withDefaults(),
			wantErr: true,
			detail:  "minDuration",
		},
		{
			name:    "confidence above scale",
			req:     SearchRequest{MinAIConfidence: &confidence}.withDefaults(),
			wantErr: true,
			detail:  "MinAIConfidence",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRequest(tt.req)
			if !tt.wantErr {
				if err != nil {
					t.Errorf("validateRequest() error = %v, want nil", err)
				}
				return
			}

			var ve lib.ValidationErrors
			if !errors.As(err, &ve) {
				t.Fatalf("validateRequest() error = %v, want ValidationErrors", err)
			}
			if tt.detail != "" && !strings.Contains(ve.Error(), tt.detail) {
				t.Errorf("error %q does not mention %q", ve.Error(), tt.detail)
			}
		})
	}
}

func TestValidateRequest_CollectsAllFailures(t *testing.T) {
	err := validateRequest(SearchRequest{
		Limit:        200,
		Offset:       -5,
		SortBy:       "weird",
		Difficulties: []string{"expert"},
	}.withDefaults())

	var ve lib.ValidationErrors
	if !errors.As(err, &ve) {
		t.Fatalf("validateRequest() error = %v, want ValidationErrors", err)
	}
	if len(ve.Errors) < 4 {
		t.Errorf("expected all failures reported, got %d: %v", len(ve.Errors), ve.Errors)
	}
}
