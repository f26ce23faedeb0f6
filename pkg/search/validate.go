package search

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/fisiolab/fisiosearch/pkg/lib"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// validateRequest rejects malformed requests before any predicate building.
// All failures for one request are collected into a single ValidationErrors.
func validateRequest(req SearchRequest) error {
	var errs []string

	if err := lib.ValidateStruct(req); err != nil {
		if ve, ok := err.(lib.ValidationErrors); ok {
			errs = append(errs, ve.Errors...)
		} else {
			return err
		}
	}

	if !req.SortBy.Valid() {
		errs = append(errs, unknownValueError("sortBy", string(req.SortBy), SortFields()))
	}
	if !req.SortOrder.Valid() {
		errs = append(errs, unknownValueError("sortOrder", string(req.SortOrder), []string{string(SortAsc), string(SortDesc)}))
	}

	for _, difficulty := range req.Difficulties {
		if !slices.Contains(KnownDifficulties(), difficulty) {
			errs = append(errs, unknownValueError("difficulties", difficulty, KnownDifficulties()))
		}
	}

	if req.MinDuration != nil && req.MaxDuration != nil && *req.MinDuration > *req.MaxDuration {
		errs = append(errs, fmt.Sprintf("minDuration: %d exceeds maxDuration %d", *req.MinDuration, *req.MaxDuration))
	}

	if len(errs) > 0 {
		return lib.ValidationErrors{Errors: errs}
	}

	return nil
}

// unknownValueError formats an enum rejection, suggesting the closest known
// value when the input looks like a typo.
func unknownValueError(field, value string, known []string) string {
	msg := fmt.Sprintf("%s: unknown value %q (valid: %s)", field, value, strings.Join(known, ", "))
	if suggestion, ok := closestMatch(value, known); ok {
		msg = fmt.Sprintf("%s: unknown value %q, did you mean %q?", field, value, suggestion)
	}
	return msg
}

const maxSuggestionDistance = 3

func closestMatch(value string, candidates []string) (string, bool) {
	ranks := fuzzy.RankFindNormalizedFold(value, candidates)
	if len(ranks) == 0 {
		return "", false
	}
	sort.Sort(ranks)
	best := ranks[0]
	if best.Distance > maxSuggestionDistance {
		return "", false
	}
	return best.Target, true
}
