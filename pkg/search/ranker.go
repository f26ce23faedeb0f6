package search

import (
	"sort"
	"strings"
	"time"
)

// Relevance scoring weights. Token weights apply per query token per field.
const (
	scoreExactPhrase = 100.0
	scoreTokenName   = 50.0
	scoreTokenCat    = 30.0
	scoreTokenDesc   = 20.0
	scoreTokenGoals  = 15.0

	scoreConfidenceFactor = 0.1

	recencyWindowDays  = 30
	recencyMaxBonus    = 10.0
	recencyDecayPerDay = 0.3
)

// rankExercises reorders one candidate page by relevance, descending. This is
// deliberately page-local: the store's pre-sort decides which candidates make
// the page, the ranker only reorders them. The sort is stable so equal scores
// keep the store's order.
func rankExercises(exercises []*Exercise, rawQuery string, variants []string, now time.Time) []ScoredExercise {
	query := strings.ToLower(strings.TrimSpace(rawQuery))
	tokens := queryTokens(variants)

	out := make([]ScoredExercise, len(exercises))
	for i, ex := range exercises {
		out[i] = ScoredExercise{
			Exercise:  ex,
			Relevance: relevanceScore(ex, query, tokens, now),
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Relevance > out[j].Relevance
	})

	return out
}

// queryTokens collects the scoring tokens from all normalized query variants,
// deduplicated, dropping single-character tokens.
func queryTokens(variants []string) []string {
	set := newVariantSet()
	for _, v := range variants {
		for _, token := range strings.Fields(strings.ToLower(v)) {
			if len([]rune(token)) > 1 {
				set.add(token)
			}
		}
	}
	return set.values()
}

func relevanceScore(ex *Exercise, query string, tokens []string, now time.Time) float64 {
	name := strings.ToLower(ex.Name)
	category := strings.ToLower(ex.Category)
	description := strings.ToLower(ex.Description)
	goals := strings.ToLower(ex.TherapeuticGoals)

	score := 0.0

	searchable := strings.Join([]string{name, description, category, goals}, " ")
	if query != "" && strings.Contains(searchable, query) {
		score += scoreExactPhrase
	}

	for _, token := range tokens {
		if strings.Contains(name, token) {
			score += scoreTokenName
		}
		if strings.Contains(category, token) {
			score += scoreTokenCat
		}
		if strings.Contains(description, token) {
			score += scoreTokenDesc
		}
		if strings.Contains(goals, token) {
			score += scoreTokenGoals
		}
	}

	if ex.AIConfidence != nil {
		score += *ex.AIConfidence * scoreConfidenceFactor
	}

	if age := now.Sub(ex.CreatedAt); age >= 0 && age < recencyWindowDays*24*time.Hour {
		days := age.Hours() / 24
		if bonus := recencyMaxBonus - days*recencyDecayPerDay; bonus > 0 {
			score += bonus
		}
	}

	return score
}
