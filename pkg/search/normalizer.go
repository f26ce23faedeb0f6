package search

import (
	"sort"
	"strings"
)

// stemRules maps Portuguese noun suffixes to a verb-ish stem. Order matters:
// the first matching suffix wins.
var stemRules = []struct {
	suffix string
	stem   string
}{
	{"ecimento", "ecer"}, // fortalecimento -> fortalecer
	{"amento", "ar"},     // alongamento -> alongar
	{"imento", "ir"},
	{"mento", ""},
	{"ção", "r"}, // mobilização -> mobilizar
	{"são", ""},
}

// synonyms is a fixed bidirectional expansion table: a variant containing the
// key (or contained in it) pulls in the key and all its synonyms.
var synonyms = map[string][]string{
	"alongamento":    {"alongar", "flexibilidade", "estiramento"},
	"core":           {"abdominal", "estabilização"},
	"equilíbrio":     {"equilibrio", "estabilidade", "propriocepção"},
	"fortalecimento": {"força", "fortalecer", "tonificar"},
	"mobilidade":     {"mobilização", "amplitude de movimento"},
	"postura":        {"postural", "alinhamento"},
	"relaxamento":    {"relaxar", "respiração", "descanso"},
}

// NormalizeQuery expands a raw free-text query into the set of candidate
// query strings used for broadened matching. The original query is always the
// first element. With fuzzy disabled the literal query is the only candidate.
// This never fails: the worst case is the singleton set.
func NormalizeQuery(query string, fuzzy bool) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	if !fuzzy {
		return []string{q}
	}

	set := newVariantSet()
	set.add(q)

	for _, token := range strings.Fields(q) {
		if len([]rune(token)) <= 2 {
			continue
		}
		set.add(token)
		if stemmed, ok := stemToken(token); ok {
			set.add(stemmed)
		}
	}

	// Snapshot before expanding so synonym output does not chain into
	// further synonym lookups.
	base := set.values()

	keys := make([]string, 0, len(synonyms))
	for key := range synonyms {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		for _, variant := range base {
			if !strings.Contains(variant, key) && !strings.Contains(key, variant) {
				continue
			}
			set.add(key)
			for _, syn := range synonyms[key] {
				set.add(syn)
			}
			break
		}
	}

	return set.values()
}

func stemToken(token string) (string, bool) {
	for _, rule := range stemRules {
		if !strings.HasSuffix(token, rule.suffix) {
			continue
		}
		stemmed := strings.TrimSuffix(token, rule.suffix) + rule.stem
		if len([]rune(stemmed)) <= 2 || stemmed == token {
			return "", false
		}
		return stemmed, true
	}
	return "", false
}

// variantSet deduplicates while preserving insertion order, so the expansion
// is deterministic for identical input.
type variantSet struct {
	seen    map[string]struct{}
	ordered []string
}

func newVariantSet() *variantSet {
	return &variantSet{seen: make(map[string]struct{})}
}

func (s *variantSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.ordered = append(s.ordered, v)
}

func (s *variantSet) values() []string {
	out := make([]string, len(s.ordered))
	copy(out, s.ordered)
	return out
}
