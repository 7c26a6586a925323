package taxonomy

import (
	"sort"
	"strings"
)

var dashReplacer = strings.NewReplacer(
	"-", " ",
	"–", " ", // en dash
	"—", " ", // em dash
	"_", " ",
)

// Normalize lowercases, maps dashes and underscores to spaces, spells out
// ampersands, drops possessives and apostrophes and collapses runs of
// whitespace. "Women's Fashion" and "women fashion" normalize to the same
// string. It is pure and idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = dashReplacer.Replace(s)
	s = strings.ReplaceAll(s, "’", "'")
	s = strings.ReplaceAll(s, "'s", "")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "&", " and ")
	return strings.Join(strings.Fields(s), " ")
}

// Expand produces the deduplicated, sorted token vocabulary for a raw
// category name: the normalized form, its and/& spelling variants, word-level
// synonyms and any phrase combinations. Sorting keeps the output stable for a
// given input, so generated SQL is deterministic.
func Expand(raw string) []string {
	base := Normalize(raw)
	if base == "" {
		return nil
	}

	set := map[string]struct{}{base: {}}
	add := func(tok string) {
		tok = Normalize(tok)
		if tok != "" {
			set[tok] = struct{}{}
		}
	}

	// Both ampersand spellings are stored in the wild.
	if strings.Contains(base, " and ") {
		add(strings.ReplaceAll(base, " and ", " & "))
	}

	words := strings.Fields(base)
	for _, w := range words {
		if syns, ok := wordSynonyms[w]; ok {
			for _, s := range syns {
				add(s)
			}
		}
	}

	present := make(map[string]struct{}, len(words))
	for _, w := range words {
		present[w] = struct{}{}
	}
	for _, rule := range phraseRules {
		if rule.matches(present) {
			for _, p := range rule.phrases {
				add(p)
			}
		}
	}

	tokens := make([]string, 0, len(set))
	for tok := range set {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	return tokens
}

func (r phraseRule) matches(words map[string]struct{}) bool {
	for _, group := range r.anyOf {
		hit := false
		for _, w := range group {
			if _, ok := words[w]; ok {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// Union merges token sets, deduplicates and sorts.
func Union(sets ...[]string) []string {
	merged := map[string]struct{}{}
	for _, set := range sets {
		for _, tok := range set {
			merged[tok] = struct{}{}
		}
	}
	out := make([]string, 0, len(merged))
	for tok := range merged {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}
