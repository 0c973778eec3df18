// Package search implements the free-text tariff-code matching pipeline:
// a lexical TF-IDF index over the dataset descriptions, hand-authored rule
// tables, a staged candidate generator, and a re-ranking pass.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stopWords are function words dropped during tokenization. Vietnamese
// entries are listed in their diacritic-folded form since folding runs
// before the filter.
var stopWords = map[string]struct{}{
	// English
	"the": {}, "a": {}, "an": {}, "of": {}, "and": {}, "or": {}, "for": {},
	"with": {}, "in": {}, "on": {}, "to": {}, "at": {}, "by": {}, "as": {},
	"is": {}, "are": {}, "not": {}, "other": {}, "whether": {}, "from": {},
	// Vietnamese (folded)
	"va": {}, "cac": {}, "cua": {}, "la": {}, "co": {}, "khong": {},
	"duoc": {}, "khac": {}, "loai": {}, "dang": {}, "bang": {}, "tu": {},
	"cho": {}, "den": {}, "hoac": {}, "dung": {},
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldDiacritics strips combining marks so Vietnamese text tokenizes to
// ASCII ("cao su" matches "cao sử" misspellings either way). The đ/Đ pair
// carries no combining mark and is mapped by hand.
func foldDiacritics(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.NewReplacer("đ", "d", "Đ", "D").Replace(folded)
}

// Tokenize normalizes free text to the token stream the index is built on:
// lowercase, diacritics folded, en/em dashes treated as hyphens, everything
// outside [a-z0-9 -] dropped, hyphens and runs of whitespace collapsed,
// tokens shorter than 2 characters and stop words removed.
func Tokenize(text string) []string {
	text = foldDiacritics(strings.ToLower(text))
	text = strings.NewReplacer("–", "-", "—", "-").Replace(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-', unicode.IsSpace(r):
			b.WriteByte(' ')
		default:
			b.WriteByte(' ')
		}
	}

	fields := strings.Fields(b.String())
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// tokenSet returns the distinct tokens of a text.
func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range Tokenize(text) {
		set[t] = struct{}{}
	}
	return set
}

// synonyms widens queries so one spelling does not miss records written
// with the other. The map is bidirectional: every listed word maps to its
// whole group.
var synonymGroups = [][]string{
	{"tire", "tyre"},
	{"truck", "lorry"},
	{"car", "passenger"},
	{"fire", "firefighting"},
	{"suit", "costume", "mascot"},
}

var synonyms = func() map[string][]string {
	m := make(map[string][]string)
	for _, group := range synonymGroups {
		for _, word := range group {
			for _, other := range group {
				if other != word {
					m[word] = append(m[word], other)
				}
			}
		}
	}
	return m
}()

// ExpandTokens appends each token's synonyms, keeping the original order
// and deduplicating.
func ExpandTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	add := func(t string) {
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	for _, t := range tokens {
		add(t)
		for _, syn := range synonyms[t] {
			add(syn)
		}
	}
	return out
}

// QueryVariants returns the query plus one rewrite per synonym substitution,
// used by the fuzzy stage so "lorry tyre" also searches as "truck tire".
func QueryVariants(query string) []string {
	variants := []string{query}
	seen := map[string]struct{}{query: {}}
	words := strings.Fields(strings.ToLower(query))
	for i, w := range words {
		for _, syn := range synonyms[w] {
			sub := make([]string, len(words))
			copy(sub, words)
			sub[i] = syn
			v := strings.Join(sub, " ")
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			variants = append(variants, v)
		}
	}
	return variants
}
