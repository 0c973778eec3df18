package search

import (
	"regexp"
	"strings"

	"tariffdesk-backend/models"
)

const quickSearchLimit = 15

var quickStopWords = map[string]struct{}{
	"or": {}, "and": {}, "not": {}, "the": {}, "of": {}, "for": {}, "to": {},
	"in": {}, "on": {}, "at": {}, "whether": {}, "if": {}, "a": {}, "an": {},
}

// meaningfulWords keeps the query words worth a whole-word boundary boost,
// so "tea" boosts records containing the word "tea" but not "teak" or
// "stearic".
func meaningfulWords(q string) []string {
	q = foldDiacritics(strings.ToLower(q))
	var b strings.Builder
	for _, r := range q {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	var out []string
	for _, w := range strings.Fields(b.String()) {
		if len(w) < 2 {
			continue
		}
		if _, stop := quickStopWords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

var liveWordPattern = regexp.MustCompile(`(?i)\blive\b`)

// chapterBoostPrefixes returns prefixes whose records are merged ahead of
// fuzzy hits. Live-fish style queries pin heading 0301.
func chapterBoostPrefixes(q string) []string {
	if IsFishQuery(q) || liveWordPattern.MatchString(q) {
		return []string{"0301"}
	}
	return nil
}

var headingDigits = regexp.MustCompile(`^\d{4}$|^\d{6}$`)

// QuickSearch is the ranked free-text search behind GET /api/*-search.
// Result order: an exact heading row for bare 4/6-digit queries, chapter
// boost prefixes, whole-word description matches, then fuzzy hits.
func (p *Pipeline) QuickSearch(query string) []models.SearchResult {
	q := strings.TrimSpace(query)
	if len(q) > 100 {
		q = q[:100]
	}
	if q == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var results []models.SearchResult
	push := func(slug, displayCode, description string) bool {
		if _, ok := seen[slug]; ok {
			return len(results) < quickSearchLimit
		}
		seen[slug] = struct{}{}
		results = append(results, models.SearchResult{
			Slug:        slug,
			DisplayCode: displayCode,
			Description: description,
		})
		return len(results) < quickSearchLimit
	}

	// Bare heading/subheading digits: synthesize a heading row when any
	// record lives under it.
	if headingDigits.MatchString(q) {
		if len(p.store.ByPrefix(q, 1)) > 0 {
			push(q, models.DisplayCode(q), "Heading — view all subheadings")
		}
	}

	boosted := 0
	for _, prefix := range chapterBoostPrefixes(q) {
		for _, rec := range p.store.ByPrefix(prefix, 0) {
			if _, ok := seen[rec.Slug]; ok {
				continue
			}
			push(rec.Slug, rec.Code, rec.Description())
			boosted++
			if boosted >= 6 {
				break
			}
		}
		if boosted >= 6 {
			break
		}
	}

	if words := meaningfulWords(q); len(words) > 0 {
		patterns := make([]*regexp.Regexp, len(words))
		for i, w := range words {
			patterns[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`)
		}
		for _, rec := range p.store.All() {
			desc := foldDiacritics(rec.Description())
			matched := false
			for _, re := range patterns {
				if re.MatchString(desc) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
			if !push(rec.Slug, rec.Code, rec.Description()) {
				return results
			}
		}
	}

	for _, rec := range p.fuzzyHits(q, quickSearchLimit) {
		if !push(rec.Slug, rec.Code, rec.Description()) {
			break
		}
	}
	return results
}
