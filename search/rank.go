package search

import (
	"sort"
	"strings"

	"tariffdesk-backend/models"
)

// tire post-filter headings; wheel/caster terms widen the set.
var (
	tireHeadings     = map[string]struct{}{"4011": {}, "4012": {}}
	tireWideHeadings = map[string]struct{}{"4011": {}, "4012": {}, "8302": {}, "8708": {}, "8716": {}}
)

// Rank orders the candidate pool by estimated relevance:
// one point per query token literally present in the description, +2 when
// the record's chapter is a top chapter, +3 when its heading is a top
// heading, +0.1 per slug digit up to eight. The sort is stable so ties keep
// insertion (stage-priority) order. The code-length bonus deliberately
// prefers more specific codes when all else is equal.
func Rank(c *Candidates) []models.TariffRecord {
	chapters := make(map[string]struct{}, len(c.TopChapters))
	for _, ch := range c.TopChapters {
		chapters[ch] = struct{}{}
	}
	headings := make(map[string]struct{}, len(c.TopHeadings))
	for _, hd := range c.TopHeadings {
		headings[hd] = struct{}{}
	}

	type scored struct {
		rec   models.TariffRecord
		score float64
	}
	all := make([]scored, len(c.Pool))
	for i, rec := range c.Pool {
		desc := strings.ToLower(foldDiacritics(rec.Description()))
		score := 0.0
		for _, t := range c.RawTokens {
			if strings.Contains(desc, t) {
				score++
			}
		}
		if _, ok := chapters[rec.Chapter()]; ok {
			score += 2
		}
		if _, ok := headings[rec.Heading()]; ok {
			score += 3
		}
		codeLen := len(rec.Slug)
		if codeLen > 8 {
			codeLen = 8
		}
		score += 0.1 * float64(codeLen)
		all[i] = scored{rec: rec, score: score}
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })

	out := make([]models.TariffRecord, len(all))
	for i, s := range all {
		out[i] = s.rec
	}
	return out
}

// keepWhere filters records by pred but returns the input unchanged when the
// filter would empty it. Every post-filter narrows, never erases.
func keepWhere(records []models.TariffRecord, pred func(*models.TariffRecord) bool) []models.TariffRecord {
	var kept []models.TariffRecord
	for i := range records {
		if pred(&records[i]) {
			kept = append(kept, records[i])
		}
	}
	if len(kept) == 0 {
		return records
	}
	return kept
}

// PostFilter narrows the ranked list with the domain filters, in order:
// live-fish queries pin chapter 03, tire queries pin the tire headings
// (widened to wheel/caster headings when those terms appear), then any
// AI-classified 4-digit headings, then the material prefixes. A filter that
// would produce zero results is skipped.
func PostFilter(ranked []models.TariffRecord, c *Candidates, aiHeadings []string) []models.TariffRecord {
	out := ranked

	if IsFishQuery(c.Query) {
		out = keepWhere(out, func(r *models.TariffRecord) bool { return r.Chapter() == "03" })
	}

	if IsTireQuery(c.Query) {
		allowed := tireHeadings
		if mentionsWheels(c.Query) {
			allowed = tireWideHeadings
		}
		out = keepWhere(out, func(r *models.TariffRecord) bool {
			_, ok := allowed[r.Heading()]
			return ok
		})
	}

	if len(aiHeadings) > 0 {
		set := make(map[string]struct{}, len(aiHeadings))
		for _, hd := range aiHeadings {
			if len(hd) == 4 {
				set[hd] = struct{}{}
			}
		}
		if len(set) > 0 {
			out = keepWhere(out, func(r *models.TariffRecord) bool {
				_, ok := set[r.Heading()]
				return ok
			})
		}
	}

	if len(c.MaterialPrefixes) > 0 {
		out = keepWhere(out, func(r *models.TariffRecord) bool {
			for _, p := range c.MaterialPrefixes {
				if strings.HasPrefix(r.Slug, p) {
					return true
				}
			}
			return false
		})
	}

	return out
}
