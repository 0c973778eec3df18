package dataset

import (
	"fmt"
	"sort"
	"strings"

	"tariffdesk-backend/models"
)

// CasRegistry is the in-memory CAS number dataset. Like Store it is built
// once and read-only afterwards.
type CasRegistry struct {
	records []models.CasRecord
}

// LoadCasRegistry reads the CAS dataset from path.
func LoadCasRegistry(path string) (*CasRegistry, error) {
	var records []models.CasRecord
	if err := readJSONRecords(path, &records); err != nil {
		return nil, fmt.Errorf("failed to load CAS dataset: %w", err)
	}
	return &CasRegistry{records: records}, nil
}

// NewCasRegistry builds a registry from in-memory records.
func NewCasRegistry(records []models.CasRecord) *CasRegistry {
	return &CasRegistry{records: records}
}

// Len returns the number of entries.
func (c *CasRegistry) Len() int { return len(c.records) }

func normalizeCasText(value string) string {
	value = strings.ToLower(value)
	value = strings.NewReplacer("–", "-", "—", "-").Replace(value)
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

type casMatch struct {
	record    models.CasRecord
	hits      int
	ratio     float64
	fullMatch bool
}

// Match scores the registry against a free-text query. An entry qualifies
// when the normalized query appears whole in its names, or when at least
// min(3, tokens) query tokens hit with a 60% hit ratio. Full matches sort
// first, then hit count, then ratio. At most five entries are returned.
func (c *CasRegistry) Match(query string) []models.CasRecord {
	q := normalizeCasText(query)
	if q == "" {
		return nil
	}
	tokens := strings.Fields(q)
	minHits := len(tokens)
	if minHits > 3 {
		minHits = 3
	}

	var matches []casMatch
	for _, rec := range c.records {
		name := normalizeCasText(rec.NameVi + " " + rec.NameEn)
		hits := 0
		for _, token := range tokens {
			if strings.Contains(name, token) {
				hits++
			}
		}
		ratio := 0.0
		if len(tokens) > 0 {
			ratio = float64(hits) / float64(len(tokens))
		}
		full := strings.Contains(name, q)
		if full || (hits >= minHits && ratio >= 0.6) {
			matches = append(matches, casMatch{record: rec, hits: hits, ratio: ratio, fullMatch: full})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].fullMatch != matches[j].fullMatch {
			return matches[i].fullMatch
		}
		if matches[i].hits != matches[j].hits {
			return matches[i].hits > matches[j].hits
		}
		return matches[i].ratio > matches[j].ratio
	})

	out := make([]models.CasRecord, 0, 5)
	for _, m := range matches {
		out = append(out, m.record)
		if len(out) == 5 {
			break
		}
	}
	return out
}
