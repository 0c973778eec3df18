package search

import (
	"regexp"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"tariffdesk-backend/dataset"
	"tariffdesk-backend/models"
)

const (
	poolCap     = 60
	categoryCap = 80
	chapterCap  = 120
	headingCap  = 120
	tireCap     = 60
	fuzzyCap    = 40

	topChapterCount = 3
	topHeadingCount = 4
)

// Pipeline ties a dataset to its lexical index and produces candidate pools
// for free-text queries. Stateless per request; safe for concurrent use.
type Pipeline struct {
	store *dataset.Store
	index *Index
}

// NewPipeline builds a matching pipeline over an indexed dataset.
func NewPipeline(store *dataset.Store, index *Index) *Pipeline {
	return &Pipeline{store: store, index: index}
}

// Store exposes the underlying dataset.
func (p *Pipeline) Store() *dataset.Store { return p.store }

// Candidates is the bounded, deduplicated pool of plausible records for one
// query, plus the intermediate signals the re-ranker and post-filters use.
type Candidates struct {
	Query            string
	RawTokens        []string
	Tokens           []string // raw tokens widened with synonyms
	TopChapters      []string
	TopHeadings      []string
	CategoryPrefixes []string
	MaterialPrefixes []string
	Pool             []models.TariffRecord
}

type pool struct {
	seen    map[string]struct{}
	records []models.TariffRecord
}

func newPool() *pool {
	return &pool{seen: make(map[string]struct{})}
}

// add inserts a record unless its slug was already seen. Stage ordering
// establishes priority: first-seen wins.
func (p *pool) add(rec models.TariffRecord) bool {
	if _, ok := p.seen[rec.Slug]; ok {
		return false
	}
	p.seen[rec.Slug] = struct{}{}
	p.records = append(p.records, rec)
	return true
}

var wholeDigitsQuery = regexp.MustCompile(`^\d{2,6}$`)

// Generate runs the staged candidate generator. The result is deterministic:
// the same dataset and query always yield the same ordered pool.
func (p *Pipeline) Generate(query string) *Candidates {
	raw := Tokenize(query)
	tokens := ExpandTokens(raw)

	c := &Candidates{
		Query:            query,
		RawTokens:        raw,
		Tokens:           tokens,
		CategoryPrefixes: CategoryPrefixes(query),
		MaterialPrefixes: MaterialPrefixes(query),
	}
	c.TopChapters = p.index.TopChapters(tokens, topChapterCount)
	c.TopHeadings = p.index.TopHeadings(tokens, c.TopChapters, topHeadingCount)

	pl := newPool()

	// Digits-only queries are direct chapter/heading prefix lookups.
	if q := strings.TrimSpace(query); wholeDigitsQuery.MatchString(q) {
		for _, rec := range p.store.ByPrefix(q, poolCap) {
			pl.add(rec)
		}
	}

	// Stage 1: category-prefix rules, when any fired.
	if len(c.CategoryPrefixes) > 0 {
		added := 0
		for _, prefix := range c.CategoryPrefixes {
			for _, rec := range p.store.ByPrefix(prefix, 0) {
				if pl.add(rec) {
					added++
				}
				if added >= categoryCap {
					break
				}
			}
			if added >= categoryCap {
				break
			}
		}
	} else {
		// Stage 2: lexically best chapters.
		added := 0
		for _, ch := range c.TopChapters {
			for _, rec := range p.store.ByChapter(ch, 0) {
				if pl.add(rec) {
					added++
				}
				if added >= chapterCap {
					break
				}
			}
			if added >= chapterCap {
				break
			}
		}
	}

	// Stage 3: lexically best headings within the top chapters.
	added := 0
	for _, hd := range c.TopHeadings {
		for _, rec := range p.store.ByPrefix(hd, 0) {
			if pl.add(rec) {
				added++
			}
			if added >= headingCap {
				break
			}
		}
		if added >= headingCap {
			break
		}
	}

	// Stage 4: tire queries force the rubber-tire headings in.
	if IsTireQuery(query) {
		added := 0
		for _, rec := range p.store.All() {
			hd := rec.Heading()
			desc := strings.ToLower(rec.Description())
			if hd != "4011" && hd != "4012" && !strings.Contains(desc, "tyre") && !strings.Contains(desc, "tire") {
				continue
			}
			if pl.add(rec) {
				added++
			}
			if added >= tireCap {
				break
			}
		}
	}

	// Stage 5: fuzzy search over code and descriptions, per synonym variant.
	for _, variant := range QueryVariants(query) {
		for _, rec := range p.fuzzyHits(variant, fuzzyCap) {
			pl.add(rec)
		}
	}

	// Stage 6: last resort for tire queries.
	if len(pl.records) == 0 && IsTireQuery(query) {
		for _, rec := range p.store.All() {
			desc := strings.ToLower(rec.Description())
			if strings.Contains(desc, "tire") || strings.Contains(desc, "tyre") {
				pl.add(rec)
			}
		}
	}

	if len(pl.records) > poolCap {
		pl.records = pl.records[:poolCap]
	}
	c.Pool = pl.records
	return c
}

// closeness scores one query token against a record: 3 for a digit token
// matching the slug prefix, 2 for a literal substring of the description,
// 1 for a word within edit distance of a description token. One threshold
// policy everywhere: distance 1 for short words, 2 from five letters up.
func closeness(token string, rec *models.TariffRecord, recTokens map[string]int, descLower string) int {
	if len(token) >= 2 && token[0] >= '0' && token[0] <= '9' && strings.HasPrefix(rec.Slug, token) {
		return 3
	}
	if strings.Contains(descLower, token) {
		return 2
	}
	maxDist := 1
	if len(token) >= 5 {
		maxDist = 2
	}
	for w := range recTokens {
		if abs(len(w)-len(token)) > maxDist {
			continue
		}
		if fuzzy.LevenshteinDistance(token, w) <= maxDist {
			return 1
		}
	}
	return 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// fuzzyHits ranks every record against the variant's tokens and returns the
// top limit hits with at least one token match.
func (p *Pipeline) fuzzyHits(variant string, limit int) []models.TariffRecord {
	tokens := Tokenize(variant)
	if len(tokens) == 0 {
		return nil
	}

	type hit struct {
		idx   int
		score int
	}
	records := p.store.All()
	var hits []hit
	for i := range records {
		rec := &records[i]
		descLower := strings.ToLower(foldDiacritics(rec.Description()))
		score := 0
		for _, t := range tokens {
			score += closeness(t, rec, p.index.tf[i], descLower)
		}
		if score > 0 {
			hits = append(hits, hit{idx: i, score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]models.TariffRecord, len(hits))
	for i, h := range hits {
		out[i] = records[h.idx]
	}
	return out
}
