package search

import (
	"math"
	"sort"

	"tariffdesk-backend/dataset"
)

// Index is the lexical representation of one dataset: per-record term
// frequencies, smoothed inverse document frequencies, and token-set unions
// per 2-digit chapter and 4-digit heading. It is built once at startup and
// never mutated, so concurrent readers need no locking.
type Index struct {
	store         *dataset.Store
	tf            []map[string]int
	idf           map[string]float64
	chapterTokens map[string]map[string]struct{}
	headingTokens map[string]map[string]struct{}
}

// NewIndex builds the lexical index over a dataset.
func NewIndex(store *dataset.Store) *Index {
	records := store.All()
	idx := &Index{
		store:         store,
		tf:            make([]map[string]int, len(records)),
		idf:           make(map[string]float64),
		chapterTokens: make(map[string]map[string]struct{}),
		headingTokens: make(map[string]map[string]struct{}),
	}

	df := make(map[string]int)
	for i := range records {
		rec := &records[i]
		tokens := Tokenize(rec.Description())
		counts := make(map[string]int, len(tokens))
		for _, t := range tokens {
			counts[t]++
		}
		idx.tf[i] = counts
		for t := range counts {
			df[t]++
		}

		if ch := rec.Chapter(); ch != "" {
			idx.unionInto(idx.chapterTokens, ch, counts)
		}
		if hd := rec.Heading(); hd != "" {
			idx.unionInto(idx.headingTokens, hd, counts)
		}
	}

	n := float64(len(records))
	for t, d := range df {
		idx.idf[t] = math.Log((n+1)/(float64(d)+1)) + 1
	}
	return idx
}

func (x *Index) unionInto(sets map[string]map[string]struct{}, key string, counts map[string]int) {
	set, ok := sets[key]
	if !ok {
		set = make(map[string]struct{})
		sets[key] = set
	}
	for t := range counts {
		set[t] = struct{}{}
	}
}

// IDF returns the smoothed inverse document frequency of a token. Unknown
// tokens get the maximum weight ln(N+1)+1; all weights are strictly positive.
func (x *Index) IDF(token string) float64 {
	if w, ok := x.idf[token]; ok {
		return w
	}
	return math.Log(float64(x.store.Len())+1) + 1
}

// scorePrefixes sums IDF weights of the query tokens present in each
// prefix's token set and returns the top n prefixes with positive score.
// Ties break on the prefix string so the result is deterministic.
func scorePrefixes(x *Index, sets map[string]map[string]struct{}, tokens []string, n int, allow func(string) bool) []string {
	type scored struct {
		prefix string
		score  float64
	}
	var all []scored
	for prefix, set := range sets {
		if allow != nil && !allow(prefix) {
			continue
		}
		score := 0.0
		for _, t := range tokens {
			if _, ok := set[t]; ok {
				score += x.IDF(t)
			}
		}
		if score > 0 {
			all = append(all, scored{prefix, score})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].prefix < all[j].prefix
	})
	if len(all) > n {
		all = all[:n]
	}
	out := make([]string, len(all))
	for i, s := range all {
		out[i] = s.prefix
	}
	return out
}

// TopChapters returns the n chapters whose token sets best cover the query
// tokens, weighted by IDF.
func (x *Index) TopChapters(tokens []string, n int) []string {
	return scorePrefixes(x, x.chapterTokens, tokens, n, nil)
}

// TopHeadings returns the n best-covering headings. When chapters is
// non-empty, only headings inside those chapters are considered.
func (x *Index) TopHeadings(tokens []string, chapters []string, n int) []string {
	var allow func(string) bool
	if len(chapters) > 0 {
		set := make(map[string]struct{}, len(chapters))
		for _, ch := range chapters {
			set[ch] = struct{}{}
		}
		allow = func(heading string) bool {
			_, ok := set[heading[:2]]
			return ok
		}
	}
	return scorePrefixes(x, x.headingTokens, tokens, n, allow)
}
