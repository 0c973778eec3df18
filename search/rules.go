package search

import "regexp"

// The rule tables encode classifier domain knowledge that lexical scoring
// cannot reliably produce. Two merge semantics coexist on purpose:
// preferred-code rules are first-match-wins, prefix rules union across all
// matches. Do not unify them.

type preferredRule struct {
	pattern *regexp.Regexp
	codes   []string
}

type prefixRule struct {
	pattern  *regexp.Regexp
	prefixes []string
}

// negationPattern suppresses every preferred-code rule: "not inflatable",
// "no costume", "without mascot" must not trigger the positive rules.
var negationPattern = regexp.MustCompile(`(?i)\b(?:not?|non|without|khong)\b[\s-]*(?:an?\s+)?\b(?:inflatable|costume|mascot|suit)s?\b`)

// preferredRules: ordered, first match wins.
var preferredRules = []preferredRule{
	{regexp.MustCompile(`(?i)\bfire\s*(?:truck|engine)s?\b|\bfirefighting\s+vehicles?\b|\bxe\s+cuu\s+hoa\b`), []string{"87053000"}},
	{regexp.MustCompile(`(?i)\b(?:tyre|tire)s?\b.*\b(?:passenger|car)s?\b|\b(?:passenger|car)s?\b.*\b(?:tyre|tire)s?\b`), []string{"40111000"}},
	{regexp.MustCompile(`(?i)\b(?:tyre|tire)s?\b.*\b(?:bus|truck|lorry|lorries)\b|\b(?:bus|truck|lorry|lorries)\b.*\b(?:tyre|tire)s?\b`), []string{"40112010"}},
	{regexp.MustCompile(`(?i)\b(?:tyre|tire)s?\b.*\b(?:bicycle|bike)s?\b|\b(?:bicycle|bike)s?\b.*\b(?:tyre|tire)s?\b`), []string{"40115000"}},
	{regexp.MustCompile(`(?i)\binflatable\s+(?:costume|mascot|suit)s?\b|\bmascot\s+(?:costume|suit)s?\b`), []string{"95059000"}},
	{regexp.MustCompile(`(?i)\bsmart\s*phones?\b|\bmobile\s+phones?\b|\bcell\s*phones?\b`), []string{"85171300"}},
}

// categoryRules: product-category prefixes, unioned across all matches.
var categoryRules = []prefixRule{
	{regexp.MustCompile(`(?i)\bcostumes?\b|\bmascots?\b|\bfancy\s+dress\b|\bgarments?\b|\bapparel\b|\bclothing\b`), []string{"61", "62", "9505"}},
	{regexp.MustCompile(`(?i)\bfire\s*(?:truck|engine)s?\b|\bfirefighting\b`), []string{"8705"}},
	{regexp.MustCompile(`(?i)\b(?:tyre|tire)s?\b`), []string{"4011", "4012"}},
	{regexp.MustCompile(`(?i)\blive\s*fish\b|\baquarium\b|\bornamental\s+fish\b|\bdiscus\b|\bca\s+canh\b`), []string{"0301"}},
	{regexp.MustCompile(`(?i)\bsmart\s*phones?\b|\bmobile\s+phones?\b|\btelephones?\b`), []string{"8517"}},
	{regexp.MustCompile(`(?i)\bshoes?\b|\bfootwear\b|\bsandals?\b|\bboots?\b`), []string{"64"}},
	{regexp.MustCompile(`(?i)\bcoffee\b|\bca\s+phe\b`), []string{"0901", "2101"}},
	{regexp.MustCompile(`(?i)\blaptops?\b|\bnotebook\s+computers?\b|\bcomputers?\b`), []string{"8471"}},
}

// materialRules: raw-material prefixes, unioned across all matches. Overlaps
// with categoryRules (rubber appears in both worlds) are intentional
// layering: category narrows by product, material by commodity class.
var materialRules = []prefixRule{
	{regexp.MustCompile(`(?i)\brubber\b|\bcao\s+su\b`), []string{"40"}},
	{regexp.MustCompile(`(?i)\bplastics?\b|\bpolymers?\b|\bnhua\b`), []string{"39"}},
	{regexp.MustCompile(`(?i)\btextiles?\b|\bfabrics?\b|\bwoven\b|\bknitted\b|\bvai\b`), []string{"52", "54", "55", "60", "61", "62", "63"}},
	{regexp.MustCompile(`(?i)\bsteel\b|\biron\b|\bsat\b|\bthep\b`), []string{"72", "73"}},
	{regexp.MustCompile(`(?i)\balumini?um\b|\bnhom\b`), []string{"76"}},
	{regexp.MustCompile(`(?i)\bcopper\b|\bbrass\b`), []string{"74"}},
	{regexp.MustCompile(`(?i)\bwood(?:en)?\b|\bgo\b`), []string{"44"}},
	{regexp.MustCompile(`(?i)\bglass\b|\bthuy\s+tinh\b`), []string{"70"}},
	{regexp.MustCompile(`(?i)\bleather\b|\bda\s+thuoc\b`), []string{"42"}},
	{regexp.MustCompile(`(?i)\bpaper\b|\bcardboard\b|\bgiay\b`), []string{"48"}},
	{regexp.MustCompile(`(?i)\bceramics?\b|\bporcelain\b|\bgom\b|\bsu\b`), []string{"69"}},
}

var (
	tireQueryPattern  = regexp.MustCompile(`(?i)tire|tyre`)
	fishQueryPattern  = regexp.MustCompile(`(?i)\bfish\b|\blive\s*fish\b|\baquarium\b|\bdiscus\b|\bca\s+canh\b`)
	wheelQueryPattern = regexp.MustCompile(`(?i)\bwheels?\b|\bcasters?\b|\bcastors?\b`)
)

// RulePreferred returns the codes of the first preferred-code rule matching
// the query, or nil. Any negation match disables the whole table.
func RulePreferred(query string) []string {
	if negationPattern.MatchString(query) {
		return nil
	}
	folded := foldDiacritics(query)
	for _, rule := range preferredRules {
		if rule.pattern.MatchString(folded) {
			return rule.codes
		}
	}
	return nil
}

func unionPrefixes(rules []prefixRule, query string) []string {
	folded := foldDiacritics(query)
	seen := make(map[string]struct{})
	var out []string
	for _, rule := range rules {
		if !rule.pattern.MatchString(folded) {
			continue
		}
		for _, p := range rule.prefixes {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// CategoryPrefixes returns the union of all matching category rules' prefixes.
func CategoryPrefixes(query string) []string {
	return unionPrefixes(categoryRules, query)
}

// MaterialPrefixes returns the union of all matching material rules' prefixes.
func MaterialPrefixes(query string) []string {
	return unionPrefixes(materialRules, query)
}

// IsTireQuery reports whether the query is tire-related.
func IsTireQuery(query string) bool { return tireQueryPattern.MatchString(query) }

// IsFishQuery reports whether the query is about live/aquarium fish.
func IsFishQuery(query string) bool { return fishQueryPattern.MatchString(foldDiacritics(query)) }

// mentionsWheels reports wheel/caster terms, used to widen the tire
// post-filter to adjacent headings.
func mentionsWheels(query string) bool { return wheelQueryPattern.MatchString(query) }
