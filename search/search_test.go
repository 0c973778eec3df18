package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuickSearch_HeadingDigitsSynthesizeHeadingRow(t *testing.T) {
	p := fixturePipeline(t)

	results := p.QuickSearch("0901")
	require.NotEmpty(t, results)
	assert.Equal(t, "0901", results[0].Slug)
	assert.Equal(t, "09.01", results[0].DisplayCode)
	assert.Equal(t, "Heading — view all subheadings", results[0].Description)
}

func TestQuickSearch_UnknownHeadingDigitsGetNoRow(t *testing.T) {
	p := fixturePipeline(t)

	for _, r := range p.QuickSearch("9999") {
		assert.NotEqual(t, "9999", r.Slug)
	}
}

func TestQuickSearch_WholeWordBeatsSubstring(t *testing.T) {
	p := fixturePipeline(t)

	results := p.QuickSearch("tea")
	require.NotEmpty(t, results)

	teaPos, teakPos := -1, -1
	for i, r := range results {
		switch r.Slug {
		case "09021000":
			teaPos = i
		case "44072960":
			teakPos = i
		}
	}
	// "tea" matches green tea on a word boundary; "Teak" only as a substring
	// via the fuzzy stage.
	require.NotEqual(t, -1, teaPos)
	require.NotEqual(t, -1, teakPos)
	assert.Less(t, teaPos, teakPos)
}

func TestQuickSearch_LiveFishBoostsOrnamentalHeading(t *testing.T) {
	p := fixturePipeline(t)

	results := p.QuickSearch("live fish")
	require.GreaterOrEqual(t, len(results), 2)
	assert.Equal(t, "03011100", results[0].Slug)
	assert.Equal(t, "03011900", results[1].Slug)
}

func TestQuickSearch_EmptyAndLongQueries(t *testing.T) {
	p := fixturePipeline(t)

	assert.Nil(t, p.QuickSearch(""))
	assert.Nil(t, p.QuickSearch("   "))

	// Over-long queries are truncated, not rejected.
	long := strings.Repeat("tyres ", 40)
	assert.NotPanics(t, func() { p.QuickSearch(long) })
}

func TestQuickSearch_LimitAndNoDuplicates(t *testing.T) {
	p := fixturePipeline(t)

	results := p.QuickSearch("new rubber wood fish coffee tea phone costume")
	assert.LessOrEqual(t, len(results), quickSearchLimit)

	seen := make(map[string]bool)
	for _, r := range results {
		assert.False(t, seen[r.Slug], "duplicate slug %s", r.Slug)
		seen[r.Slug] = true
	}
}

func TestQuickSearch_FoldedVietnameseQuery(t *testing.T) {
	p := fixturePipeline(t)

	results := p.QuickSearch("cà phê")
	require.NotEmpty(t, results)

	found := false
	for _, r := range results {
		if r.Slug == "09011100" {
			found = true
		}
	}
	assert.True(t, found, "coffee record should surface for a diacritic query")
}
