package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRulePreferred_FirstMatchWins(t *testing.T) {
	// Both the fire-truck rule and a tire rule could fire; the table order
	// decides.
	assert.Equal(t, []string{"87053000"}, RulePreferred("fire truck tire"))
	assert.Equal(t, []string{"40111000"}, RulePreferred("tire for passenger car"))
	assert.Equal(t, []string{"40112010"}, RulePreferred("lorry tyre"))
	assert.Equal(t, []string{"40115000"}, RulePreferred("bicycle tyres"))
	assert.Equal(t, []string{"95059000"}, RulePreferred("inflatable costume"))
	assert.Equal(t, []string{"85171300"}, RulePreferred("smartphone"))
}

func TestRulePreferred_NegationDisablesTable(t *testing.T) {
	assert.Nil(t, RulePreferred("not an inflatable costume"))
	assert.Nil(t, RulePreferred("without mascot suit"))
	assert.Nil(t, RulePreferred("non inflatable costume"))
	// Negation applies even when a different rule would match.
	assert.Nil(t, RulePreferred("fire truck, not a costume"))
}

func TestRulePreferred_NoMatch(t *testing.T) {
	assert.Nil(t, RulePreferred("green tea"))
}

func TestRulePreferred_FoldsDiacritics(t *testing.T) {
	assert.Equal(t, []string{"87053000"}, RulePreferred("xe cứu hỏa"))
}

func TestCategoryPrefixes_Union(t *testing.T) {
	prefixes := CategoryPrefixes("rubber tire costume")
	// Unlike the preferred table, every matching category rule contributes.
	assert.Contains(t, prefixes, "4011")
	assert.Contains(t, prefixes, "4012")
	assert.Contains(t, prefixes, "61")
	assert.Contains(t, prefixes, "62")
	assert.Contains(t, prefixes, "9505")
}

func TestCategoryPrefixes_NoMatch(t *testing.T) {
	assert.Empty(t, CategoryPrefixes("miscellaneous widgets"))
}

func TestMaterialPrefixes(t *testing.T) {
	assert.Equal(t, []string{"40"}, MaterialPrefixes("rubber gasket"))

	prefixes := MaterialPrefixes("steel and glass furniture")
	assert.Contains(t, prefixes, "72")
	assert.Contains(t, prefixes, "73")
	assert.Contains(t, prefixes, "70")
}

func TestTireAndFishPredicates(t *testing.T) {
	assert.True(t, IsTireQuery("new tyres"))
	assert.True(t, IsTireQuery("TIRE"))
	assert.False(t, IsTireQuery("wooden chair"))

	assert.True(t, IsFishQuery("live fish"))
	assert.True(t, IsFishQuery("aquarium discus"))
	assert.True(t, IsFishQuery("cá cảnh"))
	assert.False(t, IsFishQuery("fishing rod")) // "fish" must stand alone

	assert.True(t, mentionsWheels("tires and wheels"))
	assert.True(t, mentionsWheels("caster tyre"))
	assert.False(t, mentionsWheels("car tire"))
}
