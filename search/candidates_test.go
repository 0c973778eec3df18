package search

import (
	"testing"

	"tariffdesk-backend/dataset"
	"tariffdesk-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(code, nameEn, nameVi string) models.TariffRecord {
	return models.TariffRecord{
		Code:   code,
		Slug:   models.SlugFromCode(code),
		NameEn: nameEn,
		NameVi: nameVi,
	}
}

func fixtureStore(t *testing.T) *dataset.Store {
	t.Helper()
	store, err := dataset.NewStore(dataset.KindVietnamHS, []models.TariffRecord{
		rec("0301.11.00", "Live ornamental fish, freshwater", "Cá cảnh nước ngọt"),
		rec("0301.19.00", "Live ornamental fish, other", "Cá cảnh khác"),
		rec("0302.11.00", "Trout, fresh or chilled", "Cá hồi tươi"),
		rec("0901.11.00", "Coffee, not roasted, not decaffeinated", "Cà phê chưa rang"),
		rec("0902.10.00", "Green tea, not fermented", "Chè xanh"),
		rec("4011.10.00", "New pneumatic tyres, of rubber, used on motor cars", "Lốp mới bằng cao su dùng cho ô tô con"),
		rec("4011.20.10", "New pneumatic tyres, of rubber, used on buses or lorries", "Lốp mới dùng cho ô tô buýt hoặc ô tô tải"),
		rec("4011.50.00", "New pneumatic tyres, of rubber, used on bicycles", "Lốp mới dùng cho xe đạp"),
		rec("4012.11.00", "Retreaded tyres, used on motor cars", "Lốp đắp lại dùng cho ô tô con"),
		rec("4407.29.60", "Teak wood, sawn lengthwise", "Gỗ tếch xẻ dọc"),
		rec("8517.13.00", "Smartphones", "Điện thoại thông minh"),
		rec("8705.30.00", "Fire fighting vehicles", "Xe cứu hỏa"),
		rec("8708.70.00", "Road wheels and parts thereof", "Bánh xe và phụ tùng"),
		rec("9505.90.00", "Carnival or other entertainment articles, costumes", "Đồ dùng lễ hội, trang phục hóa trang"),
	})
	require.NoError(t, err)
	return store
}

func fixturePipeline(t *testing.T) *Pipeline {
	t.Helper()
	store := fixtureStore(t)
	return NewPipeline(store, NewIndex(store))
}

func poolSlugs(c *Candidates) []string {
	out := make([]string, len(c.Pool))
	for i, r := range c.Pool {
		out[i] = r.Slug
	}
	return out
}

func TestGenerate_DigitsQueryReturnsPrefixMatches(t *testing.T) {
	p := fixturePipeline(t)

	c := p.Generate("4011")
	require.NotEmpty(t, c.Pool)
	for _, slug := range poolSlugs(c)[:3] {
		assert.True(t, len(slug) >= 4 && slug[:4] == "4011", "slug %s should be under 4011", slug)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	p := fixturePipeline(t)

	first := p.Generate("truck tire")
	second := p.Generate("truck tire")
	assert.Equal(t, poolSlugs(first), poolSlugs(second))
	assert.Equal(t, first.TopChapters, second.TopChapters)
	assert.Equal(t, first.TopHeadings, second.TopHeadings)
}

func TestGenerate_TireQueryIncludesTireHeadings(t *testing.T) {
	p := fixturePipeline(t)

	c := p.Generate("truck tire")
	slugs := poolSlugs(c)
	assert.Contains(t, slugs, "40112010")
	assert.Contains(t, slugs, "40111000")
}

func TestGenerate_CategoryRuleSeedsPool(t *testing.T) {
	p := fixturePipeline(t)

	c := p.Generate("mascot costume")
	require.Contains(t, c.CategoryPrefixes, "9505")
	assert.Contains(t, poolSlugs(c), "95059000")
}

func TestGenerate_PoolCapAndNoDuplicates(t *testing.T) {
	p := fixturePipeline(t)

	c := p.Generate("tyres of rubber for cars lorries bicycles")
	assert.LessOrEqual(t, len(c.Pool), poolCap)

	seen := make(map[string]bool)
	for _, slug := range poolSlugs(c) {
		assert.False(t, seen[slug], "duplicate slug %s in pool", slug)
		seen[slug] = true
	}
}

func TestGenerate_SynonymVariantFindsOtherSpelling(t *testing.T) {
	p := fixturePipeline(t)

	// Dataset descriptions only say "tyres"; the tire->tyre variant and the
	// edit-distance match must still surface them.
	c := p.Generate("car tire")
	assert.Contains(t, poolSlugs(c), "40111000")
}

func TestGenerate_EmptyQuery(t *testing.T) {
	p := fixturePipeline(t)

	c := p.Generate("")
	assert.Empty(t, c.Pool)
	assert.Empty(t, c.RawTokens)
}

func TestCloseness_DigitPrefixBeatsSubstring(t *testing.T) {
	r := rec("4011.10.00", "New pneumatic tyres", "")
	tf := map[string]int{"new": 1, "pneumatic": 1, "tyres": 1}

	assert.Equal(t, 3, closeness("4011", &r, tf, "new pneumatic tyres"))
	assert.Equal(t, 2, closeness("tyres", &r, tf, "new pneumatic tyres"))
	// One edit away from "tyres".
	assert.Equal(t, 1, closeness("tyre", &r, tf, "xxx"))
	assert.Equal(t, 0, closeness("coffee", &r, tf, "new pneumatic tyres"))
}
