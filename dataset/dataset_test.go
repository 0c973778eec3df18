package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"tariffdesk-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(code string) models.TariffRecord {
	return models.TariffRecord{
		Code:   code,
		Slug:   models.SlugFromCode(code),
		NameEn: "record " + code,
	}
}

func testStore(t *testing.T, codes ...string) *Store {
	t.Helper()
	records := make([]models.TariffRecord, len(codes))
	for i, code := range codes {
		records[i] = testRecord(code)
	}
	store, err := NewStore(KindVietnamHS, records)
	require.NoError(t, err)
	return store
}

func TestNewStore_RejectsDuplicateSlugs(t *testing.T) {
	_, err := NewStore(KindVietnamHS, []models.TariffRecord{
		testRecord("0101.21.00"),
		testRecord("01012100"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate slug")
}

func TestBySlug_ExactMatch(t *testing.T) {
	store := testStore(t, "0101.21.00", "0101.29.00")

	rec, ok := store.BySlug("01012100")
	require.True(t, ok)
	assert.Equal(t, "0101.21.00", rec.Code)

	_, ok = store.BySlug("99999999")
	assert.False(t, ok)
}

func TestBySlug_EightDigitFallsBackToLongerCode(t *testing.T) {
	store := testStore(t, "0101.21.00.10", "0101.21.00.20")

	// An 8-digit HS code resolves to the first 10-digit US subheading under it.
	rec, ok := store.BySlug("01012100")
	require.True(t, ok)
	assert.Equal(t, "0101210010", rec.Slug)
}

func TestByPrefix_Limit(t *testing.T) {
	store := testStore(t, "4011.10.00", "4011.20.10", "4011.50.00", "4012.11.00")

	assert.Len(t, store.ByPrefix("4011", 2), 2)
	assert.Len(t, store.ByPrefix("4011", 0), 3)
	assert.Len(t, store.ByPrefix("40", -1), 4)
	assert.Empty(t, store.ByPrefix("99", 0))
}

func TestRelatedByChapter_ExcludesSelf(t *testing.T) {
	store := testStore(t, "4011.10.00", "4011.20.10", "4012.11.00")

	related := store.RelatedByChapter("40111000", 10)
	require.Len(t, related, 2)
	for _, rec := range related {
		assert.NotEqual(t, "40111000", rec.Slug)
	}
}

func TestChapters_SortedDistinct(t *testing.T) {
	store := testStore(t, "4011.10.00", "0301.11.00", "4012.11.00", "8517.13.00")

	assert.Equal(t, []string{"03", "40", "85"}, store.Chapters())
}

func TestLoadVietnamHS_ParsesArrayJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hscode.json")
	payload := `[
		{"hs_code":"0101.21.00","slug":"01012100","name_vi":"Ngựa thuần chủng","name_en":"Pure-bred horses","unit":"con","vat":"5","taxes":{"nk_tt":"7.5","form_e":"0"}},
		{"hs_code":"","slug":"not-a-code","name_en":"garbage row"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0644))

	store, err := LoadVietnamHS(path)
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	rec, ok := store.BySlug("01012100")
	require.True(t, ok)
	assert.Equal(t, "Pure-bred horses", rec.NameEn)
	assert.Equal(t, "con", rec.Unit)
	assert.Equal(t, "5", rec.Rates["vat"])
	assert.Equal(t, "7.5", rec.Rates["nk_tt"])
}

func TestLoadVietnamHS_ParsesLineDelimitedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hscode.jsonl")
	payload := `{"hs_code":"0101.21.00","slug":"01012100","name_en":"Pure-bred horses"}
{"hs_code":"0101.29.00","slug":"01012900","name_en":"Other horses"}
`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0644))

	store, err := LoadVietnamHS(path)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())
}

func TestLoadUsHTS_RatesAndDisplayCode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "us-hts.json")
	payload := `[
		{"slug":"0101210010","display_code":"0101.21.00.10","description":"Males","units":["no."],"rates":{"mfn":"Free","china_301":true}},
		{"slug":"0101210020","description":"Females","rates":{"mfn":"Free"}}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0644))

	store, err := LoadUsHTS(path)
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	rec, ok := store.BySlug("0101210010")
	require.True(t, ok)
	assert.Equal(t, "0101.21.00.10", rec.Code)
	assert.Equal(t, "no.", rec.Unit)
	assert.Equal(t, "Free", rec.Rates["mfn"])
	assert.Equal(t, "true", rec.Rates["china_301"])

	// Missing display codes are derived from the slug.
	rec, ok = store.BySlug("0101210020")
	require.True(t, ok)
	assert.Equal(t, "0101.21.00.20", rec.Code)
	_, has301 := rec.Rates["china_301"]
	assert.False(t, has301)
}

func TestLoadVietnamHS_MissingFile(t *testing.T) {
	_, err := LoadVietnamHS(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
