package dataset

import (
	"testing"

	"tariffdesk-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func casFixture() *CasRegistry {
	return NewCasRegistry([]models.CasRecord{
		{Cas: "64-17-5", NameEn: "Ethanol", NameVi: "Cồn etylic", HsCode: "2207.10.00", Formula: "C2H6O"},
		{Cas: "7732-18-5", NameEn: "Water", NameVi: "Nước", HsCode: "2853.90.00", Formula: "H2O"},
		{Cas: "67-64-1", NameEn: "Acetone", NameVi: "Axeton", HsCode: "2914.11.00", Formula: "C3H6O"},
		{Cas: "110-82-7", NameEn: "Cyclohexane", NameVi: "Xyclohexan", HsCode: "2902.11.00", Formula: "C6H12"},
	})
}

func TestCasMatch_FullNameMatchFirst(t *testing.T) {
	matches := casFixture().Match("ethanol")
	require.NotEmpty(t, matches)
	assert.Equal(t, "64-17-5", matches[0].Cas)
}

func TestCasMatch_VietnameseName(t *testing.T) {
	matches := casFixture().Match("axeton")
	require.NotEmpty(t, matches)
	assert.Equal(t, "67-64-1", matches[0].Cas)
}

func TestCasMatch_IgnoresPunctuationAndCase(t *testing.T) {
	matches := casFixture().Match("  ETHANOL!! ")
	require.NotEmpty(t, matches)
	assert.Equal(t, "64-17-5", matches[0].Cas)
}

func TestCasMatch_HitRatioThreshold(t *testing.T) {
	// One of four tokens hitting is below the 60% ratio, so nothing matches
	// unless the whole query appears in a name.
	assert.Empty(t, casFixture().Match("purple organic ethanol-like compound"))
}

func TestCasMatch_EmptyQuery(t *testing.T) {
	assert.Nil(t, casFixture().Match(""))
	assert.Nil(t, casFixture().Match("  ---  "))
}

func TestCasMatch_CapsAtFive(t *testing.T) {
	records := make([]models.CasRecord, 8)
	for i := range records {
		records[i] = models.CasRecord{Cas: string(rune('a' + i)), NameEn: "sodium chloride solution"}
	}
	matches := NewCasRegistry(records).Match("sodium chloride")
	assert.Len(t, matches, 5)
}
