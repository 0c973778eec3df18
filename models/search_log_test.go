package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestionList_ValueAndScan(t *testing.T) {
	list := SuggestionList{
		{Code: "09011100", NameEn: "Coffee", NameVi: "Cà phê", Reason: "Matched by similarity"},
	}

	value, err := list.Value()
	require.NoError(t, err)

	var scanned SuggestionList
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, list, scanned)
}

func TestSuggestionList_ScanString(t *testing.T) {
	var list SuggestionList
	require.NoError(t, list.Scan(`[{"hs_code":"40111000","name_en":"Tyres","name_vi":"","reason":"x"}]`))
	require.Len(t, list, 1)
	assert.Equal(t, "40111000", list[0].Code)
}

func TestSuggestionList_ScanNilAndEmpty(t *testing.T) {
	var list SuggestionList
	require.NoError(t, list.Scan(nil))
	assert.NotNil(t, list)
	assert.Empty(t, list)

	require.NoError(t, list.Scan([]byte{}))
	assert.Empty(t, list)
}
