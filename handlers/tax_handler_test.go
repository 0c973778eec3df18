package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taxRouter() *gin.Engine {
	h := NewTaxHandler()
	r := gin.New()
	r.POST("/api/tax/import", h.ComputeImport)
	r.POST("/api/tax/export", h.ComputeExport)
	return r
}

func TestTaxImport(t *testing.T) {
	body := `{"taxable_value":25000000,"import_rate":10,"excise_rate":5,"vat_rate":10}`
	w := postJSON(taxRouter(), "/api/tax/import", body)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ImportDuty float64 `json:"import_duty"`
			ExciseTax  float64 `json:"excise_tax"`
			Vat        float64 `json:"vat"`
			TotalTax   float64 `json:"total_tax"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.InDelta(t, 2_500_000, resp.Data.ImportDuty, 1e-6)
	assert.InDelta(t, 1_375_000, resp.Data.ExciseTax, 1e-6)
	assert.InDelta(t, 2_887_500, resp.Data.Vat, 1e-6)
	assert.InDelta(t, 6_762_500, resp.Data.TotalTax, 1e-6)
}

func TestTaxImport_MalformedBody(t *testing.T) {
	w := postJSON(taxRouter(), "/api/tax/import", `{"taxable_value":"abc"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestTaxExport(t *testing.T) {
	body := `{"taxable_value":8000000,"export_rate":2,"env_per_unit":500,"quantity":20}`
	w := postJSON(taxRouter(), "/api/tax/export", body)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			ExportDuty   float64 `json:"export_duty"`
			EnvTax       float64 `json:"env_tax"`
			TotalWithTax float64 `json:"total_with_tax"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 160_000, resp.Data.ExportDuty, 1e-6)
	assert.InDelta(t, 10_000, resp.Data.EnvTax, 1e-6)
	assert.InDelta(t, 8_170_000, resp.Data.TotalWithTax, 1e-6)
}
