package tax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaxableValue(t *testing.T) {
	// 100 USD x 10 units x 25,000 VND/USD.
	assert.InDelta(t, 25_000_000, TaxableValue(100, 10, 25_000), 1e-6)
}

func TestComputeImport_Waterfall(t *testing.T) {
	result := ComputeImport(ImportInput{
		TaxableValue: 25_000_000,
		ImportRate:   10,
		ExciseRate:   5,
		VatRate:      10,
	})

	assert.InDelta(t, 2_500_000, result.ImportDuty, 1e-6)
	// Excise applies on value plus import duty, not on value alone.
	assert.InDelta(t, 1_375_000, result.ExciseTax, 1e-6)
	// VAT applies last, on the sum of value and every earlier tax.
	assert.InDelta(t, 2_887_500, result.Vat, 1e-6)
	assert.InDelta(t, 6_762_500, result.TotalTax, 1e-6)
	assert.InDelta(t, 31_762_500, result.TotalWithTax, 1e-6)
}

func TestComputeImport_SafeguardAndEnvironmental(t *testing.T) {
	result := ComputeImport(ImportInput{
		TaxableValue:  10_000_000,
		ImportRate:    10,
		SafeguardRate: 5,
		EnvPerUnit:    1_000,
		Quantity:      100,
		VatRate:       10,
	})

	assert.InDelta(t, 1_000_000, result.ImportDuty, 1e-6)
	// Safeguard duty is assessed on declared value only.
	assert.InDelta(t, 500_000, result.SafeguardTax, 1e-6)
	assert.InDelta(t, 100_000, result.EnvTax, 1e-6)
	// VAT base includes the safeguard and environmental amounts.
	assert.InDelta(t, 1_160_000, result.Vat, 1e-6)
	assert.InDelta(t, 2_760_000, result.TotalTax, 1e-6)
}

func TestComputeImport_ZeroRates(t *testing.T) {
	result := ComputeImport(ImportInput{TaxableValue: 5_000_000})

	assert.Zero(t, result.TotalTax)
	assert.InDelta(t, 5_000_000, result.TotalWithTax, 1e-6)
}

func TestComputeExport(t *testing.T) {
	result := ComputeExport(ExportInput{
		TaxableValue: 8_000_000,
		ExportRate:   2,
		EnvPerUnit:   500,
		Quantity:     20,
	})

	assert.InDelta(t, 160_000, result.ExportDuty, 1e-6)
	assert.InDelta(t, 10_000, result.EnvTax, 1e-6)
	assert.InDelta(t, 170_000, result.TotalTax, 1e-6)
	assert.InDelta(t, 8_170_000, result.TotalWithTax, 1e-6)
}
