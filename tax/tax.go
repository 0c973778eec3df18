// Package tax computes cascading import/export duty scenarios. The order of
// operations is a statutory invariant: import duty on declared value, excise
// on value plus import duty, environmental tax flat per unit, VAT last on
// the sum of value and every earlier tax.
package tax

// ImportInput holds user-adjustable inputs for an import scenario. Rates are
// percentages (10 means 10%); EnvPerUnit is a flat VND amount per unit.
type ImportInput struct {
	TaxableValue  float64 `json:"taxable_value"`
	ImportRate    float64 `json:"import_rate"`
	ExciseRate    float64 `json:"excise_rate"`
	SafeguardRate float64 `json:"safeguard_rate"`
	EnvPerUnit    float64 `json:"env_per_unit"`
	Quantity      float64 `json:"quantity"`
	VatRate       float64 `json:"vat_rate"`
}

// ImportResult itemizes the cascading taxes of an import scenario.
type ImportResult struct {
	ImportDuty    float64 `json:"import_duty"`
	SafeguardTax  float64 `json:"safeguard_tax"`
	ExciseTax     float64 `json:"excise_tax"`
	EnvTax        float64 `json:"env_tax"`
	Vat           float64 `json:"vat"`
	TotalTax      float64 `json:"total_tax"`
	TotalWithTax  float64 `json:"total_with_tax"`
}

// ExportInput holds inputs for an export scenario.
type ExportInput struct {
	TaxableValue float64 `json:"taxable_value"`
	ExportRate   float64 `json:"export_rate"`
	EnvPerUnit   float64 `json:"env_per_unit"`
	Quantity     float64 `json:"quantity"`
}

// ExportResult itemizes an export scenario: duty plus flat environmental
// tax, no VAT cascade.
type ExportResult struct {
	ExportDuty   float64 `json:"export_duty"`
	EnvTax       float64 `json:"env_tax"`
	TotalTax     float64 `json:"total_tax"`
	TotalWithTax float64 `json:"total_with_tax"`
}

// TaxableValue converts a per-unit foreign-currency price to the VND tax
// base: unit price x quantity x FX rate.
func TaxableValue(unitPrice, quantity, fxRate float64) float64 {
	return unitPrice * quantity * fxRate
}

// ComputeImport runs the import waterfall. Each later tax's base includes
// all earlier taxes; reordering the steps changes the result.
func ComputeImport(in ImportInput) ImportResult {
	importDuty := in.TaxableValue * in.ImportRate / 100
	safeguard := in.TaxableValue * in.SafeguardRate / 100
	excise := (in.TaxableValue + importDuty) * in.ExciseRate / 100
	env := in.Quantity * in.EnvPerUnit
	vat := (in.TaxableValue + importDuty + excise + safeguard + env) * in.VatRate / 100
	total := importDuty + safeguard + excise + env + vat
	return ImportResult{
		ImportDuty:   importDuty,
		SafeguardTax: safeguard,
		ExciseTax:    excise,
		EnvTax:       env,
		Vat:          vat,
		TotalTax:     total,
		TotalWithTax: in.TaxableValue + total,
	}
}

// ComputeExport runs the export scenario.
func ComputeExport(in ExportInput) ExportResult {
	exportDuty := in.TaxableValue * in.ExportRate / 100
	env := in.Quantity * in.EnvPerUnit
	total := exportDuty + env
	return ExportResult{
		ExportDuty:   exportDuty,
		EnvTax:       env,
		TotalTax:     total,
		TotalWithTax: in.TaxableValue + total,
	}
}
