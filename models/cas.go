package models

// CasRecord is one entry of the CAS registry dataset used by the chemical
// number lookup.
type CasRecord struct {
	Cas     string `json:"cas"`
	NameVi  string `json:"name_vi"`
	NameEn  string `json:"name_en"`
	HsCode  string `json:"hs_code,omitempty"`
	Formula string `json:"formula,omitempty"`
}

// CasSuggestion is the external-facing result of a CAS lookup.
type CasSuggestion struct {
	Cas     string `json:"cas"`
	NameVi  string `json:"name_vi,omitempty"`
	NameEn  string `json:"name_en,omitempty"`
	HsCode  string `json:"hs_code,omitempty"`
	Formula string `json:"formula,omitempty"`
	Reason  string `json:"reason"`
}
