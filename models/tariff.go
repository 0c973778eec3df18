package models

import (
	"regexp"
	"strings"
)

// RateTable maps a rate-scheme key (mfn, form_e, cptpp, vat, ...) to its
// published rate. Values are the raw strings from the tariff schedule
// ("10", "5%", "*", "KCX") or "true"/"false" for preference flags such as
// china_301.
type RateTable map[string]string

// TariffRecord is one classification line of a tariff schedule. Both the
// Vietnamese HS dataset and the US HTS dataset are normalized to this shape;
// US records leave NameVi empty.
type TariffRecord struct {
	Code   string    `json:"code"`
	Slug   string    `json:"slug"`
	NameEn string    `json:"name_en"`
	NameVi string    `json:"name_vi,omitempty"`
	Unit   string    `json:"unit,omitempty"`
	Rates  RateTable `json:"rates,omitempty"`
}

var nonDigits = regexp.MustCompile(`\D`)

// SlugFromCode strips separators from a display code ("0101.21.00" -> "01012100").
func SlugFromCode(code string) string {
	return nonDigits.ReplaceAllString(code, "")
}

// Chapter returns the 2-digit chapter prefix, or "" when the slug is too short.
func (r *TariffRecord) Chapter() string {
	if len(r.Slug) < 2 {
		return ""
	}
	return r.Slug[:2]
}

// Heading returns the 4-digit heading prefix, or "" when the slug is too short.
func (r *TariffRecord) Heading() string {
	if len(r.Slug) < 4 {
		return ""
	}
	return r.Slug[:4]
}

// Description joins the record's names into one searchable string.
func (r *TariffRecord) Description() string {
	switch {
	case r.NameEn != "" && r.NameVi != "":
		return r.NameEn + " " + r.NameVi
	case r.NameEn != "":
		return r.NameEn
	default:
		return r.NameVi
	}
}

// DisplayCode formats a digits-only slug as a dotted display code
// (01012100 -> 0101.21.00, 010121 -> 0101.21, 0101 -> 01.01).
func DisplayCode(slug string) string {
	switch {
	case len(slug) == 4:
		return slug[:2] + "." + slug[2:]
	case len(slug) == 6:
		return slug[:4] + "." + slug[4:]
	case len(slug) >= 8:
		parts := []string{slug[:4], slug[4:6], slug[6:8]}
		if len(slug) > 8 {
			parts = append(parts, slug[8:])
		}
		return strings.Join(parts, ".")
	default:
		return slug
	}
}

// Suggestion is the external-facing result of a code suggestion request.
type Suggestion struct {
	Code   string `json:"hs_code"`
	NameEn string `json:"name_en"`
	NameVi string `json:"name_vi"`
	Reason string `json:"reason"`
}

// SearchResult is one row of a ranked free-text search response.
type SearchResult struct {
	Slug        string `json:"slug"`
	DisplayCode string `json:"display_code"`
	Description string `json:"description"`
}
