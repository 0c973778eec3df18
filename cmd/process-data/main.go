// Command process-data transforms the annual import/export tariff spreadsheet
// (exported as CSV) into the hscode.json dataset the server loads.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// outRecord matches the dataset loader's raw HS record shape.
type outRecord struct {
	HsCode string            `json:"hs_code"`
	Slug   string            `json:"slug"`
	NameVi string            `json:"name_vi"`
	NameEn string            `json:"name_en"`
	Unit   string            `json:"unit"`
	Vat    *string           `json:"vat"`
	Taxes  map[string]string `json:"taxes"`
}

// The spreadsheet layout: headers on row 3, data from row 9. Column positions
// are resolved by header label with fixed fallbacks for older exports.
const (
	headerRow    = 2
	firstDataRow = 8

	codeCol   = 5
	nameViCol = 6
	nameEnCol = 7
)

var ftaColumns = []struct {
	key   string
	label string
}{
	{"form_e", "ACFTA"},
	{"form_d", "ATIGA"},
	{"ajcep", "AJCEP"},
	{"vjepa", "VJEPA"},
	{"akfta", "AKFTA"},
	{"aanzfta", "AANZFTA"},
	{"aifta", "AIFTA"},
	{"vkfta", "VKFTA"},
	{"vcfta", "VCFTA"},
	{"vn_eaeu", "VN-EAEU"},
	{"cptpp", "CPTPP"},
	{"ahkfta", "AHKFTA"},
	{"vncu", "VNCU"},
	{"eur1", "EVFTA"},
	{"ukv", "UKVFTA"},
	{"vn_lao", "VN-LAO"},
	{"vifta", "VIFTA"},
	{"rcept", "RCEPT"},
}

var slugPattern = regexp.MustCompile(`^\d{8,}$`)

func main() {
	sourcePath := flag.String("in", "Ref/bieu-thue-xnk.csv", "tariff spreadsheet CSV export")
	outputPath := flag.String("out", "data/hscode.json", "output dataset path")
	flag.Parse()

	f, err := os.Open(*sourcePath)
	if err != nil {
		log.Fatalf("Missing CSV file at %s: %v", *sourcePath, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to parse CSV: %v", err)
	}
	if len(rows) <= firstDataRow {
		log.Fatalf("CSV too short: %d rows", len(rows))
	}

	headers := make([]string, len(rows[headerRow]))
	for i, h := range rows[headerRow] {
		headers[i] = strings.Join(strings.Fields(h), " ")
	}
	headerIndex := func(label string, fallback int) int {
		for i, h := range headers {
			if h == label {
				return i
			}
		}
		return fallback
	}

	nkTtCol := headerIndex("NK TT", 10)
	mfnCol := headerIndex("NK ưu đãi", 13)
	vatCol := headerIndex("VAT", 16)
	unitCol := headerIndex("Unit of quantity", 9)

	ftaIndex := make(map[string]int, len(ftaColumns))
	for _, fta := range ftaColumns {
		ftaIndex[fta.key] = headerIndex(fta.label, -1)
	}

	var records []outRecord
	for _, row := range rows[firstDataRow:] {
		hsCode := strings.TrimSpace(cell(row, codeCol))
		if hsCode == "" {
			continue
		}
		slug := strings.NewReplacer(".", "", " ", "").Replace(hsCode)
		if !slugPattern.MatchString(slug) {
			continue
		}

		taxes := map[string]string{}
		if v := normalizeValue(cell(row, nkTtCol)); v != nil {
			taxes["nk_tt"] = *v
		}
		if v := normalizeValue(cell(row, mfnCol)); v != nil {
			taxes["mfn"] = *v
		}
		for _, fta := range ftaColumns {
			idx := ftaIndex[fta.key]
			if idx == -1 {
				continue
			}
			if v := normalizeValue(cell(row, idx)); v != nil {
				taxes[fta.key] = *v
			}
		}

		records = append(records, outRecord{
			HsCode: hsCode,
			Slug:   slug,
			NameVi: strings.TrimSpace(cell(row, nameViCol)),
			NameEn: strings.TrimSpace(cell(row, nameEnCol)),
			Unit:   strings.TrimSpace(cell(row, unitCol)),
			Vat:    normalizeValue(cell(row, vatCol)),
			Taxes:  taxes,
		})
	}

	if err := os.MkdirAll(filepath.Dir(*outputPath), 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode dataset: %v", err)
	}
	if err := os.WriteFile(*outputPath, data, 0644); err != nil {
		log.Fatalf("Failed to write dataset: %v", err)
	}
	log.Printf("Saved %d rows to %s", len(records), *outputPath)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// normalizeValue drops empty cells and the "-" placeholder the spreadsheet
// uses for "no rate".
func normalizeValue(value string) *string {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" || cleaned == "-" {
		return nil
	}
	return &cleaned
}
