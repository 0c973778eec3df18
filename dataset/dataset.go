// Package dataset loads the static tariff schedules into memory. A Store is
// built once at process start and treated as immutable, shared, read-only
// state afterwards, so concurrent request handlers read it without locking.
package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"tariffdesk-backend/models"
)

// Kind identifies which tariff schedule a Store holds.
type Kind string

const (
	KindVietnamHS Kind = "vn"
	KindUsHTS     Kind = "us"
)

// Store is an in-memory, read-only tariff dataset.
type Store struct {
	kind    Kind
	records []models.TariffRecord
	bySlug  map[string]int
}

// vnRawRecord matches the JSON produced by cmd/process-data from the
// Vietnamese import/export tariff spreadsheet.
type vnRawRecord struct {
	HsCode string            `json:"hs_code"`
	Slug   string            `json:"slug"`
	NameVi string            `json:"name_vi"`
	NameEn string            `json:"name_en"`
	Unit   string            `json:"unit"`
	Vat    *string           `json:"vat"`
	Taxes  map[string]string `json:"taxes"`
}

// usRawRecord matches the processed US HTS JSON.
type usRawRecord struct {
	Slug        string `json:"slug"`
	DisplayCode string `json:"display_code"`
	Description string `json:"description"`
	Units       []string `json:"units"`
	Rates       struct {
		Mfn      string `json:"mfn"`
		China301 bool   `json:"china_301"`
		UsmcaMx  bool   `json:"usmca_mx"`
		KoreaFta bool   `json:"korea_fta"`
		CaUsmca  bool   `json:"ca_usmca"`
		AuFta    bool   `json:"au_fta"`
		EuPref   bool   `json:"eu_pref"`
	} `json:"rates"`
}

var digitsOnly = regexp.MustCompile(`^\d+$`)

// LoadVietnamHS reads the Vietnamese HS dataset from path.
func LoadVietnamHS(path string) (*Store, error) {
	var raw []vnRawRecord
	if err := readJSONRecords(path, &raw); err != nil {
		return nil, fmt.Errorf("failed to load HS dataset: %w", err)
	}

	records := make([]models.TariffRecord, 0, len(raw))
	for _, r := range raw {
		slug := r.Slug
		if slug == "" {
			slug = models.SlugFromCode(r.HsCode)
		}
		if !digitsOnly.MatchString(slug) {
			continue
		}
		rates := models.RateTable{}
		for k, v := range r.Taxes {
			rates[k] = v
		}
		if r.Vat != nil {
			rates["vat"] = *r.Vat
		}
		records = append(records, models.TariffRecord{
			Code:   r.HsCode,
			Slug:   slug,
			NameEn: r.NameEn,
			NameVi: r.NameVi,
			Unit:   r.Unit,
			Rates:  rates,
		})
	}
	return newStore(KindVietnamHS, records)
}

// LoadUsHTS reads the US HTS dataset from path.
func LoadUsHTS(path string) (*Store, error) {
	var raw []usRawRecord
	if err := readJSONRecords(path, &raw); err != nil {
		return nil, fmt.Errorf("failed to load US HTS dataset: %w", err)
	}

	records := make([]models.TariffRecord, 0, len(raw))
	for _, r := range raw {
		if !digitsOnly.MatchString(r.Slug) {
			continue
		}
		rates := models.RateTable{"mfn": r.Rates.Mfn}
		for key, flag := range map[string]bool{
			"china_301": r.Rates.China301,
			"usmca_mx":  r.Rates.UsmcaMx,
			"korea_fta": r.Rates.KoreaFta,
			"ca_usmca":  r.Rates.CaUsmca,
			"au_fta":    r.Rates.AuFta,
			"eu_pref":   r.Rates.EuPref,
		} {
			if flag {
				rates[key] = "true"
			}
		}
		code := r.DisplayCode
		if code == "" {
			code = models.DisplayCode(r.Slug)
		}
		unit := ""
		if len(r.Units) > 0 {
			unit = strings.Join(r.Units, ", ")
		}
		records = append(records, models.TariffRecord{
			Code:   code,
			Slug:   r.Slug,
			NameEn: r.Description,
			Unit:   unit,
			Rates:  rates,
		})
	}
	return newStore(KindUsHTS, records)
}

// NewStore builds a Store from already-normalized records. Used by tests and
// by callers that assemble records in memory.
func NewStore(kind Kind, records []models.TariffRecord) (*Store, error) {
	return newStore(kind, records)
}

func newStore(kind Kind, records []models.TariffRecord) (*Store, error) {
	bySlug := make(map[string]int, len(records))
	for i := range records {
		slug := records[i].Slug
		if _, dup := bySlug[slug]; dup {
			return nil, fmt.Errorf("duplicate slug in dataset: %s", slug)
		}
		bySlug[slug] = i
	}
	return &Store{kind: kind, records: records, bySlug: bySlug}, nil
}

// readJSONRecords accepts either a JSON array or line-delimited JSON objects.
func readJSONRecords[T any](path string, out *[]T) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		return json.Unmarshal([]byte(trimmed), out)
	}

	scanner := bufio.NewScanner(strings.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec T
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return fmt.Errorf("bad record line: %w", err)
		}
		*out = append(*out, rec)
	}
	return scanner.Err()
}

// Kind returns the schedule this store holds.
func (s *Store) Kind() Kind { return s.kind }

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// All returns the full record slice. Callers must not mutate it.
func (s *Store) All() []models.TariffRecord { return s.records }

// BySlug looks up a record by its digits-only slug. For 8-digit slugs with no
// exact match, the first record whose slug extends it is returned, so an
// 8-digit HS code can resolve to a 10-digit US subheading.
func (s *Store) BySlug(slug string) (*models.TariffRecord, bool) {
	if i, ok := s.bySlug[slug]; ok {
		return &s.records[i], true
	}
	if len(slug) == 8 && digitsOnly.MatchString(slug) {
		for i := range s.records {
			if strings.HasPrefix(s.records[i].Slug, slug) {
				return &s.records[i], true
			}
		}
	}
	return nil, false
}

// ByPrefix returns records whose slug starts with prefix, up to limit
// (limit <= 0 means no cap), in dataset order.
func (s *Store) ByPrefix(prefix string, limit int) []models.TariffRecord {
	var out []models.TariffRecord
	for i := range s.records {
		if !strings.HasPrefix(s.records[i].Slug, prefix) {
			continue
		}
		out = append(out, s.records[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// ByChapter returns records in the 2-digit chapter, up to limit.
func (s *Store) ByChapter(chapter string, limit int) []models.TariffRecord {
	return s.ByPrefix(chapter, limit)
}

// RelatedByChapter returns up to limit records sharing a code's chapter,
// excluding the code itself.
func (s *Store) RelatedByChapter(slug string, limit int) []models.TariffRecord {
	if len(slug) < 2 {
		return nil
	}
	var out []models.TariffRecord
	for _, rec := range s.ByPrefix(slug[:2], 0) {
		if rec.Slug == slug {
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// Chapters returns the sorted distinct 2-digit chapter prefixes.
func (s *Store) Chapters() []string {
	seen := make(map[string]struct{})
	for i := range s.records {
		if ch := s.records[i].Chapter(); ch != "" {
			seen[ch] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for ch := range seen {
		out = append(out, ch)
	}
	sort.Strings(out)
	return out
}
