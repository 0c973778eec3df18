package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"tariffdesk-backend/dataset"
	"tariffdesk-backend/llm"
	"tariffdesk-backend/models"
)

// CasService resolves chemical names to CAS numbers: a scored local match
// over the CAS registry first, the model as fallback.
type CasService struct {
	registry *dataset.CasRegistry
	llm      *llm.Client
}

// CasServiceOption is a functional option for CasService
type CasServiceOption func(*CasService)

// CasWithRegistry sets the CAS registry
func CasWithRegistry(registry *dataset.CasRegistry) CasServiceOption {
	return func(s *CasService) {
		s.registry = registry
	}
}

// CasWithLLM sets the model client; nil disables the AI fallback
func CasWithLLM(client *llm.Client) CasServiceOption {
	return func(s *CasService) {
		s.llm = client
	}
}

// NewCasService creates a new CAS lookup service
func NewCasService(opts ...CasServiceOption) *CasService {
	s := &CasService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrMissingQuery  = errors.New("query is required")
	ErrAIUnavailable = errors.New("AI lookup not configured")
)

// CasLookupResult carries the suggestions and their provenance ("local" or "ai").
type CasLookupResult struct {
	Suggestions []models.CasSuggestion
	Source      string
}

// Lookup matches the query against the registry; when nothing matches it asks
// the model, validating and retrying once on unusable output.
func (s *CasService) Lookup(ctx context.Context, query string) (*CasLookupResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrMissingQuery
	}

	if s.registry != nil {
		if matches := s.registry.Match(query); len(matches) > 0 {
			out := make([]models.CasSuggestion, len(matches))
			for i, rec := range matches {
				out[i] = models.CasSuggestion{
					Cas:     rec.Cas,
					NameVi:  rec.NameVi,
					NameEn:  rec.NameEn,
					HsCode:  rec.HsCode,
					Formula: rec.Formula,
					Reason:  "Matched from CAS list",
				}
			}
			return &CasLookupResult{Suggestions: out, Source: "local"}, nil
		}
	}

	if s.llm == nil {
		return nil, ErrAIUnavailable
	}

	prompt := "You are a chemistry assistant. " +
		"Given a chemical name, return up to 5 likely CAS numbers. " +
		"Return ONLY JSON with this shape: " +
		`{"suggestions":[{"cas":"50-00-0","name_en":"Formaldehyde","name_vi":"Formaldehyde","reason":"..."}]}. ` +
		"Keep reasons under 16 words. " +
		"Query: " + query

	suggestions := s.generateCas(ctx, prompt)
	if len(suggestions) == 0 {
		retryPrompt := "Return a JSON array of up to 5 objects with fields: " +
			"cas, name_en, name_vi, reason. Query: " + query
		suggestions = s.generateCas(ctx, retryPrompt)
	}
	if suggestions == nil {
		suggestions = []models.CasSuggestion{}
	}
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return &CasLookupResult{Suggestions: suggestions, Source: "ai"}, nil
}

func (s *CasService) generateCas(ctx context.Context, prompt string) []models.CasSuggestion {
	raw, err := s.llm.Generate(ctx, prompt, 0.2, 300)
	if err != nil {
		log.Printf("Warning: CAS lookup generation failed: %v", err)
		return nil
	}

	salvaged := llm.SalvageJSON(raw)
	var parsed struct {
		Suggestions []models.CasSuggestion `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(salvaged), &parsed); err != nil || len(parsed.Suggestions) == 0 {
		var arr []models.CasSuggestion
		if err := json.Unmarshal([]byte(salvaged), &arr); err != nil {
			return nil
		}
		parsed.Suggestions = arr
	}

	var out []models.CasSuggestion
	for _, sug := range parsed.Suggestions {
		if sug.Cas == "" || (sug.NameEn == "" && sug.NameVi == "") {
			continue
		}
		out = append(out, sug)
	}
	return out
}
