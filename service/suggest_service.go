package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"tariffdesk-backend/dataset"
	"tariffdesk-backend/llm"
	"tariffdesk-backend/models"
	"tariffdesk-backend/repository"
	"tariffdesk-backend/search"
	"tariffdesk-backend/storage"

	"github.com/google/uuid"
)

// SuggestService turns free-text and image input into ranked tariff-code
// suggestions. The local pipeline always runs; the model only refines its
// candidate pool and can never introduce codes outside the dataset.
type SuggestService struct {
	pipelines map[dataset.Kind]*search.Pipeline
	llm       *llm.Client
	images    storage.ImageStore
	logRepo   *repository.SearchLogRepository
}

// SuggestServiceOption is a functional option for SuggestService
type SuggestServiceOption func(*SuggestService)

// SuggestWithPipeline registers the matching pipeline for a dataset
func SuggestWithPipeline(kind dataset.Kind, p *search.Pipeline) SuggestServiceOption {
	return func(s *SuggestService) {
		s.pipelines[kind] = p
	}
}

// SuggestWithLLM sets the model client; nil disables AI refinement
func SuggestWithLLM(client *llm.Client) SuggestServiceOption {
	return func(s *SuggestService) {
		s.llm = client
	}
}

// SuggestWithImageStore sets the audit store for uploaded images
func SuggestWithImageStore(store storage.ImageStore) SuggestServiceOption {
	return func(s *SuggestService) {
		s.images = store
	}
}

// SuggestWithSearchLogRepository sets the analytics repository
func SuggestWithSearchLogRepository(repo *repository.SearchLogRepository) SuggestServiceOption {
	return func(s *SuggestService) {
		s.logRepo = repo
	}
}

// NewSuggestService creates a new suggest service
func NewSuggestService(opts ...SuggestServiceOption) *SuggestService {
	s := &SuggestService{
		pipelines: make(map[dataset.Kind]*search.Pipeline),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrMissingInput       = errors.New("provide a description and/or image")
	ErrDatasetUnavailable = errors.New("dataset not loaded")
	ErrVisionUnavailable  = errors.New("image lookup not configured")
	ErrVisionFailed       = errors.New("vision model error")
)

const maxSuggestions = 5

// SuggestRequest represents one suggestion request
type SuggestRequest struct {
	Kind         dataset.Kind
	Description  string
	ImageDataURL string
}

// SuggestResult represents the outcome of a suggestion request
type SuggestResult struct {
	Suggestions []models.Suggestion
	ImageHint   string
}

// Suggest runs the full pipeline: optional image description, rule lookup,
// candidate generation, re-ranking, post-filters, then optional AI refinement
// over the pool with a ranked fallback.
func (s *SuggestService) Suggest(ctx context.Context, req SuggestRequest) (*SuggestResult, error) {
	description := strings.TrimSpace(req.Description)
	imageDataURL := strings.TrimSpace(req.ImageDataURL)
	if description == "" && imageDataURL == "" {
		return nil, ErrMissingInput
	}

	pipeline, ok := s.pipelines[req.Kind]
	if !ok {
		return nil, ErrDatasetUnavailable
	}

	imageHint := ""
	if imageDataURL != "" {
		if s.llm == nil {
			return nil, ErrVisionUnavailable
		}
		hint, err := s.llm.DescribeImage(ctx, imageDataURL, visionInstruction(req.Kind))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrVisionFailed, err)
		}
		imageHint = hint
	}

	searchText := joinNonEmpty(description, imageHint)
	if searchText == "" {
		return &SuggestResult{Suggestions: []models.Suggestion{}, ImageHint: imageHint}, nil
	}

	suggestions, source := s.classify(ctx, pipeline, searchText)

	s.persistRequest(ctx, req, imageDataURL, imageHint, source, suggestions)

	return &SuggestResult{Suggestions: suggestions, ImageHint: imageHint}, nil
}

// classify produces the suggestion list and its provenance ("rule", "ai" or
// "similarity").
func (s *SuggestService) classify(ctx context.Context, pipeline *search.Pipeline, searchText string) ([]models.Suggestion, string) {
	store := pipeline.Store()

	// Preferred-code rules short-circuit everything else.
	if codes := search.RulePreferred(searchText); len(codes) > 0 {
		var out []models.Suggestion
		for _, code := range codes {
			rec, ok := store.BySlug(models.SlugFromCode(code))
			if !ok {
				continue
			}
			out = append(out, models.Suggestion{
				Code:   rec.Slug,
				NameEn: rec.NameEn,
				NameVi: rec.NameVi,
				Reason: "Matched by rule",
			})
		}
		if len(out) > 0 {
			return out, "rule"
		}
	}

	cands := pipeline.Generate(searchText)
	ranked := search.Rank(cands)

	var aiHeadings []string
	if s.llm != nil {
		aiHeadings = s.classifyHeadings(ctx, searchText)
	}
	filtered := search.PostFilter(ranked, cands, aiHeadings)

	if s.llm != nil {
		if refined := s.refine(ctx, searchText, filtered); len(refined) > 0 {
			return refined, "ai"
		}
	}

	return similaritySuggestions(filtered), "similarity"
}

func similaritySuggestions(records []models.TariffRecord) []models.Suggestion {
	out := make([]models.Suggestion, 0, maxSuggestions)
	for _, rec := range records {
		out = append(out, models.Suggestion{
			Code:   rec.Slug,
			NameEn: rec.NameEn,
			NameVi: rec.NameVi,
			Reason: "Matched by similarity",
		})
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// classifyHeadings asks the model for up to three 4-digit headings to narrow
// the candidate pool. Failures are logged and ignored.
func (s *SuggestService) classifyHeadings(ctx context.Context, searchText string) []string {
	prompt := "You are a tariff classification assistant. " +
		"Given a product description, return up to 3 most likely 4-digit HS headings. " +
		`Return ONLY JSON with this shape: {"headings":["4011"]}. ` +
		"Product input:\n" + searchText

	raw, err := s.llm.Generate(ctx, prompt, 0.2, 120)
	if err != nil {
		log.Printf("Warning: heading classification failed: %v", err)
		return nil
	}

	var parsed struct {
		Headings []string `json:"headings"`
	}
	if err := json.Unmarshal([]byte(llm.SalvageJSON(raw)), &parsed); err != nil {
		return nil
	}

	var out []string
	for _, hd := range parsed.Headings {
		hd = models.SlugFromCode(hd)
		if len(hd) == 4 {
			out = append(out, hd)
		}
		if len(out) == 3 {
			break
		}
	}
	return out
}

// refine hands the candidate pool to the model and keeps only picks that are
// actually in the pool. One stricter retry on unusable output; the caller
// falls back to the ranked list when both attempts fail.
func (s *SuggestService) refine(ctx context.Context, searchText string, pool []models.TariffRecord) []models.Suggestion {
	if len(pool) == 0 {
		return nil
	}

	poolSlugs := make(map[string]*models.TariffRecord, len(pool))
	var lines bytes.Buffer
	for i := range pool {
		rec := &pool[i]
		poolSlugs[rec.Slug] = rec
		fmt.Fprintf(&lines, "%s | %s | %s\n", rec.Slug, rec.NameEn, rec.NameVi)
	}

	prompt := "You are a tariff classification assistant. " +
		"Pick up to 5 codes from the CANDIDATES list that best match the product. " +
		"Only use codes from the list. " +
		`Return ONLY JSON with this shape: {"suggestions":[{"hs_code":"09011100","name_en":"...","name_vi":"...","reason":"..."}]}. ` +
		"Keep reasons under 18 words.\n\n" +
		"CANDIDATES (code | name_en | name_vi):\n" + lines.String() +
		"\nProduct input:\n" + searchText

	picks := s.generatePicks(ctx, prompt, poolSlugs)
	if len(picks) == 0 {
		retryPrompt := "Return ONLY a valid JSON object " +
			`{"suggestions":[{"hs_code":"...","name_en":"...","name_vi":"...","reason":"..."}]}` +
			" with up to 5 entries. Every hs_code MUST be copied verbatim from this list, nothing else:\n" +
			lines.String() +
			"\nProduct: " + searchText
		picks = s.generatePicks(ctx, retryPrompt, poolSlugs)
	}
	return picks
}

func (s *SuggestService) generatePicks(ctx context.Context, prompt string, poolSlugs map[string]*models.TariffRecord) []models.Suggestion {
	raw, err := s.llm.Generate(ctx, prompt, 0.2, 400)
	if err != nil {
		log.Printf("Warning: suggestion refinement failed: %v", err)
		return nil
	}

	salvaged := llm.SalvageJSON(raw)
	var parsed struct {
		Suggestions []models.Suggestion `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(salvaged), &parsed); err != nil || len(parsed.Suggestions) == 0 {
		// Some responses are a bare array.
		var arr []models.Suggestion
		if err := json.Unmarshal([]byte(salvaged), &arr); err != nil {
			return nil
		}
		parsed.Suggestions = arr
	}

	var out []models.Suggestion
	for _, sug := range parsed.Suggestions {
		slug := models.SlugFromCode(sug.Code)
		rec, ok := poolSlugs[slug]
		if !ok {
			continue
		}
		reason := strings.TrimSpace(sug.Reason)
		if reason == "" {
			reason = "Matched by similarity"
		}
		out = append(out, models.Suggestion{
			Code:   rec.Slug,
			NameEn: rec.NameEn,
			NameVi: rec.NameVi,
			Reason: reason,
		})
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// persistRequest stores the uploaded image and the analytics row. Both are
// best-effort; failures are logged and the response is unaffected.
func (s *SuggestService) persistRequest(ctx context.Context, req SuggestRequest, imageDataURL, imageHint, source string, suggestions []models.Suggestion) {
	var imagePath *string
	if imageDataURL != "" && s.images != nil {
		mimeType, data, err := llm.DecodeDataURL(imageDataURL)
		if err != nil {
			log.Printf("Warning: failed to decode uploaded image: %v", err)
		} else {
			path, err := s.images.Put(ctx, uuid.New(), mimeType, bytes.NewReader(data))
			if err != nil {
				log.Printf("Warning: failed to store uploaded image: %v", err)
			} else {
				imagePath = &path
			}
		}
	}

	if s.logRepo == nil {
		return
	}
	entry := &models.SearchLog{
		Dataset:     string(req.Kind),
		Query:       strings.TrimSpace(req.Description),
		ImageHint:   imageHint,
		ImagePath:   imagePath,
		Source:      source,
		Suggestions: suggestions,
	}
	if err := s.logRepo.Create(ctx, entry); err != nil {
		log.Printf("Warning: failed to log search: %v", err)
	}
}

func visionInstruction(kind dataset.Kind) string {
	if kind == dataset.KindUsHTS {
		return "Describe the product in this image in under 30 words. " +
			"Include type, material, and use. Focus on terms useful for tariff classification."
	}
	return "Describe the product in this image in under 30 words. " +
		"Include type, material, and use. Mention if it is a costume, inflatable, or wearable."
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
