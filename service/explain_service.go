package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tariffdesk-backend/llm"

	gocache "github.com/patrickmn/go-cache"
)

// ExplainService produces short commodity explanations. Responses are cached
// for a day; the same code is asked about far more often than once.
type ExplainService struct {
	llm   *llm.Client
	cache *gocache.Cache
}

// ExplainServiceOption is a functional option for ExplainService
type ExplainServiceOption func(*ExplainService)

// ExplainWithLLM sets the model client
func ExplainWithLLM(client *llm.Client) ExplainServiceOption {
	return func(s *ExplainService) {
		s.llm = client
	}
}

// NewExplainService creates a new explain service
func NewExplainService(opts ...ExplainServiceOption) *ExplainService {
	s := &ExplainService{
		cache: gocache.New(24*time.Hour, time.Hour),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var ErrMissingExplainInput = errors.New("hs_code and name_en are required")

// Explain returns a plain-language description of the commodity plus one
// import tip, under 50 words.
func (s *ExplainService) Explain(ctx context.Context, hsCode, nameEn string) (string, error) {
	hsCode = strings.TrimSpace(hsCode)
	nameEn = strings.TrimSpace(nameEn)
	if hsCode == "" || nameEn == "" {
		return "", ErrMissingExplainInput
	}
	if s.llm == nil {
		return "", ErrAIUnavailable
	}

	key := hsCode + "|" + nameEn
	if cached, ok := s.cache.Get(key); ok {
		return cached.(string), nil
	}

	prompt := fmt.Sprintf(
		"Explain what the commodity '%s' (HS Code %s) is in simple terms and give 1 tip for importing it. Keep it under 50 words.",
		nameEn, hsCode,
	)
	text, err := s.llm.Generate(ctx, prompt, 0.3, 120)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	s.cache.Set(key, text, gocache.DefaultExpiration)
	return text, nil
}
