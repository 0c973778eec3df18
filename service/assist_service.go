package service

import (
	"context"
	"strings"
	"time"

	"tariffdesk-backend/llm"

	gocache "github.com/patrickmn/go-cache"
)

// AssistService suggests related search keywords for a query, cached for a
// day per query.
type AssistService struct {
	llm   *llm.Client
	cache *gocache.Cache
}

// AssistServiceOption is a functional option for AssistService
type AssistServiceOption func(*AssistService)

// AssistWithLLM sets the model client
func AssistWithLLM(client *llm.Client) AssistServiceOption {
	return func(s *AssistService) {
		s.llm = client
	}
}

// NewAssistService creates a new search assist service
func NewAssistService(opts ...AssistServiceOption) *AssistService {
	s := &AssistService{
		cache: gocache.New(24*time.Hour, time.Hour),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Keywords returns up to 5 related keywords or phrases for the query.
func (s *AssistService) Keywords(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrMissingQuery
	}
	if s.llm == nil {
		return nil, ErrAIUnavailable
	}

	if cached, ok := s.cache.Get(query); ok {
		return cached.([]string), nil
	}

	prompt := "You are helping an HS code lookup search. " +
		"Return a concise comma-separated list of up to 5 related keywords or phrases " +
		"that could improve the search. Include EN and VI when possible. " +
		"Return only the list, no extra text. Query: " + query

	raw, err := s.llm.Generate(ctx, prompt, 0.2, 120)
	if err != nil {
		return nil, err
	}

	keywords := make([]string, 0, 5)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		keywords = append(keywords, part)
		if len(keywords) == 5 {
			break
		}
	}
	s.cache.Set(query, keywords, gocache.DefaultExpiration)
	return keywords, nil
}
