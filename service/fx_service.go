package service

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	fxRateURL     = "https://open.er-api.com/v6/latest/USD"
	defaultUsdVnd = 25000.0
	fxCacheKey    = "usd-vnd"
)

// FxService serves the USD to VND reference rate used to pre-fill the tax
// calculator. The upstream rate is cached for an hour; any failure falls back
// to a fixed default so the calculator always has a rate.
type FxService struct {
	httpClient *http.Client
	cache      *gocache.Cache
}

// FxServiceOption is a functional option for FxService
type FxServiceOption func(*FxService)

// FxWithHTTPClient overrides the upstream HTTP client
func FxWithHTTPClient(client *http.Client) FxServiceOption {
	return func(s *FxService) {
		s.httpClient = client
	}
}

// NewFxService creates a new FX rate service
func NewFxService(opts ...FxServiceOption) *FxService {
	s := &FxService{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      gocache.New(time.Hour, 10*time.Minute),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UsdVnd returns the current USD to VND rate, or the default when the
// upstream is unavailable. Never fails.
func (s *FxService) UsdVnd(ctx context.Context) float64 {
	if cached, ok := s.cache.Get(fxCacheKey); ok {
		return cached.(float64)
	}

	rate, err := s.fetch(ctx)
	if err != nil {
		log.Printf("Warning: FX rate fetch failed, using default: %v", err)
		return defaultUsdVnd
	}
	s.cache.Set(fxCacheKey, rate, gocache.DefaultExpiration)
	return rate
}

func (s *FxService) fetch(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", fxRateURL, nil)
	if err != nil {
		return 0, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, err
	}
	rate, ok := payload.Rates["VND"]
	if !ok || rate <= 0 {
		return defaultUsdVnd, nil
	}
	return rate, nil
}
