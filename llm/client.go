// Package llm wraps the Gemini HTTP API the way the rest of the backend
// consumes it: plain-text generation, image description, and embeddings,
// each with bounded retry and exponential backoff.
package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	generationAPI  = "https://generativelanguage.googleapis.com/v1beta/models/gemini-3-pro-preview:generateContent"
	embeddingAPI   = "https://generativelanguage.googleapis.com/v1beta/models/gemini-embedding-001:embedContent"
	maxRetries     = 3
	initialBackoff = time.Second
)

var (
	ErrNotConfigured    = errors.New("GEMINI_API_KEY not set")
	ErrGenerationFailed = errors.New("failed to generate content")
	ErrEmbeddingFailed  = errors.New("failed to generate embedding")
)

// Client calls the Gemini REST API. The zero value is unusable; use New.
type Client struct {
	apiKey     string
	genClient  *http.Client
	fastClient *http.Client
}

// New builds a client from the environment. Returns ErrNotConfigured when
// no API key is present so callers can degrade to local behavior.
func New() (*Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	return &Client{
		apiKey:     apiKey,
		genClient:  &http.Client{Timeout: 120 * time.Second},
		fastClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type generatePart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents         []generateContent `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	} `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason,omitempty"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason,omitempty"`
	} `json:"promptFeedback,omitempty"`
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error,omitempty"`
}

// Generate sends a text prompt and returns the concatenated candidate text.
// Retries transient failures up to three times with doubling backoff; 400
// and 401 responses are not retried.
func (c *Client) Generate(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	parts := []generatePart{{Text: prompt}}
	return c.generate(ctx, parts, temperature, maxTokens)
}

// DescribeImage sends an inline image (from a data URL) with an instruction
// and returns the model's short description.
func (c *Client) DescribeImage(ctx context.Context, imageDataURL, instruction string) (string, error) {
	mimeType, data, err := DecodeDataURL(imageDataURL)
	if err != nil {
		return "", err
	}
	parts := []generatePart{
		{Text: instruction},
		{InlineData: &inlineData{
			MimeType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(data),
		}},
	}
	out, err := c.generate(ctx, parts, 0.2, 120)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (c *Client) generate(ctx context.Context, parts []generatePart, temperature float64, maxTokens int) (string, error) {
	var reqBody generateRequest
	reqBody.Contents = []generateContent{{Parts: parts}}
	reqBody.GenerationConfig.Temperature = temperature
	reqBody.GenerationConfig.MaxOutputTokens = maxTokens

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		content, retryable, err := c.doGenerate(ctx, jsonData)
		if err == nil && content != "" {
			return content, nil
		}
		if err != nil && !retryable {
			return "", err
		}
		if attempt == maxRetries-1 {
			if err != nil {
				return "", fmt.Errorf("failed after %d attempts: %w", maxRetries, err)
			}
			return "", ErrGenerationFailed
		}
	}
	return "", ErrGenerationFailed
}

func (c *Client) doGenerate(ctx context.Context, jsonData []byte) (content string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, "POST", generationAPI, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.genClient.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		// Don't retry on 400 or 401 errors
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			return "", false, fmt.Errorf("API error: %d - %s", resp.StatusCode, string(bodyBytes))
		}
		return "", true, fmt.Errorf("API error: %d", resp.StatusCode)
	}

	var apiResp generateResponse
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		log.Printf("Failed to decode Gemini response. Body: %s", string(bodyBytes))
		return "", true, fmt.Errorf("failed to decode response: %w", err)
	}
	if apiResp.Error.Message != "" {
		return "", true, fmt.Errorf("API error: %s (code: %d)", apiResp.Error.Message, apiResp.Error.Code)
	}
	if apiResp.PromptFeedback.BlockReason != "" {
		return "", false, fmt.Errorf("API blocked prompt: %s", apiResp.PromptFeedback.BlockReason)
	}
	if len(apiResp.Candidates) == 0 {
		return "", true, fmt.Errorf("API returned no candidates")
	}

	var text strings.Builder
	for i, candidate := range apiResp.Candidates {
		if candidate.FinishReason != "" && candidate.FinishReason != "STOP" {
			log.Printf("Warning: candidate %d finished with reason: %s", i, candidate.FinishReason)
		}
		for _, part := range candidate.Content.Parts {
			text.WriteString(part.Text)
		}
	}
	if text.Len() == 0 {
		return "", true, fmt.Errorf("API returned empty content")
	}
	return text.String(), false, nil
}

// DecodeDataURL splits a data URL ("data:image/png;base64,....") into its
// MIME type and decoded bytes.
func DecodeDataURL(dataURL string) (mimeType string, data []byte, err error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return "", nil, fmt.Errorf("not a data URL")
	}
	comma := strings.Index(dataURL, ",")
	if comma < 0 {
		return "", nil, fmt.Errorf("malformed data URL")
	}
	meta := dataURL[len("data:"):comma]
	payload := dataURL[comma+1:]

	mimeType = meta
	if semi := strings.Index(meta, ";"); semi >= 0 {
		mimeType = meta[:semi]
		if !strings.Contains(meta, "base64") {
			return "", nil, fmt.Errorf("unsupported data URL encoding")
		}
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode data URL: %w", err)
	}
	return mimeType, data, nil
}
