// Package gemini adapts the Google Gemini generateContent REST endpoint to
// the llm.Provider interface used by the fallback client.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/inquiro/inquiro/llm"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// Options configure the Gemini provider adapter.
type Options struct {
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Provider calls the Gemini generateContent endpoint behind llm.Provider.
type Provider struct {
	apiKey string
	opts   Options
}

// New creates a new Gemini provider with the given API key.
func New(apiKey string, optFns ...func(o *Options)) *Provider {
	opts := Options{
		Model:      "gemini-1.5-pro",
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Provider{apiKey: apiKey, opts: opts}
}

// Name implements llm.Provider.
func (p *Provider) Name() string { return "gemini" }

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int64   `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		TotalTokenCount int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// Generate implements llm.Provider with one generateContent call.
func (p *Provider) Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (llm.Response, error) {
	model := opts.Model
	if model == "" {
		model = p.opts.Model
	}

	payload := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     opts.Temperature,
			MaxOutputTokens: opts.MaxTokens,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return llm.Response{}, fmt.Errorf("gemini: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", p.opts.BaseURL, model, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return llm.Response{}, fmt.Errorf("gemini: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := p.opts.HTTPClient.Do(req)
	if err != nil {
		return llm.Response{}, fmt.Errorf("gemini api error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return llm.Response{}, fmt.Errorf("gemini api error %d: %s", resp.StatusCode, msg)
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return llm.Response{}, fmt.Errorf("gemini: decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return llm.Response{}, fmt.Errorf("gemini: no valid content in response")
	}

	return llm.Response{
		Content:      parsed.Candidates[0].Content.Parts[0].Text,
		Provider:     p.Name(),
		Model:        model,
		TokensUsed:   parsed.UsageMetadata.TotalTokenCount,
		ResponseTime: time.Since(start),
	}, nil
}
