// Package tavily implements core.SearchProvider over the Tavily search API.
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/inquiro/inquiro/core"
)

const defaultBaseURL = "https://api.tavily.com/search"

// Low-signal reference sites excluded unless the caller overrides.
var defaultExcludeDomains = []string{"wikipedia.org", "dictionary.com", "thefreedictionary.com"}

// Options configure the Tavily client.
type Options struct {
	BaseURL        string
	HTTPClient     *http.Client
	ExcludeDomains []string
	IncludeRaw     bool
}

// Client is a lightweight Tavily API client implementing core.SearchProvider.
type Client struct {
	apiKey string
	opts   Options
}

// New creates a Tavily client with the given API key.
func New(apiKey string, optFns ...func(o *Options)) *Client {
	opts := Options{
		BaseURL:        defaultBaseURL,
		HTTPClient:     &http.Client{Timeout: 30 * time.Second},
		ExcludeDomains: defaultExcludeDomains,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{apiKey: apiKey, opts: opts}
}

type searchRequest struct {
	APIKey            string   `json:"api_key"`
	Query             string   `json:"query"`
	SearchType        string   `json:"search_type"`
	MaxResults        int      `json:"max_results"`
	IncludeAnswer     bool     `json:"include_answer"`
	IncludeRawContent bool     `json:"include_raw_content"`
	ExcludeDomains    []string `json:"exclude_domains,omitempty"`
}

type searchResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search implements core.SearchProvider. A nil excludeDomains keeps the
// client defaults; an empty slice disables exclusion.
func (c *Client) Search(ctx context.Context, query string, maxResults int, excludeDomains []string) (core.SearchResponse, error) {
	if excludeDomains == nil {
		excludeDomains = c.opts.ExcludeDomains
	}

	body, err := json.Marshal(searchRequest{
		APIKey:            c.apiKey,
		Query:             query,
		SearchType:        "general",
		MaxResults:        maxResults,
		IncludeAnswer:     true,
		IncludeRawContent: c.opts.IncludeRaw,
		ExcludeDomains:    excludeDomains,
	})
	if err != nil {
		return core.SearchResponse{}, fmt.Errorf("tavily: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL, bytes.NewReader(body))
	if err != nil {
		return core.SearchResponse{}, fmt.Errorf("tavily: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		return core.SearchResponse{}, fmt.Errorf("tavily search error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return core.SearchResponse{}, fmt.Errorf("tavily search error: status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return core.SearchResponse{}, fmt.Errorf("tavily: decode response: %w", err)
	}

	out := core.SearchResponse{Answer: parsed.Answer}
	for _, r := range parsed.Results {
		out.Results = append(out.Results, core.Source{Title: r.Title, URL: r.URL, Content: r.Content})
	}
	return out, nil
}
