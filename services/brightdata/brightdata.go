// Package brightdata implements core.NewsProvider over a generic Bright
// Data search endpoint. Bright Data products vary by account, so the client
// takes a full endpoint URL and normalizes common result field names.
package brightdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/inquiro/inquiro/core"
)

// Options configure the Bright Data client.
type Options struct {
	HTTPClient *http.Client
}

// Client is a generic news-recall client implementing core.NewsProvider.
type Client struct {
	baseURL string
	token   string
	opts    Options
}

// New creates a Bright Data client. Both the endpoint URL and token are
// required; otherwise the client reports unconfigured and is skipped.
func New(baseURL, token string, optFns ...func(o *Options)) *Client {
	opts := Options{HTTPClient: &http.Client{Timeout: 25 * time.Second}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{baseURL: baseURL, token: token, opts: opts}
}

// Configured implements core.NewsProvider.
func (c *Client) Configured() bool { return c.baseURL != "" && c.token != "" }

type rawResult struct {
	Title    string `json:"title"`
	Headline string `json:"headline"`
	URL      string `json:"url"`
	Link     string `json:"link"`
	Content  string `json:"content"`
	Snippet  string `json:"snippet"`
}

type newsResponse struct {
	Results []rawResult `json:"results"`
	Data    []rawResult `json:"data"`
	Items   []rawResult `json:"items"`
}

// SearchNews implements core.NewsProvider.
func (c *Client) SearchNews(ctx context.Context, query string, limit int) ([]core.Source, error) {
	if !c.Configured() || query == "" {
		return nil, nil
	}

	params := url.Values{"q": {query}, "limit": {strconv.Itoa(limit)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("brightdata: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brightdata search error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("brightdata search error: status %d", resp.StatusCode)
	}

	var parsed newsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("brightdata: decode response: %w", err)
	}

	raw := parsed.Results
	if len(raw) == 0 {
		raw = parsed.Data
	}
	if len(raw) == 0 {
		raw = parsed.Items
	}

	var sources []core.Source
	for _, r := range raw {
		title := r.Title
		if title == "" {
			title = r.Headline
		}
		u := r.URL
		if u == "" {
			u = r.Link
		}
		content := r.Content
		if content == "" {
			content = r.Snippet
		}
		sources = append(sources, core.Source{Title: title, URL: u, Content: content})
	}
	return sources, nil
}
