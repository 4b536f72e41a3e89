// Package diffbot implements core.EntityExtractor over the Diffbot Analyze
// API. The client is defensive: the API's object schema varies, so parsing
// tries explicit name/title fields first and falls back to a regex sweep
// over text blobs.
package diffbot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/inquiro/inquiro/core"
)

const defaultBaseURL = "https://api.diffbot.com/v3/analyze"

// Matches "Jane Doe, Managing Partner" or "John Smith - CIO".
var personPattern = regexp.MustCompile(`([A-Z][a-z]+\s+[A-Z][a-z]+)(?:\s*[,-]\s*([^\n\r|]+))`)

// Options configure the Diffbot client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client is a minimal Diffbot Analyze client implementing
// core.EntityExtractor.
type Client struct {
	token string
	opts  Options
}

// New creates a Diffbot client. An empty token leaves the client
// unconfigured; the pipeline will skip it.
func New(token string, optFns ...func(o *Options)) *Client {
	opts := Options{
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 25 * time.Second},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{token: token, opts: opts}
}

// Configured implements core.EntityExtractor.
func (c *Client) Configured() bool { return c.token != "" }

type analyzeResponse struct {
	Objects []struct {
		Name   string          `json:"name"`
		Author string          `json:"author"`
		Title  json.RawMessage `json:"title"`
		Text   string          `json:"text"`
		HTML   string          `json:"html"`
	} `json:"objects"`
}

// ExtractPeople implements core.EntityExtractor: analyze one URL and return
// likely name/title pairs, deduplicated by lowercased name+title.
func (c *Client) ExtractPeople(ctx context.Context, target string) ([]core.Entity, error) {
	if !c.Configured() {
		return nil, nil
	}

	q := url.Values{"token": {c.token}, "url": {target}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("diffbot: build request: %w", err)
	}

	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("diffbot analyze error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("diffbot analyze error: status %d", resp.StatusCode)
	}

	var parsed analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("diffbot: decode response: %w", err)
	}

	var people []core.Entity
	for _, obj := range parsed.Objects {
		name := obj.Author
		if name == "" {
			name = obj.Name
		}

		// Title is sometimes a string, sometimes an object; only the
		// string form is usable directly.
		var title string
		if len(obj.Title) > 0 && obj.Title[0] == '"' {
			_ = json.Unmarshal(obj.Title, &title)
		}

		if name != "" && title != "" {
			people = append(people, core.Entity{Name: name, Title: title, SourceURL: target})
			continue
		}

		text := obj.Text
		if text == "" {
			text = obj.HTML
		}
		for _, blob := range []string{text, title} {
			for _, match := range personPattern.FindAllStringSubmatch(blob, -1) {
				pname := strings.TrimSpace(match[1])
				ptitle := strings.TrimSpace(match[2])
				if len(ptitle) > 2 && len(strings.Fields(pname)) >= 2 {
					people = append(people, core.Entity{Name: pname, Title: ptitle, SourceURL: target})
				}
			}
		}
	}
	return dedupe(people), nil
}

func dedupe(people []core.Entity) []core.Entity {
	seen := make(map[string]bool, len(people))
	unique := people[:0:0]
	for _, p := range people {
		key := strings.ToLower(p.Name) + "|" + strings.ToLower(p.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, p)
	}
	return unique
}
