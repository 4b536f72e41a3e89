package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/inquiro/inquiro/core"
	"github.com/inquiro/inquiro/logging"
)

// Short responses containing one of these phrases are treated as provider
// errors and trigger fallback to the next candidate.
var errorIndicators = []string{"error", "sorry", "cannot", "unable to"}

// Options configure the fallback client.
type Options struct {
	// Models maps a task type ("question_decomposition", "synthesis", ...)
	// to a model identifier passed through to the provider. Unknown task
	// types use the provider default.
	Models map[string]string
	// Temperature for every call. Low by default for consistency.
	Temperature float64
	// MaxTokens bounds each completion.
	MaxTokens int64
	// CallTimeout bounds each individual provider call.
	CallTimeout time.Duration
	// RateLimitInterval is the minimum spacing between two calls to the
	// same provider. Zero disables rate limiting.
	RateLimitInterval time.Duration
	// MinResponseLength rejects degenerate completions.
	MinResponseLength int
	// Logger receives per-call diagnostics.
	Logger logging.Logger
}

// Client issues generation calls against an ordered provider chain,
// returning the first valid response. Safe for concurrent use.
type Client struct {
	providers []Provider
	opts      Options

	mu       sync.Mutex
	lastCall map[string]time.Time
}

// New constructs a Client over the given providers, tried in order. Callers
// pass only configured providers; the chain is never reordered afterwards.
func New(providers []Provider, optFns ...func(o *Options)) *Client {
	opts := Options{
		Temperature:       0.1,
		MaxTokens:         4000,
		CallTimeout:       30 * time.Second,
		MinResponseLength: 10,
		Logger:            logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{
		providers: providers,
		opts:      opts,
		lastCall:  make(map[string]time.Time),
	}
}

// Providers returns the names of the configured chain in order.
func (c *Client) Providers() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// Generate tries each provider in chain order and returns the first valid
// response. It returns core.ErrAllProvidersFailed when the whole chain is
// exhausted; callers are expected to hold a deterministic local fallback.
func (c *Client) Generate(ctx context.Context, prompt, taskType string) (Response, error) {
	if len(c.providers) == 0 {
		return Response{}, fmt.Errorf("%w: empty provider chain", core.ErrAllProvidersFailed)
	}

	opts := GenerateOptions{
		Model:       c.opts.Models[taskType],
		Temperature: c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
		Timeout:     c.opts.CallTimeout,
	}

	var lastErr error
	for _, p := range c.providers {
		if err := c.waitTurn(ctx, p.Name()); err != nil {
			return Response{}, err
		}

		callCtx, cancel := context.WithTimeout(ctx, c.opts.CallTimeout)
		start := time.Now()
		resp, err := p.Generate(callCtx, prompt, opts)
		cancel()

		logging.LogProviderCall(c.opts.Logger, p.Name(), opts.Model, resp.TokensUsed, time.Since(start), err)

		if err != nil {
			lastErr = err
			continue
		}
		if !c.validate(resp) {
			lastErr = fmt.Errorf("invalid response from %s", p.Name())
			c.opts.Logger.Warn("discarding invalid response", "provider", p.Name())
			continue
		}
		return resp, nil
	}

	if lastErr != nil {
		return Response{}, fmt.Errorf("%w: %v", core.ErrAllProvidersFailed, lastErr)
	}
	return Response{}, core.ErrAllProvidersFailed
}

// GenerateJSON wraps Generate with a JSON-only instruction and parses the
// outermost brace pair of the returned text. Parse failures map to
// core.ErrMalformedJSON, which callers treat like provider unavailability.
func (c *Client) GenerateJSON(ctx context.Context, prompt, taskType string) (map[string]any, error) {
	jsonPrompt := prompt + "\n\nReturn your response as valid JSON only. Do not include any text outside the JSON structure."

	resp, err := c.Generate(ctx, jsonPrompt, taskType)
	if err != nil {
		return nil, err
	}

	payload, err := ExtractJSON(resp.Content)
	if err != nil {
		c.opts.Logger.Error("structured generation parse failure", "provider", resp.Provider, "error", err.Error())
		return nil, err
	}
	return payload, nil
}

// ExtractJSON locates the outermost brace pair in text and unmarshals it.
// Providers routinely wrap JSON in prose or code fences; everything outside
// the braces is ignored.
func ExtractJSON(text string) (map[string]any, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no json object found", core.ErrMalformedJSON)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedJSON, err)
	}
	return payload, nil
}

// validate applies the response quality heuristics: non-empty, minimum
// length, and no short error-phrase completions.
func (c *Client) validate(resp Response) bool {
	content := strings.TrimSpace(resp.Content)
	if len(content) < c.opts.MinResponseLength {
		return false
	}
	lower := strings.ToLower(content)
	for _, indicator := range errorIndicators {
		if strings.Contains(lower, indicator) && len(content) < 100 {
			return false
		}
	}
	return true
}

// waitTurn enforces the per-provider rate-limit interval. The last-call
// timestamp is the client's only mutable shared state; updating it under the
// mutex keeps concurrent sub-question execution within the interval.
func (c *Client) waitTurn(ctx context.Context, provider string) error {
	if c.opts.RateLimitInterval <= 0 {
		return nil
	}

	c.mu.Lock()
	now := time.Now()
	wait := c.opts.RateLimitInterval - now.Sub(c.lastCall[provider])
	if wait < 0 {
		wait = 0
	}
	c.lastCall[provider] = now.Add(wait)
	c.mu.Unlock()

	if wait == 0 {
		return nil
	}
	select {
	case <-time.After(wait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
