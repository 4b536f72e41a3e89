package llm

import (
	"context"
	"time"
)

// GenerateOptions are the per-call generation parameters passed to a
// provider. Model may be empty, in which case the provider uses its default.
type GenerateOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int64
	Timeout     time.Duration
}

// Response is a successful generation result from one provider.
type Response struct {
	Content      string
	Provider     string
	Model        string
	TokensUsed   int
	ResponseTime time.Duration
}

// Provider is a single backing language-model implementation. Generate
// issues one bounded call and returns the produced text or an error; the
// client owns retry and fallback policy.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (Response, error)
}
