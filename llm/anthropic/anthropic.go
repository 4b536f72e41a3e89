// Package anthropic adapts the Anthropic Messages API to the llm.Provider
// interface used by the fallback client.
package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/inquiro/inquiro/llm"
)

// Options configure the Anthropic provider adapter.
type Options struct {
	Model  anthropic.Model
	APIKey string
}

// Provider wraps the Anthropic Messages API behind llm.Provider.
type Provider struct {
	client *anthropic.Client
	opts   Options
}

// New creates a new Anthropic provider using the official client.
func New(optFns ...func(o *Options)) *Provider {
	opts := Options{Model: anthropic.ModelClaude3_5Sonnet20241022}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Provider{client: &client, opts: opts}
}

// NewFromClient creates a provider from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Provider {
	opts := Options{Model: anthropic.ModelClaude3_5Sonnet20241022}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Provider{client: client, opts: opts}
}

// Name implements llm.Provider.
func (p *Provider) Name() string { return "anthropic" }

// Generate implements llm.Provider with a single non-streaming message call.
func (p *Provider) Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (llm.Response, error) {
	model := p.opts.Model
	if opts.Model != "" {
		model = anthropic.Model(opts.Model)
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	start := time.Now()
	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(opts.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return llm.Response{}, fmt.Errorf("anthropic api error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}

	return llm.Response{
		Content:      sb.String(),
		Provider:     p.Name(),
		Model:        string(model),
		TokensUsed:   int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		ResponseTime: time.Since(start),
	}, nil
}
