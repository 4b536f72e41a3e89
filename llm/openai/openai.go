// Package openai adapts the OpenAI Chat Completions API to the llm.Provider
// interface used by the fallback client.
package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/inquiro/inquiro/llm"
)

// Options configure the OpenAI provider adapter. Fields mirror a minimal
// subset of Chat Completion parameters; extend via functional options.
type Options struct {
	Model  string
	APIKey string
}

// Provider wraps the OpenAI Chat Completions API behind llm.Provider.
type Provider struct {
	client *openai.Client
	opts   Options
}

// New creates a new OpenAI provider using the official client.
func New(optFns ...func(o *Options)) *Provider {
	opts := Options{Model: openai.ChatModelGPT4oMini}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := openai.NewClient(clientOpts...)

	return &Provider{client: &client, opts: opts}
}

// NewFromClient creates a provider from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Provider {
	opts := Options{Model: openai.ChatModelGPT4oMini}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Provider{client: client, opts: opts}
}

// Name implements llm.Provider.
func (p *Provider) Name() string { return "openai" }

// Generate implements llm.Provider with a single non-streaming completion.
func (p *Provider) Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (llm.Response, error) {
	model := opts.Model
	if model == "" {
		model = p.opts.Model
	}

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               model,
		Messages:            []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Temperature:         openai.Float(opts.Temperature),
		MaxCompletionTokens: openai.Int(opts.MaxTokens),
	})
	if err != nil {
		return llm.Response{}, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return llm.Response{}, fmt.Errorf("openai: no choices returned")
	}

	return llm.Response{
		Content:      resp.Choices[0].Message.Content,
		Provider:     p.Name(),
		Model:        model,
		TokensUsed:   int(resp.Usage.TotalTokens),
		ResponseTime: time.Since(start),
	}, nil
}
