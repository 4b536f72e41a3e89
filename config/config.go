// Package config loads engine configuration from the environment. Only key
// names are fixed here; absent optional keys simply disable the matching
// enrichment stage.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries every environment-driven knob for the engine. At least one
// LLM provider key and the search provider key are required for live use;
// everything else is optional.
type Config struct {
	// Search provider (primary retrieval).
	TavilyAPIKey string `env:"TAVILY_API_KEY"`

	// LLM providers, tried in PrimaryProvider-first order.
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	PrimaryProvider string `env:"INQUIRO_PRIMARY_PROVIDER" envDefault:"gemini"`

	// Optional enrichment providers.
	DiffbotToken       string `env:"DIFFBOT_TOKEN"`
	RapidAPIKey        string `env:"RAPIDAPI_KEY"`
	BrightDataURL      string `env:"BRIGHTDATA_URL"`
	BrightDataAPIToken string `env:"BRIGHTDATA_API_TOKEN"`

	// Generation parameters.
	Temperature float64       `env:"INQUIRO_TEMPERATURE" envDefault:"0.1"`
	MaxTokens   int64         `env:"INQUIRO_MAX_TOKENS" envDefault:"4000"`
	CallTimeout time.Duration `env:"INQUIRO_CALL_TIMEOUT" envDefault:"30s"`

	// Minimum interval between calls to the same provider.
	RateLimitInterval time.Duration `env:"INQUIRO_RATE_LIMIT" envDefault:"1s"`

	// Run behavior: "continue" keeps going past failed sub-questions,
	// "stop" aborts on the first failure.
	FailurePolicy string `env:"INQUIRO_FAILURE_POLICY" envDefault:"continue"`
}

// Load parses configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// HasLLMProvider reports whether at least one language-model key is set.
func (c Config) HasLLMProvider() bool {
	return c.OpenAIAPIKey != "" || c.AnthropicAPIKey != "" || c.GeminiAPIKey != ""
}
