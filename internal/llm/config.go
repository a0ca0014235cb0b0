// Package llm provides LLM configuration and client abstractions for the
// résumé assistant features (summaries, bullet points, keyword extraction).
package llm

import (
	"fmt"
	"strings"
)

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: keyword extraction
	TierLite ModelTier = "lite"
	// TierStandard is for moderate tasks: bullet point generation
	TierStandard ModelTier = "standard"
	// TierAdvanced is for tasks that need more careful writing: summaries
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI provider, or any OpenAI-compatible chat completions endpoint
	ProviderOpenAI Provider = "openai"
	// ProviderAnthropic is the Anthropic/Claude provider
	ProviderAnthropic Provider = "anthropic"
)

// ParseProvider converts a provider name into a Provider.
// An empty name selects Gemini.
func ParseProvider(name string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(name))) {
	case "", ProviderGemini:
		return ProviderGemini, nil
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	case ProviderAnthropic:
		return ProviderAnthropic, nil
	default:
		return "", fmt.Errorf("unknown LLM provider %q", name)
	}
}

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
	// BaseURL overrides the provider endpoint (OpenAI-compatible gateways)
	BaseURL string
	// Headers are sent with every request
	Headers map[string]string
	// MaxTokens caps the response length for providers that require it
	MaxTokens int64
}

// DefaultConfig returns the default configuration (Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// DefaultOpenAIConfig returns the default OpenAI configuration
func DefaultOpenAIConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Models: map[ModelTier]string{
			TierLite:     "gpt-4o-mini",
			TierStandard: "gpt-4o-mini",
			TierAdvanced: "gpt-4o",
		},
		MaxTokens: 1024,
	}
}

// DefaultAnthropicConfig returns the default Anthropic configuration
func DefaultAnthropicConfig() *Config {
	return &Config{
		Provider: ProviderAnthropic,
		Models: map[ModelTier]string{
			TierLite:     "claude-3-5-haiku-latest",
			TierStandard: "claude-sonnet-4-5",
			TierAdvanced: "claude-sonnet-4-5",
		},
		MaxTokens: 1024,
	}
}

// ConfigForProvider returns the default configuration for a provider
func ConfigForProvider(provider Provider) *Config {
	switch provider {
	case ProviderOpenAI:
		return DefaultOpenAIConfig()
	case ProviderAnthropic:
		return DefaultAnthropicConfig()
	default:
		return DefaultGeminiConfig()
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return "" // No model configured
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := c.clone()
	newConfig.Models[tier] = model
	return newConfig
}

// WithBaseURL returns a new Config that talks to a different endpoint
func (c *Config) WithBaseURL(baseURL string) *Config {
	newConfig := c.clone()
	newConfig.BaseURL = baseURL
	return newConfig
}

// WithHeader returns a new Config that sends an extra header on every request
func (c *Config) WithHeader(key, value string) *Config {
	newConfig := c.clone()
	newConfig.Headers[key] = value
	return newConfig
}

func (c *Config) clone() *Config {
	newConfig := &Config{
		Provider:  c.Provider,
		Models:    make(map[ModelTier]string, len(c.Models)),
		BaseURL:   c.BaseURL,
		Headers:   make(map[string]string, len(c.Headers)),
		MaxTokens: c.MaxTokens,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	for k, v := range c.Headers {
		newConfig.Headers[k] = v
	}
	return newConfig
}

func (c *Config) maxTokens() int64 {
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 1024
}

// temperatureFor keeps keyword extraction near deterministic and gives the
// writing tiers room to vary phrasing.
func temperatureFor(tier ModelTier) float32 {
	switch tier {
	case TierLite:
		return 0.1
	case TierAdvanced:
		return 0.5
	default:
		return 0.3
	}
}
