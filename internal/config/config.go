// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv. Secrets are only ever read from the environment.
const (
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvLLMProvider     = "LLM_PROVIDER"
	EnvLLMBaseURL      = "LLM_BASE_URL"
	EnvLLMCustomerID   = "LLM_CUSTOMER_ID"
	EnvCompileURL      = "COMPILE_URL"
	EnvLogLevel        = "LOG_LEVEL"
	EnvPort            = "PORT"
)

// DefaultCompileURL is the public TeX Live CGI endpoint
const DefaultCompileURL = "https://texlive.net/cgi-bin/latexcgi"

var marginPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?(in|cm|mm|pt)$`)

// Config represents the application configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// LLM
	Provider   string            `json:"provider,omitempty" yaml:"provider,omitempty"`       // gemini, openai or anthropic
	Models     map[string]string `json:"models,omitempty" yaml:"models,omitempty"`           // tier (lite/standard/advanced) to model name
	BaseURL    string            `json:"base_url,omitempty" yaml:"base_url,omitempty"`       // OpenAI-compatible gateway URL
	CustomerID string            `json:"customer_id,omitempty" yaml:"customer_id,omitempty"` // sent as the customerId header
	MaxTokens  int64             `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	APIKey     string            `json:"-" yaml:"-"` // from the provider's *_API_KEY variable only

	// Compilation
	CompileMode    string `json:"compile_mode,omitempty" yaml:"compile_mode,omitempty"` // remote, local or auto
	CompileURL     string `json:"compile_url,omitempty" yaml:"compile_url,omitempty"`
	CompileTimeout string `json:"compile_timeout,omitempty" yaml:"compile_timeout,omitempty"` // Go duration, e.g. 30s
	PdflatexPath   string `json:"pdflatex_path,omitempty" yaml:"pdflatex_path,omitempty"`

	// Layout
	Paper    string `json:"paper,omitempty" yaml:"paper,omitempty"`
	FontSize string `json:"font_size,omitempty" yaml:"font_size,omitempty"`
	Margin   string `json:"margin,omitempty" yaml:"margin,omitempty"`

	// Server
	Port           int      `json:"port,omitempty" yaml:"port,omitempty"`
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`

	// Behavior
	Concurrency int    `json:"concurrency,omitempty" yaml:"concurrency,omitempty"` // parallel generation calls during enhance
	LogLevel    string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	LogFormat   string `json:"log_format,omitempty" yaml:"log_format,omitempty"` // json or pretty
	Verbose     bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Provider:       "gemini",
		CompileMode:    "remote",
		CompileURL:     DefaultCompileURL,
		CompileTimeout: "30s",
		PdflatexPath:   "pdflatex",
		Paper:          "letterpaper",
		FontSize:       "10pt",
		Margin:         "0.6in",
		Port:           8080,
		AllowedOrigins: []string{"*"},
		Concurrency:    4,
		LogLevel:       "info",
		LogFormat:      "json",
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv overlays environment values onto the configuration.
// getenv is usually os.Getenv. The API key is taken from the variable that
// matches the configured provider.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvLLMProvider); v != "" {
		c.Provider = v
	}
	if v := getenv(EnvLLMBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := getenv(EnvLLMCustomerID); v != "" {
		c.CustomerID = v
	}
	if v := getenv(EnvCompileURL); v != "" {
		c.CompileURL = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}

	switch strings.ToLower(c.Provider) {
	case "openai":
		c.APIKey = getenv(EnvOpenAIAPIKey)
	case "anthropic":
		c.APIKey = getenv(EnvAnthropicAPIKey)
	default:
		c.APIKey = getenv(EnvGeminiAPIKey)
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Provider) {
	case "", "gemini", "openai", "anthropic":
	default:
		return fmt.Errorf("config error: unknown provider %q", c.Provider)
	}

	for tier := range c.Models {
		switch tier {
		case "lite", "standard", "advanced":
		default:
			return fmt.Errorf("config error: unknown model tier %q", tier)
		}
	}

	switch c.CompileMode {
	case "", "remote", "local", "auto":
	default:
		return fmt.Errorf("config error: 'compile_mode' must be remote, local or auto")
	}

	if c.CompileTimeout != "" {
		if d, err := time.ParseDuration(c.CompileTimeout); err != nil || d <= 0 {
			return fmt.Errorf("config error: 'compile_timeout' must be a positive duration")
		}
	}

	if c.CompileURL != "" && !strings.HasPrefix(c.CompileURL, "http://") && !strings.HasPrefix(c.CompileURL, "https://") {
		return fmt.Errorf("config error: 'compile_url' must be an http(s) URL")
	}

	switch c.Paper {
	case "", "letterpaper", "a4paper":
	default:
		return fmt.Errorf("config error: 'paper' must be letterpaper or a4paper")
	}

	switch c.FontSize {
	case "", "10pt", "11pt", "12pt":
	default:
		return fmt.Errorf("config error: 'font_size' must be 10pt, 11pt or 12pt")
	}

	if c.Margin != "" && !marginPattern.MatchString(c.Margin) {
		return fmt.Errorf("config error: 'margin' must be a length such as 0.6in")
	}

	// Validate numeric ranges
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("config error: 'max_tokens' must be non-negative")
	}

	return nil
}

// CompileTimeoutDuration parses CompileTimeout, falling back to 30 seconds
func (c *Config) CompileTimeoutDuration() time.Duration {
	if d, err := time.ParseDuration(c.CompileTimeout); err == nil && d > 0 {
		return d
	}
	return 30 * time.Second
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	fillString(&result.Provider, defaults.Provider)
	fillString(&result.BaseURL, defaults.BaseURL)
	fillString(&result.CustomerID, defaults.CustomerID)
	fillString(&result.APIKey, defaults.APIKey)
	fillString(&result.CompileMode, defaults.CompileMode)
	fillString(&result.CompileURL, defaults.CompileURL)
	fillString(&result.CompileTimeout, defaults.CompileTimeout)
	fillString(&result.PdflatexPath, defaults.PdflatexPath)
	fillString(&result.Paper, defaults.Paper)
	fillString(&result.FontSize, defaults.FontSize)
	fillString(&result.Margin, defaults.Margin)
	fillString(&result.LogLevel, defaults.LogLevel)
	fillString(&result.LogFormat, defaults.LogFormat)

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.MaxTokens == 0 {
		result.MaxTokens = defaults.MaxTokens
	}

	// Collections: defaults fill in only when unset
	models := make(map[string]string, len(defaults.Models)+len(c.Models))
	for k, v := range defaults.Models {
		models[k] = v
	}
	for k, v := range c.Models {
		models[k] = v
	}
	if len(models) > 0 {
		result.Models = models
	}
	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = append([]string(nil), defaults.AllowedOrigins...)
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

func fillString(field *string, fallback string) {
	if *field == "" {
		*field = fallback
	}
}
