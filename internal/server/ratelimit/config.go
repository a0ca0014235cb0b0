package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by LoadConfig
const (
	EnvEnabled         = "RATE_LIMIT_ENABLED"
	EnvDefaultLimit    = "RATE_LIMIT_DEFAULT_LIMIT"
	EnvDefaultWindow   = "RATE_LIMIT_DEFAULT_WINDOW"
	EnvAILimit         = "RATE_LIMIT_AI_LIMIT"
	EnvCompileLimit    = "RATE_LIMIT_COMPILE_LIMIT"
	EnvCleanupInterval = "RATE_LIMIT_CLEANUP_INTERVAL"
	EnvWhitelist       = "RATE_LIMIT_WHITELIST"
	EnvBlacklist       = "RATE_LIMIT_BLACKLIST"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends with "/"
	Method string        // HTTP method
	Limit  int           // requests per window
	Window time.Duration // refill window
	Burst  int           // bucket capacity, defaults to Limit
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// DefaultConfig returns the built-in limits.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       map[string]bool{},
		Blacklist:       map[string]bool{},
		EndpointConfigs: DefaultEndpointConfigs(30, 20),
	}
}

// LoadConfig loads rate limiting configuration from the process environment.
func LoadConfig() *Config {
	return LoadConfigFrom(os.Getenv)
}

// LoadConfigFrom loads rate limiting configuration using getenv for lookups.
func LoadConfigFrom(getenv func(string) string) *Config {
	env := envReader(getenv)
	if !env.boolean(EnvEnabled, true) {
		return &Config{Enabled: false}
	}

	cfg := DefaultConfig()
	cfg.DefaultLimit = env.integer(EnvDefaultLimit, cfg.DefaultLimit)
	cfg.DefaultWindow = env.duration(EnvDefaultWindow, cfg.DefaultWindow)
	cfg.CleanupInterval = env.duration(EnvCleanupInterval, cfg.CleanupInterval)
	cfg.Whitelist = parseIPList(getenv(EnvWhitelist))
	cfg.Blacklist = parseIPList(getenv(EnvBlacklist))
	cfg.EndpointConfigs = DefaultEndpointConfigs(
		env.integer(EnvAILimit, 30),
		env.integer(EnvCompileLimit, 20),
	)
	return cfg
}

// DefaultEndpointConfigs returns per-endpoint limits. Text generation is the
// strictest tier, PDF compilation next, cheap rendering uses the default.
// GET /health is never limited.
func DefaultEndpointConfigs(aiPerHour, compilePerHour int) []EndpointConfig {
	return []EndpointConfig{
		{Path: "/api/ai/", Method: "POST", Limit: aiPerHour, Window: time.Hour, Burst: 5},
		{Path: "/api/records/enhance", Method: "POST", Limit: aiPerHour / 3, Window: time.Hour, Burst: 2},
		{Path: "/api/compile-pdf", Method: "POST", Limit: compilePerHour, Window: time.Hour, Burst: 3},
	}
}

type envReader func(string) string

func (e envReader) integer(key string, fallback int) int {
	if value := e(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func (e envReader) boolean(key string, fallback bool) bool {
	if value := e(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func (e envReader) duration(key string, fallback time.Duration) time.Duration {
	if value := e(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
