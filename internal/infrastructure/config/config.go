package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DefaultBaseURL is the production origin of the browser-provisioning service.
const DefaultBaseURL = "https://production.cloudbrowser.ai"

// DefaultTimeout bounds a single call when the caller gives no timeout.
const DefaultTimeout = 2 * time.Minute

// DefaultMaxResponseBytes caps a response body read into memory.
const DefaultMaxResponseBytes = 10 << 20

// Config holds all client configuration.
type Config struct {
	API       APIConfig
	Transport TransportConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Breaker   BreakerConfig
}

// APIConfig holds service endpoint and credential settings.
type APIConfig struct {
	Token   string `envconfig:"CLOUDBROWSER_TOKEN"`
	BaseURL string `envconfig:"CLOUDBROWSER_BASE_URL" default:"https://production.cloudbrowser.ai"`
}

// TransportConfig holds HTTP transport settings.
type TransportConfig struct {
	Timeout          time.Duration `envconfig:"CLOUDBROWSER_TIMEOUT" default:"2m"`
	MaxResponseBytes int64         `envconfig:"CLOUDBROWSER_MAX_RESPONSE_BYTES" default:"10485760"`
	UserAgent        string        `envconfig:"CLOUDBROWSER_USER_AGENT" default:"cloudbrowser-go/1.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds client-side rate limiting. Zero RPS means unlimited.
type RateLimitConfig struct {
	RequestsPerSecond float64 `envconfig:"RATE_LIMIT_RPS" default:"0"`
	Burst             int     `envconfig:"RATE_LIMIT_BURST" default:"1"`
}

// BreakerConfig holds circuit breaker configuration.
type BreakerConfig struct {
	Enabled     bool          `envconfig:"BREAKER_ENABLED" default:"true"`
	MaxFailures uint32        `envconfig:"BREAKER_MAX_FAILURES" default:"10"`
	OpenTimeout time.Duration `envconfig:"BREAKER_OPEN_TIMEOUT" default:"30s"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
		},
		Transport: TransportConfig{
			Timeout:          DefaultTimeout,
			MaxResponseBytes: DefaultMaxResponseBytes,
			UserAgent:        "cloudbrowser-go/1.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 0,
			Burst:             1,
		},
		Breaker: BreakerConfig{
			Enabled:     true,
			MaxFailures: 10,
			OpenTimeout: 30 * time.Second,
		},
	}
}

// Validate checks values envconfig cannot express as constraints.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base url must use http or https scheme, got %q", u.Scheme)
	}
	if c.Transport.Timeout <= 0 {
		return errors.New("transport timeout must be positive")
	}
	if c.Transport.MaxResponseBytes <= 0 {
		return errors.New("max response bytes must be positive")
	}
	if c.RateLimit.RequestsPerSecond < 0 {
		return errors.New("requests per second cannot be negative")
	}
	return nil
}
