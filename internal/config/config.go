// Package config loads the horoscope CLI configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mcmodersd/astrology/prokerala"
)

// Config is the top-level CLI configuration.
type Config struct {
	Credentials CredentialsConfig `yaml:"credentials"`
	API         APIConfig         `yaml:"api"`
}

// CredentialsConfig carries the API credential pairs as parallel lists, in
// rotation order.
type CredentialsConfig struct {
	ClientIDs     []string `yaml:"client_ids"`
	ClientSecrets []string `yaml:"client_secrets"`
}

// APIConfig carries shared client settings. Zero values fall back to the
// client defaults.
type APIConfig struct {
	TokenURL         string        `yaml:"token_url"`
	PredictionURL    string        `yaml:"prediction_url"`
	RequestTimeoutMS int           `yaml:"request_timeout_ms"`
	RateLimitRPS     float64       `yaml:"rate_limit_rps"`
	UserAgent        string        `yaml:"user_agent"`
	Breaker          BreakerConfig `yaml:"breaker"`
}

// BreakerConfig mirrors the per-client circuit breaker settings.
type BreakerConfig struct {
	Disabled            bool   `yaml:"disabled"`
	ConsecutiveFailures uint32 `yaml:"consecutive_failures"`
	OpenTimeoutMS       int    `yaml:"open_timeout_ms"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the credential lists line up.
func (c *Config) Validate() error {
	ids := len(c.Credentials.ClientIDs)
	secrets := len(c.Credentials.ClientSecrets)
	if ids != secrets {
		return fmt.Errorf("credentials: %d client_ids but %d client_secrets", ids, secrets)
	}
	if c.API.RateLimitRPS < 0 {
		return fmt.Errorf("api: rate_limit_rps must not be negative")
	}
	return nil
}

// ClientConfig converts the API section into a base client configuration.
func (c *Config) ClientConfig() prokerala.Config {
	return prokerala.Config{
		TokenURL:       c.API.TokenURL,
		PredictionURL:  c.API.PredictionURL,
		RequestTimeout: time.Duration(c.API.RequestTimeoutMS) * time.Millisecond,
		RateLimitRPS:   c.API.RateLimitRPS,
		UserAgent:      c.API.UserAgent,
		Breaker: prokerala.BreakerConfig{
			Disabled:            c.API.Breaker.Disabled,
			ConsecutiveFailures: c.API.Breaker.ConsecutiveFailures,
			OpenTimeout:         time.Duration(c.API.Breaker.OpenTimeoutMS) * time.Millisecond,
		},
	}
}
