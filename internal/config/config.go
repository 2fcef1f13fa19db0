package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/turfaa/halodoc-medisend-api/pkg/config"
)

// Config holds all configuration for the medisend command.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Medisend API
	BaseURL   string `env:"MEDISEND_BASE_URL" envDefault:"https://medisend.api.halodoc.com/api/v1"`
	UserID    string `env:"MEDISEND_USER_ID,required"`
	SessionID string `env:"MEDISEND_SESSION_ID,required"`
	PerPage   int    `env:"MEDISEND_PER_PAGE" envDefault:"20"`
	MaxPages  int    `env:"MEDISEND_MAX_PAGES" envDefault:"1000"`

	// HTTP client
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	HTTPMaxRetries   int           `env:"HTTP_MAX_RETRIES" envDefault:"0"`
	HTTPRetryWaitMin time.Duration `env:"HTTP_RETRY_WAIT_MIN" envDefault:"1s"`
	HTTPRetryWaitMax time.Duration `env:"HTTP_RETRY_WAIT_MAX" envDefault:"5s"`

	// Circuit breaker
	CBEnabled      bool    `env:"CIRCUIT_BREAKER_ENABLED" envDefault:"false"`
	CBMaxRequests  uint32  `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBInterval     int     `env:"CB_INTERVAL_SECONDS" envDefault:"60"`
	CBTimeout      int     `env:"CB_TIMEOUT_SECONDS" envDefault:"30"`
	CBFailureRatio float64 `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32  `env:"CB_MIN_REQUESTS" envDefault:"5"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load medisend config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid MEDISEND_BASE_URL: %q", c.BaseURL)
	}
	if c.PerPage < 1 {
		return fmt.Errorf("invalid MEDISEND_PER_PAGE: %d", c.PerPage)
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("invalid MEDISEND_MAX_PAGES: %d", c.MaxPages)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("invalid HTTP_TIMEOUT: %s", c.HTTPTimeout)
	}
	if c.HTTPMaxRetries < 0 {
		return fmt.Errorf("invalid HTTP_MAX_RETRIES: %d", c.HTTPMaxRetries)
	}
	if c.HTTPRetryWaitMin > c.HTTPRetryWaitMax {
		return fmt.Errorf("HTTP_RETRY_WAIT_MIN (%s) exceeds HTTP_RETRY_WAIT_MAX (%s)", c.HTTPRetryWaitMin, c.HTTPRetryWaitMax)
	}
	if c.CBFailureRatio <= 0 || c.CBFailureRatio > 1 {
		return fmt.Errorf("invalid CB_FAILURE_RATIO: %v", c.CBFailureRatio)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		return fmt.Errorf("invalid OTEL_SAMPLE_RATE: %v", c.OTELSampleRate)
	}
	return nil
}
