package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseURL string        `env:"TEST_CFG_BASE_URL" envDefault:"http://localhost:8080"`
	PerPage int           `env:"TEST_CFG_PER_PAGE" envDefault:"20"`
	Timeout time.Duration `env:"TEST_CFG_TIMEOUT" envDefault:"30s"`
	Debug   bool          `env:"TEST_CFG_DEBUG" envDefault:"false"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, 20, cfg.PerPage)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.False(t, cfg.Debug)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_CFG_BASE_URL", "https://staging.example.com/api/v1")
	t.Setenv("TEST_CFG_PER_PAGE", "50")
	t.Setenv("TEST_CFG_TIMEOUT", "2s")
	t.Setenv("TEST_CFG_DEBUG", "true")

	var cfg testConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.com/api/v1", cfg.BaseURL)
	assert.Equal(t, 50, cfg.PerPage)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.True(t, cfg.Debug)
}

type requiredConfig struct {
	SessionID string `env:"TEST_CFG_SESSION_ID,required"`
}

func TestLoad_RequiredFieldMissing(t *testing.T) {
	var cfg requiredConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_RequiredFieldPresent(t *testing.T) {
	t.Setenv("TEST_CFG_SESSION_ID", "sess-123")

	var cfg requiredConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, "sess-123", cfg.SessionID)
}

func TestLoad_InvalidType(t *testing.T) {
	t.Setenv("TEST_CFG_PER_PAGE", "not-a-number")

	var cfg testConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
