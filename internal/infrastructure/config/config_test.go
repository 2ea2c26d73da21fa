package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "stdout", cfg.Log.Output)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("INVOICEDESK_API_BASE_URL", "https://billing.internal:9443")
	t.Setenv("INVOICEDESK_API_TIMEOUT", "30s")
	t.Setenv("INVOICEDESK_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://billing.internal:9443", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			API: APIConfig{BaseURL: "http://localhost:8000", Timeout: 10 * time.Second},
			Log: LogConfig{Level: "info", Format: "console", Output: "stdout"},
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("relative base URL rejected", func(t *testing.T) {
		cfg := valid()
		cfg.API.BaseURL = "localhost:8000"
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive timeout rejected", func(t *testing.T) {
		cfg := valid()
		cfg.API.Timeout = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown log format rejected", func(t *testing.T) {
		cfg := valid()
		cfg.Log.Format = "xml"
		assert.Error(t, cfg.Validate())
	})
}
