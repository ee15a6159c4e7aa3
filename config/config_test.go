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

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, 24*time.Hour, cfg.Server.JobTTL)

	assert.Equal(t, "https://pncp.gov.br", cfg.PNCP.BaseURL)
	assert.Equal(t, "https://pncp.gov.br/app/editais", cfg.PNCP.PortalURL)
	assert.Equal(t, 50, cfg.PNCP.SearchPageSize)
	assert.Equal(t, 500, cfg.PNCP.ItemsPageSize)
	assert.Equal(t, 3, cfg.PNCP.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.PNCP.BackoffBase)
	assert.Equal(t, 1.0, cfg.PNCP.RateLimit)
	assert.Equal(t, 30*time.Second, cfg.PNCP.Timeout)

	assert.Equal(t, 100, cfg.Extraction.MaxProcesses)
	assert.Equal(t, 80, cfg.Extraction.FuzzyThreshold)
	assert.Equal(t, "./output", cfg.Extraction.OutputDir)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			PNCP: PNCPConfig{
				BaseURL:        "https://pncp.gov.br",
				SearchPageSize: 50,
				ItemsPageSize:  500,
				RateLimit:      1.0,
			},
			Extraction: ExtractionConfig{FuzzyThreshold: 80},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validate(base()))
	})

	t.Run("missing base URL", func(t *testing.T) {
		cfg := base()
		cfg.PNCP.BaseURL = ""
		assert.Error(t, validate(cfg))
	})

	t.Run("non-positive page size", func(t *testing.T) {
		cfg := base()
		cfg.PNCP.SearchPageSize = 0
		assert.Error(t, validate(cfg))
	})

	t.Run("fuzzy threshold out of range", func(t *testing.T) {
		cfg := base()
		cfg.Extraction.FuzzyThreshold = 101
		assert.Error(t, validate(cfg))
	})

	t.Run("negative rate limit", func(t *testing.T) {
		cfg := base()
		cfg.PNCP.RateLimit = -0.5
		assert.Error(t, validate(cfg))
	})
}

func TestIsValidUF(t *testing.T) {
	assert.True(t, IsValidUF("BA"))
	assert.True(t, IsValidUF("SP"))
	assert.False(t, IsValidUF("ba"))
	assert.False(t, IsValidUF("XX"))
	assert.False(t, IsValidUF(""))
}
