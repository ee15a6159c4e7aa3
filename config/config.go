package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	PNCP       PNCPConfig
	Extraction ExtractionConfig
}

// ServerConfig holds web-server configuration
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	JobTTL         time.Duration `mapstructure:"job_ttl"`
}

// PNCPConfig holds PNCP API configuration
type PNCPConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	PortalURL      string        `mapstructure:"portal_url"`
	UserAgent      string        `mapstructure:"user_agent"`
	SearchPageSize int           `mapstructure:"search_page_size"`
	ItemsPageSize  int           `mapstructure:"items_page_size"`
	MaxRetries     int           `mapstructure:"max_retries"`
	BackoffBase    time.Duration `mapstructure:"backoff_base"`
	RateLimit      float64       `mapstructure:"rate_limit"` // seconds between requests
	Timeout        time.Duration `mapstructure:"timeout"`
}

// ExtractionConfig holds default extraction parameters
type ExtractionConfig struct {
	MaxProcesses   int    `mapstructure:"max_processes"`
	FuzzyThreshold int    `mapstructure:"fuzzy_threshold"`
	OutputDir      string `mapstructure:"output_dir"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pncpbot/")

	// Environment variable settings
	v.SetEnvPrefix("PNCPBOT")
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.job_ttl", "24h")

	// PNCP defaults
	v.SetDefault("pncp.base_url", "https://pncp.gov.br")
	v.SetDefault("pncp.portal_url", "https://pncp.gov.br/app/editais")
	v.SetDefault("pncp.user_agent",
		"PNCP-Bot/1.0 (Automated public procurement data extraction; contact: pncpbot@example.com)")
	v.SetDefault("pncp.search_page_size", 50)
	v.SetDefault("pncp.items_page_size", 500)
	v.SetDefault("pncp.max_retries", 3)
	v.SetDefault("pncp.backoff_base", "2s")
	v.SetDefault("pncp.rate_limit", 1.0)
	v.SetDefault("pncp.timeout", "30s")

	// Extraction defaults
	v.SetDefault("extraction.max_processes", 100)
	v.SetDefault("extraction.fuzzy_threshold", 80)
	v.SetDefault("extraction.output_dir", "./output")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.PNCP.BaseURL == "" {
		return fmt.Errorf("PNCP base URL is required (set PNCPBOT_PNCP_BASE_URL)")
	}

	if config.PNCP.SearchPageSize <= 0 || config.PNCP.ItemsPageSize <= 0 {
		return fmt.Errorf("page sizes must be positive")
	}

	if config.Extraction.FuzzyThreshold < 0 || config.Extraction.FuzzyThreshold > 100 {
		return fmt.Errorf("fuzzy threshold must be 0-100, got: %d", config.Extraction.FuzzyThreshold)
	}

	if config.PNCP.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative, got: %f", config.PNCP.RateLimit)
	}

	return nil
}
