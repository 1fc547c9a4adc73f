// Package config provides configuration loading and validation.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents application configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults, environment
// variables, or CLI flags.
type Config struct {
	Port        int    `json:"port,omitempty"`         // HTTP server port
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// Integrations
	GeminiAPIKey    string `json:"gemini_api_key,omitempty"`   // LLM API key
	EventbriteToken string `json:"eventbrite_token,omitempty"` // Event listing API token

	// Recommendation behavior
	DefaultLocation string  `json:"default_location,omitempty"` // Location for event ingestion
	MinScore        float64 `json:"min_score,omitempty"`        // Recommendation score threshold
	TopN            int     `json:"top_n,omitempty"`            // Recommendation result cap

	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
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
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables.
func FromEnv() *Config {
	return &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		EventbriteToken: os.Getenv("EVENTBRITE_TOKEN"),
		DefaultLocation: os.Getenv("DEFAULT_LOCATION"),
	}
}

// Validate checks that the configuration has valid values.
// Required fields are enforced later by the commands that need them.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}
	if c.MinScore < 0 || c.MinScore > 100 {
		return fmt.Errorf("config error: 'min_score' must be within [0,100]")
	}
	if c.TopN < 0 {
		return fmt.Errorf("config error: 'top_n' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags and environment variables.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.EventbriteToken == "" {
		result.EventbriteToken = defaults.EventbriteToken
	}
	if result.DefaultLocation == "" {
		result.DefaultLocation = defaults.DefaultLocation
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MinScore == 0 {
		result.MinScore = defaults.MinScore
	}
	if result.TopN == 0 {
		result.TopN = defaults.TopN
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
