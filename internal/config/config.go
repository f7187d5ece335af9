// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the application configuration that can be loaded from a
// JSON file. All fields are optional; missing values use defaults or must be
// provided via CLI flags.
type Config struct {
	// Service
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Port        int    `json:"port,omitempty"`         // HTTP listen port

	// Content defaults
	Language       string `json:"language,omitempty"`         // Default article language
	TotalWordCount int    `json:"total_word_count,omitempty"` // Default outline word-count target

	// Research
	UseBrowser   bool `json:"use_browser,omitempty"`   // Headless browser fallback for SPA competitor pages
	MaxCoverage  int  `json:"max_coverage,omitempty"`  // Maximum competitor URLs fetched per brief
	Verbose      bool `json:"verbose,omitempty"`       // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

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

// Validate checks that the configuration has valid values. Required fields
// are enforced later by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}
	if c.TotalWordCount < 0 {
		return fmt.Errorf("config error: 'total_word_count' must be non-negative")
	}
	if c.MaxCoverage < 0 {
		return fmt.Errorf("config error: 'max_coverage' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. Used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Language == "" {
		result.Language = defaults.Language
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.TotalWordCount == 0 {
		result.TotalWordCount = defaults.TotalWordCount
	}
	if result.MaxCoverage == 0 {
		result.MaxCoverage = defaults.MaxCoverage
	}

	return result
}
