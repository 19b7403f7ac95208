// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Server
	Port        int    `json:"port,omitempty"`         // HTTP listen port
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// Scraping
	UseBrowser    bool `json:"use_browser,omitempty"`    // Use headless browser for SPA sites
	Verbose       bool `json:"verbose,omitempty"`        // Print detailed debug information
	ScrapeTimeout int  `json:"scrape_timeout,omitempty"` // Per-fetch timeout in seconds

	// Deduplication
	DedupWindowDays    int     `json:"dedup_window_days,omitempty"`    // Lookback window for duplicate candidates
	DedupMaxCandidates int     `json:"dedup_max_candidates,omitempty"` // Max recent records compared per capture
	TitleThreshold     float64 `json:"title_threshold,omitempty"`      // Similarity ratio for title matches (0.0-1.0)
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

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.ScrapeTimeout < 0 {
		return fmt.Errorf("config error: 'scrape_timeout' must be non-negative")
	}
	if c.DedupWindowDays < 0 {
		return fmt.Errorf("config error: 'dedup_window_days' must be non-negative")
	}
	if c.DedupMaxCandidates < 0 {
		return fmt.Errorf("config error: 'dedup_max_candidates' must be non-negative")
	}
	if c.TitleThreshold < 0 || c.TitleThreshold > 1 {
		return fmt.Errorf("config error: 'title_threshold' must be between 0.0 and 1.0")
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.ScrapeTimeout == 0 {
		result.ScrapeTimeout = defaults.ScrapeTimeout
	}
	if result.DedupWindowDays == 0 {
		result.DedupWindowDays = defaults.DedupWindowDays
	}
	if result.DedupMaxCandidates == 0 {
		result.DedupMaxCandidates = defaults.DedupMaxCandidates
	}

	if result.TitleThreshold == 0 {
		if defaults.TitleThreshold > 0 {
			result.TitleThreshold = defaults.TitleThreshold
		} else {
			result.TitleThreshold = 0.85 // Default similarity cutoff for titles
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
