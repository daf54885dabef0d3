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
	// Paths
	Surveys    string `json:"surveys,omitempty"`    // Path to survey submissions JSON file
	Candidates string `json:"candidates,omitempty"` // Path to item candidates JSON file

	// Trip
	Trip         string `json:"trip,omitempty"`          // Trip identifier
	ExpectedSize int    `json:"expected_size,omitempty"` // Roster-size hint for coverage

	// Scoring
	Alpha float64 `json:"alpha,omitempty"` // Cosine weight in the blended score (0.0-1.0)
	TopK  int     `json:"top_k,omitempty"` // Number of ranked items to print

	// Behavior
	APIKey             string `json:"api_key,omitempty"`             // Gemini API key
	DatabaseURL        string `json:"database_url,omitempty"`        // PostgreSQL connection URL
	EmbeddingProvider  string `json:"embedding_provider,omitempty"`  // "gemini" or "local"
	EmbeddingDimension int    `json:"embedding_dimension,omitempty"` // Local embedder dimension
	Verbose            bool   `json:"verbose,omitempty"`             // Print detailed debug information
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

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Alpha < 0 || c.Alpha > 1 {
		return fmt.Errorf("config error: 'alpha' must be between 0 and 1")
	}
	if c.ExpectedSize < 0 {
		return fmt.Errorf("config error: 'expected_size' must be non-negative")
	}
	if c.TopK < 0 {
		return fmt.Errorf("config error: 'top_k' must be non-negative")
	}
	if c.EmbeddingDimension < 0 {
		return fmt.Errorf("config error: 'embedding_dimension' must be non-negative")
	}
	if p := c.EmbeddingProvider; p != "" && p != "gemini" && p != "local" {
		return fmt.Errorf("config error: unknown embedding provider: %s", p)
	}

	if c.Surveys != "" {
		if _, err := os.Stat(c.Surveys); os.IsNotExist(err) {
			return fmt.Errorf("config error: surveys file not found: %s", c.Surveys)
		}
	}
	if c.Candidates != "" {
		if _, err := os.Stat(c.Candidates); os.IsNotExist(err) {
			return fmt.Errorf("config error: candidates file not found: %s", c.Candidates)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Surveys == "" {
		result.Surveys = defaults.Surveys
	}
	if result.Candidates == "" {
		result.Candidates = defaults.Candidates
	}
	if result.Trip == "" {
		result.Trip = defaults.Trip
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.EmbeddingProvider == "" {
		result.EmbeddingProvider = defaults.EmbeddingProvider
	}

	if result.ExpectedSize == 0 {
		result.ExpectedSize = defaults.ExpectedSize
	}
	if result.TopK == 0 {
		result.TopK = defaults.TopK
	}
	if result.EmbeddingDimension == 0 {
		result.EmbeddingDimension = defaults.EmbeddingDimension
	}

	if result.Alpha == 0 {
		result.Alpha = defaults.Alpha
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
