// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/candidate-research/internal/secrets"
)

// Config represents configuration that can be loaded from a JSON file. All
// fields are optional; missing values fall back to environment variables or
// CLI flags.
type Config struct {
	// Providers
	SearchProvider string `json:"search_provider,omitempty"` // tavily (default), exa, or google
	GeminiAPIKey   string `json:"gemini_api_key,omitempty"`
	// GeminiFallbackModel, when set, is tried for every tier after the
	// primary model fails.
	GeminiFallbackModel string `json:"gemini_fallback_model,omitempty"`
	TavilyAPIKey   string `json:"tavily_api_key,omitempty"`
	ExaAPIKey      string `json:"exa_api_key,omitempty"`
	GoogleAPIKey   string `json:"google_api_key,omitempty"`
	GoogleCSEID    string `json:"google_cse_id,omitempty"` // programmable search engine ID

	// Pipeline tuning
	NumberOfQueries     int     `json:"number_of_queries,omitempty"`
	ConfidenceThreshold float64 `json:"confidence_threshold,omitempty"`

	// Services
	DatabaseURL  string `json:"database_url,omitempty"`
	EvalEndpoint string `json:"eval_endpoint,omitempty"`

	// Server
	ListenAddr string `json:"listen_addr,omitempty"`
	JWTSecret  string `json:"jwt_secret,omitempty"`

	// Behavior
	Verbose bool `json:"verbose,omitempty"`
	JSONLog bool `json:"json_log,omitempty"`
}

// Load reads configuration from a JSON file.
func Load(path string) (*Config, error) {
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

// ApplyEnv fills empty fields from environment variables.
func (c *Config) ApplyEnv() {
	fromEnv := func(target *string, env string) {
		if *target == "" {
			*target = os.Getenv(env)
		}
	}
	fromEnv(&c.SearchProvider, "SEARCH_PROVIDER")
	fromEnv(&c.GeminiAPIKey, "GEMINI_API_KEY")
	fromEnv(&c.GeminiFallbackModel, "GEMINI_FALLBACK_MODEL")
	fromEnv(&c.TavilyAPIKey, "TAVILY_API_KEY")
	fromEnv(&c.ExaAPIKey, "EXA_API_KEY")
	fromEnv(&c.GoogleAPIKey, "GOOGLE_API_KEY")
	fromEnv(&c.GoogleCSEID, "GOOGLE_CSE_ID")
	fromEnv(&c.DatabaseURL, "DATABASE_URL")
	fromEnv(&c.EvalEndpoint, "EVAL_ENDPOINT")
	fromEnv(&c.JWTSecret, "JWT_SECRET")
}

// Validate checks value ranges and provider choice. Required credentials are
// checked at wiring time, where it is known which providers will be used.
func (c *Config) Validate() error {
	switch c.SearchProvider {
	case "", "tavily", "exa", "google":
	default:
		return fmt.Errorf("config error: unknown search provider %q", c.SearchProvider)
	}

	if c.NumberOfQueries < 0 {
		return fmt.Errorf("config error: 'number_of_queries' must be non-negative")
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("config error: 'confidence_threshold' must be between 0 and 1")
	}

	return nil
}

// SearchAPIKey resolves the API key for the configured search provider.
func (c *Config) SearchAPIKey() (string, error) {
	switch c.SearchProvider {
	case "", "tavily":
		return secrets.Load(secrets.Source{Name: "tavily API key", Value: c.TavilyAPIKey, Env: "TAVILY_API_KEY"})
	case "exa":
		return secrets.Load(secrets.Source{Name: "exa API key", Value: c.ExaAPIKey, Env: "EXA_API_KEY"})
	case "google":
		return secrets.Load(secrets.Source{Name: "google API key", Value: c.GoogleAPIKey, Env: "GOOGLE_API_KEY"})
	default:
		return "", fmt.Errorf("unknown search provider %q", c.SearchProvider)
	}
}
