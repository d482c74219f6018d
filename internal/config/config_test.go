package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"search_provider": "exa",
		"exa_api_key": "exa-key",
		"number_of_queries": 7,
		"confidence_threshold": 0.75,
		"eval_endpoint": "https://eval.example.com"
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "exa", cfg.SearchProvider)
	assert.Equal(t, 7, cfg.NumberOfQueries)
	assert.InDelta(t, 0.75, cfg.ConfidenceThreshold, 1e-9)
	assert.Equal(t, "https://eval.example.com", cfg.EvalEndpoint)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := writeConfig(t, `{not json`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"defaults pass", Config{}, ""},
		{"tavily passes", Config{SearchProvider: "tavily"}, ""},
		{"unknown provider", Config{SearchProvider: "bing"}, "unknown search provider"},
		{"negative queries", Config{NumberOfQueries: -1}, "number_of_queries"},
		{"threshold too high", Config{ConfidenceThreshold: 1.5}, "confidence_threshold"},
		{"threshold in range", Config{ConfidenceThreshold: 0.8}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "env-tavily")
	t.Setenv("EVAL_ENDPOINT", "https://env-eval.example.com")

	cfg := Config{EvalEndpoint: "https://file-eval.example.com"}
	cfg.ApplyEnv()

	assert.Equal(t, "env-tavily", cfg.TavilyAPIKey)
	// File values win over the environment.
	assert.Equal(t, "https://file-eval.example.com", cfg.EvalEndpoint)
}

func TestApplyEnv_GeminiFallbackModel(t *testing.T) {
	t.Setenv("GEMINI_FALLBACK_MODEL", "gemini-2.0-flash")

	cfg := Config{}
	cfg.ApplyEnv()

	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiFallbackModel)
}

func TestSearchAPIKey(t *testing.T) {
	cfg := Config{SearchProvider: "tavily", TavilyAPIKey: "inline-key"}

	key, err := cfg.SearchAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "inline-key", key)
}

func TestSearchAPIKey_Missing(t *testing.T) {
	t.Setenv("EXA_API_KEY", "")
	cfg := Config{SearchProvider: "exa"}

	_, err := cfg.SearchAPIKey()
	assert.ErrorContains(t, err, "exa API key")
}

func TestNewJWTConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRATION_HOURS", "48")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, "test-secret", cfg.Secret)
	assert.Equal(t, 48, cfg.ExpirationHours)
}

func TestNewJWTConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := NewJWTConfig()
	assert.Error(t, err)
}
