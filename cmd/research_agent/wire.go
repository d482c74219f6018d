package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-research/internal/config"
	"github.com/jonathan/candidate-research/internal/db"
	"github.com/jonathan/candidate-research/internal/evaluation"
	"github.com/jonathan/candidate-research/internal/llm"
	"github.com/jonathan/candidate-research/internal/pipeline"
	"github.com/jonathan/candidate-research/internal/search"
	"github.com/jonathan/candidate-research/internal/secrets"
)

// buildLLMClient creates the Gemini-backed extraction client. When a
// fallback model is configured, a second client pinned to that model backs
// the primary for every tier.
func buildLLMClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini API key",
		Value: cfg.GeminiAPIKey,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, err
	}

	primary, err := llm.NewClient(ctx, llm.DefaultGeminiConfig(), apiKey)
	if err != nil {
		return nil, err
	}
	if cfg.GeminiFallbackModel == "" {
		return primary, nil
	}

	fallbackConfig := llm.DefaultGeminiConfig()
	for tier := range fallbackConfig.Models {
		fallbackConfig.Models[tier] = cfg.GeminiFallbackModel
	}
	fallback, err := llm.NewClient(ctx, fallbackConfig, apiKey)
	if err != nil {
		_ = primary.Close()
		return nil, err
	}
	return llm.NewFallbackClient(primary, fallback), nil
}

// buildProvider creates the configured search provider.
func buildProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (search.Provider, error) {
	apiKey, err := cfg.SearchAPIKey()
	if err != nil {
		return nil, err
	}

	switch cfg.SearchProvider {
	case "", "tavily":
		return search.NewTavilyClient(apiKey)
	case "exa":
		return search.NewExaClient(apiKey)
	case "google":
		if cfg.GoogleCSEID == "" {
			return nil, fmt.Errorf("google_cse_id is required for the google search provider")
		}
		return search.NewGoogleCSEClient(ctx, apiKey, cfg.GoogleCSEID, logger)
	default:
		return nil, fmt.Errorf("unknown search provider %q", cfg.SearchProvider)
	}
}

// openDatabase connects to the configured database, or returns nil when no
// database is configured.
func openDatabase(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}
	return db.Connect(ctx, cfg.DatabaseURL)
}

// buildPipeline wires the pipeline with its optional database and evaluator.
// The database may be nil.
func buildPipeline(ctx context.Context, cfg *config.Config, database *db.DB, logger *zap.Logger) (*pipeline.Pipeline, error) {
	client, err := buildLLMClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	provider, err := buildProvider(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var opts []pipeline.Option
	if database != nil {
		opts = append(opts, pipeline.WithDatabase(database))
	}

	if cfg.EvalEndpoint != "" {
		evaluator, err := evaluation.NewClient(cfg.EvalEndpoint)
		if err != nil {
			return nil, err
		}
		opts = append(opts, pipeline.WithEvaluator(evaluator))
	}

	return pipeline.New(client, provider, logger, opts...), nil
}

// loadConfig reads the optional config file and fills gaps from the
// environment.
func loadConfig(path string) (*config.Config, error) {
	cfg := &config.Config{}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
