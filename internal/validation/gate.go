package validation

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-research/internal/distillation"
	"github.com/jonathan/candidate-research/internal/llm"
	"github.com/jonathan/candidate-research/internal/logger"
	"github.com/jonathan/candidate-research/internal/types"
)

// Gate runs the two-stage validation flow for a single source: a lexical
// heuristic prefilter followed by an LLM confidence judgment against the
// caller's threshold.
type Gate struct {
	client    llm.Client
	threshold float64
	logger    *zap.Logger
}

// NewGate creates a validation gate. Sources whose judged confidence is below
// threshold are discarded.
func NewGate(client llm.Client, threshold float64, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{client: client, threshold: threshold, logger: logger}
}

// Validate decides whether a source passes the gate. A nil result with a nil
// error means the source was discarded. The returned weight is the judged
// confidence, later used for ranking. Raw content is trimmed to the token
// budget before judging and the surviving source carries the trimmed text, so
// downstream stages work on the same content the judge saw.
func (g *Gate) Validate(ctx context.Context, profile *types.CandidateProfile, source types.Source) (*types.ValidatedSource, error) {
	if source.RawContent == nil || strings.TrimSpace(*source.RawContent) == "" {
		g.logger.Debug("discarding source without raw content", zap.String("url", source.URL))
		return nil, nil
	}
	content := distillation.TrimText(*source.RawContent, 0)
	source.RawContent = &content

	g.logger.Debug("validating source",
		zap.String("url", source.URL),
		zap.String("content_preview", logger.TruncateForLog(content, 160)))

	if source.IsJobDescription {
		return g.validateJobDescription(ctx, source, content)
	}
	return g.validatePerson(ctx, profile, source, content)
}

func (g *Gate) validatePerson(ctx context.Context, profile *types.CandidateProfile, source types.Source, content string) (*types.ValidatedSource, error) {
	if profile == nil || strings.TrimSpace(profile.FullName) == "" {
		return nil, &ConfigError{Message: "candidate full name is required to validate person sources"}
	}

	score := personHeuristicScore(profile.FullName, source.Title, content)
	if score < personHeuristicThreshold {
		g.logger.Debug("source failed person heuristic",
			zap.String("url", source.URL),
			zap.Float64("score", score))
		return nil, nil
	}

	confidence, err := judgePersonSource(ctx, g.client, profile, content)
	if err != nil {
		return nil, err
	}
	if confidence < g.threshold {
		g.logger.Debug("source failed person judgment",
			zap.String("url", source.URL),
			zap.Float64("confidence", confidence))
		return nil, nil
	}

	return &types.ValidatedSource{Source: source, Weight: confidence}, nil
}

func (g *Gate) validateJobDescription(ctx context.Context, source types.Source, content string) (*types.ValidatedSource, error) {
	if strings.TrimSpace(source.Query) == "" {
		return nil, &ConfigError{Message: "role query is required to validate job description sources"}
	}

	score := jobHeuristicScore(source.Query, source.Title, content)
	if score < jobHeuristicThreshold {
		g.logger.Debug("source failed job description heuristic",
			zap.String("url", source.URL),
			zap.Float64("score", score))
		return nil, nil
	}

	confidence, err := judgeJobDescription(ctx, g.client, source.Query, content)
	if err != nil {
		return nil, err
	}
	if confidence < g.threshold {
		g.logger.Debug("source failed job description judgment",
			zap.String("url", source.URL),
			zap.Float64("confidence", confidence))
		return nil, nil
	}

	return &types.ValidatedSource{Source: source, Weight: confidence}, nil
}
