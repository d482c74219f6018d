// Package pipeline orchestrates a full candidate research run: query
// planning, concurrent search, validation, distillation, and evidence bundle
// compilation.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-research/internal/compiler"
	"github.com/jonathan/candidate-research/internal/db"
	"github.com/jonathan/candidate-research/internal/distillation"
	"github.com/jonathan/candidate-research/internal/evaluation"
	"github.com/jonathan/candidate-research/internal/llm"
	"github.com/jonathan/candidate-research/internal/planning"
	"github.com/jonathan/candidate-research/internal/search"
	"github.com/jonathan/candidate-research/internal/types"
	"github.com/jonathan/candidate-research/internal/validation"
)

// DefaultConfidenceThreshold is applied when a request does not set one.
const DefaultConfidenceThreshold = 0.8

// DefaultNumberOfQueries is applied when a request does not set one.
const DefaultNumberOfQueries = 5

// Evaluator scores a compiled evidence bundle. Satisfied by
// *evaluation.Client.
type Evaluator interface {
	Evaluate(ctx context.Context, input *evaluation.Input) (*evaluation.Result, error)
}

// Pipeline wires the research stages together. Provider and LLM client are
// required; database and evaluator are optional.
type Pipeline struct {
	client    llm.Client
	provider  search.Provider
	policy    search.RetryPolicy
	database  *db.DB
	evaluator Evaluator
	logger    *zap.Logger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithDatabase enables artifact persistence.
func WithDatabase(database *db.DB) Option {
	return func(p *Pipeline) { p.database = database }
}

// WithEvaluator enables remote evaluation of the compiled bundle.
func WithEvaluator(evaluator Evaluator) Option {
	return func(p *Pipeline) { p.evaluator = evaluator }
}

// WithRetryPolicy overrides the search retry policy.
func WithRetryPolicy(policy search.RetryPolicy) Option {
	return func(p *Pipeline) { p.policy = policy }
}

// New creates a research pipeline.
func New(client llm.Client, provider search.Provider, logger *zap.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pipeline{
		client:   client,
		provider: provider,
		policy:   search.DefaultRetryPolicy(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Request describes one research run. A nil ConfidenceThreshold falls back
// to DefaultConfidenceThreshold; an explicit zero keeps every judged source.
type Request struct {
	Profile             *types.CandidateProfile
	JobDescription      string
	NumberOfQueries     int
	ConfidenceThreshold *float64
	CustomInstructions  string
}

// Result is the output of a research run. Evaluation is nil unless an
// evaluator is configured; RunID is zero unless persistence is configured.
type Result struct {
	Queries    []types.SearchQuery
	Bundle     *types.EvidenceBundle
	Evaluation *evaluation.Result
	RunID      uuid.UUID
}

// Run executes the full research flow. On error no partial bundle is
// returned: a failure in planning, search, or any aborting validation error
// fails the whole run.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Profile == nil {
		return nil, &validation.ConfigError{Message: "candidate profile is required"}
	}
	numberOfQueries := req.NumberOfQueries
	if numberOfQueries <= 0 {
		numberOfQueries = DefaultNumberOfQueries
	}
	threshold := DefaultConfidenceThreshold
	if req.ConfidenceThreshold != nil {
		threshold = *req.ConfidenceThreshold
	}

	result := &Result{}
	p.startRun(ctx, result, req)

	planner := planning.NewPlanner(p.client, p.logger)
	queries, err := planner.BuildQueries(ctx, req.Profile, req.JobDescription, numberOfQueries)
	if err != nil {
		p.finishRun(ctx, result, "failed")
		return nil, fmt.Errorf("query planning failed: %w", err)
	}
	p.logger.Info("planned search queries", zap.Int("count", len(queries)))
	result.Queries = queries
	p.saveArtifact(ctx, result, db.StepQueries, db.CategoryPlanning, queries)

	executor := search.NewExecutor(p.provider, p.policy, p.logger)
	responses, err := executor.ExecuteAll(ctx, queries)
	if err != nil {
		p.finishRun(ctx, result, "failed")
		return nil, fmt.Errorf("search execution failed: %w", err)
	}

	sources := search.Dedupe(responses)
	p.logger.Info("gathered sources", zap.Int("count", len(sources)))
	p.saveArtifact(ctx, result, db.StepSources, db.CategorySearch, sources)

	gate := validation.NewGate(p.client, threshold, p.logger)
	distiller := distillation.NewDistiller(p.client, p.logger)

	distilled, err := collectConcurrent(ctx, sources,
		func(ctx context.Context, source types.Source) (*types.DistilledSource, error) {
			return p.processSource(ctx, gate, distiller, req.Profile, source)
		})
	if err != nil {
		p.finishRun(ctx, result, "failed")
		return nil, fmt.Errorf("source validation failed: %w", err)
	}
	p.logger.Info("validated sources",
		zap.Int("validated", len(distilled)),
		zap.Int("discarded", len(sources)-len(distilled)))
	p.saveArtifact(ctx, result, db.StepValidatedSources, db.CategoryValidation, distilled)

	bundle, err := compiler.New(distiller, p.logger).Compile(ctx, req.Profile, distilled)
	if err != nil {
		p.finishRun(ctx, result, "failed")
		return nil, fmt.Errorf("bundle compilation failed: %w", err)
	}
	result.Bundle = bundle
	p.saveArtifact(ctx, result, db.StepEvidenceBundle, db.CategoryCompilation, bundle)

	if p.evaluator != nil {
		verdict, err := p.evaluator.Evaluate(ctx, &evaluation.Input{
			SourceText:         bundle.SourceText,
			Citations:          bundle.Citations,
			CandidateProfile:   bundle.Profile,
			JobDescription:     req.JobDescription,
			CustomInstructions: req.CustomInstructions,
		})
		if err != nil {
			p.finishRun(ctx, result, "failed")
			return nil, fmt.Errorf("evaluation failed: %w", err)
		}
		result.Evaluation = verdict
		p.saveArtifact(ctx, result, db.StepEvaluation, db.CategoryEvaluation, verdict)
	}

	p.finishRun(ctx, result, "completed")
	return result, nil
}

// processSource runs one source through the gate and, if it survives, the
// distiller. Sources dropped by the gate and sources whose model calls fail
// return nil; only configuration errors abort the run.
func (p *Pipeline) processSource(ctx context.Context, gate *validation.Gate, distiller *distillation.Distiller, profile *types.CandidateProfile, source types.Source) (*types.DistilledSource, error) {
	validated, err := gate.Validate(ctx, profile, source)
	if err != nil {
		var configErr *validation.ConfigError
		if errors.As(err, &configErr) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.logger.Warn("dropping source after validation failure",
			zap.String("url", source.URL), zap.Error(err))
		return nil, nil
	}
	if validated == nil {
		return nil, nil
	}

	distilled, err := distiller.Distill(ctx, profile, *validated)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.logger.Warn("dropping source after distillation failure",
			zap.String("url", source.URL), zap.Error(err))
		return nil, nil
	}
	return distilled, nil
}

func (p *Pipeline) startRun(ctx context.Context, result *Result, req Request) {
	if p.database == nil {
		return
	}
	runID, err := p.database.CreateRun(ctx, req.Profile.FullName, jobTitle(req.Profile))
	if err != nil {
		p.logger.Warn("failed to create run record, continuing without persistence", zap.Error(err))
		return
	}
	result.RunID = runID
}

func (p *Pipeline) finishRun(ctx context.Context, result *Result, status string) {
	if p.database == nil || result.RunID == uuid.Nil {
		return
	}
	if err := p.database.CompleteRun(ctx, result.RunID, status); err != nil {
		p.logger.Warn("failed to update run status", zap.Error(err))
	}
}

func (p *Pipeline) saveArtifact(ctx context.Context, result *Result, step, category string, content any) {
	if p.database == nil || result.RunID == uuid.Nil {
		return
	}
	if err := p.database.SaveArtifact(ctx, result.RunID, step, category, content); err != nil {
		p.logger.Warn("failed to save artifact", zap.String("step", step), zap.Error(err))
	}
}

// jobTitle picks the most recent experience title for the run record.
func jobTitle(profile *types.CandidateProfile) string {
	if len(profile.Experiences) > 0 {
		return profile.Experiences[0].Title
	}
	return profile.Headline
}
