package planning

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-research/internal/llm"
	"github.com/jonathan/candidate-research/internal/prompts"
	"github.com/jonathan/candidate-research/internal/schemas"
	"github.com/jonathan/candidate-research/internal/types"
)

// maxRoleQueries caps how many past experiences produce a job-description
// discovery query.
const maxRoleQueries = 3

// Planner builds the query list for a research run: one job-description query
// per known employer/role, N generated general queries, and a name-only query.
type Planner struct {
	client llm.Client
	logger *zap.Logger
}

// NewPlanner creates a Planner backed by the given extraction client.
func NewPlanner(client llm.Client, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{client: client, logger: logger}
}

type generatedQuery struct {
	SearchQuery           string `json:"search_query"`
	IsJobDescriptionQuery bool   `json:"is_job_description_query"`
}

type queriesOutput struct {
	Queries []generatedQuery `json:"queries"`
}

// BuildQueries returns the ordered query list: role queries first (so a
// downstream cap cannot starve them), then generated queries, then the plain
// name query. Duplicate query strings are allowed; results are deduplicated
// later by URL.
func (p *Planner) BuildQueries(ctx context.Context, profile *types.CandidateProfile, jobDescription string, numberOfQueries int) ([]types.SearchQuery, error) {
	if profile == nil || profile.FullName == "" {
		return nil, fmt.Errorf("candidate full name is required for query planning")
	}

	queries := p.roleQueries(profile)

	generated, err := p.generateQueries(ctx, profile, jobDescription, numberOfQueries)
	if err != nil {
		return nil, err
	}
	queries = append(queries, generated...)

	queries = append(queries, types.SearchQuery{Text: profile.FullName, IsJobDescriptionQuery: false})

	p.logger.Debug("planned search queries",
		zap.Int("role_queries", len(queries)-len(generated)-1),
		zap.Int("generated_queries", len(generated)),
		zap.Int("total", len(queries)))

	return queries, nil
}

// roleQueries emits one flagged job-description query per known role, bounded
// to the first maxRoleQueries experiences with both company and title set.
func (p *Planner) roleQueries(profile *types.CandidateProfile) []types.SearchQuery {
	var queries []types.SearchQuery
	for _, exp := range profile.Experiences {
		if exp.Company == "" || exp.Title == "" {
			continue
		}
		queries = append(queries, types.SearchQuery{
			Text:                  fmt.Sprintf("%s %s job description", exp.Company, exp.Title),
			IsJobDescriptionQuery: true,
		})
		if len(queries) == maxRoleQueries {
			break
		}
	}
	return queries
}

// generateQueries asks the extraction backend for N general research queries.
func (p *Planner) generateQueries(ctx context.Context, profile *types.CandidateProfile, jobDescription string, numberOfQueries int) ([]types.SearchQuery, error) {
	template := prompts.MustGet("planning.json", "generate-queries")
	prompt := prompts.Format(template, map[string]string{
		"CandidateFullName": profile.FullName,
		"CandidateContext":  profile.ContextString(),
		"JobDescription":    jobDescription,
		"NumberOfQueries":   strconv.Itoa(numberOfQueries),
	})

	var output queriesOutput
	if err := llm.ExtractInto(ctx, p.client, prompt, llm.TierStandard, schemas.Queries, &output); err != nil {
		return nil, &ExtractionUnavailableError{Message: "query generation failed", Cause: err}
	}

	queries := make([]types.SearchQuery, 0, len(output.Queries))
	for _, q := range output.Queries {
		if q.SearchQuery == "" {
			continue
		}
		queries = append(queries, types.SearchQuery{
			Text:                  q.SearchQuery,
			IsJobDescriptionQuery: q.IsJobDescriptionQuery,
		})
	}
	return queries, nil
}
