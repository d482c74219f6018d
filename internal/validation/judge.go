package validation

import (
	"context"

	"github.com/jonathan/candidate-research/internal/llm"
	"github.com/jonathan/candidate-research/internal/prompts"
	"github.com/jonathan/candidate-research/internal/schemas"
	"github.com/jonathan/candidate-research/internal/types"
)

type confidenceResult struct {
	Confidence float64 `json:"confidence"`
}

// judgePersonSource asks the LLM how confident it is that the page is about
// this specific candidate, as opposed to someone else with the same name.
func judgePersonSource(ctx context.Context, client llm.Client, profile *types.CandidateProfile, rawContent string) (float64, error) {
	template := prompts.MustGet("validation.json", "validate-person-source")
	prompt := prompts.Format(template, map[string]string{
		"CandidateFullName": profile.FullName,
		"CandidateContext":  profile.ContextString(),
		"RawContent":        rawContent,
	})

	var result confidenceResult
	if err := llm.ExtractInto(ctx, client, prompt, llm.TierLite, schemas.Confidence, &result); err != nil {
		return 0, err
	}
	return result.Confidence, nil
}

// judgeJobDescription asks the LLM how relevant the page is to the role
// query it was retrieved for.
func judgeJobDescription(ctx context.Context, client llm.Client, roleQuery, rawContent string) (float64, error) {
	template := prompts.MustGet("validation.json", "validate-job-description")
	prompt := prompts.Format(template, map[string]string{
		"RoleQuery":  roleQuery,
		"RawContent": rawContent,
	})

	var result confidenceResult
	if err := llm.ExtractInto(ctx, client, prompt, llm.TierLite, schemas.Confidence, &result); err != nil {
		return 0, err
	}
	return result.Confidence, nil
}
