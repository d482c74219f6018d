package distillation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-research/internal/llm"
	"github.com/jonathan/candidate-research/internal/prompts"
	"github.com/jonathan/candidate-research/internal/schemas"
	"github.com/jonathan/candidate-research/internal/types"
)

// Distiller compresses a validated source into a short evidence snippet.
type Distiller struct {
	client llm.Client
	logger *zap.Logger
}

// NewDistiller creates a distiller backed by the given LLM client.
func NewDistiller(client llm.Client, logger *zap.Logger) *Distiller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Distiller{client: client, logger: logger}
}

type personDistillation struct {
	DistilledSource string `json:"distilled_source"`
}

type jobDistillation struct {
	RoleSummary  string   `json:"role_summary"`
	Skills       []string `json:"skills"`
	Requirements []string `json:"requirements"`
}

// Distill produces the distilled form of a validated source, choosing the
// person or job-description flow based on how the source was retrieved.
func (d *Distiller) Distill(ctx context.Context, profile *types.CandidateProfile, source types.ValidatedSource) (*types.DistilledSource, error) {
	content := TrimText(derefContent(source.RawContent), 0)

	var distilled string
	var err error
	if source.IsJobDescription {
		distilled, err = d.distillJobDescription(ctx, source.Query, content)
	} else {
		distilled, err = d.distillPerson(ctx, profile, content)
	}
	if err != nil {
		return nil, err
	}

	return &types.DistilledSource{ValidatedSource: source, DistilledContent: distilled}, nil
}

func (d *Distiller) distillPerson(ctx context.Context, profile *types.CandidateProfile, content string) (string, error) {
	template := prompts.MustGet("distillation.json", "distill-person-source")
	prompt := prompts.Format(template, map[string]string{
		"RawContent":        content,
		"CandidateFullName": profile.FullName,
	})

	var result personDistillation
	if err := llm.ExtractInto(ctx, d.client, prompt, llm.TierLite, schemas.DistilledPerson, &result); err != nil {
		return "", err
	}
	return result.DistilledSource, nil
}

func (d *Distiller) distillJobDescription(ctx context.Context, roleQuery, content string) (string, error) {
	summary, err := d.ExtractJobDescription(ctx, roleQuery, content)
	if err != nil {
		return "", err
	}
	return RenderJobDescription(summary), nil
}

// ExtractJobDescription pulls the structured role summary out of raw job
// posting content. It is also used when combining several postings for the
// same role into one summary.
func (d *Distiller) ExtractJobDescription(ctx context.Context, roleQuery, content string) (*types.JobDescriptionSummary, error) {
	template := prompts.MustGet("distillation.json", "distill-job-description")
	prompt := prompts.Format(template, map[string]string{
		"RoleQuery":  roleQuery,
		"RawContent": content,
	})

	var result jobDistillation
	if err := llm.ExtractInto(ctx, d.client, prompt, llm.TierStandard, schemas.JobDescription, &result); err != nil {
		return nil, err
	}
	return &types.JobDescriptionSummary{
		RoleSummary:  result.RoleSummary,
		Skills:       result.Skills,
		Requirements: result.Requirements,
	}, nil
}

// RenderJobDescription flattens a structured job summary into the text form
// used for citations.
func RenderJobDescription(summary *types.JobDescriptionSummary) string {
	return fmt.Sprintf("Role Summary: %s\nSkills: %s\nRequirements: %s",
		summary.RoleSummary,
		strings.Join(summary.Skills, ", "),
		strings.Join(summary.Requirements, ", "))
}

func derefContent(content *string) string {
	if content == nil {
		return ""
	}
	return *content
}
