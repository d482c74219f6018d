package distillation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-research/internal/llm"
	"github.com/jonathan/candidate-research/internal/types"
)

type stubModel struct {
	response   string
	err        error
	lastPrompt string
	lastTier   llm.ModelTier
}

func (s *stubModel) GenerateContent(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	s.lastPrompt, s.lastTier = prompt, tier
	return s.response, s.err
}

func (s *stubModel) GenerateJSON(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	s.lastPrompt, s.lastTier = prompt, tier
	return s.response, s.err
}

func (s *stubModel) GetModel(_ llm.ModelTier) string { return "stub-model" }
func (s *stubModel) Close() error                    { return nil }

func validatedSource(content string, jobDescription bool) types.ValidatedSource {
	return types.ValidatedSource{
		Source: types.Source{
			URL:              "https://example.com/src",
			Title:            "Source",
			RawContent:       types.StringPtr(content),
			Query:            "Acme Staff Engineer job description",
			IsJobDescription: jobDescription,
		},
		Weight: 0.9,
	}
}

func TestDistiller_PersonSource(t *testing.T) {
	model := &stubModel{response: `{"distilled_source": "Jane Doe's conference bio."}`}
	distiller := NewDistiller(model, nil)
	profile := &types.CandidateProfile{FullName: "Jane Doe"}

	distilled, err := distiller.Distill(context.Background(), profile,
		validatedSource("Jane Doe spoke at GopherCon about schedulers.", false))

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe's conference bio.", distilled.DistilledContent)
	assert.InDelta(t, 0.9, distilled.Weight, 1e-9)
	assert.Equal(t, llm.TierLite, model.lastTier)
	assert.Contains(t, model.lastPrompt, "Jane Doe")
	assert.Contains(t, model.lastPrompt, "GopherCon")
}

func TestDistiller_JobDescriptionSource(t *testing.T) {
	model := &stubModel{response: `{
		"role_summary": "Build backend systems.",
		"skills": ["Go", "PostgreSQL"],
		"requirements": ["5 years experience"]
	}`}
	distiller := NewDistiller(model, nil)
	profile := &types.CandidateProfile{FullName: "Jane Doe"}

	distilled, err := distiller.Distill(context.Background(), profile,
		validatedSource("Job posting: Staff Engineer at Acme.", true))

	require.NoError(t, err)
	assert.Equal(t,
		"Role Summary: Build backend systems.\nSkills: Go, PostgreSQL\nRequirements: 5 years experience",
		distilled.DistilledContent)
	assert.Equal(t, llm.TierStandard, model.lastTier)
}

func TestDistiller_TrimsOversizedContent(t *testing.T) {
	model := &stubModel{response: `{"distilled_source": "summary"}`}
	distiller := NewDistiller(model, nil)
	profile := &types.CandidateProfile{FullName: "Jane Doe"}

	content := strings.Repeat("x", 50000)
	_, err := distiller.Distill(context.Background(), profile, validatedSource(content, false))

	require.NoError(t, err)
	assert.Less(t, len(model.lastPrompt), 45000, "raw content must be trimmed before prompting")
}

func TestDistiller_ExtractionFailurePropagates(t *testing.T) {
	model := &stubModel{err: errors.New("backend down")}
	distiller := NewDistiller(model, nil)
	profile := &types.CandidateProfile{FullName: "Jane Doe"}

	_, err := distiller.Distill(context.Background(), profile,
		validatedSource("content", false))

	var extractionErr *llm.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
}

func TestDistiller_SchemaViolationIsExtractionError(t *testing.T) {
	model := &stubModel{response: `{"wrong_key": "value"}`}
	distiller := NewDistiller(model, nil)
	profile := &types.CandidateProfile{FullName: "Jane Doe"}

	_, err := distiller.Distill(context.Background(), profile,
		validatedSource("content", false))

	var extractionErr *llm.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
}

func TestRenderJobDescription(t *testing.T) {
	rendered := RenderJobDescription(&types.JobDescriptionSummary{
		RoleSummary:  "Lead the platform team.",
		Skills:       []string{"Go", "Kubernetes"},
		Requirements: []string{"Leadership", "8 years experience"},
	})

	assert.Equal(t,
		"Role Summary: Lead the platform team.\nSkills: Go, Kubernetes\nRequirements: Leadership, 8 years experience",
		rendered)
}
