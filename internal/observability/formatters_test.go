package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/candidate-research/internal/evaluation"
	"github.com/jonathan/candidate-research/internal/types"
)

func TestPrintQueries(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintQueries([]types.SearchQuery{
		{Text: "Acme Staff Engineer job description", IsJobDescriptionQuery: true},
		{Text: "Jane Doe GitHub"},
	})
	output := buf.String()

	assert.Contains(t, output, "PLANNED SEARCH QUERIES")
	assert.Contains(t, output, "Jane Doe GitHub")
	assert.Contains(t, output, "* Acme Staff Engineer job descrip")
}

func TestPrintQueries_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintQueries(nil)

	assert.Empty(t, buf.String())
}

func TestPrintBundle(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	bundle := &types.EvidenceBundle{
		Citations: []types.Citation{
			{Index: 1, URL: "https://a.com", Confidence: 0.95},
			{Index: 2, URL: "https://b.com", Confidence: 0.81},
		},
		Profile: &types.CandidateProfile{
			FullName: "Jane Doe",
			Experiences: []types.Experience{
				{Company: "Acme", Title: "Staff Engineer", JobDescriptionSummary: &types.JobDescriptionSummary{}},
				{Company: "Other", Title: "Manager"},
			},
		},
	}

	p.PrintBundle(bundle)
	output := buf.String()

	assert.Contains(t, output, "EVIDENCE BUNDLE")
	assert.Contains(t, output, "Citations: 2")
	assert.Contains(t, output, "https://a.com")
	assert.Contains(t, output, "1/2")
}

func TestPrintBundle_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintBundle(nil)

	assert.Empty(t, buf.String())
}

func TestPrintEvaluation(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintEvaluation(&evaluation.Result{
		Fit:         8,
		RequiredMet: 3,
		OptionalMet: 1,
		Sections: []evaluation.Section{
			{Name: "Technical depth", Score: 9},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "EVALUATION")
	assert.Contains(t, output, "Fit: 8")
	assert.Contains(t, output, "Technical depth")
}
