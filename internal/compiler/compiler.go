// Package compiler turns the surviving distilled sources into the final
// evidence bundle: a ranked citation list, a formatted source text block, and
// a profile enriched with job-description summaries.
package compiler

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-research/internal/distillation"
	"github.com/jonathan/candidate-research/internal/types"
)

// maxSourcesPerExperience caps how many job postings feed one experience
// summary.
const maxSourcesPerExperience = 3

// Compiler assembles evidence bundles. The distiller is used once more when
// several job postings for the same role are merged into one summary.
type Compiler struct {
	distiller *distillation.Distiller
	logger    *zap.Logger
}

// New creates a compiler.
func New(distiller *distillation.Distiller, logger *zap.Logger) *Compiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compiler{distiller: distiller, logger: logger}
}

// Compile ranks the distilled sources, formats person sources into citations,
// and enriches a copy of the profile with job-description summaries. The
// input slice and profile are not modified.
func (c *Compiler) Compile(ctx context.Context, profile *types.CandidateProfile, sources []types.DistilledSource) (*types.EvidenceBundle, error) {
	ranked := rankSources(sources)
	jobSources, personSources := separateByType(ranked)

	sourceText, citations := formatCitations(personSources)

	enriched := profile.Clone()
	if err := c.enrichProfile(ctx, enriched, jobSources); err != nil {
		return nil, err
	}

	c.logger.Info("compiled evidence bundle",
		zap.Int("citations", len(citations)),
		zap.Int("job_description_sources", len(jobSources)))

	return &types.EvidenceBundle{
		SourceText: sourceText,
		Citations:  citations,
		Profile:    enriched,
	}, nil
}

// rankSources orders sources by descending weight. The sort is stable so
// equal-weight sources keep their validation order and reruns produce the
// same bundle.
func rankSources(sources []types.DistilledSource) []types.DistilledSource {
	ranked := make([]types.DistilledSource, len(sources))
	copy(ranked, sources)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Weight > ranked[j].Weight
	})
	return ranked
}

func separateByType(sources []types.DistilledSource) (jobSources, personSources []types.DistilledSource) {
	for _, source := range sources {
		if source.IsJobDescription {
			jobSources = append(jobSources, source)
		} else {
			personSources = append(personSources, source)
		}
	}
	return jobSources, personSources
}

// formatCitations renders person sources into the citation list and the text
// block handed to the evaluator. Indices are contiguous from 1 in rank order.
func formatCitations(sources []types.DistilledSource) (string, []types.Citation) {
	var builder strings.Builder
	builder.WriteString("Sources:\n\n")

	citations := make([]types.Citation, 0, len(sources))
	for i, source := range sources {
		index := i + 1
		fmt.Fprintf(&builder, "[%d]: %s:\nURL: %s\nRelevant content from source: %s (Confidence: %s)\n===\n",
			index, source.Title, source.URL, source.DistilledContent,
			strconv.FormatFloat(source.Weight, 'g', -1, 64))

		citations = append(citations, types.Citation{
			Index:            index,
			URL:              source.URL,
			Confidence:       source.Weight,
			DistilledContent: source.DistilledContent,
		})
	}
	return builder.String(), citations
}

// enrichProfile attaches a job-description summary to every experience that
// has matching job sources. Matching is by query prefix: role queries are
// built as "{company} {title} job description", so a case-insensitive prefix
// match on "{company} {title}" ties a posting back to its experience.
func (c *Compiler) enrichProfile(ctx context.Context, profile *types.CandidateProfile, jobSources []types.DistilledSource) error {
	if len(jobSources) == 0 {
		return nil
	}

	for i := range profile.Experiences {
		experience := &profile.Experiences[i]
		if experience.Company == "" || experience.Title == "" {
			continue
		}

		matching := matchingSources(experience, jobSources)
		if len(matching) == 0 {
			continue
		}

		top := topByWeight(matching, maxSourcesPerExperience)

		// Each posting is trimmed to the token budget on its own before the
		// join, so one oversized posting cannot crowd the others out of the
		// merged summary.
		contents := make([]string, 0, len(top))
		urls := make([]string, 0, len(top))
		for _, source := range top {
			if source.RawContent != nil {
				contents = append(contents, distillation.TrimText(*source.RawContent, 0))
			}
			urls = append(urls, source.URL)
		}

		roleQuery := fmt.Sprintf("%s %s", experience.Company, experience.Title)
		combined := strings.Join(contents, "\n\n")

		summary, err := c.distiller.ExtractJobDescription(ctx, roleQuery, combined)
		if err != nil {
			return err
		}
		summary.Sources = urls
		experience.JobDescriptionSummary = summary
	}
	return nil
}

func matchingSources(experience *types.Experience, jobSources []types.DistilledSource) []types.DistilledSource {
	prefix := strings.ToLower(fmt.Sprintf("%s %s", experience.Company, experience.Title))

	var matching []types.DistilledSource
	for _, source := range jobSources {
		query := strings.TrimSpace(strings.ToLower(source.Query))
		if strings.HasPrefix(query, prefix) {
			matching = append(matching, source)
		}
	}
	return matching
}

func topByWeight(sources []types.DistilledSource, n int) []types.DistilledSource {
	sorted := make([]types.DistilledSource, len(sources))
	copy(sorted, sources)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight > sorted[j].Weight
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
