package search

import (
	"strings"

	"github.com/jonathan/candidate-research/internal/types"
)

// jobDescriptionSuffix classifies a query as job-description discovery.
const jobDescriptionSuffix = "job description"

// IsJobDescriptionQuery reports whether a query string targets job
// descriptions rather than the candidate personally.
func IsJobDescriptionQuery(query string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(query)), jobDescriptionSuffix)
}

// Dedupe flattens per-query responses into the canonical source list, keyed
// by URL. Each hit is stamped with its originating query and the derived
// job-description flag. Iteration follows payload order: on duplicate URLs
// the later hit overwrites the earlier one's fields (last-write-wins) while
// the source keeps its first-seen position. The ordering rule is load-bearing
// for reproducibility.
func Dedupe(responses []*Response) []types.Source {
	index := make(map[string]int)
	var sources []types.Source

	for _, resp := range responses {
		if resp == nil {
			continue
		}
		isJobDescription := IsJobDescriptionQuery(resp.Query)
		for _, hit := range resp.Results {
			if hit.URL == "" {
				continue
			}
			source := types.Source{
				URL:              hit.URL,
				Title:            hit.Title,
				RawContent:       hit.RawContent,
				Query:            resp.Query,
				IsJobDescription: isJobDescription,
			}
			if pos, seen := index[hit.URL]; seen {
				sources[pos] = source
				continue
			}
			index[hit.URL] = len(sources)
			sources = append(sources, source)
		}
	}

	return sources
}
