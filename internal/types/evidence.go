package types

// SearchQuery is a single planned web search. Queries are immutable once
// produced by the planner.
type SearchQuery struct {
	Text                  string `json:"search_query"`
	IsJobDescriptionQuery bool   `json:"is_job_description_query"`
}

// Source is the canonical per-URL record produced by deduplication.
// Identity is the URL; within one run there is exactly one Source per URL.
type Source struct {
	URL              string  `json:"url"`
	Title            string  `json:"title"`
	RawContent       *string `json:"raw_content"`
	Query            string  `json:"query"`
	IsJobDescription bool    `json:"is_job_description"`
}

// ValidatedSource is a Source that passed both the heuristic gate and the
// semantic judge. Weight is the judge confidence in [0,1].
type ValidatedSource struct {
	Source
	Weight float64 `json:"weight"`
}

// DistilledSource is a ValidatedSource with its raw content condensed into a
// short evidence summary.
type DistilledSource struct {
	ValidatedSource
	DistilledContent string `json:"distilled_content"`
}

// Citation is the externally visible evidence record. Index values form a
// contiguous 1..N sequence in descending confidence order.
type Citation struct {
	Index            int     `json:"index"`
	URL              string  `json:"url"`
	Confidence       float64 `json:"confidence"`
	DistilledContent string  `json:"distilled_content"`
}

// EvidenceBundle is the pipeline output handed to the downstream evaluator.
type EvidenceBundle struct {
	SourceText string            `json:"source_str"`
	Citations  []Citation        `json:"citations"`
	Profile    *CandidateProfile `json:"candidate_profile"`
}

// StringPtr is a convenience for building hits and sources with raw content.
func StringPtr(s string) *string { return &s }

func Float64Ptr(f float64) *float64 { return &f }
