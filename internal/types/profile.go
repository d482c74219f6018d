// Package types defines the shared data structures for the candidate research pipeline.
package types

import (
	"fmt"
	"strings"
)

// JobDescriptionSummary holds the distilled summary of a role attached to an
// experience, built from one or more discovered job-description sources.
type JobDescriptionSummary struct {
	RoleSummary  string   `json:"role_summary"`
	Skills       []string `json:"skills"`
	Requirements []string `json:"requirements"`
	Sources      []string `json:"sources"` // URLs of the sources the summary was built from
}

// Experience is a single work-history entry in a candidate profile.
type Experience struct {
	Company               string                 `json:"company"`
	Title                 string                 `json:"title"`
	Description           string                 `json:"description,omitempty"`
	StartDate             string                 `json:"start_date,omitempty"`
	EndDate               string                 `json:"end_date,omitempty"`
	JobDescriptionSummary *JobDescriptionSummary `json:"job_description_summary,omitempty"`
}

// CandidateProfile is the caller-owned description of the person being
// researched. The pipeline only ever appends job-description summaries to
// matching experiences; it never deletes or reorders entries.
type CandidateProfile struct {
	FullName    string       `json:"full_name"`
	Headline    string       `json:"headline,omitempty"`
	Summary     string       `json:"summary,omitempty"`
	Location    string       `json:"location,omitempty"`
	Experiences []Experience `json:"experiences"`
}

// ContextString renders the profile as free text for use in LLM prompts.
func (p *CandidateProfile) ContextString() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name: %s\n", p.FullName))
	if p.Headline != "" {
		sb.WriteString(fmt.Sprintf("Headline: %s\n", p.Headline))
	}
	if p.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", p.Location))
	}
	if p.Summary != "" {
		sb.WriteString(fmt.Sprintf("Summary: %s\n", p.Summary))
	}
	for _, exp := range p.Experiences {
		sb.WriteString(fmt.Sprintf("Experience: %s at %s", exp.Title, exp.Company))
		if exp.StartDate != "" {
			sb.WriteString(fmt.Sprintf(" (%s - %s)", exp.StartDate, orPresent(exp.EndDate)))
		}
		sb.WriteString("\n")
		if exp.Description != "" {
			sb.WriteString(exp.Description)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Clone returns a deep copy of the profile so pipeline stages can enrich it
// without mutating the caller's value.
func (p *CandidateProfile) Clone() *CandidateProfile {
	if p == nil {
		return nil
	}
	out := *p
	out.Experiences = make([]Experience, len(p.Experiences))
	for i, exp := range p.Experiences {
		out.Experiences[i] = exp
		if exp.JobDescriptionSummary != nil {
			summary := *exp.JobDescriptionSummary
			summary.Skills = append([]string(nil), exp.JobDescriptionSummary.Skills...)
			summary.Requirements = append([]string(nil), exp.JobDescriptionSummary.Requirements...)
			summary.Sources = append([]string(nil), exp.JobDescriptionSummary.Sources...)
			out.Experiences[i].JobDescriptionSummary = &summary
		}
	}
	return &out
}

func orPresent(endDate string) string {
	if endDate == "" {
		return "Present"
	}
	return endDate
}
