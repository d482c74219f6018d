// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/candidate-research/internal/evaluation"
	"github.com/jonathan/candidate-research/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintQueries outputs the planned search queries.
func (p *Printer) PrintQueries(queries []types.SearchQuery) {
	if len(queries) == 0 {
		return
	}

	var sb strings.Builder
	for i, query := range queries {
		marker := " "
		if query.IsJobDescriptionQuery {
			marker = "*"
		}
		sb.WriteString(fmt.Sprintf("%d. %s %s\n", i+1, marker, query.Text))
	}
	sb.WriteString("\n(* = job description query)")

	p.printBox("PLANNED SEARCH QUERIES", sb.String())
}

// PrintBundle outputs a human-readable summary of the evidence bundle.
func (p *Printer) PrintBundle(bundle *types.EvidenceBundle) {
	if bundle == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Citations: %d\n\n", len(bundle.Citations)))

	shown := len(bundle.Citations)
	if shown > maxItemsToShow {
		shown = maxItemsToShow
	}
	for _, citation := range bundle.Citations[:shown] {
		sb.WriteString(fmt.Sprintf("[%d] %.2f %s\n", citation.Index, citation.Confidence, citation.URL))
	}
	if len(bundle.Citations) > shown {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(bundle.Citations)-shown))
	}

	if bundle.Profile != nil {
		enriched := 0
		for _, exp := range bundle.Profile.Experiences {
			if exp.JobDescriptionSummary != nil {
				enriched++
			}
		}
		sb.WriteString(fmt.Sprintf("\nExperiences with role summaries: %d/%d",
			enriched, len(bundle.Profile.Experiences)))
	}

	p.printBox("EVIDENCE BUNDLE", sb.String())
}

// PrintEvaluation outputs the remote evaluator's verdict.
func (p *Printer) PrintEvaluation(result *evaluation.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Fit: %d\n", result.Fit))
	sb.WriteString(fmt.Sprintf("Required met: %d  Optional met: %d\n\n", result.RequiredMet, result.OptionalMet))
	for _, section := range result.Sections {
		sb.WriteString(fmt.Sprintf("%-20s %d\n", section.Name, section.Score))
	}

	p.printBox("EVALUATION", sb.String())
}
