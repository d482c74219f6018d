package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "Jane DOE", "jane doe"},
		{"strips punctuation", "Jane-Doe, Engineer.", "jane doe engineer"},
		{"collapses whitespace", "  jane \n\t doe  ", "jane doe"},
		{"keeps digits", "Engineer II 2024", "engineer ii 2024"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanText(tt.input))
		})
	}
}

func TestPersonHeuristicScore(t *testing.T) {
	tests := []struct {
		name     string
		fullName string
		title    string
		content  string
		expected float64
	}{
		{
			name:     "verbatim full name",
			fullName: "Jane Doe",
			title:    "About",
			content:  "Jane Doe is a software engineer at Acme.",
			expected: 1.0,
		},
		{
			name:     "verbatim match survives punctuation",
			fullName: "Jane Doe",
			title:    "Profile: Jane Doe!",
			content:  "bio page",
			expected: 1.0,
		},
		{
			name:     "half the tokens present",
			fullName: "Jane Doe",
			title:    "",
			content:  "Jane works somewhere.",
			expected: 0.25,
		},
		{
			name:     "tokens present but not adjacent",
			fullName: "Jane Doe",
			title:    "",
			content:  "Jane likes cats. John Doe likes dogs.",
			expected: 0.5,
		},
		{
			name:     "substring is not a whole word",
			fullName: "Jane Doe",
			title:    "",
			content:  "Janeway and doer were here.",
			expected: 0.0,
		},
		{
			name:     "no match",
			fullName: "Jane Doe",
			title:    "Something else",
			content:  "entirely unrelated page",
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := personHeuristicScore(tt.fullName, tt.title, tt.content)
			assert.InDelta(t, tt.expected, score, 1e-9)
		})
	}
}

func TestJobHeuristicScore(t *testing.T) {
	t.Run("posting with full overlap", func(t *testing.T) {
		score := jobHeuristicScore(
			"Acme Staff Engineer job description",
			"Staff Engineer at Acme",
			"Job description: Acme is hiring a Staff Engineer.",
		)
		assert.InDelta(t, 1.0, score, 1e-9)
	})

	t.Run("no job indicator zeroes the score", func(t *testing.T) {
		score := jobHeuristicScore(
			"Acme Staff Engineer job description",
			"Acme Staff Engineer interview",
			"An interview with a staff engineer from Acme about their career.",
		)
		assert.Zero(t, score)
	})

	t.Run("partial overlap", func(t *testing.T) {
		score := jobHeuristicScore(
			"Acme Staff Engineer job description",
			"",
			"Open position: engineer wanted at Acme.",
		)
		// "acme", "engineer", "job"(no), "description"(no), "staff"(no) with
		// the indicator satisfied by "position".
		assert.InDelta(t, 0.4, score, 1e-9)
	})

	t.Run("empty query", func(t *testing.T) {
		assert.Zero(t, jobHeuristicScore("", "title", "job content"))
	})
}
