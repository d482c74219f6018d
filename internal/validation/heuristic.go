package validation

import (
	"regexp"
	"strings"
)

const (
	// personHeuristicThreshold is the minimum lexical score for a person
	// source to reach the LLM judge.
	personHeuristicThreshold = 0.5

	// jobHeuristicThreshold is the minimum token overlap for a job
	// description source to reach the LLM judge.
	jobHeuristicThreshold = 0.3
)

// jobIndicators are keywords at least one of which must appear in a page for
// it to plausibly be a job posting.
var jobIndicators = []string{"job", "position", "role", "posting"}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s]+`)

// cleanText lowercases the input and strips punctuation so that token
// comparisons are not defeated by formatting.
func cleanText(s string) string {
	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// containsWholeWord reports whether word appears as a whole token in text.
// Both arguments must already be cleaned.
func containsWholeWord(text, word string) bool {
	for _, token := range strings.Fields(text) {
		if token == word {
			return true
		}
	}
	return false
}

// personHeuristicScore computes a lexical match score between a candidate
// name and page content. A verbatim full-name match scores 1.0 outright;
// otherwise partial credit is given for the fraction of name tokens present
// as whole words.
func personHeuristicScore(fullName, title, content string) float64 {
	name := cleanText(fullName)
	if name == "" {
		return 0
	}
	text := cleanText(title + " " + content)

	if strings.Contains(" "+text+" ", " "+name+" ") {
		return 1.0
	}

	tokens := strings.Fields(name)
	matched := 0
	for _, token := range tokens {
		if containsWholeWord(text, token) {
			matched++
		}
	}
	return 0.5 * float64(matched) / float64(len(tokens))
}

// jobHeuristicScore computes the fraction of role-query tokens present in
// the page. Pages with no job-indicator keyword score zero regardless of
// overlap, since a match on company and title alone is usually a news
// article, not a posting.
func jobHeuristicScore(roleQuery, title, content string) float64 {
	query := cleanText(roleQuery)
	if query == "" {
		return 0
	}
	text := cleanText(title + " " + content)

	hasIndicator := false
	for _, indicator := range jobIndicators {
		if containsWholeWord(text, indicator) {
			hasIndicator = true
			break
		}
	}
	if !hasIndicator {
		return 0
	}

	tokens := strings.Fields(query)
	matched := 0
	for _, token := range tokens {
		if containsWholeWord(text, token) {
			matched++
		}
	}
	return float64(matched) / float64(len(tokens))
}
