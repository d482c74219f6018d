// Package distillation compresses validated raw page content into short
// evidence snippets suitable for citation and downstream prompting.
package distillation

const (
	// charsPerToken is the rough character-to-token ratio used to budget
	// prompt sizes without a real tokenizer.
	charsPerToken = 4

	// defaultMaxTokens bounds how much raw content is fed to any single
	// model call.
	defaultMaxTokens = 10000
)

// TrimText bounds text to roughly maxTokens tokens. When the text is over
// budget, an equal share is removed from each end so the middle of the page
// survives; page middles tend to hold the substantive content while headers
// and footers hold boilerplate. A maxTokens of zero applies the default
// budget.
func TrimText(text string, maxTokens int) string {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	maxChars := maxTokens * charsPerToken
	if len(text) <= maxChars {
		return text
	}

	excess := len(text) - maxChars
	front := excess / 2
	back := excess - front
	return text[front : len(text)-back]
}
