// Package preparer fits extracted document text into the summarization
// service's input budget. It is pure: no I/O, no network, deterministic for a
// given input and limit.
package preparer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// Rough heuristic: ~4 characters per token for English prose.
	charsPerToken = 4

	// Claude Sonnet class pricing, used only for a rough per-run estimate.
	inputCostPerToken  = 3.0 / 1_000_000
	outputCostPerToken = 15.0 / 1_000_000

	// Output budget reserved for the generated summary.
	reservedOutputTokens = 2000

	// A boundary found in the last fifth of the budget is good enough;
	// anything earlier throws away too much context.
	boundaryGuard = 0.8
)

// PreparedContent is the truncation result handed to the summarization client.
type PreparedContent struct {
	Text             string
	OriginalChars    int
	PreparedChars    int
	Truncated        bool
	EstimatedTokens  int
	EstimatedCostUSD float64
}

// PreparationError reports an invalid preparation configuration.
type PreparationError struct {
	Reason string
}

func (e *PreparationError) Error() string {
	return "content preparation: " + e.Reason
}

// Prepare truncates text to at most maxChars, breaking at a paragraph or
// sentence boundary, never mid-word. Text within budget passes through
// unchanged.
func Prepare(text string, maxChars int) (*PreparedContent, error) {
	if maxChars <= 0 {
		return nil, &PreparationError{Reason: fmt.Sprintf("max chars must be positive, got %d", maxChars)}
	}

	original := len(text)
	prepared := text
	truncated := false

	if original > maxChars {
		prepared = truncate(text, maxChars)
		truncated = true
	}

	tokens := EstimateTokens(prepared)
	return &PreparedContent{
		Text:             prepared,
		OriginalChars:    original,
		PreparedChars:    len(prepared),
		Truncated:        truncated,
		EstimatedTokens:  tokens,
		EstimatedCostUSD: EstimateCostUSD(tokens),
	}, nil
}

// EstimateTokens approximates the token count of text. Exact tokenization is
// provider-specific; this only needs to be monotonic in input length.
func EstimateTokens(text string) int {
	return len(text) / charsPerToken
}

// EstimateCostUSD approximates the API cost of summarizing inputTokens of
// content, assuming the full reserved output budget is used.
func EstimateCostUSD(inputTokens int) float64 {
	return float64(inputTokens)*inputCostPerToken + reservedOutputTokens*outputCostPerToken
}

// truncate cuts text to at most maxChars, preferring a paragraph break, then
// the end of a sentence, then any whitespace.
func truncate(text string, maxChars int) string {
	cut := text[:maxChars]
	guard := int(float64(maxChars) * boundaryGuard)

	if i := strings.LastIndex(cut, "\n\n"); i >= guard {
		return strings.TrimRight(cut[:i], " \t\n")
	}

	if i := lastSentenceEnd(cut); i > 0 {
		return strings.TrimRight(cut[:i], " \t\n")
	}

	if i := strings.LastIndexFunc(cut, unicode.IsSpace); i > 0 {
		return strings.TrimRight(cut[:i], " \t\n")
	}

	// Single unbroken word longer than the budget. Back the cut up to a
	// rune boundary so it never leaves a partial UTF-8 sequence.
	end := maxChars
	for end > 0 && !utf8.RuneStart(text[end]) {
		end--
	}
	return text[:end]
}

// lastSentenceEnd returns the index just past the final sentence terminator
// in s, or 0 if there is none. A terminator only counts when followed by
// whitespace or the end of the slice, so "3.5" does not end a sentence.
func lastSentenceEnd(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case '.', '!', '?':
			if i == len(s)-1 || s[i+1] == ' ' || s[i+1] == '\n' || s[i+1] == '\t' {
				return i + 1
			}
		}
	}
	return 0
}
