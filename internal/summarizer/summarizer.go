package summarizer

import (
	"context"
	"strings"
	"time"

	"github.com/nguyentantai21042004/paper-flow/internal/preparer"
	"github.com/nguyentantai21042004/paper-flow/pkg/retry"
)

// Summarize sends the prepared text to the language model and returns the
// spoken-style summary. Transient failures are retried with backoff; an empty
// or whitespace-only completion is a failure, never a success.
func (s *implSummarizer) Summarize(ctx context.Context, text string, target time.Duration) (*Summary, error) {
	if strings.TrimSpace(text) == "" {
		return nil, NewError(s.model.Name(), CategoryInvalid, "document text is empty", nil)
	}

	prompt := buildPrompt(text, target)
	s.logger.Info(ctx, "Requesting %d-minute summary for %d characters via %s",
		targetMinutes(target), len(text), s.model.Name())

	var completion string
	err := retry.Do(ctx, s.policy, func(ctx context.Context) error {
		out, err := s.model.Complete(ctx, prompt)
		if err != nil {
			s.logger.Warn(ctx, "Summary attempt failed: %v", err)
			return err
		}
		completion = out
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary := strings.TrimSpace(completion)
	if summary == "" {
		return nil, NewError(s.model.Name(), CategoryEmpty, "model returned an empty summary", nil)
	}

	words := len(strings.Fields(summary))
	targetWords := targetMinutes(target) * wordsPerMinute
	if words < targetWords*7/10 {
		s.logger.Warn(ctx, "Summary significantly shorter than target: %d words (target %d)", words, targetWords)
	} else if words > targetWords*13/10 {
		s.logger.Warn(ctx, "Summary significantly longer than target: %d words (target %d)", words, targetWords)
	} else {
		s.logger.Info(ctx, "Generated summary: %d words (target %d)", words, targetWords)
	}

	tokens := preparer.EstimateTokens(text)
	return &Summary{
		Text:             summary,
		SourceChars:      len(text),
		EstimatedCostUSD: preparer.EstimateCostUSD(tokens),
		GeneratedAt:      time.Now(),
	}, nil
}
