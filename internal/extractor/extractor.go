package extractor

import (
	"context"
	"fmt"
	"unicode"
)

// Extract runs the strategies in order and returns the first usable result.
// A parseable document whose strategies all come back below the usable-text
// threshold fails with ErrNoTextLayer rather than an empty success.
func (e *implExtractor) Extract(ctx context.Context, data []byte) (*Extraction, error) {
	if len(data) == 0 {
		return nil, &ExtractionError{Attempts: []*AttemptError{
			{Method: MethodPrimary, Err: ErrEmptyInput},
		}}
	}

	var attempts []*AttemptError

	for _, s := range e.strategies {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("extraction cancelled: %w", err)
		}

		text, pages, err := s.extract(data)
		if err != nil {
			e.logger.Warn(ctx, "Extraction via %s failed: %v", s.method(), err)
			attempts = append(attempts, &AttemptError{Method: s.method(), Err: err})
			continue
		}

		if !e.usable(text) {
			e.logger.Warn(ctx, "Extraction via %s produced no usable text (%d chars)", s.method(), len(text))
			attempts = append(attempts, &AttemptError{Method: s.method(), Err: ErrNoTextLayer})
			continue
		}

		e.logger.Info(ctx, "Extracted %d characters from %d pages via %s", len(text), pages, s.method())
		return &Extraction{Text: text, Method: s.method(), PageCount: pages}, nil
	}

	return nil, &ExtractionError{Attempts: attempts}
}

// usable reports whether text clears the minimum non-whitespace threshold.
func (e *implExtractor) usable(text string) bool {
	count := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			count++
			if count >= e.minTextChars {
				return true
			}
		}
	}
	return false
}
