package summarizer

import (
	"context"
	"time"
)

// Summary is the audio-ready summary of one document. Immutable once created.
type Summary struct {
	Text             string
	SourceChars      int
	EstimatedCostUSD float64
	GeneratedAt      time.Time
}

// Summarizer turns prepared document text into a spoken-style summary sized
// for the target audio duration.
type Summarizer interface {
	Summarize(ctx context.Context, text string, target time.Duration) (*Summary, error)
}

// LanguageModel is the narrow capability a summarization backend must expose.
// Implementations classify their own failures into *Error before returning.
type LanguageModel interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}
