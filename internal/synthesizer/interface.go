package synthesizer

import (
	"context"
	"time"
)

// Audio is the synthesized narration: the ordered per-chunk segments plus
// their concatenation. Immutable once returned.
type Audio struct {
	Segments          [][]byte
	Data              []byte
	EstimatedDuration time.Duration
	Voice             string
}

// Synthesizer converts summary text into one audio artifact, chunking the
// text when it exceeds the provider's per-request limit.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) (*Audio, error)
}

// SpeechService is the narrow capability a TTS backend must expose.
// Implementations classify their own failures into *Error before returning.
type SpeechService interface {
	Name() string
	Speak(ctx context.Context, text, voiceID string) ([]byte, error)
}
