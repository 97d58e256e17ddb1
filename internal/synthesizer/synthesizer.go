package synthesizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nguyentantai21042004/paper-flow/pkg/retry"
)

// Average speaking rate used for the duration estimate.
const wordsPerMinute = 150

// Synthesize converts text into one audio artifact. Text over the provider
// limit is chunked at sentence boundaries and synthesized strictly in order;
// if any chunk exhausts its retries the whole call fails, identifying the
// chunk. Partial audio is never returned.
func (s *implSynthesizer) Synthesize(ctx context.Context, text, voiceID string) (*Audio, error) {
	if strings.TrimSpace(text) == "" {
		return nil, NewError(s.service.Name(), CategoryInvalid, "text is empty", nil)
	}

	chunks := splitChunks(text, s.maxChunkChars)
	s.logger.Info(ctx, "Synthesizing %d characters in %d chunk(s) via %s (voice %s)",
		len(text), len(chunks), s.service.Name(), voiceID)

	segments := make([][]byte, 0, len(chunks))
	total := 0

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("synthesis cancelled before chunk %d: %w", i, err)
		}

		var segment []byte
		err := retry.Do(ctx, s.policy, func(ctx context.Context) error {
			data, err := s.service.Speak(ctx, chunk, voiceID)
			if err != nil {
				s.logger.Warn(ctx, "Chunk %d/%d synthesis attempt failed: %v", i+1, len(chunks), err)
				return err
			}
			if len(data) == 0 {
				return NewError(s.service.Name(), CategoryEmpty, "provider returned no audio", nil)
			}
			segment = data
			return nil
		})
		if err != nil {
			return nil, withChunkIndex(s.service.Name(), err, i)
		}

		segments = append(segments, segment)
		total += len(segment)
		s.logger.Debug(ctx, "Chunk %d/%d done: %d bytes", i+1, len(chunks), len(segment))
	}

	data := make([]byte, 0, total)
	for _, seg := range segments {
		data = append(data, seg...)
	}

	audio := &Audio{
		Segments:          segments,
		Data:              data,
		EstimatedDuration: estimateDuration(text),
		Voice:             voiceID,
	}

	s.logger.Info(ctx, "Synthesis complete: %d bytes, ~%s of audio", len(data), audio.EstimatedDuration.Round(time.Second))
	return audio, nil
}

// withChunkIndex stamps the failed chunk onto a normalized error, wrapping
// anything else so the caller still learns which chunk broke the run.
func withChunkIndex(provider string, err error, index int) error {
	var serr *Error
	if errors.As(err, &serr) {
		stamped := *serr
		stamped.ChunkIndex = index
		return &stamped
	}
	return &Error{
		Provider:   provider,
		Category:   CategoryServer,
		ChunkIndex: index,
		Message:    "synthesis failed",
		Cause:      err,
	}
}

func estimateDuration(text string) time.Duration {
	words := len(strings.Fields(text))
	minutes := float64(words) / wordsPerMinute
	return time.Duration(minutes * float64(time.Minute))
}
