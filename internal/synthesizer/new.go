package synthesizer

import (
	"github.com/nguyentantai21042004/paper-flow/internal/logger"
	"github.com/nguyentantai21042004/paper-flow/pkg/retry"
)

type implSynthesizer struct {
	service       SpeechService
	maxChunkChars int
	policy        retry.Policy
	logger        logger.Logger
}

// New creates a Synthesizer on top of the given speech service.
// maxChunkChars is the provider's single-request character limit; longer
// summaries are split at sentence boundaries and synthesized sequentially.
func New(service SpeechService, maxChunkChars int, policy retry.Policy, log logger.Logger) Synthesizer {
	if maxChunkChars <= 0 {
		maxChunkChars = 5000
	}
	return &implSynthesizer{
		service:       service,
		maxChunkChars: maxChunkChars,
		policy:        policy,
		logger:        log,
	}
}
