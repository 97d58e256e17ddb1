package pipeline

import (
	"sync"
	"time"

	"github.com/nguyentantai21042004/paper-flow/internal/extractor"
	"github.com/nguyentantai21042004/paper-flow/internal/logger"
	"github.com/nguyentantai21042004/paper-flow/internal/summarizer"
	"github.com/nguyentantai21042004/paper-flow/internal/synthesizer"
)

// Config carries the pipeline-level defaults, supplied by the caller.
type Config struct {
	MaxInputChars  int
	TargetDuration time.Duration
	VoiceID        string
}

type implPipeline struct {
	extractor   extractor.Extractor
	summarizer  summarizer.Summarizer
	synthesizer synthesizer.Synthesizer
	cfg         Config
	logger      logger.Logger

	mu   sync.Mutex
	runs map[string]*Run
}

// New creates a Pipeline from its stage components.
func New(
	ext extractor.Extractor,
	sum summarizer.Summarizer,
	synth synthesizer.Synthesizer,
	cfg Config,
	log logger.Logger,
) Pipeline {
	if cfg.MaxInputChars <= 0 {
		cfg.MaxInputChars = 396_000
	}
	if cfg.TargetDuration <= 0 {
		cfg.TargetDuration = 3 * time.Minute
	}
	return &implPipeline{
		extractor:   ext,
		summarizer:  sum,
		synthesizer: synth,
		cfg:         cfg,
		logger:      log,
		runs:        make(map[string]*Run),
	}
}
