package pipeline

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/paper-flow/internal/summarizer"
	"github.com/nguyentantai21042004/paper-flow/internal/synthesizer"
)

// Options are the per-run knobs. Zero values fall back to the configured
// defaults.
type Options struct {
	VoiceID        string
	TargetDuration time.Duration
}

// Result is what a finished run hands back to the caller: the terminal run
// record plus, on success, the summary and the audio artifact.
type Result struct {
	Run      *Run
	Document *Document
	Summary  *summarizer.Summary
	Audio    *synthesizer.Audio
}

// Pipeline drives one PDF through Extract, Prepare, Summarize and Synthesize.
// It is the only component that mutates the run record. Independent runs may
// execute concurrently; each owns its own state.
type Pipeline interface {
	Process(ctx context.Context, name string, pdf []byte, opts Options) (*Result, error)

	// Progress reports the current stage and completed-stage count of a run,
	// for consumption by the UI layer.
	Progress(runID string) (stage string, completed int, ok bool)

	// Run returns a snapshot of the run record.
	Run(runID string) (*Run, bool)
}
