package pipeline

import (
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/paper-flow/internal/extractor"
)

// Stage is one step of the fixed conversion sequence.
type Stage string

const (
	StageUploaded    Stage = "Uploaded"
	StageExtracted   Stage = "Extracted"
	StagePrepared    Stage = "Prepared"
	StageSummarized  Stage = "Summarized"
	StageSynthesized Stage = "Synthesized"
	StageComplete    Stage = "Complete"
	StageFailed      Stage = "Failed"
)

// Document is the uploaded PDF and what extraction learned about it. Written
// once by the extract stage, immutable afterwards.
type Document struct {
	Name      string
	Raw       []byte
	PageCount int
	Text      string
	Method    extractor.Method
}

// Run is the record of one document-to-audio conversion. Only the
// orchestrator mutates it; Complete and Failed are terminal.
type Run struct {
	ID          string
	Stage       Stage
	FailedStage Stage // stage whose component call failed, if any
	Err         error
	Completed   int // number of completed stages, monotonically increasing
	CreatedAt   time.Time
	Transitions map[Stage]time.Time
}

func newRun() *Run {
	now := time.Now()
	return &Run{
		ID:          uuid.New().String(),
		Stage:       StageUploaded,
		CreatedAt:   now,
		Transitions: map[Stage]time.Time{StageUploaded: now},
	}
}

// Terminal reports whether the run has finished, successfully or not.
func (r *Run) Terminal() bool {
	return r.Stage == StageComplete || r.Stage == StageFailed
}

// snapshot returns an independent copy safe to hand to other goroutines.
func (r *Run) snapshot() *Run {
	cp := *r
	cp.Transitions = make(map[Stage]time.Time, len(r.Transitions))
	for k, v := range r.Transitions {
		cp.Transitions[k] = v
	}
	return &cp
}
