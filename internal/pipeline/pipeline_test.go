package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nguyentantai21042004/paper-flow/internal/extractor"
	"github.com/nguyentantai21042004/paper-flow/internal/logger"
	"github.com/nguyentantai21042004/paper-flow/internal/summarizer"
	"github.com/nguyentantai21042004/paper-flow/internal/synthesizer"
)

type fakeExtractor struct {
	extraction *extractor.Extraction
	err        error
	calls      int
}

func (f *fakeExtractor) Extract(ctx context.Context, data []byte) (*extractor.Extraction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.extraction, nil
}

type fakeSummarizer struct {
	summary *summarizer.Summary
	err     error
	calls   int
	input   string
	target  time.Duration
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text string, target time.Duration) (*summarizer.Summary, error) {
	f.calls++
	f.input = text
	f.target = target
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

type fakeSynthesizer struct {
	audio *synthesizer.Audio
	err   error
	calls int
	input string
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text, voiceID string) (*synthesizer.Audio, error) {
	f.calls++
	f.input = text
	if f.err != nil {
		return nil, f.err
	}
	return f.audio, nil
}

func longText(n int) string {
	var b strings.Builder
	for b.Len() < n {
		b.WriteString("The measured effect is significant. Further trials confirm the result. ")
	}
	return b.String()
}

func newTestPipeline(ext *fakeExtractor, sum summarizer.Summarizer, synth *fakeSynthesizer, maxChars int) Pipeline {
	return New(ext, sum, synth, Config{
		MaxInputChars:  maxChars,
		TargetDuration: 3 * time.Minute,
		VoiceID:        "voice-a",
	}, logger.New("error"))
}

func TestProcessSuccess(t *testing.T) {
	text := longText(10_000)
	ext := &fakeExtractor{extraction: &extractor.Extraction{
		Text:      text,
		Method:    extractor.MethodPrimary,
		PageCount: 12,
	}}
	sum := &fakeSummarizer{summary: &summarizer.Summary{
		Text:             "A short spoken summary of the paper.",
		SourceChars:      8000,
		EstimatedCostUSD: 0.02,
		GeneratedAt:      time.Now(),
	}}
	synth := &fakeSynthesizer{audio: &synthesizer.Audio{
		Data:              []byte("mp3-bytes"),
		Segments:          [][]byte{[]byte("mp3-bytes")},
		EstimatedDuration: 2 * time.Minute,
		Voice:             "voice-a",
	}}

	p := newTestPipeline(ext, sum, synth, 8000)
	result, err := p.Process(context.Background(), "paper.pdf", []byte("%PDF"), Options{})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if result.Run.Stage != StageComplete {
		t.Errorf("stage = %s, want %s", result.Run.Stage, StageComplete)
	}
	if result.Run.Completed != 5 {
		t.Errorf("completed = %d, want 5", result.Run.Completed)
	}
	if result.Run.Err != nil {
		t.Errorf("run error = %v, want nil", result.Run.Err)
	}

	// The summarizer must see the prepared text, not the raw extraction.
	if len(sum.input) > 8000 {
		t.Errorf("summarizer input = %d chars, want <= 8000", len(sum.input))
	}
	if !strings.HasSuffix(strings.TrimRight(sum.input, " \n"), ".") {
		t.Errorf("prepared text does not end at a sentence boundary: %q", sum.input[len(sum.input)-20:])
	}
	if sum.target != 3*time.Minute {
		t.Errorf("target duration = %v, want 3m", sum.target)
	}

	if synth.input != sum.summary.Text {
		t.Errorf("synthesizer input = %q, want the summary text", synth.input)
	}
	if result.Audio == nil || result.Audio.EstimatedDuration <= 0 {
		t.Errorf("audio = %+v, want duration > 0", result.Audio)
	}
	if result.Document.Raw != nil {
		t.Error("raw upload buffer not released after completion")
	}
}

func TestProcessNoTextLayer(t *testing.T) {
	ext := &fakeExtractor{err: &extractor.ExtractionError{Attempts: []*extractor.AttemptError{
		{Method: extractor.MethodPrimary, Err: extractor.ErrNoTextLayer},
		{Method: extractor.MethodFallback, Err: extractor.ErrNoTextLayer},
	}}}
	sum := &fakeSummarizer{}
	synth := &fakeSynthesizer{}

	p := newTestPipeline(ext, sum, synth, 8000)
	result, err := p.Process(context.Background(), "scan.pdf", []byte("%PDF"), Options{})
	if err == nil {
		t.Fatal("Process() error = nil, want extraction failure")
	}
	if !errors.Is(err, extractor.ErrNoTextLayer) {
		t.Errorf("errors.Is(err, ErrNoTextLayer) = false for %v", err)
	}
	if result.Run.Stage != StageFailed {
		t.Errorf("stage = %s, want %s", result.Run.Stage, StageFailed)
	}
	if result.Run.FailedStage != StageExtracted {
		t.Errorf("failed stage = %s, want %s", result.Run.FailedStage, StageExtracted)
	}
	if sum.calls != 0 || synth.calls != 0 {
		t.Errorf("later stages ran after failure: summarizer=%d synthesizer=%d", sum.calls, synth.calls)
	}
	if result.Document.Raw != nil {
		t.Error("raw upload buffer not released after failure")
	}
}

func TestProcessSummarizerAuthFailure(t *testing.T) {
	ext := &fakeExtractor{extraction: &extractor.Extraction{
		Text:      longText(2000),
		Method:    extractor.MethodPrimary,
		PageCount: 3,
	}}
	authErr := summarizer.NewError("claude", summarizer.CategoryAuth, "invalid api key", nil)
	sum := &fakeSummarizer{err: authErr}
	synth := &fakeSynthesizer{}

	p := newTestPipeline(ext, sum, synth, 8000)
	result, err := p.Process(context.Background(), "paper.pdf", []byte("%PDF"), Options{})
	if !errors.Is(err, authErr) {
		t.Fatalf("Process() error = %v, want the summarizer error unchanged", err)
	}
	if result.Run.FailedStage != StageSummarized {
		t.Errorf("failed stage = %s, want %s", result.Run.FailedStage, StageSummarized)
	}
	if sum.calls != 1 {
		t.Errorf("summarizer calls = %d, want 1", sum.calls)
	}
	if synth.calls != 0 {
		t.Errorf("synthesizer ran after summarization failure: %d calls", synth.calls)
	}
	if result.Run.Completed != 2 {
		t.Errorf("completed = %d, want 2 (extract and prepare)", result.Run.Completed)
	}
}

func TestProcessSynthesizerFailure(t *testing.T) {
	ext := &fakeExtractor{extraction: &extractor.Extraction{Text: longText(500), Method: extractor.MethodPrimary, PageCount: 1}}
	sum := &fakeSummarizer{summary: &summarizer.Summary{Text: "Summary.", GeneratedAt: time.Now()}}
	synthErr := synthesizer.NewError("elevenlabs", synthesizer.CategoryServer, "upstream down", nil)
	synth := &fakeSynthesizer{err: synthErr}

	p := newTestPipeline(ext, sum, synth, 8000)
	result, err := p.Process(context.Background(), "paper.pdf", []byte("%PDF"), Options{})
	if !errors.Is(err, synthErr) {
		t.Fatalf("Process() error = %v, want the synthesizer error unchanged", err)
	}
	if result.Run.FailedStage != StageSynthesized {
		t.Errorf("failed stage = %s, want %s", result.Run.FailedStage, StageSynthesized)
	}
	if result.Audio != nil {
		t.Error("partial audio surfaced on failure")
	}
}

func TestProcessStageOrder(t *testing.T) {
	ext := &fakeExtractor{extraction: &extractor.Extraction{Text: longText(500), Method: extractor.MethodFallback, PageCount: 2}}
	sum := &fakeSummarizer{summary: &summarizer.Summary{Text: "Summary.", GeneratedAt: time.Now()}}
	synth := &fakeSynthesizer{audio: &synthesizer.Audio{Data: []byte("a"), EstimatedDuration: time.Second}}

	p := newTestPipeline(ext, sum, synth, 8000)
	result, err := p.Process(context.Background(), "paper.pdf", []byte("%PDF"), Options{})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	order := []Stage{StageUploaded, StageExtracted, StagePrepared, StageSummarized, StageSynthesized, StageComplete}
	var prev time.Time
	for _, stage := range order {
		ts, ok := result.Run.Transitions[stage]
		if !ok {
			t.Fatalf("no transition recorded for %s", stage)
		}
		if ts.Before(prev) {
			t.Errorf("transition %s at %v precedes previous stage at %v", stage, ts, prev)
		}
		prev = ts
	}
}

func TestProgress(t *testing.T) {
	ext := &fakeExtractor{extraction: &extractor.Extraction{Text: longText(500), Method: extractor.MethodPrimary, PageCount: 1}}
	sum := &fakeSummarizer{summary: &summarizer.Summary{Text: "Summary.", GeneratedAt: time.Now()}}
	synth := &fakeSynthesizer{audio: &synthesizer.Audio{Data: []byte("a"), EstimatedDuration: time.Second}}

	p := newTestPipeline(ext, sum, synth, 8000)
	result, err := p.Process(context.Background(), "paper.pdf", []byte("%PDF"), Options{})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	stage, completed, ok := p.Progress(result.Run.ID)
	if !ok {
		t.Fatal("Progress() did not find the run")
	}
	if stage != string(StageComplete) || completed != 5 {
		t.Errorf("Progress() = (%s, %d), want (%s, 5)", stage, completed, StageComplete)
	}

	if _, _, ok := p.Progress("no-such-run"); ok {
		t.Error("Progress() found an unknown run")
	}
}

func TestRunSnapshotIsIndependent(t *testing.T) {
	ext := &fakeExtractor{extraction: &extractor.Extraction{Text: longText(500), Method: extractor.MethodPrimary, PageCount: 1}}
	sum := &fakeSummarizer{summary: &summarizer.Summary{Text: "Summary.", GeneratedAt: time.Now()}}
	synth := &fakeSynthesizer{audio: &synthesizer.Audio{Data: []byte("a"), EstimatedDuration: time.Second}}

	p := newTestPipeline(ext, sum, synth, 8000)
	result, err := p.Process(context.Background(), "paper.pdf", []byte("%PDF"), Options{})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	snap, ok := p.Run(result.Run.ID)
	if !ok {
		t.Fatal("Run() did not find the run")
	}
	snap.Transitions[StageFailed] = time.Now()
	if _, leaked := result.Run.Transitions[StageFailed]; leaked {
		t.Error("snapshot shares the transitions map with the live run")
	}
}

func TestProcessCancelledBeforeStart(t *testing.T) {
	ext := &fakeExtractor{extraction: &extractor.Extraction{Text: "text", Method: extractor.MethodPrimary, PageCount: 1}}
	sum := &fakeSummarizer{}
	synth := &fakeSynthesizer{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newTestPipeline(ext, sum, synth, 8000)
	result, err := p.Process(ctx, "paper.pdf", []byte("%PDF"), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Process() error = %v, want context.Canceled", err)
	}
	if ext.calls != 0 {
		t.Errorf("extractor ran after cancellation: %d calls", ext.calls)
	}
	if result.Run.Stage != StageFailed {
		t.Errorf("stage = %s, want %s", result.Run.Stage, StageFailed)
	}
}

// cancellingSummarizer cancels the run context while it holds it, then
// returns a summary. The synthesize stage must never start afterwards.
type cancellingSummarizer struct {
	cancel context.CancelFunc
}

func (s *cancellingSummarizer) Summarize(ctx context.Context, text string, target time.Duration) (*summarizer.Summary, error) {
	s.cancel()
	return &summarizer.Summary{Text: "Summary.", GeneratedAt: time.Now()}, nil
}

func TestProcessCancelledBetweenStages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ext := &fakeExtractor{extraction: &extractor.Extraction{Text: longText(500), Method: extractor.MethodPrimary, PageCount: 1}}
	synth := &fakeSynthesizer{}

	p := newTestPipeline(ext, &cancellingSummarizer{cancel: cancel}, synth, 8000)
	result, err := p.Process(ctx, "paper.pdf", []byte("%PDF"), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Process() error = %v, want context.Canceled", err)
	}
	if synth.calls != 0 {
		t.Errorf("synthesizer ran after cancellation: %d calls", synth.calls)
	}
	if result.Run.FailedStage != StageSynthesized {
		t.Errorf("failed stage = %s, want %s", result.Run.FailedStage, StageSynthesized)
	}
	if result.Run.Completed != 3 {
		t.Errorf("completed = %d, want 3", result.Run.Completed)
	}
}

func TestProcessPerRunOptions(t *testing.T) {
	ext := &fakeExtractor{extraction: &extractor.Extraction{Text: longText(500), Method: extractor.MethodPrimary, PageCount: 1}}
	sum := &fakeSummarizer{summary: &summarizer.Summary{Text: "Summary.", GeneratedAt: time.Now()}}
	synth := &fakeSynthesizer{audio: &synthesizer.Audio{Data: []byte("a"), EstimatedDuration: time.Second}}

	p := newTestPipeline(ext, sum, synth, 8000)
	_, err := p.Process(context.Background(), "paper.pdf", []byte("%PDF"), Options{
		TargetDuration: 5 * time.Minute,
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if sum.target != 5*time.Minute {
		t.Errorf("target duration = %v, want per-run override of 5m", sum.target)
	}
}
