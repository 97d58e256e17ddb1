package pipeline

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/paper-flow/internal/preparer"
)

func (p *implPipeline) Process(ctx context.Context, name string, pdf []byte, opts Options) (*Result, error) {
	if opts.VoiceID == "" {
		opts.VoiceID = p.cfg.VoiceID
	}
	if opts.TargetDuration <= 0 {
		opts.TargetDuration = p.cfg.TargetDuration
	}

	run := newRun()
	doc := &Document{Name: name, Raw: pdf}
	p.register(run)

	p.logger.Info(ctx, "run %s: processing %s (%d bytes)", run.ID, name, len(pdf))

	result := &Result{Run: run, Document: doc}

	if err := ctx.Err(); err != nil {
		return result, p.fail(ctx, run, doc, StageExtracted, err)
	}
	ext, err := p.extractor.Extract(ctx, pdf)
	if err != nil {
		return result, p.fail(ctx, run, doc, StageExtracted, err)
	}
	doc.Text = ext.Text
	doc.Method = ext.Method
	doc.PageCount = ext.PageCount
	p.advance(run, StageExtracted)
	p.logger.Info(ctx, "run %s: extracted %d chars from %d pages (%s)",
		run.ID, len(ext.Text), ext.PageCount, ext.Method)

	if err := ctx.Err(); err != nil {
		return result, p.fail(ctx, run, doc, StagePrepared, err)
	}
	prepared, err := preparer.Prepare(doc.Text, p.cfg.MaxInputChars)
	if err != nil {
		return result, p.fail(ctx, run, doc, StagePrepared, err)
	}
	p.advance(run, StagePrepared)
	if prepared.Truncated {
		p.logger.Warn(ctx, "run %s: input truncated from %d to %d chars",
			run.ID, prepared.OriginalChars, prepared.PreparedChars)
	}
	p.logger.Info(ctx, "run %s: prepared %d chars, ~%d tokens, ~$%.4f",
		run.ID, prepared.PreparedChars, prepared.EstimatedTokens, prepared.EstimatedCostUSD)

	if err := ctx.Err(); err != nil {
		return result, p.fail(ctx, run, doc, StageSummarized, err)
	}
	summary, err := p.summarizer.Summarize(ctx, prepared.Text, opts.TargetDuration)
	if err != nil {
		return result, p.fail(ctx, run, doc, StageSummarized, err)
	}
	result.Summary = summary
	p.advance(run, StageSummarized)
	p.logger.Info(ctx, "run %s: summarized to %d chars", run.ID, len(summary.Text))

	if err := ctx.Err(); err != nil {
		return result, p.fail(ctx, run, doc, StageSynthesized, err)
	}
	audio, err := p.synthesizer.Synthesize(ctx, summary.Text, opts.VoiceID)
	if err != nil {
		return result, p.fail(ctx, run, doc, StageSynthesized, err)
	}
	result.Audio = audio
	p.advance(run, StageSynthesized)
	p.logger.Info(ctx, "run %s: synthesized %d bytes of audio (~%s)",
		run.ID, len(audio.Data), audio.EstimatedDuration.Round(time.Second))

	p.complete(run, doc)
	return result, nil
}

func (p *implPipeline) Progress(runID string) (string, int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	run, ok := p.runs[runID]
	if !ok {
		return "", 0, false
	}
	return string(run.Stage), run.Completed, true
}

func (p *implPipeline) Run(runID string) (*Run, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	run, ok := p.runs[runID]
	if !ok {
		return nil, false
	}
	return run.snapshot(), true
}

func (p *implPipeline) register(run *Run) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.runs[run.ID] = run
}

// advance marks one stage done and moves the run forward.
func (p *implPipeline) advance(run *Run, stage Stage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	run.Stage = stage
	run.Completed++
	run.Transitions[stage] = time.Now()
}

// fail moves the run to the terminal Failed state, recording which stage was
// being attempted. The component error is returned unchanged so callers can
// inspect it with errors.Is and errors.As.
func (p *implPipeline) fail(ctx context.Context, run *Run, doc *Document, attempted Stage, err error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	run.Stage = StageFailed
	run.FailedStage = attempted
	run.Err = err
	run.Transitions[StageFailed] = time.Now()
	doc.Raw = nil
	p.logger.Error(ctx, "run %s: failed at %s: %v", run.ID, attempted, err)
	return err
}

// complete moves the run to Complete and releases the raw upload buffer.
func (p *implPipeline) complete(run *Run, doc *Document) {
	p.mu.Lock()
	defer p.mu.Unlock()
	run.Stage = StageComplete
	run.Completed++
	run.Transitions[StageComplete] = time.Now()
	doc.Raw = nil
}
