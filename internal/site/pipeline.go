package site

import (
	"context"
	"time"

	"git.home.luguber.info/inful/buster/internal/foundation/errors"
	"git.home.luguber.info/inful/buster/internal/logfields"
	"git.home.luguber.info/inful/buster/internal/metrics"
	"git.home.luguber.info/inful/buster/internal/observability"
	"git.home.luguber.info/inful/buster/internal/rewrite"
)

// Options configures a pipeline run.
type Options struct {
	Root     string
	NotFound NotFoundPage
	Domain   rewrite.Domain
}

// Report collects the results of every stage that ran.
type Report struct {
	Stages   []*StageResult
	Duration time.Duration
}

// Stage returns the result of the named stage, or nil if it did not run.
func (r *Report) Stage(name string) *StageResult {
	for _, s := range r.Stages {
		if s.Stage == name {
			return s
		}
	}
	return nil
}

// Count totals events of kind across stages.
func (r *Report) Count(kind Kind) int {
	n := 0
	for _, s := range r.Stages {
		n += s.Count(kind)
	}
	return n
}

// Events returns all events in stage order.
func (r *Report) Events() []Event {
	var out []Event
	for _, s := range r.Stages {
		out = append(out, s.Events...)
	}
	return out
}

type stage struct {
	name string
	run  func(ctx context.Context) (*StageResult, error)
}

// Pipeline runs the rewrite stages over a mirrored site tree.
type Pipeline struct {
	opts     Options
	recorder metrics.Recorder
}

// NewPipeline creates a Pipeline with a no-op metrics recorder.
func NewPipeline(opts Options) *Pipeline {
	return &Pipeline{opts: opts, recorder: metrics.NoopRecorder{}}
}

// WithRecorder sets the metrics recorder.
func (p *Pipeline) WithRecorder(r metrics.Recorder) *Pipeline {
	if r != nil {
		p.recorder = r
	}
	return p
}

// Run executes the stages in order. It stops at the first stage error or
// when ctx is cancelled; the report holds every stage that ran.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{}

	if p.opts.Root == "" {
		p.recorder.IncRunOutcome("failed")
		return report, errors.ConfigError("site root is required").Build()
	}

	root := p.opts.Root
	stages := []stage{
		{StageNotFound, func(ctx context.Context) (*StageResult, error) {
			return SynthesizeNotFound(ctx, root, p.opts.NotFound)
		}},
		{StageNormalize, func(ctx context.Context) (*StageResult, error) {
			return NormalizeFilenames(ctx, root)
		}},
		{StageLinks, func(ctx context.Context) (*StageResult, error) {
			return RewriteLinks(ctx, root)
		}},
		{StageDomain, func(ctx context.Context) (*StageResult, error) {
			return RewriteDomains(ctx, root, p.opts.Domain)
		}},
	}

	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			p.finish(report, start, "failed")
			return report, errors.WrapError(err, errors.CategoryRuntime, "pipeline cancelled").
				WithContext("stage", st.name).
				Build()
		}
		sctx := observability.WithStage(ctx, st.name)
		observability.DebugContext(sctx, "Stage started")

		res, err := st.run(sctx)
		if res != nil {
			report.Stages = append(report.Stages, res)
			p.observe(sctx, res)
		}
		if err != nil {
			p.recorder.IncStageResult(st.name, metrics.ResultFatal)
			observability.ErrorContext(sctx, "Stage failed", logfields.Error(err))
			p.finish(report, start, "failed")
			return report, err
		}
		if res != nil && res.Failures > 0 {
			p.recorder.IncStageResult(st.name, metrics.ResultWarning)
		} else {
			p.recorder.IncStageResult(st.name, metrics.ResultSuccess)
		}
	}

	p.finish(report, start, "success")
	observability.InfoContext(ctx, "Site rewritten",
		logfields.Count(len(report.Events())),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))
	return report, nil
}

func (p *Pipeline) observe(ctx context.Context, res *StageResult) {
	p.recorder.ObserveStageDuration(res.Stage, res.Duration)
	p.recorder.AddFilesVisited(res.Stage, res.Visited)
	if res.Failures > 0 {
		p.recorder.AddFileFailures(res.Stage, res.Failures)
	}
	counts := map[Kind]int{}
	for _, e := range res.Events {
		counts[e.Kind]++
		observability.DebugContext(ctx, "Rewrite",
			logfields.Name(string(e.Kind)),
			logfields.Path(e.Path),
			logfields.Old(e.Old),
			logfields.New(e.New))
	}
	for kind, n := range counts {
		p.recorder.AddRewrites(res.Stage, string(kind), n)
	}
	observability.InfoContext(ctx, "Stage completed",
		logfields.Count(len(res.Events)),
		logfields.DurationMS(float64(res.Duration.Milliseconds())))
}

func (p *Pipeline) finish(report *Report, start time.Time, outcome string) {
	report.Duration = time.Since(start)
	p.recorder.ObserveRunDuration(report.Duration)
	p.recorder.IncRunOutcome(outcome)
}
