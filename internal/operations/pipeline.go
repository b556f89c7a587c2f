package operations

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"stockprep/internal/config"
	"stockprep/internal/dataprocessing"
	"stockprep/internal/exporter"
	"stockprep/internal/infrastructure"
	"stockprep/internal/validation"
)

// Options configures a Pipeline
type Options struct {
	PricesPath     string
	SentimentsPath string
	// Workers is the join fan-out degree. Zero or less means GOMAXPROCS.
	Workers int
	Paths   *config.Paths
	// XLSX also writes the tables as one workbook.
	XLSX bool

	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *infrastructure.PipelineMetrics
}

// NewOptions maps the application config. Logger, Tracer and Metrics are
// left for the caller.
func NewOptions(cfg *config.Config) Options {
	return Options{
		PricesPath:     cfg.Input.Prices,
		SentimentsPath: cfg.Input.Sentiments,
		Workers:        cfg.Join.EffectiveWorkers(),
		Paths:          config.NewPaths(cfg.Output.Dir),
		XLSX:           cfg.Output.XLSX,
	}
}

// Pipeline runs its steps in order, stopping at the first failure.
type Pipeline struct {
	steps  []Step
	tracer *StepTracer
	logger *slog.Logger
}

// NewPipeline builds the standard run: validate, load prices, load
// sentiments, dedup, join, export.
func NewPipeline(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	paths := opts.Paths
	if paths == nil {
		paths = config.NewPaths("")
	}

	loader := dataprocessing.NewLoader(logger)
	steps := []Step{
		NewValidateStep(validation.NewFileValidator(logger), opts.PricesPath, opts.SentimentsPath, paths.OutputDir),
		NewLoadPricesStep(loader, opts.PricesPath, opts.Metrics),
		NewLoadSentimentsStep(loader, opts.SentimentsPath, opts.Metrics),
		NewDedupStep(opts.Metrics, infrastructure.WithComponent(logger, "dedup")),
		NewJoinStep(opts.Workers, opts.Metrics),
		NewExportStep(exporter.NewExporter(paths, logger), opts.XLSX),
	}
	return NewPipelineWithSteps(opts, steps...)
}

// NewPipelineWithSteps builds a pipeline running the given steps. Only the
// Logger, Tracer and Metrics options are used.
func NewPipelineWithSteps(opts Options, steps ...Step) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		steps:  steps,
		tracer: NewStepTracer(opts.Tracer, opts.Metrics),
		logger: infrastructure.WithComponent(logger, "pipeline"),
	}
}

// Steps returns the steps in execution order
func (p *Pipeline) Steps() []Step {
	return p.steps
}

// Run executes every step. The returned state is never nil; on failure it
// says which step failed and the remaining steps are marked skipped, so a
// failed load never reaches export.
func (p *Pipeline) Run(ctx context.Context) (*RunState, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	runID := infrastructure.RunID(ctx)
	run := NewRunState(runID, p.steps)
	progress := NewProgress(len(p.steps))

	ctx, span := p.tracer.TraceRun(ctx, runID, len(p.steps))
	defer func() { p.tracer.RecordRunCompletion(ctx, span, run) }()

	run.Start()
	p.logger.InfoContext(ctx, "pipeline started", slog.Int("steps", len(p.steps)))

	for i, step := range p.steps {
		if err := p.runStep(ctx, run, step); err != nil {
			for _, rest := range p.steps[i+1:] {
				run.GetStep(rest.ID()).Skip("an earlier step failed")
			}
			err = WrapError(err, step.ID())
			run.Fail(err)
			p.logger.ErrorContext(ctx, "pipeline failed",
				slog.String("step", step.ID()),
				infrastructure.ErrorAttr(err),
				slog.String("elapsed", FormatElapsed(progress.Snapshot().Elapsed)))
			return run, err
		}

		snap := progress.Advance(step.Name())
		p.logger.DebugContext(ctx, "pipeline progress",
			slog.Int("completed", snap.Done),
			slog.Int("total", snap.Total),
			slog.Float64("percent", snap.Percent()))
	}

	run.Complete()
	p.logger.InfoContext(ctx, "pipeline completed",
		slog.Int("joined_rows", len(run.Joined)),
		slog.Any("outputs", run.Outputs),
		slog.String("elapsed", FormatElapsed(progress.Snapshot().Elapsed)))
	return run, nil
}

func (p *Pipeline) runStep(ctx context.Context, run *RunState, step Step) (err error) {
	state := run.GetStep(step.ID())
	stepCtx, span := p.tracer.TraceStep(ctx, run.ID, step.ID())
	start := time.Now()
	defer func() { p.tracer.RecordStepCompletion(stepCtx, span, step.ID(), time.Since(start), err) }()

	if err = ctx.Err(); err != nil {
		state.Fail(err)
		return err
	}
	if err = step.Validate(run); err != nil {
		state.Fail(err)
		return err
	}

	state.Start()
	p.logger.DebugContext(ctx, "step started", slog.String("step", step.ID()))

	if err = step.Execute(stepCtx, run); err != nil {
		state.Fail(err)
		return err
	}

	state.Complete()
	p.logger.InfoContext(ctx, "step completed",
		slog.String("step", step.ID()),
		slog.Duration("duration", state.Duration()))
	return nil
}
