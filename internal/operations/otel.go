package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"stockprep/internal/infrastructure"
)

const (
	TracerName = "stockprep.pipeline"
)

// StepTracer provides OpenTelemetry instrumentation for pipeline runs
type StepTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewStepTracer creates a tracer reporting to tracer and metrics. A nil
// tracer falls back to the global provider; nil metrics record nothing.
func NewStepTracer(tracer trace.Tracer, metrics *infrastructure.PipelineMetrics) *StepTracer {
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	return &StepTracer{tracer: tracer, metrics: metrics}
}

// TraceRun creates a span for the entire run
func (st *StepTracer) TraceRun(ctx context.Context, runID string, steps int) (context.Context, trace.Span) {
	return st.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("run.steps", steps),
		),
	)
}

// TraceStep creates a span for one step
func (st *StepTracer) TraceStep(ctx context.Context, runID, stepID string) (context.Context, trace.Span) {
	spanName := fmt.Sprintf("pipeline.step.%s", stepID)
	return st.tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("step.id", stepID),
		),
	)
}

// RecordStepCompletion closes out a step span and records its duration
func (st *StepTracer) RecordStepCompletion(ctx context.Context, span trace.Span, stepID string, duration time.Duration, err error) {
	st.metrics.RecordStep(ctx, stepID, duration, err)

	span.SetAttributes(attribute.Float64("step.duration_seconds", duration.Seconds()))
	if err != nil {
		infrastructure.RecordError(ctx, err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "step completed")
	}
	span.End()
}

// RecordRunCompletion closes out the run span
func (st *StepTracer) RecordRunCompletion(ctx context.Context, span trace.Span, run *RunState) {
	span.SetAttributes(
		attribute.String("run.status", string(run.Status)),
		attribute.Float64("run.duration_seconds", run.Duration().Seconds()),
		attribute.Int("run.joined_rows", len(run.Joined)),
	)
	if run.Error != nil {
		span.SetStatus(codes.Error, run.Error.Error())
	} else {
		span.SetStatus(codes.Ok, "run completed")
	}
	st.metrics.RecordMemory(ctx)
	span.End()
}
