package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the instruments recorded by one preprocessing run.
// A nil *PipelineMetrics is valid and records nothing.
type PipelineMetrics struct {
	RowsLoaded        metric.Int64Counter
	RowsDropped       metric.Int64Counter
	DuplicatesRemoved metric.Int64Counter
	JoinedRows        metric.Int64Counter
	StepDuration      metric.Float64Histogram
	HeapAllocated     metric.Int64Gauge
}

// NewPipelineMetrics creates the pipeline instruments on meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	rowsLoaded, err := meter.Int64Counter(
		"stockprep_rows_loaded",
		metric.WithDescription("Rows accepted by a table loader"),
	)
	if err != nil {
		return nil, err
	}

	rowsDropped, err := meter.Int64Counter(
		"stockprep_rows_dropped",
		metric.WithDescription("Rows discarded by a table loader because the ticker was empty"),
	)
	if err != nil {
		return nil, err
	}

	duplicates, err := meter.Int64Counter(
		"stockprep_duplicates_removed",
		metric.WithDescription("Records removed by deduplication"),
	)
	if err != nil {
		return nil, err
	}

	joined, err := meter.Int64Counter(
		"stockprep_joined_rows",
		metric.WithDescription("Rows produced by the ticker join"),
	)
	if err != nil {
		return nil, err
	}

	stepDuration, err := meter.Float64Histogram(
		"stockprep_step_duration_seconds",
		metric.WithDescription("Pipeline step duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	heap, err := meter.Int64Gauge(
		"stockprep_heap_allocated_bytes",
		metric.WithDescription("Heap bytes allocated once both tables are in memory"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		RowsLoaded:        rowsLoaded,
		RowsDropped:       rowsDropped,
		DuplicatesRemoved: duplicates,
		JoinedRows:        joined,
		StepDuration:      stepDuration,
		HeapAllocated:     heap,
	}, nil
}

// RecordLoad records the outcome of loading one table.
func (m *PipelineMetrics) RecordLoad(ctx context.Context, table string, loaded, dropped int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("table", table))
	m.RowsLoaded.Add(ctx, int64(loaded), attrs)
	m.RowsDropped.Add(ctx, int64(dropped), attrs)
}

// RecordDedup records how many duplicates were removed from a table.
func (m *PipelineMetrics) RecordDedup(ctx context.Context, table string, removed int) {
	if m == nil {
		return
	}
	m.DuplicatesRemoved.Add(ctx, int64(removed), metric.WithAttributes(attribute.String("table", table)))
}

// RecordJoin records the number of joined rows.
func (m *PipelineMetrics) RecordJoin(ctx context.Context, rows int) {
	if m == nil {
		return
	}
	m.JoinedRows.Add(ctx, int64(rows))
}

// RecordStep records a step's duration with its outcome.
func (m *PipelineMetrics) RecordStep(ctx context.Context, step string, d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.StepDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("step", step),
		attribute.String("status", status),
	))
}

// RecordMemory samples the Go heap.
func (m *PipelineMetrics) RecordMemory(ctx context.Context) {
	if m == nil {
		return
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.HeapAllocated.Record(ctx, int64(ms.HeapAlloc))
}
