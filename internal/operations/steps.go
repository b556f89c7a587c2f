package operations

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"stockprep/internal/dataprocessing"
	"stockprep/internal/exporter"
	"stockprep/internal/infrastructure"
	"stockprep/internal/validation"
)

// Step IDs
const (
	StepIDValidate       = "validate"
	StepIDLoadPrices     = "load_prices"
	StepIDLoadSentiments = "load_sentiments"
	StepIDDedup          = "dedup"
	StepIDJoin           = "join"
	StepIDExport         = "export"
)

// Table labels used in metrics and logs
const (
	tablePrices     = "prices"
	tableSentiments = "sentiments"
)

// ValidateStep checks that both inputs are readable and the output
// directory is writable before any data is touched.
type ValidateStep struct {
	BaseStep
	validator      *validation.FileValidator
	pricesPath     string
	sentimentsPath string
	outputDir      string
}

// NewValidateStep creates the input/output check step
func NewValidateStep(validator *validation.FileValidator, pricesPath, sentimentsPath, outputDir string) *ValidateStep {
	return &ValidateStep{
		BaseStep:       NewBaseStep(StepIDValidate, "Validate Inputs"),
		validator:      validator,
		pricesPath:     pricesPath,
		sentimentsPath: sentimentsPath,
		outputDir:      outputDir,
	}
}

// Execute runs the checks
func (s *ValidateStep) Execute(ctx context.Context, run *RunState) error {
	if err := s.validator.ValidateInputs(s.pricesPath, s.sentimentsPath); err != nil {
		return err
	}
	return s.validator.ValidateOutputDirectory(s.outputDir)
}

// LoadPricesStep reads the price table
type LoadPricesStep struct {
	BaseStep
	loader  *dataprocessing.Loader
	path    string
	metrics *infrastructure.PipelineMetrics
}

// NewLoadPricesStep creates the price loading step
func NewLoadPricesStep(loader *dataprocessing.Loader, path string, metrics *infrastructure.PipelineMetrics) *LoadPricesStep {
	return &LoadPricesStep{
		BaseStep: NewBaseStep(StepIDLoadPrices, "Load Prices"),
		loader:   loader,
		path:     path,
		metrics:  metrics,
	}
}

// Execute loads the table into run.Prices
func (s *LoadPricesStep) Execute(ctx context.Context, run *RunState) error {
	table, err := s.loader.LoadPrices(ctx, s.path)
	if err != nil {
		return err
	}
	run.Prices = table

	s.metrics.RecordLoad(ctx, tablePrices, len(table.Records), table.Dropped)
	infrastructure.SetSpanAttributes(ctx,
		attribute.Int("rows.loaded", len(table.Records)),
		attribute.Int("rows.dropped", table.Dropped),
		attribute.Bool("prices.year_like", table.YearCheck.Suspicious),
		attribute.String("prices.mapping", table.Mapping.String()),
	)
	if st := run.GetStep(s.ID()); st != nil {
		st.SetMetadata("rows", len(table.Records))
		st.SetMetadata("dropped", table.Dropped)
	}
	return nil
}

// LoadSentimentsStep reads the sentiment table
type LoadSentimentsStep struct {
	BaseStep
	loader  *dataprocessing.Loader
	path    string
	metrics *infrastructure.PipelineMetrics
}

// NewLoadSentimentsStep creates the sentiment loading step
func NewLoadSentimentsStep(loader *dataprocessing.Loader, path string, metrics *infrastructure.PipelineMetrics) *LoadSentimentsStep {
	return &LoadSentimentsStep{
		BaseStep: NewBaseStep(StepIDLoadSentiments, "Load Sentiments"),
		loader:   loader,
		path:     path,
		metrics:  metrics,
	}
}

// Execute loads the table into run.Sentiments
func (s *LoadSentimentsStep) Execute(ctx context.Context, run *RunState) error {
	table, err := s.loader.LoadSentiments(ctx, s.path)
	if err != nil {
		return err
	}
	run.Sentiments = table

	s.metrics.RecordLoad(ctx, tableSentiments, len(table.Records), table.Dropped)
	infrastructure.SetSpanAttributes(ctx,
		attribute.Int("rows.loaded", len(table.Records)),
		attribute.Int("rows.dropped", table.Dropped),
	)
	if st := run.GetStep(s.ID()); st != nil {
		st.SetMetadata("rows", len(table.Records))
		st.SetMetadata("dropped", table.Dropped)
	}
	return nil
}

// DedupStep removes duplicate price days and duplicate comments, keeping
// the first occurrence of each.
type DedupStep struct {
	BaseStep
	metrics *infrastructure.PipelineMetrics
	logger  *slog.Logger
}

// NewDedupStep creates the deduplication step
func NewDedupStep(metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *DedupStep {
	return &DedupStep{
		BaseStep: NewBaseStep(StepIDDedup, "Deduplicate"),
		metrics:  metrics,
		logger:   logger,
	}
}

// Validate requires both loaded tables
func (s *DedupStep) Validate(run *RunState) error {
	if run.Prices == nil {
		return newMissingInputError(s.ID(), "the price table")
	}
	if run.Sentiments == nil {
		return newMissingInputError(s.ID(), "the sentiment table")
	}
	return nil
}

// Execute fills run.Stocks and run.Comments
func (s *DedupStep) Execute(ctx context.Context, run *RunState) error {
	run.Stocks, run.StockDedup = dataprocessing.DeduplicatePrices(run.Prices.Records)
	run.Comments, run.SentimentDedup = dataprocessing.DeduplicateSentiments(run.Sentiments.Records)

	s.metrics.RecordDedup(ctx, tablePrices, run.StockDedup.Dropped)
	s.metrics.RecordDedup(ctx, tableSentiments, run.SentimentDedup.Dropped)

	s.logger.InfoContext(ctx, "deduplicated prices",
		slog.Int("input", run.StockDedup.Input),
		slog.Int("kept", run.StockDedup.Kept),
		slog.Int("dropped", run.StockDedup.Dropped))
	s.logger.InfoContext(ctx, "deduplicated sentiments",
		slog.Int("input", run.SentimentDedup.Input),
		slog.Int("kept", run.SentimentDedup.Kept),
		slog.Int("dropped", run.SentimentDedup.Dropped))
	return nil
}

// JoinStep attaches each ticker's comments to every price row of that
// ticker.
type JoinStep struct {
	BaseStep
	workers int
	metrics *infrastructure.PipelineMetrics
}

// NewJoinStep creates the join step. workers <= 0 means GOMAXPROCS.
func NewJoinStep(workers int, metrics *infrastructure.PipelineMetrics) *JoinStep {
	return &JoinStep{
		BaseStep: NewBaseStep(StepIDJoin, "Join"),
		workers:  workers,
		metrics:  metrics,
	}
}

// Validate requires the deduplicated tables
func (s *JoinStep) Validate(run *RunState) error {
	if run.Stocks == nil || run.Comments == nil {
		return newMissingInputError(s.ID(), "deduplicated tables")
	}
	return nil
}

// Execute fills run.Joined
func (s *JoinStep) Execute(ctx context.Context, run *RunState) error {
	idx := dataprocessing.BuildSentimentIndex(run.Comments)
	run.Joined = dataprocessing.JoinIndexed(ctx, run.Stocks, idx, s.workers)

	s.metrics.RecordJoin(ctx, len(run.Joined))
	s.metrics.RecordMemory(ctx)
	infrastructure.SetSpanAttributes(ctx,
		attribute.Int("join.rows", len(run.Joined)),
		attribute.Int("join.tickers", len(idx)),
		attribute.Int("join.workers", s.workers),
	)
	return nil
}

// ExportStep writes the output tables
type ExportStep struct {
	BaseStep
	exporter *exporter.Exporter
	xlsx     bool
}

// NewExportStep creates the export step. With xlsx set the three tables are
// also written as one workbook.
func NewExportStep(exp *exporter.Exporter, xlsx bool) *ExportStep {
	return &ExportStep{
		BaseStep: NewBaseStep(StepIDExport, "Export"),
		exporter: exp,
		xlsx:     xlsx,
	}
}

// Validate requires the joined table
func (s *ExportStep) Validate(run *RunState) error {
	if run.Joined == nil {
		return newMissingInputError(s.ID(), "the joined table")
	}
	return nil
}

// Execute writes every table and records the paths in run.Outputs
func (s *ExportStep) Execute(ctx context.Context, run *RunState) error {
	path, err := s.exporter.ExportPrices(ctx, run.Stocks)
	if err != nil {
		return err
	}
	run.AddOutput(path)

	if path, err = s.exporter.ExportSentiments(ctx, run.Comments); err != nil {
		return err
	}
	run.AddOutput(path)

	if path, err = s.exporter.ExportJoined(ctx, run.Joined); err != nil {
		return err
	}
	run.AddOutput(path)

	if s.xlsx {
		if path, err = s.exporter.ExportWorkbook(ctx, run.Stocks, run.Comments, run.Joined); err != nil {
			return err
		}
		run.AddOutput(path)
	}
	return nil
}
