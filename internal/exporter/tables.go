package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"stockprep/internal/config"
	apperrors "stockprep/internal/errors"
	"stockprep/pkg/contracts/domain"
)

// Column positions that are always quoted.
var (
	sentimentQuoted = []int{1}
	joinedQuoted    = []int{len(domain.JoinedHeaders) - 1}
)

// Exporter writes the three output tables.
type Exporter struct {
	writer *TableWriter
	paths  *config.Paths
	logger *slog.Logger
}

// NewExporter creates an Exporter writing into paths.OutputDir.
func NewExporter(paths *config.Paths, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "exporter"))
	return &Exporter{
		writer: NewTableWriter(paths, logger),
		paths:  paths,
		logger: logger,
	}
}

// ExportPrices writes the deduplicated price table and returns its path.
func (e *Exporter) ExportPrices(ctx context.Context, records []domain.PriceRecord) (string, error) {
	sw, err := e.writer.CreateStreamWriter(config.StocksCSVName, WriteOptions{Headers: domain.PriceHeaders})
	if err != nil {
		return "", apperrors.NewStorageError("cannot create price table", err).WithContext("path", e.paths.StocksCSV)
	}

	row := make([]string, 0, len(domain.PriceHeaders))
	for _, r := range records {
		if err := sw.WriteRecord(priceFields(row, r)); err != nil {
			sw.Abort()
			return "", apperrors.NewStorageError("cannot write price table", err).WithContext("path", e.paths.StocksCSV)
		}
	}

	return e.finish(ctx, sw, e.paths.StocksCSV)
}

// ExportSentiments writes the deduplicated sentiment table. Comments are
// always quoted.
func (e *Exporter) ExportSentiments(ctx context.Context, records []domain.SentimentRecord) (string, error) {
	sw, err := e.writer.CreateStreamWriter(config.SentimentsCSVName, WriteOptions{
		Headers: domain.SentimentHeaders,
		Quoted:  sentimentQuoted,
	})
	if err != nil {
		return "", apperrors.NewStorageError("cannot create sentiment table", err).WithContext("path", e.paths.SentimentsCSV)
	}

	row := make([]string, 3)
	for _, r := range records {
		row[0], row[1], row[2] = r.Ticker, r.Comment, r.SentimentScore
		if err := sw.WriteRecord(row); err != nil {
			sw.Abort()
			return "", apperrors.NewStorageError("cannot write sentiment table", err).WithContext("path", e.paths.SentimentsCSV)
		}
	}

	return e.finish(ctx, sw, e.paths.SentimentsCSV)
}

// ExportJoined writes the joined table. Each row's comments are joined
// into one quoted Sentiments field, never truncated.
func (e *Exporter) ExportJoined(ctx context.Context, joined []domain.JoinedRecord) (string, error) {
	sw, err := e.writer.CreateStreamWriter(config.JoinedCSVName, WriteOptions{
		Headers: domain.JoinedHeaders,
		Quoted:  joinedQuoted,
	})
	if err != nil {
		return "", apperrors.NewStorageError("cannot create joined table", err).WithContext("path", e.paths.JoinedCSV)
	}

	row := make([]string, 0, len(domain.JoinedHeaders))
	for _, j := range joined {
		row = append(priceFields(row, j.Stock), JoinComments(j.Sentiments))
		if err := sw.WriteRecord(row); err != nil {
			sw.Abort()
			return "", apperrors.NewStorageError("cannot write joined table", err).WithContext("path", e.paths.JoinedCSV)
		}
	}

	return e.finish(ctx, sw, e.paths.JoinedCSV)
}

func (e *Exporter) finish(ctx context.Context, sw *StreamWriter, path string) (string, error) {
	if err := sw.Close(); err != nil {
		return "", apperrors.NewStorageError(fmt.Sprintf("cannot finish %s", path), err).WithContext("path", path)
	}
	e.logger.InfoContext(ctx, "wrote table",
		slog.String("path", path),
		slog.Int("rows", sw.Rows()))
	return path, nil
}
