package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	apperrors "stockprep/internal/errors"
	"stockprep/pkg/contracts/domain"
)

// progressEvery is how many rows pass between progress checks.
const progressEvery = 1 << 16

// PriceTable is the loaded price input.
type PriceTable struct {
	Records []domain.PriceRecord
	Headers []string
	// FirstRow holds the raw fields of the first data row, if any.
	FirstRow  []string
	Mapping   ColumnMapping
	Dropped   int
	YearCheck YearCheck
}

// SentimentTable is the loaded sentiment input.
type SentimentTable struct {
	Records []domain.SentimentRecord
	Dropped int
}

// Loader reads the price and sentiment inputs into memory.
type Loader struct {
	logger           *slog.Logger
	progressInterval time.Duration
}

// NewLoader creates a Loader that reports through logger.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:           logger.With(slog.String("component", "loader")),
		progressInterval: 2 * time.Second,
	}
}

// LoadPrices reads the price table at path. Columns are resolved once from
// the header; rows without a ticker are dropped and counted. A file that
// cannot be opened is an input error, an empty file an empty table.
func (l *Loader) LoadPrices(ctx context.Context, path string) (*PriceTable, error) {
	src, err := OpenSource(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	table := &PriceTable{}

	headers, err := src.Next()
	if errors.Is(err, io.EOF) {
		l.logger.WarnContext(ctx, "price input is empty", slog.String("path", path))
		return table, nil
	}
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("cannot read header of %s", path), err)
	}

	table.Headers = headers
	table.Mapping = MapColumns(headers)
	m := table.Mapping

	l.logger.InfoContext(ctx, "price column mapping",
		slog.String("path", path),
		slog.Any("mapping", m))
	if !m.Has(FieldDate) {
		l.logger.WarnContext(ctx, "no date column found, dates will be empty", slog.String("path", path))
	}
	if !m.Has(FieldTicker) {
		l.logger.WarnContext(ctx, "no ticker column found, every row will be dropped", slog.String("path", path))
	}

	progress := rate.Sometimes{Interval: l.progressInterval}

	for {
		fields, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("cannot read %s", path), err)
		}

		if table.FirstRow == nil {
			table.FirstRow = fields
		}
		fields = padFields(fields, len(headers))

		get := func(f Field) string {
			if i := m.Index(f); i >= 0 && i < len(fields) {
				return fields[i]
			}
			return ""
		}

		ticker := strings.TrimSpace(get(FieldTicker))
		if ticker == "" {
			table.Dropped++
			continue
		}

		table.Records = append(table.Records, domain.PriceRecord{
			Date:   strings.TrimSpace(get(FieldDate)),
			Ticker: ticker,
			Price:  ParseNumber(get(FieldPrice)),
			Close:  ParseNumber(get(FieldClose)),
			Open:   ParseNumber(get(FieldOpen)),
			High:   ParseNumber(get(FieldHigh)),
			Low:    ParseNumber(get(FieldLow)),
			Volume: ParseNumber(get(FieldVolume)),
		})

		if n := len(table.Records); n%progressEvery == 0 {
			progress.Do(func() {
				l.logger.DebugContext(ctx, "loading prices", slog.Int("rows", n))
			})
		}
	}

	table.YearCheck = CheckYearLikePrices(table.Records)
	if table.YearCheck.Suspicious {
		l.logger.WarnContext(ctx, "price values look like years, check the column mapping",
			slog.String("path", path),
			slog.Int("year_like", table.YearCheck.YearLike),
			slog.Int("sampled", table.YearCheck.Sampled),
			slog.String("mapping", m.String()))
	}

	l.logger.InfoContext(ctx, "prices loaded",
		slog.String("path", path),
		slog.Int("rows", len(table.Records)),
		slog.Int("dropped", table.Dropped))

	return table, nil
}

// LoadSentiments reads the sentiment table at path. Columns are positional:
// ticker, comment, score. The header row is skipped.
func (l *Loader) LoadSentiments(ctx context.Context, path string) (*SentimentTable, error) {
	src, err := OpenSource(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	table := &SentimentTable{}

	if _, err := src.Next(); errors.Is(err, io.EOF) {
		l.logger.WarnContext(ctx, "sentiment input is empty", slog.String("path", path))
		return table, nil
	} else if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("cannot read header of %s", path), err)
	}

	progress := rate.Sometimes{Interval: l.progressInterval}

	for {
		fields, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("cannot read %s", path), err)
		}

		fields = padFields(fields, 3)
		ticker := strings.TrimSpace(fields[0])
		if ticker == "" {
			table.Dropped++
			continue
		}

		rec := domain.SentimentRecord{
			Ticker:         ticker,
			Comment:        fields[1],
			SentimentScore: strings.TrimSpace(fields[2]),
		}
		if rec.Comment == "" {
			rec.Comment = domain.UnknownValue
		}
		if fields[2] == "" {
			rec.SentimentScore = domain.UnknownValue
		}
		table.Records = append(table.Records, rec)

		if n := len(table.Records); n%progressEvery == 0 {
			progress.Do(func() {
				l.logger.DebugContext(ctx, "loading sentiments", slog.Int("rows", n))
			})
		}
	}

	l.logger.InfoContext(ctx, "sentiments loaded",
		slog.String("path", path),
		slog.Int("rows", len(table.Records)),
		slog.Int("dropped", table.Dropped))

	return table, nil
}
