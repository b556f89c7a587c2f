package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	apperrors "stockprep/internal/errors"
	"stockprep/pkg/contracts/domain"
)

// Workbook sheet names.
const (
	StocksSheet     = "Stocks"
	SentimentsSheet = "Sentiments"
	JoinedSheet     = "Joined"
)

// ExportWorkbook writes the three tables as sheets of one workbook. Numeric
// columns are stored as numbers. A sheet holds at most excelize.TotalRows
// rows including the header; larger tables are rejected.
//
// A cell holds at most excelize.TotalCellChars characters. Joined comment
// lists longer than that are clipped in the workbook and a warning is
// logged; preprocessed_output.csv always carries the full list.
func (e *Exporter) ExportWorkbook(ctx context.Context, prices []domain.PriceRecord, sentiments []domain.SentimentRecord, joined []domain.JoinedRecord) (string, error) {
	path := e.paths.JoinedXLSX

	for name, n := range map[string]int{StocksSheet: len(prices), SentimentsSheet: len(sentiments), JoinedSheet: len(joined)} {
		if n+1 > excelize.TotalRows {
			return "", apperrors.NewStorageError(
				fmt.Sprintf("sheet %s needs %d rows, workbooks hold %d", name, n+1, excelize.TotalRows), nil).
				WithContext("path", path)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), StocksSheet); err != nil {
		return "", apperrors.NewStorageError("cannot prepare workbook", err)
	}
	for _, name := range []string{SentimentsSheet, JoinedSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return "", apperrors.NewStorageError("cannot prepare workbook", err)
		}
	}

	err := writeSheet(f, StocksSheet, domain.PriceHeaders, len(prices), func(i int) []interface{} {
		return priceCells(prices[i])
	})
	if err == nil {
		err = writeSheet(f, SentimentsSheet, domain.SentimentHeaders, len(sentiments), func(i int) []interface{} {
			s := sentiments[i]
			return []interface{}{s.Ticker, s.Comment, s.SentimentScore}
		})
	}
	clipped := 0
	if err == nil {
		err = writeSheet(f, JoinedSheet, domain.JoinedHeaders, len(joined), func(i int) []interface{} {
			comments, cut := clipCell(JoinComments(joined[i].Sentiments))
			if cut {
				clipped++
			}
			return append(priceCells(joined[i].Stock), comments)
		})
	}
	if err != nil {
		return "", apperrors.NewStorageError("cannot write workbook", err).WithContext("path", path)
	}

	if err := saveWorkbook(f, path); err != nil {
		return "", apperrors.NewStorageError("cannot save workbook", err).WithContext("path", path)
	}

	if clipped > 0 {
		e.logger.WarnContext(ctx, "joined comments clipped to the workbook cell limit",
			slog.String("path", path),
			slog.Int("cells", clipped),
			slog.Int("limit", excelize.TotalCellChars))
	}
	e.logger.InfoContext(ctx, "wrote workbook",
		slog.String("path", path),
		slog.Int("joined_rows", len(joined)))
	return path, nil
}

// saveWorkbook writes f to a temporary file next to path and renames it
// into place.
func saveWorkbook(f *excelize.File, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.xlsx")
	if err != nil {
		return err
	}
	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

// clipCell cuts s to excelize.TotalCellChars runes.
func clipCell(s string) (string, bool) {
	if utf8.RuneCountInString(s) <= excelize.TotalCellChars {
		return s, false
	}
	n := 0
	for i := range s {
		if n == excelize.TotalCellChars {
			return s[:i], true
		}
		n++
	}
	return s, false
}

func writeSheet(f *excelize.File, sheet string, headers []string, n int, row func(int) []interface{}) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row(i)); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+2, err)
		}
	}

	return sw.Flush()
}

func priceCells(r domain.PriceRecord) []interface{} {
	return []interface{}{r.Date, r.Ticker, r.Price, r.Close, r.Open, r.High, r.Low, r.Volume}
}
