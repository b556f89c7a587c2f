package exporter

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"stockprep/internal/config"
	apperrors "stockprep/internal/errors"
	"stockprep/internal/shared/testutil"
	"stockprep/pkg/contracts/domain"
)

var (
	testPrices = []domain.PriceRecord{
		{Date: "2023-01-01", Ticker: "X", Price: 10.5, Close: 10.5, Open: 10, High: 11, Low: 9.75, Volume: 1200},
		{Date: "2023-01-02", Ticker: "Y", Price: 3, Close: 3},
	}
	testSentiments = []domain.SentimentRecord{
		{Ticker: "X", Comment: "bullish, strongly", SentimentScore: "Positive"},
		{Ticker: "X", Comment: "meh", SentimentScore: domain.UnknownValue},
	}
)

func newTestExporter(t *testing.T) (*Exporter, string) {
	t.Helper()
	dir := t.TempDir()
	return NewExporter(config.NewPaths(dir), slog.New(slog.NewTextHandler(io.Discard, nil))), dir
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestExportPrices(t *testing.T) {
	e, dir := newTestExporter(t)

	path, err := e.ExportPrices(context.Background(), testPrices)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, config.StocksCSVName), path)

	assert.Equal(t,
		"Date,Ticker,Price,Close,Open,High,Low,Volume\n"+
			"2023-01-01,X,10.5,10.5,10,11,9.75,1200\n"+
			"2023-01-02,Y,3,3,0,0,0,0\n",
		readOutput(t, path))
}

func TestExportSentiments(t *testing.T) {
	e, _ := newTestExporter(t)

	path, err := e.ExportSentiments(context.Background(), testSentiments)
	require.NoError(t, err)

	assert.Equal(t,
		"Ticker,Comment,SentimentScore\n"+
			"X,\"bullish, strongly\",Positive\n"+
			"X,\"meh\",Unknown\n",
		readOutput(t, path))
}

func TestExportJoined(t *testing.T) {
	e, _ := newTestExporter(t)

	joined := []domain.JoinedRecord{
		{Stock: testPrices[0], Sentiments: testSentiments},
		{Stock: testPrices[1]},
	}

	path, err := e.ExportJoined(context.Background(), joined)
	require.NoError(t, err)

	assert.Equal(t,
		"Date,Ticker,Price,Close,Open,High,Low,Volume,Sentiments\n"+
			"2023-01-01,X,10.5,10.5,10,11,9.75,1200,\"bullish, strongly | meh\"\n"+
			"2023-01-02,Y,3,3,0,0,0,0,\"\"\n",
		readOutput(t, path))
}

func TestExportJoinedNeverTruncates(t *testing.T) {
	e, _ := newTestExporter(t)

	many := make([]domain.SentimentRecord, 50)
	for i := range many {
		many[i] = domain.SentimentRecord{Ticker: "X", Comment: "c"}
	}

	path, err := e.ExportJoined(context.Background(), []domain.JoinedRecord{{Stock: testPrices[0], Sentiments: many}})
	require.NoError(t, err)

	content := readOutput(t, path)
	assert.Equal(t, 49, strings.Count(content, CommentSeparator))
	assert.NotContains(t, content, "more")
}

func TestExportEmptyTables(t *testing.T) {
	e, _ := newTestExporter(t)
	ctx := context.Background()

	path, err := e.ExportPrices(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "Date,Ticker,Price,Close,Open,High,Low,Volume\n", readOutput(t, path))

	path, err = e.ExportJoined(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "Date,Ticker,Price,Close,Open,High,Low,Volume,Sentiments\n", readOutput(t, path))
}

func TestExportStorageError(t *testing.T) {
	// A file where the output directory should be.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	e := NewExporter(config.NewPaths(blocker), nil)

	_, err := e.ExportPrices(context.Background(), testPrices)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}

func TestExportWorkbook(t *testing.T) {
	e, dir := newTestExporter(t)

	joined := []domain.JoinedRecord{
		{Stock: testPrices[0], Sentiments: testSentiments},
		{Stock: testPrices[1]},
	}

	path, err := e.ExportWorkbook(context.Background(), testPrices, testSentiments, joined)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, config.JoinedXLSXName), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{StocksSheet, SentimentsSheet, JoinedSheet}, f.GetSheetList())

	stocks, err := f.GetRows(StocksSheet)
	require.NoError(t, err)
	require.Len(t, stocks, 3)
	assert.Equal(t, domain.PriceHeaders, stocks[0])
	assert.Equal(t, []string{"2023-01-01", "X", "10.5", "10.5", "10", "11", "9.75", "1200"}, stocks[1])

	sentiments, err := f.GetRows(SentimentsSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "bullish, strongly", "Positive"}, sentiments[1])

	rows, err := f.GetRows(JoinedSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "bullish, strongly | meh", rows[1][8])

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	matches, err := filepath.Glob(filepath.Join(dir, ".*"))
	require.NoError(t, err)
	assert.Empty(t, matches, "no temporary workbook left behind")
}

func TestExportWorkbookReplacesExisting(t *testing.T) {
	e, dir := newTestExporter(t)
	target := filepath.Join(dir, config.JoinedXLSXName)
	require.NoError(t, os.WriteFile(target, []byte("stale"), 0644))

	_, err := e.ExportWorkbook(context.Background(), testPrices, nil, nil)
	require.NoError(t, err)

	f, err := excelize.OpenFile(target)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(StocksSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestExportWorkbookClipsLongComments(t *testing.T) {
	dir := t.TempDir()
	logger, logs := testutil.NewTestLogger(t)
	e := NewExporter(config.NewPaths(dir), logger)

	comment := strings.Repeat("é", excelize.TotalCellChars)
	joined := []domain.JoinedRecord{{
		Stock: testPrices[0],
		Sentiments: []domain.SentimentRecord{
			{Ticker: "X", Comment: comment},
			{Ticker: "X", Comment: "tail"},
		},
	}}

	path, err := e.ExportWorkbook(context.Background(), testPrices[:1], nil, joined)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(JoinedSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, comment, rows[1][8])

	testutil.AssertLogContains(t, logs, slog.LevelWarn, "cell limit")
	testutil.AssertLogAttr(t, logs, "cells", int64(1))
}

func TestClipCell(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantLen int
		wantCut bool
	}{
		{"short", "abc", 3, false},
		{"at limit", strings.Repeat("a", excelize.TotalCellChars), excelize.TotalCellChars, false},
		{"over limit", strings.Repeat("a", excelize.TotalCellChars+5), excelize.TotalCellChars, true},
		{"multibyte over limit", strings.Repeat("ü", excelize.TotalCellChars+1), excelize.TotalCellChars, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, cut := clipCell(tt.in)
			assert.Equal(t, tt.wantCut, cut)
			assert.Equal(t, tt.wantLen, utf8.RuneCountInString(got))
			assert.True(t, utf8.ValidString(got))
		})
	}
}
