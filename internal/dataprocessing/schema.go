package dataprocessing

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"stockprep/pkg/contracts/domain"
)

// NotFound is the column index reported for a field with no matching header.
const NotFound = -1

// Field identifies a semantic column of the price table.
type Field int

const (
	FieldDate Field = iota
	FieldTicker
	FieldPrice
	FieldClose
	FieldOpen
	FieldHigh
	FieldLow
	FieldVolume
)

var fieldNames = [...]string{"Date", "Ticker", "Price", "Close", "Open", "High", "Low", "Volume"}

func (f Field) String() string {
	if f < FieldDate || f > FieldVolume {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// Candidate header names per field, tried in order. Matching is
// case-insensitive so each spelling is listed once.
var (
	DateCandidates   = []string{"Date", "Timestamp", "Datetime"}
	TickerCandidates = []string{"Ticker", "Symbol", "Security", "TickerSymbol", "Symbol Name"}
	PriceCandidates  = []string{"Price"}
	CloseCandidates  = []string{"Close", "Last", "Adj Close", "AdjClose", "LTP", "Last Traded Price", "Close Price"}
	OpenCandidates   = []string{"Open", "Open Price"}
	HighCandidates   = []string{"High", "High Price"}
	LowCandidates    = []string{"Low", "Low Price"}
	VolumeCandidates = []string{"Volume", "VOL", "Shares Traded", "Total Trade Quantity", "Traded Volume", "Volume Traded"}
)

// fieldCandidates is the fixed resolution order used by MapColumns.
var fieldCandidates = []struct {
	field      Field
	candidates []string
}{
	{FieldDate, DateCandidates},
	{FieldTicker, TickerCandidates},
	{FieldPrice, PriceCandidates},
	{FieldClose, CloseCandidates},
	{FieldOpen, OpenCandidates},
	{FieldHigh, HighCandidates},
	{FieldLow, LowCandidates},
	{FieldVolume, VolumeCandidates},
}

// HeaderIndex maps normalized header names to their column index.
type HeaderIndex map[string]int

// NewHeaderIndex builds a HeaderIndex. Names are trimmed, lower-cased and
// stripped of a UTF-8 byte order mark. The first of several identical
// headers wins.
func NewHeaderIndex(headers []string) HeaderIndex {
	idx := make(HeaderIndex, len(headers))
	for i, h := range headers {
		key := normalizeHeader(h)
		if _, ok := idx[key]; !ok {
			idx[key] = i
		}
	}
	return idx
}

// Find returns the column of the first candidate present, or NotFound.
func (h HeaderIndex) Find(candidates []string) int {
	for _, c := range candidates {
		if i, ok := h[normalizeHeader(c)]; ok {
			return i
		}
	}
	return NotFound
}

// FindColumn is a one-shot HeaderIndex lookup.
func FindColumn(headers []string, candidates []string) int {
	return NewHeaderIndex(headers).Find(candidates)
}

const utf8BOM = "\ufeff"

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, utf8BOM)))
}

// ColumnMapping holds the resolved column index of every price field.
type ColumnMapping struct {
	columns [FieldVolume + 1]int
}

// MapColumns resolves every field against headers once. Price and Close
// stand in for each other when only one of them is present.
func MapColumns(headers []string) ColumnMapping {
	idx := NewHeaderIndex(headers)

	var m ColumnMapping
	for _, fc := range fieldCandidates {
		m.columns[fc.field] = idx.Find(fc.candidates)
	}

	switch {
	case m.columns[FieldPrice] == NotFound:
		m.columns[FieldPrice] = m.columns[FieldClose]
	case m.columns[FieldClose] == NotFound:
		m.columns[FieldClose] = m.columns[FieldPrice]
	}

	return m
}

// Index returns the column mapped to f, or NotFound.
func (m ColumnMapping) Index(f Field) int {
	if f < FieldDate || f > FieldVolume {
		return NotFound
	}
	return m.columns[f]
}

// Has reports whether f was mapped to a column.
func (m ColumnMapping) Has(f Field) bool {
	return m.Index(f) != NotFound
}

// String renders the mapping as "Date:0 Ticker:1 ...".
func (m ColumnMapping) String() string {
	parts := make([]string, 0, len(m.columns))
	for f := FieldDate; f <= FieldVolume; f++ {
		parts = append(parts, fmt.Sprintf("%s:%d", f, m.columns[f]))
	}
	return strings.Join(parts, " ")
}

// LogValue implements slog.LogValuer.
func (m ColumnMapping) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(m.columns))
	for f := FieldDate; f <= FieldVolume; f++ {
		attrs = append(attrs, slog.Int(strings.ToLower(f.String()), m.columns[f]))
	}
	return slog.GroupValue(attrs...)
}

const (
	yearCheckSample    = 2000
	yearCheckThreshold = 100
	minYearLike        = 1900
	maxYearLike        = 2100
)

// YearCheck is the outcome of the year-like price scan.
type YearCheck struct {
	Sampled    int
	YearLike   int
	Suspicious bool
}

// CheckYearLikePrices counts whole-number prices between 1900 and 2100 in
// the leading rows. A high count usually means the price column was mapped
// to a date or year column.
func CheckYearLikePrices(records []domain.PriceRecord) YearCheck {
	n := min(len(records), yearCheckSample)

	check := YearCheck{Sampled: n}
	for _, r := range records[:n] {
		if r.Price >= minYearLike && r.Price <= maxYearLike && math.Floor(r.Price) == r.Price {
			check.YearLike++
		}
	}
	check.Suspicious = check.YearLike > yearCheckThreshold
	return check
}
