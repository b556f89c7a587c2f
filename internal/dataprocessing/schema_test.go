package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stockprep/pkg/contracts/domain"
)

func TestFindColumn(t *testing.T) {
	tests := []struct {
		name       string
		headers    []string
		candidates []string
		want       int
	}{
		{"case-insensitive first candidate order", []string{"SYMBOL", "LTP", "DATE"}, []string{"Ticker", "SYMBOL"}, 0},
		{"candidate order beats header order", []string{"Last", "Close"}, CloseCandidates, 1},
		{"not found", []string{"a", "b"}, []string{"c"}, NotFound},
		{"trimmed header", []string{" Ticker ", "Close"}, TickerCandidates, 0},
		{"bom stripped", []string{"\ufeffDate", "Ticker"}, DateCandidates, 0},
		{"first duplicate wins", []string{"Close", "close"}, CloseCandidates, 0},
		{"empty headers", nil, TickerCandidates, NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindColumn(tt.headers, tt.candidates))
		})
	}
}

func TestMapColumns(t *testing.T) {
	t.Run("vendor eod headers", func(t *testing.T) {
		m := MapColumns([]string{"SYMBOL", "DATE", "OPEN PRICE", "HIGH PRICE", "LOW PRICE", "LTP", "TOTAL TRADE QUANTITY"})

		assert.Equal(t, 1, m.Index(FieldDate))
		assert.Equal(t, 0, m.Index(FieldTicker))
		assert.Equal(t, 5, m.Index(FieldClose))
		assert.Equal(t, 5, m.Index(FieldPrice), "price falls back to close")
		assert.Equal(t, 2, m.Index(FieldOpen))
		assert.Equal(t, 3, m.Index(FieldHigh))
		assert.Equal(t, 4, m.Index(FieldLow))
		assert.Equal(t, 6, m.Index(FieldVolume))
	})

	t.Run("dedicated price column", func(t *testing.T) {
		m := MapColumns(domain.PriceHeaders)

		for i, f := range []Field{FieldDate, FieldTicker, FieldPrice, FieldClose, FieldOpen, FieldHigh, FieldLow, FieldVolume} {
			assert.Equal(t, i, m.Index(f), f.String())
		}
	})

	t.Run("close falls back to price", func(t *testing.T) {
		m := MapColumns([]string{"Ticker", "Price"})
		assert.Equal(t, 1, m.Index(FieldClose))
		assert.False(t, m.Has(FieldDate))
	})

	t.Run("nothing mapped", func(t *testing.T) {
		m := MapColumns([]string{"foo"})
		assert.False(t, m.Has(FieldTicker))
		assert.False(t, m.Has(FieldPrice))
		assert.Equal(t, NotFound, m.Index(Field(42)))
	})
}

func TestColumnMappingString(t *testing.T) {
	m := MapColumns([]string{"Ticker", "Close"})
	assert.Equal(t, "Date:-1 Ticker:0 Price:1 Close:1 Open:-1 High:-1 Low:-1 Volume:-1", m.String())
	assert.Equal(t, "Field(9)", Field(9).String())
}

func TestCheckYearLikePrices(t *testing.T) {
	records := func(n int, price float64) []domain.PriceRecord {
		out := make([]domain.PriceRecord, n)
		for i := range out {
			out[i] = domain.PriceRecord{Ticker: "X", Price: price}
		}
		return out
	}

	tests := []struct {
		name       string
		records    []domain.PriceRecord
		yearLike   int
		sampled    int
		suspicious bool
	}{
		{"empty", nil, 0, 0, false},
		{"at threshold", records(100, 2021), 100, 100, false},
		{"over threshold", records(101, 2021), 101, 101, true},
		{"fractional prices", records(500, 2021.5), 0, 500, false},
		{"out of range", records(500, 2500), 0, 500, false},
		{"bounds inclusive", append(records(60, 1900), records(60, 2100)...), 120, 120, true},
		{"sample capped", records(5000, 1999), 2000, 2000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckYearLikePrices(tt.records)
			assert.Equal(t, tt.yearLike, got.YearLike)
			assert.Equal(t, tt.sampled, got.Sampled)
			assert.Equal(t, tt.suspicious, got.Suspicious)
		})
	}
}
