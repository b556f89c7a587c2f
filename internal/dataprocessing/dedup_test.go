package dataprocessing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"stockprep/pkg/contracts/domain"
)

func TestDeduplicate(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		want  []string
	}{
		{"empty", nil, []string{}},
		{"no duplicates", []string{"a", "b"}, []string{"a", "b"}},
		{"first occurrence wins", []string{"a", "B", "A", "b", "c"}, []string{"a", "B", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Deduplicate(tt.items, strings.ToLower))
		})
	}
}

func TestDeduplicatePrices(t *testing.T) {
	records := []domain.PriceRecord{
		{Date: "2023-01-01", Ticker: "X", Price: 1},
		{Date: "2023-01-02", Ticker: "X", Price: 2},
		{Date: "2023-01-01", Ticker: "X", Price: 3},
		{Date: "2023-01-01", Ticker: "Y", Price: 4},
		{Date: "", Ticker: "Y", Price: 5},
		{Date: "", Ticker: "Y", Price: 6},
	}

	out, res := DeduplicatePrices(records)

	assert.Equal(t, []float64{1, 2, 4, 5}, prices(out))
	assert.Equal(t, DedupResult{Input: 6, Kept: 4, Dropped: 2}, res)
}

func TestDeduplicateSentiments(t *testing.T) {
	records := []domain.SentimentRecord{
		{Ticker: "X", Comment: "bullish", SentimentScore: "Positive"},
		{Ticker: "X", Comment: "bearish", SentimentScore: "Negative"},
		{Ticker: "X", Comment: "bullish", SentimentScore: "Neutral"},
		{Ticker: "Y", Comment: "bullish", SentimentScore: "Positive"},
	}

	out, res := DeduplicateSentiments(records)

	assert.Equal(t, []domain.SentimentRecord{records[0], records[1], records[3]}, out)
	assert.Equal(t, 1, res.Dropped)
}

func TestDedupKeys(t *testing.T) {
	assert.Equal(t, "X|2023-01-01", PriceKey(domain.PriceRecord{Ticker: "X", Date: "2023-01-01"}))
	assert.Equal(t, "X|hello", SentimentKey(domain.SentimentRecord{Ticker: "X", Comment: "hello"}))
}

func prices(records []domain.PriceRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Price
	}
	return out
}
