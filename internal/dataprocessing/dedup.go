package dataprocessing

import "stockprep/pkg/contracts/domain"

// DedupResult summarizes one deduplication pass.
type DedupResult struct {
	Input   int
	Kept    int
	Dropped int
}

// Deduplicate keeps the first item for each distinct key, in input order.
// Later duplicates are discarded, never merged.
func Deduplicate[T any](items []T, key func(T) string) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		k := key(it)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}

// PriceKey identifies one trading day of one ticker.
func PriceKey(r domain.PriceRecord) string {
	return r.Ticker + "|" + r.Date
}

// SentimentKey identifies a repeated comment for a ticker.
func SentimentKey(r domain.SentimentRecord) string {
	return r.Ticker + "|" + r.Comment
}

// DeduplicatePrices applies PriceKey.
func DeduplicatePrices(records []domain.PriceRecord) ([]domain.PriceRecord, DedupResult) {
	out := Deduplicate(records, PriceKey)
	return out, DedupResult{Input: len(records), Kept: len(out), Dropped: len(records) - len(out)}
}

// DeduplicateSentiments applies SentimentKey.
func DeduplicateSentiments(records []domain.SentimentRecord) ([]domain.SentimentRecord, DedupResult) {
	out := Deduplicate(records, SentimentKey)
	return out, DedupResult{Input: len(records), Kept: len(out), Dropped: len(records) - len(out)}
}
