package dataprocessing

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"stockprep/pkg/contracts/domain"
)

// SentimentIndex maps a ticker to its sentiments in table order. It is
// never modified once built, so lookups need no locking.
type SentimentIndex map[string][]domain.SentimentRecord

// BuildSentimentIndex groups sentiments by ticker.
func BuildSentimentIndex(sentiments []domain.SentimentRecord) SentimentIndex {
	idx := make(SentimentIndex)
	for _, s := range sentiments {
		idx[s.Ticker] = append(idx[s.Ticker], s)
	}
	return idx
}

// Lookup returns the sentiments for ticker, or nil.
func (idx SentimentIndex) Lookup(ticker string) []domain.SentimentRecord {
	return idx[ticker]
}

// Join attaches every sentiment of a ticker to each price row of that
// ticker. There is exactly one output row per price row, in price order;
// rows without sentiments carry an empty list.
//
// Rows are split into contiguous ranges, one per worker. workers <= 0
// uses GOMAXPROCS. The result does not depend on the worker count.
func Join(ctx context.Context, prices []domain.PriceRecord, sentiments []domain.SentimentRecord, workers int) []domain.JoinedRecord {
	return JoinIndexed(ctx, prices, BuildSentimentIndex(sentiments), workers)
}

// JoinIndexed is Join against a prebuilt index.
func JoinIndexed(ctx context.Context, prices []domain.PriceRecord, idx SentimentIndex, workers int) []domain.JoinedRecord {
	joined := make([]domain.JoinedRecord, len(prices))
	if len(prices) == 0 {
		return joined
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(prices))
	chunk := (len(prices) + workers - 1) / workers

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for lo := 0; lo < len(prices); lo += chunk {
		hi := min(lo+chunk, len(prices))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				joined[i] = domain.JoinedRecord{
					Stock:      prices[i],
					Sentiments: idx.Lookup(prices[i].Ticker),
				}
			}
			return nil
		})
	}

	// Workers never fail; Wait is the barrier.
	_ = g.Wait()
	return joined
}
