// Package dataprocessing turns raw price and sentiment files into joined,
// deduplicated in-memory tables.
//
// # Architecture
//
// The package is organized leaf-first:
//
//  1. Tokenizer: SplitLine and ParseNumber, the quoting and numeric
//     coercion rules shared by every input.
//  2. Schema: MapColumns resolves each price field against the header using
//     ordered candidate lists. The first candidate present wins.
//  3. Sources: OpenSource yields rows from comma-delimited text or from the
//     first sheet of an .xlsx workbook.
//  4. Loader: LoadPrices and LoadSentiments build typed tables, dropping rows
//     without a ticker.
//  5. Deduplicate: keeps the first record per key (ticker|date for prices,
//     ticker|comment for sentiments).
//  6. Join: broadcasts each ticker's sentiments onto every price row of that
//     ticker, in parallel over contiguous row ranges.
//
// # Usage
//
//	loader := dataprocessing.NewLoader(logger)
//	prices, err := loader.LoadPrices(ctx, "india_stocks.csv")
//	if err != nil {
//	    return err
//	}
//	sentiments, err := loader.LoadSentiments(ctx, "ticker_sentiments.csv")
//	if err != nil {
//	    return err
//	}
//	p, _ := dataprocessing.DeduplicatePrices(prices.Records)
//	s, _ := dataprocessing.DeduplicateSentiments(sentiments.Records)
//	joined := dataprocessing.Join(ctx, p, s, 0)
//
// # Error Handling
//
// Only an input that cannot be opened or read is an error. Malformed numbers
// become 0, missing columns leave their fields at their defaults, and rows
// without a ticker are counted in the table's Dropped field.
package dataprocessing
