// Package exporter writes the preprocessed tables.
//
// TableWriter is the low-level component: it streams header and record
// lines to a temporary file in the output directory and renames it into
// place on Close, so an interrupted export never leaves a truncated table.
// Selected columns are always wrapped in double quotes; their content is
// written verbatim, without escaping.
//
// Exporter builds the three tables on top of it:
//
//	deduped_stocks.csv       Date,Ticker,Price,Close,Open,High,Low,Volume
//	deduped_sentiments.csv   Ticker,Comment,SentimentScore (Comment quoted)
//	preprocessed_output.csv  price columns plus a quoted Sentiments field
//
// Numbers are rendered by FormatNumber, the shortest exact decimal form.
// ExportWorkbook writes the same tables as sheets of one .xlsx file, and
// WritePreview prints an abridged sample of joined rows for the operator.
//
// Example usage:
//
//	e := exporter.NewExporter(config.NewPaths("out"), logger)
//	if _, err := e.ExportPrices(ctx, prices); err != nil {
//	    return err
//	}
package exporter
