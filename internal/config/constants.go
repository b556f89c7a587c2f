package config

// Application constants
const (
	// Application Info
	AppName = "stockprep"

	// Default inputs, matching the file names produced by the data collectors
	DefaultPricesFile     = "india_stocks.csv"
	DefaultSentimentsFile = "ticker_sentiments.csv"

	// Output table file names
	StocksCSVName     = "deduped_stocks.csv"
	SentimentsCSVName = "deduped_sentiments.csv"
	JoinedCSVName     = "preprocessed_output.csv"
	JoinedXLSXName    = "preprocessed_output.xlsx"

	// Preview sizing
	DefaultPreviewRows   = 5
	DefaultPreviewPerRow = 3

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)
