package domain

// UnknownValue replaces a missing comment or sentiment label.
const UnknownValue = "Unknown"

// SentimentRecord is one free-text comment attached to a ticker.
type SentimentRecord struct {
	Ticker         string `json:"ticker" validate:"required"`
	Comment        string `json:"comment"`
	SentimentScore string `json:"sentiment_score"`
}

// SentimentHeaders is the column layout of the deduplicated sentiment table.
var SentimentHeaders = []string{"Ticker", "Comment", "SentimentScore"}
