package domain

// JoinedRecord pairs a price row with every sentiment of its ticker.
// The sentiment slice is shared between rows of the same ticker and must
// be treated as read-only.
type JoinedRecord struct {
	Stock      PriceRecord       `json:"stock"`
	Sentiments []SentimentRecord `json:"sentiments"`
}

// Comments returns the comment text of each attached sentiment, in order.
func (j JoinedRecord) Comments() []string {
	out := make([]string, len(j.Sentiments))
	for i, s := range j.Sentiments {
		out[i] = s.Comment
	}
	return out
}

// JoinedHeaders is the column layout of the joined output table.
var JoinedHeaders = []string{"Date", "Ticker", "Price", "Close", "Open", "High", "Low", "Volume", "Sentiments"}
