package exporter

import (
	"strconv"
	"strings"

	"stockprep/pkg/contracts/domain"
)

// CommentSeparator joins the comments of a joined row.
const CommentSeparator = " | "

// FormatNumber renders v in the shortest form that parses back to the same
// float64, without exponent and independent of locale.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// JoinComments concatenates the comments of sentiments with CommentSeparator.
func JoinComments(sentiments []domain.SentimentRecord) string {
	switch len(sentiments) {
	case 0:
		return ""
	case 1:
		return sentiments[0].Comment
	}

	var b strings.Builder
	for i, s := range sentiments {
		if i > 0 {
			b.WriteString(CommentSeparator)
		}
		b.WriteString(s.Comment)
	}
	return b.String()
}

// priceFields fills dst with the exported columns of r.
func priceFields(dst []string, r domain.PriceRecord) []string {
	return append(dst[:0],
		r.Date,
		r.Ticker,
		FormatNumber(r.Price),
		FormatNumber(r.Close),
		FormatNumber(r.Open),
		FormatNumber(r.High),
		FormatNumber(r.Low),
		FormatNumber(r.Volume),
	)
}
