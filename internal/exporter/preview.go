package exporter

import (
	"fmt"
	"io"
	"strings"

	"stockprep/pkg/contracts/domain"
)

// WritePreview prints the first rows joined rows for an operator, showing
// at most perRow comments per row followed by "(+N more)". The preview is
// never part of an exported table.
func WritePreview(w io.Writer, joined []domain.JoinedRecord, rows, perRow int) error {
	if rows <= 0 {
		return nil
	}
	rows = min(rows, len(joined))

	if _, err := fmt.Fprintln(w, "Sample joined data:"); err != nil {
		return err
	}

	for _, j := range joined[:rows] {
		shown := j.Sentiments
		if len(shown) > perRow {
			shown = shown[:max(perRow, 0)]
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Date: %s, Ticker: %s, Price: %s, Sentiments: %s",
			j.Stock.Date, j.Stock.Ticker, FormatNumber(j.Stock.Price), JoinComments(shown))
		if more := len(j.Sentiments) - len(shown); more > 0 {
			fmt.Fprintf(&b, " (+%d more)", more)
		}
		b.WriteByte('\n')

		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}
