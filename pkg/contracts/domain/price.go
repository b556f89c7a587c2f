package domain

// PriceRecord is one daily price row after column mapping and numeric coercion.
// Date is kept verbatim from the source file; no calendar semantics are applied.
type PriceRecord struct {
	Date   string  `json:"date"`
	Ticker string  `json:"ticker" validate:"required"`
	Price  float64 `json:"price"`
	Close  float64 `json:"close"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Volume float64 `json:"volume"`
}

// PriceHeaders is the column layout of the deduplicated price table.
var PriceHeaders = []string{"Date", "Ticker", "Price", "Close", "Open", "High", "Low", "Volume"}
