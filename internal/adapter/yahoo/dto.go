package yahoo

import "time"

// Quote is one raw daily observation scraped from a history page. Codes and
// values are not validated here; the sync service decides what to keep.
type Quote struct {
	BaseCurrency  string
	QuoteCurrency string
	Date          time.Time
	Rate          float64
}
