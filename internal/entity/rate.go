package entity

import "time"

// Rate is one exchange rate observation: the price of one unit of the base
// currency in the quote currency on a given calendar date. At most one row
// exists per (base, quote, date).
type Rate struct {
	BaseCurrency  string    `db:"base_currency" json:"base_currency"`
	QuoteCurrency string    `db:"quote_currency" json:"quote_currency"`
	Date          time.Time `db:"date" json:"date"`
	Rate          float64   `db:"rate" json:"rate"`
	RecordedAt    time.Time `db:"recorded_at" json:"recorded_at,omitempty"`
}

// SyncResult summarizes one sync run for a pair.
type SyncResult struct {
	Pair     Pair
	From     time.Time
	To       time.Time
	Inserted int64
	Updated  int64
	Skipped  int64
}
