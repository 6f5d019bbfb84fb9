package entity

import (
	"fmt"
	"strings"
)

// Period is a fixed lookback window relative to the current date.
type Period string

const (
	Period1W Period = "1W"
	Period1M Period = "1M"
	Period3M Period = "3M"
	Period6M Period = "6M"
	Period1Y Period = "1Y"
)

var periodDays = map[Period]int{
	Period1W: 7,
	Period1M: 30,
	Period3M: 90,
	Period6M: 180,
	Period1Y: 365,
}

// ParsePeriod normalizes s to uppercase and validates it against the
// supported enumeration.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := periodDays[p]; !ok {
		return "", fmt.Errorf("%w: invalid period %q, supported periods are 1W, 1M, 3M, 6M, 1Y", ErrValidation, s)
	}
	return p, nil
}

// Days returns the lookback duration in days.
func (p Period) Days() int {
	return periodDays[p]
}
