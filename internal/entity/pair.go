package entity

import (
	"fmt"
	"regexp"
	"strings"
)

var currencyCodeRegexp = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidCurrencyCode reports whether code is a well-formed 3-letter uppercase
// currency code.
func ValidCurrencyCode(code string) bool {
	return currencyCodeRegexp.MatchString(code)
}

// Pair is an ordered (base, quote) currency pair. Both codes are normalized
// to uppercase by NewPair.
type Pair struct {
	Base  string
	Quote string
}

func NewPair(base, quote string) (Pair, error) {
	b := strings.ToUpper(strings.TrimSpace(base))
	q := strings.ToUpper(strings.TrimSpace(quote))

	if !ValidCurrencyCode(b) {
		return Pair{}, fmt.Errorf("%w: invalid currency code %q, expected 3 letters", ErrValidation, base)
	}
	if !ValidCurrencyCode(q) {
		return Pair{}, fmt.Errorf("%w: invalid currency code %q, expected 3 letters", ErrValidation, quote)
	}
	if b == q {
		return Pair{}, fmt.Errorf("%w: base and quote currency must differ, got %s", ErrValidation, b)
	}

	return Pair{Base: b, Quote: q}, nil
}

func (p Pair) String() string {
	return p.Base + "/" + p.Quote
}
