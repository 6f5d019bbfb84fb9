package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPair_Normalizes(t *testing.T) {
	pair, err := NewPair("usd", "eur")
	assert.NoError(t, err)
	assert.Equal(t, "USD", pair.Base)
	assert.Equal(t, "EUR", pair.Quote)
	assert.Equal(t, "USD/EUR", pair.String())
}

func TestNewPair_TrimsWhitespace(t *testing.T) {
	pair, err := NewPair(" gbp ", "inr")
	assert.NoError(t, err)
	assert.Equal(t, "GBP", pair.Base)
	assert.Equal(t, "INR", pair.Quote)
}

func TestNewPair_TooShort(t *testing.T) {
	_, err := NewPair("US", "EUR")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewPair_TooLong(t *testing.T) {
	_, err := NewPair("USD", "USDX")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewPair_NonAlphabetic(t *testing.T) {
	_, err := NewPair("U1D", "EUR")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewPair_IdenticalCodes(t *testing.T) {
	_, err := NewPair("USD", "usd")
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorContains(t, err, "must differ")
}

func TestValidCurrencyCode(t *testing.T) {
	assert.True(t, ValidCurrencyCode("USD"))
	assert.False(t, ValidCurrencyCode("usd"))
	assert.False(t, ValidCurrencyCode("US"))
	assert.False(t, ValidCurrencyCode("USDX"))
	assert.False(t, ValidCurrencyCode(""))
}
