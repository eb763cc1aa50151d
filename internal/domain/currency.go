package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Currency is one of the cash desk's operating currencies.
type Currency string

const (
	CurrencyGuaranies Currency = "PYG"
	CurrencyDollars   Currency = "USD"
	CurrencyReales    Currency = "BRL"
	CurrencyEuros     Currency = "EUR"
)

var validCurrencies = map[Currency]bool{
	CurrencyGuaranies: true,
	CurrencyDollars:   true,
	CurrencyReales:    true,
	CurrencyEuros:     true,
}

// Currencies returns all supported currency codes.
func Currencies() []Currency {
	return []Currency{CurrencyGuaranies, CurrencyDollars, CurrencyReales, CurrencyEuros}
}

// NormalizeCurrency uppercases and trims a raw code without validating it.
func NormalizeCurrency(code string) Currency {
	return Currency(strings.ToUpper(strings.TrimSpace(code)))
}

// ParseCurrency normalizes and validates a currency code.
func ParseCurrency(code string) (Currency, error) {
	c := NormalizeCurrency(code)
	if !validCurrencies[c] {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}

	return c, nil
}

// CurrencyBalance is the running total for one currency.
type CurrencyBalance struct {
	Currency  Currency
	Balance   decimal.Decimal
	UpdatedAt time.Time
}
