package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashCount records a physical count of the central desk, one line per
// currency. SystemBalance and Difference are stored for reporting; the ledger
// adjustment is derived from the running balance at write time, under lock.
type CashCount struct {
	ID        string
	UserID    string
	Notes     string
	CreatedAt time.Time
	Lines     []CountLine
}

// CountLine is one currency's result inside a count.
type CountLine struct {
	ID            string
	CountID       string
	Currency      Currency
	CountedTotal  decimal.Decimal
	SystemBalance decimal.Decimal
	Difference    decimal.Decimal
	Concept       string
}

// Validate checks a count before any balance is read. Counted totals may be
// zero (an empty drawer is a valid count) but never negative.
func (c *CashCount) Validate() error {
	if c.UserID == "" {
		return ErrMissingUser
	}

	if len(c.Lines) == 0 {
		return ErrEmptyCount
	}

	seen := make(map[Currency]bool, len(c.Lines))
	for _, line := range c.Lines {
		if !validCurrencies[line.Currency] {
			return ErrInvalidCurrency
		}

		if seen[line.Currency] {
			return ErrDuplicateCurrency
		}
		seen[line.Currency] = true

		if line.CountedTotal.IsNegative() {
			return ErrNegativeCountTotal
		}
	}

	return nil
}
