package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepositStatus tracks a bank deposit of desk cash.
type DepositStatus string

const (
	DepositPending   DepositStatus = "PENDIENTE"
	DepositConfirmed DepositStatus = "CONFIRMADO"
	DepositCancelled DepositStatus = "ANULADO"
)

// Deposit is cash leaving the desk for a bank account. Confirmation debits
// the ledger; cancelling a confirmed deposit writes a compensating credit.
// The bank account is metadata only and never scopes the running balance.
type Deposit struct {
	ID          string
	BankAccount string
	Reference   string
	Currency    Currency
	Amount      decimal.Decimal
	Status      DepositStatus
	UserID      string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks deposit fields at creation time.
func (d *Deposit) Validate() error {
	if !validCurrencies[d.Currency] {
		return ErrInvalidCurrency
	}

	if d.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if d.UserID == "" {
		return ErrMissingUser
	}

	if d.BankAccount == "" {
		return ErrInvalidBankAccount
	}

	return nil
}

// CanConfirm reports whether the deposit may move to CONFIRMADO.
func (d *Deposit) CanConfirm() error {
	if d.Status != DepositPending {
		return ErrInvalidTransition
	}

	return nil
}

// CanCancel reports whether the deposit may move to ANULADO. Both pending and
// confirmed deposits can be cancelled; only the latter needs a compensating
// ledger credit.
func (d *Deposit) CanCancel() error {
	if d.Status == DepositCancelled {
		return ErrInvalidTransition
	}

	return nil
}
