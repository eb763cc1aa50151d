package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WithdrawalStatus tracks a branch withdrawal through the central desk.
// Stored values match the legacy system's Spanish status strings.
type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "PENDIENTE"
	WithdrawalReceived WithdrawalStatus = "RECIBIDO"
	WithdrawalRejected WithdrawalStatus = "RECHAZADO"
)

// Withdrawal is cash pulled from a branch register, pending reception at the
// central desk. Receiving it credits the ledger; a reversal debits it again
// and returns the record to PENDIENTE. Rejection is terminal and writes no
// ledger movement.
type Withdrawal struct {
	ID          string
	BranchID    string
	Currency    Currency
	Amount      decimal.Decimal
	Status      WithdrawalStatus
	RequestedBy string
	ReceivedBy  string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks withdrawal fields at creation time.
func (w *Withdrawal) Validate() error {
	if !validCurrencies[w.Currency] {
		return ErrInvalidCurrency
	}

	if w.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if w.RequestedBy == "" {
		return ErrMissingUser
	}

	return nil
}

// CanReceive reports whether the withdrawal may move to RECIBIDO.
func (w *Withdrawal) CanReceive() error {
	if w.Status != WithdrawalPending {
		return ErrInvalidTransition
	}

	return nil
}

// CanReverse reports whether a received withdrawal may be returned to
// PENDIENTE.
func (w *Withdrawal) CanReverse() error {
	if w.Status != WithdrawalReceived {
		return ErrInvalidTransition
	}

	return nil
}

// CanReject reports whether the withdrawal may be terminally rejected.
func (w *Withdrawal) CanReject() error {
	if w.Status != WithdrawalPending {
		return ErrInvalidTransition
	}

	return nil
}
