package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind classifies a ledger movement. Stored values are stable and
// queryable; display text comes from Label.
type MovementKind string

const (
	MovementCountAdjustment    MovementKind = "count_adjustment"
	MovementWithdrawalReceipt  MovementKind = "withdrawal_receipt"
	MovementWithdrawalReversal MovementKind = "withdrawal_reversal"
	MovementDeposit            MovementKind = "deposit"
	MovementDepositReversal    MovementKind = "deposit_reversal"
)

var movementLabels = map[MovementKind]string{
	MovementCountAdjustment:    "Ajuste Conteo",
	MovementWithdrawalReceipt:  "Recepción Retiro",
	MovementWithdrawalReversal: "Devolución Retiro",
	MovementDeposit:            "Depósito Bancario",
	MovementDepositReversal:    "Anulación Depósito",
}

// Valid reports whether k is a known movement kind.
func (k MovementKind) Valid() bool {
	_, ok := movementLabels[k]
	return ok
}

// Label returns the Spanish display text for the kind.
func (k MovementKind) Label() string {
	return movementLabels[k]
}

// SourceKind identifies the domain table a movement originates from.
type SourceKind string

const (
	SourceCount      SourceKind = "count"
	SourceWithdrawal SourceKind = "withdrawal"
	SourceDeposit    SourceKind = "deposit"
)

// sourceKindForMovement maps each movement kind to the domain record type
// that may produce it.
var sourceKindForMovement = map[MovementKind]SourceKind{
	MovementCountAdjustment:    SourceCount,
	MovementWithdrawalReceipt:  SourceWithdrawal,
	MovementWithdrawalReversal: SourceWithdrawal,
	MovementDeposit:            SourceDeposit,
	MovementDepositReversal:    SourceDeposit,
}

// SourceRef is a tagged reference from a ledger movement back to the domain
// record that caused it.
type SourceRef struct {
	Kind SourceKind
	ID   string
}

// Validate checks the reference is populated and its kind is consistent with
// the given movement kind.
func (s SourceRef) Validate(kind MovementKind) error {
	if s.ID == "" {
		return ErrInvalidSource
	}

	if want, ok := sourceKindForMovement[kind]; !ok || want != s.Kind {
		return ErrInvalidSource
	}

	return nil
}

// Movement is one immutable entry in the cash ledger. Entries are append-only:
// corrections are new entries with the opposite direction, never edits.
type Movement struct {
	ID           string
	Currency     Currency
	Kind         MovementKind
	Amount       decimal.Decimal
	IsCredit     bool
	PriorBalance decimal.Decimal
	NewBalance   decimal.Decimal
	Source       SourceRef
	Concept      string
	Notes        string
	UserID       string
	CreatedAt    time.Time
}

// Validate checks movement invariants before it is written.
func (m *Movement) Validate() error {
	if !validCurrencies[m.Currency] {
		return ErrInvalidCurrency
	}

	if !m.Kind.Valid() {
		return ErrInvalidMovementKind
	}

	if m.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if m.UserID == "" {
		return ErrMissingUser
	}

	if err := m.Source.Validate(m.Kind); err != nil {
		return err
	}

	expected := m.PriorBalance.Sub(m.Amount)
	if m.IsCredit {
		expected = m.PriorBalance.Add(m.Amount)
	}

	if !m.NewBalance.Equal(expected) {
		return ErrBalanceMismatch
	}

	return nil
}

// ApplyMovement returns the running balance after a movement of the given
// amount and direction is applied to prior.
func ApplyMovement(prior, amount decimal.Decimal, isCredit bool) decimal.Decimal {
	if isCredit {
		return prior.Add(amount)
	}

	return prior.Sub(amount)
}

// ReconcileDelta returns the signed difference between a counted total and
// the running balance. Positive means surplus (credit), negative shortage.
func ReconcileDelta(counted, balance decimal.Decimal) decimal.Decimal {
	return counted.Sub(balance)
}

// ReconcileConcept returns the display concept for a reconciliation delta
// when the caller did not supply one.
func ReconcileConcept(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "Sobró"
	}

	return "Faltó"
}
