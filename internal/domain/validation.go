package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrAmountTooLarge = errors.New("amount exceeds maximum allowed")
	ErrConceptTooLong = errors.New("concept exceeds maximum length")
	ErrNotesTooLong   = errors.New("notes exceed maximum length")
)

// Validation constants
const (
	MaxConceptLength  = 255
	MaxNotesLength    = 2000
	MaxMovementAmount = "1000000000000" // guarani amounts run large
)

// ValidateAmount validates a movement amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxMovementAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxMovementAmount)
	}

	return nil
}

// ValidateConcept validates an optional concept override.
func ValidateConcept(concept string) error {
	if len(strings.TrimSpace(concept)) > MaxConceptLength {
		return fmt.Errorf("%w: limit is %d characters", ErrConceptTooLong, MaxConceptLength)
	}

	return nil
}

// ValidateNotes validates free-text notes.
func ValidateNotes(notes string) error {
	if len(notes) > MaxNotesLength {
		return fmt.Errorf("%w: limit is %d characters", ErrNotesTooLong, MaxNotesLength)
	}

	return nil
}
