package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseCurrency(t *testing.T) {
	for _, code := range []string{"PYG", "pyg", " Usd "} {
		if _, err := ParseCurrency(code); err != nil {
			t.Errorf("ParseCurrency(%q): unexpected error %v", code, err)
		}
	}

	if _, err := ParseCurrency("GBP"); !errors.Is(err, ErrInvalidCurrency) {
		t.Errorf("expected ErrInvalidCurrency, got %v", err)
	}
}

func TestValidateAmount(t *testing.T) {
	if err := ValidateAmount(decimal.NewFromInt(1000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ValidateAmount(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}

	huge, _ := decimal.NewFromString("2000000000000")
	if err := ValidateAmount(huge); !errors.Is(err, ErrAmountTooLarge) {
		t.Errorf("expected ErrAmountTooLarge, got %v", err)
	}
}

func TestValidateConceptAndNotes(t *testing.T) {
	if err := ValidateConcept(strings.Repeat("x", MaxConceptLength+1)); !errors.Is(err, ErrConceptTooLong) {
		t.Errorf("expected ErrConceptTooLong, got %v", err)
	}

	if err := ValidateNotes(strings.Repeat("x", MaxNotesLength+1)); !errors.Is(err, ErrNotesTooLong) {
		t.Errorf("expected ErrNotesTooLong, got %v", err)
	}

	if err := ValidateConcept("Sobró"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
