package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCashCountValidate(t *testing.T) {
	line := func(c Currency, total int64) CountLine {
		return CountLine{Currency: c, CountedTotal: decimal.NewFromInt(total)}
	}

	tests := []struct {
		name    string
		count   CashCount
		wantErr error
	}{
		{
			name: "valid multi currency",
			count: CashCount{
				UserID: "user-1",
				Lines:  []CountLine{line(CurrencyGuaranies, 100000), line(CurrencyDollars, 250)},
			},
		},
		{
			name: "zero total is a valid count",
			count: CashCount{
				UserID: "user-1",
				Lines:  []CountLine{line(CurrencyGuaranies, 0)},
			},
		},
		{
			name:    "missing user",
			count:   CashCount{Lines: []CountLine{line(CurrencyGuaranies, 1)}},
			wantErr: ErrMissingUser,
		},
		{
			name:    "no lines",
			count:   CashCount{UserID: "user-1"},
			wantErr: ErrEmptyCount,
		},
		{
			name: "duplicate currency",
			count: CashCount{
				UserID: "user-1",
				Lines:  []CountLine{line(CurrencyDollars, 10), line(CurrencyDollars, 20)},
			},
			wantErr: ErrDuplicateCurrency,
		},
		{
			name: "negative total",
			count: CashCount{
				UserID: "user-1",
				Lines:  []CountLine{line(CurrencyReales, -1)},
			},
			wantErr: ErrNegativeCountTotal,
		},
		{
			name: "invalid currency",
			count: CashCount{
				UserID: "user-1",
				Lines:  []CountLine{line("GBP", 10)},
			},
			wantErr: ErrInvalidCurrency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.count.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
