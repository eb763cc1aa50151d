package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmasys/cajacentral/internal/adapter/http/dto"
	"github.com/farmasys/cajacentral/internal/domain"
	"github.com/farmasys/cajacentral/internal/usecase"
)

type ledgerServiceStub struct {
	getBalanceFn       func(ctx context.Context, currency domain.Currency) (decimal.Decimal, error)
	listBalancesFn     func(ctx context.Context) ([]*domain.CurrencyBalance, error)
	listMovementsFn    func(ctx context.Context, input usecase.ListMovementsInput) ([]*domain.Movement, error)
	getBalanceAtFn     func(ctx context.Context, currency domain.Currency, at time.Time) (decimal.Decimal, error)
	checkConsistencyFn func(ctx context.Context) (*usecase.ConsistencyReport, error)
}

func (s *ledgerServiceStub) GetBalance(ctx context.Context, currency domain.Currency) (decimal.Decimal, error) {
	return s.getBalanceFn(ctx, currency)
}

func (s *ledgerServiceStub) ListBalances(ctx context.Context) ([]*domain.CurrencyBalance, error) {
	return s.listBalancesFn(ctx)
}

func (s *ledgerServiceStub) ListMovements(ctx context.Context, input usecase.ListMovementsInput) ([]*domain.Movement, error) {
	return s.listMovementsFn(ctx, input)
}

func (s *ledgerServiceStub) GetBalanceAtTime(ctx context.Context, currency domain.Currency, at time.Time) (decimal.Decimal, error) {
	return s.getBalanceAtFn(ctx, currency, at)
}

func (s *ledgerServiceStub) CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error) {
	return s.checkConsistencyFn(ctx)
}

func TestLedgerHandler_GetBalance(t *testing.T) {
	h := NewLedgerHandler(&ledgerServiceStub{
		getBalanceFn: func(ctx context.Context, currency domain.Currency) (decimal.Decimal, error) {
			if currency != domain.CurrencyDollars {
				t.Fatalf("expected USD, got %s", currency)
			}
			return decimal.NewFromInt(1200), nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/balances/USD", nil)
	req = setChiURLParam(req, "currency", "USD")
	rec := httptest.NewRecorder()

	h.GetBalance(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Currency != "USD" || !resp.Balance.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestLedgerHandler_GetBalance_InvalidCurrency(t *testing.T) {
	h := NewLedgerHandler(&ledgerServiceStub{
		getBalanceFn: func(ctx context.Context, currency domain.Currency) (decimal.Decimal, error) {
			t.Fatal("GetBalance should not be called for an unknown currency")
			return decimal.Zero, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/balances/ARS", nil)
	req = setChiURLParam(req, "currency", "ARS")
	rec := httptest.NewRecorder()

	h.GetBalance(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLedgerHandler_GetBalanceHistory_ParsesTimestamp(t *testing.T) {
	want := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	h := NewLedgerHandler(&ledgerServiceStub{
		getBalanceAtFn: func(ctx context.Context, currency domain.Currency, at time.Time) (decimal.Decimal, error) {
			if !at.Equal(want) {
				t.Fatalf("expected at=%s, got %s", want, at)
			}
			return decimal.NewFromInt(500000), nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/balances/PYG/history?at=2026-03-15T12:00:00Z", nil)
	req = setChiURLParam(req, "currency", "PYG")
	rec := httptest.NewRecorder()

	h.GetBalanceHistory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLedgerHandler_ListMovements_RequiresCurrency(t *testing.T) {
	h := NewLedgerHandler(&ledgerServiceStub{
		listMovementsFn: func(ctx context.Context, input usecase.ListMovementsInput) ([]*domain.Movement, error) {
			t.Fatal("ListMovements should not be called without a currency")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/movements", nil)
	rec := httptest.NewRecorder()

	h.ListMovements(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLedgerHandler_CheckConsistency_ConflictWhenInconsistent(t *testing.T) {
	h := NewLedgerHandler(&ledgerServiceStub{
		checkConsistencyFn: func(ctx context.Context) (*usecase.ConsistencyReport, error) {
			return &usecase.ConsistencyReport{
				Consistent: false,
				CheckedAt:  time.Now().UTC(),
				Results: []usecase.ConsistencyResult{
					{
						Currency:      domain.CurrencyGuaranies,
						StoredBalance: decimal.NewFromInt(100),
						LatestEntry:   decimal.NewFromInt(90),
						ChainDepth:    4,
						Consistent:    false,
					},
				},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil)
	rec := httptest.NewRecorder()

	h.CheckConsistency(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for inconsistent ledger, got %d", rec.Code)
	}

	var resp dto.ConsistencyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Consistent {
		t.Fatal("expected consistent=false in body")
	}
}

func TestLedgerHandler_CheckConsistency_OKWhenClean(t *testing.T) {
	h := NewLedgerHandler(&ledgerServiceStub{
		checkConsistencyFn: func(ctx context.Context) (*usecase.ConsistencyReport, error) {
			return &usecase.ConsistencyReport{Consistent: true, CheckedAt: time.Now().UTC()}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil)
	rec := httptest.NewRecorder()

	h.CheckConsistency(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
