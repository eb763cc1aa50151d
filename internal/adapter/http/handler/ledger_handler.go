package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/farmasys/cajacentral/internal/adapter/http/dto"
	"github.com/farmasys/cajacentral/internal/domain"
	"github.com/farmasys/cajacentral/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	GetBalance(ctx context.Context, currency domain.Currency) (decimal.Decimal, error)
	ListBalances(ctx context.Context) ([]*domain.CurrencyBalance, error)
	ListMovements(ctx context.Context, input usecase.ListMovementsInput) ([]*domain.Movement, error)
	GetBalanceAtTime(ctx context.Context, currency domain.Currency, at time.Time) (decimal.Decimal, error)
	CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error)
}

// LedgerHandler handles read-side ledger HTTP requests.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// ListBalances returns every currency's running balance.
func (h *LedgerHandler) ListBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.ledgerUC.ListBalances(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list balances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromDomain(balances))
}

// GetBalance returns one currency's running balance.
func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	currency, err := domain.ParseCurrency(chi.URLParam(r, "currency"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid currency", err.Error())
		return
	}

	balance, err := h.ledgerUC.GetBalance(r.Context(), currency)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		Currency: string(currency),
		Balance:  balance,
	})
}

// GetBalanceHistory returns the running balance as of a past instant, taken
// from the ?at query parameter (RFC 3339).
func (h *LedgerHandler) GetBalanceHistory(w http.ResponseWriter, r *http.Request) {
	currency, err := domain.ParseCurrency(chi.URLParam(r, "currency"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid currency", err.Error())
		return
	}

	at := time.Now().UTC()
	if raw := r.URL.Query().Get("at"); raw != "" {
		at, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid 'at' timestamp", err.Error())
			return
		}
	}

	balance, err := h.ledgerUC.GetBalanceAtTime(r.Context(), currency, at)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get historical balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"currency": string(currency),
		"balance":  balance,
		"at":       at,
	})
}

// ListMovements lists one currency's ledger movements, newest first.
func (h *LedgerHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	currency, err := domain.ParseCurrency(r.URL.Query().Get("currency"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid currency", err.Error())
		return
	}

	movements, err := h.ledgerUC.ListMovements(r.Context(), usecase.ListMovementsInput{
		Currency: currency,
		Limit:    parseIntQuery(r, "limit", 20),
		Offset:   parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list movements", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MovementsFromDomain(movements))
}

// CheckConsistency verifies the ledger chain against the stored balances.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "consistency check failed", err.Error())
		return
	}

	status := http.StatusOK
	if !report.Consistent {
		// Surface corruption loudly so probes and dashboards catch it.
		status = http.StatusConflict
	}

	writeJSON(w, status, dto.ConsistencyFromReport(report))
}
