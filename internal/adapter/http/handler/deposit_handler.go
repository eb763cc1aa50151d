package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/farmasys/cajacentral/internal/adapter/http/dto"
	"github.com/farmasys/cajacentral/internal/adapter/http/middleware"
	"github.com/farmasys/cajacentral/internal/domain"
	"github.com/farmasys/cajacentral/internal/usecase"
)

// DepositService defines the behavior needed by DepositHandler.
type DepositService interface {
	CreateDeposit(ctx context.Context, input usecase.CreateDepositInput) (*domain.Deposit, error)
	ConfirmDeposit(ctx context.Context, input usecase.ConfirmDepositInput) (*domain.Deposit, error)
	CancelDeposit(ctx context.Context, input usecase.CancelDepositInput) (*domain.Deposit, error)
	GetDeposit(ctx context.Context, id string) (*domain.Deposit, error)
	ListDeposits(ctx context.Context, input usecase.ListDepositsInput) ([]*domain.Deposit, error)
}

// DepositHandler handles deposit HTTP requests.
type DepositHandler struct {
	depositUC DepositService
	movements MovementLister
}

// NewDepositHandler creates a new DepositHandler.
func NewDepositHandler(depositUC DepositService, movements MovementLister) *DepositHandler {
	return &DepositHandler{
		depositUC: depositUC,
		movements: movements,
	}
}

// Create registers a pending deposit.
func (h *DepositHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	deposit, err := h.depositUC.CreateDeposit(r.Context(), req.ToUseCaseInput(middleware.UserID(r.Context())))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create deposit", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.DepositFromDomain(deposit))
}

// Confirm marks the deposit confirmed and debits the ledger.
func (h *DepositHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	notes, ok := decodeTransition(w, r)
	if !ok {
		return
	}

	deposit, err := h.depositUC.ConfirmDeposit(r.Context(), usecase.ConfirmDepositInput{
		DepositID: chi.URLParam(r, "id"),
		UserID:    middleware.UserID(r.Context()),
		Notes:     notes,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to confirm deposit", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DepositFromDomain(deposit))
}

// Cancel marks the deposit cancelled, crediting back a confirmed one.
func (h *DepositHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	notes, ok := decodeTransition(w, r)
	if !ok {
		return
	}

	deposit, err := h.depositUC.CancelDeposit(r.Context(), usecase.CancelDepositInput{
		DepositID: chi.URLParam(r, "id"),
		UserID:    middleware.UserID(r.Context()),
		Notes:     notes,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to cancel deposit", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DepositFromDomain(deposit))
}

// Get retrieves a deposit by ID.
func (h *DepositHandler) Get(w http.ResponseWriter, r *http.Request) {
	deposit, err := h.depositUC.GetDeposit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get deposit", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DepositFromDomain(deposit))
}

// List lists deposits, optionally filtered by ?status=.
func (h *DepositHandler) List(w http.ResponseWriter, r *http.Request) {
	deposits, err := h.depositUC.ListDeposits(r.Context(), usecase.ListDepositsInput{
		Status: domain.DepositStatus(r.URL.Query().Get("status")),
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list deposits", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DepositsFromDomain(deposits))
}

// Movements returns the ledger entries this deposit produced.
func (h *DepositHandler) Movements(w http.ResponseWriter, r *http.Request) {
	movements, err := h.movements.ListMovementsBySource(r.Context(), domain.SourceRef{
		Kind: domain.SourceDeposit,
		ID:   chi.URLParam(r, "id"),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list deposit movements", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MovementsFromDomain(movements))
}
