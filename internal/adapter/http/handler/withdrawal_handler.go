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

// WithdrawalService defines the behavior needed by WithdrawalHandler.
type WithdrawalService interface {
	CreateWithdrawal(ctx context.Context, input usecase.CreateWithdrawalInput) (*domain.Withdrawal, error)
	ReceiveWithdrawal(ctx context.Context, input usecase.ReceiveWithdrawalInput) (*domain.Withdrawal, error)
	ReverseWithdrawal(ctx context.Context, input usecase.ReverseWithdrawalInput) (*domain.Withdrawal, error)
	RejectWithdrawal(ctx context.Context, input usecase.RejectWithdrawalInput) (*domain.Withdrawal, error)
	GetWithdrawal(ctx context.Context, id string) (*domain.Withdrawal, error)
	ListWithdrawals(ctx context.Context, input usecase.ListWithdrawalsInput) ([]*domain.Withdrawal, error)
}

// MovementLister lists the ledger movements a domain record produced.
type MovementLister interface {
	ListMovementsBySource(ctx context.Context, source domain.SourceRef) ([]*domain.Movement, error)
}

// WithdrawalHandler handles withdrawal HTTP requests.
type WithdrawalHandler struct {
	withdrawalUC WithdrawalService
	movements    MovementLister
}

// NewWithdrawalHandler creates a new WithdrawalHandler.
func NewWithdrawalHandler(withdrawalUC WithdrawalService, movements MovementLister) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawalUC: withdrawalUC,
		movements:    movements,
	}
}

// Create registers a pending withdrawal.
func (h *WithdrawalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	withdrawal, err := h.withdrawalUC.CreateWithdrawal(r.Context(), req.ToUseCaseInput(middleware.UserID(r.Context())))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create withdrawal", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.WithdrawalFromDomain(withdrawal))
}

// Receive marks the withdrawal received and credits the ledger.
func (h *WithdrawalHandler) Receive(w http.ResponseWriter, r *http.Request) {
	notes, ok := decodeTransition(w, r)
	if !ok {
		return
	}

	withdrawal, err := h.withdrawalUC.ReceiveWithdrawal(r.Context(), usecase.ReceiveWithdrawalInput{
		WithdrawalID: chi.URLParam(r, "id"),
		UserID:       middleware.UserID(r.Context()),
		Notes:        notes,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to receive withdrawal", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WithdrawalFromDomain(withdrawal))
}

// Reverse undoes a reception and debits the ledger back.
func (h *WithdrawalHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	notes, ok := decodeTransition(w, r)
	if !ok {
		return
	}

	withdrawal, err := h.withdrawalUC.ReverseWithdrawal(r.Context(), usecase.ReverseWithdrawalInput{
		WithdrawalID: chi.URLParam(r, "id"),
		UserID:       middleware.UserID(r.Context()),
		Notes:        notes,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reverse withdrawal", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WithdrawalFromDomain(withdrawal))
}

// Reject terminally rejects a pending withdrawal.
func (h *WithdrawalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	notes, ok := decodeTransition(w, r)
	if !ok {
		return
	}

	withdrawal, err := h.withdrawalUC.RejectWithdrawal(r.Context(), usecase.RejectWithdrawalInput{
		WithdrawalID: chi.URLParam(r, "id"),
		UserID:       middleware.UserID(r.Context()),
		Notes:        notes,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reject withdrawal", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WithdrawalFromDomain(withdrawal))
}

// Get retrieves a withdrawal by ID.
func (h *WithdrawalHandler) Get(w http.ResponseWriter, r *http.Request) {
	withdrawal, err := h.withdrawalUC.GetWithdrawal(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get withdrawal", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WithdrawalFromDomain(withdrawal))
}

// List lists withdrawals, optionally filtered by ?status=.
func (h *WithdrawalHandler) List(w http.ResponseWriter, r *http.Request) {
	withdrawals, err := h.withdrawalUC.ListWithdrawals(r.Context(), usecase.ListWithdrawalsInput{
		Status: domain.WithdrawalStatus(r.URL.Query().Get("status")),
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list withdrawals", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WithdrawalsFromDomain(withdrawals))
}

// Movements returns the ledger entries this withdrawal produced.
func (h *WithdrawalHandler) Movements(w http.ResponseWriter, r *http.Request) {
	movements, err := h.movements.ListMovementsBySource(r.Context(), domain.SourceRef{
		Kind: domain.SourceWithdrawal,
		ID:   chi.URLParam(r, "id"),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list withdrawal movements", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MovementsFromDomain(movements))
}

// decodeTransition reads the optional notes body of a transition request. An
// empty body is fine.
func decodeTransition(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Body == nil || r.ContentLength == 0 {
		return "", true
	}

	var req dto.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return "", false
	}

	return req.Notes, true
}
