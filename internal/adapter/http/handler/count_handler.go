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

// CountService defines the behavior needed by CountHandler.
type CountService interface {
	CreateCount(ctx context.Context, input usecase.CreateCountInput) (*domain.CashCount, error)
	GetCount(ctx context.Context, id string) (*domain.CashCount, error)
	ListCounts(ctx context.Context, input usecase.ListCountsInput) ([]*domain.CashCount, error)
}

// CountHandler handles cash count HTTP requests.
type CountHandler struct {
	countUC CountService
}

// NewCountHandler creates a new CountHandler.
func NewCountHandler(countUC CountService) *CountHandler {
	return &CountHandler{countUC: countUC}
}

// Create registers a cash count and applies its ledger adjustments.
func (h *CountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	count, err := h.countUC.CreateCount(r.Context(), req.ToUseCaseInput(middleware.UserID(r.Context())))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create count", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.CountFromDomain(count))
}

// Get retrieves a count by ID.
func (h *CountHandler) Get(w http.ResponseWriter, r *http.Request) {
	count, err := h.countUC.GetCount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get count", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CountFromDomain(count))
}

// List lists counts, newest first.
func (h *CountHandler) List(w http.ResponseWriter, r *http.Request) {
	counts, err := h.countUC.ListCounts(r.Context(), usecase.ListCountsInput{
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list counts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CountsFromDomain(counts))
}
