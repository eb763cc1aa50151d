package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/farmasys/cajacentral/internal/adapter/http/handler"
	"github.com/farmasys/cajacentral/internal/adapter/http/middleware"
	"github.com/farmasys/cajacentral/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	LedgerHandler     *handler.LedgerHandler
	CountHandler      *handler.CountHandler
	WithdrawalHandler *handler.WithdrawalHandler
	DepositHandler    *handler.DepositHandler
	AuditHandler      *handler.AuditHandler
	HealthHandler     *handler.HealthHandler
	IdempotencyStore  usecase.IdempotencyStore
	IdempotencyTTL    time.Duration
	Logger            zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// The gateway authenticates; we only require its user header on writes.
		r.Use(middleware.Auth)

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Balances and movements
		r.Route("/balances", func(r chi.Router) {
			r.Get("/", cfg.LedgerHandler.ListBalances)
			r.Get("/{currency}", cfg.LedgerHandler.GetBalance)
			r.Get("/{currency}/history", cfg.LedgerHandler.GetBalanceHistory)
		})
		r.Get("/movements", cfg.LedgerHandler.ListMovements)
		r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)

		// Cash counts
		r.Route("/counts", func(r chi.Router) {
			r.Post("/", cfg.CountHandler.Create)
			r.Get("/", cfg.CountHandler.List)
			r.Get("/{id}", cfg.CountHandler.Get)
		})

		// Withdrawals
		r.Route("/withdrawals", func(r chi.Router) {
			r.Post("/", cfg.WithdrawalHandler.Create)
			r.Get("/", cfg.WithdrawalHandler.List)
			r.Get("/{id}", cfg.WithdrawalHandler.Get)
			r.Post("/{id}/receive", cfg.WithdrawalHandler.Receive)
			r.Post("/{id}/reverse", cfg.WithdrawalHandler.Reverse)
			r.Post("/{id}/reject", cfg.WithdrawalHandler.Reject)
			r.Get("/{id}/movements", cfg.WithdrawalHandler.Movements)
		})

		// Bank deposits
		r.Route("/deposits", func(r chi.Router) {
			r.Post("/", cfg.DepositHandler.Create)
			r.Get("/", cfg.DepositHandler.List)
			r.Get("/{id}", cfg.DepositHandler.Get)
			r.Post("/{id}/confirm", cfg.DepositHandler.Confirm)
			r.Post("/{id}/cancel", cfg.DepositHandler.Cancel)
			r.Get("/{id}/movements", cfg.DepositHandler.Movements)
		})

		// Audit trail
		r.Get("/audit", cfg.AuditHandler.List)
	})

	return r
}
