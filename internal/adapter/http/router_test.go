package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/farmasys/cajacentral/internal/adapter/http/handler"
	apimiddleware "github.com/farmasys/cajacentral/internal/adapter/http/middleware"
	"github.com/farmasys/cajacentral/internal/domain"
	"github.com/farmasys/cajacentral/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_MutatingRequestRequiresUser(t *testing.T) {
	router := NewRouter(newRouterConfig())

	body := `{"branch_id":"suc-01","currency":"PYG","amount":"100000"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/withdrawals/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without %s, got %d", apimiddleware.UserIDHeader, rec.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"branch_id":"suc-01","currency":"PYG","amount":"100000"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/withdrawals/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.UserIDHeader, "user-1")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /api/v1/balances/",
		"GET /api/v1/balances/{currency}",
		"GET /api/v1/balances/{currency}/history",
		"GET /api/v1/movements",
		"GET /api/v1/ledger/consistency",
		"POST /api/v1/counts/",
		"POST /api/v1/withdrawals/",
		"POST /api/v1/withdrawals/{id}/receive",
		"POST /api/v1/withdrawals/{id}/reverse",
		"POST /api/v1/withdrawals/{id}/reject",
		"POST /api/v1/deposits/",
		"POST /api/v1/deposits/{id}/confirm",
		"POST /api/v1/deposits/{id}/cancel",
		"GET /api/v1/audit",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		LedgerHandler:     handler.NewLedgerHandler(&stubLedgerService{}),
		CountHandler:      handler.NewCountHandler(&stubCountService{}),
		WithdrawalHandler: handler.NewWithdrawalHandler(&stubWithdrawalService{}, &stubMovementLister{}),
		DepositHandler:    handler.NewDepositHandler(&stubDepositService{}, &stubMovementLister{}),
		AuditHandler:      handler.NewAuditHandler(&stubAuditService{}),
		HealthHandler:     &handler.HealthHandler{},
		Logger:            zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubLedgerService struct{}

func (stubLedgerService) GetBalance(ctx context.Context, currency domain.Currency) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (stubLedgerService) ListBalances(ctx context.Context) ([]*domain.CurrencyBalance, error) {
	return []*domain.CurrencyBalance{}, nil
}

func (stubLedgerService) ListMovements(ctx context.Context, input usecase.ListMovementsInput) ([]*domain.Movement, error) {
	return []*domain.Movement{}, nil
}

func (stubLedgerService) GetBalanceAtTime(ctx context.Context, currency domain.Currency, at time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (stubLedgerService) CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error) {
	return &usecase.ConsistencyReport{Consistent: true}, nil
}

type stubCountService struct{}

func (stubCountService) CreateCount(ctx context.Context, input usecase.CreateCountInput) (*domain.CashCount, error) {
	return &domain.CashCount{ID: "arq"}, nil
}

func (stubCountService) GetCount(ctx context.Context, id string) (*domain.CashCount, error) {
	return &domain.CashCount{ID: id}, nil
}

func (stubCountService) ListCounts(ctx context.Context, input usecase.ListCountsInput) ([]*domain.CashCount, error) {
	return []*domain.CashCount{}, nil
}

type stubWithdrawalService struct{}

func (stubWithdrawalService) CreateWithdrawal(ctx context.Context, input usecase.CreateWithdrawalInput) (*domain.Withdrawal, error) {
	return &domain.Withdrawal{ID: "ret"}, nil
}

func (stubWithdrawalService) ReceiveWithdrawal(ctx context.Context, input usecase.ReceiveWithdrawalInput) (*domain.Withdrawal, error) {
	return &domain.Withdrawal{ID: input.WithdrawalID}, nil
}

func (stubWithdrawalService) ReverseWithdrawal(ctx context.Context, input usecase.ReverseWithdrawalInput) (*domain.Withdrawal, error) {
	return &domain.Withdrawal{ID: input.WithdrawalID}, nil
}

func (stubWithdrawalService) RejectWithdrawal(ctx context.Context, input usecase.RejectWithdrawalInput) (*domain.Withdrawal, error) {
	return &domain.Withdrawal{ID: input.WithdrawalID}, nil
}

func (stubWithdrawalService) GetWithdrawal(ctx context.Context, id string) (*domain.Withdrawal, error) {
	return &domain.Withdrawal{ID: id}, nil
}

func (stubWithdrawalService) ListWithdrawals(ctx context.Context, input usecase.ListWithdrawalsInput) ([]*domain.Withdrawal, error) {
	return []*domain.Withdrawal{}, nil
}

type stubDepositService struct{}

func (stubDepositService) CreateDeposit(ctx context.Context, input usecase.CreateDepositInput) (*domain.Deposit, error) {
	return &domain.Deposit{ID: "dep"}, nil
}

func (stubDepositService) ConfirmDeposit(ctx context.Context, input usecase.ConfirmDepositInput) (*domain.Deposit, error) {
	return &domain.Deposit{ID: input.DepositID}, nil
}

func (stubDepositService) CancelDeposit(ctx context.Context, input usecase.CancelDepositInput) (*domain.Deposit, error) {
	return &domain.Deposit{ID: input.DepositID}, nil
}

func (stubDepositService) GetDeposit(ctx context.Context, id string) (*domain.Deposit, error) {
	return &domain.Deposit{ID: id}, nil
}

func (stubDepositService) ListDeposits(ctx context.Context, input usecase.ListDepositsInput) ([]*domain.Deposit, error) {
	return []*domain.Deposit{}, nil
}

type stubMovementLister struct{}

func (stubMovementLister) ListMovementsBySource(ctx context.Context, source domain.SourceRef) ([]*domain.Movement, error) {
	return []*domain.Movement{}, nil
}

type stubAuditService struct{}

func (stubAuditService) ListAuditLogs(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	return []*domain.AuditLog{}, nil
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
