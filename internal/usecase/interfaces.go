package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmasys/cajacentral/internal/domain"
)

// BalanceRepository defines data access for per-currency running balances.
// Each currency has one balance row that doubles as the write lock for its
// slice of the ledger.
type BalanceRepository interface {
	// GetForUpdate locks the balance row for the currency and returns its
	// value, creating the row at zero if it does not exist yet.
	GetForUpdate(ctx context.Context, tx Transaction, currency domain.Currency) (decimal.Decimal, error)
	Update(ctx context.Context, tx Transaction, currency domain.Currency, balance decimal.Decimal, updatedAt time.Time) error
	Get(ctx context.Context, currency domain.Currency) (*domain.CurrencyBalance, error)
	List(ctx context.Context) ([]*domain.CurrencyBalance, error)
}

// MovementRepository defines data access for ledger movements.
type MovementRepository interface {
	Create(ctx context.Context, tx Transaction, movement *domain.Movement) error
	ListByCurrency(ctx context.Context, currency domain.Currency, limit, offset int) ([]*domain.Movement, error)
	ListBySource(ctx context.Context, source domain.SourceRef) ([]*domain.Movement, error)
	Latest(ctx context.Context, currency domain.Currency) (*domain.Movement, error)
	GetBalanceAtTime(ctx context.Context, currency domain.Currency, at time.Time) (decimal.Decimal, error)
}

// WithdrawalRepository defines data access for branch withdrawals.
type WithdrawalRepository interface {
	Create(ctx context.Context, withdrawal *domain.Withdrawal) error
	GetByID(ctx context.Context, id string) (*domain.Withdrawal, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Withdrawal, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.WithdrawalStatus, receivedBy string, updatedAt time.Time) error
	List(ctx context.Context, status domain.WithdrawalStatus, limit, offset int) ([]*domain.Withdrawal, error)
}

// CountRepository defines data access for cash counts.
type CountRepository interface {
	Create(ctx context.Context, tx Transaction, count *domain.CashCount) error
	GetByID(ctx context.Context, id string) (*domain.CashCount, error)
	List(ctx context.Context, limit, offset int) ([]*domain.CashCount, error)
}

// DepositRepository defines data access for bank deposits.
type DepositRepository interface {
	Create(ctx context.Context, deposit *domain.Deposit) error
	GetByID(ctx context.Context, id string) (*domain.Deposit, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Deposit, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.DepositStatus, updatedAt time.Time) error
	List(ctx context.Context, status domain.DepositStatus, limit, offset int) ([]*domain.Deposit, error)
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient database failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
