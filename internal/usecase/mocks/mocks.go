package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmasys/cajacentral/internal/domain"
	"github.com/farmasys/cajacentral/internal/usecase"
)

// MockTransaction is a mock implementation of usecase.Transaction that
// records the outcome.
type MockTransaction struct {
	Committed  bool
	RolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTxManager is a mock implementation of usecase.TransactionManager. It
// hands out MockTransactions and keeps them for later inspection.
type MockTxManager struct {
	mu  sync.Mutex
	Txs []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

func (m *MockTxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.Txs = append(m.Txs, tx)
	return tx, nil
}

// LastTx returns the most recently begun transaction, nil if none.
func (m *MockTxManager) LastTx() *MockTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Txs) == 0 {
		return nil
	}
	return m.Txs[len(m.Txs)-1]
}

// MockIDGenerator is a mock implementation of usecase.IDGenerator producing
// sequential IDs.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return fmt.Sprintf("id-%d", m.next)
}

// MockBalanceRepository is a mock implementation of
// usecase.BalanceRepository backed by an in-memory map.
type MockBalanceRepository struct {
	mu       sync.RWMutex
	balances map[domain.Currency]decimal.Decimal

	GetForUpdateFunc func(ctx context.Context, tx usecase.Transaction, currency domain.Currency) (decimal.Decimal, error)
	UpdateFunc       func(ctx context.Context, tx usecase.Transaction, currency domain.Currency, balance decimal.Decimal, updatedAt time.Time) error
	GetFunc          func(ctx context.Context, currency domain.Currency) (*domain.CurrencyBalance, error)
	ListFunc         func(ctx context.Context) ([]*domain.CurrencyBalance, error)
}

func NewMockBalanceRepository() *MockBalanceRepository {
	return &MockBalanceRepository{
		balances: make(map[domain.Currency]decimal.Decimal),
	}
}

// SetBalance seeds a balance for tests.
func (m *MockBalanceRepository) SetBalance(currency domain.Currency, balance decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[currency] = balance
}

func (m *MockBalanceRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, currency domain.Currency) (decimal.Decimal, error) {
	if m.GetForUpdateFunc != nil {
		return m.GetForUpdateFunc(ctx, tx, currency)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balances[currency], nil
}

func (m *MockBalanceRepository) Update(ctx context.Context, tx usecase.Transaction, currency domain.Currency, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, currency, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[currency] = balance
	return nil
}

func (m *MockBalanceRepository) Get(ctx context.Context, currency domain.Currency) (*domain.CurrencyBalance, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, currency)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &domain.CurrencyBalance{Currency: currency, Balance: m.balances[currency]}, nil
}

func (m *MockBalanceRepository) List(ctx context.Context) ([]*domain.CurrencyBalance, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var balances []*domain.CurrencyBalance
	for c, b := range m.balances {
		balances = append(balances, &domain.CurrencyBalance{Currency: c, Balance: b})
	}
	return balances, nil
}

// MockMovementRepository is a mock implementation of
// usecase.MovementRepository backed by an in-memory slice.
type MockMovementRepository struct {
	mu        sync.RWMutex
	movements []*domain.Movement

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error
	ListByCurrencyFunc   func(ctx context.Context, currency domain.Currency, limit, offset int) ([]*domain.Movement, error)
	ListBySourceFunc     func(ctx context.Context, source domain.SourceRef) ([]*domain.Movement, error)
	LatestFunc           func(ctx context.Context, currency domain.Currency) (*domain.Movement, error)
	GetBalanceAtTimeFunc func(ctx context.Context, currency domain.Currency, at time.Time) (decimal.Decimal, error)
}

func NewMockMovementRepository() *MockMovementRepository {
	return &MockMovementRepository{}
}

func (m *MockMovementRepository) Create(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, movement)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.movements = append(m.movements, movement)
	return nil
}

// Movements returns everything appended so far, oldest first.
func (m *MockMovementRepository) Movements() []*domain.Movement {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Movement, len(m.movements))
	copy(out, m.movements)
	return out
}

func (m *MockMovementRepository) ListByCurrency(ctx context.Context, currency domain.Currency, limit, offset int) ([]*domain.Movement, error) {
	if m.ListByCurrencyFunc != nil {
		return m.ListByCurrencyFunc(ctx, currency, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	// newest first, like the real repository
	var out []*domain.Movement
	for i := len(m.movements) - 1; i >= 0; i-- {
		if m.movements[i].Currency == currency {
			out = append(out, m.movements[i])
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockMovementRepository) ListBySource(ctx context.Context, source domain.SourceRef) ([]*domain.Movement, error) {
	if m.ListBySourceFunc != nil {
		return m.ListBySourceFunc(ctx, source)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Movement
	for _, mv := range m.movements {
		if mv.Source == source {
			out = append(out, mv)
		}
	}
	return out, nil
}

func (m *MockMovementRepository) Latest(ctx context.Context, currency domain.Currency) (*domain.Movement, error) {
	if m.LatestFunc != nil {
		return m.LatestFunc(ctx, currency)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.movements) - 1; i >= 0; i-- {
		if m.movements[i].Currency == currency {
			return m.movements[i], nil
		}
	}
	return nil, domain.ErrMovementNotFound
}

func (m *MockMovementRepository) GetBalanceAtTime(ctx context.Context, currency domain.Currency, at time.Time) (decimal.Decimal, error) {
	if m.GetBalanceAtTimeFunc != nil {
		return m.GetBalanceAtTimeFunc(ctx, currency, at)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	balance := decimal.Zero
	for _, mv := range m.movements {
		if mv.Currency == currency && !mv.CreatedAt.After(at) {
			balance = mv.NewBalance
		}
	}
	return balance, nil
}

// MockWithdrawalRepository is a mock implementation of
// usecase.WithdrawalRepository backed by an in-memory map.
type MockWithdrawalRepository struct {
	mu          sync.RWMutex
	withdrawals map[string]*domain.Withdrawal

	CreateFunc           func(ctx context.Context, withdrawal *domain.Withdrawal) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Withdrawal, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Withdrawal, error)
	UpdateStatusFunc     func(ctx context.Context, tx usecase.Transaction, id string, status domain.WithdrawalStatus, receivedBy string, updatedAt time.Time) error
	ListFunc             func(ctx context.Context, status domain.WithdrawalStatus, limit, offset int) ([]*domain.Withdrawal, error)
}

func NewMockWithdrawalRepository() *MockWithdrawalRepository {
	return &MockWithdrawalRepository{
		withdrawals: make(map[string]*domain.Withdrawal),
	}
}

func (m *MockWithdrawalRepository) Create(ctx context.Context, withdrawal *domain.Withdrawal) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, withdrawal)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *withdrawal
	m.withdrawals[withdrawal.ID] = &copied
	return nil
}

func (m *MockWithdrawalRepository) GetByID(ctx context.Context, id string) (*domain.Withdrawal, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.withdrawals[id]; ok {
		copied := *w
		return &copied, nil
	}
	return nil, domain.ErrWithdrawalNotFound
}

func (m *MockWithdrawalRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Withdrawal, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockWithdrawalRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.WithdrawalStatus, receivedBy string, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, receivedBy, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.withdrawals[id]
	if !ok {
		return domain.ErrWithdrawalNotFound
	}
	w.Status = status
	w.UpdatedAt = updatedAt
	if receivedBy != "" {
		w.ReceivedBy = receivedBy
	}
	return nil
}

func (m *MockWithdrawalRepository) List(ctx context.Context, status domain.WithdrawalStatus, limit, offset int) ([]*domain.Withdrawal, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, status, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Withdrawal
	for _, w := range m.withdrawals {
		if status == "" || w.Status == status {
			copied := *w
			out = append(out, &copied)
		}
	}
	return out, nil
}

// MockCountRepository is a mock implementation of usecase.CountRepository
// backed by an in-memory map.
type MockCountRepository struct {
	mu     sync.RWMutex
	counts map[string]*domain.CashCount

	CreateFunc  func(ctx context.Context, tx usecase.Transaction, count *domain.CashCount) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.CashCount, error)
	ListFunc    func(ctx context.Context, limit, offset int) ([]*domain.CashCount, error)
}

func NewMockCountRepository() *MockCountRepository {
	return &MockCountRepository{
		counts: make(map[string]*domain.CashCount),
	}
}

func (m *MockCountRepository) Create(ctx context.Context, tx usecase.Transaction, count *domain.CashCount) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, count)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[count.ID] = count
	return nil
}

func (m *MockCountRepository) GetByID(ctx context.Context, id string) (*domain.CashCount, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.counts[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCountNotFound
}

func (m *MockCountRepository) List(ctx context.Context, limit, offset int) ([]*domain.CashCount, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.CashCount
	for _, c := range m.counts {
		out = append(out, c)
	}
	return out, nil
}

// MockDepositRepository is a mock implementation of usecase.DepositRepository
// backed by an in-memory map.
type MockDepositRepository struct {
	mu       sync.RWMutex
	deposits map[string]*domain.Deposit

	CreateFunc           func(ctx context.Context, deposit *domain.Deposit) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Deposit, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Deposit, error)
	UpdateStatusFunc     func(ctx context.Context, tx usecase.Transaction, id string, status domain.DepositStatus, updatedAt time.Time) error
	ListFunc             func(ctx context.Context, status domain.DepositStatus, limit, offset int) ([]*domain.Deposit, error)
}

func NewMockDepositRepository() *MockDepositRepository {
	return &MockDepositRepository{
		deposits: make(map[string]*domain.Deposit),
	}
}

func (m *MockDepositRepository) Create(ctx context.Context, deposit *domain.Deposit) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, deposit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *deposit
	m.deposits[deposit.ID] = &copied
	return nil
}

func (m *MockDepositRepository) GetByID(ctx context.Context, id string) (*domain.Deposit, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.deposits[id]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, domain.ErrDepositNotFound
}

func (m *MockDepositRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Deposit, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockDepositRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.DepositStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.deposits[id]
	if !ok {
		return domain.ErrDepositNotFound
	}
	d.Status = status
	d.UpdatedAt = updatedAt
	return nil
}

func (m *MockDepositRepository) List(ctx context.Context, status domain.DepositStatus, limit, offset int) ([]*domain.Deposit, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, status, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Deposit
	for _, d := range m.deposits {
		if status == "" || d.Status == status {
			copied := *d
			out = append(out, &copied)
		}
	}
	return out, nil
}

// MockAuditRepository is a mock implementation of usecase.AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateFunc func(ctx context.Context, log *domain.AuditLog) error
	ListFunc   func(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.AuditLog, len(m.logs))
	copy(out, m.logs)
	return out, nil
}

// Logs returns everything recorded so far.
func (m *MockAuditRepository) Logs() []*domain.AuditLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.AuditLog, len(m.logs))
	copy(out, m.logs)
	return out
}

// MockCache is a mock implementation of usecase.Cache.
type MockCache struct {
	mu      sync.RWMutex
	values  map[string]string
	Deleted []string
}

func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string]string)}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return "", fmt.Errorf("cache miss: %s", key)
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	m.Deleted = append(m.Deleted, key)
	return nil
}
