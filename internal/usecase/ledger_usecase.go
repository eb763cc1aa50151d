package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmasys/cajacentral/internal/domain"
)

// LedgerUseCase serves read-side ledger operations: balances, movement
// listings and the consistency check.
type LedgerUseCase struct {
	balanceRepo  BalanceRepository
	movementRepo MovementRepository
	cache        Cache
}

// NewLedgerUseCase creates a new LedgerUseCase. cache may be nil.
func NewLedgerUseCase(balanceRepo BalanceRepository, movementRepo MovementRepository, cache Cache) *LedgerUseCase {
	return &LedgerUseCase{
		balanceRepo:  balanceRepo,
		movementRepo: movementRepo,
		cache:        cache,
	}
}

// GetBalance returns the running balance for a currency, zero if the currency
// has no movements yet. Reads go through the cache; writers invalidate it on
// every append.
func (uc *LedgerUseCase) GetBalance(ctx context.Context, currency domain.Currency) (decimal.Decimal, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, balanceCacheKeyPrefix+string(currency)); err == nil {
			if d, err := decimal.NewFromString(cached); err == nil {
				return d, nil
			}
		}
	}

	cb, err := uc.balanceRepo.Get(ctx, currency)
	if err != nil {
		return decimal.Zero, err
	}

	if uc.cache != nil {
		_ = uc.cache.Set(ctx, balanceCacheKeyPrefix+string(currency), cb.Balance.String(), balanceCacheTTL)
	}

	return cb.Balance, nil
}

// ListBalances returns every currency's running total, including zero rows
// for currencies that never moved.
func (uc *LedgerUseCase) ListBalances(ctx context.Context) ([]*domain.CurrencyBalance, error) {
	stored, err := uc.balanceRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	byCurrency := make(map[domain.Currency]*domain.CurrencyBalance, len(stored))
	for _, cb := range stored {
		byCurrency[cb.Currency] = cb
	}

	balances := make([]*domain.CurrencyBalance, 0, len(domain.Currencies()))
	for _, c := range domain.Currencies() {
		if cb, ok := byCurrency[c]; ok {
			balances = append(balances, cb)
			continue
		}
		balances = append(balances, &domain.CurrencyBalance{Currency: c, Balance: decimal.Zero})
	}

	return balances, nil
}

// ListMovementsInput represents input for listing movements.
type ListMovementsInput struct {
	Currency domain.Currency
	Limit    int
	Offset   int
}

// ListMovements lists a currency's movements, newest first.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, input ListMovementsInput) ([]*domain.Movement, error) {
	limit, offset := clampPage(input.Limit, input.Offset)
	return uc.movementRepo.ListByCurrency(ctx, input.Currency, limit, offset)
}

// ListMovementsBySource returns the movements a domain record produced, e.g.
// a withdrawal's receipt and reversal entries.
func (uc *LedgerUseCase) ListMovementsBySource(ctx context.Context, source domain.SourceRef) ([]*domain.Movement, error) {
	return uc.movementRepo.ListBySource(ctx, source)
}

// GetBalanceAtTime returns the running balance as of a past instant.
func (uc *LedgerUseCase) GetBalanceAtTime(ctx context.Context, currency domain.Currency, at time.Time) (decimal.Decimal, error) {
	return uc.movementRepo.GetBalanceAtTime(ctx, currency, at)
}

// ConsistencyResult reports one currency's check outcome.
type ConsistencyResult struct {
	Currency      domain.Currency
	StoredBalance decimal.Decimal
	LatestEntry   decimal.Decimal
	ChainDepth    int
	Consistent    bool
}

// ConsistencyReport aggregates per-currency results.
type ConsistencyReport struct {
	Results    []ConsistencyResult
	Consistent bool
	CheckedAt  time.Time
}

// CheckConsistency verifies, per currency, that the balance row equals the
// latest movement's new balance and that recent movements chain
// (newBalance[i+1] == priorBalance[i] walking newest to oldest).
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	report := &ConsistencyReport{
		Consistent: true,
		CheckedAt:  time.Now().UTC(),
	}

	for _, currency := range domain.Currencies() {
		result, err := uc.checkCurrency(ctx, currency)
		if err != nil {
			return nil, err
		}

		if !result.Consistent {
			report.Consistent = false
		}

		report.Results = append(report.Results, *result)
	}

	return report, nil
}

func (uc *LedgerUseCase) checkCurrency(ctx context.Context, currency domain.Currency) (*ConsistencyResult, error) {
	cb, err := uc.balanceRepo.Get(ctx, currency)
	if err != nil {
		return nil, err
	}

	result := &ConsistencyResult{
		Currency:      currency,
		StoredBalance: cb.Balance,
		Consistent:    true,
	}

	latest, err := uc.movementRepo.Latest(ctx, currency)
	if err != nil {
		if errors.Is(err, domain.ErrMovementNotFound) {
			// No movements: the balance row must still be zero.
			result.Consistent = cb.Balance.IsZero()
			return result, nil
		}

		return nil, err
	}

	result.LatestEntry = latest.NewBalance
	if !latest.NewBalance.Equal(cb.Balance) {
		result.Consistent = false
	}

	movements, err := uc.movementRepo.ListByCurrency(ctx, currency, consistencyChainDepth, 0)
	if err != nil {
		return nil, err
	}

	result.ChainDepth = len(movements)

	// movements are newest first
	for i := 0; i < len(movements); i++ {
		m := movements[i]

		expected := domain.ApplyMovement(m.PriorBalance, m.Amount, m.IsCredit)
		if !m.NewBalance.Equal(expected) {
			result.Consistent = false
			break
		}

		if i+1 < len(movements) && !m.PriorBalance.Equal(movements[i+1].NewBalance) {
			result.Consistent = false
			break
		}
	}

	return result, nil
}
