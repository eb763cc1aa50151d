package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmasys/cajacentral/internal/domain"
	"github.com/farmasys/cajacentral/internal/infrastructure/metrics"
)

// CountUseCase handles cash counts (reconciliations).
type CountUseCase struct {
	txManager TransactionManager
	countRepo CountRepository
	writer    *LedgerWriter
	balances  BalanceRepository
	idGen     IDGenerator
	retrier   Retrier
	cache     Cache
	audit     auditor
	metrics   *metrics.Metrics
}

// NewCountUseCase creates a new CountUseCase. retrier, cache, auditRepo and
// metrics may be nil.
func NewCountUseCase(
	txManager TransactionManager,
	countRepo CountRepository,
	writer *LedgerWriter,
	balances BalanceRepository,
	idGen IDGenerator,
	retrier Retrier,
	cache Cache,
	auditRepo AuditRepository,
	m *metrics.Metrics,
) *CountUseCase {
	return &CountUseCase{
		txManager: txManager,
		countRepo: countRepo,
		writer:    writer,
		balances:  balances,
		idGen:     idGen,
		retrier:   retrier,
		cache:     cache,
		audit:     auditor{repo: auditRepo, metrics: m},
		metrics:   m,
	}
}

// CountLineInput is one currency's counted total.
type CountLineInput struct {
	Currency     domain.Currency
	CountedTotal decimal.Decimal
	Concept      string
}

// CreateCountInput represents input for registering a cash count.
type CreateCountInput struct {
	UserID string
	Notes  string
	Lines  []CountLineInput
}

// CreateCount registers a count. Per currency it locks the balance row,
// derives the delta (counted − running balance) and appends an adjustment
// movement unless the delta is zero. The count record and every adjustment
// commit or roll back together.
func (uc *CountUseCase) CreateCount(ctx context.Context, input CreateCountInput) (*domain.CashCount, error) {
	now := time.Now().UTC()

	count := &domain.CashCount{
		ID:        uc.idGen.Generate(),
		UserID:    input.UserID,
		Notes:     input.Notes,
		CreatedAt: now,
		Lines:     make([]domain.CountLine, len(input.Lines)),
	}

	for i, line := range input.Lines {
		if err := domain.ValidateConcept(line.Concept); err != nil {
			return nil, err
		}

		count.Lines[i] = domain.CountLine{
			ID:           uc.idGen.Generate(),
			CountID:      count.ID,
			Currency:     line.Currency,
			CountedTotal: line.CountedTotal,
			Concept:      line.Concept,
		}
	}

	if err := count.Validate(); err != nil {
		return nil, err
	}

	if err := domain.ValidateNotes(input.Notes); err != nil {
		return nil, err
	}

	// Lock currencies in a stable order so two concurrent counts can never
	// deadlock against each other.
	sort.Slice(count.Lines, func(i, j int) bool {
		return count.Lines[i].Currency < count.Lines[j].Currency
	})

	run := func() error { return uc.createCountTx(ctx, count) }

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, run)
	} else {
		err = run()
	}

	if err != nil {
		return nil, err
	}

	for _, line := range count.Lines {
		uc.invalidateBalance(ctx, line.Currency)
	}

	if uc.metrics != nil {
		uc.metrics.CountsCreated.Inc()

		for _, line := range count.Lines {
			if line.Difference.IsZero() {
				continue
			}

			direction := "debit"
			if line.Difference.IsPositive() {
				direction = "credit"
			}
			uc.metrics.CountAdjustments.WithLabelValues(direction).Inc()
		}
	}

	uc.audit.record(ctx, input.UserID, "count.create", "count", count.ID, map[string]any{
		"lines": len(count.Lines),
	})

	return count, nil
}

func (uc *CountUseCase) createCountTx(ctx context.Context, count *domain.CashCount) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := range count.Lines {
		line := &count.Lines[i]

		balance, err := uc.balances.GetForUpdate(ctx, tx, line.Currency)
		if err != nil {
			return err
		}

		delta := domain.ReconcileDelta(line.CountedTotal, balance)
		line.SystemBalance = balance
		line.Difference = delta
	}

	if err := uc.countRepo.Create(ctx, tx, count); err != nil {
		return err
	}

	for i := range count.Lines {
		line := &count.Lines[i]

		// An exact count produces no ledger movement.
		if line.Difference.IsZero() {
			continue
		}

		concept := line.Concept
		if concept == "" {
			concept = domain.ReconcileConcept(line.Difference)
		}

		_, err := uc.writer.Append(ctx, tx, AppendMovementInput{
			Currency: line.Currency,
			Kind:     domain.MovementCountAdjustment,
			Amount:   line.Difference.Abs(),
			IsCredit: line.Difference.IsPositive(),
			Source:   domain.SourceRef{Kind: domain.SourceCount, ID: count.ID},
			Concept:  concept,
			Notes:    count.Notes,
			UserID:   count.UserID,
		}, count.CreatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetCount retrieves a count with its lines.
func (uc *CountUseCase) GetCount(ctx context.Context, id string) (*domain.CashCount, error) {
	return uc.countRepo.GetByID(ctx, id)
}

// ListCountsInput represents input for listing counts.
type ListCountsInput struct {
	Limit  int
	Offset int
}

// ListCounts lists counts, newest first.
func (uc *CountUseCase) ListCounts(ctx context.Context, input ListCountsInput) ([]*domain.CashCount, error) {
	limit, offset := clampPage(input.Limit, input.Offset)
	return uc.countRepo.List(ctx, limit, offset)
}

func (uc *CountUseCase) invalidateBalance(ctx context.Context, currency domain.Currency) {
	if uc.cache == nil {
		return
	}

	_ = uc.cache.Delete(ctx, balanceCacheKeyPrefix+string(currency))
}
