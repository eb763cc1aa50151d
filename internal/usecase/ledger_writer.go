package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmasys/cajacentral/internal/domain"
	"github.com/farmasys/cajacentral/internal/infrastructure/metrics"
)

// LedgerWriter appends movements to the cash ledger. Every append runs inside
// the caller's transaction and behind the per-currency balance lock, so
// concurrent writers for one currency serialize and the prior/new balance
// snapshots always chain.
type LedgerWriter struct {
	balanceRepo  BalanceRepository
	movementRepo MovementRepository
	idGen        IDGenerator
	metrics      *metrics.Metrics
}

// NewLedgerWriter creates a new LedgerWriter. metrics may be nil.
func NewLedgerWriter(balanceRepo BalanceRepository, movementRepo MovementRepository, idGen IDGenerator, m *metrics.Metrics) *LedgerWriter {
	return &LedgerWriter{
		balanceRepo:  balanceRepo,
		movementRepo: movementRepo,
		idGen:        idGen,
		metrics:      m,
	}
}

// AppendMovementInput describes one balance-affecting event.
type AppendMovementInput struct {
	Currency domain.Currency
	Kind     domain.MovementKind
	Amount   decimal.Decimal
	IsCredit bool
	Source   domain.SourceRef
	Concept  string
	Notes    string
	UserID   string
}

// Append locks the currency's balance row, computes the new running balance
// and inserts one immutable movement. The caller owns the transaction; if
// anything later in it fails, the movement rolls back with the rest.
func (w *LedgerWriter) Append(ctx context.Context, tx Transaction, input AppendMovementInput, now time.Time) (*domain.Movement, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	prior, err := w.balanceRepo.GetForUpdate(ctx, tx, input.Currency)
	if err != nil {
		return nil, err
	}

	newBalance := domain.ApplyMovement(prior, input.Amount, input.IsCredit)

	concept := input.Concept
	if concept == "" {
		concept = input.Kind.Label()
	}

	movement := &domain.Movement{
		ID:           w.idGen.Generate(),
		Currency:     input.Currency,
		Kind:         input.Kind,
		Amount:       input.Amount,
		IsCredit:     input.IsCredit,
		PriorBalance: prior,
		NewBalance:   newBalance,
		Source:       input.Source,
		Concept:      concept,
		Notes:        input.Notes,
		UserID:       input.UserID,
		CreatedAt:    now,
	}

	if err := movement.Validate(); err != nil {
		return nil, err
	}

	if err := w.movementRepo.Create(ctx, tx, movement); err != nil {
		return nil, err
	}

	if err := w.balanceRepo.Update(ctx, tx, input.Currency, newBalance, now); err != nil {
		return nil, err
	}

	if w.metrics != nil {
		w.metrics.MovementsAppended.WithLabelValues(string(input.Kind), string(input.Currency)).Inc()
		w.metrics.CurrencyBalance.WithLabelValues(string(input.Currency)).Set(newBalance.InexactFloat64())
	}

	return movement, nil
}
