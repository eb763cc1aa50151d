package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmasys/cajacentral/internal/domain"
	"github.com/farmasys/cajacentral/internal/infrastructure/metrics"
)

// DepositUseCase handles bank deposits of desk cash. Confirming a deposit
// debits the ledger; cancelling a confirmed one writes a compensating credit.
type DepositUseCase struct {
	txManager   TransactionManager
	depositRepo DepositRepository
	writer      *LedgerWriter
	idGen       IDGenerator
	retrier     Retrier
	cache       Cache
	audit       auditor
	metrics     *metrics.Metrics
}

// NewDepositUseCase creates a new DepositUseCase. retrier, cache, auditRepo
// and metrics may be nil.
func NewDepositUseCase(
	txManager TransactionManager,
	depositRepo DepositRepository,
	writer *LedgerWriter,
	idGen IDGenerator,
	retrier Retrier,
	cache Cache,
	auditRepo AuditRepository,
	m *metrics.Metrics,
) *DepositUseCase {
	return &DepositUseCase{
		txManager:   txManager,
		depositRepo: depositRepo,
		writer:      writer,
		idGen:       idGen,
		retrier:     retrier,
		cache:       cache,
		audit:       auditor{repo: auditRepo, metrics: m},
		metrics:     m,
	}
}

// CreateDepositInput represents input for registering a deposit.
type CreateDepositInput struct {
	BankAccount string
	Reference   string
	Currency    domain.Currency
	Amount      decimal.Decimal
	UserID      string
	Notes       string
}

// CreateDeposit registers a pending deposit. The cash stays on the desk's
// ledger until confirmation.
func (uc *DepositUseCase) CreateDeposit(ctx context.Context, input CreateDepositInput) (*domain.Deposit, error) {
	now := time.Now().UTC()

	deposit := &domain.Deposit{
		ID:          uc.idGen.Generate(),
		BankAccount: input.BankAccount,
		Reference:   input.Reference,
		Currency:    input.Currency,
		Amount:      input.Amount,
		Status:      domain.DepositPending,
		UserID:      input.UserID,
		Notes:       input.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := deposit.Validate(); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateNotes(input.Notes); err != nil {
		return nil, err
	}

	if err := uc.depositRepo.Create(ctx, deposit); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.DepositsCreated.Inc()
	}

	uc.audit.record(ctx, input.UserID, "deposit.create", "deposit", deposit.ID, map[string]any{
		"status": string(deposit.Status),
		"amount": deposit.Amount.String(),
	})

	return deposit, nil
}

// ConfirmDepositInput represents input for confirming a deposit.
type ConfirmDepositInput struct {
	DepositID string
	UserID    string
	Notes     string
}

// ConfirmDeposit marks the deposit CONFIRMADO and debits the ledger.
func (uc *DepositUseCase) ConfirmDeposit(ctx context.Context, input ConfirmDepositInput) (*domain.Deposit, error) {
	if input.UserID == "" {
		return nil, domain.ErrMissingUser
	}

	var result *domain.Deposit

	run := func() error {
		d, err := uc.confirmTx(ctx, input)
		if err != nil {
			return err
		}

		result = d
		return nil
	}

	if err := uc.retry(ctx, run); err != nil {
		return nil, err
	}

	uc.invalidateBalance(ctx, result.Currency)

	if uc.metrics != nil {
		uc.metrics.DepositsConfirmed.Inc()
	}

	uc.audit.record(ctx, input.UserID, "deposit.confirm", "deposit", result.ID, map[string]any{
		"status": string(result.Status),
	})

	return result, nil
}

func (uc *DepositUseCase) confirmTx(ctx context.Context, input ConfirmDepositInput) (*domain.Deposit, error) {
	now := time.Now().UTC()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	deposit, err := uc.depositRepo.GetByIDForUpdate(ctx, tx, input.DepositID)
	if err != nil {
		return nil, err
	}

	if err := deposit.CanConfirm(); err != nil {
		return nil, err
	}

	if err := uc.depositRepo.UpdateStatus(ctx, tx, deposit.ID, domain.DepositConfirmed, now); err != nil {
		return nil, err
	}

	_, err = uc.writer.Append(ctx, tx, AppendMovementInput{
		Currency: deposit.Currency,
		Kind:     domain.MovementDeposit,
		Amount:   deposit.Amount,
		IsCredit: false,
		Source:   domain.SourceRef{Kind: domain.SourceDeposit, ID: deposit.ID},
		Notes:    input.Notes,
		UserID:   input.UserID,
	}, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	deposit.Status = domain.DepositConfirmed
	deposit.UpdatedAt = now

	return deposit, nil
}

// CancelDepositInput represents input for cancelling a deposit.
type CancelDepositInput struct {
	DepositID string
	UserID    string
	Notes     string
}

// CancelDeposit marks the deposit ANULADO. A confirmed deposit gets a
// compensating ledger credit; a pending one only changes status.
func (uc *DepositUseCase) CancelDeposit(ctx context.Context, input CancelDepositInput) (*domain.Deposit, error) {
	if input.UserID == "" {
		return nil, domain.ErrMissingUser
	}

	var result *domain.Deposit

	run := func() error {
		d, err := uc.cancelTx(ctx, input)
		if err != nil {
			return err
		}

		result = d
		return nil
	}

	if err := uc.retry(ctx, run); err != nil {
		return nil, err
	}

	uc.invalidateBalance(ctx, result.Currency)

	if uc.metrics != nil {
		uc.metrics.DepositsCancelled.Inc()
	}

	uc.audit.record(ctx, input.UserID, "deposit.cancel", "deposit", result.ID, map[string]any{
		"status": string(result.Status),
	})

	return result, nil
}

func (uc *DepositUseCase) cancelTx(ctx context.Context, input CancelDepositInput) (*domain.Deposit, error) {
	now := time.Now().UTC()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	deposit, err := uc.depositRepo.GetByIDForUpdate(ctx, tx, input.DepositID)
	if err != nil {
		return nil, err
	}

	if err := deposit.CanCancel(); err != nil {
		return nil, err
	}

	wasConfirmed := deposit.Status == domain.DepositConfirmed

	if err := uc.depositRepo.UpdateStatus(ctx, tx, deposit.ID, domain.DepositCancelled, now); err != nil {
		return nil, err
	}

	if wasConfirmed {
		_, err = uc.writer.Append(ctx, tx, AppendMovementInput{
			Currency: deposit.Currency,
			Kind:     domain.MovementDepositReversal,
			Amount:   deposit.Amount,
			IsCredit: true,
			Source:   domain.SourceRef{Kind: domain.SourceDeposit, ID: deposit.ID},
			Notes:    input.Notes,
			UserID:   input.UserID,
		}, now)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	deposit.Status = domain.DepositCancelled
	deposit.UpdatedAt = now

	return deposit, nil
}

// GetDeposit retrieves a deposit by ID.
func (uc *DepositUseCase) GetDeposit(ctx context.Context, id string) (*domain.Deposit, error) {
	return uc.depositRepo.GetByID(ctx, id)
}

// ListDepositsInput represents input for listing deposits.
type ListDepositsInput struct {
	Status domain.DepositStatus
	Limit  int
	Offset int
}

// ListDeposits lists deposits, optionally filtered by status.
func (uc *DepositUseCase) ListDeposits(ctx context.Context, input ListDepositsInput) ([]*domain.Deposit, error) {
	limit, offset := clampPage(input.Limit, input.Offset)
	return uc.depositRepo.List(ctx, input.Status, limit, offset)
}

func (uc *DepositUseCase) retry(ctx context.Context, run func() error) error {
	if uc.retrier != nil {
		return uc.retrier.Retry(ctx, run)
	}

	return run()
}

func (uc *DepositUseCase) invalidateBalance(ctx context.Context, currency domain.Currency) {
	if uc.cache == nil {
		return
	}

	_ = uc.cache.Delete(ctx, balanceCacheKeyPrefix+string(currency))
}
