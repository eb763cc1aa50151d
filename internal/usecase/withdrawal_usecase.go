package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmasys/cajacentral/internal/domain"
	"github.com/farmasys/cajacentral/internal/infrastructure/metrics"
)

// WithdrawalUseCase handles branch withdrawals moving through the central
// desk: PENDIENTE → RECIBIDO (ledger credit), RECIBIDO → PENDIENTE on
// reversal (ledger debit), PENDIENTE → RECHAZADO (no ledger movement).
type WithdrawalUseCase struct {
	txManager      TransactionManager
	withdrawalRepo WithdrawalRepository
	writer         *LedgerWriter
	idGen          IDGenerator
	retrier        Retrier
	cache          Cache
	audit          auditor
	metrics        *metrics.Metrics
}

// NewWithdrawalUseCase creates a new WithdrawalUseCase. retrier, cache,
// auditRepo and metrics may be nil.
func NewWithdrawalUseCase(
	txManager TransactionManager,
	withdrawalRepo WithdrawalRepository,
	writer *LedgerWriter,
	idGen IDGenerator,
	retrier Retrier,
	cache Cache,
	auditRepo AuditRepository,
	m *metrics.Metrics,
) *WithdrawalUseCase {
	return &WithdrawalUseCase{
		txManager:      txManager,
		withdrawalRepo: withdrawalRepo,
		writer:         writer,
		idGen:          idGen,
		retrier:        retrier,
		cache:          cache,
		audit:          auditor{repo: auditRepo, metrics: m},
		metrics:        m,
	}
}

// CreateWithdrawalInput represents input for registering a withdrawal.
type CreateWithdrawalInput struct {
	BranchID    string
	Currency    domain.Currency
	Amount      decimal.Decimal
	RequestedBy string
	Notes       string
}

// CreateWithdrawal registers a pending withdrawal. No ledger movement is
// written until the cash is received at the central desk.
func (uc *WithdrawalUseCase) CreateWithdrawal(ctx context.Context, input CreateWithdrawalInput) (*domain.Withdrawal, error) {
	now := time.Now().UTC()

	withdrawal := &domain.Withdrawal{
		ID:          uc.idGen.Generate(),
		BranchID:    input.BranchID,
		Currency:    input.Currency,
		Amount:      input.Amount,
		Status:      domain.WithdrawalPending,
		RequestedBy: input.RequestedBy,
		Notes:       input.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := withdrawal.Validate(); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateNotes(input.Notes); err != nil {
		return nil, err
	}

	if err := uc.withdrawalRepo.Create(ctx, withdrawal); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.WithdrawalsCreated.Inc()
	}

	uc.audit.record(ctx, input.RequestedBy, "withdrawal.create", "withdrawal", withdrawal.ID, map[string]any{
		"status": string(withdrawal.Status),
		"amount": withdrawal.Amount.String(),
	})

	return withdrawal, nil
}

// ReceiveWithdrawalInput represents input for receiving a withdrawal.
type ReceiveWithdrawalInput struct {
	WithdrawalID string
	UserID       string
	Notes        string
}

// ReceiveWithdrawal marks the withdrawal RECIBIDO and credits the ledger,
// both inside one transaction.
func (uc *WithdrawalUseCase) ReceiveWithdrawal(ctx context.Context, input ReceiveWithdrawalInput) (*domain.Withdrawal, error) {
	return uc.transition(ctx, input.WithdrawalID, input.UserID, input.Notes, transitionReceive)
}

// ReverseWithdrawalInput represents input for reversing a received withdrawal.
type ReverseWithdrawalInput struct {
	WithdrawalID string
	UserID       string
	Notes        string
}

// ReverseWithdrawal returns a received withdrawal to PENDIENTE and writes the
// compensating debit. The original receipt entry is never touched.
func (uc *WithdrawalUseCase) ReverseWithdrawal(ctx context.Context, input ReverseWithdrawalInput) (*domain.Withdrawal, error) {
	return uc.transition(ctx, input.WithdrawalID, input.UserID, input.Notes, transitionReverse)
}

// RejectWithdrawalInput represents input for rejecting a withdrawal.
type RejectWithdrawalInput struct {
	WithdrawalID string
	UserID       string
	Notes        string
}

// RejectWithdrawal terminally rejects a pending withdrawal. No ledger
// movement is written.
func (uc *WithdrawalUseCase) RejectWithdrawal(ctx context.Context, input RejectWithdrawalInput) (*domain.Withdrawal, error) {
	return uc.transition(ctx, input.WithdrawalID, input.UserID, input.Notes, transitionReject)
}

type withdrawalTransition int

const (
	transitionReceive withdrawalTransition = iota
	transitionReverse
	transitionReject
)

func (uc *WithdrawalUseCase) transition(ctx context.Context, withdrawalID, userID, notes string, kind withdrawalTransition) (*domain.Withdrawal, error) {
	if userID == "" {
		return nil, domain.ErrMissingUser
	}

	if err := domain.ValidateNotes(notes); err != nil {
		return nil, err
	}

	var result *domain.Withdrawal

	run := func() error {
		w, err := uc.transitionTx(ctx, withdrawalID, userID, notes, kind)
		if err != nil {
			return err
		}

		result = w
		return nil
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, run)
	} else {
		err = run()
	}

	if err != nil {
		return nil, err
	}

	uc.invalidateBalance(ctx, result.Currency)

	if uc.metrics != nil {
		switch kind {
		case transitionReceive:
			uc.metrics.WithdrawalsReceived.Inc()
		case transitionReverse:
			uc.metrics.WithdrawalsReversed.Inc()
		case transitionReject:
			uc.metrics.WithdrawalsRejected.Inc()
		}
	}

	action := map[withdrawalTransition]string{
		transitionReceive: "withdrawal.receive",
		transitionReverse: "withdrawal.reverse",
		transitionReject:  "withdrawal.reject",
	}[kind]

	uc.audit.record(ctx, userID, action, "withdrawal", result.ID, map[string]any{
		"status": string(result.Status),
	})

	return result, nil
}

func (uc *WithdrawalUseCase) transitionTx(ctx context.Context, withdrawalID, userID, notes string, kind withdrawalTransition) (*domain.Withdrawal, error) {
	now := time.Now().UTC()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	withdrawal, err := uc.withdrawalRepo.GetByIDForUpdate(ctx, tx, withdrawalID)
	if err != nil {
		return nil, err
	}

	var (
		newStatus  domain.WithdrawalStatus
		receivedBy string
		ledger     *AppendMovementInput
	)

	switch kind {
	case transitionReceive:
		if err := withdrawal.CanReceive(); err != nil {
			return nil, err
		}

		newStatus = domain.WithdrawalReceived
		receivedBy = userID
		ledger = &AppendMovementInput{
			Currency: withdrawal.Currency,
			Kind:     domain.MovementWithdrawalReceipt,
			Amount:   withdrawal.Amount,
			IsCredit: true,
			Source:   domain.SourceRef{Kind: domain.SourceWithdrawal, ID: withdrawal.ID},
			Notes:    notes,
			UserID:   userID,
		}

	case transitionReverse:
		if err := withdrawal.CanReverse(); err != nil {
			return nil, err
		}

		newStatus = domain.WithdrawalPending
		ledger = &AppendMovementInput{
			Currency: withdrawal.Currency,
			Kind:     domain.MovementWithdrawalReversal,
			Amount:   withdrawal.Amount,
			IsCredit: false,
			Source:   domain.SourceRef{Kind: domain.SourceWithdrawal, ID: withdrawal.ID},
			Notes:    notes,
			UserID:   userID,
		}

	case transitionReject:
		if err := withdrawal.CanReject(); err != nil {
			return nil, err
		}

		newStatus = domain.WithdrawalRejected
	}

	if err := uc.withdrawalRepo.UpdateStatus(ctx, tx, withdrawal.ID, newStatus, receivedBy, now); err != nil {
		return nil, err
	}

	if ledger != nil {
		if _, err := uc.writer.Append(ctx, tx, *ledger, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	withdrawal.Status = newStatus
	withdrawal.UpdatedAt = now
	if receivedBy != "" {
		withdrawal.ReceivedBy = receivedBy
	}

	return withdrawal, nil
}

// GetWithdrawal retrieves a withdrawal by ID.
func (uc *WithdrawalUseCase) GetWithdrawal(ctx context.Context, id string) (*domain.Withdrawal, error) {
	return uc.withdrawalRepo.GetByID(ctx, id)
}

// ListWithdrawalsInput represents input for listing withdrawals.
type ListWithdrawalsInput struct {
	Status domain.WithdrawalStatus
	Limit  int
	Offset int
}

// ListWithdrawals lists withdrawals, optionally filtered by status.
func (uc *WithdrawalUseCase) ListWithdrawals(ctx context.Context, input ListWithdrawalsInput) ([]*domain.Withdrawal, error) {
	limit, offset := clampPage(input.Limit, input.Offset)
	return uc.withdrawalRepo.List(ctx, input.Status, limit, offset)
}

func (uc *WithdrawalUseCase) invalidateBalance(ctx context.Context, currency domain.Currency) {
	if uc.cache == nil {
		return
	}

	_ = uc.cache.Delete(ctx, balanceCacheKeyPrefix+string(currency))
}
