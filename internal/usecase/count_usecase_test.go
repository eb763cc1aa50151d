package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/farmasys/cajacentral/internal/domain"
	"github.com/farmasys/cajacentral/internal/usecase"
	"github.com/farmasys/cajacentral/internal/usecase/mocks"
)

type countFixture struct {
	uc        *usecase.CountUseCase
	txManager *mocks.MockTxManager
	counts    *mocks.MockCountRepository
	balances  *mocks.MockBalanceRepository
	movements *mocks.MockMovementRepository
	cache     *mocks.MockCache
	audit     *mocks.MockAuditRepository
}

func newCountFixture(retrier usecase.Retrier) *countFixture {
	f := &countFixture{
		txManager: mocks.NewMockTxManager(),
		counts:    mocks.NewMockCountRepository(),
		balances:  mocks.NewMockBalanceRepository(),
		movements: mocks.NewMockMovementRepository(),
		cache:     mocks.NewMockCache(),
		audit:     mocks.NewMockAuditRepository(),
	}

	writer := usecase.NewLedgerWriter(f.balances, f.movements, mocks.NewMockIDGenerator(), nil)
	f.uc = usecase.NewCountUseCase(f.txManager, f.counts, writer, f.balances, mocks.NewMockIDGenerator(), retrier, f.cache, f.audit, nil)

	return f
}

func TestCountUseCase_SurplusWritesCredit(t *testing.T) {
	f := newCountFixture(nil)
	f.balances.SetBalance(domain.CurrencyGuaranies, decimal.NewFromInt(100))

	count, err := f.uc.CreateCount(context.Background(), usecase.CreateCountInput{
		UserID: "user-1",
		Lines: []usecase.CountLineInput{
			{Currency: domain.CurrencyGuaranies, CountedTotal: decimal.NewFromInt(150)},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	line := count.Lines[0]
	if !line.SystemBalance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected system balance 100, got %s", line.SystemBalance)
	}
	if !line.Difference.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected difference 50, got %s", line.Difference)
	}

	movements := f.movements.Movements()
	if len(movements) != 1 {
		t.Fatalf("expected 1 movement, got %d", len(movements))
	}

	m := movements[0]
	if !m.IsCredit || !m.Amount.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected credit of 50, got credit=%v amount=%s", m.IsCredit, m.Amount)
	}
	if m.Concept != "Sobró" {
		t.Errorf("expected concept Sobró, got %q", m.Concept)
	}
	if m.Source != (domain.SourceRef{Kind: domain.SourceCount, ID: count.ID}) {
		t.Errorf("unexpected source ref %+v", m.Source)
	}
	if m.Kind != domain.MovementCountAdjustment {
		t.Errorf("unexpected kind %s", m.Kind)
	}

	if tx := f.txManager.LastTx(); tx == nil || !tx.Committed {
		t.Error("transaction should be committed")
	}

	if len(f.cache.Deleted) != 1 || f.cache.Deleted[0] != "balance:PYG" {
		t.Errorf("expected balance cache invalidation, got %v", f.cache.Deleted)
	}
}

func TestCountUseCase_ShortageWithConceptOverride(t *testing.T) {
	f := newCountFixture(nil)
	f.balances.SetBalance(domain.CurrencyDollars, decimal.NewFromInt(200))

	_, err := f.uc.CreateCount(context.Background(), usecase.CreateCountInput{
		UserID: "user-1",
		Lines: []usecase.CountLineInput{
			{Currency: domain.CurrencyDollars, CountedTotal: decimal.NewFromInt(180), Concept: "Ajuste por arqueo nocturno"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	movements := f.movements.Movements()
	if len(movements) != 1 {
		t.Fatalf("expected 1 movement, got %d", len(movements))
	}

	m := movements[0]
	if m.IsCredit {
		t.Error("shortage must be a debit")
	}
	if !m.Amount.Equal(decimal.NewFromInt(20)) {
		t.Errorf("expected amount 20, got %s", m.Amount)
	}
	if m.Concept != "Ajuste por arqueo nocturno" {
		t.Errorf("caller concept should win, got %q", m.Concept)
	}
	if !m.NewBalance.Equal(decimal.NewFromInt(180)) {
		t.Errorf("expected new balance 180, got %s", m.NewBalance)
	}
}

func TestCountUseCase_ZeroDeltaWritesNoMovement(t *testing.T) {
	f := newCountFixture(nil)
	f.balances.SetBalance(domain.CurrencyGuaranies, decimal.NewFromInt(100))

	count, err := f.uc.CreateCount(context.Background(), usecase.CreateCountInput{
		UserID: "user-1",
		Lines: []usecase.CountLineInput{
			{Currency: domain.CurrencyGuaranies, CountedTotal: decimal.NewFromInt(100)},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The count record persists; the ledger stays untouched.
	if _, err := f.counts.GetByID(context.Background(), count.ID); err != nil {
		t.Fatalf("count record should exist: %v", err)
	}

	if got := len(f.movements.Movements()); got != 0 {
		t.Errorf("expected no movements, got %d", got)
	}

	if !count.Lines[0].Difference.IsZero() {
		t.Errorf("expected zero difference, got %s", count.Lines[0].Difference)
	}
}

func TestCountUseCase_MultiCurrency(t *testing.T) {
	f := newCountFixture(nil)
	f.balances.SetBalance(domain.CurrencyGuaranies, decimal.NewFromInt(1000))
	f.balances.SetBalance(domain.CurrencyDollars, decimal.NewFromInt(50))

	_, err := f.uc.CreateCount(context.Background(), usecase.CreateCountInput{
		UserID: "user-1",
		Lines: []usecase.CountLineInput{
			{Currency: domain.CurrencyDollars, CountedTotal: decimal.NewFromInt(60)},
			{Currency: domain.CurrencyGuaranies, CountedTotal: decimal.NewFromInt(900)},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	movements := f.movements.Movements()
	if len(movements) != 2 {
		t.Fatalf("expected 2 movements, got %d", len(movements))
	}

	byCurrency := map[domain.Currency]bool{}
	for _, m := range movements {
		byCurrency[m.Currency] = m.IsCredit
	}

	if credit, ok := byCurrency[domain.CurrencyDollars]; !ok || !credit {
		t.Error("USD surplus should be a credit")
	}
	if credit, ok := byCurrency[domain.CurrencyGuaranies]; !ok || credit {
		t.Error("PYG shortage should be a debit")
	}

	if len(f.cache.Deleted) != 2 {
		t.Errorf("expected two cache invalidations, got %v", f.cache.Deleted)
	}
}

func TestCountUseCase_ValidationBeforeTransaction(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.CreateCountInput
		wantErr error
	}{
		{
			name:    "empty count",
			input:   usecase.CreateCountInput{UserID: "user-1"},
			wantErr: domain.ErrEmptyCount,
		},
		{
			name: "missing user",
			input: usecase.CreateCountInput{
				Lines: []usecase.CountLineInput{{Currency: domain.CurrencyGuaranies, CountedTotal: decimal.NewFromInt(1)}},
			},
			wantErr: domain.ErrMissingUser,
		},
		{
			name: "negative total",
			input: usecase.CreateCountInput{
				UserID: "user-1",
				Lines:  []usecase.CountLineInput{{Currency: domain.CurrencyGuaranies, CountedTotal: decimal.NewFromInt(-1)}},
			},
			wantErr: domain.ErrNegativeCountTotal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCountFixture(nil)

			_, err := f.uc.CreateCount(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			if len(f.txManager.Txs) != 0 {
				t.Error("no transaction should be opened for invalid input")
			}
		})
	}
}

func TestCountUseCase_RepoFailureRollsBack(t *testing.T) {
	f := newCountFixture(nil)
	f.balances.SetBalance(domain.CurrencyGuaranies, decimal.NewFromInt(100))

	f.counts.CreateFunc = func(ctx context.Context, tx usecase.Transaction, count *domain.CashCount) error {
		return errors.New("constraint violation")
	}

	_, err := f.uc.CreateCount(context.Background(), usecase.CreateCountInput{
		UserID: "user-1",
		Lines: []usecase.CountLineInput{
			{Currency: domain.CurrencyGuaranies, CountedTotal: decimal.NewFromInt(150)},
		},
	})
	if err == nil {
		t.Fatal("expected error")
	}

	tx := f.txManager.LastTx()
	if tx == nil || !tx.RolledBack || tx.Committed {
		t.Error("transaction should be rolled back")
	}

	if len(f.movements.Movements()) != 0 {
		t.Error("no movement should survive a rollback")
	}

	if len(f.audit.Logs()) != 0 {
		t.Error("failed operations must not be audited as success")
	}
}

func TestCountUseCase_RunsThroughRetrier(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	retrier := mocks.NewMockRetrier(ctrl)
	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, operation func() error) error {
			return operation()
		})

	f := newCountFixture(retrier)
	f.balances.SetBalance(domain.CurrencyGuaranies, decimal.NewFromInt(10))

	_, err := f.uc.CreateCount(context.Background(), usecase.CreateCountInput{
		UserID: "user-1",
		Lines: []usecase.CountLineInput{
			{Currency: domain.CurrencyGuaranies, CountedTotal: decimal.NewFromInt(10)},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
