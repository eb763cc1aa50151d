package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmasys/cajacentral/internal/domain"
	"github.com/farmasys/cajacentral/internal/usecase"
)

// WithdrawalRepository implements usecase.WithdrawalRepository.
type WithdrawalRepository struct {
	pool *pgxpool.Pool
}

// NewWithdrawalRepository creates a new WithdrawalRepository.
func NewWithdrawalRepository(pool *pgxpool.Pool) *WithdrawalRepository {
	return &WithdrawalRepository{pool: pool}
}

const withdrawalColumns = `
	id, branch_id, currency, amount, status, requested_by, received_by,
	notes, created_at, updated_at
`

// Create inserts a new withdrawal.
func (r *WithdrawalRepository) Create(ctx context.Context, withdrawal *domain.Withdrawal) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO withdrawals (`+withdrawalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		withdrawal.ID,
		withdrawal.BranchID,
		string(withdrawal.Currency),
		decimalToNumeric(withdrawal.Amount),
		string(withdrawal.Status),
		withdrawal.RequestedBy,
		withdrawal.ReceivedBy,
		withdrawal.Notes,
		timeToPgTimestamptz(withdrawal.CreatedAt),
		timeToPgTimestamptz(withdrawal.UpdatedAt),
	)

	return mapWriteError(err)
}

// GetByID retrieves a withdrawal by ID.
func (r *WithdrawalRepository) GetByID(ctx context.Context, id string) (*domain.Withdrawal, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1
	`, id)

	return scanWithdrawal(row)
}

// GetByIDForUpdate retrieves a withdrawal by ID with a FOR UPDATE lock. Status
// transitions lock the row so concurrent receive/reverse calls serialize.
func (r *WithdrawalRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Withdrawal, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `
		SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1 FOR UPDATE
	`, id)

	return scanWithdrawal(row)
}

// UpdateStatus updates the withdrawal's status inside the caller's
// transaction. receivedBy is cleared on reversal and set on receipt.
func (r *WithdrawalRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.WithdrawalStatus, receivedBy string, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE withdrawals SET status = $2, received_by = $3, updated_at = $4 WHERE id = $1
	`, id, string(status), receivedBy, timeToPgTimestamptz(updatedAt))

	return err
}

// List lists withdrawals, optionally filtered by status, newest first.
func (r *WithdrawalRepository) List(ctx context.Context, status domain.WithdrawalStatus, limit, offset int) ([]*domain.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals`
	args := []any{limit, offset}

	if status != "" {
		query += ` WHERE status = $3`
		args = append(args, string(status))
	}

	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var withdrawals []*domain.Withdrawal
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}

		withdrawals = append(withdrawals, w)
	}

	return withdrawals, rows.Err()
}

func scanWithdrawal(row pgx.Row) (*domain.Withdrawal, error) {
	var (
		w         domain.Withdrawal
		currency  string
		amount    pgtype.Numeric
		status    string
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&w.ID,
		&w.BranchID,
		&currency,
		&amount,
		&status,
		&w.RequestedBy,
		&w.ReceivedBy,
		&w.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrWithdrawalNotFound
		}

		return nil, err
	}

	w.Currency = domain.Currency(currency)
	w.Amount = numericToDecimal(amount)
	w.Status = domain.WithdrawalStatus(status)
	w.CreatedAt = createdAt.Time
	w.UpdatedAt = updatedAt.Time

	return &w, nil
}
