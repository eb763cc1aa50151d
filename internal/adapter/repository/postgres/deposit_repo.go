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

// DepositRepository implements usecase.DepositRepository.
type DepositRepository struct {
	pool *pgxpool.Pool
}

// NewDepositRepository creates a new DepositRepository.
func NewDepositRepository(pool *pgxpool.Pool) *DepositRepository {
	return &DepositRepository{pool: pool}
}

const depositColumns = `
	id, bank_account, reference, currency, amount, status, user_id,
	notes, created_at, updated_at
`

// Create inserts a new deposit.
func (r *DepositRepository) Create(ctx context.Context, deposit *domain.Deposit) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO deposits (`+depositColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		deposit.ID,
		deposit.BankAccount,
		deposit.Reference,
		string(deposit.Currency),
		decimalToNumeric(deposit.Amount),
		string(deposit.Status),
		deposit.UserID,
		deposit.Notes,
		timeToPgTimestamptz(deposit.CreatedAt),
		timeToPgTimestamptz(deposit.UpdatedAt),
	)

	return mapWriteError(err)
}

// GetByID retrieves a deposit by ID.
func (r *DepositRepository) GetByID(ctx context.Context, id string) (*domain.Deposit, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+depositColumns+` FROM deposits WHERE id = $1
	`, id)

	return scanDeposit(row)
}

// GetByIDForUpdate retrieves a deposit by ID with a FOR UPDATE lock.
func (r *DepositRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Deposit, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `
		SELECT `+depositColumns+` FROM deposits WHERE id = $1 FOR UPDATE
	`, id)

	return scanDeposit(row)
}

// UpdateStatus updates the deposit's status inside the caller's transaction.
func (r *DepositRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.DepositStatus, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE deposits SET status = $2, updated_at = $3 WHERE id = $1
	`, id, string(status), timeToPgTimestamptz(updatedAt))

	return err
}

// List lists deposits, optionally filtered by status, newest first.
func (r *DepositRepository) List(ctx context.Context, status domain.DepositStatus, limit, offset int) ([]*domain.Deposit, error) {
	query := `SELECT ` + depositColumns + ` FROM deposits`
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

	var deposits []*domain.Deposit
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, err
		}

		deposits = append(deposits, d)
	}

	return deposits, rows.Err()
}

func scanDeposit(row pgx.Row) (*domain.Deposit, error) {
	var (
		d         domain.Deposit
		currency  string
		amount    pgtype.Numeric
		status    string
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&d.ID,
		&d.BankAccount,
		&d.Reference,
		&currency,
		&amount,
		&status,
		&d.UserID,
		&d.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrDepositNotFound
		}

		return nil, err
	}

	d.Currency = domain.Currency(currency)
	d.Amount = numericToDecimal(amount)
	d.Status = domain.DepositStatus(status)
	d.CreatedAt = createdAt.Time
	d.UpdatedAt = updatedAt.Time

	return &d, nil
}
