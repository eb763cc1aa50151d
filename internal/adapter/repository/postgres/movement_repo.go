package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/farmasys/cajacentral/internal/domain"
	"github.com/farmasys/cajacentral/internal/usecase"
)

// MovementRepository implements usecase.MovementRepository over the
// append-only movements table. Rows are never updated or deleted.
type MovementRepository struct {
	pool *pgxpool.Pool
}

// NewMovementRepository creates a new MovementRepository.
func NewMovementRepository(pool *pgxpool.Pool) *MovementRepository {
	return &MovementRepository{pool: pool}
}

const movementColumns = `
	id, currency, kind, amount, is_credit, prior_balance, new_balance,
	source_kind, source_id, concept, notes, user_id, created_at
`

// Create appends a movement inside the caller's transaction.
func (r *MovementRepository) Create(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO movements (`+movementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		movement.ID,
		string(movement.Currency),
		string(movement.Kind),
		decimalToNumeric(movement.Amount),
		movement.IsCredit,
		decimalToNumeric(movement.PriorBalance),
		decimalToNumeric(movement.NewBalance),
		string(movement.Source.Kind),
		movement.Source.ID,
		movement.Concept,
		movement.Notes,
		movement.UserID,
		timeToPgTimestamptz(movement.CreatedAt),
	)

	return mapWriteError(err)
}

// ListByCurrency lists a currency's movements, newest first.
func (r *MovementRepository) ListByCurrency(ctx context.Context, currency domain.Currency, limit, offset int) ([]*domain.Movement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+movementColumns+`
		FROM movements
		WHERE currency = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, string(currency), limit, offset)
	if err != nil {
		return nil, err
	}

	return scanMovements(rows)
}

// ListBySource returns the movements a domain record produced, oldest first.
func (r *MovementRepository) ListBySource(ctx context.Context, source domain.SourceRef) ([]*domain.Movement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+movementColumns+`
		FROM movements
		WHERE source_kind = $1 AND source_id = $2
		ORDER BY created_at ASC, id ASC
	`, string(source.Kind), source.ID)
	if err != nil {
		return nil, err
	}

	return scanMovements(rows)
}

// Latest returns the most recent movement for a currency.
func (r *MovementRepository) Latest(ctx context.Context, currency domain.Currency) (*domain.Movement, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+movementColumns+`
		FROM movements
		WHERE currency = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, string(currency))

	movement, err := scanMovement(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrMovementNotFound
		}

		return nil, err
	}

	return movement, nil
}

// GetBalanceAtTime returns the new balance of the last movement at or before
// the given instant, zero if nothing had moved yet.
func (r *MovementRepository) GetBalanceAtTime(ctx context.Context, currency domain.Currency, at time.Time) (decimal.Decimal, error) {
	var balance pgtype.Numeric

	err := r.pool.QueryRow(ctx, `
		SELECT new_balance
		FROM movements
		WHERE currency = $1 AND created_at <= $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, string(currency), timeToPgTimestamptz(at)).Scan(&balance)
	if err != nil {
		if isNoRows(err) {
			return decimal.Zero, nil
		}

		return decimal.Zero, err
	}

	return numericToDecimal(balance), nil
}

func scanMovements(rows pgx.Rows) ([]*domain.Movement, error) {
	defer rows.Close()

	var movements []*domain.Movement
	for rows.Next() {
		movement, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}

		movements = append(movements, movement)
	}

	return movements, rows.Err()
}

func scanMovement(row pgx.Row) (*domain.Movement, error) {
	var (
		m            domain.Movement
		currency     string
		kind         string
		amount       pgtype.Numeric
		priorBalance pgtype.Numeric
		newBalance   pgtype.Numeric
		sourceKind   string
		createdAt    pgtype.Timestamptz
	)

	err := row.Scan(
		&m.ID,
		&currency,
		&kind,
		&amount,
		&m.IsCredit,
		&priorBalance,
		&newBalance,
		&sourceKind,
		&m.Source.ID,
		&m.Concept,
		&m.Notes,
		&m.UserID,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	m.Currency = domain.Currency(currency)
	m.Kind = domain.MovementKind(kind)
	m.Amount = numericToDecimal(amount)
	m.PriorBalance = numericToDecimal(priorBalance)
	m.NewBalance = numericToDecimal(newBalance)
	m.Source.Kind = domain.SourceKind(sourceKind)
	m.CreatedAt = createdAt.Time

	return &m, nil
}
