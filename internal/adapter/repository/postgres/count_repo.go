package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmasys/cajacentral/internal/domain"
	"github.com/farmasys/cajacentral/internal/usecase"
)

// CountRepository implements usecase.CountRepository. A count and its lines
// are written together inside the caller's transaction so a count never lands
// half-persisted next to its ledger adjustments.
type CountRepository struct {
	pool *pgxpool.Pool
}

// NewCountRepository creates a new CountRepository.
func NewCountRepository(pool *pgxpool.Pool) *CountRepository {
	return &CountRepository{pool: pool}
}

// Create inserts a cash count and its lines.
func (r *CountRepository) Create(ctx context.Context, tx usecase.Transaction, count *domain.CashCount) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO cash_counts (id, user_id, notes, created_at)
		VALUES ($1, $2, $3, $4)
	`, count.ID, count.UserID, count.Notes, timeToPgTimestamptz(count.CreatedAt))
	if err != nil {
		return mapWriteError(err)
	}

	for _, line := range count.Lines {
		_, err := pgxTx.Exec(ctx, `
			INSERT INTO cash_count_lines (
				id, count_id, currency, counted_total, system_balance, difference, concept
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			line.ID,
			line.CountID,
			string(line.Currency),
			decimalToNumeric(line.CountedTotal),
			decimalToNumeric(line.SystemBalance),
			decimalToNumeric(line.Difference),
			line.Concept,
		)
		if err != nil {
			return mapWriteError(err)
		}
	}

	return nil
}

// GetByID retrieves a count with its lines.
func (r *CountRepository) GetByID(ctx context.Context, id string) (*domain.CashCount, error) {
	var (
		count     domain.CashCount
		createdAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, notes, created_at FROM cash_counts WHERE id = $1
	`, id).Scan(&count.ID, &count.UserID, &count.Notes, &createdAt)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrCountNotFound
		}

		return nil, err
	}

	count.CreatedAt = createdAt.Time

	lines, err := r.linesFor(ctx, []string{count.ID})
	if err != nil {
		return nil, err
	}

	count.Lines = lines[count.ID]

	return &count, nil
}

// List lists counts with their lines, newest first.
func (r *CountRepository) List(ctx context.Context, limit, offset int) ([]*domain.CashCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, notes, created_at
		FROM cash_counts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		counts []*domain.CashCount
		ids    []string
	)

	for rows.Next() {
		var (
			count     domain.CashCount
			createdAt pgtype.Timestamptz
		)

		if err := rows.Scan(&count.ID, &count.UserID, &count.Notes, &createdAt); err != nil {
			return nil, err
		}

		count.CreatedAt = createdAt.Time
		counts = append(counts, &count)
		ids = append(ids, count.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return counts, nil
	}

	lines, err := r.linesFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, count := range counts {
		count.Lines = lines[count.ID]
	}

	return counts, nil
}

func (r *CountRepository) linesFor(ctx context.Context, countIDs []string) (map[string][]domain.CountLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, count_id, currency, counted_total, system_balance, difference, concept
		FROM cash_count_lines
		WHERE count_id = ANY($1)
		ORDER BY currency
	`, countIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make(map[string][]domain.CountLine)
	for rows.Next() {
		line, err := scanCountLine(rows)
		if err != nil {
			return nil, err
		}

		lines[line.CountID] = append(lines[line.CountID], line)
	}

	return lines, rows.Err()
}

func scanCountLine(row pgx.Row) (domain.CountLine, error) {
	var (
		line          domain.CountLine
		currency      string
		countedTotal  pgtype.Numeric
		systemBalance pgtype.Numeric
		difference    pgtype.Numeric
	)

	err := row.Scan(
		&line.ID,
		&line.CountID,
		&currency,
		&countedTotal,
		&systemBalance,
		&difference,
		&line.Concept,
	)
	if err != nil {
		return line, err
	}

	line.Currency = domain.Currency(currency)
	line.CountedTotal = numericToDecimal(countedTotal)
	line.SystemBalance = numericToDecimal(systemBalance)
	line.Difference = numericToDecimal(difference)

	return line, nil
}
