package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/farmasys/cajacentral/internal/domain"
	"github.com/farmasys/cajacentral/internal/usecase"
)

// BalanceRepository implements usecase.BalanceRepository. The cash_balances
// row is both the running total and the write lock for its currency: every
// ledger append locks it with FOR UPDATE before reading the prior balance.
type BalanceRepository struct {
	pool *pgxpool.Pool
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(pool *pgxpool.Pool) *BalanceRepository {
	return &BalanceRepository{pool: pool}
}

// GetForUpdate locks the balance row for the currency and returns its value.
// The row is created at zero on first use so new currencies need no seeding.
func (r *BalanceRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, currency domain.Currency) (decimal.Decimal, error) {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO cash_balances (currency, balance, updated_at)
		VALUES ($1, 0, now())
		ON CONFLICT (currency) DO NOTHING
	`, string(currency))
	if err != nil {
		return decimal.Zero, err
	}

	var balance pgtype.Numeric
	err = pgxTx.QueryRow(ctx, `
		SELECT balance FROM cash_balances WHERE currency = $1 FOR UPDATE
	`, string(currency)).Scan(&balance)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(balance), nil
}

// Update writes the new running balance. Must be called with the row already
// locked by GetForUpdate in the same transaction.
func (r *BalanceRepository) Update(ctx context.Context, tx usecase.Transaction, currency domain.Currency, balance decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE cash_balances SET balance = $2, updated_at = $3 WHERE currency = $1
	`, string(currency), decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))

	return err
}

// Get returns the running balance for a currency without locking. A currency
// that never moved reads as zero.
func (r *BalanceRepository) Get(ctx context.Context, currency domain.Currency) (*domain.CurrencyBalance, error) {
	var (
		balance   pgtype.Numeric
		updatedAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, `
		SELECT balance, updated_at FROM cash_balances WHERE currency = $1
	`, string(currency)).Scan(&balance, &updatedAt)
	if err != nil {
		if isNoRows(err) {
			return &domain.CurrencyBalance{Currency: currency, Balance: decimal.Zero}, nil
		}

		return nil, err
	}

	return &domain.CurrencyBalance{
		Currency:  currency,
		Balance:   numericToDecimal(balance),
		UpdatedAt: updatedAt.Time,
	}, nil
}

// List returns every stored balance row.
func (r *BalanceRepository) List(ctx context.Context) ([]*domain.CurrencyBalance, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT currency, balance, updated_at FROM cash_balances ORDER BY currency
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []*domain.CurrencyBalance
	for rows.Next() {
		var (
			currency  string
			balance   pgtype.Numeric
			updatedAt pgtype.Timestamptz
		)

		if err := rows.Scan(&currency, &balance, &updatedAt); err != nil {
			return nil, err
		}

		balances = append(balances, &domain.CurrencyBalance{
			Currency:  domain.Currency(currency),
			Balance:   numericToDecimal(balance),
			UpdatedAt: updatedAt.Time,
		})
	}

	return balances, rows.Err()
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
