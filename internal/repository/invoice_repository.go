package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InvoiceRepository allocates per-year invoice sequence numbers with a
// single atomic upsert, so concurrent card creates cannot observe the same
// value.
type InvoiceRepository struct {
	pool *pgxpool.Pool
}

func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

func (r *InvoiceRepository) NextSequence(ctx context.Context, year int) (int, error) {
	const query = `
		INSERT INTO invoice_sequences (year, last_value)
		VALUES ($1, 1)
		ON CONFLICT (year)
		DO UPDATE SET last_value = invoice_sequences.last_value + 1
		RETURNING last_value
	`
	var seq int
	if err := r.pool.QueryRow(ctx, query, year).Scan(&seq); err != nil {
		return 0, err
	}
	return seq, nil
}
