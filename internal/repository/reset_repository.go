package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"caseboard/api/internal/models"
)

var ErrResetNotFound = errors.New("password reset not found")

type ResetRepository struct {
	pool *pgxpool.Pool
}

func NewResetRepository(pool *pgxpool.Pool) *ResetRepository {
	return &ResetRepository{pool: pool}
}

// Upsert keeps at most one outstanding reset per email; a new request
// replaces the previous token.
func (r *ResetRepository) Upsert(ctx context.Context, email string, tokenHash []byte, expiresAt time.Time) error {
	const query = `
		INSERT INTO password_resets (email, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (email)
		DO UPDATE SET token_hash = EXCLUDED.token_hash,
		              expires_at = EXCLUDED.expires_at,
		              created_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query, email, tokenHash, expiresAt)
	return err
}

func (r *ResetRepository) FindByEmail(ctx context.Context, email string) (models.PasswordReset, error) {
	const query = `
		SELECT email, token_hash, expires_at, created_at
		FROM password_resets WHERE email = $1
	`
	var reset models.PasswordReset
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&reset.Email,
		&reset.TokenHash,
		&reset.ExpiresAt,
		&reset.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.PasswordReset{}, ErrResetNotFound
		}
		return models.PasswordReset{}, err
	}
	return reset, nil
}

func (r *ResetRepository) Delete(ctx context.Context, email string) error {
	const query = `DELETE FROM password_resets WHERE email = $1`
	_, err := r.pool.Exec(ctx, query, email)
	return err
}

func (r *ResetRepository) PurgeExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM password_resets WHERE expires_at < NOW()`
	cmd, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
