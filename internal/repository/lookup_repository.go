package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"caseboard/api/internal/models"
)

var (
	ErrLookupNotFound  = errors.New("not found")
	ErrDuplicateLookup = errors.New("name already exists")
)

// LookupRepository serves the name-keyed tables that all share one shape:
// country_labels, intake_labels, service_areas, cities.
type LookupRepository struct {
	pool  *pgxpool.Pool
	table string
}

func NewCountryLabelRepository(pool *pgxpool.Pool) *LookupRepository {
	return &LookupRepository{pool: pool, table: "country_labels"}
}

func NewIntakeLabelRepository(pool *pgxpool.Pool) *LookupRepository {
	return &LookupRepository{pool: pool, table: "intake_labels"}
}

func NewServiceAreaRepository(pool *pgxpool.Pool) *LookupRepository {
	return &LookupRepository{pool: pool, table: "service_areas"}
}

func NewCityRepository(pool *pgxpool.Pool) *LookupRepository {
	return &LookupRepository{pool: pool, table: "cities"}
}

func (r *LookupRepository) Create(ctx context.Context, id, name string) (models.Label, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, created_at) VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name, created_at
	`, r.table)

	var label models.Label
	if err := r.pool.QueryRow(ctx, query, id, name).Scan(&label.ID, &label.Name, &label.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Label{}, ErrDuplicateLookup
		}
		return models.Label{}, err
	}
	return label, nil
}

func (r *LookupRepository) GetByID(ctx context.Context, id string) (models.Label, error) {
	query := fmt.Sprintf(`SELECT id, name, created_at FROM %s WHERE id = $1`, r.table)
	var label models.Label
	if err := r.pool.QueryRow(ctx, query, id).Scan(&label.ID, &label.Name, &label.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Label{}, ErrLookupNotFound
		}
		return models.Label{}, err
	}
	return label, nil
}

func (r *LookupRepository) List(ctx context.Context) ([]models.Label, error) {
	query := fmt.Sprintf(`SELECT id, name, created_at FROM %s ORDER BY name`, r.table)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []models.Label
	for rows.Next() {
		var label models.Label
		if err := rows.Scan(&label.ID, &label.Name, &label.CreatedAt); err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}

func (r *LookupRepository) Rename(ctx context.Context, id, name string) error {
	query := fmt.Sprintf(`UPDATE %s SET name = $2 WHERE id = $1`, r.table)
	cmd, err := r.pool.Exec(ctx, query, id, name)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateLookup
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrLookupNotFound
	}
	return nil
}

// isUniqueViolation matches SQLSTATE 23505 anywhere in the chain.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *LookupRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrLookupNotFound
	}
	return nil
}
