package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"caseboard/api/internal/models"
)

var ErrListNotFound = errors.New("list not found")

const listColumns = `id, board_id, title, category, position, created_at, updated_at`

type ListRepository struct {
	pool *pgxpool.Pool
}

func NewListRepository(pool *pgxpool.Pool) *ListRepository {
	return &ListRepository{pool: pool}
}

func scanList(row pgx.Row) (models.BoardList, error) {
	var list models.BoardList
	if err := row.Scan(
		&list.ID,
		&list.BoardID,
		&list.Title,
		&list.Category,
		&list.Position,
		&list.CreatedAt,
		&list.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.BoardList{}, ErrListNotFound
		}
		return models.BoardList{}, err
	}
	return list, nil
}

// Create assigns position = max(position)+gap within the board when the
// caller passes position 0, so new lists land at the end.
func (r *ListRepository) Create(ctx context.Context, list models.BoardList) (models.BoardList, error) {
	if list.Position == 0 {
		const posQuery = `SELECT COALESCE(MAX(position), 0) + $2 FROM board_lists WHERE board_id = $1`
		if err := r.pool.QueryRow(ctx, posQuery, list.BoardID, int64(models.PositionGap)).Scan(&list.Position); err != nil {
			return models.BoardList{}, err
		}
	}

	const query = `
		INSERT INTO board_lists (id, board_id, title, category, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING ` + listColumns
	return scanList(r.pool.QueryRow(ctx, query, list.ID, list.BoardID, list.Title, list.Category, list.Position))
}

func (r *ListRepository) GetByID(ctx context.Context, id string) (models.BoardList, error) {
	const query = `SELECT ` + listColumns + ` FROM board_lists WHERE id = $1`
	return scanList(r.pool.QueryRow(ctx, query, id))
}

// ListByBoard returns all lists ordered by position. When memberUserID is
// non-empty only lists granted to that user come back (read-side filtering,
// not rejection).
func (r *ListRepository) ListByBoard(ctx context.Context, boardID string, memberUserID string) ([]models.BoardList, error) {
	query := `SELECT ` + listColumns + ` FROM board_lists WHERE board_id = $1 ORDER BY position, id`
	args := []any{boardID}
	if memberUserID != "" {
		query = `
			SELECT ` + listColumns + ` FROM board_lists l
			WHERE l.board_id = $1
			  AND EXISTS (SELECT 1 FROM board_list_users lu WHERE lu.board_list_id = l.id AND lu.user_id = $2)
			ORDER BY l.position, l.id
		`
		args = append(args, memberUserID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []models.BoardList
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	return lists, rows.Err()
}

func (r *ListRepository) Update(ctx context.Context, id string, title *string, category *models.ListCategory, position *int64) error {
	const query = `
		UPDATE board_lists
		SET title = COALESCE($2, title),
		    category = COALESCE($3, category),
		    position = COALESCE($4, position),
		    updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, title, category, position)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrListNotFound
	}
	return nil
}

func (r *ListRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM board_lists WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrListNotFound
	}
	return nil
}
