package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"caseboard/api/internal/models"
)

var ErrBoardNotFound = errors.New("board not found")

type BoardRepository struct {
	pool *pgxpool.Pool
}

func NewBoardRepository(pool *pgxpool.Pool) *BoardRepository {
	return &BoardRepository{pool: pool}
}

func scanBoard(row pgx.Row) (models.Board, error) {
	var board models.Board
	if err := row.Scan(
		&board.ID,
		&board.Name,
		&board.CityID,
		&board.CreatedAt,
		&board.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Board{}, ErrBoardNotFound
		}
		return models.Board{}, err
	}
	return board, nil
}

func (r *BoardRepository) Create(ctx context.Context, board models.Board) error {
	const query = `
		INSERT INTO boards (id, name, city_id, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query, board.ID, board.Name, board.CityID)
	return err
}

func (r *BoardRepository) GetByID(ctx context.Context, id string) (models.Board, error) {
	const query = `SELECT id, name, city_id, created_at, updated_at FROM boards WHERE id = $1`
	return scanBoard(r.pool.QueryRow(ctx, query, id))
}

// ListAll is the superadmin view.
func (r *BoardRepository) ListAll(ctx context.Context) ([]models.Board, error) {
	const query = `SELECT id, name, city_id, created_at, updated_at FROM boards ORDER BY created_at`
	return r.collect(ctx, query)
}

// ListForUser returns only granted boards; commission boards never appear
// here because grants to them are not honored below superadmin.
func (r *BoardRepository) ListForUser(ctx context.Context, userID string) ([]models.Board, error) {
	const query = `
		SELECT b.id, b.name, b.city_id, b.created_at, b.updated_at
		FROM boards b
		JOIN board_users bu ON bu.board_id = b.id
		WHERE bu.user_id = $1
		ORDER BY b.created_at
	`
	return r.collect(ctx, query, userID)
}

func (r *BoardRepository) Update(ctx context.Context, id string, name string, cityID *string) error {
	const query = `UPDATE boards SET name = $2, city_id = $3, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, name, cityID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrBoardNotFound
	}
	return nil
}

func (r *BoardRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM boards WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrBoardNotFound
	}
	return nil
}

func (r *BoardRepository) collect(ctx context.Context, query string, args ...any) ([]models.Board, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boards []models.Board
	for rows.Next() {
		board, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		boards = append(boards, board)
	}
	return boards, rows.Err()
}
