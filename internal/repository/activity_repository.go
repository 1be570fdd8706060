package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"caseboard/api/internal/models"
)

// ActivityRepository is append-only: rows are inserted and listed, never
// updated or deleted through the API.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

func (r *ActivityRepository) Insert(ctx context.Context, activity models.Activity) error {
	const query = `
		INSERT INTO activities (
			id, user_id, user_name, card_id, list_id, action, details,
			attachment_name, attachment_key, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, NOW()
		)
	`
	_, err := r.pool.Exec(ctx, query,
		activity.ID,
		activity.UserID,
		activity.UserName,
		activity.CardID,
		activity.ListID,
		activity.Action,
		activity.Details,
		activity.AttachmentName,
		activity.AttachmentKey,
	)
	return err
}

func (r *ActivityRepository) ListByCard(ctx context.Context, cardID string, limit, offset int) ([]models.Activity, error) {
	const query = `
		SELECT id, user_id, user_name, card_id, list_id, action, details,
		       attachment_name, attachment_key, created_at
		FROM activities
		WHERE card_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, cardID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var activity models.Activity
		if err := rows.Scan(
			&activity.ID,
			&activity.UserID,
			&activity.UserName,
			&activity.CardID,
			&activity.ListID,
			&activity.Action,
			&activity.Details,
			&activity.AttachmentName,
			&activity.AttachmentKey,
			&activity.CreatedAt,
		); err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}
