package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GrantRepository owns the pivot tables. Membership implies permission;
// absence implies denial. Implements authz.GrantSource.
type GrantRepository struct {
	pool *pgxpool.Pool
}

func NewGrantRepository(pool *pgxpool.Pool) *GrantRepository {
	return &GrantRepository{pool: pool}
}

func (r *GrantRepository) HasBoardGrant(ctx context.Context, userID, boardID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM board_users WHERE user_id = $1 AND board_id = $2)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, userID, boardID).Scan(&exists)
	return exists, err
}

func (r *GrantRepository) HasListGrant(ctx context.Context, userID, listID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM board_list_users WHERE user_id = $1 AND board_list_id = $2)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, userID, listID).Scan(&exists)
	return exists, err
}

func (r *GrantRepository) CardMemberIDs(ctx context.Context, cardID string) ([]string, error) {
	const query = `SELECT user_id FROM board_card_members WHERE board_card_id = $1 ORDER BY user_id`
	return r.collectIDs(ctx, query, cardID)
}

// SyncBoards replaces a user's board grants with the given set in one
// transaction.
func (r *GrantRepository) SyncBoards(ctx context.Context, userID string, boardIDs []string) error {
	return r.syncPivot(ctx, "board_users", "board_id", userID, boardIDs)
}

func (r *GrantRepository) SyncLists(ctx context.Context, userID string, listIDs []string) error {
	return r.syncPivot(ctx, "board_list_users", "board_list_id", userID, listIDs)
}

func (r *GrantRepository) SyncCities(ctx context.Context, userID string, cityIDs []string) error {
	return r.syncPivot(ctx, "city_users", "city_id", userID, cityIDs)
}

// SyncCardMembers replaces a card's member set.
func (r *GrantRepository) SyncCardMembers(ctx context.Context, cardID string, userIDs []string) error {
	return r.syncPivotByResource(ctx, "board_card_members", "board_card_id", cardID, userIDs)
}

func (r *GrantRepository) BoardIDsForUser(ctx context.Context, userID string) ([]string, error) {
	const query = `SELECT board_id FROM board_users WHERE user_id = $1`
	return r.collectIDs(ctx, query, userID)
}

func (r *GrantRepository) ListIDsForUser(ctx context.Context, userID string) ([]string, error) {
	const query = `SELECT board_list_id FROM board_list_users WHERE user_id = $1`
	return r.collectIDs(ctx, query, userID)
}

func (r *GrantRepository) CityIDsForUser(ctx context.Context, userID string) ([]string, error) {
	const query = `SELECT city_id FROM city_users WHERE user_id = $1`
	return r.collectIDs(ctx, query, userID)
}

func (r *GrantRepository) collectIDs(ctx context.Context, query string, arg string) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *GrantRepository) syncPivot(ctx context.Context, table, resourceCol, userID string, resourceIDs []string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, table), userID); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	insert := fmt.Sprintf(`INSERT INTO %s (%s, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, table, resourceCol)
	for _, resourceID := range resourceIDs {
		if _, err := tx.Exec(ctx, insert, resourceID, userID); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return tx.Commit(ctx)
}

func (r *GrantRepository) syncPivotByResource(ctx context.Context, table, resourceCol, resourceID string, userIDs []string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table, resourceCol), resourceID); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	insert := fmt.Sprintf(`INSERT INTO %s (%s, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, table, resourceCol)
	for _, userID := range userIDs {
		if _, err := tx.Exec(ctx, insert, resourceID, userID); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return tx.Commit(ctx)
}
