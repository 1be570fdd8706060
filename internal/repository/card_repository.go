package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"caseboard/api/internal/models"
)

var ErrCardNotFound = errors.New("card not found")

const cardColumns = `id, board_list_id, invoice, first_name, last_name, description,
	position, checked, payment_done, dependant_payment_done, is_archived, due_date,
	country_label_id, intake_label_id, service_area_id, created_at, updated_at`

type CardRepository struct {
	pool *pgxpool.Pool
}

func NewCardRepository(pool *pgxpool.Pool) *CardRepository {
	return &CardRepository{pool: pool}
}

func scanCard(row pgx.Row) (models.BoardCard, error) {
	var card models.BoardCard
	if err := row.Scan(
		&card.ID,
		&card.BoardListID,
		&card.Invoice,
		&card.FirstName,
		&card.LastName,
		&card.Description,
		&card.Position,
		&card.Checked,
		&card.PaymentDone,
		&card.DependantPaymentDone,
		&card.IsArchived,
		&card.DueDate,
		&card.CountryLabelID,
		&card.IntakeLabelID,
		&card.ServiceAreaID,
		&card.CreatedAt,
		&card.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.BoardCard{}, ErrCardNotFound
		}
		return models.BoardCard{}, err
	}
	return card, nil
}

// NextPosition returns max(position)+gap for a list, the landing spot for a
// card created without an explicit position.
func (r *CardRepository) NextPosition(ctx context.Context, listID string) (int64, error) {
	const query = `SELECT COALESCE(MAX(position), 0) + $2 FROM board_cards WHERE board_list_id = $1`
	var position int64
	err := r.pool.QueryRow(ctx, query, listID, int64(models.PositionGap)).Scan(&position)
	return position, err
}

func (r *CardRepository) Create(ctx context.Context, card models.BoardCard) (models.BoardCard, error) {
	const query = `
		INSERT INTO board_cards (
			id, board_list_id, invoice, first_name, last_name, description, position,
			checked, payment_done, dependant_payment_done, is_archived, due_date,
			country_label_id, intake_label_id, service_area_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW()
		)
		RETURNING ` + cardColumns
	return scanCard(r.pool.QueryRow(ctx, query,
		card.ID,
		card.BoardListID,
		card.Invoice,
		card.FirstName,
		card.LastName,
		card.Description,
		card.Position,
		card.Checked,
		card.PaymentDone,
		card.DependantPaymentDone,
		card.IsArchived,
		card.DueDate,
		card.CountryLabelID,
		card.IntakeLabelID,
		card.ServiceAreaID,
	))
}

func (r *CardRepository) GetByID(ctx context.Context, id string) (models.BoardCard, error) {
	const query = `SELECT ` + cardColumns + ` FROM board_cards WHERE id = $1`
	return scanCard(r.pool.QueryRow(ctx, query, id))
}

// ListByList applies the read-side card filters: archived cards are always
// excluded, and unless the viewer bypasses member visibility a card must
// either have no members or count the viewer among them. Ordered by
// position ascending.
func (r *CardRepository) ListByList(ctx context.Context, listID string, viewerID string, bypassMembers bool) ([]models.BoardCard, error) {
	const query = `
		SELECT ` + cardColumns + `
		FROM board_cards c
		WHERE c.board_list_id = $1
		  AND c.is_archived = FALSE
		  AND (
		        $2
		     OR NOT EXISTS (SELECT 1 FROM board_card_members m WHERE m.board_card_id = c.id)
		     OR EXISTS (SELECT 1 FROM board_card_members m WHERE m.board_card_id = c.id AND m.user_id = $3)
		  )
		ORDER BY c.position, c.id
	`
	rows, err := r.pool.Query(ctx, query, listID, bypassMembers, viewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.BoardCard
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

func (r *CardRepository) UpdateIdentity(ctx context.Context, id string, firstName, lastName *string) error {
	const query = `
		UPDATE board_cards
		SET first_name = COALESCE($2, first_name),
		    last_name = COALESCE($3, last_name),
		    updated_at = NOW()
		WHERE id = $1
	`
	return r.exec(ctx, query, id, firstName, lastName)
}

func (r *CardRepository) UpdateDescription(ctx context.Context, id string, description string) error {
	const query = `UPDATE board_cards SET description = $2, updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, query, id, description)
}

func (r *CardRepository) SetDueDate(ctx context.Context, id string, dueDate *time.Time) error {
	const query = `UPDATE board_cards SET due_date = $2, updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, query, id, dueDate)
}

func (r *CardRepository) SetPaymentDone(ctx context.Context, id string, done bool) error {
	const query = `UPDATE board_cards SET payment_done = $2, updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, query, id, done)
}

func (r *CardRepository) SetDependantPaymentDone(ctx context.Context, id string, done bool) error {
	const query = `UPDATE board_cards SET dependant_payment_done = $2, updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, query, id, done)
}

func (r *CardRepository) SetChecked(ctx context.Context, id string, checked bool) error {
	const query = `UPDATE board_cards SET checked = $2, updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, query, id, checked)
}

func (r *CardRepository) SetArchived(ctx context.Context, id string, archived bool) error {
	const query = `UPDATE board_cards SET is_archived = $2, updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, query, id, archived)
}

func (r *CardRepository) SetLabels(ctx context.Context, id string, countryLabelID, intakeLabelID, serviceAreaID *string) error {
	const query = `
		UPDATE board_cards
		SET country_label_id = $2,
		    intake_label_id = $3,
		    service_area_id = $4,
		    updated_at = NOW()
		WHERE id = $1
	`
	return r.exec(ctx, query, id, countryLabelID, intakeLabelID, serviceAreaID)
}

// Move persists the new list and position in a single UPDATE; the caller
// has already validated that source and destination share a board.
func (r *CardRepository) Move(ctx context.Context, id string, toListID string, position int64) error {
	const query = `
		UPDATE board_cards
		SET board_list_id = $2, position = $3, updated_at = NOW()
		WHERE id = $1
	`
	return r.exec(ctx, query, id, toListID, position)
}

func (r *CardRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM board_cards WHERE id = $1`
	return r.exec(ctx, query, id)
}

func (r *CardRepository) exec(ctx context.Context, query string, args ...any) error {
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCardNotFound
	}
	return nil
}
