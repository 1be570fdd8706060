package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"caseboard/api/internal/authz"
	"caseboard/api/internal/ids"
	"caseboard/api/internal/models"
	"caseboard/api/internal/repository"
)

type CardService struct {
	cards    *repository.CardRepository
	lists    *repository.ListRepository
	boards   *repository.BoardRepository
	grants   *repository.GrantRepository
	invoices *repository.InvoiceRepository
	policy   *authz.Policy
	activity *ActivityService
	log      zerolog.Logger
}

func NewCardService(
	cards *repository.CardRepository,
	lists *repository.ListRepository,
	boards *repository.BoardRepository,
	grants *repository.GrantRepository,
	invoices *repository.InvoiceRepository,
	policy *authz.Policy,
	activity *ActivityService,
	log zerolog.Logger,
) *CardService {
	return &CardService{
		cards:    cards,
		lists:    lists,
		boards:   boards,
		grants:   grants,
		invoices: invoices,
		policy:   policy,
		activity: activity,
		log:      log,
	}
}

// FormatInvoice renders "INV" + two-digit year + zero-padded sequence,
// e.g. year 2025 seq 1 -> INV250001.
func FormatInvoice(year, seq int) string {
	return fmt.Sprintf("INV%02d%04d", year%100, seq)
}

type CreateCardInput struct {
	ListID      string
	FirstName   string
	LastName    string
	Description string
	// Position nil means append at the end of the list.
	Position *int64
	DueDate  *time.Time
}

func (s *CardService) CreateCard(ctx context.Context, actor models.User, input CreateCardInput) (models.BoardCard, error) {
	list, board, err := s.resolveList(ctx, input.ListID)
	if err != nil {
		return models.BoardCard{}, err
	}

	ok, err := s.policy.CanAccessList(ctx, actor, board, list)
	if err != nil {
		return models.BoardCard{}, err
	}
	if !ok {
		return models.BoardCard{}, ErrForbidden
	}

	year := time.Now().Year()
	seq, err := s.invoices.NextSequence(ctx, year)
	if err != nil {
		return models.BoardCard{}, fmt.Errorf("allocate invoice: %w", err)
	}

	position, err := s.placement(ctx, list.ID, input.Position)
	if err != nil {
		return models.BoardCard{}, err
	}

	card, err := s.cards.Create(ctx, models.BoardCard{
		ID:          ids.New(),
		BoardListID: list.ID,
		Invoice:     FormatInvoice(year, seq),
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Description: input.Description,
		Position:    position,
		DueDate:     input.DueDate,
	})
	if err != nil {
		return models.BoardCard{}, err
	}

	s.activity.Record(ctx, actor, &card.ID, &list.ID, "created card", card.FirstName+" "+card.LastName)
	return card, nil
}

// GetCard re-checks member visibility on direct access, not only on
// listing.
func (s *CardService) GetCard(ctx context.Context, actor models.User, cardID string) (models.BoardCard, error) {
	card, _, board, err := s.resolveCard(ctx, cardID)
	if err != nil {
		return models.BoardCard{}, err
	}

	ok, err := s.policy.CanAccessCard(ctx, actor, board, card)
	if err != nil {
		return models.BoardCard{}, err
	}
	if !ok {
		return models.BoardCard{}, ErrForbidden
	}

	memberIDs, err := s.grants.CardMemberIDs(ctx, card.ID)
	if err != nil {
		return models.BoardCard{}, err
	}
	card.MemberIDs = memberIDs
	return card, nil
}

type MoveCardInput struct {
	CardID   string
	ToListID string
	// Position nil means append at the end of the destination list.
	Position *int64
}

// moveGate applies the server-side rejection order for a move: cross-board
// first, then board access, then the payment gate. A caller without board
// access must get a denial, never a payment hint about a card it cannot
// see.
func moveGate(card models.BoardCard, src, dst models.BoardList, canAccess func() (bool, error)) error {
	if dst.BoardID != src.BoardID {
		return ErrCrossBoardMove
	}
	ok, err := canAccess()
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return validatePaymentGate(card, dst)
}

// validatePaymentGate: visa-category lists require the matching payment
// flag regardless of what the client UI already checked.
func validatePaymentGate(card models.BoardCard, dst models.BoardList) error {
	switch dst.Category {
	case models.CategoryVisa:
		if !card.PaymentDone {
			return ErrPaymentRequired
		}
	case models.CategoryDependantVisa:
		if !card.DependantPaymentDone {
			return ErrDependantPaymentRequired
		}
	}
	return nil
}

// MoveCard: load card and source list (404), destination list (404), reject
// cross-board (422), check board access against the source board (403),
// reject unpaid visa moves (422), persist list+position atomically, then
// log `moved card` with the from/to titles.
func (s *CardService) MoveCard(ctx context.Context, actor models.User, input MoveCardInput) (models.BoardCard, error) {
	card, srcList, board, err := s.resolveCard(ctx, input.CardID)
	if err != nil {
		return models.BoardCard{}, err
	}

	dstList, err := s.lists.GetByID(ctx, input.ToListID)
	if err != nil {
		return models.BoardCard{}, err
	}

	if err := moveGate(card, srcList, dstList, func() (bool, error) {
		return s.policy.CanAccessCard(ctx, actor, board, card)
	}); err != nil {
		return models.BoardCard{}, err
	}

	position, err := s.placement(ctx, dstList.ID, input.Position)
	if err != nil {
		return models.BoardCard{}, err
	}

	if err := s.cards.Move(ctx, card.ID, dstList.ID, position); err != nil {
		return models.BoardCard{}, err
	}

	s.activity.Record(ctx, actor, &card.ID, &dstList.ID, "moved card",
		fmt.Sprintf("from %q to %q", srcList.Title, dstList.Title))

	return s.cards.GetByID(ctx, card.ID)
}

type UpdateCardInput struct {
	FirstName *string
	LastName  *string
}

func (s *CardService) UpdateCard(ctx context.Context, actor models.User, cardID string, input UpdateCardInput) (models.BoardCard, error) {
	card, err := s.authorizeMutation(ctx, actor, cardID)
	if err != nil {
		return models.BoardCard{}, err
	}

	if err := s.cards.UpdateIdentity(ctx, card.ID, input.FirstName, input.LastName); err != nil {
		return models.BoardCard{}, err
	}

	s.activity.Record(ctx, actor, &card.ID, &card.BoardListID, "updated card", "")
	return s.cards.GetByID(ctx, card.ID)
}

// UpdateDescription logs a before/after transition so the UI can diff it.
func (s *CardService) UpdateDescription(ctx context.Context, actor models.User, cardID, description string) (models.BoardCard, error) {
	card, err := s.authorizeMutation(ctx, actor, cardID)
	if err != nil {
		return models.BoardCard{}, err
	}

	if err := s.cards.UpdateDescription(ctx, card.ID, description); err != nil {
		return models.BoardCard{}, err
	}

	s.activity.Record(ctx, actor, &card.ID, &card.BoardListID, "updated description",
		DescriptionTransition(card.Description, description))
	return s.cards.GetByID(ctx, card.ID)
}

// DescriptionTransition renders the quoted arrow format stored in activity
// details for description edits.
func DescriptionTransition(before, after string) string {
	return fmt.Sprintf("%q -> %q", before, after)
}

type SetLabelsInput struct {
	CountryLabelID *string
	IntakeLabelID  *string
	ServiceAreaID  *string
}

func (s *CardService) SetLabels(ctx context.Context, actor models.User, cardID string, input SetLabelsInput) (models.BoardCard, error) {
	card, err := s.authorizeMutation(ctx, actor, cardID)
	if err != nil {
		return models.BoardCard{}, err
	}

	if err := s.cards.SetLabels(ctx, card.ID, input.CountryLabelID, input.IntakeLabelID, input.ServiceAreaID); err != nil {
		return models.BoardCard{}, err
	}

	s.activity.Record(ctx, actor, &card.ID, &card.BoardListID, "updated labels", "")
	return s.cards.GetByID(ctx, card.ID)
}

func (s *CardService) SetDueDate(ctx context.Context, actor models.User, cardID string, dueDate *time.Time) (models.BoardCard, error) {
	card, err := s.authorizeMutation(ctx, actor, cardID)
	if err != nil {
		return models.BoardCard{}, err
	}

	if err := s.cards.SetDueDate(ctx, card.ID, dueDate); err != nil {
		return models.BoardCard{}, err
	}

	details := "cleared"
	if dueDate != nil {
		details = dueDate.Format("2006-01-02")
	}
	s.activity.Record(ctx, actor, &card.ID, &card.BoardListID, "updated due date", details)
	return s.cards.GetByID(ctx, card.ID)
}

func (s *CardService) SetPaymentDone(ctx context.Context, actor models.User, cardID string, done bool) (models.BoardCard, error) {
	return s.setFlag(ctx, actor, cardID, "payment", done, s.cards.SetPaymentDone)
}

func (s *CardService) SetDependantPaymentDone(ctx context.Context, actor models.User, cardID string, done bool) (models.BoardCard, error) {
	return s.setFlag(ctx, actor, cardID, "dependant payment", done, s.cards.SetDependantPaymentDone)
}

func (s *CardService) SetChecked(ctx context.Context, actor models.User, cardID string, checked bool) (models.BoardCard, error) {
	return s.setFlag(ctx, actor, cardID, "checked", checked, s.cards.SetChecked)
}

func (s *CardService) SetArchived(ctx context.Context, actor models.User, cardID string, archived bool) (models.BoardCard, error) {
	card, err := s.authorizeMutation(ctx, actor, cardID)
	if err != nil {
		return models.BoardCard{}, err
	}

	if err := s.cards.SetArchived(ctx, card.ID, archived); err != nil {
		return models.BoardCard{}, err
	}

	action := "archived card"
	if !archived {
		action = "restored card"
	}
	s.activity.Record(ctx, actor, &card.ID, &card.BoardListID, action, "")
	return s.cards.GetByID(ctx, card.ID)
}

func (s *CardService) setFlag(
	ctx context.Context,
	actor models.User,
	cardID string,
	name string,
	value bool,
	persist func(context.Context, string, bool) error,
) (models.BoardCard, error) {
	card, err := s.authorizeMutation(ctx, actor, cardID)
	if err != nil {
		return models.BoardCard{}, err
	}

	if err := persist(ctx, card.ID, value); err != nil {
		return models.BoardCard{}, err
	}

	s.activity.Record(ctx, actor, &card.ID, &card.BoardListID,
		fmt.Sprintf("updated %s", name), fmt.Sprintf("%t", value))
	return s.cards.GetByID(ctx, card.ID)
}

func (s *CardService) SyncMembers(ctx context.Context, actor models.User, cardID string, memberIDs []string) (models.BoardCard, error) {
	card, err := s.authorizeMutation(ctx, actor, cardID)
	if err != nil {
		return models.BoardCard{}, err
	}

	if err := s.grants.SyncCardMembers(ctx, card.ID, memberIDs); err != nil {
		return models.BoardCard{}, err
	}

	s.activity.Record(ctx, actor, &card.ID, &card.BoardListID, "updated members", "")
	return s.GetCard(ctx, actor, card.ID)
}

func (s *CardService) DeleteCard(ctx context.Context, actor models.User, cardID string) error {
	card, err := s.authorizeMutation(ctx, actor, cardID)
	if err != nil {
		return err
	}
	if err := s.cards.Delete(ctx, card.ID); err != nil {
		return err
	}
	s.activity.Record(ctx, actor, &card.ID, &card.BoardListID, "deleted card", card.Invoice)
	return nil
}

func (s *CardService) ListActivities(ctx context.Context, actor models.User, cardID string, limit, offset int) ([]models.Activity, error) {
	card, _, board, err := s.resolveCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	ok, err := s.policy.CanAccessCard(ctx, actor, board, card)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}
	return s.activity.ListByCard(ctx, cardID, limit, offset)
}

// Comment resolves and authorizes the card, then delegates to the activity
// service (which owns the attachment upload).
func (s *CardService) AuthorizeComment(ctx context.Context, actor models.User, cardID string) (models.BoardCard, error) {
	card, _, board, err := s.resolveCard(ctx, cardID)
	if err != nil {
		return models.BoardCard{}, err
	}
	ok, err := s.policy.CanAccessCard(ctx, actor, board, card)
	if err != nil {
		return models.BoardCard{}, err
	}
	if !ok {
		return models.BoardCard{}, ErrForbidden
	}
	return card, nil
}

func (s *CardService) authorizeMutation(ctx context.Context, actor models.User, cardID string) (models.BoardCard, error) {
	card, _, board, err := s.resolveCard(ctx, cardID)
	if err != nil {
		return models.BoardCard{}, err
	}
	ok, err := s.policy.CanAccessCard(ctx, actor, board, card)
	if err != nil {
		return models.BoardCard{}, err
	}
	if !ok {
		return models.BoardCard{}, ErrForbidden
	}
	return card, nil
}

// placement honors an explicit position, including zero; only an absent
// one appends at the end of the list.
func (s *CardService) placement(ctx context.Context, listID string, requested *int64) (int64, error) {
	if requested != nil {
		return *requested, nil
	}
	return s.cards.NextPosition(ctx, listID)
}

func (s *CardService) resolveList(ctx context.Context, listID string) (models.BoardList, models.Board, error) {
	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return models.BoardList{}, models.Board{}, err
	}
	board, err := s.boards.GetByID(ctx, list.BoardID)
	if err != nil {
		return models.BoardList{}, models.Board{}, err
	}
	return list, board, nil
}

func (s *CardService) resolveCard(ctx context.Context, cardID string) (models.BoardCard, models.BoardList, models.Board, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return models.BoardCard{}, models.BoardList{}, models.Board{}, err
	}
	list, board, err := s.resolveList(ctx, card.BoardListID)
	if err != nil {
		return models.BoardCard{}, models.BoardList{}, models.Board{}, err
	}
	return card, list, board, nil
}
