package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"caseboard/api/internal/authz"
	"caseboard/api/internal/ids"
	"caseboard/api/internal/models"
	"caseboard/api/internal/repository"
)

// BoardService owns board/list structure and the read-side visibility
// composition: which lists and cards a principal sees when opening a board.
type BoardService struct {
	boards   *repository.BoardRepository
	lists    *repository.ListRepository
	cards    *repository.CardRepository
	policy   *authz.Policy
	activity *ActivityService
	log      zerolog.Logger
}

func NewBoardService(
	boards *repository.BoardRepository,
	lists *repository.ListRepository,
	cards *repository.CardRepository,
	policy *authz.Policy,
	activity *ActivityService,
	log zerolog.Logger,
) *BoardService {
	return &BoardService{
		boards:   boards,
		lists:    lists,
		cards:    cards,
		policy:   policy,
		activity: activity,
		log:      log,
	}
}

// ListBoards filters rather than rejects: superadmins see everything,
// everyone else sees granted boards minus commission boards.
func (s *BoardService) ListBoards(ctx context.Context, actor models.User) ([]models.Board, error) {
	if actor.RoleID == models.RoleSuperAdmin {
		return s.boards.ListAll(ctx)
	}

	granted, err := s.boards.ListForUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	boards := granted[:0]
	for _, board := range granted {
		if !authz.IsCommissionBoard(board.Name) {
			boards = append(boards, board)
		}
	}
	return boards, nil
}

// BoardView is a board with its visible lists and their visible cards, both
// ordered by position ascending.
type BoardView struct {
	Board models.Board
	Lists []models.BoardList
}

// GetBoardView applies, in order: list membership filter (unless
// superadmin), card archival filter, card member-visibility filter (unless
// superadmin/admin), position ordering.
func (s *BoardService) GetBoardView(ctx context.Context, actor models.User, boardID string) (BoardView, error) {
	board, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		return BoardView{}, err
	}

	ok, err := s.policy.CanAccessBoard(ctx, actor, board)
	if err != nil {
		return BoardView{}, err
	}
	if !ok {
		return BoardView{}, ErrForbidden
	}

	listFilter := actor.ID
	if actor.RoleID == models.RoleSuperAdmin {
		listFilter = ""
	}
	lists, err := s.lists.ListByBoard(ctx, boardID, listFilter)
	if err != nil {
		return BoardView{}, err
	}

	bypass := authz.BypassesMemberVisibility(actor.RoleID)
	for i := range lists {
		cards, err := s.cards.ListByList(ctx, lists[i].ID, actor.ID, bypass)
		if err != nil {
			return BoardView{}, err
		}
		lists[i].Cards = cards
	}

	return BoardView{Board: board, Lists: lists}, nil
}

func (s *BoardService) GetBoard(ctx context.Context, actor models.User, boardID string) (models.Board, error) {
	board, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		return models.Board{}, err
	}
	ok, err := s.policy.CanAccessBoard(ctx, actor, board)
	if err != nil {
		return models.Board{}, err
	}
	if !ok {
		return models.Board{}, ErrForbidden
	}
	return board, nil
}

func (s *BoardService) CreateBoard(ctx context.Context, actor models.User, name string, cityID *string) (models.Board, error) {
	if !authz.CanMutateBoard(actor) {
		return models.Board{}, ErrForbidden
	}

	board := models.Board{
		ID:     ids.New(),
		Name:   name,
		CityID: cityID,
	}
	if err := s.boards.Create(ctx, board); err != nil {
		return models.Board{}, err
	}

	s.activity.Record(ctx, actor, nil, nil, "created board", board.Name)
	return s.boards.GetByID(ctx, board.ID)
}

func (s *BoardService) UpdateBoard(ctx context.Context, actor models.User, boardID, name string, cityID *string) (models.Board, error) {
	if !authz.CanMutateBoard(actor) {
		return models.Board{}, ErrForbidden
	}
	if err := s.boards.Update(ctx, boardID, name, cityID); err != nil {
		return models.Board{}, err
	}
	s.activity.Record(ctx, actor, nil, nil, "updated board", name)
	return s.boards.GetByID(ctx, boardID)
}

func (s *BoardService) DeleteBoard(ctx context.Context, actor models.User, boardID string) error {
	if !authz.CanMutateBoard(actor) {
		return ErrForbidden
	}
	return s.boards.Delete(ctx, boardID)
}

func (s *BoardService) CreateList(ctx context.Context, actor models.User, boardID, title string, category models.ListCategory) (models.BoardList, error) {
	if !authz.CanMutateBoard(actor) {
		return models.BoardList{}, ErrForbidden
	}

	board, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		return models.BoardList{}, err
	}

	list, err := s.lists.Create(ctx, models.BoardList{
		ID:       ids.New(),
		BoardID:  board.ID,
		Title:    title,
		Category: authz.ForceListCategory(board.Name, category),
	})
	if err != nil {
		return models.BoardList{}, err
	}

	s.activity.Record(ctx, actor, nil, &list.ID, "created list", list.Title)
	return list, nil
}

func (s *BoardService) UpdateList(ctx context.Context, actor models.User, listID string, title *string, category *models.ListCategory, position *int64) (models.BoardList, error) {
	if !authz.CanMutateBoard(actor) {
		return models.BoardList{}, ErrForbidden
	}

	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return models.BoardList{}, err
	}

	if category != nil {
		board, err := s.boards.GetByID(ctx, list.BoardID)
		if err != nil {
			return models.BoardList{}, err
		}
		forced := authz.ForceListCategory(board.Name, *category)
		category = &forced
	}

	if err := s.lists.Update(ctx, listID, title, category, position); err != nil {
		return models.BoardList{}, err
	}

	updated, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return models.BoardList{}, err
	}
	s.activity.Record(ctx, actor, nil, &updated.ID, "updated list", updated.Title)
	return updated, nil
}

func (s *BoardService) DeleteList(ctx context.Context, actor models.User, listID string) error {
	if !authz.CanMutateBoard(actor) {
		return ErrForbidden
	}
	return s.lists.Delete(ctx, listID)
}

// ListCards serves the list-scoped card index with the same member
// filtering as the board view. Board access is still a hard requirement.
func (s *BoardService) ListCards(ctx context.Context, actor models.User, listID string) ([]models.BoardCard, error) {
	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	board, err := s.boards.GetByID(ctx, list.BoardID)
	if err != nil {
		return nil, err
	}

	ok, err := s.policy.CanAccessList(ctx, actor, board, list)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	return s.cards.ListByList(ctx, listID, actor.ID, authz.BypassesMemberVisibility(actor.RoleID))
}

// IsNotFound folds the repository sentinels handlers care about.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrBoardNotFound) ||
		errors.Is(err, repository.ErrListNotFound) ||
		errors.Is(err, repository.ErrCardNotFound) ||
		errors.Is(err, repository.ErrUserNotFound) ||
		errors.Is(err, repository.ErrLookupNotFound)
}
