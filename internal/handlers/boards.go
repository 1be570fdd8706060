package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"caseboard/api/internal/models"
)

type boardResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CityID    *string   `json:"cityId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toBoardResponse(board models.Board) boardResponse {
	return boardResponse{
		ID:        board.ID,
		Name:      board.Name,
		CityID:    board.CityID,
		CreatedAt: board.CreatedAt,
		UpdatedAt: board.UpdatedAt,
	}
}

type listResponse struct {
	ID       string         `json:"id"`
	BoardID  string         `json:"boardId"`
	Title    string         `json:"title"`
	Category int            `json:"category"`
	Position int64          `json:"position"`
	Cards    []cardResponse `json:"cards,omitempty"`
}

func toListResponse(list models.BoardList) listResponse {
	resp := listResponse{
		ID:       list.ID,
		BoardID:  list.BoardID,
		Title:    list.Title,
		Category: int(list.Category),
		Position: list.Position,
	}
	for _, card := range list.Cards {
		resp.Cards = append(resp.Cards, toCardResponse(card))
	}
	return resp
}

func (h HandlerSet) ListBoards(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	boards, err := h.boardService.ListBoards(c.Request.Context(), user)
	if err != nil {
		h.respondError(c, err, "list boards")
		return
	}

	items := make([]boardResponse, 0, len(boards))
	for _, board := range boards {
		items = append(items, toBoardResponse(board))
	}
	c.JSON(http.StatusOK, gin.H{"boards": items})
}

// GetBoard returns the board with its visible lists and cards, filtered
// per the caller's role and grants.
func (h HandlerSet) GetBoard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	view, err := h.boardService.GetBoardView(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "get board")
		return
	}

	lists := make([]listResponse, 0, len(view.Lists))
	for _, list := range view.Lists {
		lists = append(lists, toListResponse(list))
	}

	c.JSON(http.StatusOK, gin.H{
		"board": toBoardResponse(view.Board),
		"lists": lists,
	})
}

// ListBoardLists returns the same filtered view as GetBoard, lists only.
func (h HandlerSet) ListBoardLists(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	view, err := h.boardService.GetBoardView(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "list board lists")
		return
	}

	lists := make([]listResponse, 0, len(view.Lists))
	for _, list := range view.Lists {
		lists = append(lists, toListResponse(list))
	}
	c.JSON(http.StatusOK, gin.H{"lists": lists})
}

type boardRequest struct {
	Name   string  `json:"name" binding:"required"`
	CityID *string `json:"cityId"`
}

func (h HandlerSet) CreateBoard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req boardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	board, err := h.boardService.CreateBoard(c.Request.Context(), user, req.Name, req.CityID)
	if err != nil {
		h.respondError(c, err, "create board")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"board": toBoardResponse(board)})
}

func (h HandlerSet) UpdateBoard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req boardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	board, err := h.boardService.UpdateBoard(c.Request.Context(), user, c.Param("id"), req.Name, req.CityID)
	if err != nil {
		h.respondError(c, err, "update board")
		return
	}

	c.JSON(http.StatusOK, gin.H{"board": toBoardResponse(board)})
}

func (h HandlerSet) DeleteBoard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.boardService.DeleteBoard(c.Request.Context(), user, c.Param("id")); err != nil {
		h.respondError(c, err, "delete board")
		return
	}
	c.Status(http.StatusNoContent)
}

type createListRequest struct {
	Title    string `json:"title" binding:"required"`
	Category int    `json:"category" binding:"min=0,max=2"`
}

func (h HandlerSet) CreateList(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	list, err := h.boardService.CreateList(c.Request.Context(), user, c.Param("id"), req.Title, models.ListCategory(req.Category))
	if err != nil {
		h.respondError(c, err, "create list")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"list": toListResponse(list)})
}

type updateListRequest struct {
	Title    *string `json:"title"`
	Category *int    `json:"category" binding:"omitempty,min=0,max=2"`
	Position *int64  `json:"position"`
}

func (h HandlerSet) UpdateList(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req updateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	var category *models.ListCategory
	if req.Category != nil {
		v := models.ListCategory(*req.Category)
		category = &v
	}

	list, err := h.boardService.UpdateList(c.Request.Context(), user, c.Param("id"), req.Title, category, req.Position)
	if err != nil {
		h.respondError(c, err, "update list")
		return
	}

	c.JSON(http.StatusOK, gin.H{"list": toListResponse(list)})
}

func (h HandlerSet) DeleteList(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.boardService.DeleteList(c.Request.Context(), user, c.Param("id")); err != nil {
		h.respondError(c, err, "delete list")
		return
	}
	c.Status(http.StatusNoContent)
}
