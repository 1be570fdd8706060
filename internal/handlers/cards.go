package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"caseboard/api/internal/models"
	"caseboard/api/internal/service"
)

type cardResponse struct {
	ID                   string     `json:"id"`
	BoardListID          string     `json:"boardListId"`
	Invoice              string     `json:"invoice"`
	FirstName            string     `json:"firstName"`
	LastName             string     `json:"lastName"`
	Description          string     `json:"description"`
	Position             int64      `json:"position"`
	Checked              bool       `json:"checked"`
	PaymentDone          bool       `json:"paymentDone"`
	DependantPaymentDone bool       `json:"dependantPaymentDone"`
	IsArchived           bool       `json:"isArchived"`
	DueDate              *time.Time `json:"dueDate,omitempty"`
	CountryLabelID       *string    `json:"countryLabelId,omitempty"`
	IntakeLabelID        *string    `json:"intakeLabelId,omitempty"`
	ServiceAreaID        *string    `json:"serviceAreaId,omitempty"`
	MemberIDs            []string   `json:"memberIds,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
}

func toCardResponse(card models.BoardCard) cardResponse {
	return cardResponse{
		ID:                   card.ID,
		BoardListID:          card.BoardListID,
		Invoice:              card.Invoice,
		FirstName:            card.FirstName,
		LastName:             card.LastName,
		Description:          card.Description,
		Position:             card.Position,
		Checked:              card.Checked,
		PaymentDone:          card.PaymentDone,
		DependantPaymentDone: card.DependantPaymentDone,
		IsArchived:           card.IsArchived,
		DueDate:              card.DueDate,
		CountryLabelID:       card.CountryLabelID,
		IntakeLabelID:        card.IntakeLabelID,
		ServiceAreaID:        card.ServiceAreaID,
		MemberIDs:            card.MemberIDs,
		CreatedAt:            card.CreatedAt,
	}
}

func (h HandlerSet) ListCards(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	cards, err := h.boardService.ListCards(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "list cards")
		return
	}

	items := make([]cardResponse, 0, len(cards))
	for _, card := range cards {
		items = append(items, toCardResponse(card))
	}
	c.JSON(http.StatusOK, gin.H{"cards": items})
}

type createCardRequest struct {
	FirstName   string     `json:"firstName" binding:"required"`
	LastName    string     `json:"lastName" binding:"required"`
	Description string     `json:"description"`
	Position    *int64     `json:"position"`
	DueDate     *time.Time `json:"dueDate"`
}

func (h HandlerSet) CreateCard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	card, err := h.cardService.CreateCard(c.Request.Context(), user, service.CreateCardInput{
		ListID:      c.Param("id"),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Description: req.Description,
		Position:    req.Position,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.respondError(c, err, "create card")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"card": toCardResponse(card)})
}

func (h HandlerSet) GetCard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	card, err := h.cardService.GetCard(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "get card")
		return
	}
	c.JSON(http.StatusOK, gin.H{"card": toCardResponse(card)})
}

type updateCardRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

func (h HandlerSet) UpdateCard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req updateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	card, err := h.cardService.UpdateCard(c.Request.Context(), user, c.Param("id"), service.UpdateCardInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.respondError(c, err, "update card")
		return
	}
	c.JSON(http.StatusOK, gin.H{"card": toCardResponse(card)})
}

func (h HandlerSet) DeleteCard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.cardService.DeleteCard(c.Request.Context(), user, c.Param("id")); err != nil {
		h.respondError(c, err, "delete card")
		return
	}
	c.Status(http.StatusNoContent)
}

type moveCardRequest struct {
	CardID   string `json:"card_id" binding:"required"`
	ToListID string `json:"to_list_id" binding:"required"`
	Position *int64 `json:"position"`
}

func (h HandlerSet) MoveCard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req moveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	card, err := h.cardService.MoveCard(c.Request.Context(), user, service.MoveCardInput{
		CardID:   req.CardID,
		ToListID: req.ToListID,
		Position: req.Position,
	})
	if err != nil {
		h.respondError(c, err, "move card")
		return
	}
	c.JSON(http.StatusOK, gin.H{"card": toCardResponse(card)})
}

type setLabelsRequest struct {
	CountryLabelID *string `json:"countryLabelId"`
	IntakeLabelID  *string `json:"intakeLabelId"`
	ServiceAreaID  *string `json:"serviceAreaId"`
}

func (h HandlerSet) SetCardLabels(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req setLabelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	card, err := h.cardService.SetLabels(c.Request.Context(), user, c.Param("id"), service.SetLabelsInput{
		CountryLabelID: req.CountryLabelID,
		IntakeLabelID:  req.IntakeLabelID,
		ServiceAreaID:  req.ServiceAreaID,
	})
	if err != nil {
		h.respondError(c, err, "set card labels")
		return
	}
	c.JSON(http.StatusOK, gin.H{"card": toCardResponse(card)})
}

type dueDateRequest struct {
	DueDate *time.Time `json:"dueDate"`
}

func (h HandlerSet) SetCardDueDate(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req dueDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	card, err := h.cardService.SetDueDate(c.Request.Context(), user, c.Param("id"), req.DueDate)
	if err != nil {
		h.respondError(c, err, "set card due date")
		return
	}
	c.JSON(http.StatusOK, gin.H{"card": toCardResponse(card)})
}

type flagRequest struct {
	Value *bool `json:"value" binding:"required"`
}

func (h HandlerSet) SetCardPayment(c *gin.Context) {
	h.setCardFlag(c, h.cardService.SetPaymentDone)
}

func (h HandlerSet) SetCardDependantPayment(c *gin.Context) {
	h.setCardFlag(c, h.cardService.SetDependantPaymentDone)
}

func (h HandlerSet) SetCardChecked(c *gin.Context) {
	h.setCardFlag(c, h.cardService.SetChecked)
}

func (h HandlerSet) SetCardArchived(c *gin.Context) {
	h.setCardFlag(c, h.cardService.SetArchived)
}

type descriptionRequest struct {
	Description string `json:"description"`
}

func (h HandlerSet) SetCardDescription(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req descriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	card, err := h.cardService.UpdateDescription(c.Request.Context(), user, c.Param("id"), req.Description)
	if err != nil {
		h.respondError(c, err, "set card description")
		return
	}
	c.JSON(http.StatusOK, gin.H{"card": toCardResponse(card)})
}

type membersRequest struct {
	MemberIDs []string `json:"memberIds"`
}

func (h HandlerSet) SetCardMembers(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req membersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	card, err := h.cardService.SyncMembers(c.Request.Context(), user, c.Param("id"), req.MemberIDs)
	if err != nil {
		h.respondError(c, err, "set card members")
		return
	}
	c.JSON(http.StatusOK, gin.H{"card": toCardResponse(card)})
}

func (h HandlerSet) setCardFlag(
	c *gin.Context,
	set func(ctx context.Context, user models.User, cardID string, value bool) (models.BoardCard, error),
) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req flagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	card, err := set(c.Request.Context(), user, c.Param("id"), *req.Value)
	if err != nil {
		h.respondError(c, err, "set card flag")
		return
	}
	c.JSON(http.StatusOK, gin.H{"card": toCardResponse(card)})
}
