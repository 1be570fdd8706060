package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"caseboard/api/internal/models"
)

type activityResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	UserName       string    `json:"userName"`
	CardID         *string   `json:"cardId,omitempty"`
	ListID         *string   `json:"listId,omitempty"`
	Action         string    `json:"action"`
	Details        string    `json:"details"`
	AttachmentName *string   `json:"attachmentName,omitempty"`
	AttachmentKey  *string   `json:"attachmentKey,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toActivityResponse(activity models.Activity) activityResponse {
	return activityResponse{
		ID:             activity.ID,
		UserID:         activity.UserID,
		UserName:       activity.UserName,
		CardID:         activity.CardID,
		ListID:         activity.ListID,
		Action:         activity.Action,
		Details:        activity.Details,
		AttachmentName: activity.AttachmentName,
		AttachmentKey:  activity.AttachmentKey,
		CreatedAt:      activity.CreatedAt,
	}
}

func (h HandlerSet) ListCardActivities(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	limit, offset := pagination(c)
	activities, err := h.cardService.ListActivities(c.Request.Context(), user, c.Param("id"), limit, offset)
	if err != nil {
		h.respondError(c, err, "list activities")
		return
	}

	items := make([]activityResponse, 0, len(activities))
	for _, activity := range activities {
		items = append(items, toActivityResponse(activity))
	}
	c.JSON(http.StatusOK, gin.H{"activities": items})
}

// CommentOnCard accepts multipart form data: a "body" field and an
// optional "file" attachment stored in the object store.
func (h HandlerSet) CommentOnCard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	card, err := h.cardService.AuthorizeComment(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "comment on card")
		return
	}

	body := c.PostForm("body")
	file, header, fileErr := c.Request.FormFile("file")
	if fileErr != nil {
		file, header = nil, nil
	} else {
		defer file.Close()
	}

	if body == "" && file == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "comment body or file required"})
		return
	}

	activity, err := h.activityService.Comment(c.Request.Context(), user, card, body, file, header)
	if err != nil {
		h.log.Error().Err(err).Str("card_id", card.ID).Msg("comment failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"activity": toActivityResponse(activity)})
}
