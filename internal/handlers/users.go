package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"caseboard/api/internal/ids"
	"caseboard/api/internal/models"
	"caseboard/api/internal/security"
)

func (h HandlerSet) ListUsers(c *gin.Context) {
	limit, offset := pagination(c)
	users, err := h.users.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondError(c, err, "list users")
		return
	}

	items := make([]userResponse, 0, len(users))
	for _, user := range users {
		items = append(items, toUserResponse(user))
	}
	c.JSON(http.StatusOK, gin.H{"users": items})
}

type createUserRequest struct {
	Email          string  `json:"email" binding:"required,email"`
	Password       string  `json:"password" binding:"required,min=8"`
	FirstName      string  `json:"firstName" binding:"required"`
	LastName       string  `json:"lastName" binding:"required"`
	RoleID         int     `json:"roleId" binding:"required,min=1,max=4"`
	CanCreateUsers bool    `json:"canCreateUsers"`
	AllowedIPs     *string `json:"allowedIps"`
}

// CreateUser requires either the superadmin role or an admin with the
// can_create_users flag. Admins cannot mint superadmins.
func (h HandlerSet) CreateUser(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if actor.RoleID != models.RoleSuperAdmin {
		if !actor.CanCreateUsers || req.RoleID <= actor.RoleID {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		h.log.Error().Err(err).Msg("hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	user := models.User{
		ID:             ids.New(),
		Email:          req.Email,
		PasswordHash:   hash,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		RoleID:         req.RoleID,
		CanCreateUsers: req.CanCreateUsers,
		AllowedIPs:     req.AllowedIPs,
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		h.respondError(c, err, "create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": toUserResponse(user)})
}

// GetUser includes the user's grant id lists so the admin panel can
// render the assignment pickers without extra round trips.
func (h HandlerSet) GetUser(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := h.users.GetByID(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "get user")
		return
	}

	cityIDs, err := h.grants.CityIDsForUser(ctx, user.ID)
	if err != nil {
		h.respondError(c, err, "get user cities")
		return
	}
	boardIDs, err := h.grants.BoardIDsForUser(ctx, user.ID)
	if err != nil {
		h.respondError(c, err, "get user boards")
		return
	}
	listIDs, err := h.grants.ListIDsForUser(ctx, user.ID)
	if err != nil {
		h.respondError(c, err, "get user lists")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     toUserResponse(user),
		"cityIds":  emptyIfNil(cityIDs),
		"boardIds": emptyIfNil(boardIDs),
		"listIds":  emptyIfNil(listIDs),
	})
}

type syncIDsRequest struct {
	IDs []string `json:"ids"`
}

func (h HandlerSet) SyncUserCities(c *gin.Context) {
	h.syncUserGrants(c, h.grants.SyncCities)
}

func (h HandlerSet) SyncUserBoards(c *gin.Context) {
	h.syncUserGrants(c, h.grants.SyncBoards)
}

func (h HandlerSet) SyncUserLists(c *gin.Context) {
	h.syncUserGrants(c, h.grants.SyncLists)
}

func (h HandlerSet) syncUserGrants(c *gin.Context, sync func(ctx context.Context, userID string, ids []string) error) {
	var req syncIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	userID := c.Param("id")
	if _, err := h.users.GetByID(c.Request.Context(), userID); err != nil {
		h.respondError(c, err, "sync user grants")
		return
	}

	if err := sync(c.Request.Context(), userID, req.IDs); err != nil {
		h.respondError(c, err, "sync user grants")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h HandlerSet) ToggleUserPermission(c *gin.Context) {
	user, err := h.users.TogglePanelPermission(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "toggle user permission")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

func emptyIfNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
