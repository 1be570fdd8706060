package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"caseboard/api/internal/models"
	"caseboard/api/internal/repository"
	"caseboard/api/internal/service"
)

func currentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get("current_user")
	if !exists {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return models.User{}, false
	}
	user, ok := userVal.(models.User)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_user"})
		return models.User{}, false
	}
	return user, true
}

// pagination reads perPage/page query params, clamping perPage to 200.
func pagination(c *gin.Context) (limit, offset int) {
	limit = 50
	offset = 0

	if perPage := c.Query("perPage"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if page := c.Query("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 1 {
			offset = (v - 1) * limit
		}
	}
	return limit, offset
}

// respondError maps domain errors onto the REST taxonomy: 403 for denials,
// 404 for missing entities, 422 for business-rule rejections, 500 with a
// generic body for everything else.
func (h HandlerSet) respondError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case service.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrCrossBoardMove),
		errors.Is(err, service.ErrPaymentRequired),
		errors.Is(err, service.ErrDependantPaymentRequired),
		errors.Is(err, repository.ErrDuplicateLookup):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg(logMsg)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
