package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"caseboard/api/internal/ids"
	"caseboard/api/internal/models"
	"caseboard/api/internal/repository"
)

type labelResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type labelRequest struct {
	Name string `json:"name" binding:"required"`
}

// registerLookup wires the shared CRUD for the name-keyed tables
// (country labels, intake labels, service areas, cities). Mutations are
// gated to superadmins and admins; reads are open to any authenticated
// user.
func (h HandlerSet) registerLookup(group *gin.RouterGroup, repo *repository.LookupRepository) {
	group.GET("", func(c *gin.Context) {
		labels, err := repo.List(c.Request.Context())
		if err != nil {
			h.respondError(c, err, "list lookup")
			return
		}
		items := make([]labelResponse, 0, len(labels))
		for _, label := range labels {
			items = append(items, labelResponse{ID: label.ID, Name: label.Name})
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	})

	group.POST("", func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		if user.RoleID != models.RoleSuperAdmin && user.RoleID != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		var req labelRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		label, err := repo.Create(c.Request.Context(), ids.New(), req.Name)
		if err != nil {
			h.respondError(c, err, "create lookup")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"item": labelResponse{ID: label.ID, Name: label.Name}})
	})

	group.PUT("/:id", func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		if user.RoleID != models.RoleSuperAdmin && user.RoleID != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		var req labelRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		if err := repo.Rename(c.Request.Context(), c.Param("id"), req.Name); err != nil {
			h.respondError(c, err, "rename lookup")
			return
		}
		c.JSON(http.StatusOK, gin.H{"item": labelResponse{ID: c.Param("id"), Name: req.Name}})
	})

	group.DELETE("/:id", func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		if user.RoleID != models.RoleSuperAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		if err := repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
			h.respondError(c, err, "delete lookup")
			return
		}
		c.Status(http.StatusNoContent)
	})
}

type roleResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ListRoles is a read-only enumeration; the role table is fixed.
func (h HandlerSet) ListRoles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"roles": []roleResponse{
		{ID: models.RoleSuperAdmin, Name: "Super Admin"},
		{ID: models.RoleAdmin, Name: "Admin"},
		{ID: models.RoleCounsellor, Name: "Counsellor"},
		{ID: models.RoleViewer, Name: "Viewer"},
	}})
}
