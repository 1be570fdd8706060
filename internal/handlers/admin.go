package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h HandlerSet) GetIPAllowlist(c *gin.Context) {
	allowlist, err := h.settingsService.IPAllowlist(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "get ip allowlist")
		return
	}
	if allowlist == nil {
		allowlist = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"ips": allowlist})
}

type allowlistRequest struct {
	IPs []string `json:"ips"`
}

// SetIPAllowlist replaces the admin login allowlist. An empty list
// disables the check.
func (h HandlerSet) SetIPAllowlist(c *gin.Context) {
	var req allowlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if err := h.settingsService.SetIPAllowlist(c.Request.Context(), req.IPs); err != nil {
		h.respondError(c, err, "set ip allowlist")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
