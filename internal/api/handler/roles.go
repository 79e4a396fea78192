package handler

import (
	"net/http"

	"groupmod/backend/internal/moderation"

	"github.com/gin-gonic/gin"
)

type addRoleRequest struct {
	SessionIDs []string `json:"session_ids" binding:"required"`
	Rooms      []string `json:"rooms" binding:"required"`
	Admin      bool     `json:"admin"`
	// Visibility is "", "visible", or "hidden". A single field instead of
	// two flags: requesting both at once cannot be expressed.
	Visibility string `json:"visibility"`
}

type removeRoleRequest struct {
	SessionIDs []string `json:"session_ids" binding:"required"`
	Rooms      []string `json:"rooms" binding:"required"`
}

func parseVisibility(s string) (moderation.Visibility, bool) {
	switch s {
	case "":
		return moderation.VisibilityDefault, true
	case "visible":
		return moderation.VisibilityVisible, true
	case "hidden":
		return moderation.VisibilityHidden, true
	}
	return moderation.VisibilityDefault, false
}

// AddRoles handles POST /roles: adds every session ID as moderator/admin of
// every room in the scope ("+" for global, "*" for all current rooms).
func (h *Handler) AddRoles(c *gin.Context) {
	var req addRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vis, ok := parseVisibility(req.Visibility)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "visibility must be 'visible' or 'hidden'"})
		return
	}

	report, err := h.Mod.AddRole(req.SessionIDs, req.Rooms, req.Admin, vis, actorFrom(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// RemoveRoles handles DELETE /roles: removes every session ID as moderator
// and admin from every room in the scope.
func (h *Handler) RemoveRoles(c *gin.Context) {
	var req removeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.Mod.RemoveRole(req.SessionIDs, req.Rooms, actorFrom(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// GlobalModerators handles GET /global-moderators.
func (h *Handler) GlobalModerators(c *gin.Context) {
	set, err := h.Storage.ListGlobalModerators()
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, set)
}

// BanUser handles POST /users/:sessionID/ban.
func (h *Handler) BanUser(c *gin.Context) {
	h.setBan(c, true)
}

// UnbanUser handles DELETE /users/:sessionID/ban.
func (h *Handler) UnbanUser(c *gin.Context) {
	h.setBan(c, false)
}

func (h *Handler) setBan(c *gin.Context, banned bool) {
	actor := actorFrom(c)

	var err error
	if banned {
		_, err = h.Mod.Ban(c.Param("sessionID"), actor)
	} else {
		_, err = h.Mod.Unban(c.Param("sessionID"), actor)
	}
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
