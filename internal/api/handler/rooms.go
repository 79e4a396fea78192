package handler

import (
	"net/http"
	"strconv"
	"time"

	"groupmod/backend/internal/identity"
	"groupmod/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type createRoomRequest struct {
	Token       string `json:"token" binding:"required"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type roomView struct {
	models.Room
	Stats      *models.RoomStats    `json:"stats"`
	Moderators *models.ModeratorSet `json:"moderators"`
}

// CreateRoom handles POST /rooms.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := identity.ParseRoomToken(req.Token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room tokens may only contain a-z, A-Z, 0-9, _, and - characters"})
		return
	}

	actor := actorFrom(c)
	room, err := h.Storage.CreateRoom(token, req.Name, req.Description, actor.ActorID())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	h.publish(models.ModerationEvent{
		Type:      models.EventRoomCreated,
		RoomToken: room.Token,
		Actor:     actor.ActorID(),
		At:        time.Now(),
	})
	c.JSON(http.StatusCreated, room)
}

// DeleteRoom handles DELETE /rooms/:token. The cascade removes the room's
// messages, attachments, and moderation entries with it.
func (h *Handler) DeleteRoom(c *gin.Context) {
	token := c.Param("token")
	actor := actorFrom(c)

	if err := h.Storage.DeleteRoom(token, actor.ActorID()); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	h.publish(models.ModerationEvent{
		Type:      models.EventRoomDeleted,
		RoomToken: token,
		Actor:     actor.ActorID(),
		At:        time.Now(),
	})
	c.Status(http.StatusNoContent)
}

// ListRooms handles GET /rooms: every room with its statistics and moderator
// partitions.
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.Storage.ListRooms()
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	views := make([]roomView, 0, len(rooms))
	for _, room := range rooms {
		stats, err := h.Storage.RoomStats(room.Token)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		mods, err := h.Storage.ListRoomModerators(room.Token)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		views = append(views, roomView{Room: room, Stats: stats, Moderators: mods})
	}
	c.JSON(http.StatusOK, gin.H{"rooms": views})
}

// RoomModerators handles GET /rooms/:token/moderators.
func (h *Handler) RoomModerators(c *gin.Context) {
	mods, err := h.Storage.ListRoomModerators(c.Param("token"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, mods)
}

type pinRequest struct {
	MessageID int64 `json:"message_id" binding:"required"`
}

// PinMessage handles POST /rooms/:token/pins.
func (h *Handler) PinMessage(c *gin.Context) {
	var req pinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := actorFrom(c)
	if err := h.Storage.PinMessage(c.Param("token"), req.MessageID, actor.ActorID()); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	h.publish(models.ModerationEvent{
		Type:      models.EventMessagePinned,
		RoomToken: c.Param("token"),
		Actor:     actor.ActorID(),
		At:        time.Now(),
	})
	c.Status(http.StatusNoContent)
}

// UnpinMessage handles DELETE /rooms/:token/pins/:id.
func (h *Handler) UnpinMessage(c *gin.Context) {
	messageID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message id must be an integer"})
		return
	}

	actor := actorFrom(c)
	if err := h.Storage.UnpinMessage(c.Param("token"), messageID, actor.ActorID()); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	h.publish(models.ModerationEvent{
		Type:      models.EventMessageUnpinned,
		RoomToken: c.Param("token"),
		Actor:     actor.ActorID(),
		At:        time.Now(),
	})
	c.Status(http.StatusNoContent)
}
