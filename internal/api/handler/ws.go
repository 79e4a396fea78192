package handler

import (
	"net/http"

	"groupmod/backend/internal/eventhub"
	"groupmod/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin; the operator JWT is the gate here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades GET /ws into a live moderation-event stream.
// RequireOperator has already authenticated the caller.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := &eventhub.WebSocketClient{
		ID:   c.GetString("actor") + "/" + uuid.New().String(),
		Conn: conn,
		Hub:  h.Hub,
		Send: make(chan models.ModerationEvent, 256),
	}

	h.Hub.RegisterCh <- client
	client.Run()
}
