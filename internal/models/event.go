package models

import "time"

// Moderation event types published on the Redis events channel and recorded
// in the audit log.
const (
	EventRoleAdded       = "role_added"
	EventRoleRemoved     = "role_removed"
	EventRoomCreated     = "room_created"
	EventRoomDeleted     = "room_deleted"
	EventUserBanned      = "user_banned"
	EventUserUnbanned    = "user_unbanned"
	EventMessagePinned   = "message_pinned"
	EventMessageUnpinned = "message_unpinned"
)

// ModerationEvent is the JSON payload broadcast to event-hub subscribers
// (the messaging server, dashboards, the Telegram notifier) whenever the
// moderation state changes.
type ModerationEvent struct {
	Type      string    `json:"type"`
	RoomToken string    `json:"room_token,omitempty"` // empty for global scope
	SessionID string    `json:"session_id,omitempty"`
	Admin     bool      `json:"admin,omitempty"`
	Visible   bool      `json:"visible,omitempty"`
	Actor     string    `json:"actor"`
	At        time.Time `json:"at"`
}
