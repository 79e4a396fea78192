package models

import (
	"time"

	"github.com/lib/pq"
)

// Room represents a chat room addressed by its unique token.
type Room struct {
	// Token is the short URL-safe identifier (1-64 chars of [A-Za-z0-9_-]).
	Token string `gorm:"primaryKey" json:"token"`
	// Name is the human-readable room name; defaults to the token at creation.
	Name string `gorm:"not null" json:"name"`
	// Description is optional free-form text about the room.
	Description string `json:"description"`
	// PinnedMessages holds the message IDs pinned by room admins, in pin order.
	PinnedMessages pq.Int64Array `gorm:"type:bigint[]" json:"pinned_messages"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// RoomStats carries the derived per-room statistics returned by listings.
// It is computed from persisted activity records, never stored.
type RoomStats struct {
	MessageCount    int64          `json:"message_count"`
	MessageBytes    int64          `json:"message_bytes"`
	AttachmentCount int64          `json:"attachment_count"`
	AttachmentBytes int64          `json:"attachment_bytes"`
	ActiveUsers     []ActiveWindow `json:"active_users"`
}

// ActiveWindow is the number of users who performed a qualifying action
// within the trailing window, measured from the moment of the query.
type ActiveWindow struct {
	Window time.Duration `json:"window"`
	Count  int64         `json:"count"`
}
