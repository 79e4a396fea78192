package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditEntry records a single moderation action and the principal that
// performed it ("system" for operator CLI actions, a Session ID otherwise).
type AuditEntry struct {
	ID string `gorm:"primaryKey" json:"id"`
	// Action is one of the event type constants from event.go.
	Action string `gorm:"not null;index" json:"action"`
	// RoomToken is empty for global-scope actions.
	RoomToken string `gorm:"index" json:"room_token"`
	// SessionID is the affected user, when the action targets one.
	SessionID string `gorm:"index" json:"session_id"`
	Admin     bool   `json:"admin"`
	Visible   bool   `json:"visible"`
	// Actor is the attribution of the acting principal.
	Actor     string    `gorm:"not null" json:"actor"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate is a GORM hook that assigns a fresh UUID when no ID is set.
func (a *AuditEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}
