package models

import "time"

// User represents a persistent user record keyed by Session ID.
// Records are created lazily on first reference and never deleted:
// moderation entries and authored messages may keep pointing at them.
type User struct {
	// SessionID is the 66-character lowercase hex Session public identifier.
	SessionID string `gorm:"primaryKey" json:"session_id"`
	// GlobalModerator marks the user as a moderator across all rooms.
	GlobalModerator bool `json:"global_moderator"`
	// GlobalAdmin marks the user as an admin across all rooms. Stored
	// independently of GlobalModerator; removal clears both.
	GlobalAdmin bool `json:"global_admin"`
	// GlobalVisible controls whether the global role shows up in public
	// moderator listings.
	GlobalVisible bool `json:"global_visible"`
	// Banned blocks the user service-wide. Mirrored into Redis for the
	// fast-path check.
	Banned    bool      `json:"banned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
