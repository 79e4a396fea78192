package models

import "gorm.io/gorm"

// RoomMessage is a message persisted by the public messaging subsystem.
// This backend only reads it for per-room counts and byte totals, and
// deletes rows when their room is cascade-deleted.
type RoomMessage struct {
	gorm.Model

	RoomToken string `gorm:"not null;index:idx_room_message"`
	SenderID  string `gorm:"type:text;not null;index:idx_room_message"`
	// Size is the padded message size in bytes as stored by the messaging
	// subsystem.
	Size int64 `gorm:"not null"`
}
