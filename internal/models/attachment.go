package models

import "gorm.io/gorm"

// RoomAttachment is an uploaded file owned by a room. Like RoomMessage, rows
// are written by the messaging subsystem; this backend reads counts/bytes and
// removes them when the room is deleted.
type RoomAttachment struct {
	gorm.Model

	RoomToken  string `gorm:"not null;index"`
	UploaderID string `gorm:"type:text;not null"`
	Size       int64  `gorm:"not null"`
}
