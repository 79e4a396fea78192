package models

import "time"

// RoomActivity tracks the most recent qualifying action of a user in a room.
// The messaging subsystem keeps LastActive fresh; active-user windows are
// computed from it at read time.
type RoomActivity struct {
	RoomToken  string    `gorm:"primaryKey;autoIncrement:false"`
	SessionID  string    `gorm:"primaryKey;autoIncrement:false"`
	LastActive time.Time `gorm:"not null;index"`
}
