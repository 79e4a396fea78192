package models

import "time"

// RoomModerator stores a room-scoped moderator/admin assignment. The composite
// primary key guarantees at most one entry per (room, user); re-adding with
// different flags overwrites the row instead of duplicating it.
type RoomModerator struct {
	RoomToken string    `gorm:"primaryKey;autoIncrement:false" json:"room_token"`
	SessionID string    `gorm:"primaryKey;autoIncrement:false" json:"session_id"`
	Admin     bool      `json:"admin"`
	Visible   bool      `json:"visible"`
	AddedBy   string    `gorm:"not null" json:"added_by"`
	AddedAt   time.Time `gorm:"autoCreateTime" json:"added_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ModeratorSet is the four-way partition of a moderator listing by
// (admin, visible). The partitions are disjoint: an admin is never listed
// again as a plain moderator, even though admins imply moderator rights.
type ModeratorSet struct {
	Moderators       []string `json:"moderators"`
	Admins           []string `json:"admins"`
	HiddenModerators []string `json:"hidden_moderators"`
	HiddenAdmins     []string `json:"hidden_admins"`
}

// Add places a session ID into the single partition matching its flags.
func (m *ModeratorSet) Add(sessionID string, admin, visible bool) {
	switch {
	case admin && visible:
		m.Admins = append(m.Admins, sessionID)
	case admin:
		m.HiddenAdmins = append(m.HiddenAdmins, sessionID)
	case visible:
		m.Moderators = append(m.Moderators, sessionID)
	default:
		m.HiddenModerators = append(m.HiddenModerators, sessionID)
	}
}

// TotalAdmins counts admins regardless of visibility.
func (m *ModeratorSet) TotalAdmins() int {
	return len(m.Admins) + len(m.HiddenAdmins)
}

// TotalModerators counts plain moderators regardless of visibility.
func (m *ModeratorSet) TotalModerators() int {
	return len(m.Moderators) + len(m.HiddenModerators)
}

// Empty reports whether no assignment exists in any partition.
func (m *ModeratorSet) Empty() bool {
	return m.TotalAdmins() == 0 && m.TotalModerators() == 0
}
