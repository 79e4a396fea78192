package storage

import (
	"errors"

	"groupmod/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockRoomShared reads the room row under a shared lock. Held until the
// surrounding transaction commits, it blocks a concurrent DeleteRoom (which
// locks the row FOR UPDATE) from cascading between this existence check and
// the transaction's own writes, so no moderator row can outlive its room.
func lockRoomShared(tx *gorm.DB, token string) *gorm.DB {
	var room models.Room
	return tx.Select("token").
		Clauses(clause.Locking{Strength: "SHARE"}).
		First(&room, "token = ?", token)
}

// roomExists fails with NoSuchRoomError when the token is not registered.
func roomExists(tx *gorm.DB, token string) error {
	if err := lockRoomShared(tx, token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.NoSuchRoomError{Token: token}
		}
		return err
	}
	return nil
}

// SetRoomModerator upserts the (room, user) moderation entry with the given
// flags. The composite primary key makes repeated adds overwrite instead of
// duplicate.
func (s *Service) SetRoomModerator(token, sessionID string, admin, visible bool, actor string) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := roomExists(tx, token); err != nil {
			return err
		}

		entry := models.RoomModerator{
			RoomToken: token,
			SessionID: sessionID,
			Admin:     admin,
			Visible:   visible,
			AddedBy:   actor,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "room_token"}, {Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"admin", "visible", "added_by", "updated_at"}),
		}).Create(&entry).Error; err != nil {
			return err
		}

		return tx.Create(&models.AuditEntry{
			Action:    models.EventRoleAdded,
			RoomToken: token,
			SessionID: sessionID,
			Admin:     admin,
			Visible:   visible,
			Actor:     actor,
		}).Error
	})
	if err != nil {
		return wrapErr("set room moderator", err)
	}
	return nil
}

// ClearRoomModerator deletes the (room, user) moderation entry if present.
// Removing an absent entry is a no-op; the returned bool tells callers which
// of the two happened.
func (s *Service) ClearRoomModerator(token, sessionID, actor string) (bool, error) {
	var removed bool
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := roomExists(tx, token); err != nil {
			return err
		}

		res := tx.Where("room_token = ? AND session_id = ?", token, sessionID).
			Delete(&models.RoomModerator{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected > 0
		if !removed {
			return nil
		}

		return tx.Create(&models.AuditEntry{
			Action:    models.EventRoleRemoved,
			RoomToken: token,
			SessionID: sessionID,
			Actor:     actor,
		}).Error
	})
	if err != nil {
		return false, wrapErr("clear room moderator", err)
	}
	return removed, nil
}

// ListRoomModerators returns the room's moderation entries partitioned four
// ways by (admin, visible).
func (s *Service) ListRoomModerators(token string) (*models.ModeratorSet, error) {
	if err := roomExists(s.DB, token); err != nil {
		return nil, wrapErr("list room moderators", err)
	}

	var entries []models.RoomModerator
	if err := s.DB.
		Where("room_token = ?", token).
		Order("session_id").
		Find(&entries).Error; err != nil {
		return nil, wrapErr("list room moderators", err)
	}

	set := &models.ModeratorSet{}
	for _, e := range entries {
		set.Add(e.SessionID, e.Admin, e.Visible)
	}
	return set, nil
}
