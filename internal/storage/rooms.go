package storage

import (
	"errors"
	"time"

	"groupmod/backend/internal/config"
	"groupmod/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// roomName applies the naming default: a room created without an explicit
// name is named after its token.
func roomName(name, token string) string {
	if name == "" {
		return token
	}
	return name
}

// CreateRoom creates a room under the given token. A token collision surfaces
// as AlreadyExistsError; the unique primary key enforces it, so concurrent
// creates cannot both win.
func (s *Service) CreateRoom(token, name, description, actor string) (*models.Room, error) {
	room := models.Room{Token: token, Name: roomName(name, token), Description: description}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&room).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &models.AlreadyExistsError{Token: token}
			}
			return err
		}
		return tx.Create(&models.AuditEntry{
			Action:    models.EventRoomCreated,
			RoomToken: token,
			Actor:     actor,
		}).Error
	})
	if err != nil {
		return nil, wrapErr("create room", err)
	}
	return &room, nil
}

// GetRoomByToken looks a room up by token.
func (s *Service) GetRoomByToken(token string) (*models.Room, error) {
	var room models.Room
	if err := s.DB.First(&room, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NoSuchRoomError{Token: token}
		}
		return nil, wrapErr("get room", err)
	}
	return &room, nil
}

// DeleteRoom removes a room together with everything that exists only in
// relation to it: messages, attachments, activity rows, and moderator
// entries. The cascade runs in one transaction, so a concurrent reader sees
// either the full pre-deletion state or no room at all.
func (s *Service) DeleteRoom(token, actor string) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&room, "token = ?", token).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &models.NoSuchRoomError{Token: token}
			}
			return err
		}

		for _, target := range []interface{}{
			&models.RoomMessage{},
			&models.RoomAttachment{},
			&models.RoomActivity{},
			&models.RoomModerator{},
		} {
			if err := tx.Unscoped().Where("room_token = ?", token).Delete(target).Error; err != nil {
				return err
			}
		}

		if err := tx.Delete(&room).Error; err != nil {
			return err
		}
		return tx.Create(&models.AuditEntry{
			Action:    models.EventRoomDeleted,
			RoomToken: token,
			Actor:     actor,
		}).Error
	})
	if err != nil {
		return wrapErr("delete room", err)
	}
	return nil
}

// ListRooms returns all rooms ordered by token.
func (s *Service) ListRooms() ([]models.Room, error) {
	var rooms []models.Room
	if err := s.DB.Order("token").Find(&rooms).Error; err != nil {
		return nil, wrapErr("list rooms", err)
	}
	return rooms, nil
}

// RoomStats computes the derived statistics for a room: message and
// attachment counts with byte totals, plus active-user counts for the
// configured trailing windows, measured from the moment of the call.
func (s *Service) RoomStats(token string) (*models.RoomStats, error) {
	type totals struct {
		Count int64
		Bytes int64
	}

	var msgs totals
	if err := s.DB.Model(&models.RoomMessage{}).
		Select("COUNT(*) AS count, COALESCE(SUM(size), 0) AS bytes").
		Where("room_token = ?", token).
		Scan(&msgs).Error; err != nil {
		return nil, wrapErr("room message stats", err)
	}

	var files totals
	if err := s.DB.Model(&models.RoomAttachment{}).
		Select("COUNT(*) AS count, COALESCE(SUM(size), 0) AS bytes").
		Where("room_token = ?", token).
		Scan(&files).Error; err != nil {
		return nil, wrapErr("room attachment stats", err)
	}

	stats := &models.RoomStats{
		MessageCount:    msgs.Count,
		MessageBytes:    msgs.Bytes,
		AttachmentCount: files.Count,
		AttachmentBytes: files.Bytes,
	}

	now := time.Now()
	for _, window := range config.ActiveUserWindows {
		var n int64
		if err := s.DB.Model(&models.RoomActivity{}).
			Where("room_token = ? AND last_active >= ?", token, now.Add(-window)).
			Distinct("session_id").
			Count(&n).Error; err != nil {
			return nil, wrapErr("room activity stats", err)
		}
		stats.ActiveUsers = append(stats.ActiveUsers, models.ActiveWindow{Window: window, Count: n})
	}
	return stats, nil
}

// PinMessage appends a message ID to the room's pinned list. Pinning an
// already-pinned message is a no-op.
func (s *Service) PinMessage(token string, messageID int64, actor string) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&room, "token = ?", token).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &models.NoSuchRoomError{Token: token}
			}
			return err
		}

		for _, id := range room.PinnedMessages {
			if id == messageID {
				return nil
			}
		}

		room.PinnedMessages = append(room.PinnedMessages, messageID)
		if err := tx.Model(&room).Update("pinned_messages", room.PinnedMessages).Error; err != nil {
			return err
		}
		return tx.Create(&models.AuditEntry{
			Action:    models.EventMessagePinned,
			RoomToken: token,
			Actor:     actor,
		}).Error
	})
	if err != nil {
		return wrapErr("pin message", err)
	}
	return nil
}

// UnpinMessage removes a message ID from the room's pinned list.
func (s *Service) UnpinMessage(token string, messageID int64, actor string) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&room, "token = ?", token).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &models.NoSuchRoomError{Token: token}
			}
			return err
		}

		kept := room.PinnedMessages[:0]
		found := false
		for _, id := range room.PinnedMessages {
			if id == messageID {
				found = true
				continue
			}
			kept = append(kept, id)
		}
		if !found {
			return nil
		}

		if err := tx.Model(&room).Update("pinned_messages", kept).Error; err != nil {
			return err
		}
		return tx.Create(&models.AuditEntry{
			Action:    models.EventMessageUnpinned,
			RoomToken: token,
			Actor:     actor,
		}).Error
	})
	if err != nil {
		return wrapErr("unpin message", err)
	}
	return nil
}
