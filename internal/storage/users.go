package storage

import (
	"errors"
	"log"

	"groupmod/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetOrCreateUser resolves a Session ID to its user record, creating one with
// all role flags false on first reference. INSERT .. ON CONFLICT DO NOTHING
// keeps concurrent first references from producing duplicates.
func (s *Service) GetOrCreateUser(sessionID string) (*models.User, error) {
	user := models.User{SessionID: sessionID}
	if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&user).Error; err != nil {
		return nil, wrapErr("create user", err)
	}

	// Reload: on conflict the struct still holds the zero flags, not the row.
	if err := s.DB.First(&user, "session_id = ?", sessionID).Error; err != nil {
		return nil, wrapErr("load user", err)
	}
	return &user, nil
}

// SetGlobalRole makes the user a global moderator, with the admin and
// visibility flags as given. Any prior global role state is overwritten.
func (s *Service) SetGlobalRole(sessionID string, admin, visible bool, actor string) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("session_id = ?", sessionID).
			Updates(map[string]interface{}{
				"global_moderator": true,
				"global_admin":     admin,
				"global_visible":   visible,
			}).Error; err != nil {
			return err
		}
		return tx.Create(&models.AuditEntry{
			Action:    models.EventRoleAdded,
			SessionID: sessionID,
			Admin:     admin,
			Visible:   visible,
			Actor:     actor,
		}).Error
	})
	if err != nil {
		return wrapErr("set global role", err)
	}
	return nil
}

// ClearGlobalRole drops the user's global moderator and admin flags. The
// returned bool reports whether any global role was actually held, so the
// caller can render a no-op instead of a removal.
func (s *Service) ClearGlobalRole(sessionID, actor string) (bool, error) {
	var held bool
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, "session_id = ?", sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // never referenced, nothing to clear
			}
			return err
		}

		held = user.GlobalModerator || user.GlobalAdmin
		if !held {
			return nil
		}

		if err := tx.Model(&user).Updates(map[string]interface{}{
			"global_moderator": false,
			"global_admin":     false,
			"global_visible":   false,
		}).Error; err != nil {
			return err
		}
		return tx.Create(&models.AuditEntry{
			Action:    models.EventRoleRemoved,
			SessionID: sessionID,
			Actor:     actor,
		}).Error
	})
	if err != nil {
		return false, wrapErr("clear global role", err)
	}
	return held, nil
}

// ListGlobalModerators returns all users holding a global role, partitioned
// four ways by (admin, visible).
func (s *Service) ListGlobalModerators() (*models.ModeratorSet, error) {
	var users []models.User
	if err := s.DB.
		Where("global_moderator = ? OR global_admin = ?", true, true).
		Order("session_id").
		Find(&users).Error; err != nil {
		return nil, wrapErr("list global moderators", err)
	}

	set := &models.ModeratorSet{}
	for _, u := range users {
		set.Add(u.SessionID, u.GlobalAdmin, u.GlobalVisible)
	}
	return set, nil
}

// BanUser blocks the user service-wide and mirrors the flag into Redis so
// the messaging path can check it without hitting PostgreSQL.
func (s *Service) BanUser(sessionID, actor string) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("session_id = ?", sessionID).
			Update("banned", true).Error; err != nil {
			return err
		}
		return tx.Create(&models.AuditEntry{
			Action:    models.EventUserBanned,
			SessionID: sessionID,
			Actor:     actor,
		}).Error
	})
	if err != nil {
		return wrapErr("ban user", err)
	}

	if s.Redis != nil {
		if err := s.Redis.Set(s.Ctx, "ban:"+sessionID, "banned", 0).Err(); err != nil {
			log.Printf("ERROR: Failed to mirror ban for %s into Redis: %v", sessionID, err)
		}
	}
	return nil
}

// UnbanUser lifts a service-wide ban.
func (s *Service) UnbanUser(sessionID, actor string) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("session_id = ?", sessionID).
			Update("banned", false).Error; err != nil {
			return err
		}
		return tx.Create(&models.AuditEntry{
			Action:    models.EventUserUnbanned,
			SessionID: sessionID,
			Actor:     actor,
		}).Error
	})
	if err != nil {
		return wrapErr("unban user", err)
	}

	if s.Redis != nil {
		if err := s.Redis.Del(s.Ctx, "ban:"+sessionID).Err(); err != nil {
			log.Printf("ERROR: Failed to clear ban key for %s in Redis: %v", sessionID, err)
		}
	}
	return nil
}

// IsUserBanned checks the ban status, preferring the Redis key when present.
func (s *Service) IsUserBanned(sessionID string) (bool, error) {
	if s.Redis != nil {
		status, err := s.Redis.Get(s.Ctx, "ban:"+sessionID).Result()
		if err == nil {
			return status != "", nil
		}
		if !errors.Is(err, redis.Nil) {
			return false, wrapErr("check ban", err)
		}
		// Key miss: fall through to the database.
	}

	var user models.User
	if err := s.DB.First(&user, "session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, wrapErr("check ban", err)
	}
	return user.Banned, nil
}
