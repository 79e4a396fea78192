package storage

import (
	"context"
	"encoding/json"
	"errors"

	"groupmod/backend/internal/config"
	"groupmod/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Storage is the persistence boundary used by the moderation service, the
// API handlers, and the admin CLI. PostgreSQL holds the durable state; Redis
// carries the ban fast path and the moderation event channel.
type Storage interface {
	// Users
	GetOrCreateUser(sessionID string) (*models.User, error)
	SetGlobalRole(sessionID string, admin, visible bool, actor string) error
	ClearGlobalRole(sessionID, actor string) (bool, error)
	ListGlobalModerators() (*models.ModeratorSet, error)
	BanUser(sessionID, actor string) error
	UnbanUser(sessionID, actor string) error
	IsUserBanned(sessionID string) (bool, error)

	// Rooms
	CreateRoom(token, name, description, actor string) (*models.Room, error)
	GetRoomByToken(token string) (*models.Room, error)
	DeleteRoom(token, actor string) error
	ListRooms() ([]models.Room, error)
	RoomStats(token string) (*models.RoomStats, error)
	PinMessage(token string, messageID int64, actor string) error
	UnpinMessage(token string, messageID int64, actor string) error

	// Room moderators
	SetRoomModerator(token, sessionID string, admin, visible bool, actor string) error
	ClearRoomModerator(token, sessionID, actor string) (bool, error)
	ListRoomModerators(token string) (*models.ModeratorSet, error)

	// Events
	PublishEvent(evt models.ModerationEvent) error
}

// Service implements Storage on top of GORM and go-redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor. Redis may be nil for surfaces that do not
// publish events or check bans (the admin CLI).
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// PublishEvent publishes a moderation event on the Redis Pub/Sub channel.
// A no-op when the service runs without Redis.
func (s *Service) PublishEvent(evt models.ModerationEvent) error {
	if s.Redis == nil {
		return nil
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	if err := s.Redis.Publish(s.Ctx, config.EventsChannel, payload).Err(); err != nil {
		return &models.StorageError{Op: "publish event", Err: err}
	}
	return nil
}

// SubscribeEvents subscribes to the moderation event channel. The caller owns
// the returned PubSub and must close it.
func (s *Service) SubscribeEvents() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, config.EventsChannel)
}

// wrapErr turns a database failure into a StorageError while letting the
// domain errors (NoSuchRoom, AlreadyExists) pass through untouched.
func wrapErr(op string, err error) error {
	var alreadyExists *models.AlreadyExistsError
	var noSuchRoom *models.NoSuchRoomError
	if errors.As(err, &alreadyExists) || errors.As(err, &noSuchRoom) {
		return err
	}
	return &models.StorageError{Op: op, Err: err}
}
