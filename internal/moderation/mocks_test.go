package moderation_test

import (
	"groupmod/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify/mock implementation of the storage.Storage
// interface for exercising the moderation service without a database.
type MockStorage struct {
	mock.Mock
}

// User operations
func (m *MockStorage) GetOrCreateUser(sessionID string) (*models.User, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) SetGlobalRole(sessionID string, admin, visible bool, actor string) error {
	args := m.Called(sessionID, admin, visible, actor)
	return args.Error(0)
}

func (m *MockStorage) ClearGlobalRole(sessionID, actor string) (bool, error) {
	args := m.Called(sessionID, actor)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) ListGlobalModerators() (*models.ModeratorSet, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ModeratorSet), args.Error(1)
}

func (m *MockStorage) BanUser(sessionID, actor string) error {
	args := m.Called(sessionID, actor)
	return args.Error(0)
}

func (m *MockStorage) UnbanUser(sessionID, actor string) error {
	args := m.Called(sessionID, actor)
	return args.Error(0)
}

func (m *MockStorage) IsUserBanned(sessionID string) (bool, error) {
	args := m.Called(sessionID)
	return args.Bool(0), args.Error(1)
}

// Room operations
func (m *MockStorage) CreateRoom(token, name, description, actor string) (*models.Room, error) {
	args := m.Called(token, name, description, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockStorage) GetRoomByToken(token string) (*models.Room, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockStorage) DeleteRoom(token, actor string) error {
	args := m.Called(token, actor)
	return args.Error(0)
}

func (m *MockStorage) ListRooms() ([]models.Room, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Room), args.Error(1)
}

func (m *MockStorage) RoomStats(token string) (*models.RoomStats, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RoomStats), args.Error(1)
}

func (m *MockStorage) PinMessage(token string, messageID int64, actor string) error {
	args := m.Called(token, messageID, actor)
	return args.Error(0)
}

func (m *MockStorage) UnpinMessage(token string, messageID int64, actor string) error {
	args := m.Called(token, messageID, actor)
	return args.Error(0)
}

// Room moderator operations
func (m *MockStorage) SetRoomModerator(token, sessionID string, admin, visible bool, actor string) error {
	args := m.Called(token, sessionID, admin, visible, actor)
	return args.Error(0)
}

func (m *MockStorage) ClearRoomModerator(token, sessionID, actor string) (bool, error) {
	args := m.Called(token, sessionID, actor)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) ListRoomModerators(token string) (*models.ModeratorSet, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ModeratorSet), args.Error(1)
}

// Event operations
func (m *MockStorage) PublishEvent(evt models.ModerationEvent) error {
	args := m.Called(evt)
	return args.Error(0)
}
