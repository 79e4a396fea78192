package moderation_test

import (
	"errors"
	"strings"
	"testing"

	"groupmod/backend/internal/identity"
	"groupmod/backend/internal/models"
	"groupmod/backend/internal/moderation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	sidX = "05" + strings.Repeat("0", 64)
	sidY = "05" + strings.Repeat("1", 64)
)

func TestAddRole_GlobalDefaultsToHidden(t *testing.T) {
	storageMock := new(MockStorage)
	svc := moderation.NewService(storageMock)

	storageMock.On("GetOrCreateUser", sidX).Return(&models.User{SessionID: sidX}, nil)
	storageMock.On("SetGlobalRole", sidX, true, false, "system").Return(nil)
	storageMock.On("PublishEvent", mock.AnythingOfType("models.ModerationEvent")).Return(nil)

	report, err := svc.AddRole([]string{sidX}, []string{"+"}, true, moderation.VisibilityDefault, moderation.SystemActor{})

	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	res := report.Results[0]
	assert.Equal(t, moderation.OutcomeApplied, res.Outcome)
	assert.True(t, res.Global)
	assert.False(t, res.Visible, "global adds default to hidden")
	storageMock.AssertCalled(t, "SetGlobalRole", sidX, true, false, "system")
}

func TestAddRole_GlobalExplicitVisible(t *testing.T) {
	storageMock := new(MockStorage)
	svc := moderation.NewService(storageMock)

	storageMock.On("GetOrCreateUser", sidX).Return(&models.User{SessionID: sidX}, nil)
	storageMock.On("SetGlobalRole", sidX, false, true, "system").Return(nil)
	storageMock.On("PublishEvent", mock.AnythingOfType("models.ModerationEvent")).Return(nil)

	_, err := svc.AddRole([]string{sidX}, []string{"+"}, false, moderation.VisibilityVisible, moderation.SystemActor{})

	require.NoError(t, err)
	storageMock.AssertCalled(t, "SetGlobalRole", sidX, false, true, "system")
}

func TestAddRole_RoomDefaultsToVisible(t *testing.T) {
	storageMock := new(MockStorage)
	svc := moderation.NewService(storageMock)

	storageMock.On("GetRoomByToken", "xyz").Return(&models.Room{Token: "xyz", Name: "xyz"}, nil)
	storageMock.On("GetOrCreateUser", sidY).Return(&models.User{SessionID: sidY}, nil)
	storageMock.On("SetRoomModerator", "xyz", sidY, false, true, "system").Return(nil)
	storageMock.On("PublishEvent", mock.AnythingOfType("models.ModerationEvent")).Return(nil)

	report, err := svc.AddRole([]string{sidY}, []string{"xyz"}, false, moderation.VisibilityDefault, moderation.SystemActor{})

	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, moderation.OutcomeApplied, report.Results[0].Outcome)
	assert.True(t, report.Results[0].Visible, "room adds default to visible")
	storageMock.AssertCalled(t, "SetRoomModerator", "xyz", sidY, false, true, "system")
}

func TestAddRole_RoomExplicitHidden(t *testing.T) {
	storageMock := new(MockStorage)
	svc := moderation.NewService(storageMock)

	storageMock.On("GetRoomByToken", "xyz").Return(&models.Room{Token: "xyz"}, nil)
	storageMock.On("GetOrCreateUser", sidX).Return(&models.User{SessionID: sidX}, nil)
	storageMock.On("SetRoomModerator", "xyz", sidX, true, false, "system").Return(nil)
	storageMock.On("PublishEvent", mock.AnythingOfType("models.ModerationEvent")).Return(nil)

	_, err := svc.AddRole([]string{sidX}, []string{"xyz"}, true, moderation.VisibilityHidden, moderation.SystemActor{})

	require.NoError(t, err)
	storageMock.AssertCalled(t, "SetRoomModerator", "xyz", sidX, true, false, "system")
}

func TestAddRole_InvalidIdentityFailsFast(t *testing.T) {
	storageMock := new(MockStorage)
	svc := moderation.NewService(storageMock)

	_, err := svc.AddRole([]string{sidX, "not-a-session-id"}, []string{"xyz"}, false, moderation.VisibilityDefault, moderation.SystemActor{})

	assert.ErrorIs(t, err, identity.ErrInvalidSessionID)
	// Nothing may be mutated, not even for the valid identity.
	storageMock.AssertNotCalled(t, "GetOrCreateUser", mock.Anything)
	storageMock.AssertNotCalled(t, "SetRoomModerator",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAddRole_UppercaseIdentityCanonicalized(t *testing.T) {
	storageMock := new(MockStorage)
	svc := moderation.NewService(storageMock)

	upper := "05" + strings.Repeat("AB", 32)
	lower := "05" + strings.Repeat("ab", 32)
	storageMock.On("GetOrCreateUser", lower).Return(&models.User{SessionID: lower}, nil)
	storageMock.On("SetGlobalRole", lower, false, false, "system").Return(nil)
	storageMock.On("PublishEvent", mock.AnythingOfType("models.ModerationEvent")).Return(nil)

	_, err := svc.AddRole([]string{upper}, []string{"+"}, false, moderation.VisibilityDefault, moderation.SystemActor{})

	require.NoError(t, err)
	storageMock.AssertCalled(t, "GetOrCreateUser", lower)
}

func TestAddRole_RoomVanishedMidRequest(t *testing.T) {
	storageMock := new(MockStorage)
	svc := moderation.NewService(storageMock)

	// "*" snapshot saw both rooms, but "gone" is deleted before the apply.
	storageMock.On("ListRooms").Return([]models.Room{{Token: "gone"}, {Token: "xyz"}}, nil)
	storageMock.On("GetOrCreateUser", sidX).Return(&models.User{SessionID: sidX}, nil)
	storageMock.On("SetRoomModerator", "gone", sidX, false, true, "system").
		Return(&models.NoSuchRoomError{Token: "gone"})
	storageMock.On("SetRoomModerator", "xyz", sidX, false, true, "system").Return(nil)
	storageMock.On("PublishEvent", mock.AnythingOfType("models.ModerationEvent")).Return(nil)

	report, err := svc.AddRole([]string{sidX}, []string{"*"}, false, moderation.VisibilityDefault, moderation.SystemActor{})

	require.NoError(t, err, "a per-target failure must not abort the request")
	require.Len(t, report.Results, 2)

	failed := report.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "gone", failed[0].RoomToken)

	// The surviving room was still applied.
	storageMock.AssertCalled(t, "SetRoomModerator", "xyz", sidX, false, true, "system")
	assert.Equal(t, moderation.OutcomeApplied, report.Results[1].Outcome)
}

func TestAddRole_MultipleIdentitiesTimesRooms(t *testing.T) {
	storageMock := new(MockStorage)
	svc := moderation.NewService(storageMock)

	storageMock.On("GetRoomByToken", "abc").Return(&models.Room{Token: "abc"}, nil)
	storageMock.On("GetRoomByToken", "xyz").Return(&models.Room{Token: "xyz"}, nil)
	storageMock.On("GetOrCreateUser", mock.AnythingOfType("string")).Return(&models.User{}, nil)
	storageMock.On("SetRoomModerator",
		mock.AnythingOfType("string"), mock.AnythingOfType("string"), true, true, "system").Return(nil)
	storageMock.On("PublishEvent", mock.AnythingOfType("models.ModerationEvent")).Return(nil)

	report, err := svc.AddRole([]string{sidX, sidY}, []string{"abc", "xyz"}, true, moderation.VisibilityDefault, moderation.SystemActor{})

	require.NoError(t, err)
	assert.Len(t, report.Results, 4, "one result per (identity, room) pair")
	assert.Empty(t, report.Failed())
}

func TestRemoveRole_GlobalNoRoleHeldIsNoOp(t *testing.T) {
	storageMock := new(MockStorage)
	svc := moderation.NewService(storageMock)

	storageMock.On("ClearGlobalRole", sidX, "system").Return(false, nil)

	report, err := svc.RemoveRole([]string{sidX}, []string{"+"}, moderation.SystemActor{})

	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, moderation.OutcomeNoOp, report.Results[0].Outcome)
	// No event for a state that did not change.
	storageMock.AssertNotCalled(t, "PublishEvent", mock.Anything)
}

func TestRemoveRole_GlobalHeld(t *testing.T) {
	storageMock := new(MockStorage)
	svc := moderation.NewService(storageMock)

	storageMock.On("ClearGlobalRole", sidX, "system").Return(true, nil)
	storageMock.On("PublishEvent", mock.AnythingOfType("models.ModerationEvent")).Return(nil)

	report, err := svc.RemoveRole([]string{sidX}, []string{"+"}, moderation.SystemActor{})

	require.NoError(t, err)
	assert.Equal(t, moderation.OutcomeApplied, report.Results[0].Outcome)
	storageMock.AssertCalled(t, "PublishEvent", mock.AnythingOfType("models.ModerationEvent"))
}

func TestRemoveRole_RoomAbsentEntryIsNoOp(t *testing.T) {
	storageMock := new(MockStorage)
	svc := moderation.NewService(storageMock)

	storageMock.On("GetRoomByToken", "xyz").Return(&models.Room{Token: "xyz"}, nil)
	storageMock.On("ClearRoomModerator", "xyz", sidX, "system").Return(false, nil)

	report, err := svc.RemoveRole([]string{sidX}, []string{"xyz"}, moderation.SystemActor{})

	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, moderation.OutcomeNoOp, report.Results[0].Outcome)
}

func TestBan_CreatesUserRecordFirst(t *testing.T) {
	storageMock := new(MockStorage)
	svc := moderation.NewService(storageMock)

	// A ban on a never-seen Session ID must create the user record before
	// setting the flag, or the update silently touches zero rows.
	storageMock.On("GetOrCreateUser", sidX).Return(&models.User{SessionID: sidX}, nil)
	storageMock.On("BanUser", sidX, "system").Return(nil)
	storageMock.On("PublishEvent", mock.AnythingOfType("models.ModerationEvent")).Return(nil)

	id, err := svc.Ban(sidX, moderation.SystemActor{})

	require.NoError(t, err)
	assert.Equal(t, sidX, id)
	storageMock.AssertCalled(t, "GetOrCreateUser", sidX)
	storageMock.AssertCalled(t, "BanUser", sidX, "system")
}

func TestBan_UserCreateFailureAbortsBan(t *testing.T) {
	storageMock := new(MockStorage)
	svc := moderation.NewService(storageMock)

	storageMock.On("GetOrCreateUser", sidX).
		Return(nil, &models.StorageError{Op: "create user", Err: errors.New("connection refused")})

	_, err := svc.Ban(sidX, moderation.SystemActor{})

	assert.Error(t, err)
	storageMock.AssertNotCalled(t, "BanUser", mock.Anything, mock.Anything)
	storageMock.AssertNotCalled(t, "PublishEvent", mock.Anything)
}

func TestBan_InvalidIdentityRejected(t *testing.T) {
	storageMock := new(MockStorage)
	svc := moderation.NewService(storageMock)

	_, err := svc.Ban("not-a-session-id", moderation.SystemActor{})

	assert.ErrorIs(t, err, identity.ErrInvalidSessionID)
	storageMock.AssertNotCalled(t, "GetOrCreateUser", mock.Anything)
	storageMock.AssertNotCalled(t, "BanUser", mock.Anything, mock.Anything)
}

func TestBan_UppercaseIdentityCanonicalized(t *testing.T) {
	storageMock := new(MockStorage)
	svc := moderation.NewService(storageMock)

	upper := "05" + strings.Repeat("CD", 32)
	lower := "05" + strings.Repeat("cd", 32)
	storageMock.On("GetOrCreateUser", lower).Return(&models.User{SessionID: lower}, nil)
	storageMock.On("BanUser", lower, "system").Return(nil)
	storageMock.On("PublishEvent", mock.AnythingOfType("models.ModerationEvent")).Return(nil)

	id, err := svc.Ban(upper, moderation.SystemActor{})

	require.NoError(t, err)
	assert.Equal(t, lower, id)
}

func TestUnban_NoUserRecordCreated(t *testing.T) {
	storageMock := new(MockStorage)
	svc := moderation.NewService(storageMock)

	storageMock.On("UnbanUser", sidX, "system").Return(nil)
	storageMock.On("PublishEvent", mock.AnythingOfType("models.ModerationEvent")).Return(nil)

	_, err := svc.Unban(sidX, moderation.SystemActor{})

	require.NoError(t, err)
	// Lifting a ban never needs to materialize a user record.
	storageMock.AssertNotCalled(t, "GetOrCreateUser", mock.Anything)
	storageMock.AssertCalled(t, "UnbanUser", sidX, "system")
}

func TestRemoveRole_ActorAttribution(t *testing.T) {
	storageMock := new(MockStorage)
	svc := moderation.NewService(storageMock)

	storageMock.On("GetRoomByToken", "xyz").Return(&models.Room{Token: "xyz"}, nil)
	storageMock.On("ClearRoomModerator", "xyz", sidX, sidY).Return(true, nil)
	storageMock.On("PublishEvent", mock.AnythingOfType("models.ModerationEvent")).Return(nil)

	_, err := svc.RemoveRole([]string{sidX}, []string{"xyz"}, moderation.UserActor{SessionID: sidY})

	require.NoError(t, err)
	storageMock.AssertCalled(t, "ClearRoomModerator", "xyz", sidX, sidY)
}
