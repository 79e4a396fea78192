package moderation

import (
	"groupmod/backend/internal/config"
	"groupmod/backend/internal/identity"
	"groupmod/backend/internal/models"
)

// Scope is a resolved role-change target: either the global scope or a
// concrete, ordered list of rooms.
type Scope struct {
	Global bool
	Rooms  []models.Room
}

// ResolveScope interprets a scope specifier: a non-empty list of room tokens,
// the single sentinel "+" (global scope), or the single sentinel "*" (a
// snapshot of all current rooms, taken now — rooms created afterwards are not
// included, and rooms deleted before the apply phase surface as per-target
// failures rather than resolver errors).
//
// Resolution is all-or-nothing: one unknown explicit token fails the whole
// scope, and nothing is applied.
func (s *Service) ResolveScope(tokens []string) (*Scope, error) {
	if len(tokens) == 0 {
		return nil, ErrEmptyScope
	}

	if len(tokens) > 1 {
		for _, t := range tokens {
			if t == config.GlobalScopeToken || t == config.AllRoomsScopeToken {
				return nil, ErrScopeConflict
			}
		}
	}

	switch tokens[0] {
	case config.GlobalScopeToken:
		return &Scope{Global: true}, nil
	case config.AllRoomsScopeToken:
		rooms, err := s.Storage.ListRooms()
		if err != nil {
			return nil, err
		}
		return &Scope{Rooms: rooms}, nil
	}

	rooms := make([]models.Room, 0, len(tokens))
	for _, t := range tokens {
		token, err := identity.ParseRoomToken(t)
		if err != nil {
			return nil, err
		}
		room, err := s.Storage.GetRoomByToken(token)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, *room)
	}
	return &Scope{Rooms: rooms}, nil
}
