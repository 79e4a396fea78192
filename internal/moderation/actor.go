package moderation

import "groupmod/backend/internal/config"

// Actor is the principal a moderation action is attributed to. It is only
// used for audit attribution; holding an Actor grants no role by itself.
type Actor interface {
	// ActorID returns the attribution string stored in audit entries and
	// broadcast in moderation events.
	ActorID() string
}

// SystemActor represents an operator-driven management action with no
// authenticated session behind it (the admin CLI, maintenance jobs).
type SystemActor struct{}

func (SystemActor) ActorID() string { return config.SystemActorID }

// UserActor represents an ordinary user acting through an authenticated
// session.
type UserActor struct {
	SessionID string
}

func (a UserActor) ActorID() string { return a.SessionID }
