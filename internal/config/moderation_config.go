package config

import "time"

const (
	// Visibility defaults when the caller does not choose one explicitly.
	// Room-scoped roles are public by default; global roles are hidden.
	DefaultRoomVisible   = true
	DefaultGlobalVisible = false

	// Scope sentinels accepted by the management surfaces.
	GlobalScopeToken   = "+"
	AllRoomsScopeToken = "*"

	// SystemActorID is the audit attribution used for operator-driven
	// actions that carry no authenticated session.
	SystemActorID = "system"

	// EventsChannel is the Redis Pub/Sub channel carrying moderation events.
	EventsChannel = "moderation:events"
)

// ActiveUserWindows are the trailing windows reported in room statistics.
var ActiveUserWindows = []time.Duration{
	7 * 24 * time.Hour,
	14 * 24 * time.Hour,
	30 * 24 * time.Hour,
}
