package moderation

import "errors"

// ErrScopeConflict is returned when the global ("+") or all-rooms ("*")
// sentinel is combined with any other room token in one scope.
var ErrScopeConflict = errors.New("'+'/'*' scopes cannot be combined with other rooms")

// ErrEmptyScope is returned when a role-change request names no scope at all.
var ErrEmptyScope = errors.New("no rooms given")
