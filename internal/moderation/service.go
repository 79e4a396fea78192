// Package moderation implements the role-assignment model: resolving scope
// specifiers, validating identities, and applying add/remove role transitions
// through the storage layer with per-target outcome reporting.
package moderation

import (
	"fmt"
	"log"
	"time"

	"groupmod/backend/internal/identity"
	"groupmod/backend/internal/models"
	"groupmod/backend/internal/storage"
)

// Visibility is the caller's visibility choice for an add-role request.
// The zero value defers to the scope default: visible for room scope,
// hidden for global scope. Visible and hidden cannot both be requested;
// the enum makes that structurally impossible.
type Visibility int

const (
	VisibilityDefault Visibility = iota
	VisibilityVisible
	VisibilityHidden
)

// Service orchestrates role changes against the storage layer.
type Service struct {
	Storage storage.Storage
}

// NewService creates a new moderation service.
func NewService(s storage.Storage) *Service {
	return &Service{Storage: s}
}

// validateSessionIDs canonicalizes every identity up front. One malformed ID
// fails the whole request before anything is mutated.
func validateSessionIDs(raw []string) ([]string, error) {
	ids := make([]string, 0, len(raw))
	for _, r := range raw {
		id, err := identity.ParseSessionID(r)
		if err != nil {
			return nil, fmt.Errorf("%w: '%s'", err, r)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// AddRole adds every identity as a moderator (or admin) of every target in
// the scope. Validation and scope resolution happen before any mutation;
// after that, each (identity, target) pair is applied independently and an
// apply failure on one pair does not abort the rest.
func (s *Service) AddRole(sessionIDs, scopeTokens []string, admin bool, vis Visibility, actor Actor) (*Report, error) {
	ids, err := validateSessionIDs(sessionIDs)
	if err != nil {
		return nil, err
	}
	scope, err := s.ResolveScope(scopeTokens)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	if scope.Global {
		visible := vis == VisibilityVisible // hidden is the global default
		for _, id := range ids {
			res := TargetResult{SessionID: id, Global: true, Admin: admin, Visible: visible}
			if _, err := s.Storage.GetOrCreateUser(id); err != nil {
				res.Err = err
				report.add(res)
				continue
			}
			if err := s.Storage.SetGlobalRole(id, admin, visible, actor.ActorID()); err != nil {
				res.Err = err
				report.add(res)
				continue
			}
			res.Outcome = OutcomeApplied
			report.add(res)
			s.publish(models.EventRoleAdded, "", id, admin, visible, actor)
		}
		return report, nil
	}

	visible := vis != VisibilityHidden // visible is the room default
	for _, id := range ids {
		if _, err := s.Storage.GetOrCreateUser(id); err != nil {
			for _, room := range scope.Rooms {
				report.add(TargetResult{SessionID: id, RoomToken: room.Token, Admin: admin, Visible: visible, Err: err})
			}
			continue
		}
		for _, room := range scope.Rooms {
			res := TargetResult{SessionID: id, RoomToken: room.Token, Admin: admin, Visible: visible}
			// A room deleted between resolution and apply shows up here as
			// this pair's NoSuchRoom error.
			if err := s.Storage.SetRoomModerator(room.Token, id, admin, visible, actor.ActorID()); err != nil {
				res.Err = err
				report.add(res)
				continue
			}
			res.Outcome = OutcomeApplied
			report.add(res)
			s.publish(models.EventRoleAdded, room.Token, id, admin, visible, actor)
		}
	}
	return report, nil
}

// RemoveRole removes every identity as moderator and admin from every target
// in the scope. Global removal reports a no-op when the user held no global
// role; room removal reports a no-op when no entry existed.
func (s *Service) RemoveRole(sessionIDs, scopeTokens []string, actor Actor) (*Report, error) {
	ids, err := validateSessionIDs(sessionIDs)
	if err != nil {
		return nil, err
	}
	scope, err := s.ResolveScope(scopeTokens)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	if scope.Global {
		for _, id := range ids {
			res := TargetResult{SessionID: id, Global: true}
			held, err := s.Storage.ClearGlobalRole(id, actor.ActorID())
			if err != nil {
				res.Err = err
				report.add(res)
				continue
			}
			if held {
				res.Outcome = OutcomeApplied
				s.publish(models.EventRoleRemoved, "", id, false, false, actor)
			} else {
				res.Outcome = OutcomeNoOp
			}
			report.add(res)
		}
		return report, nil
	}

	for _, id := range ids {
		for _, room := range scope.Rooms {
			res := TargetResult{SessionID: id, RoomToken: room.Token}
			removed, err := s.Storage.ClearRoomModerator(room.Token, id, actor.ActorID())
			if err != nil {
				res.Err = err
				report.add(res)
				continue
			}
			if removed {
				res.Outcome = OutcomeApplied
				s.publish(models.EventRoleRemoved, room.Token, id, false, false, actor)
			} else {
				res.Outcome = OutcomeNoOp
			}
			report.add(res)
		}
	}
	return report, nil
}

// Ban blocks a user service-wide and returns the canonical Session ID. The
// user record is created on first reference, so banning a never-seen identity
// still persists the flag instead of updating zero rows.
func (s *Service) Ban(rawID string, actor Actor) (string, error) {
	id, err := identity.ParseSessionID(rawID)
	if err != nil {
		return "", fmt.Errorf("%w: '%s'", err, rawID)
	}
	if _, err := s.Storage.GetOrCreateUser(id); err != nil {
		return "", err
	}
	if err := s.Storage.BanUser(id, actor.ActorID()); err != nil {
		return "", err
	}
	s.publish(models.EventUserBanned, "", id, false, false, actor)
	return id, nil
}

// Unban lifts a service-wide ban and returns the canonical Session ID.
func (s *Service) Unban(rawID string, actor Actor) (string, error) {
	id, err := identity.ParseSessionID(rawID)
	if err != nil {
		return "", fmt.Errorf("%w: '%s'", err, rawID)
	}
	if err := s.Storage.UnbanUser(id, actor.ActorID()); err != nil {
		return "", err
	}
	s.publish(models.EventUserUnbanned, "", id, false, false, actor)
	return id, nil
}

// publish broadcasts a moderation event. Event delivery is advisory: a
// publish failure is logged and never fails the role change it describes.
func (s *Service) publish(eventType, roomToken, sessionID string, admin, visible bool, actor Actor) {
	evt := models.ModerationEvent{
		Type:      eventType,
		RoomToken: roomToken,
		SessionID: sessionID,
		Admin:     admin,
		Visible:   visible,
		Actor:     actor.ActorID(),
		At:        time.Now(),
	}
	if err := s.Storage.PublishEvent(evt); err != nil {
		log.Printf("ERROR: Failed to publish %s event for %s: %v", eventType, sessionID, err)
	}
}
