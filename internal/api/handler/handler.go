package handler

import (
	"errors"
	"log"
	"net/http"

	"groupmod/backend/internal/eventhub"
	"groupmod/backend/internal/identity"
	"groupmod/backend/internal/models"
	"groupmod/backend/internal/moderation"
	"groupmod/backend/internal/storage"
)

// Handler wires the management API routes to the moderation core.
type Handler struct {
	Mod       *moderation.Service
	Storage   storage.Storage
	Hub       *eventhub.Manager
	JWTSecret []byte
}

func NewHandler(mod *moderation.Service, s storage.Storage, hub *eventhub.Manager, jwtSecret []byte) *Handler {
	return &Handler{Mod: mod, Storage: s, Hub: hub, JWTSecret: jwtSecret}
}

// publish broadcasts an event, logging instead of failing the request when
// delivery is unavailable.
func (h *Handler) publish(evt models.ModerationEvent) {
	if err := h.Storage.PublishEvent(evt); err != nil {
		log.Printf("ERROR: Failed to publish %s event: %v", evt.Type, err)
	}
}

// statusFor maps the domain error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var alreadyExists *models.AlreadyExistsError
	var noSuchRoom *models.NoSuchRoomError
	var storageErr *models.StorageError

	switch {
	case errors.As(err, &alreadyExists):
		return http.StatusConflict
	case errors.As(err, &noSuchRoom):
		return http.StatusNotFound
	case errors.As(err, &storageErr):
		return http.StatusServiceUnavailable
	case errors.Is(err, identity.ErrInvalidSessionID),
		errors.Is(err, identity.ErrInvalidRoomToken),
		errors.Is(err, moderation.ErrScopeConflict),
		errors.Is(err, moderation.ErrEmptyScope):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
