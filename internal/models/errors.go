package models

import "fmt"

// AlreadyExistsError reports a room-creation token collision.
type AlreadyExistsError struct {
	Token string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("room '%s' already exists", e.Token)
}

// NoSuchRoomError reports a lookup or scope-resolution miss.
type NoSuchRoomError struct {
	Token string
}

func (e *NoSuchRoomError) Error() string {
	return fmt.Sprintf("no such room '%s'", e.Token)
}

// StorageError wraps a transient database or cache failure so callers can
// tell it apart from the domain errors above and retry if they want to.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
