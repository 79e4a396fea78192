// Package identity validates the syntactic contracts of the two identifiers
// the whole backend is keyed on: Session IDs and room tokens. It performs no
// lookups and has no dependencies on storage.
package identity

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidSessionID is returned for strings that are not a 66-character
// hex-encoded Session ID starting with "05".
var ErrInvalidSessionID = errors.New("invalid session id")

// ErrInvalidRoomToken is returned for strings that are not 1-64 characters
// of [A-Za-z0-9_-].
var ErrInvalidRoomToken = errors.New("invalid room token")

var (
	sessionIDRe = regexp.MustCompile(`^05[0-9a-fA-F]{64}$`)
	roomTokenRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

// ParseSessionID validates a Session public identifier (33 bytes hex-encoded,
// "05" prefix) and returns its canonical lowercase form.
func ParseSessionID(s string) (string, error) {
	if !sessionIDRe.MatchString(s) {
		return "", ErrInvalidSessionID
	}
	return strings.ToLower(s), nil
}

// ParseRoomToken validates a room token and returns it unchanged. Tokens are
// case-sensitive, so no canonicalization happens here.
func ParseRoomToken(s string) (string, error) {
	if !roomTokenRe.MatchString(s) {
		return "", ErrInvalidRoomToken
	}
	return s, nil
}
