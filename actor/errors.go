package actor

import "errors"

// Sentinel errors for identity extraction.
var (
	ErrMissingToken   = errors.New("actor: missing bearer token")
	ErrTokenMalformed = errors.New("actor: token malformed")
	ErrTokenExpired   = errors.New("actor: token expired")
	ErrUnknownRole    = errors.New("actor: unknown role")
	ErrMissingSubject = errors.New("actor: token has no subject")
)
