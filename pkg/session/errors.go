package session

import "errors"

// Common errors returned by the session store.
var (
	// ErrNilSession is returned when a nil session is passed to the store.
	ErrNilSession = errors.New("session is nil")

	// ErrEmptyName is returned when a session has no name.
	ErrEmptyName = errors.New("session name cannot be empty")

	// ErrSessionNotFound is returned when no session is stored under a key.
	ErrSessionNotFound = errors.New("session not found")
)
