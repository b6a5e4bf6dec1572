package system

import "errors"

var (
	ErrSystemExists   = errors.New("system already registered")
	ErrSystemNil      = errors.New("system is nil")
	ErrUnknownSystem  = errors.New("unknown system")
	ErrInvalidName    = errors.New("invalid system name")
	ErrStartFailed    = errors.New("system failed to start a session")
	ErrNoContextTypes = errors.New("system declares no context types")
)
