package config

import "errors"

// Common errors returned by the config package.
var (
	// ErrInvalidContextType is returned when a one-to-one type name is empty.
	ErrInvalidContextType = errors.New("invalid context type: must not be empty")

	// ErrNoWorkspaceDirs is returned when the tracker is enabled without workspace directories.
	ErrNoWorkspaceDirs = errors.New("tracker enabled but no workspace directories specified")

	// ErrInvalidDebounceInterval is returned when debounce interval is <= 0.
	ErrInvalidDebounceInterval = errors.New("invalid debounce interval: must be > 0")

	// ErrInvalidMaxDistance is returned when max distance is < -1.
	ErrInvalidMaxDistance = errors.New("invalid max distance: must be >= -1")

	// ErrInvalidKillTimeout is returned when kill timeout is <= 0.
	ErrInvalidKillTimeout = errors.New("invalid kill timeout: must be > 0")

	// ErrInvalidDisplayFormat is returned when display format is not recognized.
	ErrInvalidDisplayFormat = errors.New("invalid display format: must be table, json, or simple")

	// ErrInvalidLogLevel is returned when log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level: must be debug, info, warn, or error")

	// ErrInvalidLogFormat is returned when log format is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrConfigNotFound is returned when config file is not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidYAML is returned when config file has invalid YAML syntax.
	ErrInvalidYAML = errors.New("invalid YAML syntax in config file")
)
