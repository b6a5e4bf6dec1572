package tracker

import "errors"

var (
	// ErrTrackerRunning is returned when trying to start a running tracker.
	ErrTrackerRunning = errors.New("tracker is already running")

	// ErrTrackerNotRunning is returned when trying to stop a tracker that is not running.
	ErrTrackerNotRunning = errors.New("tracker is not running")

	// ErrNoWorkspace is returned when no workspace directory is configured.
	ErrNoWorkspace = errors.New("no workspace directories configured")
)
