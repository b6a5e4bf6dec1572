// Package tracker follows the active document.
//
// The tracker consumes file events from a watcher.Watcher and treats the
// most recently created or written file as the active document. It
// satisfies contexts.DocumentSource so the document context follows what
// the user is editing. SetActive overrides the value directly.
//
// Example usage:
//
//	w, _ := watcher.New(watcher.Config{}, log)
//	tr := tracker.New(tracker.Config{WorkspaceDirs: []string{"~/src"}}, w, log)
//	res := contexts.New(contexts.Options{Document: tr})
//
//	if err := tr.Run(ctx); err != nil {
//	    log.Error("tracker failed", "error", err)
//	}
package tracker

import (
	"context"
	"time"
)

// Config holds the configuration for the tracker.
type Config struct {
	// WorkspaceDirs are watched for document activity.
	WorkspaceDirs []string
}

// Change describes an update of the active document.
type Change struct {
	// Path is the new active document, empty when cleared.
	Path string

	// Timestamp of the change.
	Timestamp time.Time
}

// Tracker reports the active document.
type Tracker interface {
	// ActiveDocument returns the active document, if any.
	ActiveDocument() (string, bool)

	// SetActive makes path the active document.
	SetActive(path string)

	// Clear forgets the active document.
	Clear()

	// Start begins consuming watcher events. It returns once the watcher
	// is running.
	Start(ctx context.Context) error

	// Run starts the tracker and blocks until ctx is done, then stops it.
	Run(ctx context.Context) error

	// Stop stops the tracker gracefully and waits for its goroutine.
	Stop() error

	// Changes returns a channel of active document updates. Updates are
	// dropped when nobody reads them.
	Changes() <-chan Change
}
