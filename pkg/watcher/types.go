// Package watcher provides real-time file system monitoring.
//
// It uses fsnotify to watch workspace directories for document activity
// and debounces rapid updates to the same file. Directories created while
// watching are added automatically.
//
// Example usage:
//
//	w, err := watcher.New(watcher.Config{
//	    DebounceInterval: 100 * time.Millisecond,
//	    Extensions:       []string{".go", ".md"},
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	if err := w.Start(ctx, []string{"~/src"}); err != nil {
//	    log.Fatal(err)
//	}
//
//	for event := range w.Events() {
//	    fmt.Printf("File %s: %s\n", event.Path, event.Op)
//	}
package watcher

import (
	"context"
	"time"
)

// Op describes a file operation type.
type Op uint32

// File operation types.
const (
	OpCreate Op = 1 << iota // File created
	OpWrite                 // File modified
	OpRemove                // File deleted
	OpRename                // File renamed/moved
	OpChmod                 // File permissions changed
)

// String returns a human-readable operation name.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpWrite:
		return "WRITE"
	case OpRemove:
		return "REMOVE"
	case OpRename:
		return "RENAME"
	case OpChmod:
		return "CHMOD"
	default:
		return "UNKNOWN"
	}
}

// Event represents a file system event.
type Event struct {
	// Path is the absolute path to the file that triggered the event.
	Path string

	// Op is the operation that triggered the event.
	Op Op

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Watcher provides file system monitoring.
type Watcher interface {
	// Start begins watching the specified paths and returns once the
	// watches are installed. Events flow until ctx is cancelled, Stop or
	// Close is called.
	Start(ctx context.Context, paths []string) error

	// Stop halts event processing. The watcher cannot be restarted.
	Stop() error

	// Events returns the channel for receiving debounced file events.
	// The channel is closed by Close.
	Events() <-chan Event

	// Errors returns the channel for receiving non-fatal watcher errors.
	// The channel is closed by Close.
	Errors() <-chan error

	// Close stops the watcher, waits for its goroutines and releases
	// resources.
	Close() error
}

// Config contains watcher configuration.
type Config struct {
	// DebounceInterval is the time to wait before emitting an event.
	// Multiple events for the same file within this interval are coalesced.
	// Default: 100ms.
	DebounceInterval time.Duration

	// Extensions restricts events to files with these suffixes.
	// Empty means every file.
	Extensions []string

	// IgnoreDirs are directory names never descended into.
	// Default: .git, .hg, node_modules.
	IgnoreDirs []string

	// CircuitBreakerThreshold is the number of consecutive failures
	// before the circuit breaker opens.
	// Default: 5.
	CircuitBreakerThreshold int
}
