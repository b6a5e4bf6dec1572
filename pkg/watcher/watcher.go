package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/0xmhha/sesslink/pkg/discovery"
	"github.com/0xmhha/sesslink/pkg/logger"
)

var defaultIgnoreDirs = []string{".git", ".hg", "node_modules"}

// watcher implements the Watcher interface using fsnotify.
type watcher struct {
	fsw    *fsnotify.Watcher
	logger logger.Logger
	config Config

	events chan Event
	errors chan error

	mu       sync.RWMutex
	running  bool
	stopped  bool
	closed   bool
	stopChan chan struct{}
	wg       sync.WaitGroup

	// Debouncing state.
	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	// Circuit breaker state.
	failureCount int
}

// New creates a new file system watcher.
//
// Parameters:
//   - cfg: Watcher configuration (debounce, extensions, ignored dirs)
//   - log: Logger instance
//
// Returns:
//   - Configured Watcher, not yet started
//   - Error if the underlying fsnotify watcher cannot be created
func New(cfg Config, log logger.Logger) (Watcher, error) {
	if cfg.DebounceInterval == 0 {
		cfg.DebounceInterval = 100 * time.Millisecond
	}
	if cfg.IgnoreDirs == nil {
		cfg.IgnoreDirs = defaultIgnoreDirs
	}
	if cfg.CircuitBreakerThreshold == 0 {
		cfg.CircuitBreakerThreshold = 5
	}
	if log == nil {
		log = logger.Noop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &watcher{
		fsw:            fsw,
		logger:         log.Named("watcher"),
		config:         cfg,
		events:         make(chan Event, 100),
		errors:         make(chan error, 10),
		stopChan:       make(chan struct{}),
		debounceTimers: make(map[string]*time.Timer),
	}

	w.logger.Debug("file watcher created",
		"debounce_interval", cfg.DebounceInterval,
		"extensions", cfg.Extensions)

	return w, nil
}

// Start implements Watcher.Start.
func (w *watcher) Start(ctx context.Context, paths []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.running || w.stopped {
		return ErrAlreadyStarted
	}

	expandedPaths := make([]string, 0, len(paths))
	for _, path := range paths {
		expanded := discovery.ExpandHome(path)

		if _, err := os.Stat(expanded); err != nil {
			if os.IsNotExist(err) {
				w.logger.Warn("watch path does not exist, skipping", "path", expanded)
				continue
			}
			return fmt.Errorf("failed to stat path %s: %w", expanded, err)
		}

		expandedPaths = append(expandedPaths, expanded)
	}

	if len(expandedPaths) == 0 {
		return ErrInvalidPath
	}

	for _, path := range expandedPaths {
		if err := w.addPathRecursive(path); err != nil {
			return fmt.Errorf("failed to add path %s: %w", path, err)
		}
	}

	w.running = true
	w.logger.Info("watcher started", "paths", expandedPaths)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.processEvents(ctx)
	}()

	return nil
}

// Stop implements Watcher.Stop.
func (w *watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if !w.running {
		return ErrNotStarted
	}

	close(w.stopChan)
	w.running = false
	w.stopped = true

	w.logger.Info("watcher stopped")
	return nil
}

// Events implements Watcher.Events.
func (w *watcher) Events() <-chan Event {
	return w.events
}

// Errors implements Watcher.Errors.
func (w *watcher) Errors() <-chan error {
	return w.errors
}

// Close implements Watcher.Close.
func (w *watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.running {
		close(w.stopChan)
		w.running = false
	}
	w.mu.Unlock()

	// The processing goroutine exits on stopChan; wait before closing the
	// channels it writes to.
	w.wg.Wait()

	w.debounceMu.Lock()
	for _, timer := range w.debounceTimers {
		timer.Stop()
	}
	w.debounceTimers = nil
	w.debounceMu.Unlock()

	err := w.fsw.Close()

	// Timer callbacks check closed under mu before sending.
	w.mu.Lock()
	close(w.events)
	close(w.errors)
	w.mu.Unlock()

	if err != nil {
		w.logger.Error("failed to close fsnotify watcher", "error", err)
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	w.logger.Debug("watcher closed")
	return nil
}

// processEvents handles events from fsnotify.
func (w *watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("event processing stopped", "reason", "context cancelled")
			return

		case <-w.stopChan:
			w.logger.Debug("event processing stopped", "reason", "stop signal")
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				w.logger.Warn("fsnotify events channel closed")
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				w.logger.Warn("fsnotify errors channel closed")
				return
			}
			w.handleError(err)
		}
	}
}

// handleEvent processes a single fsnotify event with debouncing.
func (w *watcher) handleEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !w.ignored(filepath.Base(event.Name)) {
				if err := w.addPathRecursive(event.Name); err != nil {
					w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
				}
			}
			return
		}
	}

	if !w.matches(event.Name) {
		return
	}

	var op Op
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
	case event.Has(fsnotify.Write):
		op = OpWrite
	case event.Has(fsnotify.Remove):
		op = OpRemove
	case event.Has(fsnotify.Rename):
		op = OpRename
	case event.Has(fsnotify.Chmod):
		op = OpChmod
	default:
		w.logger.Debug("unknown fsnotify operation", "op", event.Op, "path", event.Name)
		return
	}

	// A healthy event closes the breaker.
	w.mu.Lock()
	w.failureCount = 0
	w.mu.Unlock()

	w.debounceEvent(Event{
		Path:      event.Name,
		Op:        op,
		Timestamp: time.Now(),
	})
}

// matches reports whether path passes the extension filter.
func (w *watcher) matches(path string) bool {
	if len(w.config.Extensions) == 0 {
		return true
	}
	for _, ext := range w.config.Extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func (w *watcher) ignored(name string) bool {
	for _, dir := range w.config.IgnoreDirs {
		if name == dir {
			return true
		}
	}
	return false
}

// debounceEvent implements event debouncing.
func (w *watcher) debounceEvent(event Event) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimers == nil {
		return
	}
	if timer, exists := w.debounceTimers[event.Path]; exists {
		timer.Stop()
	}

	w.debounceTimers[event.Path] = time.AfterFunc(w.config.DebounceInterval, func() {
		w.emit(event)

		w.debounceMu.Lock()
		if w.debounceTimers != nil {
			delete(w.debounceTimers, event.Path)
		}
		w.debounceMu.Unlock()
	})
}

// emit delivers event unless the watcher is closed. A full channel drops
// the event.
func (w *watcher) emit(event Event) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		return
	}

	select {
	case w.events <- event:
	default:
		w.logger.Warn("event channel full, dropping event", "path", event.Path)
	}
}

// handleError processes fsnotify errors with circuit breaker pattern.
func (w *watcher) handleError(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.failureCount++
	w.logger.Error("fsnotify error", "error", err, "failure_count", w.failureCount)

	if w.failureCount >= w.config.CircuitBreakerThreshold {
		w.logger.Error("circuit breaker opened", "threshold", w.config.CircuitBreakerThreshold)
		err = ErrCircuitBreakerOpen
	}

	select {
	case w.errors <- err:
	default:
		w.logger.Warn("error channel full, dropping error")
	}
}

// addPathRecursive adds a path and all subdirectories not ignored.
func (w *watcher) addPathRecursive(path string) error {
	if err := w.fsw.Add(path); err != nil {
		return fmt.Errorf("failed to add path: %w", err)
	}
	w.logger.Debug("added watch path", "path", path)

	return filepath.WalkDir(path, func(subPath string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("error walking path", "path", subPath, "error", err)
			return nil
		}
		if !d.IsDir() || subPath == path {
			return nil
		}
		if w.ignored(d.Name()) {
			return filepath.SkipDir
		}

		if addErr := w.fsw.Add(subPath); addErr != nil {
			w.logger.Warn("failed to add subdirectory", "path", subPath, "error", addErr)
			return nil
		}
		w.logger.Debug("added watch subdirectory", "path", subPath)
		return nil
	})
}
