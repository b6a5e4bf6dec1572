package tracker

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/0xmhha/sesslink/pkg/logger"
	"github.com/0xmhha/sesslink/pkg/watcher"
)

// tracker implements the Tracker interface.
type tracker struct {
	config  Config
	logger  logger.Logger
	watcher watcher.Watcher

	mu       sync.RWMutex
	active   string
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup

	changes chan Change
}

// New creates a tracker fed by w.
func New(cfg Config, w watcher.Watcher, log logger.Logger) Tracker {
	if log == nil {
		log = logger.Noop()
	}

	return &tracker{
		config:  cfg,
		logger:  log.Named("tracker"),
		watcher: w,
		changes: make(chan Change, 10),
	}
}

// ActiveDocument implements Tracker.ActiveDocument.
func (t *tracker) ActiveDocument() (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active, t.active != ""
}

// SetActive implements Tracker.SetActive.
func (t *tracker) SetActive(path string) {
	if path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	t.mu.Lock()
	if t.active == path {
		t.mu.Unlock()
		return
	}
	t.active = path
	t.mu.Unlock()

	t.logger.Debug("active document changed", "path", path)
	t.notify(path)
}

// Clear implements Tracker.Clear.
func (t *tracker) Clear() {
	t.SetActive("")
}

func (t *tracker) notify(path string) {
	select {
	case t.changes <- Change{Path: path, Timestamp: time.Now()}:
	default:
	}
}

// Changes implements Tracker.Changes.
func (t *tracker) Changes() <-chan Change {
	return t.changes
}

// Start implements Tracker.Start.
func (t *tracker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return ErrTrackerRunning
	}
	if len(t.config.WorkspaceDirs) == 0 {
		return ErrNoWorkspace
	}

	if err := t.watcher.Start(ctx, t.config.WorkspaceDirs); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	t.running = true
	t.stopChan = make(chan struct{})

	t.wg.Add(1)
	go func(stop <-chan struct{}) {
		defer t.wg.Done()
		t.processEvents(ctx, stop)
	}(t.stopChan)

	t.logger.Info("tracker started", "workspace_dirs", t.config.WorkspaceDirs)
	return nil
}

// Run implements Tracker.Run.
func (t *tracker) Run(ctx context.Context) error {
	if err := t.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()

	if err := t.Stop(); err != nil && err != ErrTrackerNotRunning {
		return err
	}
	return nil
}

// Stop implements Tracker.Stop.
func (t *tracker) Stop() error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return ErrTrackerNotRunning
	}
	close(t.stopChan)
	t.running = false
	t.mu.Unlock()

	t.wg.Wait()

	if err := t.watcher.Stop(); err != nil {
		t.logger.Warn("failed to stop watcher", "error", err)
	}

	t.logger.Info("tracker stopped")
	return nil
}

// processEvents applies watcher events until stopped.
func (t *tracker) processEvents(ctx context.Context, stop <-chan struct{}) {
	events := t.watcher.Events()
	errs := t.watcher.Errors()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			t.handleEvent(event)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			t.logger.Warn("watcher error", "error", err)
		}
	}
}

func (t *tracker) handleEvent(event watcher.Event) {
	switch event.Op {
	case watcher.OpCreate, watcher.OpWrite:
		t.SetActive(event.Path)
	case watcher.OpRemove, watcher.OpRename:
		if current, ok := t.ActiveDocument(); ok && current == event.Path {
			t.Clear()
		}
	}
}
