package tracker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/0xmhha/sesslink/pkg/logger"
	"github.com/0xmhha/sesslink/pkg/watcher"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeWatcher feeds events from channels the test controls.
type fakeWatcher struct {
	events   chan watcher.Event
	errors   chan error
	startErr error
	started  []string
	stopped  bool
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{
		events: make(chan watcher.Event, 10),
		errors: make(chan error, 10),
	}
}

func (f *fakeWatcher) Start(_ context.Context, paths []string) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started = paths
	return nil
}

func (f *fakeWatcher) Stop() error {
	f.stopped = true
	return nil
}

func (f *fakeWatcher) Events() <-chan watcher.Event { return f.events }
func (f *fakeWatcher) Errors() <-chan error         { return f.errors }
func (f *fakeWatcher) Close() error                 { return nil }

func waitActive(t *testing.T, tr Tracker, want string) {
	t.Helper()
	require.Eventually(t, func() bool {
		got, _ := tr.ActiveDocument()
		return got == want
	}, time.Second, 5*time.Millisecond, "active document never became %q", want)
}

func TestSetActive(t *testing.T) {
	tr := New(Config{}, newFakeWatcher(), logger.Noop())

	_, ok := tr.ActiveDocument()
	assert.False(t, ok)

	tr.SetActive("/src/app/main.go")
	got, ok := tr.ActiveDocument()
	assert.True(t, ok)
	assert.Equal(t, "/src/app/main.go", got)

	change := <-tr.Changes()
	assert.Equal(t, "/src/app/main.go", change.Path)

	tr.Clear()
	_, ok = tr.ActiveDocument()
	assert.False(t, ok)
}

func TestSetActiveMakesAbsolute(t *testing.T) {
	tr := New(Config{}, newFakeWatcher(), nil)
	wd, err := os.Getwd()
	require.NoError(t, err)

	tr.SetActive("main.go")
	got, _ := tr.ActiveDocument()
	assert.Equal(t, filepath.Join(wd, "main.go"), got)
}

func TestFollowsEvents(t *testing.T) {
	fw := newFakeWatcher()
	tr := New(Config{WorkspaceDirs: []string{"/src"}}, fw, logger.Noop())

	require.NoError(t, tr.Start(context.Background()))
	defer func() { require.NoError(t, tr.Stop()) }()
	assert.Equal(t, []string{"/src"}, fw.started)

	fw.events <- watcher.Event{Path: "/src/a.go", Op: watcher.OpWrite}
	waitActive(t, tr, "/src/a.go")

	fw.events <- watcher.Event{Path: "/src/b.go", Op: watcher.OpCreate}
	waitActive(t, tr, "/src/b.go")

	fw.errors <- errors.New("transient")
	fw.events <- watcher.Event{Path: "/src/a.go", Op: watcher.OpRemove}
	fw.events <- watcher.Event{Path: "/src/b.go", Op: watcher.OpChmod}
	fw.events <- watcher.Event{Path: "/src/b.go", Op: watcher.OpRemove}
	waitActive(t, tr, "")
}

func TestStartErrors(t *testing.T) {
	t.Run("no workspace", func(t *testing.T) {
		tr := New(Config{}, newFakeWatcher(), logger.Noop())
		assert.ErrorIs(t, tr.Start(context.Background()), ErrNoWorkspace)
	})

	t.Run("watcher failure", func(t *testing.T) {
		fw := newFakeWatcher()
		fw.startErr = watcher.ErrInvalidPath
		tr := New(Config{WorkspaceDirs: []string{"/missing"}}, fw, logger.Noop())
		assert.ErrorIs(t, tr.Start(context.Background()), watcher.ErrInvalidPath)
	})

	t.Run("already running", func(t *testing.T) {
		tr := New(Config{WorkspaceDirs: []string{"/src"}}, newFakeWatcher(), logger.Noop())
		require.NoError(t, tr.Start(context.Background()))
		assert.ErrorIs(t, tr.Start(context.Background()), ErrTrackerRunning)
		require.NoError(t, tr.Stop())
	})

	t.Run("stop not running", func(t *testing.T) {
		tr := New(Config{}, newFakeWatcher(), logger.Noop())
		assert.ErrorIs(t, tr.Stop(), ErrTrackerNotRunning)
	})
}

func TestRunStopsOnCancel(t *testing.T) {
	fw := newFakeWatcher()
	tr := New(Config{WorkspaceDirs: []string{"/src"}}, fw, logger.Noop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tr.Run(ctx) }()

	fw.events <- watcher.Event{Path: "/src/a.go", Op: watcher.OpWrite}
	waitActive(t, tr, "/src/a.go")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}
	assert.True(t, fw.stopped)
}

func TestWithRealWatcher(t *testing.T) {
	tmpDir := t.TempDir()

	w, err := watcher.New(watcher.Config{DebounceInterval: 10 * time.Millisecond}, logger.Noop())
	require.NoError(t, err)
	defer w.Close()

	tr := New(Config{WorkspaceDirs: []string{tmpDir}}, w, logger.Noop())
	require.NoError(t, tr.Start(context.Background()))
	defer func() { _ = tr.Stop() }()

	path := filepath.Join(tmpDir, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0600))

	waitActive(t, tr, path)
}
