package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements Logger interface for testing.
type mockLogger struct {
	debugCalls []string
	infoCalls  []string
	warnCalls  []string
	errorCalls []string
}

func (m *mockLogger) Debug(msg string, keysAndValues ...interface{}) {
	m.debugCalls = append(m.debugCalls, msg)
}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{}) {
	m.infoCalls = append(m.infoCalls, msg)
}

func (m *mockLogger) Warn(msg string, keysAndValues ...interface{}) {
	m.warnCalls = append(m.warnCalls, msg)
}

func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {
	m.errorCalls = append(m.errorCalls, msg)
}

func TestNew(t *testing.T) {
	f := New(nil, &mockLogger{})
	if f == nil {
		t.Fatal("New() returned nil")
	}
	assert.Equal(t, DefaultMarkers, f.(*finder).markers)
}

func TestFindRoot(t *testing.T) {
	tmpDir := t.TempDir()

	// tmpDir/
	//   app/            go.mod
	//     internal/api/
	//     vendor/lib/   .git
	//   loose/
	app := filepath.Join(tmpDir, "app")
	api := filepath.Join(app, "internal", "api")
	lib := filepath.Join(app, "vendor", "lib")
	loose := filepath.Join(tmpDir, "loose")

	for _, dir := range []string{api, filepath.Join(lib, ".git"), loose} {
		require.NoError(t, os.MkdirAll(dir, 0o700))
	}
	createFile(t, filepath.Join(app, "go.mod"), "module app")

	f := New([]string{".git", "go.mod"}, &mockLogger{})

	tests := []struct {
		name   string
		dir    string
		want   string
		wantOK bool
	}{
		{"root itself", app, app, true},
		{"nested directory", api, app, true},
		{"nearest marker wins", lib, lib, true},
		{"no marker", loose, "", false},
		{"empty dir", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := f.FindRoot(tt.dir)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindRootCache(t *testing.T) {
	tmpDir := t.TempDir()
	dir := filepath.Join(tmpDir, "proj")
	require.NoError(t, os.MkdirAll(dir, 0o700))

	f := New([]string{"go.mod"}, &mockLogger{})

	_, ok := f.FindRoot(dir)
	require.False(t, ok)

	createFile(t, filepath.Join(dir, "go.mod"), "module proj")

	_, ok = f.FindRoot(dir)
	assert.False(t, ok, "cached miss should persist until Invalidate")

	f.Invalidate()

	root, ok := f.FindRoot(dir)
	assert.True(t, ok)
	assert.Equal(t, dir, root)
}

func TestDiscover(t *testing.T) {
	tmpDir := t.TempDir()

	// tmpDir/
	//   beta/     .git
	//   alpha/    package.json
	//   notes/
	//   .cache/   go.mod (hidden, ignored)
	//   readme.txt
	for _, dir := range []string{"alpha", "notes", ".cache", filepath.Join("beta", ".git")} {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, dir), 0o700))
	}
	createFile(t, filepath.Join(tmpDir, "alpha", "package.json"), "{}")
	createFile(t, filepath.Join(tmpDir, ".cache", "go.mod"), "module cache")
	createFile(t, filepath.Join(tmpDir, "readme.txt"), "ignored")

	logger := &mockLogger{}
	f := New(nil, logger)

	projects, err := f.Discover([]string{tmpDir, filepath.Join(tmpDir, "missing")})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	want := []Project{
		{Root: filepath.Join(tmpDir, "alpha"), Marker: "package.json"},
		{Root: filepath.Join(tmpDir, "beta"), Marker: ".git"},
	}
	assert.Equal(t, want, projects)
	assert.Len(t, logger.warnCalls, 1, "missing base dir should warn")
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"~", home},
		{"~/src", filepath.Join(home, "src")},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandHome(tt.input))
		})
	}
}

func createFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}
