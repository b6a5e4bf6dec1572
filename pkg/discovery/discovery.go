// Package discovery locates project roots.
//
// A project root is the nearest directory, walking up from a starting
// directory, that contains one of the configured marker entries (".git",
// "go.mod" and so on). Lookups are cached per starting directory.
//
// Example usage:
//
//	f := discovery.New([]string{".git", "go.mod"}, logger.Default())
//	root, ok := f.FindRoot("/src/app/internal/api")
//	if ok {
//	    fmt.Printf("Project: %s\n", root)
//	}
//	projects, err := f.Discover([]string{"~/src"})
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Logger defines the logging interface used by the discovery package.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// DefaultMarkers are used when no markers are configured.
var DefaultMarkers = []string{".git", ".hg", "go.mod", "package.json", "Cargo.toml", "pyproject.toml"}

// Project is a discovered project root.
type Project struct {
	// Root is the absolute project directory.
	Root string

	// Marker is the entry that identified the root.
	Marker string
}

// Finder locates project roots.
type Finder interface {
	// FindRoot returns the project root containing dir.
	//
	// Returns false when no ancestor of dir carries a marker.
	FindRoot(dir string) (string, bool)

	// Discover scans the immediate subdirectories of each base directory
	// and returns those that are project roots, sorted by path.
	//
	// Missing base directories are skipped with a warning.
	Discover(baseDirs []string) ([]Project, error)

	// Invalidate drops cached lookups.
	Invalidate()
}

// finder implements the Finder interface.
type finder struct {
	markers []string
	logger  Logger

	mu    sync.RWMutex
	cache map[string]string // start dir -> root, "" when none
}

// New creates a new Finder instance.
//
// Parameters:
//   - markers: Entry names that mark a project root (DefaultMarkers when empty)
//   - logger: Logger instance for diagnostic messages
//
// Returns a Finder with an empty root cache.
func New(markers []string, logger Logger) Finder {
	if len(markers) == 0 {
		markers = DefaultMarkers
	}
	return &finder{
		markers: markers,
		logger:  logger,
		cache:   make(map[string]string),
	}
}

// FindRoot implements Finder.FindRoot.
func (f *finder) FindRoot(dir string) (string, bool) {
	if dir == "" {
		return "", false
	}
	start := filepath.Clean(expandHome(dir))

	f.mu.RLock()
	root, cached := f.cache[start]
	f.mu.RUnlock()
	if cached {
		return root, root != ""
	}

	for current := start; ; {
		if marker, ok := f.marker(current); ok {
			root = current
			f.logger.Debug("project root found", "dir", start, "root", root, "marker", marker)
			break
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	f.mu.Lock()
	f.cache[start] = root
	f.mu.Unlock()

	return root, root != ""
}

// marker returns the first configured marker present in dir.
func (f *finder) marker(dir string) (string, bool) {
	for _, m := range f.markers {
		if _, err := os.Stat(filepath.Join(dir, m)); err == nil {
			return m, true
		}
	}
	return "", false
}

// Discover implements Finder.Discover.
func (f *finder) Discover(baseDirs []string) ([]Project, error) {
	var projects []Project

	for _, baseDir := range baseDirs {
		expandedDir := expandHome(baseDir)

		if _, err := os.Stat(expandedDir); err != nil {
			if os.IsNotExist(err) {
				f.logger.Warn("directory not found, skipping", "path", expandedDir)
				continue
			}
			return nil, fmt.Errorf("failed to stat directory %s: %w", expandedDir, err)
		}

		found, err := f.scanBaseDirectory(expandedDir)
		if err != nil {
			return nil, fmt.Errorf("failed to scan directory %s: %w", expandedDir, err)
		}
		projects = append(projects, found...)
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].Root < projects[j].Root
	})

	f.logger.Info("discovery complete", "total_projects", len(projects))
	return projects, nil
}

// scanBaseDirectory returns the subdirectories of baseDir that carry a marker.
func (f *finder) scanBaseDirectory(baseDir string) ([]Project, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}

	var projects []Project
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		dir := filepath.Join(baseDir, entry.Name())
		marker, ok := f.marker(dir)
		if !ok {
			f.logger.Debug("skipping directory without marker", "path", dir)
			continue
		}

		abs, err := filepath.Abs(dir)
		if err != nil {
			abs = dir
		}
		projects = append(projects, Project{Root: abs, Marker: marker})
	}

	return projects, nil
}

// Invalidate implements Finder.Invalidate.
func (f *finder) Invalidate() {
	f.mu.Lock()
	f.cache = make(map[string]string)
	f.mu.Unlock()
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(path string) string {
	return expandHome(path)
}

// expandHome expands ~ in file paths to the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	return filepath.Join(homeDir, path[2:])
}
