package contexts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Matcher implements the relevance rules shared by every resolver.
//
// Document values must equal the current document. Directory and project
// values must be an ancestor of (or equal to) the current directory. By
// default ancestry is a plain string-prefix test on the path text, so /foo
// is relevant to /foobar. StrictPaths requires the prefix to end at a path
// separator.
type Matcher struct {
	StrictPaths bool
}

// Relevant reports whether stored applies given the current values.
func (m Matcher) Relevant(t Type, stored string, current func(Type) (string, bool)) bool {
	switch t {
	case Directory, Project:
		dir, ok := current(Directory)
		return ok && m.IsAncestor(stored, dir)
	default:
		value, ok := current(t)
		return ok && value == stored
	}
}

// IsAncestor reports whether path lies under (or is) root.
func (m Matcher) IsAncestor(root, path string) bool {
	if root == "" {
		return false
	}
	if !m.StrictPaths {
		return strings.HasPrefix(path, root)
	}
	if path == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}

// Options configures the default resolver.
type Options struct {
	// Directory returns the current directory. Default: os.Getwd.
	Directory func() (string, error)

	// Document supplies the active document. Nil means no document context.
	Document DocumentSource

	// Projects locates project roots. Nil means no project context.
	Projects ProjectFinder

	// FollowSymlinks resolves symlinks in directory values.
	FollowSymlinks bool

	// StrictPaths makes ancestry checks path-segment aware.
	StrictPaths bool
}

type resolver struct {
	opts    Options
	matcher Matcher
}

// New creates a resolver backed by the process environment.
func New(opts Options) Resolver {
	if opts.Directory == nil {
		opts.Directory = os.Getwd
	}

	return &resolver{
		opts:    opts,
		matcher: Matcher{StrictPaths: opts.StrictPaths},
	}
}

// Current implements Resolver.Current.
func (r *resolver) Current(t Type) (string, bool) {
	switch t {
	case Directory:
		return r.directory()
	case Project:
		dir, ok := r.directory()
		if !ok || r.opts.Projects == nil {
			return "", false
		}
		return r.opts.Projects.FindRoot(dir)
	case Document:
		if r.opts.Document == nil {
			return "", false
		}
		return r.opts.Document.ActiveDocument()
	default:
		return "", false
	}
}

// Relevant implements Resolver.Relevant.
func (r *resolver) Relevant(t Type, stored string) bool {
	return r.matcher.Relevant(t, stored, r.Current)
}

func (r *resolver) directory() (string, bool) {
	dir, err := r.opts.Directory()
	if err != nil || dir == "" {
		return "", false
	}
	return NormalizePath(dir, r.opts.FollowSymlinks), true
}

// NormalizePath cleans an absolute path and optionally resolves symlinks.
// Paths that cannot be resolved are returned cleaned.
func NormalizePath(path string, followSymlinks bool) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if followSymlinks {
		if resolved, err := filepath.EvalSymlinks(path); err == nil {
			path = resolved
		}
	}
	return filepath.Clean(path)
}

// Static is a Resolver whose values are set explicitly. The zero value
// resolves nothing and is ready to use.
// It is safe for concurrent use.
type Static struct {
	Matcher

	mu     sync.RWMutex
	values map[Type]string
}

// NewStatic creates a Static resolver with the given initial values.
func NewStatic(values map[Type]string) *Static {
	s := &Static{values: make(map[Type]string, len(values))}
	for t, v := range values {
		s.values[t] = v
	}
	return s
}

// Set assigns the current value of t.
func (s *Static) Set(t Type, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = make(map[Type]string)
	}
	s.values[t] = value
}

// Unset clears the current value of t.
func (s *Static) Unset(t Type) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, t)
}

// Current implements Resolver.Current.
func (s *Static) Current(t Type) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[t]
	return v, ok
}

// Relevant implements Resolver.Relevant.
func (s *Static) Relevant(t Type, stored string) bool {
	return s.Matcher.Relevant(t, stored, s.Current)
}

// Require returns the current value of t or ErrNoContext.
func Require(r Resolver, t Type) (string, error) {
	value, ok := r.Current(t)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoContext, t)
	}
	return value, nil
}
