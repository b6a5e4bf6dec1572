// Package process is a system whose sessions are OS processes.
//
// Each session runs the configured command in the directory it was started
// from. Sessions rank most recently used first and are friendly to any
// directory below their own. With no command configured, sessions carry a
// handle but no process, which is enough to exercise linking.
//
// Example usage:
//
//	sys := process.New(process.Config{Command: "python3", Args: []string{"-i"}}, log)
//	if err := reg.RegisterSystem(sys); err != nil {
//	    log.Fatal(err)
//	}
//	s, err := reg.StartSession(ctx, process.Name)
package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/0xmhha/sesslink/pkg/contexts"
	"github.com/0xmhha/sesslink/pkg/logger"
	"github.com/0xmhha/sesslink/pkg/session"
	"github.com/0xmhha/sesslink/pkg/system"
)

// Name is the default system name.
const Name = "process"

// ErrNotProcessSession is returned for sessions this system did not start.
var ErrNotProcessSession = errors.New("session has no process handle")

// Config contains process system configuration.
type Config struct {
	// Name overrides the system name. Default: "process".
	Name string

	// Command is the program to run. Empty starts sessions without a process.
	Command string

	// Args are passed to Command.
	Args []string

	// Directory returns the directory new sessions start in.
	// Default: os.Getwd.
	Directory func() (string, error)

	// StrictPaths makes the friendly check path-segment aware.
	StrictPaths bool

	// KillTimeout bounds the wait for a killed process to exit.
	// Default: 5s.
	KillTimeout time.Duration
}

// Handle is the payload of a process session.
type Handle struct {
	ID        uuid.UUID
	Dir       string
	Command   []string
	StartedAt time.Time

	mu       sync.Mutex
	lastUsed time.Time
	cmd      *exec.Cmd
	done     chan struct{}
}

// LastUsed returns when the session was last touched.
func (h *Handle) LastUsed() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastUsed
}

// Pid returns the process id, or 0 without a process.
func (h *Handle) Pid() int {
	if h.cmd == nil || h.cmd.Process == nil {
		return 0
	}
	return h.cmd.Process.Pid
}

// Running reports whether the process is alive.
func (h *Handle) Running() bool {
	if h.done == nil {
		return false
	}
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

func (h *Handle) touch(now time.Time) {
	h.mu.Lock()
	h.lastUsed = now
	h.mu.Unlock()
}

// System implements system.System for OS processes.
type System struct {
	system.Base

	config  Config
	matcher contexts.Matcher
	logger  logger.Logger
	now     func() time.Time
}

// New creates the process system.
func New(cfg Config, log logger.Logger) *System {
	if cfg.Name == "" {
		cfg.Name = Name
	}
	if cfg.Directory == nil {
		cfg.Directory = os.Getwd
	}
	if cfg.KillTimeout == 0 {
		cfg.KillTimeout = 5 * time.Second
	}
	if log == nil {
		log = logger.Noop()
	}

	return &System{
		config:  cfg,
		matcher: contexts.Matcher{StrictPaths: cfg.StrictPaths},
		logger:  log.Named("process").With("system", cfg.Name),
		now:     time.Now,
	}
}

// Name implements system.System.Name.
func (p *System) Name() string {
	return p.config.Name
}

// Start implements system.System.Start. A restarted session keeps the
// directory of existing.
func (p *System) Start(ctx context.Context, existing *session.Session) (*session.Session, error) {
	dir, err := p.startDir(existing)
	if err != nil {
		return nil, err
	}

	now := p.now()
	h := &Handle{
		ID:        uuid.New(),
		Dir:       dir,
		StartedAt: now,
		lastUsed:  now,
	}

	if p.config.Command != "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		h.Command = append([]string{p.config.Command}, p.config.Args...)
		cmd := exec.Command(p.config.Command, p.config.Args...)
		cmd.Dir = dir
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("failed to start %s: %w", p.config.Command, err)
		}

		h.cmd = cmd
		h.done = make(chan struct{})
		go func() {
			err := cmd.Wait()
			p.logger.Debug("process exited", "id", h.ID, "error", err)
			close(h.done)
		}()
	}

	p.logger.Info("process session started", "id", h.ID, "dir", dir, "pid", h.Pid())
	return &session.Session{Name: sessionName(dir), Payload: h}, nil
}

func (p *System) startDir(existing *session.Session) (string, error) {
	if existing != nil {
		if h, ok := handleOf(existing); ok {
			return h.Dir, nil
		}
	}

	dir, err := p.config.Directory()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return contexts.NormalizePath(dir, false), nil
}

func sessionName(dir string) string {
	base := filepath.Base(dir)
	if base == "" || base == "." || base == string(filepath.Separator) {
		return Name
	}
	return base
}

// Kill implements system.System.Kill.
func (p *System) Kill(ctx context.Context, s *session.Session) error {
	h, ok := handleOf(s)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotProcessSession, s.Name)
	}
	if !h.Running() {
		return nil
	}

	if err := h.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to kill pid %d: %w", h.Pid(), err)
	}

	timer := time.NewTimer(p.config.KillTimeout)
	defer timer.Stop()

	select {
	case <-h.done:
		p.logger.Info("process session killed", "session", s.Name, "pid", h.Pid())
		return nil
	case <-timer.C:
		return fmt.Errorf("pid %d did not exit within %s", h.Pid(), p.config.KillTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Greater implements system.System.Greater: most recently used first, then
// most recently started, then by name.
func (p *System) Greater(a, b *session.Session) bool {
	ha, okA := handleOf(a)
	hb, okB := handleOf(b)
	if !okA || !okB {
		return p.Base.Greater(a, b)
	}

	if ua, ub := ha.LastUsed(), hb.LastUsed(); !ua.Equal(ub) {
		return ua.After(ub)
	}
	if !ha.StartedAt.Equal(hb.StartedAt) {
		return ha.StartedAt.After(hb.StartedAt)
	}
	return p.Base.Greater(a, b)
}

// Friendly implements system.System.Friendly: a session is friendly when
// the current directory lies under its directory.
func (p *System) Friendly(s *session.Session, res contexts.Resolver) bool {
	h, ok := handleOf(s)
	if !ok {
		return false
	}
	dir, ok := res.Current(contexts.Directory)
	return ok && p.matcher.IsAncestor(h.Dir, dir)
}

// Describe implements system.Describer.
func (p *System) Describe(s *session.Session) string {
	h, ok := handleOf(s)
	if !ok {
		return ""
	}

	state := "no process"
	switch {
	case h.Running():
		state = fmt.Sprintf("pid %d", h.Pid())
	case h.done != nil:
		state = "exited"
	}
	return fmt.Sprintf("%s in %s, up %s", state, h.Dir, p.now().Sub(h.StartedAt).Truncate(time.Second))
}

// Touch marks s as used now.
func (p *System) Touch(s *session.Session) {
	if h, ok := handleOf(s); ok {
		h.touch(p.now())
	}
}

func handleOf(s *session.Session) (*Handle, bool) {
	if s == nil {
		return nil, false
	}
	h, ok := s.Payload.(*Handle)
	return h, ok
}
