package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/0xmhha/sesslink/pkg/contexts"
	"github.com/0xmhha/sesslink/pkg/link"
	"github.com/0xmhha/sesslink/pkg/logger"
	"github.com/0xmhha/sesslink/pkg/session"
	"github.com/0xmhha/sesslink/pkg/system"
)

// Registry is the session registry shared by every system.
type Registry struct {
	mu sync.Mutex

	systems  *system.Table
	sessions *session.Store
	links    *link.Store

	resolver    contexts.Resolver
	selector    Selector
	oneToOne    map[contexts.Type]bool
	useFriendly bool

	logger logger.Logger
}

// New creates a registry. A nil resolver is replaced by an empty static one.
func New(cfg Config, log logger.Logger) *Registry {
	if log == nil {
		log = logger.Noop()
	}
	if cfg.Resolver == nil {
		cfg.Resolver = contexts.NewStatic(nil)
	}

	types := cfg.OneToOneTypes
	if types == nil {
		types = contexts.DefaultOneToOne()
	}
	oneToOne := make(map[contexts.Type]bool, len(types))
	for _, t := range types {
		oneToOne[t] = true
	}

	return &Registry{
		systems:     system.NewTable(),
		sessions:    session.NewStore(),
		links:       link.NewStore(),
		resolver:    cfg.Resolver,
		selector:    cfg.Selector,
		oneToOne:    oneToOne,
		useFriendly: !cfg.DisableFriendly,
		logger:      log.Named("registry"),
	}
}

// RegisterSystem adds sys to the system table.
func (r *Registry) RegisterSystem(sys system.System) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.systems.Register(sys); err != nil {
		return err
	}
	r.logger.Debug("system registered", "system", sys.Name(), "context_types", sys.ContextTypes())
	return nil
}

// Systems returns the registered system names, sorted.
func (r *Registry) Systems() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.systems.Names()
}

// System returns the system registered under name.
func (r *Registry) System(name string) (system.System, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.systems.Resolve(name)
}

// Resolver returns the context resolver the registry evaluates links with.
func (r *Registry) Resolver() contexts.Resolver {
	return r.resolver
}

// OneToOne reports whether t allows a single link per system.
func (r *Registry) OneToOne(t contexts.Type) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.oneToOne[t]
}

// Register stores s for the named system and links it to the least
// specific context type that currently has a value. The stored session is
// returned; its name may carry a "<n>" suffix.
func (r *Registry) Register(name string, s *session.Session) (*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sys, err := r.systems.Resolve(name)
	if err != nil {
		return nil, err
	}
	return r.registerLocked(sys, s)
}

func (r *Registry) registerLocked(sys system.System, s *session.Session) (*session.Session, error) {
	if s == nil {
		return nil, ErrNilSession
	}

	requested := s.Name
	stored, err := r.sessions.Register(sys.Name(), s)
	if err != nil {
		return nil, fmt.Errorf("failed to register session: %w", err)
	}

	r.logger.Info("session registered", "system", sys.Name(), "session", stored.Name)
	if stored.Name != requested {
		r.logger.Debug("session renamed", "system", sys.Name(), "requested", requested, "session", stored.Name)
	}

	r.defaultLinkLocked(sys, stored)
	return stored, nil
}

// defaultLinkLocked links s to the broadest declared type with a current
// value, trying narrower types when broader ones have none.
func (r *Registry) defaultLinkLocked(sys system.System, s *session.Session) {
	types := sys.ContextTypes()
	for i := len(types) - 1; i >= 0; i-- {
		value, ok := r.resolver.Current(types[i])
		if !ok {
			continue
		}
		r.addLinkLocked(link.Link{Key: s.Key(sys.Name()), Type: types[i], Value: value})
		return
	}
	r.logger.Debug("no context for default link", "system", sys.Name(), "session", s.Name)
}

// Unregister removes s from the named system and drops its links. It
// returns s so calls can be chained; unknown sessions are ignored.
func (r *Registry) Unregister(name string, s *session.Session) *session.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unregisterLocked(name, s)
}

func (r *Registry) unregisterLocked(name string, s *session.Session) *session.Session {
	if s == nil {
		return nil
	}

	if _, removed := r.sessions.Unregister(name, s); removed {
		r.logger.Info("session unregistered", "system", name, "session", s.Name)
	}
	r.pruneLocked()
	return s
}

func (r *Registry) pruneLocked() {
	pruned := r.links.Prune(r.sessions.Has)
	for _, l := range pruned {
		r.logger.Debug("stale link pruned", "link", l.String())
	}
}

// storedLocked returns the system of name and the session registered under
// the key of s. Sessions are identified by key, so s may be any value
// carrying the registered name.
func (r *Registry) storedLocked(name string, s *session.Session) (system.System, *session.Session, error) {
	sys, err := r.systems.Resolve(name)
	if err != nil {
		return nil, nil, err
	}
	if s == nil {
		return nil, nil, ErrNilSession
	}
	stored, ok := r.sessions.Get(s.Key(name))
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownSession, s.Key(name))
	}
	return sys, stored, nil
}

// StartSession asks the named system for a new session and registers it.
func (r *Registry) StartSession(ctx context.Context, name string) (*session.Session, error) {
	sys, err := r.System(name)
	if err != nil {
		return nil, err
	}

	// Start may block; the lock is not held.
	s, err := sys.Start(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start %s session: %w", name, err)
	}
	if s == nil {
		return nil, fmt.Errorf("%w: %s returned no session", system.ErrStartFailed, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registerLocked(sys, s)
}

// KillSession terminates the session registered under the key of s and
// unregisters it. The session stays registered when the system fails to
// kill it.
func (r *Registry) KillSession(ctx context.Context, name string, s *session.Session) error {
	r.mu.Lock()
	sys, stored, err := r.storedLocked(name, s)
	r.mu.Unlock()
	if err != nil {
		return err
	}

	key := stored.Key(name)
	if err := sys.Kill(ctx, stored); err != nil {
		return fmt.Errorf("failed to kill session %s: %w", key, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// A restart may have put a fresh session in the slot meanwhile.
	if current, ok := r.sessions.Get(key); !ok || current != stored {
		r.logger.Debug("killed session already replaced", "system", name, "session", key.Name)
		return nil
	}
	r.unregisterLocked(name, stored)
	return nil
}

// RestartSession replaces s with a fresh session under the same key.
// Links of s carry over to the replacement.
func (r *Registry) RestartSession(ctx context.Context, name string, s *session.Session) (*session.Session, error) {
	r.mu.Lock()
	sys, stored, err := r.storedLocked(name, s)
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	key := stored.Key(name)
	fresh, err := system.Restart(ctx, sys, stored)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.sessions.Get(key); ok && current == stored {
		if err := r.sessions.Replace(key, fresh); err != nil {
			return nil, err
		}
		r.logger.Info("session restarted", "system", name, "session", key.Name)
		return fresh, nil
	}

	// s went away while restarting; register the replacement from scratch.
	fresh.Name = key.Name
	return r.registerLocked(sys, fresh)
}

// Quit kills every session of the named system. Failures are joined; the
// sessions that could be killed are unregistered regardless.
func (r *Registry) Quit(ctx context.Context, name string) error {
	r.mu.Lock()
	if _, err := r.systems.Resolve(name); err != nil {
		r.mu.Unlock()
		return err
	}
	sessions := r.sessions.BySystem(name)
	r.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		if err := r.KillSession(ctx, name, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Reset drops every session and link without killing anything.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions.Reset()
	r.links.Reset()
	r.logger.Info("registry reset")
}
