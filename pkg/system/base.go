package system

import (
	"context"
	"fmt"

	"github.com/0xmhha/sesslink/pkg/contexts"
	"github.com/0xmhha/sesslink/pkg/session"
)

// Base supplies default capabilities. Embed it and override what differs.
//
// Base does not implement Name or Start; every system must.
type Base struct{}

// ContextTypes returns document, directory and project.
func (Base) ContextTypes() []contexts.Type {
	return contexts.DefaultTypes()
}

// Kill does nothing.
func (Base) Kill(context.Context, *session.Session) error {
	return nil
}

// Greater orders by name, descending.
//
// Systems should rank more recently used sessions first instead.
func (Base) Greater(a, b *session.Session) bool {
	return a.Name > b.Name
}

// Friendly reports false: no session is friendly by default.
func (Base) Friendly(*session.Session, contexts.Resolver) bool {
	return false
}

// Restart kills s and starts a replacement that keeps the name of s, using
// the Restarter of sys when it has one.
func Restart(ctx context.Context, sys System, s *session.Session) (*session.Session, error) {
	if r, ok := sys.(Restarter); ok {
		fresh, err := r.Restart(ctx, s)
		if err != nil {
			return nil, err
		}
		if fresh == nil {
			return nil, fmt.Errorf("%w: %s returned no session", ErrStartFailed, sys.Name())
		}
		fresh.Name = s.Name
		return fresh, nil
	}

	if err := sys.Kill(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to kill session %s: %w", s.Name, err)
	}

	fresh, err := sys.Start(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("failed to start session %s: %w", s.Name, err)
	}
	if fresh == nil {
		return nil, fmt.Errorf("%w: %s returned no session", ErrStartFailed, sys.Name())
	}

	fresh.Name = s.Name
	return fresh, nil
}
