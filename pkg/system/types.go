// Package system defines the capabilities a session-owning system provides.
//
// Each system (a REPL, a language server, a build daemon) implements System
// once and is registered in a Table under its name. The registry consults
// it to start, kill and rank sessions, and to decide which sessions are
// friendly to the current context when none is linked.
//
// Example usage:
//
//	type repl struct{ system.Base }
//
//	func (repl) Name() string { return "repl" }
//
//	func (repl) Start(ctx context.Context, _ *session.Session) (*session.Session, error) {
//	    return &session.Session{Name: "repl"}, nil
//	}
//
//	table := system.NewTable()
//	if err := table.Register(repl{}); err != nil {
//	    log.Fatal(err)
//	}
package system

import (
	"context"

	"github.com/0xmhha/sesslink/pkg/contexts"
	"github.com/0xmhha/sesslink/pkg/session"
)

// System is the capability table of one session-owning system.
type System interface {
	// Name returns the system identifier used as the session key prefix.
	Name() string

	// ContextTypes returns the supported context types, narrowest first.
	// The last type is the default link target at registration.
	ContextTypes() []contexts.Type

	// Start launches a new session. existing, when non-nil, is the session
	// being restarted.
	Start(ctx context.Context, existing *session.Session) (*session.Session, error)

	// Kill terminates a session.
	Kill(ctx context.Context, s *session.Session) error

	// Greater reports whether a ranks above b.
	Greater(a, b *session.Session) bool

	// Friendly reports whether s applies to the current context without
	// an explicit link.
	Friendly(s *session.Session, res contexts.Resolver) bool
}

// Restarter is implemented by systems that restart sessions themselves
// instead of killing and starting.
type Restarter interface {
	Restart(ctx context.Context, s *session.Session) (*session.Session, error)
}

// Describer is implemented by systems that add detail to session listings.
type Describer interface {
	Describe(s *session.Session) string
}
