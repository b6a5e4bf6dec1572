// Package registry answers "which session applies here?" for every system.
//
// The Registry owns the session store, the link store and the table of
// systems. Sessions are resolved in three tiers: sessions linked to a
// relevant context, then sessions the system considers friendly to the
// current context, then every other session of the system. Each tier is
// ordered by the system's comparator.
//
// Example usage:
//
//	reg := registry.New(registry.Config{
//	    Resolver: contexts.New(contexts.Options{}),
//	    Selector: selector.New(selector.Config{}, console, log),
//	}, log)
//	if err := reg.RegisterSystem(process.New(process.Config{}, log)); err != nil {
//	    log.Fatal(err)
//	}
//
//	s, err := reg.StartSession(ctx, "process")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(session.Names(reg.Sessions("process")), s.Name)
//
// All methods are safe for concurrent use. System callbacks run while the
// registry lock is held, except Start and Kill, and must not call back into
// the registry.
package registry

import (
	"context"

	"github.com/0xmhha/sesslink/pkg/contexts"
	"github.com/0xmhha/sesslink/pkg/link"
	"github.com/0xmhha/sesslink/pkg/session"
)

// Pseudo choices offered by the selection prompt.
const (
	ChoiceNew = "*new*"
	ChoiceAll = "*all*"
)

// Selector asks the user to pick one of choices.
//
// Implementations return ErrSelectionCancelled (or the context error) when
// the user aborts; the registry then leaves its state untouched.
type Selector interface {
	Select(ctx context.Context, prompt string, choices []string) (string, error)
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc func(ctx context.Context, prompt string, choices []string) (string, error)

// Select implements Selector.Select.
func (f SelectorFunc) Select(ctx context.Context, prompt string, choices []string) (string, error) {
	return f(ctx, prompt, choices)
}

// Config contains registry configuration.
type Config struct {
	// Resolver supplies current context values. Required.
	Resolver contexts.Resolver

	// Selector resolves ambiguous choices. Operations that need a prompt
	// fail with ErrNoSelector when it is nil.
	Selector Selector

	// OneToOneTypes allow a single link per system and type.
	// Default: contexts.DefaultOneToOne().
	OneToOneTypes []contexts.Type

	// DisableFriendly turns the friendly tier off.
	DisableFriendly bool
}

// EnsureOptions widens what EnsureSession may return.
type EnsureOptions struct {
	// AllowNew offers starting a fresh session.
	AllowNew bool

	// AllowAll offers returning every candidate.
	AllowAll bool
}

// Info describes a session for listings.
type Info struct {
	Session *session.Session

	// Links holds every link of the session, relevant or not.
	Links []link.Link

	// Linked reports whether a link of the session is relevant now.
	Linked bool

	// Friendly reports whether the system considers the session friendly now.
	Friendly bool

	// Detail is system-provided text, empty unless the system implements
	// system.Describer.
	Detail string
}
