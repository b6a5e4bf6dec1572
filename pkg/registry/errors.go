package registry

import (
	"errors"

	"github.com/0xmhha/sesslink/pkg/system"
)

// Errors returned by the registry.
var (
	// ErrUnknownSystem is returned when no system is registered under a name.
	ErrUnknownSystem = system.ErrUnknownSystem

	// ErrUnknownSession is returned when a session is not registered.
	ErrUnknownSession = errors.New("session is not registered")

	// ErrNilSession is returned when a nil session is passed in.
	ErrNilSession = errors.New("session is nil")

	// ErrUnsupportedContext is returned when linking to a context type the
	// system does not declare.
	ErrUnsupportedContext = errors.New("context type not supported for this system")

	// ErrNoSessions is returned when a session is required but none applies.
	ErrNoSessions = errors.New("no sessions")

	// ErrNoAssociations is returned when unlinking without current links.
	ErrNoAssociations = errors.New("no associations found")

	// ErrSelectionCancelled is returned when the user aborts a selection.
	ErrSelectionCancelled = errors.New("selection cancelled")

	// ErrNoSelector is returned when a prompt is needed but no Selector is set.
	ErrNoSelector = errors.New("no selector configured")

	// ErrInvalidChoice is returned when a Selector answers with an unknown choice.
	ErrInvalidChoice = errors.New("invalid choice")
)
