package contexts

import "errors"

var (
	// ErrNoContext is returned when a context type has no current value.
	ErrNoContext = errors.New("no current context")
)
