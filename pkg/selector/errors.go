package selector

import "errors"

var (
	// ErrNoChoices is returned when Select is called without choices.
	ErrNoChoices = errors.New("nothing to choose from")

	// ErrNoMatch is returned when an answer matches no choice.
	ErrNoMatch = errors.New("no matching choice")

	// ErrAmbiguous is returned when an answer matches several choices.
	ErrAmbiguous = errors.New("ambiguous choice")
)
