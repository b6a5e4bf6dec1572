// Package selector implements the interactive session prompt.
//
// A Selector lists the choices with numbers and reads an answer. The
// answer may be a number, an exact choice, a unique prefix or, failing
// those, the choice closest by Levenshtein distance within MaxDistance.
// An empty answer or end of input cancels the selection.
//
// Example usage:
//
//	console, _ := selector.NewConsole(os.Stdin, os.Stdout)
//	defer console.Close()
//
//	sel := selector.New(selector.Config{MaxDistance: 2}, console, logger.Default())
//	choice, err := sel.Select(ctx, "Session: ", []string{"api", "web", "*new*"})
package selector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/0xmhha/sesslink/pkg/logger"
	"github.com/0xmhha/sesslink/pkg/registry"
)

// DefaultMaxDistance bounds fuzzy matches when no distance is configured.
const DefaultMaxDistance = 2

// Config contains selector configuration.
type Config struct {
	// MaxDistance is the largest Levenshtein distance accepted for a fuzzy
	// match. Negative disables fuzzy matching. Default: 2.
	MaxDistance int

	// MaxAttempts bounds re-prompts after unmatched answers. Default: 3.
	MaxAttempts int
}

// Selector prompts on a LineIO.
type Selector struct {
	config Config
	io     LineIO
	logger logger.Logger
}

// New creates a selector.
func New(cfg Config, lio LineIO, log logger.Logger) *Selector {
	if cfg.MaxDistance == 0 {
		cfg.MaxDistance = DefaultMaxDistance
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if log == nil {
		log = logger.Noop()
	}

	return &Selector{
		config: cfg,
		io:     lio,
		logger: log.Named("selector"),
	}
}

// Select implements registry.Selector.
//
// Cancellation of ctx is observed between answers; a pending read is not
// interrupted.
func (s *Selector) Select(ctx context.Context, prompt string, choices []string) (string, error) {
	if len(choices) == 0 {
		return "", ErrNoChoices
	}

	for i, choice := range choices {
		if _, err := fmt.Fprintf(s.io, "  %d) %s\n", i+1, choice); err != nil {
			return "", err
		}
	}

	for attempt := 0; attempt < s.config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		line, err := s.io.ReadLine(prompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", registry.ErrSelectionCancelled
			}
			return "", fmt.Errorf("failed to read selection: %w", err)
		}

		answer := strings.TrimSpace(line)
		if answer == "" {
			return "", registry.ErrSelectionCancelled
		}

		choice, err := Match(answer, choices, s.config.MaxDistance)
		if err == nil {
			s.logger.Debug("choice selected", "answer", answer, "choice", choice)
			return choice, nil
		}

		if _, werr := fmt.Fprintf(s.io, "%v\n", err); werr != nil {
			return "", werr
		}
	}

	return "", fmt.Errorf("%w: too many attempts", ErrNoMatch)
}

// Match resolves answer against choices.
//
// Resolution order: 1-based index, exact choice, unique prefix, unique
// closest choice within maxDistance edits (skipped when maxDistance < 0).
func Match(answer string, choices []string, maxDistance int) (string, error) {
	if n, err := strconv.Atoi(answer); err == nil {
		if n < 1 || n > len(choices) {
			return "", fmt.Errorf("%w: %d is out of range", ErrNoMatch, n)
		}
		return choices[n-1], nil
	}

	for _, choice := range choices {
		if choice == answer {
			return choice, nil
		}
	}

	var prefixed []string
	for _, choice := range choices {
		if strings.HasPrefix(choice, answer) {
			prefixed = append(prefixed, choice)
		}
	}
	switch len(prefixed) {
	case 1:
		return prefixed[0], nil
	case 0:
	default:
		return "", fmt.Errorf("%w: %q matches %s", ErrAmbiguous, answer, strings.Join(prefixed, ", "))
	}

	if maxDistance < 0 {
		return "", fmt.Errorf("%w: %q", ErrNoMatch, answer)
	}

	best, bestDistance, ties := "", maxDistance+1, 0
	for _, choice := range choices {
		d := levenshtein.ComputeDistance(answer, choice)
		switch {
		case d < bestDistance:
			best, bestDistance, ties = choice, d, 1
		case d == bestDistance:
			ties++
		}
	}

	switch {
	case best == "":
		return "", fmt.Errorf("%w: %q", ErrNoMatch, answer)
	case ties > 1:
		return "", fmt.Errorf("%w: %q", ErrAmbiguous, answer)
	default:
		return best, nil
	}
}
