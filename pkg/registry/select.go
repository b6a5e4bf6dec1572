package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/0xmhha/sesslink/pkg/session"
	"github.com/0xmhha/sesslink/pkg/system"
)

// EnsureSession returns the session(s) to act on for the named system.
//
// Linked sessions are the candidates; friendly sessions are used only when
// nothing is linked. A single candidate is returned without prompting
// unless opts widen the choice. Otherwise the Selector picks among the
// candidates plus ChoiceNew (start a session) when AllowNew is set and
// ChoiceAll (return every candidate) when AllowAll is set. Without
// candidates and without AllowNew the result is ErrNoSessions.
func (r *Registry) EnsureSession(ctx context.Context, name, prompt string, opts EnsureOptions) ([]*session.Session, error) {
	r.mu.Lock()
	sys, err := r.systems.Resolve(name)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.pruneLocked()
	candidates := dedupe(r.linkedLocked(sys, nil))
	if len(candidates) == 0 {
		candidates = r.friendlyLocked(sys)
	}
	r.mu.Unlock()

	return r.choose(ctx, sys, prompt, candidates, opts)
}

// EnsureOne is EnsureSession without pseudo choices.
func (r *Registry) EnsureOne(ctx context.Context, name, prompt string) (*session.Session, error) {
	sessions, err := r.EnsureSession(ctx, name, prompt, EnsureOptions{})
	if err != nil {
		return nil, err
	}
	return sessions[0], nil
}

// SelectSession lets the user pick any session of the named system, in
// Sessions order. It never returns more than one session.
func (r *Registry) SelectSession(ctx context.Context, name, prompt string, allowNew bool) (*session.Session, error) {
	r.mu.Lock()
	sys, err := r.systems.Resolve(name)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.pruneLocked()
	candidates := r.rankedLocked(sys)
	r.mu.Unlock()

	sessions, err := r.choose(ctx, sys, prompt, candidates, EnsureOptions{AllowNew: allowNew})
	if err != nil {
		return nil, err
	}
	return sessions[0], nil
}

func (r *Registry) choose(ctx context.Context, sys system.System, prompt string, candidates []*session.Session, opts EnsureOptions) ([]*session.Session, error) {
	if len(candidates) == 0 && !opts.AllowNew {
		return nil, fmt.Errorf("%w for %s in current context", ErrNoSessions, sys.Name())
	}
	if len(candidates) == 1 && !opts.AllowNew && !opts.AllowAll {
		return candidates, nil
	}

	choices := session.Names(candidates)
	if opts.AllowNew {
		choices = append(choices, ChoiceNew)
	}
	if opts.AllowAll && len(candidates) > 1 {
		choices = append(choices, ChoiceAll)
	}

	choice, err := r.ask(ctx, prompt, choices)
	if err != nil {
		return nil, err
	}

	switch choice {
	case ChoiceNew:
		if !opts.AllowNew {
			break
		}
		s, err := r.StartSession(ctx, sys.Name())
		if err != nil {
			return nil, err
		}
		return []*session.Session{s}, nil
	case ChoiceAll:
		if !opts.AllowAll {
			break
		}
		return candidates, nil
	}

	for _, s := range candidates {
		if s.Name == choice {
			return []*session.Session{s}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidChoice, choice)
}

// ask runs the selector without holding the registry lock.
func (r *Registry) ask(ctx context.Context, prompt string, choices []string) (string, error) {
	if r.selector == nil {
		return "", ErrNoSelector
	}

	choice, err := r.selector.Select(ctx, prompt, choices)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %w", ErrSelectionCancelled, err)
		}
		return "", err
	}
	return choice, nil
}
