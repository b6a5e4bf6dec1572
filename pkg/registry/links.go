package registry

import (
	"context"
	"fmt"

	"github.com/0xmhha/sesslink/pkg/contexts"
	"github.com/0xmhha/sesslink/pkg/link"
	"github.com/0xmhha/sesslink/pkg/session"
	"github.com/0xmhha/sesslink/pkg/system"
)

// Link associates s with a context value. For one-to-one types any previous
// link of the system and type is replaced; otherwise identical links are
// kept once.
func (r *Registry) Link(name string, s *session.Session, t contexts.Type, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.linkableLocked(name, s, t); err != nil {
		return err
	}
	r.addLinkLocked(link.Link{Key: s.Key(name), Type: t, Value: value})
	return nil
}

// LinkWith links s to the current value of t.
func (r *Registry) LinkWith(name string, s *session.Session, t contexts.Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.linkableLocked(name, s, t); err != nil {
		return err
	}

	value, err := contexts.Require(r.resolver, t)
	if err != nil {
		return err
	}
	r.addLinkLocked(link.Link{Key: s.Key(name), Type: t, Value: value})
	return nil
}

// LinkWithLeastSpecific links s to the current value of the broadest type
// the system declares.
func (r *Registry) LinkWithLeastSpecific(name string, s *session.Session) error {
	sys, err := r.System(name)
	if err != nil {
		return err
	}
	types := sys.ContextTypes()
	return r.LinkWith(name, s, types[len(types)-1])
}

func (r *Registry) linkableLocked(name string, s *session.Session, t contexts.Type) (system.System, error) {
	sys, _, err := r.storedLocked(name, s)
	if err != nil {
		return nil, err
	}
	if !contexts.Contains(sys.ContextTypes(), t) {
		return nil, fmt.Errorf("%w: %s does not support %s", ErrUnsupportedContext, name, t)
	}
	return sys, nil
}

func (r *Registry) addLinkLocked(l link.Link) {
	replaced, added := r.links.Add(l, r.oneToOne[l.Type])
	for _, old := range replaced {
		if old != l {
			r.logger.Debug("link replaced", "link", old.String())
		}
	}
	if added {
		r.logger.Info("session linked", "system", l.Key.System, "session", l.Key.Name, "type", l.Type, "value", l.Value)
	}
}

// Unlink removes links of the named system that are relevant now. The user
// picks one link, or every link through ChoiceAll when several exist.
func (r *Registry) Unlink(ctx context.Context, name string) ([]link.Link, error) {
	r.mu.Lock()
	sys, err := r.systems.Resolve(name)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.pruneLocked()
	current := r.relevantLinksLocked(sys)
	r.mu.Unlock()

	if len(current) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoAssociations, name)
	}

	choices := make([]string, 0, len(current)+1)
	byChoice := make(map[string]link.Link, len(current))
	for _, l := range current {
		label := linkLabel(l)
		choices = append(choices, label)
		byChoice[label] = l
	}
	if len(current) > 1 {
		choices = append(choices, ChoiceAll)
	}

	choice, err := r.ask(ctx, "Unlink: ", choices)
	if err != nil {
		return nil, err
	}

	targets := current
	if choice != ChoiceAll {
		l, ok := byChoice[choice]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidChoice, choice)
		}
		targets = []link.Link{l}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []link.Link
	for _, l := range targets {
		if r.links.Delete(l) {
			removed = append(removed, l)
		}
	}
	for _, l := range removed {
		r.logger.Info("session unlinked", "system", name, "session", l.Key.Name, "type", l.Type, "value", l.Value)
	}
	return removed, nil
}

func (r *Registry) relevantLinksLocked(sys system.System) []link.Link {
	types := sys.ContextTypes()
	groups := r.links.Query(sys.Name(), types, r.resolver.Relevant)

	var current []link.Link
	for _, t := range types {
		current = append(current, groups[t]...)
	}
	return current
}

func linkLabel(l link.Link) string {
	return fmt.Sprintf("%s %s -> %s", l.Type, l.Value, l.Key.Name)
}

// RemoveLinks deletes every link matching f and returns the removed links.
func (r *Registry) RemoveLinks(f link.Filter) []link.Link {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := r.links.Remove(f)
	if len(removed) > 0 {
		r.logger.Debug("links removed", "count", len(removed))
	}
	return removed
}

// Links returns every link of the named system, relevant or not. An empty
// name returns the links of all systems.
func (r *Registry) Links(name string) []link.Link {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pruneLocked()
	return r.links.Find(link.Filter{System: name})
}

// SessionLinks returns the links of s under the named system.
func (r *Registry) SessionLinks(name string, s *session.Session) []link.Link {
	if s == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.pruneLocked()
	return r.links.Find(link.Filter{System: name, Name: s.Name})
}

// Describe returns listing details for the sessions of the named system in
// Sessions order.
func (r *Registry) Describe(name string) []Info {
	r.mu.Lock()
	defer r.mu.Unlock()

	sys, ok := r.systems.Get(name)
	if !ok {
		return nil
	}
	r.pruneLocked()

	linked := make(map[*session.Session]bool)
	for _, s := range r.linkedLocked(sys, nil) {
		linked[s] = true
	}

	describer, _ := sys.(system.Describer)

	var infos []Info
	for _, s := range r.rankedLocked(sys) {
		info := Info{
			Session:  s,
			Links:    r.links.Find(link.Filter{System: name, Name: s.Name}),
			Linked:   linked[s],
			Friendly: r.useFriendly && sys.Friendly(s, r.resolver),
		}
		if describer != nil {
			info.Detail = describer.Describe(s)
		}
		infos = append(infos, info)
	}
	return infos
}
