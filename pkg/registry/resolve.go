package registry

import (
	"sort"

	"github.com/0xmhha/sesslink/pkg/contexts"
	"github.com/0xmhha/sesslink/pkg/link"
	"github.com/0xmhha/sesslink/pkg/session"
	"github.com/0xmhha/sesslink/pkg/system"
)

// LinkedSessions returns the sessions of the named system linked to a
// relevant context.
//
// Sessions are grouped by context type in the order of types (the system's
// declared types when none are given) and sorted by the system comparator
// within each group. A session linked through several types appears once
// per type. Unknown systems yield nil.
func (r *Registry) LinkedSessions(name string, types ...contexts.Type) []*session.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	sys, ok := r.systems.Get(name)
	if !ok {
		return nil
	}
	r.pruneLocked()
	return r.linkedLocked(sys, types)
}

func (r *Registry) linkedLocked(sys system.System, types []contexts.Type) []*session.Session {
	if len(types) == 0 {
		types = sys.ContextTypes()
	}

	groups := r.links.Query(sys.Name(), types, r.resolver.Relevant)

	var linked []*session.Session
	done := make(map[contexts.Type]bool, len(types))
	for _, t := range types {
		if done[t] {
			continue
		}
		done[t] = true

		group := r.sessionsOf(groups[t])
		sortSessions(sys, group)
		linked = append(linked, group...)
	}
	return linked
}

func (r *Registry) sessionsOf(links []link.Link) []*session.Session {
	sessions := make([]*session.Session, 0, len(links))
	for _, l := range links {
		if s, ok := r.sessions.Get(l.Key); ok {
			sessions = append(sessions, s)
		}
	}
	return sessions
}

// FriendlySessions returns the sessions the named system considers friendly
// to the current context, sorted by the system comparator. It is empty when
// the friendly tier is disabled.
func (r *Registry) FriendlySessions(name string) []*session.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	sys, ok := r.systems.Get(name)
	if !ok {
		return nil
	}
	return r.friendlyLocked(sys)
}

func (r *Registry) friendlyLocked(sys system.System) []*session.Session {
	if !r.useFriendly {
		return nil
	}

	var friendly []*session.Session
	for _, s := range r.sessions.BySystem(sys.Name()) {
		if sys.Friendly(s, r.resolver) {
			friendly = append(friendly, s)
		}
	}
	sortSessions(sys, friendly)
	return friendly
}

// SystemSessions returns every session of the named system sorted by the
// system comparator.
func (r *Registry) SystemSessions(name string) []*session.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	sys, ok := r.systems.Get(name)
	if !ok {
		return nil
	}
	return r.allLocked(sys)
}

func (r *Registry) allLocked(sys system.System) []*session.Session {
	all := r.sessions.BySystem(sys.Name())
	sortSessions(sys, all)
	return all
}

// Sessions returns linked, then friendly, then all sessions of the named
// system, keeping the first occurrence of each session.
func (r *Registry) Sessions(name string) []*session.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	sys, ok := r.systems.Get(name)
	if !ok {
		return nil
	}
	r.pruneLocked()
	return r.rankedLocked(sys)
}

func (r *Registry) rankedLocked(sys system.System) []*session.Session {
	return dedupe(
		r.linkedLocked(sys, nil),
		r.friendlyLocked(sys),
		r.allLocked(sys),
	)
}

// CurrentSession returns the first of Sessions, or nil.
func (r *Registry) CurrentSession(name string) *session.Session {
	sessions := r.Sessions(name)
	if len(sessions) == 0 {
		return nil
	}
	return sessions[0]
}

// HasSessions reports whether the named system has any session.
func (r *Registry) HasSessions(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions.BySystem(name)) > 0
}

func sortSessions(sys system.System, sessions []*session.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sys.Greater(sessions[i], sessions[j])
	})
}

func dedupe(tiers ...[]*session.Session) []*session.Session {
	seen := make(map[*session.Session]bool)
	var out []*session.Session
	for _, tier := range tiers {
		for _, s := range tier {
			if seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
