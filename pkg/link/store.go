package link

import (
	"github.com/0xmhha/sesslink/pkg/contexts"
	"github.com/0xmhha/sesslink/pkg/session"
)

// Store holds links. Order carries no meaning; callers sort results.
//
// Store is not safe for concurrent use; the registry serializes access.
type Store struct {
	links []Link
}

// NewStore creates an empty link store.
func NewStore() *Store {
	return &Store{}
}

// Add inserts l.
//
// When oneToOne is set, every link with the same system and type is removed
// first and returned. Otherwise l is inserted only if no identical link
// exists. added reports whether l was inserted.
func (s *Store) Add(l Link, oneToOne bool) (replaced []Link, added bool) {
	if oneToOne {
		replaced = s.Remove(Filter{System: l.Key.System, Type: l.Type})
	} else if s.contains(l) {
		return nil, false
	}

	s.links = append(s.links, l)
	return replaced, true
}

func (s *Store) contains(l Link) bool {
	for _, existing := range s.links {
		if existing == l {
			return true
		}
	}
	return false
}

// Remove deletes every link matching f and returns them.
func (s *Store) Remove(f Filter) []Link {
	return s.removeWhere(f.Matches)
}

// Delete removes the link equal to l and reports whether it was stored.
// Unlike Remove, empty fields of l only match empty fields.
func (s *Store) Delete(l Link) bool {
	return len(s.removeWhere(func(stored Link) bool { return stored == l })) > 0
}

// Prune deletes links whose session no longer exists and returns them.
func (s *Store) Prune(exists func(session.Key) bool) []Link {
	return s.removeWhere(func(l Link) bool {
		return !exists(l.Key)
	})
}

func (s *Store) removeWhere(drop func(Link) bool) []Link {
	var removed []Link
	kept := s.links[:0]
	for _, l := range s.links {
		if drop(l) {
			removed = append(removed, l)
			continue
		}
		kept = append(kept, l)
	}
	s.links = kept
	return removed
}

// Query returns the links of system whose type is in types and whose value
// is relevant, grouped by type. Group order is the caller's to impose.
func (s *Store) Query(system string, types []contexts.Type, relevant func(contexts.Type, string) bool) map[contexts.Type][]Link {
	groups := make(map[contexts.Type][]Link)
	for _, l := range s.links {
		if l.Key.System != system || !contexts.Contains(types, l.Type) {
			continue
		}
		if !relevant(l.Type, l.Value) {
			continue
		}
		groups[l.Type] = append(groups[l.Type], l)
	}
	return groups
}

// Find returns a copy of the links matching f.
func (s *Store) Find(f Filter) []Link {
	var found []Link
	for _, l := range s.links {
		if f.Matches(l) {
			found = append(found, l)
		}
	}
	return found
}

// All returns a copy of every link.
func (s *Store) All() []Link {
	return append([]Link(nil), s.links...)
}

// Len returns the number of links.
func (s *Store) Len() int {
	return len(s.links)
}

// Reset removes every link.
func (s *Store) Reset() {
	s.links = nil
}
