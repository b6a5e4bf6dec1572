package session

import "fmt"

// Store maps (system, name) keys to sessions.
//
// Store is not safe for concurrent use; the registry serializes access.
// Iteration follows registration order.
type Store struct {
	sessions map[Key]*Session
	order    []Key
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[Key]*Session),
	}
}

// Register stores s under system, renaming it with the lowest free "<n>"
// suffix when its name is already taken. It returns the stored session.
func (st *Store) Register(system string, s *Session) (*Session, error) {
	if s == nil {
		return nil, ErrNilSession
	}
	if s.Name == "" {
		return nil, ErrEmptyName
	}
	if existing, ok := st.sessions[s.Key(system)]; ok && existing == s {
		return s, nil
	}

	s.Name = st.uniqueName(system, s.Name)
	key := s.Key(system)
	st.sessions[key] = s
	st.order = append(st.order, key)

	return s, nil
}

// uniqueName returns base if free, else base<n> for the lowest free n >= 1.
// The scan is linear in the number of colliding names.
func (st *Store) uniqueName(system, base string) string {
	if _, taken := st.sessions[Key{System: system, Name: base}]; !taken {
		return base
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s<%d>", base, n)
		if _, taken := st.sessions[Key{System: system, Name: candidate}]; !taken {
			return candidate
		}
	}
}

// Unregister removes the entry for s under system and returns s unchanged.
// The second result reports whether an entry was removed.
func (st *Store) Unregister(system string, s *Session) (*Session, bool) {
	if s == nil {
		return nil, false
	}

	key := s.Key(system)
	if _, ok := st.sessions[key]; !ok {
		return s, false
	}

	delete(st.sessions, key)
	for i, k := range st.order {
		if k == key {
			st.order = append(st.order[:i], st.order[i+1:]...)
			break
		}
	}

	return s, true
}

// Replace stores s under an existing key, keeping its registration slot.
// s is renamed to key.Name.
func (st *Store) Replace(key Key, s *Session) error {
	if s == nil {
		return ErrNilSession
	}
	if _, ok := st.sessions[key]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, key)
	}

	s.Name = key.Name
	st.sessions[key] = s
	return nil
}

// Get returns the session stored under key.
func (st *Store) Get(key Key) (*Session, bool) {
	s, ok := st.sessions[key]
	return s, ok
}

// Has reports whether a session is stored under key.
func (st *Store) Has(key Key) bool {
	_, ok := st.sessions[key]
	return ok
}

// BySystem returns the sessions of system in registration order.
func (st *Store) BySystem(system string) []*Session {
	var sessions []*Session
	for _, key := range st.order {
		if key.System == system {
			sessions = append(sessions, st.sessions[key])
		}
	}
	return sessions
}

// Systems returns the distinct systems with at least one session.
func (st *Store) Systems() []string {
	seen := make(map[string]bool)
	var systems []string
	for _, key := range st.order {
		if !seen[key.System] {
			seen[key.System] = true
			systems = append(systems, key.System)
		}
	}
	return systems
}

// Len returns the number of stored sessions.
func (st *Store) Len() int {
	return len(st.sessions)
}

// Reset removes every session.
func (st *Store) Reset() {
	st.sessions = make(map[Key]*Session)
	st.order = nil
}
