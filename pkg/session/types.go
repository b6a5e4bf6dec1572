// Package session holds running sessions registered by systems.
//
// A session is identified by the pair (system, name). The Store guarantees
// that pair is unique: a colliding registration is renamed with the lowest
// free numeric suffix, so "repl" becomes "repl<1>", then "repl<2>".
//
// Example usage:
//
//	store := session.NewStore()
//	s, err := store.Register("process", &session.Session{Name: "api"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(s.Key("process")) // process/api
//	store.Unregister("process", s)
package session

import "fmt"

// Session is a running session owned by a system.
type Session struct {
	// Name identifies the session within its system. The store may rename
	// a session on registration to keep names unique.
	Name string

	// Payload is system-defined data opaque to the registry.
	Payload any
}

// Key returns the storage key of the session under system.
func (s *Session) Key(system string) Key {
	return Key{System: system, Name: s.Name}
}

// String returns the session name.
func (s *Session) String() string {
	return s.Name
}

// Key identifies a stored session.
type Key struct {
	System string
	Name   string
}

// String formats the key as system/name.
func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.System, k.Name)
}

// Names returns the names of sessions in order.
func Names(sessions []*Session) []string {
	names := make([]string, len(sessions))
	for i, s := range sessions {
		names[i] = s.Name
	}
	return names
}
