// Package link binds stored sessions to context values.
//
// A Link says "session K applies to context T with value V". For one-to-one
// context types a system holds at most one link of that type; adding a new
// one replaces the old regardless of session or value. Other types only
// deduplicate identical links.
//
// Example usage:
//
//	links := link.NewStore()
//	key := session.Key{System: "process", Name: "api"}
//	links.Add(link.Link{Key: key, Type: contexts.Project, Value: "/src/api"}, false)
//	stale := links.Prune(sessions.Has)
package link

import (
	"fmt"

	"github.com/0xmhha/sesslink/pkg/contexts"
	"github.com/0xmhha/sesslink/pkg/session"
)

// Link associates a session key with a context value.
type Link struct {
	Key   session.Key
	Type  contexts.Type
	Value string
}

// String formats the link for display.
func (l Link) String() string {
	return fmt.Sprintf("%s -> %s %s", l.Key, l.Type, l.Value)
}

// Filter selects links by field. Empty fields match anything.
type Filter struct {
	System string
	Name   string
	Type   contexts.Type
	Value  string
}

// Matches reports whether l satisfies the filter.
func (f Filter) Matches(l Link) bool {
	if f.System != "" && f.System != l.Key.System {
		return false
	}
	if f.Name != "" && f.Name != l.Key.Name {
		return false
	}
	if f.Type != "" && f.Type != l.Type {
		return false
	}
	if f.Value != "" && f.Value != l.Value {
		return false
	}
	return true
}

// FilterFor returns a filter on every field of l. Empty fields of l still
// match anything; use Store.Delete to remove one link exactly.
func FilterFor(l Link) Filter {
	return Filter{
		System: l.Key.System,
		Name:   l.Key.Name,
		Type:   l.Type,
		Value:  l.Value,
	}
}
