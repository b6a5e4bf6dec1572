package system

import (
	"fmt"
	"sort"
	"strings"
)

// Table maps system names to implementations.
//
// Table is not safe for concurrent use; the registry serializes access.
type Table struct {
	items map[string]System
}

// NewTable creates an empty system table.
func NewTable() *Table {
	return &Table{items: make(map[string]System)}
}

// Register adds sys under its name.
func (t *Table) Register(sys System) error {
	if sys == nil {
		return ErrSystemNil
	}

	name := sys.Name()
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, "/ \t\n") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if len(sys.ContextTypes()) == 0 {
		return fmt.Errorf("%w: %s", ErrNoContextTypes, name)
	}
	if _, ok := t.items[name]; ok {
		return fmt.Errorf("%w: %s", ErrSystemExists, name)
	}

	t.items[name] = sys
	return nil
}

// Get returns the system registered under name.
func (t *Table) Get(name string) (System, bool) {
	sys, ok := t.items[name]
	return sys, ok
}

// Resolve returns the system registered under name or ErrUnknownSystem.
func (t *Table) Resolve(name string) (System, error) {
	sys, ok := t.items[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSystem, name)
	}
	return sys, nil
}

// Names returns the registered system names sorted.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.items))
	for name := range t.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
