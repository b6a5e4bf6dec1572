// Package contexts resolves the ambient usage contexts sessions are linked to.
//
// A context has a Type (document, directory, project, or a system-defined
// type) and a current value, usually an absolute path. The registry stores
// the value captured at link time and later asks the Resolver whether that
// stored value is still relevant to where the caller is now.
//
// Example usage:
//
//	res := contexts.New(contexts.Options{
//	    Projects: discovery.New(nil, log),
//	})
//	dir, ok := res.Current(contexts.Directory)
//	if ok && res.Relevant(contexts.Project, "/src/app") {
//	    fmt.Println("inside /src/app from", dir)
//	}
package contexts

import "strings"

// Type identifies a kind of context.
type Type string

// Built-in context types, narrowest first.
const (
	Document  Type = "document"
	Directory Type = "directory"
	Project   Type = "project"
)

// DefaultTypes returns the context types a system supports unless it
// declares its own.
func DefaultTypes() []Type {
	return []Type{Document, Directory, Project}
}

// DefaultOneToOne returns the types that allow a single link per system.
func DefaultOneToOne() []Type {
	return []Type{Document, Directory}
}

// ParseType normalizes a type name.
func ParseType(name string) Type {
	return Type(strings.ToLower(strings.TrimSpace(name)))
}

// ParseTypes normalizes a list of type names, dropping empty entries.
func ParseTypes(names []string) []Type {
	types := make([]Type, 0, len(names))
	for _, name := range names {
		if t := ParseType(name); t != "" {
			types = append(types, t)
		}
	}
	return types
}

// Contains reports whether t is in types.
func Contains(types []Type, t Type) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

// Resolver supplies current context values and decides relevance.
type Resolver interface {
	// Current returns the value of the given context type right now.
	Current(t Type) (string, bool)

	// Relevant reports whether a value stored at link time applies to the
	// current context of the same type.
	Relevant(t Type, stored string) bool
}

// DocumentSource reports the active document, if any.
type DocumentSource interface {
	ActiveDocument() (string, bool)
}

// ProjectFinder maps a directory to the root of the project containing it.
type ProjectFinder interface {
	FindRoot(dir string) (string, bool)
}
