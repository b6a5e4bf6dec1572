// Package display provides output formatting for sessions and links.
//
// It supports multiple output formats (table, JSON, simple text).
package display

import (
	"io"

	"github.com/0xmhha/sesslink/pkg/discovery"
	"github.com/0xmhha/sesslink/pkg/link"
	"github.com/0xmhha/sesslink/pkg/registry"
	"github.com/0xmhha/sesslink/pkg/session"
)

// Format represents an output format.
type Format string

const (
	// FormatTable displays data in a formatted table.
	FormatTable Format = "table"

	// FormatJSON displays data as JSON.
	FormatJSON Format = "json"

	// FormatSimple displays data in simple text format.
	FormatSimple Format = "simple"
)

// Formatter formats registry data.
type Formatter interface {
	// FormatSessions formats a ranked session list of one system.
	FormatSessions(w io.Writer, system string, sessions []*session.Session) error

	// FormatLinks formats links.
	FormatLinks(w io.Writer, links []link.Link) error

	// FormatInfo formats session details of one system.
	FormatInfo(w io.Writer, system string, infos []registry.Info) error

	// FormatProjects formats discovered projects.
	FormatProjects(w io.Writer, projects []discovery.Project) error
}

// Config contains formatter configuration.
type Config struct {
	// Format specifies the output format.
	// Default: FormatTable.
	Format Format

	// Compact enables compact output (less whitespace).
	// Default: false.
	Compact bool
}
