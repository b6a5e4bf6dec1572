package display

import (
	"fmt"
	"io"

	"github.com/0xmhha/sesslink/pkg/discovery"
	"github.com/0xmhha/sesslink/pkg/link"
	"github.com/0xmhha/sesslink/pkg/registry"
	"github.com/0xmhha/sesslink/pkg/session"
)

// simpleFormatter formats output as simple text.
type simpleFormatter struct {
	config Config
}

// FormatSessions implements Formatter.FormatSessions.
func (f *simpleFormatter) FormatSessions(w io.Writer, _ string, sessions []*session.Session) error {
	for _, s := range sessions {
		if _, err := fmt.Fprintln(w, s.Name); err != nil {
			return err
		}
	}
	return nil
}

// FormatLinks implements Formatter.FormatLinks.
func (f *simpleFormatter) FormatLinks(w io.Writer, links []link.Link) error {
	for _, l := range links {
		if _, err := fmt.Fprintln(w, l.String()); err != nil {
			return err
		}
	}
	return nil
}

// FormatInfo implements Formatter.FormatInfo.
func (f *simpleFormatter) FormatInfo(w io.Writer, _ string, infos []registry.Info) error {
	for _, info := range infos {
		if _, err := fmt.Fprintf(w, "%s [%s] %s\n", info.Session.Name, flags(info), linkTargets(info.Links)); err != nil {
			return err
		}
	}
	return nil
}

// FormatProjects implements Formatter.FormatProjects.
func (f *simpleFormatter) FormatProjects(w io.Writer, projects []discovery.Project) error {
	for _, p := range projects {
		if _, err := fmt.Fprintf(w, "%s (%s)\n", p.Root, p.Marker); err != nil {
			return err
		}
	}
	return nil
}
