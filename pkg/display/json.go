package display

import (
	"encoding/json"
	"io"

	"github.com/0xmhha/sesslink/pkg/discovery"
	"github.com/0xmhha/sesslink/pkg/link"
	"github.com/0xmhha/sesslink/pkg/registry"
	"github.com/0xmhha/sesslink/pkg/session"
)

type sessionView struct {
	System string `json:"system"`
	Name   string `json:"name"`
	Rank   int    `json:"rank"`
}

type linkView struct {
	System  string `json:"system"`
	Session string `json:"session"`
	Type    string `json:"type"`
	Value   string `json:"value"`
}

type infoView struct {
	System   string     `json:"system"`
	Name     string     `json:"name"`
	Linked   bool       `json:"linked"`
	Friendly bool       `json:"friendly"`
	Detail   string     `json:"detail,omitempty"`
	Links    []linkView `json:"links"`
}

type projectView struct {
	Root   string `json:"root"`
	Marker string `json:"marker"`
}

func toLinkViews(links []link.Link) []linkView {
	views := make([]linkView, len(links))
	for i, l := range links {
		views[i] = linkView{System: l.Key.System, Session: l.Key.Name, Type: string(l.Type), Value: l.Value}
	}
	return views
}

// jsonFormatter formats output as JSON.
type jsonFormatter struct {
	config Config
}

func (f *jsonFormatter) encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	if !f.config.Compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

// FormatSessions implements Formatter.FormatSessions.
func (f *jsonFormatter) FormatSessions(w io.Writer, system string, sessions []*session.Session) error {
	views := make([]sessionView, len(sessions))
	for i, s := range sessions {
		views[i] = sessionView{System: system, Name: s.Name, Rank: i + 1}
	}
	return f.encode(w, views)
}

// FormatLinks implements Formatter.FormatLinks.
func (f *jsonFormatter) FormatLinks(w io.Writer, links []link.Link) error {
	return f.encode(w, toLinkViews(links))
}

// FormatInfo implements Formatter.FormatInfo.
func (f *jsonFormatter) FormatInfo(w io.Writer, system string, infos []registry.Info) error {
	views := make([]infoView, len(infos))
	for i, info := range infos {
		views[i] = infoView{
			System:   system,
			Name:     info.Session.Name,
			Linked:   info.Linked,
			Friendly: info.Friendly,
			Detail:   info.Detail,
			Links:    toLinkViews(info.Links),
		}
	}
	return f.encode(w, views)
}

// FormatProjects implements Formatter.FormatProjects.
func (f *jsonFormatter) FormatProjects(w io.Writer, projects []discovery.Project) error {
	views := make([]projectView, len(projects))
	for i, p := range projects {
		views[i] = projectView{Root: p.Root, Marker: p.Marker}
	}
	return f.encode(w, views)
}
