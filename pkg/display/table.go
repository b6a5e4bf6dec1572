package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/0xmhha/sesslink/pkg/discovery"
	"github.com/0xmhha/sesslink/pkg/link"
	"github.com/0xmhha/sesslink/pkg/registry"
	"github.com/0xmhha/sesslink/pkg/session"
)

// tableFormatter formats output as tables.
type tableFormatter struct {
	config Config
}

// FormatSessions implements Formatter.FormatSessions.
func (f *tableFormatter) FormatSessions(w io.Writer, system string, sessions []*session.Session) error {
	if err := writeHeader(w, fmt.Sprintf("Sessions (%s)", system), f.config.Compact); err != nil {
		return err
	}

	rows := make([][]string, len(sessions))
	for i, s := range sessions {
		rows[i] = []string{fmt.Sprintf("#%d", i+1), s.Name}
	}

	return f.writeTable(w, []string{"Rank", "Session"}, rows)
}

// FormatLinks implements Formatter.FormatLinks.
func (f *tableFormatter) FormatLinks(w io.Writer, links []link.Link) error {
	if err := writeHeader(w, "Links", f.config.Compact); err != nil {
		return err
	}

	rows := make([][]string, len(links))
	for i, l := range links {
		rows[i] = []string{l.Key.System, l.Key.Name, string(l.Type), l.Value}
	}

	return f.writeTable(w, []string{"System", "Session", "Type", "Value"}, rows)
}

// FormatInfo implements Formatter.FormatInfo.
func (f *tableFormatter) FormatInfo(w io.Writer, system string, infos []registry.Info) error {
	if err := writeHeader(w, fmt.Sprintf("Session Info (%s)", system), f.config.Compact); err != nil {
		return err
	}

	rows := make([][]string, len(infos))
	for i, info := range infos {
		detail := info.Detail
		if detail == "" {
			detail = "-"
		}
		rows[i] = []string{info.Session.Name, flags(info), linkTargets(info.Links), detail}
	}

	return f.writeTable(w, []string{"Session", "Applies", "Links", "Detail"}, rows)
}

// FormatProjects implements Formatter.FormatProjects.
func (f *tableFormatter) FormatProjects(w io.Writer, projects []discovery.Project) error {
	if err := writeHeader(w, "Projects", f.config.Compact); err != nil {
		return err
	}

	rows := make([][]string, len(projects))
	for i, p := range projects {
		rows[i] = []string{p.Root, p.Marker}
	}

	return f.writeTable(w, []string{"Root", "Marker"}, rows)
}

// writeTable writes a formatted table.
func (f *tableFormatter) writeTable(w io.Writer, header []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No data")
		return err
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}

	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	if err := f.writeRow(w, header, widths); err != nil {
		return err
	}

	if !f.config.Compact {
		separator := make([]string, len(header))
		for i, width := range widths {
			separator[i] = strings.Repeat("-", width)
		}
		if err := f.writeRow(w, separator, widths); err != nil {
			return err
		}
	}

	for _, row := range rows {
		if err := f.writeRow(w, row, widths); err != nil {
			return err
		}
	}

	if !f.config.Compact {
		_, err := fmt.Fprintln(w)
		return err
	}

	return nil
}

// writeRow writes a single table row. The last cell is not padded.
func (f *tableFormatter) writeRow(w io.Writer, cells []string, widths []int) error {
	gap := "  "
	if f.config.Compact {
		gap = " "
	}

	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteString(gap)
		}
		if i == len(cells)-1 {
			b.WriteString(cell)
			continue
		}
		fmt.Fprintf(&b, "%-*s", widths[i], cell)
	}

	_, err := fmt.Fprintln(w, b.String())
	return err
}
