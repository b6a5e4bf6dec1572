package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/0xmhha/sesslink/pkg/link"
	"github.com/0xmhha/sesslink/pkg/registry"
)

// New creates a new formatter based on configuration.
func New(cfg Config) Formatter {
	if cfg.Format == "" {
		cfg.Format = FormatTable
	}

	switch cfg.Format {
	case FormatJSON:
		return &jsonFormatter{config: cfg}
	case FormatSimple:
		return &simpleFormatter{config: cfg}
	case FormatTable:
		fallthrough
	default:
		return &tableFormatter{config: cfg}
	}
}

// ParseFormat returns the format named s, or an error.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatSimple:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table, json or simple)", s)
	}
}

// flags summarizes why a session applies.
func flags(info registry.Info) string {
	var parts []string
	if info.Linked {
		parts = append(parts, "linked")
	}
	if info.Friendly {
		parts = append(parts, "friendly")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}

// linkTargets renders links as "type value" pairs.
func linkTargets(links []link.Link) string {
	if len(links) == 0 {
		return "-"
	}
	targets := make([]string, len(links))
	for i, l := range links {
		targets[i] = fmt.Sprintf("%s %s", l.Type, l.Value)
	}
	return strings.Join(targets, "; ")
}

// writeHeader writes a section header.
func writeHeader(w io.Writer, title string, compact bool) error {
	if compact {
		_, err := fmt.Fprintf(w, "%s\n", title)
		return err
	}

	_, err := fmt.Fprintf(w, "\n%s\n%s\n\n", title, strings.Repeat("=", len(title)))
	return err
}
