package display

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xmhha/sesslink/pkg/contexts"
	"github.com/0xmhha/sesslink/pkg/discovery"
	"github.com/0xmhha/sesslink/pkg/link"
	"github.com/0xmhha/sesslink/pkg/registry"
	"github.com/0xmhha/sesslink/pkg/session"
)

func testSessions() []*session.Session {
	return []*session.Session{{Name: "api"}, {Name: "web"}}
}

func testLinks() []link.Link {
	return []link.Link{
		{Key: session.Key{System: "process", Name: "api"}, Type: contexts.Project, Value: "/src/api"},
		{Key: session.Key{System: "process", Name: "web"}, Type: contexts.Directory, Value: "/src/web"},
	}
}

func testInfos() []registry.Info {
	links := testLinks()
	return []registry.Info{
		{Session: &session.Session{Name: "api"}, Links: links[:1], Linked: true, Detail: "pid 42"},
		{Session: &session.Session{Name: "web"}, Friendly: true},
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config Config
		want   string // Type name
	}{
		{"default format (table)", Config{}, "*display.tableFormatter"},
		{"table format", Config{Format: FormatTable}, "*display.tableFormatter"},
		{"json format", Config{Format: FormatJSON}, "*display.jsonFormatter"},
		{"simple format", Config{Format: FormatSimple}, "*display.simpleFormatter"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			formatter := New(tt.config)
			if got := fmt.Sprintf("%T", formatter); got != tt.want {
				t.Errorf("New() type = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestTableFormatter_FormatSessions(t *testing.T) {
	var buf bytes.Buffer
	f := New(Config{Format: FormatTable})

	if err := f.FormatSessions(&buf, "process", testSessions()); err != nil {
		t.Fatalf("FormatSessions() error = %v", err)
	}

	out := buf.String()
	assert.Contains(t, out, "Sessions (process)\n==================\n")
	assert.Contains(t, out, "Rank  Session\n----  -------\n#1    api\n#2    web\n")
}

func TestTableFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	f := New(Config{Format: FormatTable, Compact: true})

	require.NoError(t, f.FormatLinks(&buf, nil))
	assert.Equal(t, "Links\nNo data\n", buf.String())
}

func TestTableFormatter_FormatLinks(t *testing.T) {
	var buf bytes.Buffer
	f := New(Config{Format: FormatTable, Compact: true})

	require.NoError(t, f.FormatLinks(&buf, testLinks()))
	assert.Equal(t,
		"Links\n"+
			"System  Session Type      Value\n"+
			"process api     project   /src/api\n"+
			"process web     directory /src/web\n",
		buf.String())
}

func TestTableFormatter_FormatInfo(t *testing.T) {
	var buf bytes.Buffer
	f := New(Config{Format: FormatTable})

	require.NoError(t, f.FormatInfo(&buf, "process", testInfos()))

	out := buf.String()
	assert.Contains(t, out, "Session Info (process)")
	assert.Contains(t, out, "api      linked    project /src/api  pid 42\n")
	assert.Contains(t, out, "web      friendly  -                 -\n")
}

func TestJSONFormatter(t *testing.T) {
	f := New(Config{Format: FormatJSON, Compact: true})

	t.Run("sessions", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, f.FormatSessions(&buf, "process", testSessions()))
		assert.JSONEq(t,
			`[{"system":"process","name":"api","rank":1},{"system":"process","name":"web","rank":2}]`,
			buf.String())
	})

	t.Run("info", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, f.FormatInfo(&buf, "process", testInfos()))

		var got []map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, true, got[0]["linked"])
		assert.Equal(t, "pid 42", got[0]["detail"])
		assert.NotContains(t, got[1], "detail")
		assert.Equal(t, []any{}, got[1]["links"])
	})

	t.Run("projects", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, f.FormatProjects(&buf, []discovery.Project{{Root: "/src/api", Marker: "go.mod"}}))
		assert.JSONEq(t, `[{"root":"/src/api","marker":"go.mod"}]`, buf.String())
	})
}

func TestSimpleFormatter(t *testing.T) {
	f := New(Config{Format: FormatSimple})

	tests := []struct {
		name   string
		format func(*bytes.Buffer) error
		want   string
	}{
		{
			name:   "sessions",
			format: func(b *bytes.Buffer) error { return f.FormatSessions(b, "process", testSessions()) },
			want:   "api\nweb\n",
		},
		{
			name:   "links",
			format: func(b *bytes.Buffer) error { return f.FormatLinks(b, testLinks()) },
			want:   "process/api -> project /src/api\nprocess/web -> directory /src/web\n",
		},
		{
			name:   "info",
			format: func(b *bytes.Buffer) error { return f.FormatInfo(b, "process", testInfos()) },
			want:   "api [linked] project /src/api\nweb [friendly] -\n",
		},
		{
			name: "projects",
			format: func(b *bytes.Buffer) error {
				return f.FormatProjects(b, []discovery.Project{{Root: "/src/api", Marker: ".git"}})
			},
			want: "/src/api (.git)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tt.format(&buf))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
