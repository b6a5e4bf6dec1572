package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevelFiltering(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		present []string
		absent  []string
	}{
		{
			name:    "debug shows everything",
			level:   "debug",
			present: []string{"debug message", "info message", "warn message", "error message"},
		},
		{
			name:    "warn filters debug and info",
			level:   "warn",
			present: []string{"warn message", "error message"},
			absent:  []string{"debug message", "info message"},
		},
		{
			name:    "unknown level behaves as info",
			level:   "chatty",
			present: []string{"info message"},
			absent:  []string{"debug message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(Config{Level: tt.level, Format: "text"}, &buf)

			log.Debug("debug message")
			log.Info("info message")
			log.Warn("warn message")
			log.Error("error message")

			content := buf.String()
			for _, want := range tt.present {
				if !strings.Contains(content, want) {
					t.Errorf("%q not found in log", want)
				}
			}
			for _, unwanted := range tt.absent {
				if strings.Contains(content, unwanted) {
					t.Errorf("%q should be filtered out", unwanted)
				}
			}
		})
	}
}

func TestNamed(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Level: "info", Format: "json"}, &buf)

	log.Named("registry").Info("session registered", "system", "process")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	if got := entry[ComponentKey]; got != "registry" {
		t.Errorf("component = %v, want registry", got)
	}
	if got := entry["system"]; got != "process" {
		t.Errorf("system = %v, want process", got)
	}
	if got := entry["msg"]; got != "session registered" {
		t.Errorf("msg = %v, want session registered", got)
	}
}

func TestWithKeepsParentFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(Config{Level: "info"}, &buf)

	base.With("system", "process").Named("links").Info("link added", "type", "project")

	content := buf.String()
	for _, want := range []string{"system=process", "component=links", "type=project"} {
		if !strings.Contains(content, want) {
			t.Errorf("%q not found in %q", want, content)
		}
	}
}

func TestFileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "sesslink.log")

	log := New(Config{
		Level:  "info",
		Output: logFile,
		Format: "text",
	})
	log.Info("message 1")
	log.Error("error message")

	data, err := os.ReadFile(logFile) // nolint:gosec
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, "message 1") {
		t.Error("First message not found")
	}
	if !strings.Contains(content, "error message") {
		t.Error("Error message not found")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level  string
		want   string
		wantOK bool
	}{
		{"debug", "DEBUG", true},
		{"info", "INFO", true},
		{"warning", "WARN", true},
		{" WaRn ", "WARN", true},
		{"error", "ERROR", true},
		{"unknown", "INFO", false},
		{"", "INFO", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, ok := ParseLevel(tt.level)
			if level.String() != tt.want || ok != tt.wantOK {
				t.Errorf("ParseLevel(%q) = %v, %v, want %v, %v", tt.level, level, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestGetWriter(t *testing.T) {
	for _, output := range []string{"stdout", "stderr", "", "STDOUT"} {
		writer, err := getWriter(output)
		if err != nil {
			t.Errorf("getWriter(%q) error = %v", output, err)
			continue
		}
		if writer == nil {
			t.Errorf("getWriter(%q) returned nil writer", output)
		}
	}

	if _, err := getWriter(filepath.Join(t.TempDir(), "missing", "dir", "x.log")); err == nil {
		t.Error("getWriter() error = nil for unwritable path")
	}
}

func TestNoop(t *testing.T) {
	log := Noop()
	log.Debug("debug")
	log.Named("x").With("k", "v").Error("error")
}

func BenchmarkLogWithFields(b *testing.B) {
	log := Noop().Named("registry")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		log.Info("link added", "system", "process", "type", "project")
	}
}
