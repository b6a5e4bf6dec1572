// Package config provides configuration management for sesslink.
//
// Configuration is loaded from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Configuration file
// 4. Default values (lowest priority)
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("One-to-one types: %v\n", cfg.Registry.OneToOneTypes)
package config

import (
	"strings"
	"time"

	"github.com/0xmhha/sesslink/pkg/contexts"
	"github.com/0xmhha/sesslink/pkg/logger"
)

// Config represents the complete application configuration.
//
// Invariants:
// - one_to_one_types entries are non-empty
// - an enabled tracker has at least one workspace directory
// - tracker.debounce_interval must be > 0
// - systems.process.kill_timeout must be > 0
// - prompt.max_distance must be >= -1.
type Config struct {
	// Registry settings
	Registry RegistryConfig `yaml:"registry"`

	// Context resolution settings
	Context ContextConfig `yaml:"context"`

	// Active document tracking
	Tracker TrackerConfig `yaml:"tracker"`

	// Interactive prompt settings
	Prompt PromptConfig `yaml:"prompt"`

	// Per-system settings
	Systems SystemsConfig `yaml:"systems"`

	// Display settings
	Display DisplayConfig `yaml:"display"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

// RegistryConfig contains registry settings.
type RegistryConfig struct {
	// Context types that allow one link per system
	OneToOneTypes []string `yaml:"one_to_one_types"`

	// Fall back to friendly sessions when nothing is linked
	UseFriendlySessions bool `yaml:"use_friendly_sessions"`
}

// ContextConfig contains context resolution settings.
type ContextConfig struct {
	// Entries that mark a project root
	ProjectMarkers []string `yaml:"project_markers"`

	// Resolve symlinks in directory values
	FollowSymlinks bool `yaml:"follow_symlinks"`

	// Require ancestry to end at a path separator
	StrictPaths bool `yaml:"strict_paths"`
}

// TrackerConfig contains document tracker settings.
type TrackerConfig struct {
	// Watch workspaces for the active document
	Enabled bool `yaml:"enabled"`

	// Directories to watch
	WorkspaceDirs []string `yaml:"workspace_dirs"`

	// Coalescing window for file events
	DebounceInterval time.Duration `yaml:"debounce_interval"`

	// File suffixes considered documents (empty means all)
	Extensions []string `yaml:"extensions"`
}

// PromptConfig contains interactive prompt settings.
type PromptConfig struct {
	// Largest edit distance accepted for fuzzy answers (-1 disables)
	MaxDistance int `yaml:"max_distance"`
}

// SystemsConfig contains per-system settings.
type SystemsConfig struct {
	Process ProcessConfig `yaml:"process"`
}

// ProcessConfig contains process system settings.
type ProcessConfig struct {
	// Program run by each session (empty starts sessions without a process)
	Command string `yaml:"command"`

	// Arguments passed to Command
	Args []string `yaml:"args"`

	// Wait for a killed process to exit
	KillTimeout time.Duration `yaml:"kill_timeout"`
}

// DisplayConfig contains display-related settings.
type DisplayConfig struct {
	// Output format (table, json, simple)
	Format string `yaml:"format"`

	// Compact output
	Compact bool `yaml:"compact"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level"`

	// Log output destination (stdout, stderr, file path)
	Output string `yaml:"output"`

	// Log format (text, json)
	Format string `yaml:"format"`
}

// Validate checks if the configuration satisfies all invariants.
//
// Thread-safety: This method is read-only and thread-safe.
func (c *Config) Validate() error {
	for _, t := range c.Registry.OneToOneTypes {
		if strings.TrimSpace(t) == "" {
			return ErrInvalidContextType
		}
	}

	if c.Tracker.Enabled && len(c.Tracker.WorkspaceDirs) == 0 {
		return ErrNoWorkspaceDirs
	}
	if c.Tracker.DebounceInterval <= 0 {
		return ErrInvalidDebounceInterval
	}

	if c.Prompt.MaxDistance < -1 {
		return ErrInvalidMaxDistance
	}

	if c.Systems.Process.KillTimeout <= 0 {
		return ErrInvalidKillTimeout
	}

	validFormats := map[string]bool{
		"table":  true,
		"json":   true,
		"simple": true,
	}
	if !validFormats[c.Display.Format] {
		return ErrInvalidDisplayFormat
	}

	if _, ok := logger.ParseLevel(c.Logging.Level); !ok {
		return ErrInvalidLogLevel
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return ErrInvalidLogFormat
	}

	return nil
}

// OneToOne returns the configured one-to-one context types.
func (c *Config) OneToOne() []contexts.Type {
	return contexts.ParseTypes(c.Registry.OneToOneTypes)
}

// LoggerConfig returns the logger configuration.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:  c.Logging.Level,
		Output: c.Logging.Output,
		Format: c.Logging.Format,
	}
}

// Default returns a configuration with sensible default values.
func Default() *Config {
	return &Config{
		Registry: RegistryConfig{
			OneToOneTypes:       []string{string(contexts.Document), string(contexts.Directory)},
			UseFriendlySessions: true,
		},
		Context: ContextConfig{
			ProjectMarkers: []string{".git", ".hg", "go.mod", "package.json", "Cargo.toml", "pyproject.toml"},
		},
		Tracker: TrackerConfig{
			Enabled:          false,
			DebounceInterval: 100 * time.Millisecond,
		},
		Prompt: PromptConfig{
			MaxDistance: 2,
		},
		Systems: SystemsConfig{
			Process: ProcessConfig{
				KillTimeout: 5 * time.Second,
			},
		},
		Display: DisplayConfig{
			Format: "table",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Output: "stderr",
			Format: "text",
		},
	}
}
