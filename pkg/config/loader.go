package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables read by the loader.
const (
	EnvConfig    = "SESSLINK_CONFIG"
	EnvLogLevel  = "SESSLINK_LOG_LEVEL"
	EnvOneToOne  = "SESSLINK_ONE_TO_ONE"
	EnvWorkspace = "SESSLINK_WORKSPACE"
)

// Loader provides methods for loading configuration from various sources.
type Loader interface {
	// Load loads configuration with the following precedence:
	// 1. Environment variables
	// 2. Configuration file
	// 3. Default values
	//
	// Returns the merged configuration or an error if validation fails.
	Load() (*Config, error)

	// LoadFromFile loads configuration from a specific file on top of the
	// defaults. The result is not validated.
	LoadFromFile(path string) (*Config, error)
}

// loader implements the Loader interface.
type loader struct {
	configPath string
}

// NewLoader creates a new configuration loader.
//
// If configPath is empty, $SESSLINK_CONFIG is used, and failing that the
// loader searches for a config file in:
// 1. ./sesslink.yaml (current directory)
// 2. ~/.config/sesslink/config.yaml.
//
// Parameters:
//   - configPath: Explicit config file; it must exist when set
//
// Returns a Loader that applies SESSLINK_* environment overrides on top of
// the file.
func NewLoader(configPath string) Loader {
	if configPath == "" {
		configPath = os.Getenv(EnvConfig)
	}
	return &loader{
		configPath: configPath,
	}
}

// Load implements Loader.Load.
func (l *loader) Load() (*Config, error) {
	cfg := Default()

	configPath := l.configPath
	if configPath == "" {
		configPath = l.findConfigFile()
	}

	if configPath != "" {
		fileCfg, err := l.LoadFromFile(configPath)
		if err != nil {
			// An explicit path must load; a discovered one may be skipped.
			if l.configPath != "" {
				return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
			}
		} else {
			cfg = fileCfg
		}
	}

	cfg = l.applyEnvVars(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFromFile implements Loader.LoadFromFile.
//
// The file is decoded over Default(), so keys it omits keep their default
// values and booleans it sets to false stay false.
func (l *loader) LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // nolint:gosec
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in standard locations.
//
// Returns empty string if no config file is found.
func (l *loader) findConfigFile() string {
	candidates := []string{
		"./sesslink.yaml",
		DefaultPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// applyEnvVars applies environment variable overrides to the configuration.
//
// Supported environment variables:
//   - SESSLINK_LOG_LEVEL: Log level
//   - SESSLINK_ONE_TO_ONE: Comma-separated one-to-one types, or "none"
//   - SESSLINK_WORKSPACE: Comma-separated workspace directories; enables the tracker
func (l *loader) applyEnvVars(cfg *Config) *Config {
	result := *cfg

	if logLevel := os.Getenv(EnvLogLevel); logLevel != "" {
		result.Logging.Level = strings.ToLower(logLevel)
	}

	if types := os.Getenv(EnvOneToOne); types != "" {
		if strings.EqualFold(strings.TrimSpace(types), "none") {
			result.Registry.OneToOneTypes = []string{}
		} else {
			result.Registry.OneToOneTypes = splitList(types)
		}
	}

	if dirs := splitList(os.Getenv(EnvWorkspace)); len(dirs) > 0 {
		result.Tracker.WorkspaceDirs = dirs
		result.Tracker.Enabled = true
	}

	return &result
}

// Load is a convenience function that creates a loader and loads configuration.
//
// Equivalent to:
//
//	loader := NewLoader("")
//	return loader.Load()
func Load() (*Config, error) {
	return NewLoader("").Load()
}

// LoadFromFile is a convenience function that loads configuration from a file.
//
// Equivalent to:
//
//	loader := NewLoader(path)
//	return loader.Load()
func LoadFromFile(path string) (*Config, error) {
	return NewLoader(path).Load()
}

// Save writes the configuration to a YAML file.
//
// Creates parent directories if they don't exist.
// File is created with 0600 permissions (read/write for owner only).
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
