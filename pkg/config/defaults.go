package config

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath returns the default configuration file path.
//
// Returns: ~/.config/sesslink/config.yaml.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./sesslink.yaml"
	}

	return filepath.Join(homeDir, ".config", "sesslink", "config.yaml")
}

// splitList splits a comma-separated value, dropping blank entries.
func splitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
