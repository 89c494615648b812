// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Default locations, expanded with ExpandPath before use.
const (
	DefaultConfigDir    = "~/.config/eco"
	DefaultDatabasePath = "$HOME/.local/share/eco/eco.db"
	DefaultTokenFile    = "~/.config/eco/sheets_token.json"
)

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// ResolvePath returns path expanded, or fallback expanded when path is empty.
func ResolvePath(path, fallback string) string {
	if strings.TrimSpace(path) == "" {
		path = fallback
	}
	return ExpandPath(path)
}
