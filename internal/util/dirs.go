package util

import (
	"os"
	"path/filepath"
)

// ConfigDir returns the sentinel configuration directory, honouring
// XDG_CONFIG_HOME.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "sentinel")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "sentinel")
}

// EnsureDir ensures that a directory exists, creating it if necessary.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
