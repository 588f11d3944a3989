// Package xdg resolves XDG Base Directory paths for discovery-bridge.
// Connection state and the optional config file live under the config
// directory; nothing secret is written there.
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under each XDG base directory.
const AppName = "discovery-bridge"

// ConfigDir returns the XDG config directory for the application, creating it
// with private permissions (0700) if missing. It falls back to
// ~/.config/discovery-bridge when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return ensure("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for the application.
// It falls back to ~/.local/state/discovery-bridge.
func StateDir() (string, error) {
	return ensure("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func ensure(envKey, homeRel string) (string, error) {
	base := os.Getenv(envKey)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, homeRel)
	}
	dir := filepath.Join(base, AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}
