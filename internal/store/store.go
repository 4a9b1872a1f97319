// Package store persists session state as flat string keys and values.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Persisted keys.
const (
	KeyThemeMode        = "theme_mode"
	KeyColorTheme       = "color_theme"
	KeyDelayConfig      = "delay_config"
	KeyCurrentSemester  = "current_semester"
	KeyApprovedCodes    = "approved_codes"
	KeyCatalogSignature = "catalog_signature"
)

// Keys lists every key the application writes.
var Keys = []string{
	KeyThemeMode,
	KeyColorTheme,
	KeyDelayConfig,
	KeyCurrentSemester,
	KeyApprovedCodes,
	KeyCatalogSignature,
}

// KV is a flat string key-value store.
type KV interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// DefaultDBPath resolves the database file path in priority order:
// 1. MALLA_DB environment variable
// 2. $XDG_DATA_HOME/malla/malla.db
// 3. ~/.local/share/malla/malla.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("MALLA_DB"); p != "" {
		return p, ensureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "malla", "malla.db")
	return p, ensureDir(p)
}

// OpenPath opens the backend matching path: a JSON file for ".json" paths,
// SQLite otherwise.
func OpenPath(path string) (KV, error) {
	if err := ensureDir(path); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if filepath.Ext(path) == ".json" {
		return OpenFile(path)
	}
	return Open(path)
}

// ensureDir creates the parent directory of path if it doesn't exist.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
