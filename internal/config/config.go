// Package config loads malla settings from defaults, an optional TOML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/abhisek/malla/internal/delay"
)

// Config is the resolved application configuration: defaults, then the
// TOML file, then MALLA_* environment variables.
type Config struct {
	// DBPath is the state store. Empty means store.DefaultDBPath.
	DBPath string `toml:"db_path"`
	// CatalogPath is an optional JSON/JSONC catalog replacing the embedded one.
	CatalogPath string       `toml:"catalog_path"`
	LogLevel    string       `toml:"log_level"`
	NoColor     bool         `toml:"no_color"`
	Delay       delay.Config `toml:"delay"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel: "warn",
		Delay:    delay.DefaultConfig(),
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/malla/config.toml, falling back to
// ~/.config/malla/config.toml.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "malla", "config.toml"), nil
}

// Load reads the TOML file at path over the defaults and then applies the
// environment. A missing file is only an error when required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !required:
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		// Keys absent from the file keep their default values.
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	ApplyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv applies MALLA_DB, MALLA_CATALOG and MALLA_LOG_LEVEL.
func ApplyEnv(cfg *Config) {
	setEnvString(&cfg.DBPath, "MALLA_DB")
	setEnvString(&cfg.CatalogPath, "MALLA_CATALOG")
	setEnvString(&cfg.LogLevel, "MALLA_LOG_LEVEL")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		*target = val
	}
}

// Validate checks the log level and the delay tunables.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if err := c.Delay.Validate(); err != nil {
		return fmt.Errorf("delay: %w", err)
	}
	return nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}
