package theme

import (
	"context"
	"fmt"

	"github.com/abhisek/malla/internal/store"
)

// Prefs are the persisted display preferences.
type Prefs struct {
	Mode    Mode
	Palette Palette
}

// DefaultPrefs is used when nothing valid is stored.
func DefaultPrefs() Prefs {
	return Prefs{Mode: ModeDark, Palette: PaletteIndigo}
}

// LoadPrefs reads the stored preferences. Missing or unknown values fall
// back to the defaults field by field.
func LoadPrefs(ctx context.Context, kv store.KV) (Prefs, error) {
	p := DefaultPrefs()

	raw, ok, err := kv.Get(ctx, store.KeyThemeMode)
	if err != nil {
		return p, fmt.Errorf("load theme mode: %w", err)
	}
	if m, err := ParseMode(raw); ok && err == nil {
		p.Mode = m
	}

	raw, ok, err = kv.Get(ctx, store.KeyColorTheme)
	if err != nil {
		return p, fmt.Errorf("load color theme: %w", err)
	}
	if pal, err := ParsePalette(raw); ok && err == nil {
		p.Palette = pal
	}
	return p, nil
}

// SavePrefs stores both preferences.
func SavePrefs(ctx context.Context, kv store.KV, p Prefs) error {
	if err := kv.Set(ctx, store.KeyThemeMode, string(p.Mode)); err != nil {
		return fmt.Errorf("save theme mode: %w", err)
	}
	if err := kv.Set(ctx, store.KeyColorTheme, string(p.Palette)); err != nil {
		return fmt.Errorf("save color theme: %w", err)
	}
	return nil
}

// Toggle returns the opposite mode.
func (m Mode) Toggle() Mode {
	if m == ModeDark {
		return ModeLight
	}
	return ModeDark
}
