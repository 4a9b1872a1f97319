package theme

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"
)

// Mode is the light or dark variant of a palette.
type Mode string

const (
	ModeDark  Mode = "dark"
	ModeLight Mode = "light"
)

// ParseMode validates a stored or user-supplied mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeDark, ModeLight:
		return m, nil
	}
	return "", fmt.Errorf("unknown theme mode %q (want dark or light)", s)
}

// Palette identifies a color preset.
type Palette string

const (
	PaletteIndigo    Palette = "indigo"
	PaletteEmerald   Palette = "emerald"
	PaletteSunset    Palette = "sunset"
	PaletteOcean     Palette = "ocean"
	PaletteNocturnal Palette = "nocturnal"
)

// Palettes returns every preset in menu order.
func Palettes() []Palette {
	return []Palette{PaletteIndigo, PaletteEmerald, PaletteSunset, PaletteOcean, PaletteNocturnal}
}

// ParsePalette validates a stored or user-supplied palette id.
func ParsePalette(s string) (Palette, error) {
	for _, p := range Palettes() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown palette %q", s)
}

// DisplayName returns a human-readable palette name.
func (p Palette) DisplayName() string {
	switch p {
	case PaletteIndigo:
		return "Indigo"
	case PaletteEmerald:
		return "Emerald"
	case PaletteSunset:
		return "Sunset"
	case PaletteOcean:
		return "Ocean"
	case PaletteNocturnal:
		return "Nocturnal"
	default:
		return string(p)
	}
}

// accents are the primary and secondary colors of each palette.
var accents = map[Palette][2]string{
	PaletteIndigo:    {"#6366F1", "#A5B4FC"},
	PaletteEmerald:   {"#10B981", "#6EE7B7"},
	PaletteSunset:    {"#F97316", "#FDBA74"},
	PaletteOcean:     {"#0EA5E9", "#7DD3FC"},
	PaletteNocturnal: {"#8B5CF6", "#C4B5FD"},
}

// Theme is a resolved set of colors and styles for terminal output.
type Theme struct {
	Mode    Mode
	Palette Palette
	Plain   bool

	Primary   color.Color
	Secondary color.Color
	Success   color.Color
	Warning   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	Border    color.Color

	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Body      lipgloss.Style
	Hint      lipgloss.Style
	Card      lipgloss.Style
	Approved  lipgloss.Style
	Available lipgloss.Style
	Blocked   lipgloss.Style
	Critical  lipgloss.Style
	Warn      lipgloss.Style

	ProgressFilled lipgloss.Style
	ProgressEmpty  lipgloss.Style
}

// New resolves a theme. A plain theme applies no color or decoration, for
// pipes and NO_COLOR terminals.
func New(mode Mode, palette Palette, plain bool) Theme {
	acc, ok := accents[palette]
	if !ok {
		palette = PaletteIndigo
		acc = accents[palette]
	}
	t := Theme{
		Mode:      mode,
		Palette:   palette,
		Plain:     plain,
		Primary:   lipgloss.Color(acc[0]),
		Secondary: lipgloss.Color(acc[1]),
		Success:   lipgloss.Color("#22C55E"),
		Warning:   lipgloss.Color("#EAB308"),
		Error:     lipgloss.Color("#F43F5E"),
	}
	if mode == ModeLight {
		t.Text = lipgloss.Color("#0F172A")
		t.TextDim = lipgloss.Color("#475569")
		t.Border = lipgloss.Color("#CBD5E1")
	} else {
		t.Text = lipgloss.Color("#F8FAFC")
		t.TextDim = lipgloss.Color("#94A3B8")
		t.Border = lipgloss.Color("#334155")
	}

	if plain {
		s := lipgloss.NewStyle()
		t.Title, t.Subtitle, t.Body, t.Hint = s, s, s, s
		t.Approved, t.Available, t.Blocked, t.Critical, t.Warn = s, s, s, s, s
		t.Card = s.Border(lipgloss.NormalBorder()).Padding(0, 1)
		t.ProgressFilled, t.ProgressEmpty = s, s
		return t
	}

	t.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary)

	t.Subtitle = lipgloss.NewStyle().
		Foreground(t.Secondary)

	t.Body = lipgloss.NewStyle().
		Foreground(t.Text)

	t.Hint = lipgloss.NewStyle().
		Foreground(t.TextDim).
		Italic(true)

	t.Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	t.Approved = lipgloss.NewStyle().
		Foreground(t.Success).
		Bold(true)

	t.Available = lipgloss.NewStyle().
		Foreground(t.Primary)

	t.Blocked = lipgloss.NewStyle().
		Foreground(t.TextDim)

	t.Critical = lipgloss.NewStyle().
		Foreground(t.Error).
		Bold(true)

	t.Warn = lipgloss.NewStyle().
		Foreground(t.Warning)

	t.ProgressFilled = lipgloss.NewStyle().
		Background(t.Secondary)

	t.ProgressEmpty = lipgloss.NewStyle().
		Background(t.Border)

	return t
}
