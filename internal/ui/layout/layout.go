package layout

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/malla/internal/ui/theme"
)

const (
	// DefaultWidth is used when the output is not a terminal.
	DefaultWidth = 80
	MinWidth     = 40
	MaxWidth     = 120
)

// Hint is a command suggestion shown in the footer.
type Hint struct {
	Command     string
	Description string
}

// ClampWidth keeps a terminal width within the range the reports are laid
// out for.
func ClampWidth(width int) int {
	if width <= 0 {
		return DefaultWidth
	}
	return min(max(width, MinWidth), MaxWidth)
}

// RenderHeader renders the report header bar: app name, a centered title
// and a right-aligned note.
func RenderHeader(th theme.Theme, title, note string, width int) string {
	left := th.Title.Render("malla")
	center := th.Body.Render(title)
	right := th.Subtitle.Render(note)

	leftLen := lipgloss.Width(left)
	centerLen := lipgloss.Width(center)
	rightLen := lipgloss.Width(right)

	innerWidth := max(width-4, 0) // account for border padding

	leftGap := max((innerWidth-centerLen)/2-leftLen, 1)
	rightGap := max(innerWidth-leftLen-leftGap-centerLen-rightLen, 1)

	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right

	return th.Card.Width(width).Render(content)
}

// RenderFooter renders command hints on one line.
func RenderFooter(th theme.Theme, hints []Hint) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		part := th.Body.Bold(!th.Plain).Render(h.Command) +
			" " +
			th.Hint.Render(h.Description)
		parts = append(parts, part)
	}
	return "  " + strings.Join(parts, "   ")
}
