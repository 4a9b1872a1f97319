package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/malla/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64 // 0..1
	ShowPercent bool
	Width       int
	Theme       theme.Theme
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(th theme.Theme, label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
		Theme:       th,
	}
}

// View renders the progress bar. Plain themes draw with # and - so the bar
// survives pipes.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += p.Theme.Body.Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // "  100%"
	}

	barWidth := max(p.Width-labelWidth-percentWidth, 4)
	filled := min(max(int(float64(barWidth)*p.Percent), 0), barWidth)
	empty := barWidth - filled

	if p.Theme.Plain {
		result += "[" + strings.Repeat("#", filled) + strings.Repeat("-", empty) + "]"
	} else {
		result += p.Theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
			p.Theme.ProgressEmpty.Render(strings.Repeat(" ", empty))
	}

	if p.ShowPercent {
		result += p.Theme.Hint.Render(fmt.Sprintf("  %d%%", int(p.Percent*100+0.5)))
	}

	return result
}
