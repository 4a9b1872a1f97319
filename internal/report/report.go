// Package report renders session state for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/malla/internal/delay"
	"github.com/abhisek/malla/internal/progress"
	"github.com/abhisek/malla/internal/ui/layout"
	"github.com/abhisek/malla/internal/ui/theme"
)

// Renderer writes styled reports to w.
type Renderer struct {
	w     io.Writer
	th    theme.Theme
	width int
}

// New returns a Renderer. The width is clamped to the supported range.
func New(w io.Writer, th theme.Theme, width int) *Renderer {
	return &Renderer{w: w, th: th, width: layout.ClampWidth(width)}
}

// Theme returns the renderer's theme.
func (r *Renderer) Theme() theme.Theme {
	return r.th
}

func (r *Renderer) println(parts ...string) {
	fmt.Fprintln(r.w, strings.Join(parts, ""))
}

func (r *Renderer) header(title, note string) {
	r.println(layout.RenderHeader(r.th, title, note, r.width))
}

func (r *Renderer) section(title string) {
	r.println()
	r.println(r.th.Title.Render(title))
	r.println(r.th.Hint.Render(strings.Repeat("─", min(lipgloss.Width(title)+4, r.width))))
}

func (r *Renderer) footer(hints ...layout.Hint) {
	if len(hints) == 0 {
		return
	}
	r.println()
	r.println(layout.RenderFooter(r.th, hints))
}

// Message prints a single status line.
func (r *Renderer) Message(format string, args ...any) {
	r.println(r.th.Body.Render(fmt.Sprintf(format, args...)))
}

// Success prints a confirmation line.
func (r *Renderer) Success(format string, args ...any) {
	r.println(r.th.Approved.Render("✓ " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning line.
func (r *Renderer) Warning(format string, args ...any) {
	r.println(r.th.Warn.Render("! " + fmt.Sprintf(format, args...)))
}

func (r *Renderer) statusStyle(s progress.Status) lipgloss.Style {
	switch s {
	case progress.StatusApproved:
		return r.th.Approved
	case progress.StatusAvailable:
		return r.th.Available
	default:
		return r.th.Blocked
	}
}

func (r *Renderer) levelStyle(l delay.Level) lipgloss.Style {
	switch l {
	case delay.LevelCritical:
		return r.th.Critical
	case delay.LevelWarning:
		return r.th.Warn
	default:
		return r.th.Approved
	}
}

func (r *Renderer) priorityStyle(p delay.Priority) lipgloss.Style {
	switch p {
	case delay.PriorityHigh:
		return r.th.Critical
	case delay.PriorityMedium:
		return r.th.Warn
	default:
		return r.th.Hint
	}
}

// fit pads or truncates s to exactly width cells.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if w := lipgloss.Width(s); w <= width {
		return s + strings.Repeat(" ", width-w)
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
