package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fincmd/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Status is what the bottom bar shows.
type Status struct {
	Flash     string
	FlashErr  bool
	UndoDepth int
	Saved     string // age of the last persisted change
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s Status) string {
	t := theme.Active

	barStyle := lipgloss.NewStyle().Background(t.Surface)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	flashStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	if s.FlashErr {
		flashStyle = flashStyle.Foreground(t.Red)
	}

	left := hintStyle.Render(" [?]help  [u]ndo  [q]uit")
	if s.Flash != "" {
		left += hintStyle.Render("  ") + flashStyle.Render(s.Flash)
	}

	right := fmt.Sprintf("undo %d", s.UndoDepth)
	if s.Saved != "" {
		right += " · saved " + s.Saved
	}
	right = hintStyle.Render(right + " ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return barStyle.Width(width).Render(left + barStyle.Render(strings.Repeat(" ", gap)) + right)
}
