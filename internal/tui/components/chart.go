package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fincmd/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline renders values as unicode blocks scaled between their min and max.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(blocks)-1))
		idx = max(0, min(idx, len(blocks)-1))
		buf.WriteRune(blocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// Bar is one row of a horizontal bar chart.
type Bar struct {
	Label string
	Value float64
	Text  string // rendered value shown after the bar
}

// HBarChart renders labeled horizontal bars scaled to the largest value.
// Negative values render as an empty bar in the warning color.
func HBarChart(bars []Bar, color lipgloss.Color, width int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	labelW, textW := 0, 0
	peak := 0.0
	for _, b := range bars {
		labelW = max(labelW, lipgloss.Width(b.Label))
		textW = max(textW, lipgloss.Width(b.Text))
		peak = max(peak, b.Value)
	}
	labelW = min(labelW, width/3)
	if peak == 0 {
		peak = 1
	}

	barW := width - labelW - textW - 2
	if barW < 4 {
		barW = 4
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	negStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	var out strings.Builder
	for i, b := range bars {
		n := 0
		if b.Value > 0 {
			n = int(b.Value / peak * float64(barW))
			n = max(1, min(n, barW))
		}
		out.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(b.Label, labelW))))
		out.WriteString(space.Render(" "))
		out.WriteString(barStyle.Render(strings.Repeat("█", n)))
		out.WriteString(space.Render(strings.Repeat(" ", barW-n+1)))
		text := fmt.Sprintf("%*s", textW, b.Text)
		if b.Value < 0 {
			out.WriteString(negStyle.Render(text))
		} else {
			out.WriteString(labelStyle.Render(text))
		}
		if i < len(bars)-1 {
			out.WriteString("\n")
		}
	}
	return out.String()
}
