package tui

import (
	"strings"

	"github.com/theirongolddev/fincmd/internal/cli"
	"github.com/theirongolddev/fincmd/internal/tui/components"
	"github.com/theirongolddev/fincmd/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderLiquidityTab(cw int) string {
	t := theme.Active
	f := a.formatter()
	liq := a.data.liq
	inner := components.CardInnerWidth(cw)

	var b strings.Builder

	bars := make([]components.Bar, 0, len(liq.Lines))
	for _, l := range liq.Lines {
		text := f.Amount(l.Amount)
		if l.Meta != "" {
			text += " (" + l.Meta + ")"
		}
		text += " " + cli.FormatShare(l.Amount, liq.Total)
		bars = append(bars, components.Bar{Label: l.Label, Value: l.Amount.Float64(), Text: text})
	}

	total := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true).
		Render("Total " + f.Money(liq.Total))
	b.WriteString(components.ContentCard("Reality Check", components.HBarChart(bars, t.Cyan, inner)+"\n\n"+total, cw))

	if len(a.data.deficit) > 0 {
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Deficit Sources", a.renderDeficitSources(inner), cw))
	}

	return b.String()
}
