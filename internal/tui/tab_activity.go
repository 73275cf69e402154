package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fincmd/internal/cli"
	"github.com/theirongolddev/fincmd/internal/service"
	"github.com/theirongolddev/fincmd/internal/tui/components"
	"github.com/theirongolddev/fincmd/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderActivityTab(cw int) string {
	t := theme.Active
	inner := components.CardInnerWidth(cw)
	now := a.now()

	var b strings.Builder

	events := a.data.events
	if len(events) > 1 {
		trend := make([]float64, len(events))
		for i, ev := range events {
			trend[i] = ev.Snapshot.Surplus.Float64()
		}
		line := components.Sparkline(trend, t.Accent)
		b.WriteString(components.ContentCard(fmt.Sprintf("Surplus this session (%d changes)", len(events)), line, cw))
		b.WriteString("\n")
	}

	if len(events) > 0 {
		b.WriteString(components.ContentCard("This Session", a.renderEvents(events, inner), cw))
		b.WriteString("\n")
	}

	if len(a.data.journal) > 0 {
		dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
		opStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
		kindStyle := lipgloss.NewStyle().Foreground(t.Magenta).Background(t.Surface)

		var body strings.Builder
		for i, e := range a.data.journal {
			if i > 0 {
				body.WriteString("\n")
			}
			body.WriteString(dim.Render(fmt.Sprintf("%-10s ", cli.FormatWhen(e.At, now))))
			body.WriteString(opStyle.Render(fmt.Sprintf("%-22s ", truncStr(e.Operation, 22))))
			body.WriteString(kindStyle.Render(fmt.Sprintf("%-18s ", e.Kind)))
			body.WriteString(dim.Render(truncStr(e.Detail, max(0, inner-53))))
		}
		b.WriteString(components.ContentCard("Journal", body.String(), cw))
	} else if len(events) == 0 {
		b.WriteString(components.ContentCard("Activity", mutedText("No changes yet"), cw))
	}

	return strings.TrimRight(b.String(), "\n")
}

// renderEvents lists the session's changes, newest first, with their effect
// on surplus and liquidity.
func (a App) renderEvents(events []service.Event, inner int) string {
	t := theme.Active
	f := a.formatter()
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	opStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var lines []string
	for i := len(events) - 1; i >= 0; i-- {
		ev := events[i]
		line := dim.Render(ev.Timestamp.Local().Format("15:04:05")+"  ") +
			opStyle.Render(fmt.Sprintf("%-24s", truncStr(ev.Operation, 24)))
		if !ev.Delta.Surplus.IsZero() {
			line += lipgloss.NewStyle().Foreground(t.Sign(ev.Delta.Surplus.Float64())).Background(t.Surface).
				Render(fmt.Sprintf(" surplus %s", f.Signed(ev.Delta.Surplus)))
		}
		if !ev.Delta.Liquidity.IsZero() {
			line += dim.Render(fmt.Sprintf(" liquidity %s", f.Signed(ev.Delta.Liquidity)))
		}
		if ev.Type != service.EventApplied {
			line += dim.Render(" [" + ev.Type + "]")
		}
		lines = append(lines, lipgloss.NewStyle().MaxWidth(inner).Render(line))
	}
	return strings.Join(lines, "\n")
}
