package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fincmd/internal/cli"
	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/tui/components"
	"github.com/theirongolddev/fincmd/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderPlanTab(cw int) string {
	t := theme.Active
	f := a.formatter()
	st := a.data.state
	inner := components.CardInnerWidth(cw)

	var b strings.Builder

	allocated := st.TotalAllocated()
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Income", Value: f.Amount(st.MonthlyIncome)},
		{Label: "Allocated", Value: f.Amount(allocated), Note: cli.FormatShare(allocated, st.MonthlyIncome) + " of income"},
		{Label: "Unallocated", Value: f.Signed(st.MonthlyIncome.Sub(allocated)), Tone: t.Sign(st.MonthlyIncome.Sub(allocated).Float64())},
	}, cw))
	b.WriteString("\n")

	bars := make([]components.Bar, 0, len(st.Categories))
	for _, c := range st.Categories {
		total := c.PlannedTotal()
		bars = append(bars, components.Bar{Label: c.Label, Value: total.Float64(), Text: f.Amount(total)})
	}
	b.WriteString(components.ContentCard("Planned by Category", components.HBarChart(bars, t.Blue, inner), cw))
	b.WriteString("\n")

	for _, c := range st.Categories {
		b.WriteString(components.ContentCard(categoryTitle(c), a.renderCategoryBody(c, inner), cw))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func categoryTitle(c model.Category) string {
	tags := ""
	switch {
	case c.IsSystem:
		tags = " · system"
	case c.IsSingleAction:
		tags = " · tasks"
	}
	return c.Label + tags
}

func (a App) renderCategoryBody(c model.Category, inner int) string {
	t := theme.Active
	f := a.formatter()

	if len(c.Items) == 0 {
		return mutedText("(empty)")
	}

	headStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	tagStyle := lipgloss.NewStyle().Foreground(t.Magenta).Background(t.Surface)

	const amountW = 12
	labelW := min(28, inner/3)
	barW := max(6, inner-labelW-2*amountW-8)

	var b strings.Builder
	b.WriteString(headStyle.Render(fmt.Sprintf("%-*s %*s %*s", labelW+barW+6, "", amountW, "Planned", amountW, "Balance")))
	for _, it := range c.Items {
		bal := a.data.balances[it.Label]
		b.WriteString("\n")
		b.WriteString(components.RemainingBar(it.Label, bal.Float64(), it.Amount.Float64(), labelW, barW))
		b.WriteString(valueCell(f.Amount(it.Amount), amountW+1))
		b.WriteString(lipgloss.NewStyle().Foreground(t.Sign(bal.Float64())).Background(t.Surface).
			Render(fmt.Sprintf("%*s", amountW+1, f.Amount(bal))))

		var tags []string
		if kind := routeName(it.Label); kind != "item" {
			tags = append(tags, kind)
		}
		if it.Amortization != nil {
			tags = append(tags, fmt.Sprintf("%s over %dmo", f.Amount(it.Amortization.Total), it.Amortization.Months))
		}
		if len(tags) > 0 {
			b.WriteString(tagStyle.Render("  " + strings.Join(tags, " · ")))
		}
	}
	return b.String()
}
