package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/theirongolddev/fincmd/internal/cli"
	"github.com/theirongolddev/fincmd/internal/ledger"
	"github.com/theirongolddev/fincmd/internal/liquidity"
	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/tui/components"
	"github.com/theirongolddev/fincmd/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderLedgerTab(cw int) string {
	t := theme.Active
	f := a.formatter()
	d := a.data
	st := d.state

	var b strings.Builder

	// Row 1: headline metrics
	surplus := st.Accounts.Surplus
	metrics := []components.Metric{
		{
			Label: "Surplus",
			Value: f.Signed(surplus),
			Note:  "of " + f.Amount(st.MonthlyIncome) + " income",
			Tone:  t.Sign(surplus.Float64()),
		},
		{
			Label: "Liquidity",
			Value: f.Amount(d.liq.Total),
			Note:  fmt.Sprintf("%d sources", len(d.liq.Lines)),
		},
		{
			Label: "Weekly",
			Value: f.Amount(d.weekly.Balance),
			Note:  fmt.Sprintf("week %d/%d · %s/wk", d.weekly.Week, model.MaxWeeks, f.Amount(d.weekly.Amount)),
			Tone:  t.Sign(d.weekly.Balance.Float64()),
		},
		{
			Label: "Food",
			Value: cli.FormatDays(d.food.DaysLeft),
			Note:  f.Amount(d.food.DailyRate) + "/day · " + f.Amount(d.food.Remainder) + " left",
		},
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	if deficit := liquidity.Deficit(&st); deficit.IsPositive() {
		warn := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
		body := warn.Render("Surplus is short by "+f.Amount(deficit)) + "\n" +
			a.renderDeficitSources(components.CardInnerWidth(cw))
		b.WriteString(components.ContentCard("Deficit", body, cw))
		b.WriteString("\n")
	}

	// Row 2: balances and savings
	accounts := a.renderAccountsCard(cw)
	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Accounts", accounts, cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Savings", a.renderSavingsBody(components.CardInnerWidth(cw)), cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Accounts", accounts, halves[0]),
			components.ContentCard("Savings", a.renderSavingsBody(components.CardInnerWidth(halves[1])), halves[1]),
		}))
	}
	b.WriteString("\n")

	hint := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	b.WriteString(components.ContentCard("", hint.Render(
		"[n] next week  [f] food day  [b] buy food  [w] weekly spend  [r] release buffer  [u] undo"), cw))

	return b.String()
}

// renderAccountsCard lists the account-linked balances against their plan.
func (a App) renderAccountsCard(outer int) string {
	f := a.formatter()
	st := a.data.state
	inner := components.CardInnerWidth(outer)
	if !a.isCompactLayout() {
		inner = components.CardInnerWidth(components.LayoutRow(outer, 2)[0])
	}

	labelW := min(18, inner/3)
	barW := max(6, inner-labelW-20)

	var lines []string
	for _, label := range model.AccountLabels {
		if label == model.LabelGeneralSavings {
			continue
		}
		planned, ok := st.PlannedAmount(label)
		if !ok {
			continue
		}
		bal := a.data.balances[label]
		lines = append(lines, components.RemainingBar(label, bal.Float64(), planned.Float64(), labelW, barW)+
			valueCell(f.Amount(bal), 12))
	}
	if len(lines) == 0 {
		return mutedText("No account-linked items")
	}
	return strings.Join(lines, "\n")
}

func (a App) renderSavingsBody(inner int) string {
	t := theme.Active
	f := a.formatter()
	st := a.data.state

	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	star := lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface)

	names := make([]string, 0, len(st.Accounts.SavingsBuckets))
	for name := range st.Accounts.SavingsBuckets {
		names = append(names, name)
	}
	sort.Strings(names)

	nameW := min(20, inner/2)
	var b strings.Builder
	for _, name := range names {
		marker := "  "
		if name == st.Accounts.SavingsDefaultBucket {
			marker = star.Render("★ ")
		}
		b.WriteString(marker)
		b.WriteString(label.Render(fmt.Sprintf("%-*s", nameW, truncStr(name, nameW))))
		b.WriteString(value.Render(fmt.Sprintf("%14s", f.Amount(st.Accounts.SavingsBuckets[name]))))
		b.WriteString("\n")
	}
	total := a.data.balances[model.LabelGeneralSavings]
	b.WriteString(label.Render(fmt.Sprintf("  %-*s", nameW, "Total")))
	b.WriteString(value.Bold(true).Render(fmt.Sprintf("%14s", f.Amount(total))))
	return b.String()
}

// renderDeficitSources lists what could cover a negative surplus.
func (a App) renderDeficitSources(inner int) string {
	f := a.formatter()
	if len(a.data.deficit) == 0 {
		return mutedText("Nothing left to draw from")
	}
	var lines []string
	for _, src := range a.data.deficit {
		line := fmt.Sprintf("%-*s take %s of %s", min(24, inner/3), truncStr(src.Label, 24),
			f.Amount(src.Take), f.Amount(src.Available))
		if src.Kind == liquidity.SourceFood {
			line += fmt.Sprintf(" (rate %s → %s)", f.Amount(src.RateBefore), f.Amount(src.RateAfter))
		}
		lines = append(lines, mutedText(line))
	}
	return strings.Join(lines, "\n")
}

func mutedText(s string) string {
	t := theme.Active
	return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(s)
}

func valueCell(s string, w int) string {
	t := theme.Active
	return lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Render(fmt.Sprintf("%*s", w, s))
}

// routeName is a short description of where label's balance lives.
func routeName(label string) string {
	return ledger.Route(label).Kind.String()
}
