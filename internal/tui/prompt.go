package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/fincmd/internal/cli"
	"github.com/theirongolddev/fincmd/internal/money"
	"github.com/theirongolddev/fincmd/internal/service"
	"github.com/theirongolddev/fincmd/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type promptKind int

const (
	promptWeeklySpend promptKind = iota
	promptBuyFood
)

// promptState is the one-line input used by quick actions that need a value.
type promptState struct {
	active bool
	kind   promptKind
	input  textinput.Model
}

func (k promptKind) title() string {
	switch k {
	case promptBuyFood:
		return "Buy food days"
	default:
		return "Spend from weekly"
	}
}

func (a App) openPrompt(kind promptKind) (tea.Model, tea.Cmd) {
	ti := textinput.New()
	ti.CharLimit = 24
	ti.Width = 20
	switch kind {
	case promptBuyFood:
		ti.Placeholder = "days, e.g. 7"
	default:
		ti.Placeholder = "amount, e.g. 45.50"
	}
	ti.Focus()

	a.prompt = promptState{active: true, kind: kind, input: ti}
	a.flash = ""
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.prompt.active = false
		return a, nil
	case "enter":
		val := strings.TrimSpace(a.prompt.input.Value())
		kind := a.prompt.kind
		a.prompt.active = false
		cmd, err := promptAction(a.svc, kind, val, a.formatter())
		if err != nil {
			a.flash, a.flashErr = err.Error(), true
			return a, nil
		}
		return a, cmd
	}

	var cmd tea.Cmd
	a.prompt.input, cmd = a.prompt.input.Update(msg)
	return a, cmd
}

// promptAction parses val for kind and returns the command that applies it.
func promptAction(svc *service.Service, kind promptKind, val string, f cli.Formatter) (tea.Cmd, error) {
	switch kind {
	case promptBuyFood:
		days, err := strconv.Atoi(val)
		if err != nil || days <= 0 {
			return nil, fmt.Errorf("invalid day count %q", val)
		}
		return func() tea.Msg {
			plan, err := svc.BuyFoodDays(days)
			if err != nil {
				return actionDoneMsg{err: err}
			}
			return actionDoneMsg{text: fmt.Sprintf("Bought %s for %s (weekly %s, surplus %s)",
				cli.FormatDays(plan.Days), f.Amount(plan.Cost), f.Amount(plan.FromWeekly), f.Amount(plan.FromSurplus))}
		}, nil
	default:
		amt, err := money.ParsePositive(val)
		if err != nil {
			return nil, err
		}
		return func() tea.Msg {
			if err := svc.WeeklySpend(amt); err != nil {
				return actionDoneMsg{err: err}
			}
			return actionDoneMsg{text: fmt.Sprintf("Spent %s from weekly", f.Amount(amt))}
		}, nil
	}
}

func (a App) renderPrompt(w int) string {
	t := theme.Active
	titleStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	line := titleStyle.Render(" "+a.prompt.kind.title()+": ") +
		a.prompt.input.View() +
		hintStyle.Render("  [Enter] apply  [Esc] cancel")
	return lipgloss.NewStyle().Background(t.Surface).Width(w).Render(line)
}
