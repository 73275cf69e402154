package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/theirongolddev/fincmd/internal/config"
	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"
	"github.com/theirongolddev/fincmd/internal/tui/components"
	"github.com/theirongolddev/fincmd/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldTheme = iota
	settingsFieldMode
	settingsFieldCurrency
	settingsFieldDecimals
	settingsFieldIncome
	settingsFieldConfirmSurplus
	settingsFieldNegativeSurplus
	settingsFieldCompact
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool
	saveErr error
}

// isToggleField reports whether field flips on Enter instead of opening an input.
func isToggleField(field int) bool {
	switch field {
	case settingsFieldMode, settingsFieldConfirmSurplus, settingsFieldNegativeSurplus, settingsFieldCompact:
		return true
	}
	return false
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	a.settings.saved = false
	a.settings.saveErr = nil

	if isToggleField(a.settings.cursor) {
		a.settings.saveErr = a.settingsToggle()
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	}

	st := a.data.state
	ti := textinput.New()
	ti.CharLimit = 32
	ti.Width = 30

	switch a.settings.cursor {
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(a.cfg.Appearance.Theme)
	case settingsFieldCurrency:
		ti.Placeholder = "AED"
		ti.SetValue(st.Settings.Currency)
	case settingsFieldDecimals:
		ti.Placeholder = "0-8"
		ti.SetValue(strconv.Itoa(st.Settings.Decimals))
	case settingsFieldIncome:
		ti.Placeholder = "monthly amount"
		ti.SetValue(st.MonthlyIncome.String())
	}

	ti.Focus()
	a.settings.editing = true
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settings.saveErr = a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

func (a *App) settingsToggle() error {
	switch a.settings.cursor {
	case settingsFieldMode:
		return a.svc.UpdateSettings(func(s *model.Settings) {
			if s.Theme == model.ThemeLight {
				s.Theme = model.ThemeDark
			} else {
				s.Theme = model.ThemeLight
			}
		})
	case settingsFieldConfirmSurplus:
		return a.svc.UpdateSettings(func(s *model.Settings) { s.ConfirmSurplusEdits = !s.ConfirmSurplusEdits })
	case settingsFieldNegativeSurplus:
		return a.svc.UpdateSettings(func(s *model.Settings) { s.AllowNegativeSurplus = !s.AllowNegativeSurplus })
	case settingsFieldCompact:
		return a.svc.UpdateSettings(func(s *model.Settings) { s.Compact = !s.Compact })
	}
	return nil
}

// settingsSave applies the edited value. Ledger settings go through the
// service; the theme is a config-file preference.
func (a *App) settingsSave() error {
	val := strings.TrimSpace(a.settings.input.Value())

	switch a.settings.cursor {
	case settingsFieldTheme:
		if !slices.Contains(theme.Names(), val) {
			return fmt.Errorf("unknown theme %q", val)
		}
		cfg := a.cfg
		cfg.Appearance.Theme = val
		if err := config.Save(cfg); err != nil {
			return err
		}
		a.cfg = cfg
		a.applyTheme()
	case settingsFieldCurrency:
		return a.svc.UpdateSettings(func(s *model.Settings) { s.Currency = strings.ToUpper(val) })
	case settingsFieldDecimals:
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid decimals %q", val)
		}
		return a.svc.UpdateSettings(func(s *model.Settings) { s.Decimals = n })
	case settingsFieldIncome:
		amt, err := money.ParsePositive(val)
		if err != nil {
			return err
		}
		return a.svc.SetIncome(amt)
	}
	return nil
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	st := a.data.state

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	onOff := func(v bool) string {
		if v {
			return "on"
		}
		return "off"
	}

	fields := []struct{ label, value string }{
		{"Theme", a.cfg.Appearance.Theme},
		{"Display mode", string(st.Settings.Theme)},
		{"Currency", st.Settings.Currency},
		{"Decimals", strconv.Itoa(st.Settings.Decimals)},
		{"Monthly income", a.formatter().Amount(st.MonthlyIncome)},
		{"Confirm surplus edits", onOff(st.Settings.ConfirmSurplusEdits)},
		{"Allow negative surplus", onOff(st.Settings.AllowNegativeSurplus)},
		{"Compact", onOff(st.Settings.Compact)},
	}

	innerW := components.CardInnerWidth(cw)

	var form strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			form.WriteString(markerStyle.Render("▸ "))
			form.WriteString(accentStyle.Render(fmt.Sprintf("%-24s ", f.label)))
			form.WriteString(a.settings.input.View())
			form.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-24s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			form.WriteString(marker + label + value)
			used := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			if pad := innerW - used; pad > 0 {
				form.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		} else {
			form.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			form.WriteString(labelStyle.Render(fmt.Sprintf("%-24s ", f.label+":")))
			form.WriteString(valueStyle.Render(f.value))
		}
		form.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		form.WriteString("\n")
		form.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		form.WriteString("\n")
		form.WriteString(greenStyle.Render("Saved!"))
	}

	form.WriteString("\n")
	form.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit or toggle  [Esc] cancel"))

	var info strings.Builder
	info.WriteString(labelStyle.Render("Ledger database: ") + valueStyle.Render(a.cfg.DBPath()) + "\n")
	info.WriteString(labelStyle.Render("Config file:     ") + valueStyle.Render(config.ConfigPath()) + "\n")
	info.WriteString(labelStyle.Render("Undo depth:      ") +
		valueStyle.Render(fmt.Sprintf("%d of %d", a.data.undoDepth, a.cfg.Undo.Depth)) + "\n")
	info.WriteString(labelStyle.Render("Schema version:  ") + valueStyle.Render(strconv.Itoa(st.SchemaVersion)))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", form.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", info.String(), cw))
	return b.String()
}
