package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/fincmd/internal/config"
	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"
	"github.com/theirongolddev/fincmd/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues holds what the first-run wizard collects.
type setupValues struct {
	income   string
	currency string
	theme    string
}

// NewSetupForm builds the first-run wizard used by both the dashboard and
// the setup command. Each field starts from the value its pointer holds.
func NewSetupForm(income, currency, themeName *string) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to fincmd").
				Description("A few questions to set up your budget ledger."),
			huh.NewInput().
				Title("Monthly income").
				Description("Net amount you budget each month.").
				Value(income).
				Validate(func(s string) error {
					_, err := money.ParsePositive(strings.TrimSpace(s))
					return err
				}),
			huh.NewInput().
				Title("Currency").
				Description("Shown next to amounts, e.g. AED, EUR, USD.").
				CharLimit(8).
				Value(currency).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("currency is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(themeName),
		),
	).WithShowHelp(true)
}

func newSetupForm(vals *setupValues, cfg config.Config, st model.State) *huh.Form {
	vals.income = st.MonthlyIncome.StringFixed(2)
	vals.currency = st.Settings.Currency
	if vals.currency == "" {
		vals.currency = cfg.Defaults.Currency
	}
	vals.theme = cfg.Appearance.Theme
	return NewSetupForm(&vals.income, &vals.currency, &vals.theme)
}

// saveSetup writes the wizard's answers to the config file and the ledger.
func (a App) saveSetup() (config.Config, error) {
	income, err := money.ParsePositive(strings.TrimSpace(a.setupVals.income))
	if err != nil {
		return a.cfg, err
	}
	currency := strings.ToUpper(strings.TrimSpace(a.setupVals.currency))

	cfg := a.cfg
	cfg.Defaults.MonthlyIncome = income.Float64()
	cfg.Defaults.Currency = currency
	cfg.Appearance.Theme = a.setupVals.theme
	if err := config.Save(cfg); err != nil {
		return a.cfg, fmt.Errorf("saving config: %w", err)
	}

	if !income.Equal(a.data.state.MonthlyIncome) {
		if err := a.svc.SetIncome(income); err != nil {
			return cfg, err
		}
	}
	if currency != a.data.state.Settings.Currency {
		if err := a.svc.UpdateSettings(func(s *model.Settings) { s.Currency = currency }); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}
