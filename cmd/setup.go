package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fincmd/internal/config"
	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"
	"github.com/theirongolddev/fincmd/internal/tui"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	svc, err := requireLedger()
	if err != nil {
		return err
	}
	cfg := env.cfg
	st := svc.State()

	income := st.MonthlyIncome.StringFixed(2)
	currency := st.Settings.Currency
	themeName := cfg.Appearance.Theme
	if err := tui.NewSetupForm(&income, &currency, &themeName).Run(); err != nil {
		return err
	}

	amount, err := money.ParsePositive(strings.TrimSpace(income))
	if err != nil {
		return err
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))

	cfg.Defaults.MonthlyIncome = amount.Float64()
	cfg.Defaults.Currency = currency
	cfg.Appearance.Theme = themeName
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if !amount.Equal(st.MonthlyIncome) {
		if err := svc.SetIncome(amount); err != nil {
			return err
		}
	}
	if currency != st.Settings.Currency {
		if err := svc.UpdateSettings(func(s *model.Settings) { s.Currency = currency }); err != nil {
			return err
		}
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `fincmd setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
