package cmd

import (
	"fmt"

	"github.com/theirongolddev/fincmd/internal/config"
	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/tui"
	"github.com/theirongolddev/fincmd/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	svc, err := requireLedger()
	if err != nil {
		return err
	}
	theme.Active = theme.ForMode(env.cfg.Appearance.Theme, svc.State().Settings.Theme == model.ThemeLight)

	lipgloss.SetColorProfile(dashboardProfile(flagNoColor))

	app := tui.NewApp(svc, tui.Options{
		Config:    env.cfg,
		Journal:   env.store,
		NeedSetup: !config.Exists(),
	})
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// dashboardProfile picks TrueColor so background styling renders, unless
// --no-color or NO_COLOR asked for plain output.
func dashboardProfile(noColor bool) termenv.Profile {
	if noColor || termenv.EnvNoColor() {
		return termenv.Ascii
	}
	return termenv.TrueColor
}
