package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/fincmd/internal/cli"
	"github.com/theirongolddev/fincmd/internal/model"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show ledger display and safety settings",
	Args:  cobra.NoArgs,
	RunE:  runSettings,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting: " + strings.Join(settingKeys, ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		next := svc.State().Settings
		if err := applySetting(&next, args[0], args[1]); err != nil {
			return err
		}
		if err := svc.UpdateSettings(func(s *model.Settings) { *s = next }); err != nil {
			return err
		}
		done("%s set to %s", args[0], args[1])
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

var settingKeys = []string{"currency", "decimals", "confirm-surplus", "negative-surplus", "mode", "compact"}

// applySetting parses value for key into s.
func applySetting(s *model.Settings, key, value string) error {
	value = strings.TrimSpace(value)
	switch strings.ToLower(key) {
	case "currency":
		if value == "" {
			return errors.New("currency cannot be empty")
		}
		s.Currency = strings.ToUpper(value)
	case "decimals":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || n > 8 {
			return fmt.Errorf("decimals must be a whole number from 0 to 8, got %q", value)
		}
		s.Decimals = n
	case "confirm-surplus", "negative-surplus", "compact":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s wants true or false, got %q", key, value)
		}
		switch strings.ToLower(key) {
		case "confirm-surplus":
			s.ConfirmSurplusEdits = b
		case "negative-surplus":
			s.AllowNegativeSurplus = b
		default:
			s.Compact = b
		}
	case "mode":
		switch model.Theme(strings.ToLower(value)) {
		case model.ThemeLight:
			s.Theme = model.ThemeLight
		case model.ThemeDark:
			s.Theme = model.ThemeDark
		default:
			return fmt.Errorf("mode must be light or dark, got %q", value)
		}
	default:
		return fmt.Errorf("unknown setting %q (one of %s)", key, strings.Join(settingKeys, ", "))
	}
	return nil
}

func runSettings(_ *cobra.Command, _ []string) error {
	svc, err := requireLedger()
	if err != nil {
		return err
	}
	s := svc.State().Settings
	if flagJSON {
		return printJSON(s)
	}
	fmt.Println()
	fmt.Printf("  %s\n", cli.Header("Settings"))
	fmt.Print(cli.RenderKV([][2]string{
		{"currency", s.Currency},
		{"decimals", strconv.Itoa(s.Decimals)},
		{"confirm-surplus", strconv.FormatBool(s.ConfirmSurplusEdits)},
		{"negative-surplus", strconv.FormatBool(s.AllowNegativeSurplus)},
		{"mode", string(s.Theme)},
		{"compact", strconv.FormatBool(s.Compact)},
	}))
	fmt.Println()
	fmt.Printf("  %s\n\n", cli.Muted("Change with `fincmd settings set <key> <value>`."))
	return nil
}
