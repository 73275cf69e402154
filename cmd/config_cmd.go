// Package cmd implements the fincmd CLI commands.
package cmd

import (
	"fmt"

	"github.com/theirongolddev/fincmd/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Show current configuration",
	Annotations: map[string]string{annotationNoLedger: "true"},
	RunE:        runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := env.cfg

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Database:       %s\n", cfg.DBPath())
	if cfg.General.DataDir != "" {
		fmt.Printf("    Data directory: %s\n", cfg.General.DataDir)
	}
	fmt.Println()

	fmt.Println("  [Defaults]")
	fmt.Printf("    Monthly income: %.2f\n", cfg.Defaults.MonthlyIncome)
	fmt.Printf("    Currency:       %s\n", cfg.Defaults.Currency)
	fmt.Printf("    Decimals:       %d\n", cfg.Defaults.Decimals)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Logging]")
	fmt.Printf("    Level:  %s\n", cfg.Logging.Level)
	fmt.Printf("    Format: %s\n", cfg.Logging.Format)
	fmt.Println()

	fmt.Println("  [Undo]")
	fmt.Printf("    Depth: %d\n", cfg.Undo.Depth)
	fmt.Println()

	fmt.Println("  Run `fincmd setup` to reconfigure.")
	return nil
}
