package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the ledger as a versioned JSON document (stdout by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		data, err := svc.Export()
		if err != nil {
			return err
		}
		if len(args) == 0 || args[0] == "-" {
			_, err := os.Stdout.Write(append(data, '\n'))
			return err
		}
		if err := os.WriteFile(args[0], data, 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", args[0], err)
		}
		done("Exported to %s", args[0])
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the ledger with an exported document (undoable)",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		ok, err := confirm("Replace the current ledger?", "`fincmd undo` restores it afterwards.")
		if err != nil || !ok {
			return err
		}
		if err := svc.Import(data); err != nil {
			return fmt.Errorf("importing %s: %w", args[0], err)
		}
		done("Imported %s", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
}
