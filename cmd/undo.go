package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/fincmd/internal/service"

	"github.com/spf13/cobra"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Restore the ledger to before the last action",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		if err := svc.Undo(); err != nil {
			if errors.Is(err, service.ErrNothingToUndo) {
				fmt.Println("  Nothing to undo.")
				return nil
			}
			return err
		}
		done("Undone (%d more available)", svc.UndoDepth())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(undoCmd)
}
