package cmd

import (
	"fmt"

	"github.com/theirongolddev/fincmd/internal/cli"
	"github.com/theirongolddev/fincmd/internal/ledger"

	"github.com/spf13/cobra"
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Add, replan, amortize, move or delete line items",
}

var itemAddCmd = &cobra.Command{
	Use:   "add <category> <label> <amount>",
	Short: "Add a line item funded from the surplus",
	Args:  cobra.ExactArgs(3),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		id, err := svc.CategoryID(args[0])
		if err != nil {
			return err
		}
		amt, err := parseAmount(args[2])
		if err != nil {
			return err
		}
		if err := svc.AddItem(id, args[1], amt); err != nil {
			return err
		}
		done("Added %s (%s) to %s", args[1], formatter().Amount(amt), args[0])
		return nil
	},
}

var itemDeleteCmd = &cobra.Command{
	Use:   "delete <label>",
	Short: "Delete a line item, refunding its balance to the surplus",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		if err := svc.DeleteItem(args[0]); err != nil {
			return err
		}
		done("Deleted %s", args[0])
		return nil
	},
}

var itemSetCmd = &cobra.Command{
	Use:   "set <label> <amount>",
	Short: "Change an item's planned amount; the difference moves through the surplus",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		amt, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		if err := svc.UpdateItemAmount(args[0], amt); err != nil {
			return err
		}
		done("%s planned at %s", args[0], formatter().Amount(amt))
		return nil
	},
}

var itemAmortizeCmd = &cobra.Command{
	Use:   "amortize <label> <total> <months>",
	Short: "Plan an item as total spread over months",
	Args:  cobra.ExactArgs(3),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		total, err := parsePositive(args[1])
		if err != nil {
			return err
		}
		months, err := parseCount(args[2], "month count")
		if err != nil {
			return err
		}
		if err := svc.Amortize(args[0], total, months); err != nil {
			return err
		}
		st := svc.State()
		planned, _ := st.PlannedAmount(args[0])
		done("%s amortized: %s over %d months (%s a month)",
			args[0], formatter().Amount(total), months, formatter().Amount(planned))
		return nil
	},
}

var itemMoveCmd = &cobra.Command{
	Use:   "move <label> <position>",
	Short: "Move an item to a 1-based position within its category",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		to, err := parsePosition(args[1])
		if err != nil {
			return err
		}
		if err := svc.MoveItem(args[0], to); err != nil {
			return err
		}
		done("Moved %s to position %d", args[0], to+1)
		return nil
	},
}

var itemShowCmd = &cobra.Command{
	Use:   "show <label>",
	Short: "Show an item's plan and current balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		st := svc.State()
		it, cat, ok := st.FindItem(args[0])
		if !ok {
			return fmt.Errorf("item %q not found", args[0])
		}
		bal, err := svc.Balance(it.Label)
		if err != nil {
			return err
		}
		f := formatter()
		fmt.Println()
		fmt.Printf("  %s\n", cli.Header(it.Label))
		fmt.Print(cli.RenderKV([][2]string{
			{"Category", cat.Label},
			{"Planned", f.Amount(it.Amount)},
			{"Balance", cli.Tone(bal, f.Amount(bal))},
			{"Route", ledger.Route(it.Label).Kind.String()},
		}))
		if a := it.Amortization; a != nil {
			fmt.Printf("  %s\n", cli.Muted(fmt.Sprintf("amortized: %s over %d months", f.Amount(a.Total), a.Months)))
		}
		fmt.Println()
		return nil
	},
}

func init() {
	itemCmd.AddCommand(itemAddCmd, itemDeleteCmd, itemSetCmd, itemAmortizeCmd, itemMoveCmd, itemShowCmd)
	rootCmd.AddCommand(itemCmd)
}
