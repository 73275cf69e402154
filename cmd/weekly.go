package cmd

import (
	"fmt"

	"github.com/theirongolddev/fincmd/internal/cli"
	"github.com/theirongolddev/fincmd/internal/model"

	"github.com/spf13/cobra"
)

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Show the weekly allowance",
	RunE:  runWeekly,
}

func runWeekly(_ *cobra.Command, _ []string) error {
	svc, err := requireLedger()
	if err != nil {
		return err
	}
	w := svc.Weekly()
	if flagJSON {
		return printJSON(w)
	}
	f := formatter()
	fmt.Println()
	fmt.Printf("  %s\n", cli.Header("Weekly allowance"))
	fmt.Print(cli.RenderKV([][2]string{
		{"Week", fmt.Sprintf("%d of %d", w.Week, model.MaxWeeks)},
		{"Balance", cli.Tone(w.Balance, f.Amount(w.Balance))},
		{"Per week", f.Amount(w.Amount)},
		{"Still to release", fmt.Sprintf("%s  %s", f.Amount(w.Outstanding),
			cli.Muted(fmt.Sprintf("%d weeks", w.RemainingWeeks)))},
	}))
	fmt.Println()
	return nil
}

var weeklySpendCmd = &cobra.Command{
	Use:   "spend <amount>",
	Short: "Record spending from the weekly allowance",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		amt, err := parsePositive(args[0])
		if err != nil {
			return err
		}
		if err := svc.WeeklySpend(amt); err != nil {
			return err
		}
		done("Spent %s, weekly now %s", formatter().Amount(amt), formatter().Amount(svc.Weekly().Balance))
		return nil
	},
}

var weeklyRefundCmd = &cobra.Command{
	Use:   "refund <amount>",
	Short: "Put money back into the weekly allowance",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		amt, err := parsePositive(args[0])
		if err != nil {
			return err
		}
		if err := svc.WeeklyRefund(amt); err != nil {
			return err
		}
		done("Refunded %s, weekly now %s", formatter().Amount(amt), formatter().Amount(svc.Weekly().Balance))
		return nil
	},
}

var weeklyTopUpCmd = &cobra.Command{
	Use:   "topup <amount>",
	Short: "Move money from the surplus into the weekly allowance",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		amt, err := parsePositive(args[0])
		if err != nil {
			return err
		}
		if err := svc.WeeklyTopUp(amt); err != nil {
			return err
		}
		done("Topped up weekly by %s", formatter().Amount(amt))
		return nil
	},
}

var weeklyNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Release the next week's allowance",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		if err := svc.NextWeek(); err != nil {
			return err
		}
		w := svc.Weekly()
		done("Week %d started, weekly now %s", w.Week, formatter().Amount(w.Balance))
		return nil
	},
}

func init() {
	weeklyCmd.AddCommand(weeklySpendCmd, weeklyRefundCmd, weeklyTopUpCmd, weeklyNextCmd)
	rootCmd.AddCommand(weeklyCmd)
}
