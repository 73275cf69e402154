package cmd

import (
	"fmt"
	"slices"

	"github.com/theirongolddev/fincmd/internal/cli"
	"github.com/theirongolddev/fincmd/internal/money"

	"github.com/spf13/cobra"
)

var savingsCmd = &cobra.Command{
	Use:   "savings",
	Short: "List savings buckets",
	RunE:  runSavings,
}

func runSavings(_ *cobra.Command, _ []string) error {
	svc, err := requireLedger()
	if err != nil {
		return err
	}
	acc := svc.State().Accounts
	if flagJSON {
		return printJSON(struct {
			Buckets map[string]money.Money `json:"buckets"`
			Default string                 `json:"default"`
		}{acc.SavingsBuckets, acc.SavingsDefaultBucket})
	}

	names := make([]string, 0, len(acc.SavingsBuckets))
	for name := range acc.SavingsBuckets {
		names = append(names, name)
	}
	slices.Sort(names)

	f := formatter()
	total := money.Zero
	rows := make([][]string, 0, len(names)+2)
	for _, name := range names {
		bal := acc.SavingsBuckets[name]
		total = total.Add(bal)
		mark := ""
		if name == acc.SavingsDefaultBucket {
			mark = "default"
		}
		rows = append(rows, []string{name, cli.Tone(bal, f.Amount(bal)), mark})
	}
	rows = append(rows, []string{"---"}, []string{"Total", f.Amount(total), ""})

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Savings",
		Headers: []string{"Bucket", "Balance", ""},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}

var savingsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty savings bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		if err := svc.CreateSavingsBucket(args[0]); err != nil {
			return err
		}
		done("Created savings bucket %s", args[0])
		return nil
	},
}

var savingsAdjustCmd = &cobra.Command{
	Use:   "adjust <name> <delta>",
	Short: "Change a savings bucket by a signed amount",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		delta, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		if err := svc.AdjustSavingsBucket(args[0], delta); err != nil {
			return err
		}
		bal := svc.State().Accounts.SavingsBuckets[args[0]]
		done("%s %s, now %s", args[0], formatter().Signed(delta), formatter().Amount(bal))
		return nil
	},
}

var savingsDefaultCmd = &cobra.Command{
	Use:   "default <name>",
	Short: "Choose the bucket that General Savings changes land in",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		if err := svc.SetDefaultSavingsBucket(args[0]); err != nil {
			return err
		}
		done("Default savings bucket is now %s", args[0])
		return nil
	},
}

func init() {
	savingsCmd.AddCommand(savingsCreateCmd, savingsAdjustCmd, savingsDefaultCmd)
	rootCmd.AddCommand(savingsCmd)
}
