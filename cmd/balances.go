package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fincmd/internal/cli"
	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"

	"github.com/spf13/cobra"
)

var transferCmd = &cobra.Command{
	Use:   "transfer <from> <to> <amount>",
	Short: "Move money between two labels (either may be Surplus)",
	Args:  cobra.ExactArgs(3),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		amt, err := parsePositive(args[2])
		if err != nil {
			return err
		}
		if err := svc.Transfer(args[0], args[1], amt); err != nil {
			return err
		}
		done("Moved %s from %s to %s", formatter().Amount(amt), args[0], args[1])
		return nil
	},
}

var adjustCmd = &cobra.Command{
	Use:   "adjust <label> <delta>",
	Short: "Change one balance by a signed amount, e.g. spending or a correction",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		return runAdjust(args[0], args[1])
	},
}

var surplusCmd = &cobra.Command{
	Use:   "surplus [delta]",
	Short: "Show the surplus, or change it by a signed amount",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if len(args) == 1 {
			return runAdjust(model.LabelSurplus, args[0])
		}
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		bal, err := svc.Balance(model.LabelSurplus)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(map[string]money.Money{"surplus": bal})
		}
		fmt.Printf("  Surplus: %s\n", cli.Tone(bal, formatter().Money(bal)))
		return nil
	},
}

func runAdjust(label, arg string) error {
	svc, err := requireLedger()
	if err != nil {
		return err
	}
	delta, err := parseAmount(arg)
	if err != nil {
		return err
	}
	f := formatter()
	if strings.EqualFold(label, model.LabelSurplus) {
		label = model.LabelSurplus
		if svc.NeedsSurplusConfirm() {
			ok, err := confirm(fmt.Sprintf("Change the surplus by %s?", f.Signed(delta)),
				"This adds or removes money without a counterpart.")
			if err != nil || !ok {
				return err
			}
		}
	}
	if err := svc.Adjust(label, delta); err != nil {
		return err
	}
	bal, _ := svc.Balance(label)
	done("%s %s, now %s", label, f.Signed(delta), f.Amount(bal))
	return nil
}

var setBalanceCmd = &cobra.Command{
	Use:   "set-balance <label> <value>",
	Short: "Overwrite one balance, e.g. to match a statement",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		value, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		if err := svc.SetBalance(args[0], value); err != nil {
			return err
		}
		done("%s balance set to %s", args[0], formatter().Amount(value))
		return nil
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <label>",
	Short: "Mark a task done; its remaining balance counts as spent",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		if err := svc.CompleteTask(args[0]); err != nil {
			return err
		}
		done("Completed %s", args[0])
		return nil
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile <actual>",
	Short: "Adjust the surplus so liquidity matches your real bank balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		actual, err := parseAmount(args[0])
		if err != nil {
			return err
		}
		delta, err := svc.Reconcile(actual)
		if err != nil {
			return err
		}
		f := formatter()
		if delta.IsZero() {
			done("Already reconciled at %s", f.Amount(actual))
			return nil
		}
		done("Surplus adjusted by %s to match %s", cli.Tone(delta, f.Signed(delta)), f.Amount(actual))
		return nil
	},
}

var incomeCmd = &cobra.Command{
	Use:   "income [amount]",
	Short: "Show or set the monthly income",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			fmt.Printf("  Monthly income: %s\n", formatter().Money(svc.State().MonthlyIncome))
			return nil
		}
		amt, err := parsePositive(args[0])
		if err != nil {
			return err
		}
		if err := svc.SetIncome(amt); err != nil {
			return err
		}
		done("Monthly income set to %s", formatter().Amount(amt))
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset [income]",
	Short: "Rebuild the default budget, discarding categories and balances",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		income := svc.State().MonthlyIncome
		if len(args) == 1 {
			if income, err = parsePositive(args[0]); err != nil {
				return err
			}
		}
		if !flagYes {
			ok, err := confirmPhrase(resetPhrase)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("  Reset cancelled.")
				return nil
			}
		}
		if err := svc.Reset(income); err != nil {
			return err
		}
		done("Ledger reset with income %s. `fincmd undo` restores the previous state.", formatter().Amount(income))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(transferCmd, adjustCmd, setBalanceCmd, surplusCmd, completeCmd, reconcileCmd, incomeCmd, resetCmd)
}
