package cmd

import (
	"fmt"

	"github.com/theirongolddev/fincmd/internal/cli"
	"github.com/theirongolddev/fincmd/internal/ledger"
	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"

	"github.com/spf13/cobra"
)

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Show the food budget and its activity",
	RunE:  runFood,
}

func runFood(_ *cobra.Command, _ []string) error {
	svc, err := requireLedger()
	if err != nil {
		return err
	}
	info := svc.Food()
	st := svc.State()
	if flagJSON {
		return printJSON(struct {
			Projection ledger.FoodInfo   `json:"projection"`
			Locked     money.Money       `json:"lockedAmount"`
			History    []model.FoodEntry `json:"history"`
		}{info, st.Food.LockedAmount, st.Food.History})
	}

	f := formatter()
	fmt.Println()
	fmt.Printf("  %s\n", cli.Header("Food"))
	if !info.HasFoodBase {
		fmt.Printf("  %s\n\n", cli.Warn("No Food Base item in the plan."))
		return nil
	}
	pairs := [][2]string{
		{"Food Base", f.Amount(info.FoodBase)},
		{"Days left", fmt.Sprintf("%d of %d", info.DaysLeft, info.DaysTotal)},
		{"Per day", f.Amount(info.DailyRate)},
		{"Remainder", f.Amount(info.Remainder)},
	}
	if st.Food.LockedAmount.IsPositive() {
		pairs = append(pairs, [2]string{"Locked buffer", f.Amount(st.Food.LockedAmount)})
	}
	fmt.Print(cli.RenderKV(pairs))
	fmt.Println()

	if len(st.Food.History) > 0 {
		rows := make([][]string, 0, len(st.Food.History))
		for i, e := range st.Food.History {
			rows = append(rows, []string{fmt.Sprintf("%d", i+1), string(e.Kind), f.Amount(e.Amount), e.Label})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Activity",
			Headers: []string{"#", "Kind", "Amount", "Note"},
			Rows:    rows,
		}))
		fmt.Println()
	}
	return nil
}

var foodDayCmd = &cobra.Command{
	Use:   "day",
	Short: "Spend one food day",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		if err := svc.SpendFoodDay(); err != nil {
			return err
		}
		done("Food day spent, %s left", cli.FormatDays(svc.Food().DaysLeft))
		return nil
	},
}

var foodBuyCmd = &cobra.Command{
	Use:   "buy <days>",
	Short: "Prepay food days into the locked buffer (weekly pays first, then surplus)",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		days, err := parseCount(args[0], "day count")
		if err != nil {
			return err
		}
		plan, err := svc.BuyFoodDays(days)
		if err != nil {
			return err
		}
		f := formatter()
		done("Bought %s for %s (weekly %s, surplus %s)",
			cli.FormatDays(plan.Days), f.Amount(plan.Cost), f.Amount(plan.FromWeekly), f.Amount(plan.FromSurplus))
		return nil
	},
}

var foodReleaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Release the locked food buffer back to the surplus",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		locked := svc.State().Food.LockedAmount
		if err := svc.ReleaseBuffer(); err != nil {
			return err
		}
		if !locked.IsPositive() {
			fmt.Println("  Nothing locked.")
			return nil
		}
		done("Released %s to the surplus", formatter().Amount(locked))
		return nil
	},
}

var foodUndoCmd = &cobra.Command{
	Use:   "undo <entry>",
	Short: "Reverse one food activity entry (numbered as in `fincmd food`)",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		idx, err := parsePosition(args[0])
		if err != nil {
			return err
		}
		if err := svc.UndoFoodEntry(idx); err != nil {
			return err
		}
		done("Reversed food entry %d", idx+1)
		return nil
	},
}

func init() {
	foodCmd.AddCommand(foodDayCmd, foodBuyCmd, foodReleaseCmd, foodUndoCmd)
	rootCmd.AddCommand(foodCmd)
}
