package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/fincmd/internal/cli"
	"github.com/theirongolddev/fincmd/internal/liquidity"
	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show surplus, liquidity, weekly and food at a glance",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// statusReport is the --json shape of the status command.
type statusReport struct {
	Income      money.Money `json:"monthlyIncome"`
	Allocated   money.Money `json:"allocated"`
	Surplus     money.Money `json:"surplus"`
	Liquidity   money.Money `json:"liquidity"`
	Weekly      money.Money `json:"weekly"`
	Week        int         `json:"week"`
	FoodLeft    money.Money `json:"foodRemainder"`
	FoodDays    int         `json:"foodDaysLeft"`
	Locked      money.Money `json:"foodLocked"`
	Deficit     money.Money `json:"deficit"`
	UndoDepth   int         `json:"undoDepth"`
	LastChanged time.Time   `json:"updatedAt,omitzero"`
}

func runStatus(_ *cobra.Command, _ []string) error {
	svc, err := requireLedger()
	if err != nil {
		return err
	}
	st := svc.State()
	weekly := svc.Weekly()
	food := svc.Food()
	updated, _ := env.store.UpdatedAt()

	r := statusReport{
		Income:      st.MonthlyIncome,
		Allocated:   st.TotalAllocated(),
		Surplus:     st.Accounts.Surplus,
		Liquidity:   svc.Liquidity().Total,
		Weekly:      weekly.Balance,
		Week:        weekly.Week,
		FoodLeft:    food.Remainder,
		FoodDays:    food.DaysLeft,
		Locked:      st.Food.LockedAmount,
		Deficit:     liquidity.Deficit(&st),
		UndoDepth:   svc.UndoDepth(),
		LastChanged: updated,
	}
	if flagJSON {
		return printJSON(r)
	}

	f := formatter()
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("FINCMD  ·  %s", st.Settings.Currency)))
	fmt.Println()

	pairs := [][2]string{
		{"Monthly income", f.Amount(r.Income)},
		{"Allocated", fmt.Sprintf("%s  %s", f.Amount(r.Allocated), cli.Muted(cli.FormatShare(r.Allocated, r.Income)))},
		{"Surplus", cli.Tone(r.Surplus, f.Amount(r.Surplus))},
		{"Liquidity", f.Amount(r.Liquidity)},
		{"Weekly", fmt.Sprintf("%s  %s", cli.Tone(r.Weekly, f.Amount(r.Weekly)),
			cli.Muted(fmt.Sprintf("week %d of %d", r.Week, model.MaxWeeks)))},
		{"Food", fmt.Sprintf("%s  %s", f.Amount(r.FoodLeft), cli.Muted(cli.FormatDays(r.FoodDays)+" left"))},
	}
	if r.Locked.IsPositive() {
		pairs = append(pairs, [2]string{"Food buffer", cli.Muted(f.Amount(r.Locked) + " locked")})
	}
	fmt.Print(cli.RenderKV(pairs))
	fmt.Println()

	if r.Deficit.IsPositive() {
		fmt.Printf("  %s\n", cli.Warn(fmt.Sprintf("Surplus is %s short. Run `fincmd deficit` to see what can cover it.",
			f.Amount(r.Deficit))))
		fmt.Println()
	}

	meta := fmt.Sprintf("undo %d", r.UndoDepth)
	if !updated.IsZero() {
		meta += "  ·  saved " + cli.FormatWhen(updated, time.Now())
	}
	fmt.Printf("  %s\n\n", cli.Muted(meta))
	return nil
}
