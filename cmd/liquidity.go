package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fincmd/internal/cli"
	"github.com/theirongolddev/fincmd/internal/liquidity"
	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"

	"github.com/spf13/cobra"
)

var liquidityCmd = &cobra.Command{
	Use:   "liquidity",
	Short: "Break down where your money is right now",
	RunE:  runLiquidity,
}

func init() {
	rootCmd.AddCommand(liquidityCmd)
}

func runLiquidity(_ *cobra.Command, _ []string) error {
	svc, err := requireLedger()
	if err != nil {
		return err
	}
	b := svc.Liquidity()
	if flagJSON {
		return printJSON(b)
	}

	f := formatter()
	peak := 0.0
	for _, l := range b.Lines {
		peak = max(peak, l.Amount.Float64())
	}

	rows := make([][]string, 0, len(b.Lines)+2)
	for _, l := range b.Lines {
		note := l.Meta
		if l.Locked && note == "" {
			note = "locked"
		}
		rows = append(rows, []string{
			l.Label,
			cli.Tone(l.Amount, f.Amount(l.Amount)),
			cli.RenderHorizontalBar(l.Amount.Float64(), peak, 20),
			cli.Muted(note),
		})
	}
	rows = append(rows, []string{"---"}, []string{"Total", f.Amount(b.Total), "", ""})

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Reality Check",
		Headers: []string{"Source", "Amount", "", ""},
		Rows:    rows,
	}))
	fmt.Println()
	fmt.Printf("  %s\n\n", cli.Muted("Compare the total with your bank balance; `fincmd reconcile <actual>` fixes the difference."))
	return nil
}

var deficitCmd = &cobra.Command{
	Use:   "deficit",
	Short: "List what can cover a negative surplus",
	RunE:  runDeficit,
}

var deficitRaidCmd = &cobra.Command{
	Use:   "raid <label|weekly|food>",
	Short: "Cover the deficit from one source",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		svc, err := requireLedger()
		if err != nil {
			return err
		}
		target := strings.Join(args, " ")

		var take money.Money
		switch strings.ToLower(target) {
		case string(liquidity.SourceWeekly), strings.ToLower(model.LabelWeeklyMisc):
			take, err = svc.RaidWeekly()
		case string(liquidity.SourceFood), strings.ToLower(model.LabelFoodBase):
			take, err = svc.RaidFood()
		default:
			take, err = svc.RaidBucket(target)
		}
		if err != nil {
			return err
		}
		f := formatter()
		surplus := svc.State().Accounts.Surplus
		done("Took %s from %s, surplus now %s", f.Amount(take), target, cli.Tone(surplus, f.Amount(surplus)))
		return nil
	},
}

func init() {
	deficitCmd.AddCommand(deficitRaidCmd)
	rootCmd.AddCommand(deficitCmd)
}

func runDeficit(_ *cobra.Command, _ []string) error {
	svc, err := requireLedger()
	if err != nil {
		return err
	}
	st := svc.State()
	deficit := liquidity.Deficit(&st)
	sources := svc.DeficitSources()
	if flagJSON {
		return printJSON(struct {
			Deficit money.Money        `json:"deficit"`
			Sources []liquidity.Source `json:"sources"`
		}{deficit, sources})
	}

	f := formatter()
	fmt.Println()
	if deficit.IsZero() {
		fmt.Println("  No deficit. The surplus is not negative.")
		fmt.Println()
		return nil
	}
	fmt.Printf("  %s\n\n", cli.Warn("Deficit: "+f.Amount(deficit)))

	rows := make([][]string, 0, len(sources))
	for _, s := range sources {
		note := ""
		if s.Kind == liquidity.SourceFood {
			note = fmt.Sprintf("%s/day -> %s/day", f.Amount(s.RateBefore), f.Amount(s.RateAfter))
		}
		arg := s.Label
		if s.Kind != liquidity.SourceItem {
			arg = string(s.Kind)
		}
		rows = append(rows, []string{s.Label, arg, f.Amount(s.Available), f.Amount(s.Take), cli.Muted(note)})
	}
	if len(rows) == 0 {
		fmt.Println("  Nothing has a positive balance to cover it.")
		fmt.Println()
		return nil
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Deficit Sources",
		Headers: []string{"Source", "Raid", "Available", "Covers", ""},
		Rows:    rows,
	}))
	fmt.Println()
	fmt.Printf("  %s\n\n", cli.Muted("Run `fincmd deficit raid <source>` to move it to the surplus."))
	return nil
}
