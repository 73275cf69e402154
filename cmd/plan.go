package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/fincmd/internal/cli"
	"github.com/theirongolddev/fincmd/internal/ledger"
	"github.com/theirongolddev/fincmd/internal/model"

	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:     "plan",
	Aliases: []string{"ls"},
	Short:   "Show the budget tree with planned amounts and balances",
	RunE:    runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(_ *cobra.Command, _ []string) error {
	svc, err := requireLedger()
	if err != nil {
		return err
	}
	st := svc.State()
	if flagJSON {
		return printJSON(st.Categories)
	}

	f := formatter()
	l := ledger.New(&st)

	fmt.Println()
	fmt.Println(cli.RenderTitle("BUDGET PLAN"))
	fmt.Println()

	for i, c := range st.Categories {
		rows := make([][]string, 0, len(c.Items))
		for _, it := range c.Items {
			rows = append(rows, []string{
				itemLabel(it),
				f.Amount(it.Amount),
				cli.Tone(l.Current(it.Label), f.Amount(l.Current(it.Label))),
				ledger.Route(it.Label).Kind.String(),
			})
		}
		if len(rows) == 0 {
			rows = append(rows, []string{cli.Muted("(empty)"), "", "", ""})
		}
		rows = append(rows, []string{"---"})
		rows = append(rows, []string{"Total", f.Amount(c.PlannedTotal()), "", ""})

		fmt.Print(cli.RenderTable(cli.Table{
			Title:   fmt.Sprintf("%d. %s%s", i+1, c.Label, categoryTags(c)),
			Headers: []string{"Item", "Planned", "Balance", "Route"},
			Rows:    rows,
		}))
		fmt.Println()
	}

	allocated := st.TotalAllocated()
	fmt.Print(cli.RenderKV([][2]string{
		{"Income", f.Amount(st.MonthlyIncome)},
		{"Allocated", fmt.Sprintf("%s  %s", f.Amount(allocated), cli.Muted(cli.FormatShare(allocated, st.MonthlyIncome)))},
		{"Unallocated", cli.Tone(st.MonthlyIncome.Sub(allocated), f.Amount(st.MonthlyIncome.Sub(allocated)))},
	}))
	fmt.Println()
	return nil
}

func itemLabel(it model.LineItem) string {
	s := it.Label
	if a := it.Amortization; a != nil {
		s += cli.Muted(" (" + a.Total.String() + " over " + strconv.Itoa(a.Months) + " mo)")
	}
	if it.IsAutoCalculated {
		s += cli.Muted(" auto")
	}
	return s
}

func categoryTags(c model.Category) string {
	var tags []string
	if c.IsSystem {
		tags = append(tags, "system")
	}
	if c.IsSingleAction {
		tags = append(tags, "tasks")
	}
	if len(tags) == 0 {
		return ""
	}
	return "  [" + strings.Join(tags, ", ") + "]"
}
