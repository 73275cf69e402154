// Package liquidity derives the "reality check" total: every amount the user
// can reach now or draw down this cycle.
package liquidity

import (
	"fmt"

	"github.com/theirongolddev/fincmd/internal/ledger"
	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"
)

// Line labels produced by Compute.
const (
	LabelSurplus        = "Surplus (Unallocated)"
	LabelWeeklyCurrent  = "Weekly (Current Week)"
	LabelWeeklyOutstand = "Weekly (Outstanding)"
	LabelFoodRemainder  = "Food Remainder"
	LabelFoodBuffer     = "Food Buffer"
)

// Line is one entry of the breakdown.
type Line struct {
	Label  string      `json:"label"`
	Amount money.Money `json:"amount"`
	Meta   string      `json:"meta,omitempty"`
	Locked bool        `json:"locked,omitempty"`
}

// Breakdown is the ordered list of liquid amounts and their total.
type Breakdown struct {
	Total money.Money `json:"total"`
	Lines []Line      `json:"lines"`
}

func (b *Breakdown) add(l Line) {
	b.Lines = append(b.Lines, l)
	b.Total = b.Total.Add(l.Amount)
}

// Compute builds the breakdown. It does not modify st.
func Compute(st *model.State) Breakdown {
	view := st.Clone()
	l := ledger.New(&view)

	var b Breakdown
	b.add(Line{Label: LabelSurplus, Amount: view.Accounts.Surplus})

	for _, c := range view.Categories {
		for _, it := range c.Items {
			switch it.Label {
			case model.LabelFoodBase, model.LabelWeeklyMisc:
				continue
			case model.LabelGeneralSavings:
				for _, name := range l.SavingsBucketNames() {
					b.add(Line{Label: ledger.SavingsLabel(name), Amount: view.Accounts.SavingsBuckets[name]})
				}
			default:
				b.add(Line{Label: it.Label, Amount: l.Balance(it.Label, it.Amount)})
			}
		}
	}

	w := l.Weekly()
	b.add(Line{Label: LabelWeeklyCurrent, Amount: money.Max(money.Zero, w.Balance)})
	if w.Outstanding.IsPositive() {
		b.add(Line{Label: LabelWeeklyOutstand, Amount: w.Outstanding, Meta: plural(w.RemainingWeeks, "week")})
	}

	f := l.Food()
	b.add(Line{Label: LabelFoodRemainder, Amount: f.Remainder, Meta: plural(f.DaysLeft, "day")})

	if view.Food.LockedAmount.IsPositive() {
		b.add(Line{Label: LabelFoodBuffer, Amount: view.Food.LockedAmount, Meta: "locked", Locked: true})
	}
	return b
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// ReconcileDelta is the surplus adjustment that makes Compute's total equal actual.
func ReconcileDelta(st *model.State, actual money.Money) money.Money {
	return actual.Sub(Compute(st).Total)
}
