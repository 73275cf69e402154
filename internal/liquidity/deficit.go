package liquidity

import (
	"github.com/theirongolddev/fincmd/internal/ledger"
	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"
)

// SourceKind tells the caller which raid applies to a deficit source.
type SourceKind string

const (
	SourceWeekly SourceKind = "weekly"
	SourceFood   SourceKind = "food"
	SourceItem   SourceKind = "item"
)

// Source is something that can cover a deficit.
type Source struct {
	Kind      SourceKind  `json:"kind"`
	Label     string      `json:"label"`
	Available money.Money `json:"available"`
	// Take is min(deficit, Available).
	Take money.Money `json:"take"`
	// RateBefore and RateAfter are the food per-day rates around the raid.
	RateBefore money.Money `json:"rateBefore,omitempty"`
	RateAfter  money.Money `json:"rateAfter,omitempty"`
}

// Deficit is the amount the surplus is below zero, or zero.
func Deficit(st *model.State) money.Money {
	if !st.Accounts.Surplus.IsNegative() {
		return money.Zero
	}
	return st.Accounts.Surplus.Abs()
}

// DeficitSources lists what can be raided while the surplus is negative:
// the weekly allowance, the food remainder and every item with a positive
// balance. General Savings is listed per sub-bucket. It returns nil when
// there is no deficit.
func DeficitSources(st *model.State) []Source {
	deficit := Deficit(st)
	if deficit.IsZero() {
		return nil
	}
	view := st.Clone()
	l := ledger.New(&view)

	var out []Source
	if w := view.Accounts.Weekly.Balance; w.IsPositive() {
		out = append(out, Source{
			Kind:      SourceWeekly,
			Label:     "Weekly Allowance",
			Available: w,
			Take:      money.Min(deficit, w),
		})
	}

	if f := l.Food(); f.Remainder.IsPositive() {
		take := money.Min(deficit, f.Remainder)
		after := money.Zero
		if f.DaysLeft > 0 {
			after = money.Max(money.Zero, f.Remainder.Sub(take)).DivInt(f.DaysLeft)
		}
		out = append(out, Source{
			Kind:       SourceFood,
			Label:      LabelFoodRemainder,
			Available:  f.Remainder,
			Take:       take,
			RateBefore: f.DailyRate,
			RateAfter:  after,
		})
	}

	for _, c := range view.Categories {
		for _, it := range c.Items {
			switch it.Label {
			case model.LabelFoodBase, model.LabelWeeklyMisc:
				continue
			case model.LabelGeneralSavings:
				for _, name := range l.SavingsBucketNames() {
					if bal := view.Accounts.SavingsBuckets[name]; bal.IsPositive() {
						out = append(out, Source{
							Kind:      SourceItem,
							Label:     ledger.SavingsLabel(name),
							Available: bal,
							Take:      money.Min(deficit, bal),
						})
					}
				}
				continue
			}
			bal := l.Balance(it.Label, it.Amount)
			if !bal.IsPositive() {
				continue
			}
			out = append(out, Source{
				Kind:      SourceItem,
				Label:     it.Label,
				Available: bal,
				Take:      money.Min(deficit, bal),
			})
		}
	}
	return out
}
