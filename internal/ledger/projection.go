package ledger

import (
	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"
)

// FoodInfo is the time-based food projection.
type FoodInfo struct {
	HasFoodBase bool
	FoodBase    money.Money
	DaysTotal   int
	DaysLeft    int
	DailyRate   money.Money
	Remainder   money.Money
}

// Food projects the remaining food budget: dailyRate = base/daysTotal and
// remainder = base*daysLeft/daysTotal.
func (l *Ledger) Food() FoodInfo {
	f := l.st.Food
	info := FoodInfo{DaysTotal: f.DaysTotal, DaysLeft: f.DaysTotal - f.DaysUsed}
	if info.DaysLeft < 0 {
		info.DaysLeft = 0
	}
	if c, _, ok := l.st.Category(model.CategoryCoreEssentials); ok {
		for _, it := range c.Items {
			if it.Label == model.LabelFoodBase {
				info.HasFoodBase = true
				info.FoodBase = it.Amount
			}
		}
	}
	if f.DaysTotal > 0 {
		info.DailyRate = info.FoodBase.DivInt(f.DaysTotal)
		info.Remainder = info.FoodBase.MulInt(info.DaysLeft).DivInt(f.DaysTotal)
	}
	return info
}

// WeeklyInfo is the weekly allowance projection.
type WeeklyInfo struct {
	Week           int
	Balance        money.Money
	Amount         money.Money
	RemainingWeeks int
	Outstanding    money.Money
}

// Weekly projects the allowance still to be released this cycle.
func (l *Ledger) Weekly() WeeklyInfo {
	w := l.st.Accounts.Weekly
	info := WeeklyInfo{
		Week:    w.Week,
		Balance: w.Balance,
		Amount:  l.st.WeeklyAmount(),
	}
	info.RemainingWeeks = model.MaxWeeks - w.Week
	if info.RemainingWeeks < 0 {
		info.RemainingWeeks = 0
	}
	info.Outstanding = info.Amount.MulInt(info.RemainingWeeks)
	return info
}
