package engine

import (
	"fmt"

	"github.com/theirongolddev/fincmd/internal/ledger"
	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"
)

// WeeklyAdjust spends (negative) or refunds (positive) the weekly allowance.
// The Weekly Misc bucket and the weekly view move together.
type WeeklyAdjust struct {
	Delta money.Money
}

func (WeeklyAdjust) Kind() string { return "weekly_adjust" }

func (t WeeklyAdjust) apply(st *model.State) error {
	ledger.New(st).Adjust(model.LabelWeeklyMisc, t.Delta)
	st.Accounts.Weekly.Balance = st.Accounts.Weekly.Balance.Add(t.Delta)
	return nil
}

// WeeklyNext releases the next week's allowance into the weekly view.
type WeeklyNext struct {
	Amount money.Money
}

func (WeeklyNext) Kind() string { return "weekly_next" }

func (t WeeklyNext) apply(st *model.State) error {
	w := &st.Accounts.Weekly
	if w.Week >= model.MaxWeeks {
		return fmt.Errorf("already at week %d of %d: %w", w.Week, model.MaxWeeks, ErrGuard)
	}
	if t.Amount.IsNegative() {
		return fmt.Errorf("amount %s is negative: %w", t.Amount, ErrValidation)
	}
	w.Balance = w.Balance.Add(t.Amount)
	w.Week++
	return nil
}

// FoodSpend consumes one food day.
type FoodSpend struct {
	Amount money.Money
}

func (FoodSpend) Kind() string { return "food_spend" }

func (t FoodSpend) apply(st *model.State) error {
	f := &st.Food
	if f.DaysUsed >= f.DaysTotal {
		return fmt.Errorf("all %d food days used: %w", f.DaysTotal, ErrGuard)
	}
	f.DaysUsed++
	f.History = append(f.History, model.FoodEntry{Kind: model.FoodSpend, Amount: t.Amount})
	return nil
}

// FoodLock records prepaid food funds in the buffer. The caller has already
// taken the funds from the weekly allowance or the surplus.
type FoodLock struct {
	Amount money.Money
	Label  string
}

func (FoodLock) Kind() string { return "food_lock" }

func (t FoodLock) apply(st *model.State) error {
	if !t.Amount.IsPositive() {
		return fmt.Errorf("amount %s must be positive: %w", t.Amount, ErrValidation)
	}
	f := &st.Food
	f.LockedAmount = f.LockedAmount.Add(t.Amount)
	f.History = append(f.History, model.FoodEntry{Kind: model.FoodLock, Amount: t.Amount, Label: t.Label})
	return nil
}

// FoodReleaseAll returns the whole food buffer to the surplus.
type FoodReleaseAll struct{}

func (FoodReleaseAll) Kind() string { return "food_release_all" }

func (FoodReleaseAll) apply(st *model.State) error {
	st.Accounts.Surplus = st.Accounts.Surplus.Add(st.Food.LockedAmount)
	st.Food.LockedAmount = money.Zero
	return nil
}

func foodBase(st *model.State) (*model.LineItem, error) {
	if c, _, ok := st.Category(model.CategoryCoreEssentials); ok {
		for i := range c.Items {
			if c.Items[i].Label == model.LabelFoodBase {
				return &c.Items[i], nil
			}
		}
	}
	return nil, fmt.Errorf("%q: %w", model.LabelFoodBase, ErrNotFound)
}

// FoodDeficitRaid covers a deficit from the food remainder: the Food Base
// plan shrinks by Amount, capped at what it holds, and the surplus gains
// exactly what was taken.
type FoodDeficitRaid struct {
	Amount money.Money
}

func (FoodDeficitRaid) Kind() string { return "food_deficit_raid" }

func (t FoodDeficitRaid) apply(st *model.State) error {
	if !t.Amount.IsPositive() {
		return fmt.Errorf("amount %s must be positive: %w", t.Amount, ErrValidation)
	}
	fb, err := foodBase(st)
	if err != nil {
		return err
	}
	taken := money.Min(t.Amount, fb.Amount)
	if !taken.IsPositive() {
		return fmt.Errorf("%s plan is empty: %w", model.LabelFoodBase, ErrValidation)
	}
	fb.Amount = fb.Amount.Sub(taken)
	st.Accounts.Surplus = st.Accounts.Surplus.Add(taken)
	st.Food.History = append(st.Food.History, model.FoodEntry{Kind: model.FoodDeficit, Amount: taken})
	return nil
}

// FoodUndo reverses one food history entry and removes it.
type FoodUndo struct {
	Index int
}

func (FoodUndo) Kind() string { return "food_undo" }

func (t FoodUndo) apply(st *model.State) error {
	f := &st.Food
	if !inRange(t.Index, len(f.History)) {
		return fmt.Errorf("food entry %d: %w", t.Index, ErrNotFound)
	}
	e := f.History[t.Index]
	switch e.Kind {
	case model.FoodSpend:
		if f.DaysUsed > 0 {
			f.DaysUsed--
		}
	case model.FoodLock:
		f.LockedAmount = f.LockedAmount.Sub(e.Amount)
		st.Accounts.Surplus = st.Accounts.Surplus.Add(e.Amount)
	case model.FoodDeficit:
		fb, err := foodBase(st)
		if err != nil {
			return err
		}
		fb.Amount = fb.Amount.Add(e.Amount)
		st.Accounts.Surplus = st.Accounts.Surplus.Sub(e.Amount)
	default:
		return fmt.Errorf("food entry kind %q: %w", e.Kind, ErrValidation)
	}
	f.History = removeAt(f.History, t.Index)
	return nil
}

// FoodBuyPlan splits the cost of prepaying food days between the weekly
// allowance and the surplus.
type FoodBuyPlan struct {
	Days        int
	Cost        money.Money
	FromWeekly  money.Money
	FromSurplus money.Money
}

// PlanFoodBuy prices days at the current daily rate. The weekly allowance
// pays first, up to its positive balance; the surplus pays the rest.
func PlanFoodBuy(st *model.State, days int) FoodBuyPlan {
	view := st.Clone()
	cost := ledger.New(&view).Food().DailyRate.MulInt(days)
	fromWeekly := money.Min(cost, money.Max(money.Zero, st.Accounts.Weekly.Balance))
	return FoodBuyPlan{
		Days:        days,
		Cost:        cost,
		FromWeekly:  fromWeekly,
		FromSurplus: cost.Sub(fromWeekly),
	}
}

// FoodBuy prepays Days of food into the locked buffer, funded per PlanFoodBuy.
type FoodBuy struct {
	Days int
}

func (FoodBuy) Kind() string { return "food_buy" }

func (t FoodBuy) apply(st *model.State) error {
	if t.Days <= 0 {
		return fmt.Errorf("days %d must be positive: %w", t.Days, ErrValidation)
	}
	p := PlanFoodBuy(st, t.Days)
	if !p.Cost.IsPositive() {
		return fmt.Errorf("food base has no daily rate: %w", ErrValidation)
	}
	if p.FromWeekly.IsPositive() {
		ledger.New(st).Adjust(model.LabelWeeklyMisc, p.FromWeekly.Neg())
		st.Accounts.Weekly.Balance = st.Accounts.Weekly.Balance.Sub(p.FromWeekly)
	}
	st.Accounts.Surplus = st.Accounts.Surplus.Sub(p.FromSurplus)
	return FoodLock{Amount: p.Cost, Label: fmt.Sprintf("+%d Days", t.Days)}.apply(st)
}
