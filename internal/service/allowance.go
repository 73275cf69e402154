package service

import (
	"fmt"

	"github.com/theirongolddev/fincmd/internal/engine"
	"github.com/theirongolddev/fincmd/internal/ledger"
	"github.com/theirongolddev/fincmd/internal/liquidity"
	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"
)

// WeeklySpend records money spent from the weekly allowance.
func (s *Service) WeeklySpend(amount money.Money) error {
	return s.weekly("weekly spend", amount.Neg(), ReasonSpend)
}

// WeeklyRefund puts money back into the weekly allowance.
func (s *Service) WeeklyRefund(amount money.Money) error {
	return s.weekly("weekly refund", amount, ReasonRefund)
}

func (s *Service) weekly(op string, delta money.Money, reason string) error {
	if delta.IsZero() {
		return fmt.Errorf("zero amount: %w", engine.ErrValidation)
	}
	return s.apply(op, func(*model.State) (change, error) {
		return change{
			tx:     engine.WeeklyAdjust{Delta: delta},
			notes:  []note{{label: model.LabelWeeklyMisc, amount: delta, reason: reason}},
			detail: delta.String(),
		}, nil
	})
}

// WeeklyTopUp moves amount from the surplus into the weekly allowance.
func (s *Service) WeeklyTopUp(amount money.Money) error {
	return s.apply("weekly top up", func(*model.State) (change, error) {
		return change{
			tx: engine.Transfer{From: model.LabelSurplus, To: model.LabelWeeklyMisc, Amount: amount},
			notes: []note{
				{label: model.LabelSurplus, amount: amount.Neg(), reason: transferOut(model.LabelWeeklyMisc)},
				{label: model.LabelWeeklyMisc, amount: amount, reason: ReasonTopUp},
			},
			detail: amount.String(),
		}, nil
	})
}

// NextWeek releases the next week's allowance.
func (s *Service) NextWeek() error {
	return s.apply("next week", func(view *model.State) (change, error) {
		amount := view.WeeklyAmount()
		return change{
			tx:     engine.WeeklyNext{Amount: amount},
			detail: fmt.Sprintf("week %d, +%s", view.Accounts.Weekly.Week+1, amount),
		}, nil
	})
}

// SpendFoodDay consumes one food day at the current daily rate.
func (s *Service) SpendFoodDay() error {
	return s.apply("food day", func(view *model.State) (change, error) {
		rate := ledger.New(view).Food().DailyRate
		return change{tx: engine.FoodSpend{Amount: rate}, detail: rate.String()}, nil
	})
}

// BuyFoodDays prepays days of food into the locked buffer. The weekly
// allowance pays first, the surplus pays the rest.
func (s *Service) BuyFoodDays(days int) (engine.FoodBuyPlan, error) {
	var plan engine.FoodBuyPlan
	err := s.apply("food buy", func(view *model.State) (change, error) {
		plan = engine.PlanFoodBuy(view, days)
		return change{
			tx: engine.FoodBuy{Days: days},
			notes: []note{
				{label: model.LabelWeeklyMisc, amount: plan.FromWeekly.Neg(), reason: ReasonFoodPrepaid},
				{label: model.LabelSurplus, amount: plan.FromSurplus.Neg(), reason: ReasonFoodPrepaid},
			},
			detail: fmt.Sprintf("%d days, %s", days, plan.Cost),
		}, nil
	})
	return plan, err
}

// ReleaseBuffer returns the whole locked food buffer to the surplus. It is a
// no-op when the buffer is empty.
func (s *Service) ReleaseBuffer() error {
	if !s.State().Food.LockedAmount.IsPositive() {
		return nil
	}
	return s.apply("release buffer", func(view *model.State) (change, error) {
		locked := view.Food.LockedAmount
		return change{
			tx:     engine.FoodReleaseAll{},
			notes:  []note{{label: model.LabelSurplus, amount: locked, reason: transferIn(liquidity.LabelFoodBuffer)}},
			detail: locked.String(),
		}, nil
	})
}

// UndoFoodEntry reverses one food history entry, index counted oldest first.
func (s *Service) UndoFoodEntry(index int) error {
	return s.apply("undo food entry", func(*model.State) (change, error) {
		return change{tx: engine.FoodUndo{Index: index}, detail: fmt.Sprintf("entry %d", index)}, nil
	})
}

// deficitTake is how much a raid can move: min(deficit, available).
func deficitTake(view *model.State, available money.Money) (money.Money, error) {
	deficit := liquidity.Deficit(view)
	if deficit.IsZero() {
		return money.Zero, fmt.Errorf("surplus is not negative: %w", engine.ErrValidation)
	}
	take := money.Min(deficit, available)
	if !take.IsPositive() {
		return money.Zero, fmt.Errorf("nothing available to cover the deficit: %w", engine.ErrValidation)
	}
	return take, nil
}

// RaidBucket covers the deficit from an item's balance and returns the amount taken.
func (s *Service) RaidBucket(label string) (money.Money, error) {
	var take money.Money
	err := s.apply("raid bucket", func(view *model.State) (change, error) {
		l := ledger.New(view)
		if !l.Resolvable(label) {
			return change{}, fmt.Errorf("label %q: %w", label, engine.ErrNotFound)
		}
		available := l.Current(label)
		// Aggregate debits land in the default sub-bucket, so only it can pay.
		if ledger.Route(label).Kind == ledger.SavingsAggregate {
			available = view.Accounts.SavingsBuckets[view.Accounts.SavingsDefaultBucket]
		}
		var err error
		if take, err = deficitTake(view, available); err != nil {
			return change{}, err
		}
		return change{
			tx: engine.Transfer{From: label, To: model.LabelSurplus, Amount: take},
			notes: []note{
				{label: label, amount: take.Neg(), reason: ReasonDeficit},
				{label: model.LabelSurplus, amount: take, reason: ReasonDeficit},
			},
			detail: fmt.Sprintf("%s %s", label, take),
		}, nil
	})
	return take, err
}

// RaidWeekly covers the deficit from the weekly allowance.
func (s *Service) RaidWeekly() (money.Money, error) {
	var take money.Money
	err := s.apply("raid weekly", func(view *model.State) (change, error) {
		var err error
		if take, err = deficitTake(view, view.Accounts.Weekly.Balance); err != nil {
			return change{}, err
		}
		return change{
			tx: engine.Transfer{From: model.LabelWeeklyMisc, To: model.LabelSurplus, Amount: take},
			notes: []note{
				{label: model.LabelWeeklyMisc, amount: take.Neg(), reason: ReasonDeficit},
				{label: model.LabelSurplus, amount: take, reason: ReasonDeficit},
			},
			detail: take.String(),
		}, nil
	})
	return take, err
}

// RaidFood covers the deficit from the food remainder by shrinking the Food Base plan.
func (s *Service) RaidFood() (money.Money, error) {
	var take money.Money
	err := s.apply("raid food", func(view *model.State) (change, error) {
		var err error
		if take, err = deficitTake(view, ledger.New(view).Food().Remainder); err != nil {
			return change{}, err
		}
		return change{
			tx: engine.FoodDeficitRaid{Amount: take},
			notes: []note{
				{label: model.LabelFoodBase, amount: take.Neg(), reason: ReasonDeficit},
				{label: model.LabelSurplus, amount: take, reason: ReasonDeficit},
			},
			detail: take.String(),
		}, nil
	})
	return take, err
}
