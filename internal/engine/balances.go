package engine

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fincmd/internal/ledger"
	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"
)

// AdjustSurplus injects or removes money directly from the unallocated pool.
// With Settings.AllowNegativeSurplus off, a change that leaves the surplus
// below zero is rejected.
type AdjustSurplus struct {
	Delta money.Money
}

func (AdjustSurplus) Kind() string { return "adjust_surplus" }

func (t AdjustSurplus) apply(st *model.State) error {
	next := st.Accounts.Surplus.Add(t.Delta)
	if !st.Settings.AllowNegativeSurplus && t.Delta.IsNegative() && next.IsNegative() {
		return fmt.Errorf("surplus would drop to %s: %w", next, ErrGuard)
	}
	st.Accounts.Surplus = next
	return nil
}

// AdjustItemBalance moves a label's running balance without touching the surplus.
type AdjustItemBalance struct {
	Label string
	Delta money.Money
}

func (AdjustItemBalance) Kind() string { return "adjust_item_balance" }

func (t AdjustItemBalance) apply(st *model.State) error {
	l := ledger.New(st)
	if !l.Resolvable(t.Label) {
		return fmt.Errorf("label %q: %w", t.Label, ErrNotFound)
	}
	l.Adjust(t.Label, t.Delta)
	return nil
}

// SetItemBalance overwrites a label's running balance.
type SetItemBalance struct {
	Label string
	Value money.Money
}

func (SetItemBalance) Kind() string { return "set_item_balance" }

func (t SetItemBalance) apply(st *model.State) error {
	l := ledger.New(st)
	if !l.Resolvable(t.Label) {
		return fmt.Errorf("label %q: %w", t.Label, ErrNotFound)
	}
	l.Set(t.Label, t.Value)
	return nil
}

// Transfer moves Amount from one label to another. "Surplus" is a valid
// endpoint, and a Weekly Misc endpoint moves the weekly view with it.
type Transfer struct {
	From   string
	To     string
	Amount money.Money
}

func (Transfer) Kind() string { return "transfer" }

func (t Transfer) apply(st *model.State) error {
	if !t.Amount.IsPositive() {
		return fmt.Errorf("amount %s must be positive: %w", t.Amount, ErrValidation)
	}
	if t.From == t.To {
		return fmt.Errorf("source and target are both %q: %w", t.From, ErrValidation)
	}
	l := ledger.New(st)
	for _, label := range []string{t.From, t.To} {
		if !l.Resolvable(label) {
			return fmt.Errorf("label %q: %w", label, ErrNotFound)
		}
	}

	l.Adjust(t.From, t.Amount.Neg())
	if t.From == model.LabelWeeklyMisc {
		st.Accounts.Weekly.Balance = st.Accounts.Weekly.Balance.Sub(t.Amount)
	}
	l.Adjust(t.To, t.Amount)
	if t.To == model.LabelWeeklyMisc {
		st.Accounts.Weekly.Balance = st.Accounts.Weekly.Balance.Add(t.Amount)
	}
	return nil
}

// CompleteTask zeroes a label's balance. The value counts as spent.
type CompleteTask struct {
	Label string
}

func (CompleteTask) Kind() string { return "complete_task" }

func (t CompleteTask) apply(st *model.State) error {
	l := ledger.New(st)
	switch ledger.Route(t.Label).Kind {
	case ledger.SurplusPool, ledger.SavingsAggregate, ledger.SavingsBucket:
		return fmt.Errorf("%q cannot be completed: %w", t.Label, ErrValidation)
	}
	if !l.Resolvable(t.Label) {
		return fmt.Errorf("label %q: %w", t.Label, ErrNotFound)
	}
	l.ResolveOrSeed(t.Label)
	l.Set(t.Label, money.Zero)
	return nil
}

// SetIncome changes the monthly income plan value. Balances are not touched.
type SetIncome struct {
	Amount money.Money
}

func (SetIncome) Kind() string { return "set_income" }

func (t SetIncome) apply(st *model.State) error {
	if t.Amount.IsNegative() {
		return fmt.Errorf("income %s is negative: %w", t.Amount, ErrValidation)
	}
	st.MonthlyIncome = t.Amount
	return nil
}

// CreateSavingsBucket adds an empty savings sub-bucket.
type CreateSavingsBucket struct {
	Name string
}

func (CreateSavingsBucket) Kind() string { return "create_savings_bucket" }

func (t CreateSavingsBucket) apply(st *model.State) error {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return fmt.Errorf("empty bucket name: %w", ErrValidation)
	}
	l := ledger.New(st)
	if l.HasSavingsBucket(name) {
		return fmt.Errorf("savings bucket %q already exists: %w", name, ErrValidation)
	}
	l.CreateSavingsBucket(name)
	return nil
}

// AdjustSavingsBucket changes one savings sub-bucket.
type AdjustSavingsBucket struct {
	Name  string
	Delta money.Money
}

func (AdjustSavingsBucket) Kind() string { return "adjust_savings_bucket" }

func (t AdjustSavingsBucket) apply(st *model.State) error {
	l := ledger.New(st)
	if !l.HasSavingsBucket(t.Name) {
		return fmt.Errorf("savings bucket %q: %w", t.Name, ErrNotFound)
	}
	l.AdjustSavingsBucket(t.Name, t.Delta)
	return nil
}

// SetDefaultSavingsBucket picks the sub-bucket that absorbs aggregate-level changes.
type SetDefaultSavingsBucket struct {
	Name string
}

func (SetDefaultSavingsBucket) Kind() string { return "set_default_savings_bucket" }

func (t SetDefaultSavingsBucket) apply(st *model.State) error {
	if !ledger.New(st).HasSavingsBucket(t.Name) {
		return fmt.Errorf("savings bucket %q: %w", t.Name, ErrNotFound)
	}
	st.Accounts.SavingsDefaultBucket = t.Name
	return nil
}

// ResetAll rebuilds the default tree and every balance from Income, keeping settings.
type ResetAll struct {
	Income money.Money
}

func (ResetAll) Kind() string { return "reset_all" }

func (t ResetAll) apply(st *model.State) error {
	if t.Income.IsNegative() {
		return fmt.Errorf("income %s is negative: %w", t.Income, ErrValidation)
	}
	*st = model.NewState(t.Income, st.Settings)
	return nil
}

// SetSettings replaces the stored preferences.
type SetSettings struct {
	Settings model.Settings
}

func (SetSettings) Kind() string { return "set_settings" }

func (t SetSettings) apply(st *model.State) error {
	s := t.Settings
	s.Currency = strings.TrimSpace(s.Currency)
	switch {
	case s.Currency == "":
		return fmt.Errorf("empty currency: %w", ErrValidation)
	case s.Decimals < 0 || s.Decimals > 8:
		return fmt.Errorf("decimals %d out of range 0-8: %w", s.Decimals, ErrValidation)
	case s.Theme != model.ThemeLight && s.Theme != model.ThemeDark:
		return fmt.Errorf("theme %q: %w", s.Theme, ErrValidation)
	}
	st.Settings = s
	return nil
}
