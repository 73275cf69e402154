package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/theirongolddev/fincmd/internal/engine"
	"github.com/theirongolddev/fincmd/internal/ledger"
	"github.com/theirongolddev/fincmd/internal/liquidity"
	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"
)

// Reasons written to the per-label history.
const (
	ReasonManual      = "Manual"
	ReasonCompleted   = "Completed"
	ReasonSpend       = "Spend"
	ReasonRefund      = "Refund"
	ReasonTopUp       = "Top Up"
	ReasonDeficit     = "Deficit Cover"
	ReasonReconcile   = "Reality Check"
	ReasonAllocated   = "Allocated"
	ReasonReplan      = "Replan"
	ReasonFoodPrepaid = "Food Prepaid"
)

func transferOut(to string) string { return "Trf to " + to }
func transferIn(from string) string { return "Trf from " + from }

// locate finds an item's category and index by label.
func locate(st *model.State, label string) (string, int, error) {
	for _, c := range st.Categories {
		for i, it := range c.Items {
			if it.Label == label {
				return c.ID, i, nil
			}
		}
	}
	return "", -1, fmt.Errorf("item %q: %w", label, engine.ErrNotFound)
}

// CategoryID resolves a category by id or, case-insensitively, by label.
func (s *Service) CategoryID(ref string) (string, error) {
	st := s.State()
	for _, c := range st.Categories {
		if c.ID == ref {
			return c.ID, nil
		}
	}
	for _, c := range st.Categories {
		if strings.EqualFold(c.Label, ref) {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("category %q: %w", ref, engine.ErrNotFound)
}

// AddCategory appends a user category and returns its generated id.
func (s *Service) AddCategory(label string, singleAction bool) (string, error) {
	id := "cat_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	err := s.apply("add category", func(*model.State) (change, error) {
		return change{
			tx:     engine.AddCategory{ID: id, Label: label, SingleAction: singleAction},
			detail: label,
		}, nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// RenameCategory changes a category's display label.
func (s *Service) RenameCategory(id, label string) error {
	return s.apply("rename category", func(*model.State) (change, error) {
		return change{tx: engine.RenameCategory{CategoryID: id, Label: label}, detail: label}, nil
	})
}

// refundNotes logs each item's balance moving back to the surplus.
func refundNotes(st *model.State, items []model.LineItem) []note {
	l := ledger.New(st)
	var notes []note
	for _, it := range items {
		bal := l.Balance(it.Label, it.Amount)
		notes = append(notes, note{label: model.LabelSurplus, amount: bal, reason: transferIn(it.Label)})
	}
	return notes
}

// DeleteCategory refunds every item to the surplus and removes the category.
func (s *Service) DeleteCategory(id string) error {
	return s.apply("delete category", func(view *model.State) (change, error) {
		c, _, ok := view.Category(id)
		if !ok {
			return change{}, fmt.Errorf("category %q: %w", id, engine.ErrNotFound)
		}
		return change{
			tx:     engine.DeleteCategory{CategoryID: id},
			notes:  refundNotes(view, c.Items),
			detail: c.Label,
		}, nil
	})
}

// ClearCategory refunds and removes every item, keeping the category.
func (s *Service) ClearCategory(id string) error {
	return s.apply("clear category", func(view *model.State) (change, error) {
		c, _, ok := view.Category(id)
		if !ok {
			return change{}, fmt.Errorf("category %q: %w", id, engine.ErrNotFound)
		}
		return change{
			tx:     engine.ClearCategory{CategoryID: id},
			notes:  refundNotes(view, c.Items),
			detail: c.Label,
		}, nil
	})
}

// MoveCategory reorders categories.
func (s *Service) MoveCategory(from, to int) error {
	return s.apply("move category", func(*model.State) (change, error) {
		return change{tx: engine.MoveCategory{From: from, To: to}, detail: fmt.Sprintf("%d -> %d", from, to)}, nil
	})
}

// AddItem funds a new line item from the surplus.
func (s *Service) AddItem(categoryID, label string, amount money.Money) error {
	label = strings.TrimSpace(label)
	return s.apply("add item", func(*model.State) (change, error) {
		return change{
			tx: engine.AddItem{CategoryID: categoryID, Label: label, Amount: amount},
			notes: []note{
				{label: label, amount: amount, reason: ReasonAllocated},
				{label: model.LabelSurplus, amount: amount.Neg(), reason: transferOut(label)},
			},
			detail: fmt.Sprintf("%s %s", label, amount),
		}, nil
	})
}

// DeleteItem refunds an item's balance to the surplus and removes it.
func (s *Service) DeleteItem(label string) error {
	return s.apply("delete item", func(view *model.State) (change, error) {
		id, idx, err := locate(view, label)
		if err != nil {
			return change{}, err
		}
		c, _, _ := view.Category(id)
		return change{
			tx:     engine.DeleteItem{CategoryID: id, Index: idx},
			notes:  refundNotes(view, c.Items[idx:idx+1]),
			detail: label,
		}, nil
	})
}

// UpdateItemAmount replans an item; the difference comes from the surplus.
func (s *Service) UpdateItemAmount(label string, amount money.Money) error {
	return s.apply("update item", func(view *model.State) (change, error) {
		id, idx, err := locate(view, label)
		if err != nil {
			return change{}, err
		}
		c, _, _ := view.Category(id)
		delta := amount.Sub(c.Items[idx].Amount)
		return change{
			tx:     engine.UpdateItemAmount{CategoryID: id, Index: idx, Amount: amount},
			notes:  replanNotes(label, delta),
			detail: fmt.Sprintf("%s %s", label, amount),
		}, nil
	})
}

// Amortize spreads total over months and replans the item to the monthly share.
func (s *Service) Amortize(label string, total money.Money, months int) error {
	return s.apply("amortize item", func(view *model.State) (change, error) {
		id, idx, err := locate(view, label)
		if err != nil {
			return change{}, err
		}
		c, _, _ := view.Category(id)
		delta := total.DivInt(months).Sub(c.Items[idx].Amount)
		return change{
			tx:     engine.SetAmortization{CategoryID: id, Index: idx, Total: total, Months: months},
			notes:  replanNotes(label, delta),
			detail: fmt.Sprintf("%s %s over %d months", label, total, months),
		}, nil
	})
}

func replanNotes(label string, delta money.Money) []note {
	return []note{
		{label: label, amount: delta, reason: ReasonReplan},
		{label: model.LabelSurplus, amount: delta.Neg(), reason: transferOut(label)},
	}
}

// MoveItem moves an item to position to within its category.
func (s *Service) MoveItem(label string, to int) error {
	return s.apply("move item", func(view *model.State) (change, error) {
		id, idx, err := locate(view, label)
		if err != nil {
			return change{}, err
		}
		return change{tx: engine.MoveItem{CategoryID: id, From: idx, To: to}, detail: label}, nil
	})
}

// Transfer moves amount between two labels, either of which may be Surplus.
func (s *Service) Transfer(from, to string, amount money.Money) error {
	return s.apply("transfer", func(*model.State) (change, error) {
		return change{
			tx: engine.Transfer{From: from, To: to, Amount: amount},
			notes: []note{
				{label: from, amount: amount.Neg(), reason: transferOut(to)},
				{label: to, amount: amount, reason: transferIn(from)},
			},
			detail: fmt.Sprintf("%s %s -> %s", amount, from, to),
		}, nil
	})
}

// Adjust changes a balance by delta without a counterpart. On Surplus this
// creates or destroys money and is subject to the negative-surplus guard.
func (s *Service) Adjust(label string, delta money.Money) error {
	if delta.IsZero() {
		return fmt.Errorf("zero adjustment: %w", engine.ErrValidation)
	}
	var tx engine.Tx = engine.AdjustItemBalance{Label: label, Delta: delta}
	if ledger.Route(label).Kind == ledger.SurplusPool {
		tx = engine.AdjustSurplus{Delta: delta}
	}
	return s.apply("adjust", func(*model.State) (change, error) {
		return change{
			tx:     tx,
			notes:  []note{{label: label, amount: delta, reason: ReasonManual}},
			detail: fmt.Sprintf("%s %s", label, delta),
		}, nil
	})
}

// SetBalance overwrites a label's balance, e.g. to match a statement. The
// surplus is excluded; use Adjust or Reconcile for it.
func (s *Service) SetBalance(label string, value money.Money) error {
	if ledger.Route(label).Kind == ledger.SurplusPool {
		return fmt.Errorf("set the surplus with adjust or reconcile: %w", engine.ErrValidation)
	}
	return s.apply("set balance", func(view *model.State) (change, error) {
		delta := value.Sub(ledger.New(view).Current(label))
		return change{
			tx:     engine.SetItemBalance{Label: label, Value: value},
			notes:  []note{{label: label, amount: delta, reason: ReasonManual}},
			detail: fmt.Sprintf("%s = %s", label, value),
		}, nil
	})
}

// CompleteTask zeroes a label's balance; the money counts as spent.
func (s *Service) CompleteTask(label string) error {
	return s.apply("complete", func(view *model.State) (change, error) {
		current := ledger.New(view).Current(label)
		return change{
			tx:     engine.CompleteTask{Label: label},
			notes:  []note{{label: label, amount: current.Neg(), reason: ReasonCompleted}},
			detail: fmt.Sprintf("%s %s", label, current),
		}, nil
	})
}

// Reconcile adjusts the surplus so the liquidity total matches actual, the
// balance seen at the bank. It returns the adjustment.
func (s *Service) Reconcile(actual money.Money) (money.Money, error) {
	var delta money.Money
	s.view(func(st *model.State) { delta = liquidity.ReconcileDelta(st, actual) })
	if delta.IsZero() {
		return delta, nil
	}
	err := s.apply("reconcile", func(view *model.State) (change, error) {
		delta = liquidity.ReconcileDelta(view, actual)
		return change{
			tx:     engine.AdjustSurplus{Delta: delta},
			notes:  []note{{label: model.LabelSurplus, amount: delta, reason: ReasonReconcile}},
			detail: fmt.Sprintf("actual %s", actual),
		}, nil
	})
	return delta, err
}

// SetIncome updates the monthly income plan value.
func (s *Service) SetIncome(amount money.Money) error {
	return s.apply("set income", func(*model.State) (change, error) {
		return change{tx: engine.SetIncome{Amount: amount}, detail: amount.String()}, nil
	})
}

// UpdateSettings applies fn to a copy of the settings and stores the result.
func (s *Service) UpdateSettings(fn func(*model.Settings)) error {
	return s.apply("settings", func(view *model.State) (change, error) {
		next := view.Settings
		fn(&next)
		return change{tx: engine.SetSettings{Settings: next}}, nil
	})
}

// Reset rebuilds the default ledger from income. Settings are kept and the
// reset can be undone.
func (s *Service) Reset(income money.Money) error {
	return s.apply("reset", func(*model.State) (change, error) {
		return change{tx: engine.ResetAll{Income: income}, detail: income.String()}, nil
	})
}

// CreateSavingsBucket adds an empty savings sub-bucket.
func (s *Service) CreateSavingsBucket(name string) error {
	return s.apply("create savings bucket", func(*model.State) (change, error) {
		return change{tx: engine.CreateSavingsBucket{Name: name}, detail: name}, nil
	})
}

// AdjustSavingsBucket changes one savings sub-bucket.
func (s *Service) AdjustSavingsBucket(name string, delta money.Money) error {
	return s.apply("adjust savings bucket", func(*model.State) (change, error) {
		return change{
			tx:     engine.AdjustSavingsBucket{Name: name, Delta: delta},
			notes:  []note{{label: ledger.SavingsLabel(name), amount: delta, reason: ReasonManual}},
			detail: fmt.Sprintf("%s %s", name, delta),
		}, nil
	})
}

// SetDefaultSavingsBucket picks where General Savings changes land.
func (s *Service) SetDefaultSavingsBucket(name string) error {
	return s.apply("default savings bucket", func(*model.State) (change, error) {
		return change{tx: engine.SetDefaultSavingsBucket{Name: name}, detail: name}, nil
	})
}
