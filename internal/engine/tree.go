package engine

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fincmd/internal/ledger"
	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"
)

func validLabel(st *model.State, label string) (string, error) {
	label = strings.TrimSpace(label)
	switch {
	case label == "":
		return "", fmt.Errorf("empty label: %w", ErrValidation)
	case label == model.LabelSurplus || strings.HasPrefix(label, ledger.SavingsPrefix):
		return "", fmt.Errorf("label %q is reserved: %w", label, ErrValidation)
	case st.LabelExists(label):
		return "", fmt.Errorf("label %q already exists: %w", label, ErrValidation)
	}
	return label, nil
}

// AddItem appends a line item funded from the surplus.
type AddItem struct {
	CategoryID string
	Label      string
	Amount     money.Money
}

func (AddItem) Kind() string { return "add_item" }

func (t AddItem) apply(st *model.State) error {
	c, _, err := category(st, t.CategoryID)
	if err != nil {
		return err
	}
	label, err := validLabel(st, t.Label)
	if err != nil {
		return err
	}
	if t.Amount.IsNegative() {
		return fmt.Errorf("amount %s is negative: %w", t.Amount, ErrValidation)
	}
	c.Items = append(c.Items, model.LineItem{Label: label, Amount: t.Amount})
	st.Accounts.Surplus = st.Accounts.Surplus.Sub(t.Amount)
	ledger.New(st).Set(label, t.Amount)
	return nil
}

// refund credits the label's current balance to the surplus and drops it.
func refund(st *model.State, label string) {
	st.Accounts.Surplus = st.Accounts.Surplus.Add(ledger.New(st).Remove(label))
}

// DeleteItem refunds an item's balance to the surplus and removes it.
type DeleteItem struct {
	CategoryID string
	Index      int
}

func (DeleteItem) Kind() string { return "delete_item" }

func (t DeleteItem) apply(st *model.State) error {
	c, it, err := itemAt(st, t.CategoryID, t.Index)
	if err != nil {
		return err
	}
	if model.IsProtectedLabel(it.Label) {
		return fmt.Errorf("%q is a system item: %w", it.Label, ErrGuard)
	}
	refund(st, it.Label)
	c.Items = removeAt(c.Items, t.Index)
	return nil
}

// DeleteCategory refunds every item and removes the category.
type DeleteCategory struct {
	CategoryID string
}

func (DeleteCategory) Kind() string { return "delete_category" }

func (t DeleteCategory) apply(st *model.State) error {
	c, idx, err := category(st, t.CategoryID)
	if err != nil {
		return err
	}
	if c.IsSystem {
		return fmt.Errorf("category %q is a system category: %w", t.CategoryID, ErrGuard)
	}
	for _, it := range c.Items {
		refund(st, it.Label)
	}
	st.Categories = removeAt(st.Categories, idx)
	return nil
}

// ClearCategory refunds and removes every item but keeps the category.
type ClearCategory struct {
	CategoryID string
}

func (ClearCategory) Kind() string { return "clear_category" }

func (t ClearCategory) apply(st *model.State) error {
	c, _, err := category(st, t.CategoryID)
	if err != nil {
		return err
	}
	if c.IsSystem {
		return fmt.Errorf("category %q is a system category: %w", t.CategoryID, ErrGuard)
	}
	for _, it := range c.Items {
		refund(st, it.Label)
	}
	c.Items = []model.LineItem{}
	return nil
}

// RenameCategory replaces a user category's display label.
type RenameCategory struct {
	CategoryID string
	Label      string
}

func (RenameCategory) Kind() string { return "rename_category" }

func (t RenameCategory) apply(st *model.State) error {
	c, _, err := category(st, t.CategoryID)
	if err != nil {
		return err
	}
	if c.IsSystem {
		return fmt.Errorf("category %q is a system category: %w", t.CategoryID, ErrGuard)
	}
	label := strings.TrimSpace(t.Label)
	if label == "" {
		return fmt.Errorf("empty label: %w", ErrValidation)
	}
	c.Label = label
	return nil
}

// AddCategory appends an empty ledger-linked category.
type AddCategory struct {
	ID           string
	Label        string
	SingleAction bool
}

func (AddCategory) Kind() string { return "add_category" }

func (t AddCategory) apply(st *model.State) error {
	label := strings.TrimSpace(t.Label)
	if t.ID == "" || label == "" {
		return fmt.Errorf("category needs an id and a label: %w", ErrValidation)
	}
	if _, _, ok := st.Category(t.ID); ok {
		return fmt.Errorf("category %q already exists: %w", t.ID, ErrValidation)
	}
	st.Categories = append(st.Categories, model.Category{
		ID:             t.ID,
		Label:          label,
		IsLedgerLinked: true,
		IsSingleAction: t.SingleAction,
		Items:          []model.LineItem{},
	})
	return nil
}

// replan sets a new plan amount and lets the surplus absorb the difference.
// A tracked balance moves by the same delta; an untracked one is seeded.
func replan(st *model.State, it *model.LineItem, amount money.Money) {
	delta := amount.Sub(it.Amount)
	l := ledger.New(st)
	tracked := l.Tracked(it.Label)
	it.Amount = amount
	it.Amortization = nil
	st.Accounts.Surplus = st.Accounts.Surplus.Sub(delta)
	if tracked {
		l.Adjust(it.Label, delta)
	} else {
		l.Set(it.Label, amount)
	}
}

// UpdateItemAmount changes an item's plan amount.
type UpdateItemAmount struct {
	CategoryID string
	Index      int
	Amount     money.Money
}

func (UpdateItemAmount) Kind() string { return "update_item_amount" }

func (t UpdateItemAmount) apply(st *model.State) error {
	_, it, err := itemAt(st, t.CategoryID, t.Index)
	if err != nil {
		return err
	}
	if t.Amount.IsNegative() {
		return fmt.Errorf("amount %s is negative: %w", t.Amount, ErrValidation)
	}
	replan(st, it, t.Amount)
	return nil
}

// SetAmortization spreads Total over Months and plans the monthly share.
type SetAmortization struct {
	CategoryID string
	Index      int
	Total      money.Money
	Months     int
}

func (SetAmortization) Kind() string { return "set_amortization" }

func (t SetAmortization) apply(st *model.State) error {
	_, it, err := itemAt(st, t.CategoryID, t.Index)
	if err != nil {
		return err
	}
	if t.Months < 1 {
		return fmt.Errorf("months %d must be at least 1: %w", t.Months, ErrValidation)
	}
	if t.Total.IsNegative() {
		return fmt.Errorf("total %s is negative: %w", t.Total, ErrValidation)
	}
	replan(st, it, t.Total.DivInt(t.Months))
	it.Amortization = &model.Amortization{Total: t.Total, Months: t.Months}
	return nil
}

// MoveItem reorders an item inside its category.
type MoveItem struct {
	CategoryID string
	From       int
	To         int
}

func (MoveItem) Kind() string { return "move_item" }

func (t MoveItem) apply(st *model.State) error {
	c, _, err := category(st, t.CategoryID)
	if err != nil {
		return err
	}
	if !inRange(t.From, len(c.Items)) || !inRange(t.To, len(c.Items)) {
		return fmt.Errorf("move %d -> %d in %q: %w", t.From, t.To, t.CategoryID, ErrNotFound)
	}
	c.Items = move(c.Items, t.From, t.To)
	return nil
}

// MoveCategory reorders user categories. System categories stay on top.
type MoveCategory struct {
	From int
	To   int
}

func (MoveCategory) Kind() string { return "move_category" }

func (t MoveCategory) apply(st *model.State) error {
	if !inRange(t.From, len(st.Categories)) || !inRange(t.To, len(st.Categories)) {
		return fmt.Errorf("move %d -> %d: %w", t.From, t.To, ErrNotFound)
	}
	if st.Categories[t.From].IsSystem || st.Categories[t.To].IsSystem {
		return fmt.Errorf("system categories cannot move: %w", ErrGuard)
	}
	st.Categories = move(st.Categories, t.From, t.To)
	return nil
}

func inRange(i, n int) bool { return i >= 0 && i < n }

// removeAt returns a new slice without element i.
func removeAt[T any](s []T, i int) []T {
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

// move returns a new slice with element from placed at index to.
func move[T any](s []T, from, to int) []T {
	v := s[from]
	out := removeAt(s, from)
	out = append(out[:to], append([]T{v}, out[to:]...)...)
	return out
}
