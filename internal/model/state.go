package model

import (
	"maps"
	"time"

	"github.com/theirongolddev/fincmd/internal/money"
)

// SchemaVersion is the current persisted layout version.
const SchemaVersion = 2

// MaxWeeks is the number of weekly allowance periods per cycle.
const MaxWeeks = 4

// Theme is the stored appearance preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Settings are user preferences stored with the ledger.
type Settings struct {
	Currency             string `json:"currency"`
	Decimals             int    `json:"decimals"`
	ConfirmSurplusEdits  bool   `json:"confirmSurplusEdits"`
	AllowNegativeSurplus bool   `json:"allowNegativeSurplus"`
	Theme                Theme  `json:"theme"`
	Compact              bool   `json:"compact"`
}

// Weekly is the rolling allowance view.
type Weekly struct {
	Balance money.Money `json:"balance"`
	Week    int         `json:"week"`
}

// Accounts holds the surplus, the weekly view and the account-linked buckets.
type Accounts struct {
	Surplus              money.Money            `json:"surplus"`
	Weekly               Weekly                 `json:"weekly"`
	Buckets              map[string]money.Money `json:"buckets"`
	SavingsBuckets       map[string]money.Money `json:"savingsBuckets"`
	SavingsDefaultBucket string                 `json:"savingsDefaultBucket"`
}

// FoodKind tags a food activity entry.
type FoodKind string

const (
	FoodSpend   FoodKind = "spend"
	FoodLock    FoodKind = "lock"
	FoodDeficit FoodKind = "deficit"
)

// FoodEntry is one food activity record. History is ordered oldest first.
type FoodEntry struct {
	Kind   FoodKind    `json:"kind"`
	Amount money.Money `json:"amount"`
	Label  string      `json:"label,omitempty"`
}

// Food tracks the day-by-day food budget and the locked buffer.
type Food struct {
	DaysTotal    int         `json:"daysTotal"`
	DaysUsed     int         `json:"daysUsed"`
	LockedAmount money.Money `json:"lockedAmount"`
	History      []FoodEntry `json:"history"`
}

// HistoryEntry is one per-label audit line. Histories are ordered oldest first.
type HistoryEntry struct {
	Amount money.Money `json:"amount"`
	Reason string      `json:"reason"`
	Time   time.Time   `json:"timestamp"`
}

// State is the whole ledger aggregate: budget tree, accounts, balances, food and histories.
type State struct {
	SchemaVersion int                       `json:"schemaVersion"`
	MonthlyIncome money.Money               `json:"monthlyIncome"`
	Settings      Settings                  `json:"settings"`
	Categories    []Category                `json:"categories"`
	Accounts      Accounts                  `json:"accounts"`
	Balances      map[string]money.Money    `json:"balances"`
	Food          Food                      `json:"food"`
	Histories     map[string][]HistoryEntry `json:"histories"`
}

// Clone returns a copy that shares no mutable containers with s, except the
// append-only history slices: those are capacity-clipped so the next append
// on either side reallocates instead of writing into shared storage.
func (s State) Clone() State {
	out := s
	if s.Categories != nil {
		out.Categories = make([]Category, len(s.Categories))
		for i, c := range s.Categories {
			c.Items = cloneItems(c.Items)
			out.Categories[i] = c
		}
	}
	out.Accounts.Buckets = cloneMoneyMap(s.Accounts.Buckets)
	out.Accounts.SavingsBuckets = cloneMoneyMap(s.Accounts.SavingsBuckets)
	out.Balances = cloneMoneyMap(s.Balances)
	out.Food.History = clip(s.Food.History)
	if s.Histories != nil {
		out.Histories = make(map[string][]HistoryEntry, len(s.Histories))
		for k, v := range s.Histories {
			out.Histories[k] = clip(v)
		}
	}
	return out
}

func cloneItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := make([]LineItem, len(items))
	for i, it := range items {
		if it.Amortization != nil {
			a := *it.Amortization
			it.Amortization = &a
		}
		out[i] = it
	}
	return out
}

func cloneMoneyMap(m map[string]money.Money) map[string]money.Money {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}

func clip[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return s[:len(s):len(s)]
}

// Category returns the category with id and its index.
func (s *State) Category(id string) (*Category, int, bool) {
	for i := range s.Categories {
		if s.Categories[i].ID == id {
			return &s.Categories[i], i, true
		}
	}
	return nil, -1, false
}

// FindItem locates the line item with label anywhere in the tree.
func (s *State) FindItem(label string) (*LineItem, *Category, bool) {
	for i := range s.Categories {
		c := &s.Categories[i]
		for j := range c.Items {
			if c.Items[j].Label == label {
				return &c.Items[j], c, true
			}
		}
	}
	return nil, nil, false
}

// LabelExists reports whether any category holds an item with label.
func (s *State) LabelExists(label string) bool {
	_, _, ok := s.FindItem(label)
	return ok
}

// PlannedAmount returns the plan value for label, if the label is in the tree.
func (s *State) PlannedAmount(label string) (money.Money, bool) {
	it, _, ok := s.FindItem(label)
	if !ok {
		return money.Zero, false
	}
	return it.Amount, true
}

// TotalAllocated sums the planned amount of every item in the tree.
func (s *State) TotalAllocated() money.Money {
	total := money.Zero
	for _, c := range s.Categories {
		total = total.Add(c.PlannedTotal())
	}
	return total
}

// Labels lists every item label in tree order.
func (s *State) Labels() []string {
	var out []string
	for _, c := range s.Categories {
		for _, it := range c.Items {
			out = append(out, it.Label)
		}
	}
	return out
}
