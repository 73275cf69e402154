// Package model defines the budget tree and ledger state shared by every fincmd component.
package model

import "github.com/theirongolddev/fincmd/internal/money"

// Well-known category ids.
const (
	CategorySystemSavings  = "sys_savings"
	CategoryCoreEssentials = "core_essentials"
)

// Well-known line item labels.
const (
	LabelGeneralSavings = "General Savings"
	LabelPayables       = "Payables"
	LabelCarFund        = "Car Fund"
	LabelWeeklyMisc     = "Weekly Misc"
	LabelFoodBase       = "Food Base"

	// LabelSurplus is the virtual transfer endpoint for the unallocated pool.
	LabelSurplus = "Surplus"
)

// AccountLabels are the line items whose balance lives in Accounts.Buckets.
var AccountLabels = []string{LabelGeneralSavings, LabelPayables, LabelCarFund, LabelWeeklyMisc}

// IsAccountLabel reports whether label is account-linked.
func IsAccountLabel(label string) bool {
	for _, l := range AccountLabels {
		if l == label {
			return true
		}
	}
	return false
}

// IsProtectedLabel reports whether label belongs to the fixed system items
// that the user cannot delete.
func IsProtectedLabel(label string) bool {
	return label == LabelFoodBase || IsAccountLabel(label)
}

// Amortization spreads a one-off cost over several months.
type Amortization struct {
	Total  money.Money `json:"total"`
	Months int         `json:"months"`
}

// LineItem is a planned allocation inside a category.
type LineItem struct {
	Label            string        `json:"label"`
	Amount           money.Money   `json:"amount"`
	IsCore           bool          `json:"isCore,omitempty"`
	IsAutoCalculated bool          `json:"isAutoCalculated,omitempty"`
	Amortization     *Amortization `json:"amortData,omitempty"`
}

// Category is an ordered group of line items.
type Category struct {
	ID             string     `json:"id"`
	Label          string     `json:"label"`
	IsSystem       bool       `json:"isSystem,omitempty"`
	IsLedgerLinked bool       `json:"isLedgerLinked,omitempty"`
	IsSingleAction bool       `json:"isSingleAction,omitempty"`
	Items          []LineItem `json:"items"`
}

// PlannedTotal sums the planned amounts of every item.
func (c Category) PlannedTotal() money.Money {
	total := money.Zero
	for _, it := range c.Items {
		total = total.Add(it.Amount)
	}
	return total
}
