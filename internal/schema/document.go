// Package schema reads and writes the persisted ledger document and upgrades
// older layouts to the current one.
package schema

import (
	"encoding/json"

	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"
)

// Document is the persisted layout. It carries the fields of every version
// ever written so older exports decode into it; Migrate clears the legacy ones.
type Document struct {
	SchemaVersion int                        `json:"schemaVersion,omitempty"`
	MonthlyIncome *money.Money               `json:"monthlyIncome,omitempty"`
	Settings      *Settings                  `json:"settings,omitempty"`
	Categories    []model.Category           `json:"categories,omitempty"`
	Accounts      *Accounts                  `json:"accounts,omitempty"`
	Balances      map[string]money.Money     `json:"balances,omitempty"`
	Food          *Food                      `json:"food,omitempty"`
	Histories     map[string][]HistoryRecord `json:"histories,omitempty"`

	// Version 1 fields.
	Strategy []model.Category `json:"strategy,omitempty"`
	Surplus  *money.Money     `json:"surplus,omitempty"`
	Weekly   *model.Weekly    `json:"weekly,omitempty"`
}

// Settings has optional fields so missing keys take defaults instead of zero values.
type Settings struct {
	Currency             *string `json:"currency,omitempty"`
	Decimals             *int    `json:"decimals,omitempty"`
	ConfirmSurplusEdits  *bool   `json:"confirmSurplusEdits,omitempty"`
	AllowNegativeSurplus *bool   `json:"allowNegativeSurplus,omitempty"`
	Theme                *string `json:"theme,omitempty"`
	Compact              *bool   `json:"compact,omitempty"`
}

type Accounts struct {
	Surplus              money.Money            `json:"surplus"`
	Weekly               *model.Weekly          `json:"weekly,omitempty"`
	Buckets              map[string]money.Money `json:"buckets,omitempty"`
	SavingsBuckets       map[string]money.Money `json:"savingsBuckets,omitempty"`
	SavingsDefaultBucket string                 `json:"savingsDefaultBucket,omitempty"`
}

type Food struct {
	DaysTotal    int          `json:"daysTotal"`
	DaysUsed     int          `json:"daysUsed"`
	LockedAmount money.Money  `json:"lockedAmount"`
	History      []FoodRecord `json:"history"`
}

// FoodRecord accepts both {kind, amount} and the older {type, amt} form.
type FoodRecord struct {
	Kind   string       `json:"kind,omitempty"`
	Amount *money.Money `json:"amount,omitempty"`
	Label  string       `json:"label,omitempty"`

	Type string       `json:"type,omitempty"`
	Amt  *money.Money `json:"amt,omitempty"`
}

func (r FoodRecord) legacy() bool { return r.Type != "" || r.Amt != nil }

// HistoryRecord accepts both {amount, reason, timestamp} and the older
// {amt, res, time} form.
type HistoryRecord struct {
	Amount    *money.Money    `json:"amount,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`

	Amt  *money.Money    `json:"amt,omitempty"`
	Res  string          `json:"res,omitempty"`
	Time json.RawMessage `json:"time,omitempty"`
}

func (r HistoryRecord) legacy() bool { return r.Amt != nil || r.Res != "" || len(r.Time) > 0 }
