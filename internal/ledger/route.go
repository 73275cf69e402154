// Package ledger resolves line-item labels to their balance source and reads
// or writes the running balances held in a model.State.
package ledger

import (
	"strings"

	"github.com/theirongolddev/fincmd/internal/model"
)

// Kind discriminates where a label's balance lives.
type Kind int

const (
	// PlainItem balances live in State.Balances.
	PlainItem Kind = iota
	// SurplusPool is the virtual "Surplus" endpoint.
	SurplusPool
	// AccountBucket balances live in Accounts.Buckets.
	AccountBucket
	// SavingsAggregate is General Savings, the sum of every savings sub-bucket.
	SavingsAggregate
	// SavingsBucket addresses one savings sub-bucket.
	SavingsBucket
)

func (k Kind) String() string {
	switch k {
	case SurplusPool:
		return "surplus"
	case AccountBucket:
		return "account"
	case SavingsAggregate:
		return "savings"
	case SavingsBucket:
		return "savings-bucket"
	default:
		return "item"
	}
}

// SavingsPrefix marks a label that addresses a single savings sub-bucket.
const SavingsPrefix = "Savings: "

// Source is a resolved label: its kind plus the key inside that store.
type Source struct {
	Kind Kind
	Name string
}

// Route resolves label once so every read and write site uses the same store.
func Route(label string) Source {
	switch {
	case label == model.LabelSurplus:
		return Source{Kind: SurplusPool, Name: label}
	case label == model.LabelGeneralSavings:
		return Source{Kind: SavingsAggregate, Name: label}
	case model.IsAccountLabel(label):
		return Source{Kind: AccountBucket, Name: label}
	case strings.HasPrefix(label, SavingsPrefix):
		return Source{Kind: SavingsBucket, Name: strings.TrimPrefix(label, SavingsPrefix)}
	default:
		return Source{Kind: PlainItem, Name: label}
	}
}

// SavingsLabel is the routable label of a savings sub-bucket.
func SavingsLabel(name string) string {
	return SavingsPrefix + name
}
