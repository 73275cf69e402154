package ledger

import (
	"sort"

	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"
)

// Ledger reads and writes balances on a state it does not own.
type Ledger struct {
	st *model.State
}

// New wraps st. The state's account maps are created if missing.
func New(st *model.State) *Ledger {
	st.EnsureAccounts()
	if st.Balances == nil {
		st.Balances = map[string]money.Money{}
	}
	return &Ledger{st: st}
}

// Surplus returns the unallocated pool.
func (l *Ledger) Surplus() money.Money {
	return l.st.Accounts.Surplus
}

// plan is the label's planned amount, or zero when the label is not in the tree.
func (l *Ledger) plan(label string) money.Money {
	amt, _ := l.st.PlannedAmount(label)
	return amt
}

// Tracked reports whether label currently has a stored balance.
func (l *Ledger) Tracked(label string) bool {
	src := Route(label)
	switch src.Kind {
	case SurplusPool, SavingsAggregate:
		return true
	case AccountBucket:
		_, ok := l.st.Accounts.Buckets[src.Name]
		return ok
	case SavingsBucket:
		_, ok := l.st.Accounts.SavingsBuckets[src.Name]
		return ok
	default:
		_, ok := l.st.Balances[src.Name]
		return ok
	}
}

// Resolvable reports whether label can be read or written: the surplus, any
// account label, an existing savings sub-bucket, or a label that is in the
// tree or already has a balance.
func (l *Ledger) Resolvable(label string) bool {
	src := Route(label)
	switch src.Kind {
	case SurplusPool, SavingsAggregate, AccountBucket:
		return true
	case SavingsBucket:
		_, ok := l.st.Accounts.SavingsBuckets[src.Name]
		return ok
	default:
		if label == "" {
			return false
		}
		if _, ok := l.st.Balances[label]; ok {
			return true
		}
		return l.st.LabelExists(label)
	}
}

// Balance reads label's current balance, returning fallback when nothing is stored.
func (l *Ledger) Balance(label string, fallback money.Money) money.Money {
	src := Route(label)
	switch src.Kind {
	case SurplusPool:
		return l.st.Accounts.Surplus
	case SavingsAggregate:
		return l.SavingsTotal()
	case AccountBucket:
		if v, ok := l.st.Accounts.Buckets[src.Name]; ok {
			return v
		}
		return fallback
	case SavingsBucket:
		if v, ok := l.st.Accounts.SavingsBuckets[src.Name]; ok {
			return v
		}
		return fallback
	default:
		if v, ok := l.st.Balances[src.Name]; ok {
			return v
		}
		return fallback
	}
}

// Current is Balance with the label's plan amount as the fallback.
func (l *Ledger) Current(label string) money.Money {
	return l.Balance(label, l.plan(label))
}

// ResolveOrSeed returns label's balance, first storing the plan amount
// (0 if the label is untracked) when no entry exists yet.
func (l *Ledger) ResolveOrSeed(label string) money.Money {
	src := Route(label)
	switch src.Kind {
	case AccountBucket:
		if _, ok := l.st.Accounts.Buckets[src.Name]; !ok {
			l.st.Accounts.Buckets[src.Name] = l.plan(label)
		}
	case PlainItem:
		if _, ok := l.st.Balances[src.Name]; !ok {
			l.st.Balances[src.Name] = l.plan(label)
		}
	}
	return l.Balance(label, money.Zero)
}

// Set overwrites label's balance. Aggregate savings writes land in the
// default sub-bucket so the aggregate equals v afterwards.
func (l *Ledger) Set(label string, v money.Money) {
	src := Route(label)
	switch src.Kind {
	case SurplusPool:
		l.st.Accounts.Surplus = v
	case SavingsAggregate:
		def := l.st.Accounts.SavingsDefaultBucket
		others := l.SavingsTotal().Sub(l.st.Accounts.SavingsBuckets[def])
		l.st.Accounts.SavingsBuckets[def] = v.Sub(others)
		l.st.SyncSavings()
	case AccountBucket:
		l.st.Accounts.Buckets[src.Name] = v
	case SavingsBucket:
		l.st.Accounts.SavingsBuckets[src.Name] = v
		l.st.SyncSavings()
	default:
		l.st.Balances[src.Name] = v
	}
}

// Adjust adds delta to label's balance, seeding it first, and returns the new value.
func (l *Ledger) Adjust(label string, delta money.Money) money.Money {
	next := l.ResolveOrSeed(label).Add(delta)
	l.Set(label, next)
	return next
}

// Remove drops label's balance and returns what it held (plan amount when
// untracked). Account labels are zeroed; for General Savings every sub-bucket
// is zeroed. Plain labels are deleted.
func (l *Ledger) Remove(label string) money.Money {
	cur := l.Current(label)
	src := Route(label)
	switch src.Kind {
	case SurplusPool:
		l.st.Accounts.Surplus = money.Zero
	case SavingsAggregate:
		for name := range l.st.Accounts.SavingsBuckets {
			l.st.Accounts.SavingsBuckets[name] = money.Zero
		}
		l.st.SyncSavings()
	case AccountBucket:
		l.st.Accounts.Buckets[src.Name] = money.Zero
	case SavingsBucket:
		l.st.Accounts.SavingsBuckets[src.Name] = money.Zero
		l.st.SyncSavings()
	default:
		delete(l.st.Balances, src.Name)
	}
	return cur
}

// SavingsTotal sums every savings sub-bucket.
func (l *Ledger) SavingsTotal() money.Money {
	total := money.Zero
	for _, v := range l.st.Accounts.SavingsBuckets {
		total = total.Add(v)
	}
	return total
}

// SavingsBucketNames lists sub-bucket names sorted alphabetically.
func (l *Ledger) SavingsBucketNames() []string {
	names := make([]string, 0, len(l.st.Accounts.SavingsBuckets))
	for name := range l.st.Accounts.SavingsBuckets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasSavingsBucket reports whether the sub-bucket exists.
func (l *Ledger) HasSavingsBucket(name string) bool {
	_, ok := l.st.Accounts.SavingsBuckets[name]
	return ok
}

// CreateSavingsBucket adds an empty sub-bucket if it does not exist.
func (l *Ledger) CreateSavingsBucket(name string) {
	if _, ok := l.st.Accounts.SavingsBuckets[name]; !ok {
		l.st.Accounts.SavingsBuckets[name] = money.Zero
	}
	l.st.SyncSavings()
}

// AdjustSavingsBucket adds delta to a sub-bucket and resyncs the aggregate.
func (l *Ledger) AdjustSavingsBucket(name string, delta money.Money) money.Money {
	next := l.st.Accounts.SavingsBuckets[name].Add(delta)
	l.st.Accounts.SavingsBuckets[name] = next
	l.st.SyncSavings()
	return next
}
