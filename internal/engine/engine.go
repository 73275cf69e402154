// Package engine is the single mutation entry point for ledger state. Every
// change is a transaction value from a closed set of kinds; Apply either
// performs the whole edit or leaves the state untouched.
package engine

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/fincmd/internal/model"
)

var (
	// ErrNotFound is returned when a transaction references a missing
	// category, item, label or savings bucket.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned for bad amounts, empty labels and similar input errors.
	ErrValidation = errors.New("invalid transaction")
	// ErrGuard is returned when a transaction would break a protected
	// structure or a configured limit.
	ErrGuard = errors.New("rejected by guard")
)

// Tx is a ledger transaction. The set of implementations is closed.
type Tx interface {
	// Kind names the transaction, e.g. "transfer".
	Kind() string
	apply(st *model.State) error
}

// Apply runs tx against st. On error st is unchanged.
func Apply(st *model.State, tx Tx) error {
	if tx == nil {
		return fmt.Errorf("nil transaction: %w", ErrValidation)
	}
	work := st.Clone()
	if err := tx.apply(&work); err != nil {
		return fmt.Errorf("%s: %w", tx.Kind(), err)
	}
	work.SyncSavings()
	*st = work
	return nil
}

// Batch applies several transactions as one: all of them or none.
type Batch struct {
	Txs []Tx
}

func (Batch) Kind() string { return "batch" }

func (b Batch) apply(st *model.State) error {
	for i, tx := range b.Txs {
		if tx == nil {
			return fmt.Errorf("step %d: nil transaction: %w", i, ErrValidation)
		}
		if err := tx.apply(st); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, tx.Kind(), err)
		}
		st.SyncSavings()
	}
	return nil
}

func category(st *model.State, id string) (*model.Category, int, error) {
	c, idx, ok := st.Category(id)
	if !ok {
		return nil, -1, fmt.Errorf("category %q: %w", id, ErrNotFound)
	}
	return c, idx, nil
}

func itemAt(st *model.State, id string, idx int) (*model.Category, *model.LineItem, error) {
	c, _, err := category(st, id)
	if err != nil {
		return nil, nil, err
	}
	if idx < 0 || idx >= len(c.Items) {
		return nil, nil, fmt.Errorf("item %d in %q: %w", idx, id, ErrNotFound)
	}
	return c, &c.Items[idx], nil
}
