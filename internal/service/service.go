// Package service owns the live ledger state. It validates intents, applies
// engine transactions, records per-label history, persists every change and
// keeps the undo history. The CLI and the dashboard share it.
package service

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/theirongolddev/fincmd/internal/engine"
	"github.com/theirongolddev/fincmd/internal/ledger"
	"github.com/theirongolddev/fincmd/internal/liquidity"
	"github.com/theirongolddev/fincmd/internal/log"
	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"
	"github.com/theirongolddev/fincmd/internal/schema"
	"github.com/theirongolddev/fincmd/internal/store"
	"github.com/theirongolddev/fincmd/internal/undo"
)

// ErrNothingToUndo is returned by Undo when the history is empty.
var ErrNothingToUndo = errors.New("nothing to undo")

// Persister saves the state after every change.
type Persister interface {
	SaveState(st model.State, entry store.JournalEntry) error
}

// Config wires a Service. Zero values give an in-memory service.
type Config struct {
	Store        Persister
	Undo         *undo.Manager
	Logger       *log.Logger
	Now          func() time.Time
	EventsBuffer int
}

// Service serialises every read and write of one ledger.
type Service struct {
	mu    sync.Mutex
	st    model.State
	store Persister
	undo  *undo.Manager
	log   *log.Logger
	now   func() time.Time

	evMu         sync.RWMutex
	eventsBuffer int
	nextEventID  int64
	events       []Event
	nextSubID    int
	subs         map[int]chan Event
}

// New returns a Service over st.
func New(st model.State, cfg Config) *Service {
	if cfg.Undo == nil {
		cfg.Undo = undo.New(undo.NewMemoryStack(), undo.DefaultDepth)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Discard()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	st.Normalize()
	return &Service{
		st:           st,
		store:        cfg.Store,
		undo:         cfg.Undo,
		log:          cfg.Logger.WithComponent(log.ComponentService),
		now:          cfg.Now,
		eventsBuffer: cfg.EventsBuffer,
		subs:         make(map[int]chan Event),
	}
}

// note is one history line to append after a successful apply.
type note struct {
	label  string
	amount money.Money
	reason string
}

// change is what an action wants to commit.
type change struct {
	tx     engine.Tx
	notes  []note
	detail string
}

// apply builds a change from a read-only view of the current state, runs it
// through the engine, records history, persists and snapshots the pre-image.
func (s *Service) apply(op string, build func(view *model.State) (change, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := s.st.Clone()
	c, err := build(&view)
	if err != nil {
		s.log.Warn("rejected", log.FieldOperation, op, log.FieldError, err)
		return err
	}

	next := s.st
	if err := engine.Apply(&next, c.tx); err != nil {
		s.log.Warn("rejected", log.FieldOperation, op, log.FieldKind, c.tx.Kind(), log.FieldError, err)
		return err
	}
	s.record(&next, c.notes)
	return s.commitLocked(EventApplied, op, c.tx.Kind(), c.detail, next)
}

// commitLocked persists next, pushes the current state onto the undo stack
// and makes next current. s.mu must be held.
func (s *Service) commitLocked(evType, op, kind, detail string, next model.State) error {
	prev := s.st
	if s.store != nil {
		entry := store.JournalEntry{At: s.now(), Operation: op, Kind: kind, Detail: detail}
		if err := s.store.SaveState(next, entry); err != nil {
			s.log.Error("persist failed", log.FieldOperation, op, log.FieldError, err)
			return fmt.Errorf("saving state: %w", err)
		}
	}
	if evType != EventUndo {
		if err := s.undo.Snapshot(prev); err != nil {
			s.log.Warn("undo snapshot failed", log.FieldOperation, op, log.FieldError, err)
		}
	}
	s.st = next

	before, after := summarize(&prev, 0), summarize(&next, s.undo.Len())
	delta := diffSnapshots(before, after)
	args := []any{log.FieldOperation, op, log.FieldKind, kind, log.FieldUndoDepth, after.UndoDepth}
	if !delta.isZero() {
		args = append(args, "surplus_delta", delta.Surplus.String(), "liquidity_delta", delta.Liquidity.String())
	}
	s.log.Info("applied", args...)

	s.publishEvent(Event{
		Type:      evType,
		Operation: op,
		Kind:      kind,
		Timestamp: s.now(),
		Snapshot:  after,
		Delta:     delta,
	})
	return nil
}

func summarize(st *model.State, undoDepth int) Snapshot {
	view := st.Clone()
	l := ledger.New(&view)
	return Snapshot{
		Surplus:   view.Accounts.Surplus,
		Liquidity: liquidity.Compute(&view).Total,
		Locked:    view.Food.LockedAmount,
		Week:      view.Accounts.Weekly.Week,
		DaysLeft:  l.Food().DaysLeft,
		UndoDepth: undoDepth,
	}
}

// record appends notes to st's histories. Slices are copied so snapshots
// sharing the old backing arrays never see the new entries.
func (s *Service) record(st *model.State, notes []note) {
	if len(notes) == 0 {
		return
	}
	at := s.now().UTC()
	for _, n := range notes {
		if n.amount.IsZero() || n.label == "" {
			continue
		}
		h := st.Histories[n.label]
		grown := make([]model.HistoryEntry, len(h), len(h)+1)
		copy(grown, h)
		st.Histories[n.label] = append(grown, model.HistoryEntry{Amount: n.amount, Reason: n.reason, Time: at})
	}
}

// Undo restores the state before the most recent change.
func (s *Service) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok, err := s.undo.Undo()
	if err != nil {
		s.log.Error("reading undo history", log.FieldError, err)
		return fmt.Errorf("reading undo history: %w", err)
	}
	if !ok {
		return ErrNothingToUndo
	}
	if err := s.commitLocked(EventUndo, "undo", "undo", "", prev); err != nil {
		if perr := s.undo.Snapshot(prev); perr != nil {
			s.log.Error("restoring undo snapshot", log.FieldError, perr)
		}
		return err
	}
	return nil
}

// State returns a copy of the current state.
func (s *Service) State() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Clone()
}

// view runs fn against a private copy of the current state.
func (s *Service) view(fn func(st *model.State)) {
	st := s.State()
	fn(&st)
}

// UndoDepth reports how many changes can be undone.
func (s *Service) UndoDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.undo.Len()
}

// Liquidity computes the reality-check breakdown.
func (s *Service) Liquidity() liquidity.Breakdown {
	var b liquidity.Breakdown
	s.view(func(st *model.State) { b = liquidity.Compute(st) })
	return b
}

// DeficitSources lists what can cover a negative surplus.
func (s *Service) DeficitSources() []liquidity.Source {
	var out []liquidity.Source
	s.view(func(st *model.State) { out = liquidity.DeficitSources(st) })
	return out
}

// Balance is the current balance of label, seeded from the plan when untracked.
func (s *Service) Balance(label string) (money.Money, error) {
	var (
		v  money.Money
		ok bool
	)
	s.view(func(st *model.State) {
		l := ledger.New(st)
		ok = l.Resolvable(label)
		v = l.Current(label)
	})
	if !ok {
		return money.Zero, fmt.Errorf("label %q: %w", label, engine.ErrNotFound)
	}
	return v, nil
}

// Food returns the food projection.
func (s *Service) Food() ledger.FoodInfo {
	var f ledger.FoodInfo
	s.view(func(st *model.State) { f = ledger.New(st).Food() })
	return f
}

// Weekly returns the weekly allowance projection.
func (s *Service) Weekly() ledger.WeeklyInfo {
	var w ledger.WeeklyInfo
	s.view(func(st *model.State) { w = ledger.New(st).Weekly() })
	return w
}

// NeedsSurplusConfirm reports whether direct surplus edits should be confirmed.
func (s *Service) NeedsSurplusConfirm() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Settings.ConfirmSurplusEdits
}

// History returns label's history, newest first.
func (s *Service) History(label string) []model.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := slices.Clone(s.st.Histories[label])
	slices.Reverse(h)
	return h
}

// PruneHistory drops history entries older than before and reports how many went.
func (s *Service) PruneHistory(before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.st.Clone()
	removed := 0
	for label, h := range next.Histories {
		kept := make([]model.HistoryEntry, 0, len(h))
		for _, e := range h {
			// Entries without a time come from legacy files and are kept.
			if !e.Time.IsZero() && e.Time.Before(before) {
				removed++
				continue
			}
			kept = append(kept, e)
		}
		if len(kept) == 0 {
			delete(next.Histories, label)
		} else {
			next.Histories[label] = kept
		}
	}
	if removed == 0 {
		return 0, nil
	}
	detail := fmt.Sprintf("%d entries before %s", removed, before.Format(time.DateOnly))
	if err := s.commitLocked(EventReplace, "prune history", "prune_history", detail, next); err != nil {
		return 0, err
	}
	return removed, nil
}

// Export encodes the current state as a versioned JSON document.
func (s *Service) Export() ([]byte, error) {
	return schema.Encode(s.State())
}

// Import replaces the whole state with a migrated document. Malformed input
// leaves the current state untouched.
func (s *Service) Import(data []byte) error {
	next, err := schema.Decode(data)
	if err != nil {
		s.log.Warn("import rejected", log.FieldError, err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(EventReplace, "import", "import", fmt.Sprintf("%d categories", len(next.Categories)), next)
}
