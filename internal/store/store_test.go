package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"
	"github.com/theirongolddev/fincmd/internal/schema"
	"github.com/theirongolddev/fincmd/internal/undo"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sub", "fincmd.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadState_Empty(t *testing.T) {
	s := openTest(t)
	_, ok, err := s.LoadState()
	if err != nil || ok {
		t.Fatalf("LoadState on fresh db = ok %v err %v, want false nil", ok, err)
	}
}

func TestSaveAndLoadState(t *testing.T) {
	s := openTest(t)
	st := model.NewState(money.FromInt(4000), model.DefaultSettings())
	st.Balances["Oats"] = money.MustParse("12.34")

	if err := s.SaveState(st, JournalEntry{Operation: "seed", Kind: "reset_all"}); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	got, ok, err := s.LoadState()
	if err != nil || !ok {
		t.Fatalf("LoadState = ok %v err %v", ok, err)
	}

	want, _ := schema.Encode(st)
	have, _ := schema.Encode(got)
	if string(want) != string(have) {
		t.Fatalf("loaded state differs\n got: %s\nwant: %s", have, want)
	}

	at, err := s.UpdatedAt()
	if err != nil || at.IsZero() {
		t.Fatalf("UpdatedAt = %v, %v", at, err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fincmd.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	st := model.NewState(money.FromInt(3000), model.DefaultSettings())
	if err := s.SaveState(st, JournalEntry{}); err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s.Close() }()
	got, ok, err := s.LoadState()
	if err != nil || !ok || !got.MonthlyIncome.Equal(money.FromInt(3000)) {
		t.Fatalf("after reopen: income %s ok %v err %v", got.MonthlyIncome, ok, err)
	}
}

func TestJournal(t *testing.T) {
	s := openTest(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	st := model.NewState(money.FromInt(4000), model.DefaultSettings())
	for i, op := range []string{"add item", "transfer", "undo"} {
		e := JournalEntry{Operation: op, Kind: "k", Detail: "d", At: base.Add(time.Duration(i) * time.Hour)}
		if err := s.SaveState(st, e); err != nil {
			t.Fatal(err)
		}
	}
	// A save without an operation writes no journal row.
	if err := s.SaveState(st, JournalEntry{}); err != nil {
		t.Fatal(err)
	}

	entries, err := s.Journal(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 || entries[0].Operation != "undo" || entries[2].Operation != "add item" {
		t.Fatalf("Journal = %+v, want 3 entries newest first", entries)
	}
	if !entries[1].At.Equal(base.Add(time.Hour)) {
		t.Errorf("At = %v, want %v", entries[1].At, base.Add(time.Hour))
	}

	n, err := s.PruneJournal(base.Add(90 * time.Minute))
	if err != nil || n != 2 {
		t.Fatalf("PruneJournal = %d, %v; want 2", n, err)
	}
}

func TestUndoStack(t *testing.T) {
	s := openTest(t)
	m := undo.New(s.UndoStack(), 2)

	for _, income := range []int64{1000, 2000, 3000} {
		if err := m.Snapshot(model.NewState(money.FromInt(income), model.DefaultSettings())); err != nil {
			t.Fatalf("Snapshot: %v", err)
		}
	}
	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.Len())
	}

	st, ok, err := m.Undo()
	if err != nil || !ok || !st.MonthlyIncome.Equal(money.FromInt(3000)) {
		t.Fatalf("first Undo = %s ok %v err %v, want 3000", st.MonthlyIncome, ok, err)
	}
	st, ok, _ = m.Undo()
	if !ok || !st.MonthlyIncome.Equal(money.FromInt(2000)) {
		t.Fatalf("second Undo = %s ok %v, want 2000", st.MonthlyIncome, ok)
	}
	if _, ok, err := m.Undo(); ok || err != nil {
		t.Fatalf("third Undo = ok %v err %v, want empty", ok, err)
	}

	_ = m.Snapshot(model.NewState(money.FromInt(1), model.DefaultSettings()))
	if err := m.Clear(); err != nil || m.Len() != 0 {
		t.Fatalf("Clear: err %v len %d", err, m.Len())
	}
}
