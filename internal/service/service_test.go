package service

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/fincmd/internal/engine"
	"github.com/theirongolddev/fincmd/internal/liquidity"
	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"
	"github.com/theirongolddev/fincmd/internal/schema"
	"github.com/theirongolddev/fincmd/internal/store"
	"github.com/theirongolddev/fincmd/internal/undo"
)

var clock = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func m(v int64) money.Money { return money.FromInt(v) }

func newService(t *testing.T) *Service {
	t.Helper()
	st := model.NewState(m(4000), model.DefaultSettings())
	return New(st, Config{Now: func() time.Time { return clock }})
}

func encode(t *testing.T, st model.State) string {
	t.Helper()
	data, err := schema.Encode(st)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return string(data)
}

func TestAddItem_HistoryAndUndo(t *testing.T) {
	s := newService(t)
	before := encode(t, s.State())

	if err := s.AddItem("misc", "Books", m(100)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	st := s.State()
	if !st.Accounts.Surplus.Equal(m(-100)) || !st.Balances["Books"].Equal(m(100)) {
		t.Fatalf("surplus %s books %s, want -100 and 100", st.Accounts.Surplus, st.Balances["Books"])
	}

	h := s.History("Books")
	if len(h) != 1 || h[0].Reason != ReasonAllocated || !h[0].Time.Equal(clock) {
		t.Errorf("Books history = %+v", h)
	}
	if h := s.History(model.LabelSurplus); len(h) != 1 || h[0].Reason != "Trf to Books" {
		t.Errorf("Surplus history = %+v", h)
	}
	if s.UndoDepth() != 1 {
		t.Fatalf("UndoDepth = %d, want 1", s.UndoDepth())
	}

	if err := s.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if after := encode(t, s.State()); after != before {
		t.Fatalf("undo did not restore state\n got: %s\nwant: %s", after, before)
	}
	if err := s.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("second Undo err = %v, want ErrNothingToUndo", err)
	}
}

func TestRejectedActionChangesNothing(t *testing.T) {
	s := newService(t)
	before := encode(t, s.State())

	cases := map[string]error{
		"transfer to self":  s.Transfer("Oats", "Oats", m(5)),
		"unknown label":     s.Transfer("Oats", "Nope", m(5)),
		"delete system":     s.DeleteCategory(model.CategorySystemSavings),
		"delete protected":  s.DeleteItem(model.LabelFoodBase),
		"missing item":      s.UpdateItemAmount("Nope", m(1)),
		"no deficit":        func() error { _, err := s.RaidWeekly(); return err }(),
		"zero weekly spend": s.WeeklySpend(money.Zero),
	}
	for name, err := range cases {
		if err == nil {
			t.Errorf("%s: err = nil, want error", name)
		}
	}
	if after := encode(t, s.State()); after != before {
		t.Fatal("state changed after rejected actions")
	}
	if s.UndoDepth() != 0 || len(s.Events()) != 0 {
		t.Fatalf("undo depth %d events %d, want 0 and 0", s.UndoDepth(), len(s.Events()))
	}
}

func TestTransferHistory(t *testing.T) {
	s := newService(t)
	if err := s.Transfer("Oats", model.LabelSurplus, m(20)); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Balance("Oats"); !got.Equal(m(40)) {
		t.Errorf("Oats = %s, want 40", got)
	}
	oats := s.History("Oats")
	surplus := s.History(model.LabelSurplus)
	if len(oats) != 1 || oats[0].Reason != "Trf to Surplus" || !oats[0].Amount.Equal(m(-20)) {
		t.Errorf("Oats history = %+v", oats)
	}
	if len(surplus) != 1 || surplus[0].Reason != "Trf from Oats" {
		t.Errorf("Surplus history = %+v", surplus)
	}
}

func TestRaidBucket_Scenario(t *testing.T) {
	st := model.NewState(m(4000), model.DefaultSettings())
	st.Accounts.Surplus = m(-50)
	st.Balances["Oats"] = m(200)
	s := New(st, Config{})

	take, err := s.RaidBucket("Oats")
	if err != nil {
		t.Fatalf("RaidBucket: %v", err)
	}
	if !take.Equal(m(50)) {
		t.Errorf("take = %s, want 50", take)
	}
	got := s.State()
	if !got.Balances["Oats"].Equal(m(150)) || !got.Accounts.Surplus.IsZero() {
		t.Errorf("Oats %s surplus %s, want 150 and 0", got.Balances["Oats"], got.Accounts.Surplus)
	}
	if len(s.DeficitSources()) != 0 {
		t.Error("deficit sources listed with no deficit")
	}
	if h := s.History("Oats"); len(h) != 1 || h[0].Reason != ReasonDeficit {
		t.Errorf("Oats history = %+v", h)
	}
}

func TestRaidWeeklyAndFood(t *testing.T) {
	st := model.NewState(m(4000), model.DefaultSettings())
	st.Accounts.Surplus = m(-100)
	s := New(st, Config{})

	take, err := s.RaidWeekly()
	if err != nil || !take.Equal(m(80)) {
		t.Fatalf("RaidWeekly = %s, %v; want 80", take, err)
	}
	got := s.State()
	if !got.Accounts.Weekly.Balance.IsZero() || !got.Accounts.Buckets[model.LabelWeeklyMisc].Equal(m(240)) {
		t.Errorf("weekly %s bucket %s, want 0 and 240", got.Accounts.Weekly.Balance, got.Accounts.Buckets[model.LabelWeeklyMisc])
	}

	take, err = s.RaidFood()
	if err != nil || !take.Equal(m(20)) {
		t.Fatalf("RaidFood = %s, %v; want 20", take, err)
	}
	got = s.State()
	if fb, _ := got.PlannedAmount(model.LabelFoodBase); !fb.Equal(m(820)) {
		t.Errorf("Food Base plan = %s, want 820", fb)
	}
	if !got.Accounts.Surplus.IsZero() {
		t.Errorf("surplus = %s, want 0", got.Accounts.Surplus)
	}
}

func TestFoodFlow(t *testing.T) {
	s := newService(t)

	if err := s.SpendFoodDay(); err != nil {
		t.Fatal(err)
	}
	if f := s.Food(); f.DaysLeft != 27 {
		t.Errorf("DaysLeft = %d, want 27", f.DaysLeft)
	}

	plan, err := s.BuyFoodDays(3)
	if err != nil {
		t.Fatalf("BuyFoodDays: %v", err)
	}
	if !plan.FromWeekly.Equal(m(80)) || !plan.FromSurplus.Equal(m(10)) {
		t.Errorf("plan = %+v, want 80 from weekly and 10 from surplus", plan)
	}
	if h := s.History(model.LabelWeeklyMisc); len(h) != 1 || h[0].Reason != ReasonFoodPrepaid {
		t.Errorf("Weekly Misc history = %+v", h)
	}

	if err := s.ReleaseBuffer(); err != nil {
		t.Fatal(err)
	}
	st := s.State()
	if !st.Food.LockedAmount.IsZero() || !st.Accounts.Surplus.Equal(m(80)) {
		t.Errorf("locked %s surplus %s, want 0 and 80", st.Food.LockedAmount, st.Accounts.Surplus)
	}

	depth := s.UndoDepth()
	if err := s.ReleaseBuffer(); err != nil || s.UndoDepth() != depth {
		t.Errorf("empty release: err %v depth %d, want no-op", err, s.UndoDepth())
	}

	if err := s.UndoFoodEntry(0); err != nil {
		t.Fatal(err)
	}
	if f := s.Food(); f.DaysLeft != 28 {
		t.Errorf("after undoing the spend: DaysLeft = %d, want 28", f.DaysLeft)
	}
}

func TestWeeklyActions(t *testing.T) {
	s := newService(t)
	if err := s.WeeklySpend(m(30)); err != nil {
		t.Fatal(err)
	}
	if err := s.WeeklyTopUp(m(10)); err != nil {
		t.Fatal(err)
	}
	if err := s.NextWeek(); err != nil {
		t.Fatal(err)
	}
	w := s.Weekly()
	if w.Week != 2 || !w.Balance.Equal(m(140)) {
		t.Fatalf("weekly = week %d balance %s, want 2 and 140", w.Week, w.Balance)
	}
	h := s.History(model.LabelWeeklyMisc)
	if len(h) != 2 || h[0].Reason != ReasonTopUp || h[1].Reason != ReasonSpend {
		t.Errorf("Weekly Misc history = %+v", h)
	}

	for range 2 {
		if err := s.NextWeek(); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.NextWeek(); !errors.Is(err, engine.ErrGuard) {
		t.Fatalf("fifth week err = %v, want ErrGuard", err)
	}
}

func TestAdjustSurplusGuard(t *testing.T) {
	s := newService(t)
	if err := s.UpdateSettings(func(st *model.Settings) { st.AllowNegativeSurplus = false }); err != nil {
		t.Fatal(err)
	}
	if err := s.Adjust(model.LabelSurplus, m(-1)); !errors.Is(err, engine.ErrGuard) {
		t.Fatalf("err = %v, want ErrGuard", err)
	}
	if err := s.Adjust(model.LabelSurplus, m(25)); err != nil {
		t.Fatal(err)
	}
	if h := s.History(model.LabelSurplus); len(h) != 1 || h[0].Reason != ReasonManual {
		t.Errorf("Surplus history = %+v", h)
	}
}

func TestReconcile(t *testing.T) {
	s := newService(t)
	total := s.Liquidity().Total

	delta, err := s.Reconcile(total.Add(m(35)))
	if err != nil {
		t.Fatal(err)
	}
	if !delta.Equal(m(35)) || !s.Liquidity().Total.Equal(total.Add(m(35))) {
		t.Fatalf("delta %s total %s", delta, s.Liquidity().Total)
	}

	depth := s.UndoDepth()
	delta, err = s.Reconcile(s.Liquidity().Total)
	if err != nil || !delta.IsZero() || s.UndoDepth() != depth {
		t.Fatalf("matching reconcile: delta %s err %v depth %d", delta, err, s.UndoDepth())
	}
}

func TestCategoryLifecycle(t *testing.T) {
	s := newService(t)
	id, err := s.AddCategory("Travel", false)
	if err != nil {
		t.Fatal(err)
	}
	if got, err := s.CategoryID("travel"); err != nil || got != id {
		t.Fatalf("CategoryID(travel) = %q, %v; want %q", got, err, id)
	}
	if err := s.AddItem(id, "Flights", m(300)); err != nil {
		t.Fatal(err)
	}
	if err := s.Amortize("Flights", m(1200), 12); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Balance("Flights"); !got.Equal(m(100)) {
		t.Errorf("Flights = %s, want 100", got)
	}
	if err := s.DeleteCategory(id); err != nil {
		t.Fatal(err)
	}
	if st := s.State(); !st.Accounts.Surplus.IsZero() {
		t.Errorf("surplus after delete = %s, want 0", st.Accounts.Surplus)
	}
}

func TestImport(t *testing.T) {
	s := newService(t)
	before := encode(t, s.State())

	if err := s.Import([]byte(`{"categories": [`)); !errors.Is(err, schema.ErrImportFormat) {
		t.Fatalf("malformed import err = %v, want ErrImportFormat", err)
	}
	if encode(t, s.State()) != before {
		t.Fatal("malformed import changed state")
	}

	doc := `{"monthlyIncome": 5000, "surplus": 7, "strategy": [], "balances": {"General Savings": 100}}`
	if err := s.Import([]byte(doc)); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if st := s.State(); !st.MonthlyIncome.Equal(m(5000)) || !st.Accounts.Surplus.Equal(m(7)) {
		t.Fatalf("imported income %s surplus %s", st.MonthlyIncome, st.Accounts.Surplus)
	}
	if err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if encode(t, s.State()) != before {
		t.Fatal("undo after import did not restore the previous state")
	}
}

func TestPruneHistory(t *testing.T) {
	now := clock
	st := model.NewState(m(4000), model.DefaultSettings())
	s := New(st, Config{Now: func() time.Time { return now }})

	_ = s.Adjust("Oats", m(1))
	now = clock.AddDate(0, 1, 0)
	_ = s.Adjust("Oats", m(2))

	n, err := s.PruneHistory(clock.AddDate(0, 0, 7))
	if err != nil || n != 1 {
		t.Fatalf("PruneHistory = %d, %v; want 1", n, err)
	}
	if h := s.History("Oats"); len(h) != 1 || !h[0].Amount.Equal(m(2)) {
		t.Fatalf("Oats history = %+v", h)
	}
	if n, _ := s.PruneHistory(clock); n != 0 {
		t.Errorf("second prune removed %d", n)
	}
}

func TestEventsAndSubscribe(t *testing.T) {
	s := newService(t)
	ch, cancel := s.Subscribe()
	defer cancel()

	if err := s.Adjust("Oats", m(5)); err != nil {
		t.Fatal(err)
	}
	select {
	case ev := <-ch:
		if ev.Type != EventApplied || ev.Kind != "adjust_item_balance" || ev.ID != 1 {
			t.Errorf("event = %+v", ev)
		}
		if !ev.Delta.Liquidity.Equal(m(5)) {
			t.Errorf("liquidity delta = %s, want 5", ev.Delta.Liquidity)
		}
	default:
		t.Fatal("no event delivered")
	}

	_ = s.Undo()
	events := s.Events()
	if len(events) != 2 || events[1].Type != EventUndo {
		t.Fatalf("events = %+v", events)
	}
}

func TestEventRingBuffer(t *testing.T) {
	s := New(model.NewState(m(4000), model.DefaultSettings()), Config{EventsBuffer: 2})
	for range 3 {
		if err := s.Adjust("Oats", m(1)); err != nil {
			t.Fatal(err)
		}
	}
	events := s.Events()
	if len(events) != 2 || events[0].ID != 2 || events[1].ID != 3 {
		t.Fatalf("events = %+v, want IDs 2 and 3", events)
	}
}

type failingStore struct{}

func (failingStore) SaveState(model.State, store.JournalEntry) error {
	return errors.New("disk full")
}

func TestPersistFailureKeepsState(t *testing.T) {
	st := model.NewState(m(4000), model.DefaultSettings())
	s := New(st, Config{Store: failingStore{}})
	before := encode(t, s.State())

	if err := s.AddItem("misc", "Books", m(10)); err == nil {
		t.Fatal("AddItem succeeded with a failing store")
	}
	if encode(t, s.State()) != before || s.UndoDepth() != 0 {
		t.Fatal("failed save changed state or undo history")
	}
}

func TestPersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fincmd.db")
	open := func() (*store.Store, *Service) {
		t.Helper()
		db, err := store.Open(path)
		if err != nil {
			t.Fatalf("store.Open: %v", err)
		}
		st, ok, err := db.LoadState()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			st = model.NewState(m(4000), model.DefaultSettings())
		}
		return db, New(st, Config{Store: db, Undo: undo.New(db.UndoStack(), 10)})
	}

	db, s := open()
	if err := s.AddItem("misc", "Books", m(100)); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	db, s = open()
	defer func() { _ = db.Close() }()
	if st := s.State(); !st.LabelExists("Books") {
		t.Fatal("Books lost across restart")
	}
	if s.UndoDepth() != 1 {
		t.Fatalf("UndoDepth after restart = %d, want 1", s.UndoDepth())
	}
	if err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if st := s.State(); st.LabelExists("Books") {
		t.Fatal("undo after restart kept Books")
	}

	entries, err := db.Journal(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Operation != "undo" || entries[1].Kind != "add_item" {
		t.Fatalf("journal = %+v", entries)
	}
}

func TestSetBalance(t *testing.T) {
	s := newService(t)
	if err := s.AddItem("misc", "Books", m(100)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	surplus := s.State().Accounts.Surplus

	if err := s.SetBalance("Books", m(40)); err != nil {
		t.Fatalf("SetBalance: %v", err)
	}
	if got, _ := s.Balance("Books"); !got.Equal(m(40)) {
		t.Errorf("Books = %s, want 40", got)
	}
	if got := s.State().Accounts.Surplus; !got.Equal(surplus) {
		t.Errorf("surplus moved to %s, want %s", got, surplus)
	}
	if h := s.History("Books"); len(h) != 2 || !h[0].Amount.Equal(m(-60)) || h[0].Reason != ReasonManual {
		t.Errorf("Books history = %+v", h)
	}

	if err := s.SetBalance(model.LabelSurplus, m(0)); !errors.Is(err, engine.ErrValidation) {
		t.Errorf("SetBalance(Surplus) err = %v, want ErrValidation", err)
	}
	if err := s.SetBalance("Nope", m(1)); !errors.Is(err, engine.ErrNotFound) {
		t.Errorf("SetBalance(Nope) err = %v, want ErrNotFound", err)
	}
}

func TestRaidSavings_PerSubBucket(t *testing.T) {
	st := model.NewState(m(4000), model.DefaultSettings())
	st.Accounts.Surplus = m(-500)
	s := New(st, Config{})

	if err := s.CreateSavingsBucket("Trip"); err != nil {
		t.Fatalf("CreateSavingsBucket: %v", err)
	}
	if err := s.Transfer(model.LabelGeneralSavings, "Savings: Trip", m(1457)); err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	sources := s.DeficitSources()
	var trip *liquidity.Source
	for i := range sources {
		switch sources[i].Label {
		case model.LabelGeneralSavings, "Savings: Main":
			t.Errorf("unexpected source %+v", sources[i])
		case "Savings: Trip":
			trip = &sources[i]
		}
	}
	if trip == nil || !trip.Available.Equal(m(1457)) || !trip.Take.Equal(m(500)) {
		t.Fatalf("Trip source = %+v, want available 1457 take 500", trip)
	}

	// Main is empty, so the aggregate has nothing it can pay from.
	if _, err := s.RaidBucket(model.LabelGeneralSavings); !errors.Is(err, engine.ErrValidation) {
		t.Fatalf("RaidBucket(General Savings) err = %v, want ErrValidation", err)
	}
	if got := s.State().Accounts.SavingsBuckets["Main"]; !got.IsZero() {
		t.Fatalf("Main = %s after rejected raid, want 0", got)
	}

	take, err := s.RaidBucket("Savings: Trip")
	if err != nil || !take.Equal(m(500)) {
		t.Fatalf("RaidBucket(Savings: Trip) = %s, %v; want 500", take, err)
	}
	got := s.State()
	acc := got.Accounts
	if !acc.SavingsBuckets["Trip"].Equal(m(957)) || !acc.SavingsBuckets["Main"].IsZero() {
		t.Errorf("Trip %s Main %s, want 957 and 0", acc.SavingsBuckets["Trip"], acc.SavingsBuckets["Main"])
	}
	if !acc.Buckets[model.LabelGeneralSavings].Equal(m(957)) || !acc.Surplus.IsZero() {
		t.Errorf("General Savings %s surplus %s, want 957 and 0", acc.Buckets[model.LabelGeneralSavings], acc.Surplus)
	}
}

func TestUndoRoundTripThroughStore_NonUTCClock(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "fincmd.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer func() { _ = db.Close() }()

	dubai := time.FixedZone("GST", 4*60*60)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, dubai)
	s := New(model.NewState(m(4000), model.DefaultSettings()), Config{
		Store: db,
		Undo:  undo.New(db.UndoStack(), 10),
		Now:   func() time.Time { return now },
	})

	if err := s.AddItem("misc", "Books", m(100)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	before := encode(t, s.State())

	if err := s.Transfer("Books", model.LabelSurplus, m(40)); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if err := s.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if after := encode(t, s.State()); after != before {
		t.Fatalf("undo through the store changed state\n got: %s\nwant: %s", after, before)
	}
	if h := s.History("Books"); len(h) != 1 || h[0].Time.Location() != time.UTC || !h[0].Time.Equal(now) {
		t.Errorf("Books history = %+v, want one UTC entry at %v", h, now)
	}
}
