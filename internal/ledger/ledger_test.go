package ledger

import (
	"testing"

	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"
)

func newState(t *testing.T) *model.State {
	t.Helper()
	st := model.NewState(money.FromInt(4000), model.DefaultSettings())
	return &st
}

func TestRoute(t *testing.T) {
	tests := []struct {
		label string
		kind  Kind
		name  string
	}{
		{"Surplus", SurplusPool, "Surplus"},
		{"General Savings", SavingsAggregate, "General Savings"},
		{"Payables", AccountBucket, "Payables"},
		{"Weekly Misc", AccountBucket, "Weekly Misc"},
		{"Savings: Trip", SavingsBucket, "Trip"},
		{"Food Base", PlainItem, "Food Base"},
		{"Oats", PlainItem, "Oats"},
	}
	for _, tt := range tests {
		got := Route(tt.label)
		if got.Kind != tt.kind || got.Name != tt.name {
			t.Errorf("Route(%q) = %v/%q, want %v/%q", tt.label, got.Kind, got.Name, tt.kind, tt.name)
		}
	}
}

func TestBalance_FallbackAndSeed(t *testing.T) {
	st := newState(t)
	delete(st.Balances, "Oats")
	l := New(st)

	if got := l.Balance("Oats", money.FromInt(7)); !got.Equal(money.FromInt(7)) {
		t.Fatalf("Balance(Oats, 7) = %s, want fallback 7", got)
	}
	if l.Tracked("Oats") {
		t.Fatal("Oats tracked before seeding")
	}
	if got := l.ResolveOrSeed("Oats"); !got.Equal(money.FromInt(60)) {
		t.Fatalf("ResolveOrSeed(Oats) = %s, want plan 60", got)
	}
	if got := st.Balances["Oats"]; !got.Equal(money.FromInt(60)) {
		t.Fatalf("seeded balance = %s, want 60", got)
	}
	if got := l.ResolveOrSeed("Unknown"); !got.IsZero() {
		t.Fatalf("ResolveOrSeed(Unknown) = %s, want 0", got)
	}
}

func TestAdjust_AggregateLandsInDefaultBucket(t *testing.T) {
	st := newState(t)
	l := New(st)
	l.CreateSavingsBucket("Trip")
	l.AdjustSavingsBucket("Trip", money.FromInt(100))

	l.Adjust(model.LabelGeneralSavings, money.FromInt(-57))

	if got := st.Accounts.SavingsBuckets["Main"]; !got.Equal(money.FromInt(1400)) {
		t.Errorf("Main = %s, want 1400", got)
	}
	if got := st.Accounts.SavingsBuckets["Trip"]; !got.Equal(money.FromInt(100)) {
		t.Errorf("Trip = %s, want 100", got)
	}
	if got := st.Accounts.Buckets[model.LabelGeneralSavings]; !got.Equal(money.FromInt(1500)) {
		t.Errorf("aggregate = %s, want 1500", got)
	}

	l.Set(model.LabelGeneralSavings, money.FromInt(200))
	if got := l.SavingsTotal(); !got.Equal(money.FromInt(200)) {
		t.Errorf("after Set total = %s, want 200", got)
	}
	if got := st.Accounts.SavingsBuckets["Main"]; !got.Equal(money.FromInt(100)) {
		t.Errorf("after Set Main = %s, want 100", got)
	}
}

func TestSavingsAggregateInvariant(t *testing.T) {
	st := newState(t)
	l := New(st)
	ops := []struct {
		name  string
		delta int64
	}{
		{"Main", -57}, {"Trip", 0}, {"Trip", 250}, {"Emergency", 0}, {"Emergency", 13}, {"Main", 400},
	}
	for _, op := range ops {
		if op.delta == 0 {
			l.CreateSavingsBucket(op.name)
		} else {
			l.AdjustSavingsBucket(op.name, money.FromInt(op.delta))
		}
		sum := money.Zero
		for _, v := range st.Accounts.SavingsBuckets {
			sum = sum.Add(v)
		}
		if got := st.Accounts.Buckets[model.LabelGeneralSavings]; !got.Equal(sum) {
			t.Fatalf("after %s %d: aggregate = %s, sum = %s", op.name, op.delta, got, sum)
		}
	}
	names := l.SavingsBucketNames()
	if len(names) != 3 || names[0] != "Emergency" || names[2] != "Trip" {
		t.Errorf("SavingsBucketNames = %v, want sorted [Emergency Main Trip]", names)
	}
}

func TestRemove(t *testing.T) {
	st := newState(t)
	l := New(st)

	if got := l.Remove("Oats"); !got.Equal(money.FromInt(60)) {
		t.Errorf("Remove(Oats) = %s, want 60", got)
	}
	if _, ok := st.Balances["Oats"]; ok {
		t.Error("plain balance still present after Remove")
	}

	if got := l.Remove(model.LabelCarFund); !got.Equal(money.FromInt(500)) {
		t.Errorf("Remove(Car Fund) = %s, want 500", got)
	}
	v, ok := st.Accounts.Buckets[model.LabelCarFund]
	if !ok || !v.IsZero() {
		t.Errorf("Car Fund bucket = %s (present %v), want zeroed", v, ok)
	}

	l.CreateSavingsBucket("Trip")
	l.AdjustSavingsBucket("Trip", money.FromInt(43))
	if got := l.Remove(model.LabelGeneralSavings); !got.Equal(money.FromInt(1500)) {
		t.Errorf("Remove(General Savings) = %s, want 1500", got)
	}
	if !l.SavingsTotal().IsZero() || len(st.Accounts.SavingsBuckets) != 2 {
		t.Errorf("savings after Remove = %v, want all zero, two buckets kept", st.Accounts.SavingsBuckets)
	}
}

func TestResolvable(t *testing.T) {
	l := New(newState(t))
	for _, label := range []string{"Surplus", "Payables", "General Savings", "Oats", "Savings: Main"} {
		if !l.Resolvable(label) {
			t.Errorf("Resolvable(%q) = false, want true", label)
		}
	}
	for _, label := range []string{"", "Nope", "Savings: Nope"} {
		if l.Resolvable(label) {
			t.Errorf("Resolvable(%q) = true, want false", label)
		}
	}
}

func TestFoodProjection(t *testing.T) {
	st := newState(t)
	l := New(st)
	info := l.Food()
	if !info.DailyRate.Equal(money.FromInt(30)) || !info.Remainder.Equal(money.FromInt(840)) {
		t.Fatalf("Food() = rate %s remainder %s, want 30 and 840", info.DailyRate, info.Remainder)
	}

	st.Food.DaysUsed = 10
	info = l.Food()
	if info.DaysLeft != 18 || !info.Remainder.Equal(money.FromInt(540)) {
		t.Fatalf("after 10 days: left %d remainder %s, want 18 and 540", info.DaysLeft, info.Remainder)
	}
}

func TestWeeklyProjection(t *testing.T) {
	st := newState(t)
	w := New(st).Weekly()
	if !w.Amount.Equal(money.FromInt(80)) || w.RemainingWeeks != 3 || !w.Outstanding.Equal(money.FromInt(240)) {
		t.Fatalf("Weekly() = %+v, want amount 80, 3 weeks, 240 outstanding", w)
	}
}
