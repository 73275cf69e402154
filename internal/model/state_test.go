package model

import (
	"testing"
	"time"

	"github.com/theirongolddev/fincmd/internal/money"
)

func TestNewState_SeedsFromPlan(t *testing.T) {
	st := NewState(money.FromInt(4000), DefaultSettings())

	if got := st.TotalAllocated(); !got.Equal(money.FromInt(4000)) {
		t.Fatalf("TotalAllocated = %s, want 4000", got)
	}
	if !st.Accounts.Surplus.IsZero() {
		t.Errorf("Surplus = %s, want 0", st.Accounts.Surplus)
	}
	if got := st.Accounts.Buckets[LabelGeneralSavings]; !got.Equal(money.FromInt(1457)) {
		t.Errorf("General Savings bucket = %s, want 1457", got)
	}
	if got := st.Accounts.SavingsBuckets[DefaultSavingsBucket]; !got.Equal(money.FromInt(1457)) {
		t.Errorf("Main savings bucket = %s, want 1457", got)
	}
	if got := st.Balances["Oats"]; !got.Equal(money.FromInt(60)) {
		t.Errorf("Oats balance = %s, want 60", got)
	}
	if _, ok := st.Balances[LabelPayables]; ok {
		t.Error("account label Payables leaked into balances")
	}
	if st.Accounts.Weekly.Week != 1 || !st.Accounts.Weekly.Balance.Equal(money.FromInt(80)) {
		t.Errorf("Weekly = %+v, want week 1 balance 80", st.Accounts.Weekly)
	}
	if st.Food.DaysTotal != DefaultFoodDays {
		t.Errorf("DaysTotal = %d, want %d", st.Food.DaysTotal, DefaultFoodDays)
	}
}

func TestNormalize_RestoresSystemCategories(t *testing.T) {
	st := State{
		Categories: []Category{
			{ID: "misc", Label: "Misc", Items: []LineItem{
				{Label: "Books", Amount: money.FromInt(20)},
				{Label: LabelFoodBase, Amount: money.FromInt(10)},
			}},
		},
	}
	st.Normalize()

	if len(st.Categories) != 3 {
		t.Fatalf("len(Categories) = %d, want 3", len(st.Categories))
	}
	if st.Categories[0].ID != CategorySystemSavings || st.Categories[1].ID != CategoryCoreEssentials {
		t.Fatalf("order = %s, %s; want system categories first", st.Categories[0].ID, st.Categories[1].ID)
	}
	misc := st.Categories[2]
	if len(misc.Items) != 1 || misc.Items[0].Label != "Books" {
		t.Errorf("misc items = %+v, want only Books", misc.Items)
	}
	if st.Settings.Currency != "AED" || st.Settings.Theme != ThemeLight {
		t.Errorf("settings = %+v, want defaults", st.Settings)
	}
	if st.Accounts.SavingsDefaultBucket != DefaultSavingsBucket {
		t.Errorf("default bucket = %q, want %q", st.Accounts.SavingsDefaultBucket, DefaultSavingsBucket)
	}
}

func TestEnsureWeekly_Clamps(t *testing.T) {
	tests := []struct {
		week int
		want int
	}{
		{-3, 1},
		{0, 1},
		{3, 3},
		{9, MaxWeeks},
	}
	for _, tt := range tests {
		st := NewState(money.FromInt(4000), DefaultSettings())
		st.Accounts.Weekly.Week = tt.week
		st.Accounts.Weekly.Balance = money.FromInt(5)
		st.EnsureWeekly()
		if st.Accounts.Weekly.Week != tt.want {
			t.Errorf("week %d clamped to %d, want %d", tt.week, st.Accounts.Weekly.Week, tt.want)
		}
	}
}

func TestSyncSavings(t *testing.T) {
	st := NewState(money.FromInt(4000), DefaultSettings())
	st.Accounts.SavingsBuckets["Trip"] = money.FromInt(43)
	st.SyncSavings()
	if got := st.Accounts.Buckets[LabelGeneralSavings]; !got.Equal(money.FromInt(1500)) {
		t.Fatalf("General Savings = %s, want 1500", got)
	}
}

func TestClone_Isolation(t *testing.T) {
	orig := NewState(money.FromInt(4000), DefaultSettings())
	orig.Histories["Oats"] = []HistoryEntry{{Amount: money.FromInt(-5), Reason: "Manual", Time: time.Unix(0, 0)}}
	orig.Categories[2].Items[0].Amortization = &Amortization{Total: money.FromInt(120), Months: 12}

	cp := orig.Clone()
	cp.Balances["Oats"] = money.FromInt(1)
	cp.Accounts.SavingsBuckets["Main"] = money.Zero
	cp.Categories[2].Items[0].Amount = money.FromInt(999)
	cp.Categories[2].Items[0].Amortization.Months = 1
	cp.Histories["Oats"] = append(cp.Histories["Oats"], HistoryEntry{Amount: money.FromInt(1), Reason: "x"})

	if got := orig.Balances["Oats"]; !got.Equal(money.FromInt(60)) {
		t.Errorf("orig Oats = %s, want 60", got)
	}
	if got := orig.Accounts.SavingsBuckets["Main"]; !got.Equal(money.FromInt(1457)) {
		t.Errorf("orig Main = %s, want 1457", got)
	}
	if got := orig.Categories[2].Items[0].Amount; !got.Equal(money.FromInt(80)) {
		t.Errorf("orig item amount = %s, want 80", got)
	}
	if orig.Categories[2].Items[0].Amortization.Months != 12 {
		t.Errorf("orig amortization months = %d, want 12", orig.Categories[2].Items[0].Amortization.Months)
	}
	if len(orig.Histories["Oats"]) != 1 {
		t.Errorf("orig history len = %d, want 1", len(orig.Histories["Oats"]))
	}

	// Appending on the original must not show through the clone either.
	orig.Histories["Oats"] = append(orig.Histories["Oats"], HistoryEntry{Reason: "orig"})
	if cp.Histories["Oats"][1].Reason != "x" {
		t.Errorf("clone history overwritten: %+v", cp.Histories["Oats"])
	}
}

func TestFindItemAndPlannedAmount(t *testing.T) {
	st := NewState(money.FromInt(4000), DefaultSettings())
	it, c, ok := st.FindItem("YouTube")
	if !ok || c.ID != "subscriptions" || !it.Amount.Equal(money.FromInt(24)) {
		t.Fatalf("FindItem(YouTube) = %+v, %+v, %v", it, c, ok)
	}
	if _, ok := st.PlannedAmount("Nope"); ok {
		t.Error("PlannedAmount(Nope) found, want missing")
	}
	if !st.LabelExists(LabelFoodBase) {
		t.Error("Food Base missing from default tree")
	}
}
