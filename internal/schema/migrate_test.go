package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"
)

const legacyV1 = `{
  "monthlyIncome": 5000,
  "surplus": 120,
  "weekly": {"balance": 40, "week": 3},
  "strategy": [
    {"id": "misc", "label": "Misc", "items": [{"label": "Books", "amount": 30}]}
  ],
  "balances": {"Books": 25, "General Savings": 900, "Payables": 15},
  "food": {"daysTotal": 28, "daysUsed": 2, "lockedAmount": 0,
           "history": [{"type": "spend", "amt": 30}, {"type": "lock", "amt": 60, "label": "+2 Days"}]},
  "histories": {"Books": [{"amt": -5, "res": "Manual", "time": "Now"},
                          {"amt": 10, "res": "Trf from Surplus", "time": "2024-03-01T10:00:00Z"}]}
}`

func decodeDoc(t *testing.T, s string) Document {
	t.Helper()
	var doc Document
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return doc
}

func encodeDoc(t *testing.T, doc Document) string {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(data)
}

func TestMigrate_Idempotent(t *testing.T) {
	for name, in := range map[string]string{
		"v1":      legacyV1,
		"partial": `{"schemaVersion": 2, "categories": [], "accounts": {"surplus": 5}}`,
	} {
		t.Run(name, func(t *testing.T) {
			once := Migrate(decodeDoc(t, in))
			twice := Migrate(once)
			if a, b := encodeDoc(t, once), encodeDoc(t, twice); a != b {
				t.Fatalf("Migrate not idempotent\nonce:  %s\ntwice: %s", a, b)
			}
		})
	}
}

func TestMigrate_DoesNotTouchInput(t *testing.T) {
	doc := decodeDoc(t, legacyV1)
	before := encodeDoc(t, doc)
	Migrate(doc)
	if after := encodeDoc(t, doc); after != before {
		t.Fatalf("input changed\nbefore: %s\nafter:  %s", before, after)
	}
}

func TestDecode_LegacyV1(t *testing.T) {
	st, err := Decode([]byte(legacyV1))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if !st.MonthlyIncome.Equal(money.FromInt(5000)) || !st.Accounts.Surplus.Equal(money.FromInt(120)) {
		t.Errorf("income %s surplus %s, want 5000 and 120", st.MonthlyIncome, st.Accounts.Surplus)
	}
	if st.Accounts.Weekly.Week != 3 || !st.Accounts.Weekly.Balance.Equal(money.FromInt(40)) {
		t.Errorf("weekly = %+v, want week 3 balance 40", st.Accounts.Weekly)
	}
	if _, ok := st.Balances[model.LabelGeneralSavings]; ok {
		t.Error("account label left in balances")
	}
	if got := st.Accounts.Buckets[model.LabelPayables]; !got.Equal(money.FromInt(15)) {
		t.Errorf("Payables bucket = %s, want 15", got)
	}
	if got := st.Accounts.SavingsBuckets[model.DefaultSavingsBucket]; !got.Equal(money.FromInt(900)) {
		t.Errorf("Main = %s, want 900", got)
	}
	if got := st.Accounts.Buckets[model.LabelGeneralSavings]; !got.Equal(money.FromInt(900)) {
		t.Errorf("aggregate = %s, want 900", got)
	}
	if st.Categories[0].ID != model.CategorySystemSavings || st.Categories[1].ID != model.CategoryCoreEssentials {
		t.Errorf("system categories not restored: %s, %s", st.Categories[0].ID, st.Categories[1].ID)
	}

	h := st.Food.History
	if len(h) != 2 || h[0].Kind != model.FoodLock || h[1].Kind != model.FoodSpend {
		t.Errorf("food history = %+v, want lock then spend (oldest first)", h)
	}
	books := st.Histories["Books"]
	if len(books) != 2 || books[0].Reason != "Trf from Surplus" || books[1].Reason != "Manual" {
		t.Fatalf("Books history = %+v, want oldest first", books)
	}
	if books[0].Time.Year() != 2024 || !books[1].Time.IsZero() {
		t.Errorf("times = %v, %v; want 2024 and zero", books[0].Time, books[1].Time)
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	st := model.NewState(money.FromInt(4000), model.DefaultSettings())
	st.Settings.Decimals = 0
	st.Settings.AllowNegativeSurplus = false
	st.Food.History = append(st.Food.History, model.FoodEntry{Kind: model.FoodSpend, Amount: money.FromInt(30)})

	data, err := Encode(st)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	again, err := Encode(got)
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != string(data) {
		t.Fatalf("re-encoded state differs\nfirst:  %s\nsecond: %s", data, again)
	}
	if got.Settings.Decimals != 0 || got.Settings.AllowNegativeSurplus {
		t.Errorf("settings = %+v, want explicit zero values kept", got.Settings)
	}
}

func TestDecode_PartialSettingsTakeDefaults(t *testing.T) {
	st, err := Decode([]byte(`{"schemaVersion": 2, "categories": [], "settings": {"currency": "EUR"}}`))
	if err != nil {
		t.Fatal(err)
	}
	if st.Settings.Currency != "EUR" || st.Settings.Decimals != 2 || !st.Settings.ConfirmSurplusEdits {
		t.Fatalf("settings = %+v, want EUR with defaults", st.Settings)
	}
}

func TestDecode_Malformed(t *testing.T) {
	for _, in := range []string{
		``,
		`[]`,
		`{"categories": [`,
		`{"monthlyIncome": "lots", "categories": []}`,
		`{"settings": {}}`,
		`{"schemaVersion": 9, "categories": []}`,
	} {
		if _, err := Decode([]byte(in)); !errors.Is(err, ErrImportFormat) {
			t.Errorf("Decode(%q) err = %v, want ErrImportFormat", in, err)
		}
	}
}
