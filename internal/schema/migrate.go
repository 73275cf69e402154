package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"
)

// ErrImportFormat is returned for input that is not a ledger document.
var ErrImportFormat = errors.New("invalid ledger file")

// Migrate upgrades doc to the current layout. Running it on an already
// current document changes nothing.
//
// Records in the older {type, amt} and {amt, res, time} forms were stored
// newest first; they are converted and reversed to oldest first.
func Migrate(doc Document) Document {
	doc = doc.clone()
	if doc.Categories == nil && doc.Strategy != nil {
		doc.Categories = doc.Strategy
	}
	doc.Strategy = nil

	v1 := doc.SchemaVersion < 2
	if doc.Accounts == nil {
		acc := &Accounts{Weekly: doc.Weekly}
		if doc.Surplus != nil {
			acc.Surplus = *doc.Surplus
		}
		doc.Accounts = acc
	}
	doc.Surplus = nil
	doc.Weekly = nil

	acc := doc.Accounts
	if acc.Buckets == nil {
		acc.Buckets = map[string]money.Money{}
	}
	for _, label := range model.AccountLabels {
		if _, ok := acc.Buckets[label]; ok {
			continue
		}
		if legacy, ok := doc.Balances[label]; ok {
			acc.Buckets[label] = legacy
		} else if v1 {
			acc.Buckets[label] = money.Zero
		}
	}
	for _, label := range model.AccountLabels {
		delete(doc.Balances, label)
	}
	if acc.SavingsBuckets == nil {
		acc.SavingsBuckets = map[string]money.Money{
			model.DefaultSavingsBucket: acc.Buckets[model.LabelGeneralSavings],
		}
	}
	if acc.SavingsDefaultBucket == "" {
		acc.SavingsDefaultBucket = model.DefaultSavingsBucket
	}

	if doc.Food != nil {
		doc.Food.History = migrateFood(doc.Food.History)
	}
	for label, recs := range doc.Histories {
		doc.Histories[label] = migrateHistory(recs)
	}

	doc.SchemaVersion = model.SchemaVersion
	return doc
}

// clone copies the containers Migrate writes to so the caller's document is untouched.
func (doc Document) clone() Document {
	doc.Balances = maps.Clone(doc.Balances)
	if doc.Accounts != nil {
		acc := *doc.Accounts
		acc.Buckets = maps.Clone(acc.Buckets)
		acc.SavingsBuckets = maps.Clone(acc.SavingsBuckets)
		doc.Accounts = &acc
	}
	if doc.Food != nil {
		f := *doc.Food
		doc.Food = &f
	}
	doc.Histories = maps.Clone(doc.Histories)
	return doc
}

func migrateFood(recs []FoodRecord) []FoodRecord {
	if len(recs) == 0 || !slices.ContainsFunc(recs, FoodRecord.legacy) {
		return recs
	}
	out := make([]FoodRecord, 0, len(recs))
	for _, r := range recs {
		if r.legacy() {
			if r.Kind == "" {
				r.Kind = r.Type
			}
			if r.Amount == nil {
				r.Amount = r.Amt
			}
			r.Type, r.Amt = "", nil
		}
		out = append(out, r)
	}
	slices.Reverse(out)
	return out
}

func migrateHistory(recs []HistoryRecord) []HistoryRecord {
	if len(recs) == 0 || !slices.ContainsFunc(recs, HistoryRecord.legacy) {
		return recs
	}
	out := make([]HistoryRecord, 0, len(recs))
	for _, r := range recs {
		if r.legacy() {
			if r.Amount == nil {
				r.Amount = r.Amt
			}
			if r.Reason == "" {
				r.Reason = r.Res
			}
			if len(r.Timestamp) == 0 {
				r.Timestamp = normalizeTime(r.Time)
			}
			r.Amt, r.Res, r.Time = nil, "", nil
		}
		out = append(out, r)
	}
	slices.Reverse(out)
	return out
}

// normalizeTime keeps RFC 3339 strings and unix-millisecond numbers and
// drops anything else, such as the "Now" placeholder.
func normalizeTime(raw json.RawMessage) json.RawMessage {
	if t, ok := parseTime(raw); ok {
		b, _ := json.Marshal(t)
		return b
	}
	return nil
}

func parseTime(raw json.RawMessage) (time.Time, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		t, err := time.Parse(time.RFC3339Nano, s)
		return t.UTC(), err == nil
	}
	ms, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms).UTC(), true
}

// toState converts a migrated document and runs every seed-invariant step.
func toState(doc Document) model.State {
	st := model.State{
		SchemaVersion: model.SchemaVersion,
		MonthlyIncome: money.FromInt(4000),
		Settings:      mergeSettings(doc.Settings),
		Categories:    doc.Categories,
		Balances:      doc.Balances,
	}
	if doc.MonthlyIncome != nil {
		st.MonthlyIncome = *doc.MonthlyIncome
	}
	if st.Categories == nil {
		st.Categories = []model.Category{}
	}
	if acc := doc.Accounts; acc != nil {
		st.Accounts = model.Accounts{
			Surplus:              acc.Surplus,
			Buckets:              acc.Buckets,
			SavingsBuckets:       acc.SavingsBuckets,
			SavingsDefaultBucket: acc.SavingsDefaultBucket,
		}
		if acc.Weekly != nil {
			st.Accounts.Weekly = *acc.Weekly
		}
	}
	if f := doc.Food; f != nil {
		st.Food = model.Food{DaysTotal: f.DaysTotal, DaysUsed: f.DaysUsed, LockedAmount: f.LockedAmount}
		st.Food.History = make([]model.FoodEntry, 0, len(f.History))
		for _, r := range f.History {
			e := model.FoodEntry{Kind: model.FoodKind(r.Kind), Label: r.Label}
			if r.Amount != nil {
				e.Amount = *r.Amount
			}
			st.Food.History = append(st.Food.History, e)
		}
	}
	if len(doc.Histories) > 0 {
		st.Histories = make(map[string][]model.HistoryEntry, len(doc.Histories))
		for label, recs := range doc.Histories {
			entries := make([]model.HistoryEntry, 0, len(recs))
			for _, r := range recs {
				e := model.HistoryEntry{Reason: r.Reason}
				if r.Amount != nil {
					e.Amount = *r.Amount
				}
				if t, ok := parseTime(r.Timestamp); ok {
					e.Time = t
				}
				entries = append(entries, e)
			}
			st.Histories[label] = entries
		}
	}
	st.Normalize()
	return st
}

func mergeSettings(s *Settings) model.Settings {
	out := model.DefaultSettings()
	if s == nil {
		return out
	}
	if s.Currency != nil {
		out.Currency = *s.Currency
	}
	if s.Decimals != nil {
		out.Decimals = *s.Decimals
	}
	if s.ConfirmSurplusEdits != nil {
		out.ConfirmSurplusEdits = *s.ConfirmSurplusEdits
	}
	if s.AllowNegativeSurplus != nil {
		out.AllowNegativeSurplus = *s.AllowNegativeSurplus
	}
	if s.Theme != nil {
		out.Theme = model.Theme(*s.Theme)
	}
	if s.Compact != nil {
		out.Compact = *s.Compact
	}
	return out
}

// Decode parses data in any supported layout into a normalized state.
func Decode(data []byte) (model.State, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return model.State{}, fmt.Errorf("%w: not a JSON object", ErrImportFormat)
	}
	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return model.State{}, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}
	if doc.Categories == nil && doc.Strategy == nil {
		return model.State{}, fmt.Errorf("%w: no categories", ErrImportFormat)
	}
	if doc.SchemaVersion > model.SchemaVersion {
		return model.State{}, fmt.Errorf("%w: schema version %d is newer than %d",
			ErrImportFormat, doc.SchemaVersion, model.SchemaVersion)
	}
	return toState(Migrate(doc)), nil
}

// Encode writes st in the current layout.
func Encode(st model.State) ([]byte, error) {
	st.SchemaVersion = model.SchemaVersion
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}
	return data, nil
}
