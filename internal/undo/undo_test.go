package undo

import (
	"encoding/json"
	"testing"

	"github.com/theirongolddev/fincmd/internal/engine"
	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"
)

func encode(t *testing.T, st model.State) string {
	t.Helper()
	data, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(data)
}

func TestRoundTrip(t *testing.T) {
	txs := []engine.Tx{
		engine.AddItem{CategoryID: "misc", Label: "Books", Amount: money.FromInt(100)},
		engine.DeleteCategory{CategoryID: "health"},
		engine.Transfer{From: "Surplus", To: model.LabelWeeklyMisc, Amount: money.FromInt(12)},
		engine.FoodLock{Amount: money.FromInt(90), Label: "+3 Days"},
		engine.WeeklyNext{Amount: money.FromInt(80)},
		engine.CreateSavingsBucket{Name: "Trip"},
		engine.ResetAll{Income: money.FromInt(1000)},
	}
	for _, tx := range txs {
		t.Run(tx.Kind(), func(t *testing.T) {
			st := model.NewState(money.FromInt(4000), model.DefaultSettings())
			st.Histories["Oats"] = []model.HistoryEntry{{Amount: money.FromInt(-3), Reason: "Manual"}}
			want := encode(t, st)

			m := New(NewMemoryStack(), 0)
			if err := m.Snapshot(st); err != nil {
				t.Fatal(err)
			}
			if err := engine.Apply(&st, tx); err != nil {
				t.Fatal(err)
			}
			st.Histories["Oats"] = append(st.Histories["Oats"], model.HistoryEntry{Reason: "after"})

			got, ok, err := m.Undo()
			if err != nil || !ok {
				t.Fatalf("Undo() ok=%v err=%v", ok, err)
			}
			if encode(t, got) != want {
				t.Fatalf("restored state differs\n got: %s\nwant: %s", encode(t, got), want)
			}
		})
	}
}

func TestUndo_EmptyIsNoop(t *testing.T) {
	m := New(NewMemoryStack(), 3)
	if _, ok, err := m.Undo(); ok || err != nil {
		t.Fatalf("Undo() on empty = ok %v err %v, want false nil", ok, err)
	}
}

func TestSnapshot_EvictsOldest(t *testing.T) {
	m := New(NewMemoryStack(), 3)
	for i := 1; i <= 5; i++ {
		st := model.NewState(money.FromInt(int64(i)), model.DefaultSettings())
		if err := m.Snapshot(st); err != nil {
			t.Fatal(err)
		}
	}
	if m.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", m.Len())
	}
	var incomes []string
	for {
		st, ok, _ := m.Undo()
		if !ok {
			break
		}
		incomes = append(incomes, st.MonthlyIncome.String())
	}
	if len(incomes) != 3 || incomes[0] != "5" || incomes[2] != "3" {
		t.Fatalf("popped incomes = %v, want [5 4 3]", incomes)
	}
}

func TestNew_DefaultDepth(t *testing.T) {
	if d := New(NewMemoryStack(), -1).Depth(); d != DefaultDepth {
		t.Fatalf("Depth() = %d, want %d", d, DefaultDepth)
	}
}
