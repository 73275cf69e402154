package cmd

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/fincmd/internal/config"
	"github.com/theirongolddev/fincmd/internal/log"
	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

func TestParseBefore(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.Local)

	got, err := parseBefore("30d", now)
	if err != nil {
		t.Fatalf("parseBefore(30d): %v", err)
	}
	if want := now.AddDate(0, 0, -30); !got.Equal(want) {
		t.Errorf("parseBefore(30d) = %v, want %v", got, want)
	}

	got, err = parseBefore("2026-01-02", now)
	if err != nil {
		t.Fatalf("parseBefore(date): %v", err)
	}
	if got.Year() != 2026 || got.Month() != time.January || got.Day() != 2 {
		t.Errorf("parseBefore(date) = %v", got)
	}

	for _, bad := range []string{"", "soon", "-3d", "xd", "2026/01/02"} {
		if _, err := parseBefore(bad, now); err == nil {
			t.Errorf("parseBefore(%q) succeeded, want error", bad)
		}
	}
}

func TestParsePosition(t *testing.T) {
	idx, err := parsePosition("3")
	if err != nil || idx != 2 {
		t.Fatalf("parsePosition(3) = %d, %v; want 2, nil", idx, err)
	}
	for _, bad := range []string{"0", "-1", "two", ""} {
		if _, err := parsePosition(bad); err == nil {
			t.Errorf("parsePosition(%q) succeeded, want error", bad)
		}
	}
}

func TestParseAmounts(t *testing.T) {
	m, err := parseAmount("-12.50")
	if err != nil || !m.Equal(money.MustParse("-12.5")) {
		t.Fatalf("parseAmount(-12.50) = %s, %v", m, err)
	}
	if _, err := parsePositive("-1"); err == nil {
		t.Error("parsePositive(-1) succeeded, want error")
	}
	if _, err := parsePositive("0"); err == nil {
		t.Error("parsePositive(0) succeeded, want error")
	}
}

func TestApplySetting(t *testing.T) {
	s := model.DefaultSettings()

	steps := []struct{ key, value string }{
		{"currency", "eur"},
		{"decimals", "3"},
		{"confirm-surplus", "false"},
		{"negative-surplus", "true"},
		{"mode", "Light"},
		{"compact", "1"},
	}
	for _, st := range steps {
		if err := applySetting(&s, st.key, st.value); err != nil {
			t.Fatalf("applySetting(%s, %s): %v", st.key, st.value, err)
		}
	}

	if s.Currency != "EUR" || s.Decimals != 3 || s.ConfirmSurplusEdits ||
		!s.AllowNegativeSurplus || s.Theme != model.ThemeLight || !s.Compact {
		t.Errorf("settings after apply = %+v", s)
	}

	bad := []struct{ key, value string }{
		{"decimals", "9"},
		{"decimals", "x"},
		{"mode", "sepia"},
		{"compact", "maybe"},
		{"currency", " "},
		{"colour", "red"},
	}
	for _, b := range bad {
		before := s
		if err := applySetting(&s, b.key, b.value); err == nil {
			t.Errorf("applySetting(%s, %q) succeeded, want error", b.key, b.value)
		}
		if s != before {
			t.Errorf("applySetting(%s, %q) changed settings on error", b.key, b.value)
		}
	}
}

func TestNeedsLedger(t *testing.T) {
	if needsLedger(configCmd) {
		t.Error("config should not open the ledger")
	}
	for _, c := range []*cobra.Command{statusCmd, weeklySpendCmd, tuiCmd} {
		if !needsLedger(c) {
			t.Errorf("%s should open the ledger", c.CommandPath())
		}
	}
}

func TestOpenLedger_SeedsThenReopens(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.General.DBPath = filepath.Join(t.TempDir(), "data", "fincmd.db")
	cfg.Defaults.MonthlyIncome = 2500
	cfg.Defaults.Currency = "EUR"

	db, svc, err := openLedger(cfg, log.Discard())
	if err != nil {
		t.Fatalf("openLedger: %v", err)
	}
	st := svc.State()
	if !st.MonthlyIncome.Equal(money.FromInt(2500)) {
		t.Errorf("seeded income = %s, want 2500", st.MonthlyIncome)
	}
	if st.Settings.Currency != "EUR" {
		t.Errorf("seeded currency = %q, want EUR", st.Settings.Currency)
	}
	if err := svc.SetIncome(money.FromInt(3000)); err != nil {
		t.Fatalf("SetIncome: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, svc, err = openLedger(cfg, log.Discard())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	if got := svc.State().MonthlyIncome; !got.Equal(money.FromInt(3000)) {
		t.Errorf("income after reopen = %s, want 3000", got)
	}
	entries, err := db.Journal(0)
	if err != nil {
		t.Fatalf("Journal: %v", err)
	}
	seeds := 0
	for _, e := range entries {
		if e.Operation == "initialize" {
			seeds++
		}
	}
	if seeds != 1 {
		t.Errorf("initialize entries = %d, want 1", seeds)
	}
}

func TestDashboardProfile_HonoursNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("CLICOLOR", "")
	t.Setenv("CLICOLOR_FORCE", "")

	if got := dashboardProfile(false); got != termenv.TrueColor {
		t.Errorf("dashboardProfile(false) = %v, want TrueColor", got)
	}
	if got := dashboardProfile(true); got != termenv.Ascii {
		t.Errorf("dashboardProfile(true) = %v, want Ascii", got)
	}

	t.Setenv("NO_COLOR", "1")
	if got := dashboardProfile(false); got != termenv.Ascii {
		t.Errorf("dashboardProfile(false) with NO_COLOR = %v, want Ascii", got)
	}
}
