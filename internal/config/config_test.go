package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points the config dir at a temp dir and clears fincmd env vars.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, k := range []string{EnvDBPath, EnvDataDir, EnvTheme, EnvLogLevel, EnvLogFormat} {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
	return dir
}

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	isolate(t)
	if Exists() {
		t.Fatal("Exists() = true before any save")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Defaults.MonthlyIncome != 4000 || cfg.Defaults.Currency != "AED" || cfg.Undo.Depth != 50 {
		t.Errorf("defaults = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	isolate(t)
	cfg := DefaultConfig()
	cfg.Appearance.Theme = "tokyo-night"
	cfg.Defaults.Currency = "EUR"
	cfg.Undo.Depth = 10

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after save")
	}
	info, err := os.Stat(ConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config perm = %o, want 600", perm)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != cfg {
		t.Fatalf("Load = %+v, want %+v", got, cfg)
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := isolate(t)
	t.Setenv(EnvTheme, "terminal")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvDataDir, filepath.Join(dir, "ledger"))

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Appearance.Theme != "terminal" || cfg.Logging.Level != "debug" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if want := filepath.Join(dir, "ledger", "fincmd.db"); cfg.DBPath() != want {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath(), want)
	}

	t.Setenv(EnvDBPath, "/tmp/x.db")
	cfg, _ = Load()
	if cfg.DBPath() != "/tmp/x.db" {
		t.Errorf("DBPath = %q, want explicit path", cfg.DBPath())
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := isolate(t)
	if err := os.MkdirAll(filepath.Join(dir, "fincmd"), 0o755); err != nil {
		t.Fatal(err)
	}
	env := EnvTheme + "=catppuccin-mocha\n" + EnvLogFormat + "=json\n"
	if err := os.WriteFile(filepath.Join(dir, "fincmd", ".env"), []byte(env), 0o600); err != nil {
		t.Fatal(err)
	}
	// A real environment variable is not overridden by the file.
	t.Setenv(EnvLogFormat, "text")

	if err := LoadEnv(); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Appearance.Theme != "catppuccin-mocha" {
		t.Errorf("theme = %q, want catppuccin-mocha", cfg.Appearance.Theme)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("format = %q, want text", cfg.Logging.Format)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Appearance.Theme = "neon"
	cfg.Logging.Level = "loud"
	cfg.Undo.Depth = 0
	cfg.Defaults.MonthlyIncome = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	for _, want := range []string{"theme", "log level", "undo depth", "income"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestParseBadTOML(t *testing.T) {
	isolate(t)
	if err := os.MkdirAll(ConfigDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ConfigPath(), []byte("[general\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil error for malformed TOML")
	}
}
