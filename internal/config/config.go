// Package config loads fincmd's TOML configuration and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/fincmd/internal/tui/theme"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvDBPath    = "FINCMD_DB_PATH"
	EnvDataDir   = "FINCMD_DATA_DIR"
	EnvTheme     = "FINCMD_THEME"
	EnvLogLevel  = "FINCMD_LOG_LEVEL"
	EnvLogFormat = "FINCMD_LOG_FORMAT"
)

// Config holds all fincmd configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Defaults   DefaultsConfig   `toml:"defaults"`
	Appearance AppearanceConfig `toml:"appearance"`
	Logging    LoggingConfig    `toml:"logging"`
	Undo       UndoConfig       `toml:"undo"`
}

// GeneralConfig holds storage locations.
type GeneralConfig struct {
	DataDir string `toml:"data_dir,omitempty"`
	DBPath  string `toml:"db_path,omitempty"`
}

// DefaultsConfig seeds a new ledger on first run.
type DefaultsConfig struct {
	MonthlyIncome float64 `toml:"monthly_income"`
	Currency      string  `toml:"currency"`
	Decimals      int     `toml:"decimals"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LoggingConfig holds log level and output format.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// UndoConfig bounds the undo history.
type UndoConfig struct {
	Depth int `toml:"depth"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Defaults: DefaultsConfig{
			MonthlyIncome: 4000,
			Currency:      "AED",
			Decimals:      2,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Undo: UndoConfig{
			Depth: 50,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fincmd")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "fincmd")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DefaultDataDir returns the XDG-compliant data directory.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "fincmd")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "fincmd")
}

// DBPath returns where the ledger database lives.
func (c Config) DBPath() string {
	if c.General.DBPath != "" {
		return c.General.DBPath
	}
	dir := c.General.DataDir
	if dir == "" {
		dir = DefaultDataDir()
	}
	return filepath.Join(dir, "fincmd.db")
}

// LoadEnv reads .env files from the working directory and the config dir.
// Variables already set in the process environment win.
func LoadEnv() error {
	var files []string
	for _, p := range []string{".env", filepath.Join(ConfigDir(), ".env")} {
		if _, err := os.Stat(p); err == nil {
			files = append(files, p)
		}
	}
	if len(files) == 0 {
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("loading env files: %w", err)
	}
	return nil
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied on top.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.General.DataDir = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.General.DBPath = v
	}
	if v := os.Getenv(EnvTheme); v != "" {
		cfg.Appearance.Theme = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []string

	if !knownTheme(c.Appearance.Theme) {
		errs = append(errs, fmt.Sprintf("unknown theme %q", c.Appearance.Theme))
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("unknown log level %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("unknown log format %q", c.Logging.Format))
	}
	if c.Undo.Depth <= 0 {
		errs = append(errs, "undo depth must be positive")
	}
	if c.Defaults.MonthlyIncome < 0 {
		errs = append(errs, "monthly income cannot be negative")
	}
	if c.Defaults.Decimals < 0 || c.Defaults.Decimals > 8 {
		errs = append(errs, "decimals must be between 0 and 8")
	}

	if len(errs) > 0 {
		return errors.New("invalid config: " + strings.Join(errs, "; "))
	}
	return nil
}

func knownTheme(name string) bool {
	for _, t := range theme.All {
		if t.Name == name {
			return true
		}
	}
	return false
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
