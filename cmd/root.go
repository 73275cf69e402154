package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/fincmd/internal/cli"
	"github.com/theirongolddev/fincmd/internal/config"
	"github.com/theirongolddev/fincmd/internal/log"
	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"
	"github.com/theirongolddev/fincmd/internal/service"
	"github.com/theirongolddev/fincmd/internal/store"
	"github.com/theirongolddev/fincmd/internal/undo"

	"github.com/spf13/cobra"
)

var (
	flagDBPath   string
	flagNoColor  bool
	flagLogLevel string
	flagJSON     bool
	flagYes      bool
)

// annotationNoLedger marks commands that run without opening the database.
const annotationNoLedger = "no-ledger"

// ledgerEnv is what PersistentPreRunE opens for the command being run.
type ledgerEnv struct {
	cfg   config.Config
	log   *log.Logger
	store *store.Store
	svc   *service.Service
}

var env ledgerEnv

var rootCmd = &cobra.Command{
	Use:   "fincmd",
	Short: "Personal budget ledger",
	Long: "Plan monthly income into categories, track what is left in each, and\n" +
		"keep a running surplus, weekly allowance and food budget.",
	SilenceUsage:       true,
	RunE:               runStatus,
	PersistentPreRunE:  openEnv,
	PersistentPostRunE: closeEnv,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Ledger database path (default: data dir/fincmd.db)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print machine-readable JSON where supported")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "Skip confirmation prompts")
}

// loadConfig applies .env files, the config file and command-line overrides.
func loadConfig() (config.Config, error) {
	if err := config.LoadEnv(); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagDBPath != "" {
		cfg.General.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	lc := log.DefaultConfig()
	lc.Level = level
	lc.Format = cfg.Logging.Format
	logger := log.New(lc)
	log.SetDefault(logger)
	return logger, nil
}

func openEnv(cmd *cobra.Command, _ []string) error {
	cli.SetColor(!flagNoColor)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	env = ledgerEnv{cfg: cfg, log: logger}

	if !needsLedger(cmd) {
		return nil
	}

	db, svc, err := openLedger(cfg, logger)
	if err != nil {
		return err
	}
	env.store, env.svc = db, svc
	return nil
}

// needsLedger reports whether cmd reads or writes the ledger. Help and shell
// completion never do.
func needsLedger(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationNoLedger] != "" {
			return false
		}
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

func closeEnv(_ *cobra.Command, _ []string) error {
	if env.store == nil {
		return nil
	}
	err := env.store.Close()
	env.store = nil
	return err
}

// openLedger opens the database and loads the ledger, seeding a new one from
// the config defaults on first use.
func openLedger(cfg config.Config, logger *log.Logger) (*store.Store, *service.Service, error) {
	path := cfg.DBPath()
	db, err := store.Open(path)
	if err != nil {
		return nil, nil, err
	}
	storeLog := logger.WithComponent(log.ComponentStorage)

	st, ok, err := db.LoadState()
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	if !ok {
		st = seedState(cfg)
		entry := store.JournalEntry{
			At:        time.Now(),
			Operation: "initialize",
			Kind:      "initialize",
			Detail:    fmt.Sprintf("income %s", st.MonthlyIncome),
		}
		if err := db.SaveState(st, entry); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		storeLog.Info("created ledger", log.FieldPath, path)
	} else {
		storeLog.Debug("opened ledger", log.FieldPath, path)
	}

	svc := service.New(st, service.Config{
		Store:  db,
		Undo:   undo.New(db.UndoStack(), cfg.Undo.Depth),
		Logger: logger.WithComponent(log.ComponentService),
	})
	return db, svc, nil
}

func seedState(cfg config.Config) model.State {
	settings := model.DefaultSettings()
	if cfg.Defaults.Currency != "" {
		settings.Currency = cfg.Defaults.Currency
	}
	settings.Decimals = cfg.Defaults.Decimals
	return model.NewState(money.FromFloat(cfg.Defaults.MonthlyIncome), settings)
}

// requireLedger returns the service opened by PersistentPreRunE.
func requireLedger() (*service.Service, error) {
	if env.svc == nil {
		return nil, errors.New("ledger is not open")
	}
	return env.svc, nil
}
