// Package store persists the ledger state, the undo stack and the activity
// journal in a local SQLite database.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/schema"

	_ "modernc.org/sqlite" // register sqlite driver
)

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store is a SQLite-backed ledger database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at dbPath and applies pending migrations.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging ledger db: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) stamp() string {
	return s.now().UTC().Format(timeLayout)
}

// LoadState reads the current state. ok is false when nothing has been saved yet.
func (s *Store) LoadState() (st model.State, ok bool, err error) {
	var body string
	err = s.db.QueryRow("SELECT body FROM ledger_state WHERE id = 1").Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return model.State{}, false, nil
	}
	if err != nil {
		return model.State{}, false, fmt.Errorf("reading state: %w", err)
	}
	st, err = schema.Decode([]byte(body))
	if err != nil {
		return model.State{}, false, fmt.Errorf("decoding stored state: %w", err)
	}
	return st, true, nil
}

// SaveState replaces the stored state and, when entry has an operation,
// appends it to the journal in the same transaction.
func (s *Store) SaveState(st model.State, entry JournalEntry) error {
	body, err := schema.Encode(st)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := s.stamp()
	_, err = tx.Exec(`INSERT OR REPLACE INTO ledger_state (id, schema_version, body, updated_at)
		VALUES (1, ?, ?, ?)`, model.SchemaVersion, string(body), now)
	if err != nil {
		return fmt.Errorf("writing state: %w", err)
	}

	if entry.Operation != "" {
		if entry.At.IsZero() {
			entry.At = s.now()
		}
		_, err = tx.Exec(`INSERT INTO journal (at, operation, kind, detail) VALUES (?, ?, ?, ?)`,
			entry.At.UTC().Format(timeLayout), entry.Operation, entry.Kind, entry.Detail)
		if err != nil {
			return fmt.Errorf("writing journal: %w", err)
		}
	}

	return tx.Commit()
}

// UpdatedAt reports when the state was last saved.
func (s *Store) UpdatedAt() (time.Time, error) {
	var at string
	err := s.db.QueryRow("SELECT updated_at FROM ledger_state WHERE id = 1").Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(timeLayout, at)
}
