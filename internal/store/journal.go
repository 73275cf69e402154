package store

import (
	"fmt"
	"time"
)

// JournalEntry is one applied action.
type JournalEntry struct {
	Seq       int64
	At        time.Time
	Operation string
	Kind      string
	Detail    string
}

// Journal returns the most recent entries, newest first.
func (s *Store) Journal(limit int) ([]JournalEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`SELECT seq, at, operation, kind, detail
		FROM journal ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []JournalEntry
	for rows.Next() {
		var e JournalEntry
		var at string
		if err := rows.Scan(&e.Seq, &at, &e.Operation, &e.Kind, &e.Detail); err != nil {
			return nil, err
		}
		e.At, _ = time.Parse(timeLayout, at)
		out = append(out, e)
	}
	return out, rows.Err()
}

// PruneJournal deletes entries older than before and returns how many were removed.
func (s *Store) PruneJournal(before time.Time) (int64, error) {
	res, err := s.db.Exec("DELETE FROM journal WHERE at < ?", before.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("pruning journal: %w", err)
	}
	return res.RowsAffected()
}
