package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/schema"
)

// UndoStack keeps undo snapshots in the database so they survive between
// CLI invocations. It implements undo.Stack.
type UndoStack struct {
	s *Store
}

// UndoStack returns the persisted snapshot stack.
func (s *Store) UndoStack() *UndoStack {
	return &UndoStack{s: s}
}

func (u *UndoStack) Push(st model.State) error {
	body, err := schema.Encode(st)
	if err != nil {
		return err
	}
	_, err = u.s.db.Exec("INSERT INTO undo_snapshots (body, created_at) VALUES (?, ?)", string(body), u.s.stamp())
	if err != nil {
		return fmt.Errorf("pushing undo snapshot: %w", err)
	}
	return nil
}

func (u *UndoStack) Pop() (model.State, bool, error) {
	tx, err := u.s.db.Begin()
	if err != nil {
		return model.State{}, false, err
	}
	defer func() { _ = tx.Rollback() }()

	var seq int64
	var body string
	err = tx.QueryRow("SELECT seq, body FROM undo_snapshots ORDER BY seq DESC LIMIT 1").Scan(&seq, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return model.State{}, false, nil
	}
	if err != nil {
		return model.State{}, false, fmt.Errorf("reading undo snapshot: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM undo_snapshots WHERE seq = ?", seq); err != nil {
		return model.State{}, false, fmt.Errorf("dropping undo snapshot: %w", err)
	}

	st, err := schema.Decode([]byte(body))
	if err != nil {
		return model.State{}, false, fmt.Errorf("decoding undo snapshot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return model.State{}, false, err
	}
	return st, true, nil
}

func (u *UndoStack) Len() (int, error) {
	var n int
	err := u.s.db.QueryRow("SELECT COUNT(*) FROM undo_snapshots").Scan(&n)
	return n, err
}

func (u *UndoStack) Trim(max int) error {
	_, err := u.s.db.Exec(`DELETE FROM undo_snapshots WHERE seq NOT IN
		(SELECT seq FROM undo_snapshots ORDER BY seq DESC LIMIT ?)`, max)
	if err != nil {
		return fmt.Errorf("trimming undo stack: %w", err)
	}
	return nil
}

func (u *UndoStack) Clear() error {
	_, err := u.s.db.Exec("DELETE FROM undo_snapshots")
	return err
}
