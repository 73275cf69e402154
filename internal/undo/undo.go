// Package undo keeps a bounded stack of whole-state snapshots.
package undo

import (
	"github.com/theirongolddev/fincmd/internal/model"
)

// DefaultDepth is the number of snapshots kept when none is configured.
const DefaultDepth = 50

// Stack stores snapshots, most recent last.
type Stack interface {
	Push(st model.State) error
	Pop() (model.State, bool, error)
	Len() (int, error)
	// Trim evicts the oldest snapshots until at most max remain.
	Trim(max int) error
	Clear() error
}

// Manager captures pre-images and restores them.
type Manager struct {
	stack Stack
	depth int
}

// New returns a Manager over stack holding at most depth snapshots.
func New(stack Stack, depth int) *Manager {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Manager{stack: stack, depth: depth}
}

// Snapshot pushes a copy of st, evicting the oldest entry past the depth.
func (m *Manager) Snapshot(st model.State) error {
	if err := m.stack.Push(st.Clone()); err != nil {
		return err
	}
	return m.stack.Trim(m.depth)
}

// Undo pops the most recent snapshot. ok is false when there is nothing to undo.
func (m *Manager) Undo() (st model.State, ok bool, err error) {
	return m.stack.Pop()
}

// Len reports how many snapshots are available.
func (m *Manager) Len() int {
	n, err := m.stack.Len()
	if err != nil {
		return 0
	}
	return n
}

// Clear drops every snapshot.
func (m *Manager) Clear() error {
	return m.stack.Clear()
}

// Depth is the configured bound.
func (m *Manager) Depth() int { return m.depth }
