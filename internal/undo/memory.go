package undo

import "github.com/theirongolddev/fincmd/internal/model"

// MemoryStack is an in-process Stack used by the dashboard and tests.
// Snapshots share history slices with each other; see model.State.Clone.
type MemoryStack struct {
	items []model.State
}

// NewMemoryStack returns an empty stack.
func NewMemoryStack() *MemoryStack {
	return &MemoryStack{}
}

func (s *MemoryStack) Push(st model.State) error {
	s.items = append(s.items, st)
	return nil
}

func (s *MemoryStack) Pop() (model.State, bool, error) {
	if len(s.items) == 0 {
		return model.State{}, false, nil
	}
	last := s.items[len(s.items)-1]
	s.items[len(s.items)-1] = model.State{}
	s.items = s.items[:len(s.items)-1]
	return last.Clone(), true, nil
}

func (s *MemoryStack) Len() (int, error) {
	return len(s.items), nil
}

func (s *MemoryStack) Trim(max int) error {
	if over := len(s.items) - max; over > 0 {
		kept := make([]model.State, max)
		copy(kept, s.items[over:])
		s.items = kept
	}
	return nil
}

func (s *MemoryStack) Clear() error {
	s.items = nil
	return nil
}
