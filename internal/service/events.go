package service

import (
	"time"

	"github.com/theirongolddev/fincmd/internal/money"
)

// Snapshot is a compact summary of the ledger after a change.
type Snapshot struct {
	Surplus   money.Money `json:"surplus"`
	Liquidity money.Money `json:"liquidity"`
	Locked    money.Money `json:"locked"`
	Week      int         `json:"week"`
	DaysLeft  int         `json:"days_left"`
	UndoDepth int         `json:"undo_depth"`
}

// Delta captures how a change moved the headline numbers.
type Delta struct {
	Surplus   money.Money `json:"surplus"`
	Liquidity money.Money `json:"liquidity"`
}

func (d Delta) isZero() bool {
	return d.Surplus.IsZero() && d.Liquidity.IsZero()
}

// Event is emitted after every committed change.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Operation string    `json:"operation"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Event types.
const (
	EventApplied = "applied"
	EventUndo    = "undo"
	EventReplace = "replace"
)

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Surplus:   curr.Surplus.Sub(prev.Surplus),
		Liquidity: curr.Liquidity.Sub(prev.Liquidity),
	}
}

// publishEvent appends ev to the ring buffer and fans it out without blocking.
func (s *Service) publishEvent(ev Event) {
	s.evMu.Lock()
	defer s.evMu.Unlock()

	s.nextEventID++
	ev.ID = s.nextEventID
	s.events = append(s.events, ev)
	if len(s.events) > s.eventsBuffer {
		s.events = s.events[len(s.events)-s.eventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Events returns the buffered events, oldest first.
func (s *Service) Events() []Event {
	s.evMu.RLock()
	defer s.evMu.RUnlock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	return events
}

// Subscribe returns a channel of future events and a func that ends the
// subscription. Slow readers miss events rather than block commits.
func (s *Service) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	return ch, func() { s.removeSubscriber(id) }
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.evMu.Lock()
	defer s.evMu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.evMu.Lock()
	defer s.evMu.Unlock()
	delete(s.subs, id)
}
