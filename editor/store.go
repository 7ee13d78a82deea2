package editor

import (
	"iter"
	"slices"

	"github.com/vsariola/pianoroll"
)

type (
	// EventID is the stable identity of an event in a Store. IDs are never
	// reused within the lifetime of a Store, so two events with identical
	// fields never get confused with each other.
	EventID int

	// Store is the editor's working set of events. Events live in an arena
	// keyed by EventID; order keeps the insertion order for iteration.
	Store struct {
		events map[EventID]pianoroll.Event
		order  []EventID
		nextID EventID
	}
)

func NewStore() *Store {
	return &Store{events: map[EventID]pianoroll.Event{}, nextID: 1}
}

func (s *Store) Len() int { return len(s.order) }

func (s *Store) Get(id EventID) (pianoroll.Event, bool) {
	e, ok := s.events[id]
	return e, ok
}

func (s *Store) Has(id EventID) bool {
	_, ok := s.events[id]
	return ok
}

// Check tells if the event could be inserted: it must be valid and must not
// overlap any event on the same row, except those listed in ignore.
func (s *Store) Check(e pianoroll.Event, ignore ...EventID) error {
	if err := e.Validate(); err != nil {
		return &pianoroll.InvariantViolation{Op: "insert", Event: e, Err: err}
	}
	for _, id := range s.order {
		if slices.Contains(ignore, id) {
			continue
		}
		if s.events[id].Overlaps(e) {
			return &pianoroll.InvariantViolation{Op: "insert", Event: e, Err: pianoroll.ErrOverlap}
		}
	}
	return nil
}

// Insert adds the event and returns its new ID.
func (s *Store) Insert(e pianoroll.Event) (EventID, error) {
	if err := s.Check(e); err != nil {
		return 0, err
	}
	id := s.nextID
	s.nextID++
	s.events[id] = e
	s.order = append(s.order, id)
	return id, nil
}

func (s *Store) Remove(id EventID) bool {
	if _, ok := s.events[id]; !ok {
		return false
	}
	delete(s.events, id)
	s.order = slices.DeleteFunc(s.order, func(o EventID) bool { return o == id })
	return true
}

// Find returns the ID of the first stored event near-equal to e.
func (s *Store) Find(e pianoroll.Event) (EventID, bool) {
	for _, id := range s.order {
		if s.events[id].Near(e) {
			return id, true
		}
	}
	return 0, false
}

// RemoveEqual removes the first event that is near-equal to e.
func (s *Store) RemoveEqual(e pianoroll.Event) (EventID, bool) {
	id, ok := s.Find(e)
	if !ok {
		return 0, false
	}
	s.Remove(id)
	return id, true
}

// QueryRow returns the events on one row, in insertion order.
func (s *Store) QueryRow(key pianoroll.Key) []EventID {
	var ret []EventID
	for _, id := range s.order {
		if s.events[id].Key == key {
			ret = append(ret, id)
		}
	}
	return ret
}

// QueryRange returns the events on the given rows whose interval overlaps
// [begin, end).
func (s *Store) QueryRange(keys []pianoroll.Key, begin, end pianoroll.Location) []EventID {
	var ret []EventID
	for _, id := range s.order {
		e := s.events[id]
		if slices.Contains(keys, e.Key) && e.OverlapsRange(begin, end) {
			ret = append(ret, id)
		}
	}
	return ret
}

// All iterates over the events in insertion order.
func (s *Store) All() iter.Seq2[EventID, pianoroll.Event] {
	return func(yield func(EventID, pianoroll.Event) bool) {
		for _, id := range s.order {
			if !yield(id, s.events[id]) {
				return
			}
		}
	}
}

// Events returns a copy of all the stored event values.
func (s *Store) Events() pianoroll.Events {
	ret := make(pianoroll.Events, 0, len(s.order))
	for _, id := range s.order {
		ret = append(ret, s.events[id])
	}
	return ret
}

// Reset replaces the contents with the given events. Events that are invalid
// or overlap an earlier one are dropped and returned.
func (s *Store) Reset(events pianoroll.Events) (dropped []error) {
	clear(s.events)
	s.order = s.order[:0]
	for _, e := range events {
		if _, err := s.Insert(e); err != nil {
			dropped = append(dropped, err)
		}
	}
	return dropped
}
