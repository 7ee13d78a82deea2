package pianoroll

import "fmt"

const (
	MaxVelocity     = 65535
	DefaultVelocity = 32768
)

type (
	// Event is a note (or pedal) interval on one row of the roll. Begin is
	// inclusive and End exclusive. A velocity of zero is only used in edit
	// batches sent to the host to ask for removal of the matching event; a
	// stored event always has a positive velocity.
	Event struct {
		Key   Key      `json:"key"`
		Begin Location `json:"begin" yaml:",flow"`
		End   Location `json:"end" yaml:",flow"`
		Vel   int      `json:"vel"`
	}

	// Events is a list of events, in no particular order.
	Events []Event
)

// Validate checks that the event could be stored: it must end strictly after
// it begins, sit on a valid row and have a velocity within range.
func (e Event) Validate() error {
	if !e.Begin.Less(e.End) {
		return ErrEmptyEvent
	}
	if e.Vel <= 0 || e.Vel > MaxVelocity {
		return ErrVelocity
	}
	if !e.Key.Valid() {
		return ErrKeyName
	}
	return nil
}

// Overlaps reports whether the two events share a row and their half-open
// intervals intersect.
func (e Event) Overlaps(o Event) bool {
	return e.Key == o.Key && e.OverlapsRange(o.Begin, o.End)
}

// OverlapsRange is the half-open interval overlap test used by range queries.
// Intervals that merely touch within floating point noise do not overlap.
func (e Event) OverlapsRange(begin, end Location) bool {
	return e.Begin.Less(end) && !e.Begin.Near(end) && begin.Less(e.End) && !begin.Near(e.End)
}

// Contains reports whether loc falls within [Begin, End).
func (e Event) Contains(loc Location) bool {
	return e.Begin.Compare(loc) <= 0 && loc.Less(e.End)
}

// Near reports whether the two events describe the same interval on the same
// row, ignoring velocity and floating point noise.
func (e Event) Near(o Event) bool {
	return e.Key == o.Key && e.Begin.Near(o.Begin) && e.End.Near(o.End)
}

// Shift returns a copy of the event moved by delta beats.
func (e Event) Shift(delta float64, nbeats int) Event {
	e.Begin = e.Begin.AddBeats(delta, nbeats)
	e.End = e.End.AddBeats(delta, nbeats)
	return e
}

// Zeroed returns a copy with the velocity set to zero, i.e. a removal request.
func (e Event) Zeroed() Event {
	e.Vel = 0
	return e
}

func (e Event) String() string {
	return fmt.Sprintf("%v[%v,%v)@%d", e.Key, e.Begin, e.End, e.Vel)
}

// Copy makes a copy of the list.
func (l Events) Copy() Events {
	if l == nil {
		return nil
	}
	ret := make(Events, len(l))
	copy(ret, l)
	return ret
}
