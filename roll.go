package pianoroll

import "errors"

type (
	// Roll is the whole document edited by one player: the time signature,
	// the length in bars, the visible rows and the events. The host owns the
	// authoritative Roll; the editor only holds a working copy of the events.
	Roll struct {
		Signature Signature `json:"signature" yaml:",inline"`
		Bars      int       `json:"nbars"`
		Keys      []Key     `json:"keys" yaml:",flow"`
		Events    Events    `json:"events"`
	}

	// Snapshot is what the host periodically reports back: its current
	// events, where the playhead is and whether the transport is running.
	Snapshot struct {
		Events   Events   `json:"events"`
		Playhead Location `json:"loc"`
		Running  bool     `json:"run"`
	}
)

const DefaultBars = 200

// DefaultRoll returns an empty roll in 4/4 with four divisions per beat and
// the default key range.
func DefaultRoll() Roll {
	return Roll{
		Signature: DefaultSignature,
		Bars:      DefaultBars,
		Keys:      DefaultKeys(),
	}
}

// Copy makes a deep copy of a Roll.
func (r Roll) Copy() Roll {
	keys := make([]Key, len(r.Keys))
	copy(keys, r.Keys)
	return Roll{Signature: r.Signature, Bars: r.Bars, Keys: keys, Events: r.Events.Copy()}
}

// Validate checks that a roll loaded from a file is usable.
func (r Roll) Validate() error {
	if !r.Signature.Valid() {
		return errors.New("time signature must have positive beats and divisions")
	}
	if r.Bars <= 0 {
		return errors.New("roll must be at least one bar long")
	}
	for _, e := range r.Events {
		if err := e.Validate(); err != nil {
			return &InvariantViolation{Op: "load", Event: e, Err: err}
		}
	}
	return nil
}

// Copy makes a deep copy of a Snapshot.
func (s Snapshot) Copy() Snapshot {
	return Snapshot{Events: s.Events.Copy(), Playhead: s.Playhead, Running: s.Running}
}
