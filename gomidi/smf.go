// Package gomidi writes rolls as Standard MIDI Files using gitlab.com/gomidi.
package gomidi

import (
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/vsariola/pianoroll"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// TicksPerBeat is the time resolution of the exported files.
const TicksPerBeat = 960

const sustainController = 64

type timedMsg struct {
	tick uint32
	off  bool
	msg  midi.Message
}

// Velocity7 scales an event velocity to the 1..127 range of MIDI.
func Velocity7(vel int) uint8 {
	v := math.Round(float64(vel) * 127 / pianoroll.MaxVelocity)
	return uint8(max(min(v, 127), 1))
}

func tick(loc pianoroll.Location, sig pianoroll.Signature) uint32 {
	beats := float64(loc.Bar*sig.Beats) + loc.Beat
	return uint32(math.Round(max(beats, 0) * TicksPerBeat))
}

// Build converts the roll into an SMF with a tempo track and a note track.
// Pitch rows become notes on the given channel and the pedal row becomes
// sustain pedal control changes.
func Build(roll pianoroll.Roll, bpm float64, channel uint8) (*smf.SMF, error) {
	if !roll.Signature.Valid() {
		return nil, fmt.Errorf("invalid time signature %v", roll.Signature)
	}
	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(TicksPerBeat)

	var track0 smf.Track
	track0.Add(0, smf.MetaMeter(uint8(roll.Signature.Beats), 4))
	track0.Add(0, smf.MetaTempo(bpm))
	track0.Close(0)
	if err := sm.Add(track0); err != nil {
		return nil, fmt.Errorf("error adding tempo track: %w", err)
	}

	msgs := make([]timedMsg, 0, 2*len(roll.Events))
	for _, e := range roll.Events {
		if e.Validate() != nil {
			continue
		}
		begin, end := tick(e.Begin, roll.Signature), tick(e.End, roll.Signature)
		switch {
		case e.Key.IsPitch():
			msgs = append(msgs,
				timedMsg{tick: begin, msg: midi.NoteOn(channel, uint8(e.Key), Velocity7(e.Vel))},
				timedMsg{tick: end, off: true, msg: midi.NoteOff(channel, uint8(e.Key))})
		case e.Key == pianoroll.PedalKey:
			msgs = append(msgs,
				timedMsg{tick: begin, msg: midi.ControlChange(channel, sustainController, 127)},
				timedMsg{tick: end, off: true, msg: midi.ControlChange(channel, sustainController, 0)})
		}
	}
	// releases go before presses at the same tick, so back to back notes of
	// the same key do not cut each other off
	slices.SortStableFunc(msgs, func(a, b timedMsg) int {
		if a.tick != b.tick {
			return int(a.tick) - int(b.tick)
		}
		switch {
		case a.off && !b.off:
			return -1
		case !a.off && b.off:
			return 1
		}
		return 0
	})
	var track smf.Track
	var last uint32
	for _, m := range msgs {
		track.Add(m.tick-last, m.msg)
		last = m.tick
	}
	track.Close(0)
	if err := sm.Add(track); err != nil {
		return nil, fmt.Errorf("error adding note track: %w", err)
	}
	return sm, nil
}

// Export writes the roll to w as a Standard MIDI File.
func Export(w io.Writer, roll pianoroll.Roll, bpm float64) error {
	sm, err := Build(roll, bpm, 0)
	if err != nil {
		return err
	}
	if _, err := sm.WriteTo(w); err != nil {
		return fmt.Errorf("error writing MIDI file: %w", err)
	}
	return nil
}

// ExportFile writes the roll to the named file.
func ExportFile(path string, roll pianoroll.Roll, bpm float64) error {
	sm, err := Build(roll, bpm, 0)
	if err != nil {
		return err
	}
	if err := sm.WriteFile(path); err != nil {
		return fmt.Errorf("error writing MIDI file: %w", err)
	}
	return nil
}
