package pianoroll

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type (
	// Location is a point on the musical timeline: a bar and a fractional
	// beat within that bar. Locations are values; the Beat is always kept in
	// [0, nbeats) by Normalize, with any overflow or underflow carried into the
	// Bar.
	Location struct {
		Bar  int     `json:"bar"`
		Beat float64 `json:"beat"`
	}

	// Signature tells how the timeline is subdivided: Beats is the number of
	// beats in a bar and Divs the number of divisions in a beat. Divisions are
	// the finest snapping granularity of the editor.
	Signature struct {
		Beats int `json:"nbeats"`
		Divs  int `json:"ndivs"`
	}
)

// nearEpsilon is the tolerance in beats under which two locations are
// considered to be the same point.
const nearEpsilon = 1e-5

// carryEpsilon is how close to the end of a bar a beat must be to be carried
// into the next one by Normalize.
const carryEpsilon = 1e-9

var DefaultSignature = Signature{Beats: 4, Divs: 4}

// DivBeats returns the length of one division, in beats.
func (s Signature) DivBeats() float64 {
	return 1 / float64(s.Divs)
}

// DivsPerBar returns the total number of divisions in one bar.
func (s Signature) DivsPerBar() int {
	return s.Beats * s.Divs
}

func (s Signature) Valid() bool {
	return s.Beats > 0 && s.Divs > 0
}

// Normalize returns the Location of the given bar and beat, carrying beats
// outside [0, nbeats) into the bar. Negative beats borrow from the bar.
func Normalize(bar int, beat float64, nbeats int) Location {
	n := float64(nbeats)
	carry := math.Floor(beat / n)
	beat -= carry * n
	bar += int(carry)
	if n-beat < carryEpsilon { // rounding can land on or just below n
		beat = 0
		bar++
	}
	if beat < 0 {
		beat = 0
	}
	return Location{Bar: bar, Beat: beat}
}

// FromBarPos converts a fractional bar position back to a Location. The
// integer part becomes the bar and the fraction is scaled to beats.
func FromBarPos(pos float64, nbeats int) Location {
	bar := math.Floor(pos)
	return Normalize(int(bar), (pos-bar)*float64(nbeats), nbeats)
}

// BarPos returns the location as a single real number of bars.
func (l Location) BarPos(nbeats int) float64 {
	return float64(l.Bar) + l.Beat/float64(nbeats)
}

// AddBeats returns the location moved by delta beats, normalized.
func (l Location) AddBeats(delta float64, nbeats int) Location {
	return Normalize(l.Bar, l.Beat+delta, nbeats)
}

// Compare orders two locations lexicographically by (Bar, Beat), returning
// -1, 0 or 1.
func (l Location) Compare(o Location) int {
	switch {
	case l.Bar < o.Bar:
		return -1
	case l.Bar > o.Bar:
		return 1
	case l.Beat < o.Beat:
		return -1
	case l.Beat > o.Beat:
		return 1
	}
	return 0
}

func (l Location) Less(o Location) bool { return l.Compare(o) < 0 }

// Near reports whether the two locations are in the same bar and their beats
// differ less than the tolerance used when matching events coming back from
// the host.
func (l Location) Near(o Location) bool {
	return l.Bar == o.Bar && math.Abs(l.Beat-o.Beat) < nearEpsilon
}

// Reorder returns a and b so that the first is not after the second.
func Reorder(a, b Location) (Location, Location) {
	if b.Less(a) {
		return b, a
	}
	return a, b
}

// String formats the location like the transport display, e.g. "002:1.5".
func (l Location) String() string {
	return fmt.Sprintf("%03d:%.1f", l.Bar, l.Beat)
}

// ParseLocation parses either a bare number, interpreted as a fractional bar
// position, or the "bar:beat" form, where bar must be an integer and beat in
// [0, nbeats).
func ParseLocation(text string, nbeats int) (Location, error) {
	text = strings.TrimSpace(text)
	barText, beatText, colon := strings.Cut(text, ":")
	if !colon {
		pos, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsNaN(pos) || math.IsInf(pos, 0) {
			return Location{}, &ParseError{Input: text, Err: ErrNotNumber}
		}
		if pos < 0 {
			return Location{}, &ParseError{Input: text, Err: ErrBeatRange}
		}
		return FromBarPos(pos, nbeats), nil
	}
	bar, err := strconv.Atoi(strings.TrimSpace(barText))
	if err != nil {
		if _, ferr := strconv.ParseFloat(strings.TrimSpace(barText), 64); ferr == nil {
			return Location{}, &ParseError{Input: text, Err: ErrFractionalBar}
		}
		return Location{}, &ParseError{Input: text, Err: ErrNotNumber}
	}
	beat, err := strconv.ParseFloat(strings.TrimSpace(beatText), 64)
	if err != nil || math.IsNaN(beat) {
		return Location{}, &ParseError{Input: text, Err: ErrNotNumber}
	}
	if bar < 0 || beat < 0 || beat >= float64(nbeats) {
		return Location{}, &ParseError{Input: text, Err: ErrBeatRange}
	}
	return Location{Bar: bar, Beat: beat}, nil
}
