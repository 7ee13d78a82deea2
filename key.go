package pianoroll

import (
	"slices"
	"strconv"
	"strings"
)

// Key identifies a row of the roll: a MIDI pitch 0..127 or one of the special
// control rows starting from PedalKey.
type Key int

const (
	MaxPitch Key = 127
	PedalKey Key = 128
)

var keyLetters = [12]string{"C", "C♯", "D", "E♭", "E", "F", "F♯", "G", "A♭", "A", "B♭", "B"}

// Letter returns the pitch class name of the key, without octave.
func (k Key) Letter() string {
	return keyLetters[(int(k)%12+12)%12]
}

// Octave returns the octave number of a pitch key; key 0 is C0.
func (k Key) Octave() int {
	if k < 0 {
		return (int(k) - 11) / 12
	}
	return int(k) / 12
}

func (k Key) IsPitch() bool { return k >= 0 && k <= MaxPitch }

// Valid reports whether the key can be used as a row.
func (k Key) Valid() bool { return k.IsPitch() || k == PedalKey }

func (k Key) String() string {
	if k == PedalKey {
		return "Pedal"
	}
	return k.Letter() + strconv.Itoa(k.Octave())
}

// ParseKey parses key names such as "C4", "F#3", "Bb2" or "Pedal".
func ParseKey(text string) (Key, error) {
	s := strings.TrimSpace(text)
	if strings.EqualFold(s, "pedal") {
		return PedalKey, nil
	}
	if s == "" {
		return 0, &ParseError{Input: text, Err: ErrKeyName}
	}
	var val int
	switch s[0] {
	case 'C', 'c':
		val = 0
	case 'D', 'd':
		val = 2
	case 'E', 'e':
		val = 4
	case 'F', 'f':
		val = 5
	case 'G', 'g':
		val = 7
	case 'A', 'a':
		val = 9
	case 'B', 'b':
		val = 11
	default:
		return 0, &ParseError{Input: text, Err: ErrKeyName}
	}
	s = s[1:]
	switch {
	case strings.HasPrefix(s, "#"):
		val++
		s = s[1:]
	case strings.HasPrefix(s, "♯"):
		val++
		s = s[len("♯"):]
	case strings.HasPrefix(s, "b"):
		val--
		s = s[1:]
	case strings.HasPrefix(s, "♭"):
		val--
		s = s[len("♭"):]
	}
	octave, err := strconv.Atoi(s)
	if err != nil || octave < 0 {
		return 0, &ParseError{Input: text, Err: ErrKeyName}
	}
	k := Key(val + 12*octave)
	if !k.IsPitch() {
		return 0, &ParseError{Input: text, Err: ErrKeyName}
	}
	return k, nil
}

// CompareKeys is the row order of the roll: pitches from high to low, then
// the special rows in ascending order.
func CompareKeys(a, b Key) int {
	ap, bp := a < PedalKey, b < PedalKey
	switch {
	case ap && bp:
		return int(b) - int(a)
	case ap:
		return -1
	case bp:
		return 1
	}
	return int(a) - int(b)
}

// SortKeys returns a sorted copy of keys with duplicates and invalid keys
// removed.
func SortKeys(keys []Key) []Key {
	ret := make([]Key, 0, len(keys))
	for _, k := range keys {
		if k.Valid() {
			ret = append(ret, k)
		}
	}
	slices.SortStableFunc(ret, CompareKeys)
	return slices.Compact(ret)
}

// DefaultKeys returns the three octaves from C1 to C4 the host starts with.
func DefaultKeys() []Key {
	keys := make([]Key, 37)
	for i := range keys {
		keys[i] = Key(i + 12)
	}
	return SortKeys(keys)
}
