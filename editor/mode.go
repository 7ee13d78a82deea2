package editor

import (
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Mode is the edit mode of the editor, which decides what a press on the
// grid does.
type Mode int

const (
	// ModeView selects events with clicks and rubber bands.
	ModeView Mode = iota
	// ModeInsert creates new events by dragging on empty cells.
	ModeInsert
	// ModeCopy stamps copies of the selection where pressed.
	ModeCopy
	// ModeNumber is entered by typing digits: the number is a repeat count
	// for the next move.
	ModeNumber
)

const maxCount = 9999

var modeNames = [...]string{"view", "insert", "copy", "number"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

var titleCaser = cases.Title(language.English)

// Status returns the text of the status line: the current mode, or the
// repeat count being typed.
func (m *Model) Status() string {
	if m.d.Mode == ModeNumber {
		return strconv.Itoa(m.d.Count)
	}
	return titleCaser.String(m.d.Mode.String())
}

// SetMode switches the edit mode, cancelling any drag in progress.
func (m *Model) SetMode(mode Mode) {
	if mode < ModeView || mode > ModeNumber {
		return
	}
	m.cancelDrag()
	if mode != ModeNumber {
		m.d.Count = 0
	}
	m.d.Mode = mode
}

// InsertMode returns a Bool telling if the editor is in insert mode. Setting
// it to false returns to view mode.
func (m *Model) InsertMode() Bool { return MakeBool((*insertMode)(m)) }

type insertMode Model

func (m *insertMode) Value() bool { return m.d.Mode == ModeInsert }
func (m *insertMode) SetValue(v bool) {
	if v {
		(*Model)(m).SetMode(ModeInsert)
	} else {
		(*Model)(m).SetMode(ModeView)
	}
}

// Digit appends a digit to the repeat count, entering number mode. A leading
// zero is ignored.
func (m *Model) Digit(d int) bool {
	if d < 0 || d > 9 || (m.d.Mode != ModeView && m.d.Mode != ModeNumber) {
		return false
	}
	if m.d.Mode == ModeView && d == 0 {
		return false
	}
	m.SetMode(ModeNumber)
	m.d.Count = min(m.d.Count*10+d, maxCount)
	return true
}

// Count returns the repeat count for the next move; 1 outside number mode.
func (m *Model) Count() int {
	if m.d.Mode != ModeNumber || m.d.Count < 1 {
		return 1
	}
	return m.d.Count
}
