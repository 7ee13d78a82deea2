package editor

import (
	"github.com/vsariola/pianoroll"
)

// Direction is the direction of a keyboard move of the selection.
type Direction int

const (
	MoveUp Direction = iota
	MoveDown
	MoveLeft
	MoveRight
)

type (
	deleteSelection Model
	copySelection   Model
	moveSelection   struct {
		m   *Model
		dir Direction
	}
)

// Delete returns an Action to delete the selected events.
func (m *Model) Delete() Action { return MakeAction((*deleteSelection)(m)) }

func (m *deleteSelection) Enabled() bool { return len(m.selection) > 0 }
func (m *deleteSelection) Do() {
	model := (*Model)(m)
	var edit Edit
	for _, id := range model.Selection() {
		e, _ := m.store.Get(id)
		edit.Removed = append(edit.Removed, EditEntry{ID: id, Event: e})
	}
	if model.do("", &edit) {
		clear(m.selection)
	}
}

// Copy returns an Action that enters copy mode with the current selection.
// The origin of the copy is the top row and earliest begin within the
// selection; each press in copy mode stamps the selection so that the origin
// lands on the pressed cell.
func (m *Model) Copy() Action { return MakeAction((*copySelection)(m)) }

func (m *copySelection) Enabled() bool { return len(m.selection) > 0 }
func (m *copySelection) Do() {
	model := (*Model)(m)
	var origin copyOrigin
	found := false
	for _, e := range model.SelectedEvents() {
		r, ok := m.derived.rowOf[e.Key]
		if !ok {
			continue
		}
		if !found || r < origin.row {
			origin.row = r
		}
		if !found || e.Begin.Less(origin.loc) {
			origin.loc = e.Begin
		}
		found = true
	}
	if !found {
		return
	}
	model.SetMode(ModeCopy)
	m.stamp = origin
}

// Move returns an Action to move the selected events one step in the given
// direction; up and down move a row, left and right one division. In number
// mode the move is repeated by the typed count, after which the editor
// returns to view mode.
func (m *Model) Move(dir Direction) Action { return MakeAction(moveSelection{m, dir}) }

func (a moveSelection) Enabled() bool { return len(a.m.selection) > 0 }
func (a moveSelection) Do() {
	n := a.m.Count()
	if a.m.d.Mode == ModeNumber {
		a.m.SetMode(ModeView)
	}
	a.m.MoveBy(a.dir, n, float64(n)*a.m.d.Signature.DivBeats())
}

// MoveBy moves the selected events: up and down by rows through the sorted
// row list, left and right by beats. Each event is clamped on its own, so
// events at the edge stay where they are while the rest move. The move is
// rejected as a whole if a moved event would overlap one that is not moved.
// Returns true if anything moved.
func (m *Model) MoveBy(dir Direction, rows int, beats float64) bool {
	nbeats := m.d.Signature.Beats
	var edit Edit
	for _, id := range m.Selection() {
		ev, _ := m.store.Get(id)
		moved := ev
		switch dir {
		case MoveUp, MoveDown:
			r, ok := m.derived.rowOf[ev.Key]
			if !ok {
				continue
			}
			if dir == MoveUp {
				r = max(r-rows, 0)
			} else {
				r = min(r+rows, len(m.d.Keys)-1)
			}
			moved.Key = m.d.Keys[r]
		case MoveLeft:
			moved = ev.Shift(-beats, nbeats)
		case MoveRight:
			moved = ev.Shift(beats, nbeats)
		}
		if moved == ev || moved.Begin.Bar < 0 || (dir == MoveRight && (pianoroll.Location{Bar: m.d.Bars}).Less(moved.End)) {
			continue
		}
		edit.Removed = append(edit.Removed, EditEntry{ID: id, Event: ev})
		edit.Added = append(edit.Added, EditEntry{Event: moved})
	}
	if !m.do("", &edit) {
		return false
	}
	m.selectAdded(edit)
	return true
}
