package editor

import (
	"math"

	"github.com/vsariola/pianoroll"
)

type (
	// Point is a position on the canvas in pixels, the key labels and the
	// header included.
	Point struct {
		X, Y float64
	}

	// Rect is the rectangle spanned by two corner points, in any order.
	Rect struct {
		Min, Max Point
	}
)

// Canon returns the rectangle with Min to the top left of Max.
func (r Rect) Canon() Rect {
	return Rect{
		Min: Point{math.Min(r.Min.X, r.Max.X), math.Min(r.Min.Y, r.Max.Y)},
		Max: Point{math.Max(r.Min.X, r.Max.X), math.Max(r.Min.Y, r.Max.Y)},
	}
}

// HitTest returns the event under the canvas point p, if any.
func (m *Model) HitTest(p Point) (EventID, bool) {
	row, ok := m.d.Layout.YToRow(p.Y, len(m.d.Keys))
	if !ok {
		return 0, false
	}
	loc, err := m.d.Layout.XToLocation(m.d.Layout.GridX(p.X), m.d.Signature, false)
	if err != nil {
		return 0, false
	}
	for _, id := range m.store.QueryRow(m.d.Keys[row]) {
		if e, _ := m.store.Get(id); e.Contains(loc) {
			return id, true
		}
	}
	return 0, false
}

// RangeSelect returns the events touched by the rectangle. The edges of the
// rectangle are clamped to the grid, so a rubber band dragged outside the
// view still selects up to the first or last row.
func (m *Model) RangeSelect(r Rect) []EventID {
	r = r.Canon()
	if len(m.d.Keys) == 0 {
		return nil
	}
	top, bottom := m.clampRow(r.Min.Y), m.clampRow(r.Max.Y)
	begin := m.clampLocation(r.Min.X)
	end := m.clampLocation(r.Max.X)
	keys := m.d.Keys[top : bottom+1]
	if begin == end {
		// a degenerate band selects whatever is under the point
		var ret []EventID
		for _, k := range keys {
			for _, id := range m.store.QueryRow(k) {
				if e, _ := m.store.Get(id); e.Contains(begin) {
					ret = append(ret, id)
				}
			}
		}
		return ret
	}
	return m.store.QueryRange(keys, begin, end)
}

func (m *Model) clampRow(y float64) int {
	if row, ok := m.d.Layout.YToRow(y, len(m.d.Keys)); ok {
		return row
	}
	if y < m.d.Layout.RowToY(0) {
		return 0
	}
	return len(m.d.Keys) - 1
}

func (m *Model) clampLocation(x float64) pianoroll.Location {
	loc, err := m.d.Layout.XToLocation(m.d.Layout.GridX(x), m.d.Signature, false)
	if err != nil {
		return pianoroll.Location{}
	}
	return loc
}

// Selected tells if the event is selected.
func (m *Model) Selected(id EventID) bool {
	_, ok := m.selection[id]
	return ok
}

// Selection returns the IDs of the selected events in store order.
func (m *Model) Selection() []EventID {
	ret := make([]EventID, 0, len(m.selection))
	for id := range m.store.All() {
		if _, ok := m.selection[id]; ok {
			ret = append(ret, id)
		}
	}
	return ret
}

// SelectedEvents returns the values of the selected events in store order.
func (m *Model) SelectedEvents() pianoroll.Events {
	ret := make(pianoroll.Events, 0, len(m.selection))
	for id, e := range m.store.All() {
		if _, ok := m.selection[id]; ok {
			ret = append(ret, e)
		}
	}
	return ret
}

// Select replaces the selection. IDs not in the store are ignored.
func (m *Model) Select(ids ...EventID) {
	clear(m.selection)
	m.addToSelection(ids...)
}

func (m *Model) addToSelection(ids ...EventID) {
	for _, id := range ids {
		if m.store.Has(id) {
			m.selection[id] = struct{}{}
		}
	}
}

// SelectAll returns an Action to select every event.
func (m *Model) SelectAll() Action { return MakeAction((*selectAll)(m)) }

type selectAll Model

func (m *selectAll) Enabled() bool { return m.store.Len() > len(m.selection) }
func (m *selectAll) Do() {
	for id := range m.store.All() {
		m.selection[id] = struct{}{}
	}
}

// Deselect returns an Action to clear the selection.
func (m *Model) Deselect() Action { return MakeAction((*deselect)(m)) }

type deselect Model

func (m *deselect) Enabled() bool { return len(m.selection) > 0 }
func (m *deselect) Do()           { clear(m.selection) }

// click applies the click semantics to the events under the pointer: with
// shift, the hit events toggle without touching the rest of the selection;
// otherwise clicking the sole selected event deselects it and clicking
// anything else selects just that.
func (m *Model) click(hit []EventID, shift bool) {
	if shift {
		for _, id := range hit {
			if _, ok := m.selection[id]; ok {
				delete(m.selection, id)
			} else {
				m.selection[id] = struct{}{}
			}
		}
		return
	}
	if len(hit) == 1 && len(m.selection) == 1 && m.Selected(hit[0]) {
		clear(m.selection)
		return
	}
	m.Select(hit...)
}

func (m *Model) selectAdded(e Edit) {
	for _, a := range e.Added {
		m.addToSelection(a.ID)
	}
}
