package editor

import (
	"github.com/vsariola/pianoroll"
)

type (
	// PointerEvent is a pointer input on the canvas. X and Y are canvas
	// coordinates. For a Leave, ToRoot tells that the pointer left to the
	// page root instead of some other element, in which case its coordinates
	// are unreliable.
	PointerEvent struct {
		Kind   PointerKind
		X, Y   float64
		Shift  bool
		ToRoot bool
	}

	PointerKind int

	// DragMode tells what the pointer is dragging, if anything.
	DragMode int

	// Capturer captures the pointer for the duration of a drag, so that moves
	// and the release reach the model even outside the canvas. The model
	// calls the returned release function exactly once when the drag ends.
	Capturer interface {
		Capture() (release func())
	}

	dragState struct {
		mode   DragMode
		anchor Point
		last   Point
		moved  bool
		shift  bool
		// origin is the selection when the drag started: a shift rubber band
		// adds to it and a cancelled drag restores it
		origin  []EventID
		row     int
		begin   pianoroll.Location
		end     pianoroll.Location
		release func()
	}
)

const (
	PointerPress PointerKind = iota
	PointerMove
	PointerRelease
	PointerLeave
	PointerCancel
)

const (
	DragNone DragMode = iota
	DragSelect
	DragInsert
)

func (m *Model) DragMode() DragMode { return m.drag.mode }

// Pointer feeds a pointer event to the interaction state machine.
func (m *Model) Pointer(e PointerEvent) {
	p := Point{e.X, e.Y}
	if m.drag.mode == DragNone {
		if e.Kind == PointerPress {
			m.press(p, e.Shift)
		}
		return
	}
	switch e.Kind {
	case PointerMove:
		m.dragTo(p)
	case PointerRelease:
		m.dragTo(p)
		m.finishDrag()
	case PointerLeave:
		if !e.ToRoot {
			m.dragTo(p)
		}
		m.finishDrag()
	case PointerCancel:
		m.cancelDrag()
	case PointerPress:
		m.finishDrag()
	}
}

// Area returns the rubber band rectangle while one is being dragged.
func (m *Model) Area() (Rect, bool) {
	if m.drag.mode != DragSelect || !m.drag.moved {
		return Rect{}, false
	}
	return Rect{m.drag.anchor, m.drag.last}.Canon(), true
}

// Provisional returns the event that releasing the current insert drag would
// create.
func (m *Model) Provisional() (pianoroll.Event, bool) {
	if m.drag.mode != DragInsert || m.drag.row >= len(m.d.Keys) {
		return pianoroll.Event{}, false
	}
	begin, end := pianoroll.Reorder(m.drag.begin, m.drag.end)
	if minEnd := begin.AddBeats(m.d.Signature.DivBeats(), m.d.Signature.Beats); end.Less(minEnd) {
		end = minEnd
	}
	if last := (pianoroll.Location{Bar: m.d.Bars}); last.Less(end) {
		end = last
	}
	e := pianoroll.Event{Key: m.d.Keys[m.drag.row], Begin: begin, End: end, Vel: m.d.Velocity}
	if e.Validate() != nil {
		return pianoroll.Event{}, false
	}
	return e, true
}

func (m *Model) insideGrid(p Point) bool {
	return p.X >= float64(m.d.Layout.LabelWidth) && p.Y >= float64(m.d.Layout.HeadHeight)
}

func (m *Model) press(p Point, shift bool) {
	if !m.insideGrid(p) {
		return
	}
	switch m.d.Mode {
	case ModeInsert:
		if id, ok := m.HitTest(p); ok {
			m.click([]EventID{id}, shift)
			return
		}
		row, ok := m.d.Layout.YToRow(p.Y, len(m.d.Keys))
		if !ok {
			return
		}
		loc, err := m.d.Layout.XToLocation(m.d.Layout.GridX(p.X), m.d.Signature, true)
		if err != nil || loc.Bar >= m.d.Bars {
			return
		}
		m.startDrag(DragInsert, p, shift)
		m.drag.row = row
		m.drag.begin, m.drag.end = loc, loc
	case ModeCopy:
		m.stampCopy(p)
	default:
		m.startDrag(DragSelect, p, shift)
	}
}

func (m *Model) startDrag(mode DragMode, p Point, shift bool) {
	m.drag = dragState{
		mode:   mode,
		anchor: p,
		last:   p,
		shift:  shift,
		origin: m.Selection(),
	}
	if m.capturer != nil {
		m.drag.release = m.capturer.Capture()
	}
}

func (m *Model) dragTo(p Point) {
	if p == m.drag.last {
		return
	}
	m.drag.last = p
	m.drag.moved = true
	switch m.drag.mode {
	case DragSelect:
		hit := m.RangeSelect(Rect{m.drag.anchor, p})
		if m.drag.shift {
			m.Select(m.drag.origin...)
			m.addToSelection(hit...)
		} else {
			m.Select(hit...)
		}
	case DragInsert:
		loc, err := m.d.Layout.XToLocation(m.d.Layout.GridX(p.X), m.d.Signature, true)
		if err != nil {
			loc = pianoroll.Location{}
		}
		m.drag.end = loc
	}
}

func (m *Model) finishDrag() {
	switch m.drag.mode {
	case DragSelect:
		if !m.drag.moved {
			var hit []EventID
			if id, ok := m.HitTest(m.drag.anchor); ok {
				hit = append(hit, id)
			}
			m.Select(m.drag.origin...)
			m.click(hit, m.drag.shift)
		}
	case DragInsert:
		m.commitInsert()
	}
	m.endDrag()
}

// cancelDrag ends the drag without committing anything; a rubber band
// selection reverts to what it was before the drag.
func (m *Model) cancelDrag() {
	if m.drag.mode == DragSelect {
		m.Select(m.drag.origin...)
	}
	m.endDrag()
}

func (m *Model) endDrag() {
	release := m.drag.release
	m.drag = dragState{}
	if release != nil {
		release()
	}
}

func (m *Model) commitInsert() {
	e, ok := m.Provisional()
	if !ok {
		return
	}
	if hit := m.store.QueryRange([]pianoroll.Key{e.Key}, e.Begin, e.End); len(hit) > 0 {
		m.Select(hit...)
		return
	}
	edit := Edit{Added: entries(e)}
	if m.do("", &edit) {
		clear(m.selection)
	}
}

// stampCopy adds a copy of every selected event, translated so that the copy
// origin lands on the pressed cell. Copies that would fall outside the rows
// or the bars of the roll, or overlap existing events or each other, are
// left out.
func (m *Model) stampCopy(p Point) {
	row, ok := m.d.Layout.YToRow(p.Y, len(m.d.Keys))
	if !ok {
		return
	}
	loc, err := m.d.Layout.XToLocation(m.d.Layout.GridX(p.X), m.d.Signature, true)
	if err != nil {
		return
	}
	nbeats := m.d.Signature.Beats
	dRow := row - m.stamp.row
	dBeats := float64((loc.Bar-m.stamp.loc.Bar)*nbeats) + loc.Beat - m.stamp.loc.Beat
	var edit Edit
	for _, e := range m.SelectedEvents() {
		r, ok := m.derived.rowOf[e.Key]
		if !ok || r+dRow < 0 || r+dRow >= len(m.d.Keys) {
			continue
		}
		c := e.Shift(dBeats, nbeats)
		c.Key = m.d.Keys[r+dRow]
		if c.Begin.Bar < 0 || (pianoroll.Location{Bar: m.d.Bars}).Less(c.End) || m.store.Check(c) != nil {
			continue
		}
		overlaps := false
		for _, a := range edit.Added {
			overlaps = overlaps || a.Event.Overlaps(c)
		}
		if !overlaps {
			edit.Added = append(edit.Added, EditEntry{Event: c})
		}
	}
	m.do("", &edit)
}
