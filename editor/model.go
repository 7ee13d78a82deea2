package editor

import (
	"iter"

	"github.com/vsariola/pianoroll"
)

// Model implements the mutable state of one piano roll editor.
//
// It is owned by the UI goroutine, while the transport pump talking to the
// host runs in another goroutine. They communicate only through the two
// channels of the Broker.
type (
	// modelData is the plain state of the editor that has no identity
	// attached to it
	modelData struct {
		Signature pianoroll.Signature
		Bars      int
		Keys      []pianoroll.Key
		Layout    Layout
		Velocity  int
		Mode      Mode
		Count     int
		Playhead  pianoroll.Location
		Running   bool
	}

	Model struct {
		d modelData

		store     *Store
		selection map[EventID]struct{}
		drag      dragState
		stamp     copyOrigin

		prevUndoKind string
		undoStack    []Edit
		redoStack    []Edit

		derived derivedModelData

		broker   *Broker
		capturer Capturer
	}

	// derivedModelData is recomputed whenever the rows, the signature, the
	// length or the layout change, and only then.
	derivedModelData struct {
		rowOf         map[pianoroll.Key]int
		contentWidth  int
		contentHeight int
	}

	// copyOrigin is the reference point recorded when entering copy mode:
	// stamping translates every selected event by the distance between the
	// press location and this point.
	copyOrigin struct {
		row int
		loc pianoroll.Location
	}
)

// NewModel creates a new editor for the given roll. The roll's events become
// the initial contents of the store; events that are invalid or overlap an
// earlier one are dropped.
func NewModel(broker *Broker, roll pianoroll.Roll, prefs Preferences) *Model {
	m := new(Model)
	m.broker = broker
	m.store = NewStore()
	m.selection = map[EventID]struct{}{}
	m.d.Signature = roll.Signature
	if !m.d.Signature.Valid() {
		m.d.Signature = pianoroll.DefaultSignature
	}
	m.d.Bars = roll.Bars
	if m.d.Bars <= 0 {
		m.d.Bars = pianoroll.DefaultBars
	}
	m.d.Keys = pianoroll.SortKeys(roll.Keys)
	m.d.Layout = prefs.Layout
	m.d.Velocity = RangeInclusive{1, pianoroll.MaxVelocity}.Clamp(prefs.Velocity)
	for _, err := range m.store.Reset(roll.Events) {
		violated(err)
	}
	m.updateDerived()
	return m
}

// SetCapturer sets the collaborator that captures the pointer for the
// duration of a drag, so that moves outside the canvas still reach the model.
func (m *Model) SetCapturer(c Capturer) { m.capturer = c }

func (m *Model) Broker() *Broker { return m.broker }

func (m *Model) Layout() Layout { return m.d.Layout }

func (m *Model) Signature() pianoroll.Signature { return m.d.Signature }

func (m *Model) Bars() int { return m.d.Bars }

// Keys returns the rows of the roll, top to bottom.
func (m *Model) Keys() []pianoroll.Key { return m.d.Keys }

func (m *Model) Playhead() pianoroll.Location { return m.d.Playhead }

func (m *Model) Running() bool { return m.d.Running }

func (m *Model) Mode() Mode { return m.d.Mode }

// Store returns the events of the editor. The renderer should treat it as
// read-only; changing it directly bypasses undo and the host.
func (m *Model) Store() *Store { return m.store }

// RowOf returns the row index of a key, or false if the key is not shown.
func (m *Model) RowOf(key pianoroll.Key) (int, bool) {
	r, ok := m.derived.rowOf[key]
	return r, ok
}

// ContentSize returns the size of the whole grid in pixels, excluding the
// key labels and the header.
func (m *Model) ContentSize() (width, height int) {
	return m.derived.contentWidth, m.derived.contentHeight
}

// Events iterates over all the events in the store, telling for each whether
// it is selected.
func (m *Model) Events() iter.Seq2[EventID, EventView] {
	return func(yield func(EventID, EventView) bool) {
		for id, e := range m.store.All() {
			_, sel := m.selection[id]
			if !yield(id, EventView{Event: e, Selected: sel}) {
				return
			}
		}
	}
}

// EventView is an event as the renderer sees it.
type EventView struct {
	pianoroll.Event
	Selected bool
}

// SetKeys replaces the visible rows. The keys are sorted in row order, the
// cached geometry is recomputed and the new key set is sent to the host.
// Any drag in progress is cancelled as its row indices are no longer valid.
func (m *Model) SetKeys(keys []pianoroll.Key) {
	m.cancelDrag()
	if m.d.Mode == ModeCopy {
		m.d.Mode = ModeView
	}
	m.d.Keys = pianoroll.SortKeys(keys)
	m.updateDerived()
	k := make([]pianoroll.Key, len(m.d.Keys))
	copy(k, m.d.Keys)
	TrySend(m.broker.ToHost, MsgToHost{HasKeys: true, Keys: k})
}

// SetSignature changes the time signature used for snapping and geometry.
func (m *Model) SetSignature(sig pianoroll.Signature) {
	if !sig.Valid() || sig == m.d.Signature {
		return
	}
	m.cancelDrag()
	m.d.Signature = sig
	m.updateDerived()
}

func (m *Model) SetBars(bars int) {
	if bars <= 0 || bars == m.d.Bars {
		return
	}
	m.d.Bars = bars
	m.updateDerived()
}

// SetLayout changes the pixel geometry, e.g. when the view is resized. The
// scroll offset is kept but clamped to the new content size.
func (m *Model) SetLayout(l Layout) {
	l.ScrollX = m.d.Layout.ScrollX
	m.d.Layout = l
	m.updateDerived()
}

// ProcessMsg applies a message received from the host. A snapshot replaces
// the contents of the store; the selection is carried over to the events
// with the same values.
func (m *Model) ProcessMsg(msg MsgToModel) {
	if !msg.HasSnapshot {
		return
	}
	snap := msg.Snapshot
	selected := make([]pianoroll.Event, 0, len(m.selection))
	for id := range m.selection {
		if e, ok := m.store.Get(id); ok {
			selected = append(selected, e)
		}
	}
	origin := make([]pianoroll.Event, 0, len(m.drag.origin))
	for _, id := range m.drag.origin {
		if e, ok := m.store.Get(id); ok {
			origin = append(origin, e)
		}
	}
	for _, err := range m.store.Reset(snap.Events) {
		violated(err)
	}
	clear(m.selection)
	for _, e := range selected {
		if id, ok := m.findFree(e, m.selection); ok {
			m.selection[id] = struct{}{}
		}
	}
	m.drag.origin = m.drag.origin[:0]
	for _, e := range origin {
		if id, ok := m.store.Find(e); ok {
			m.drag.origin = append(m.drag.origin, id)
		}
	}
	m.d.Playhead = snap.Playhead
	m.d.Running = snap.Running
}

// findFree finds a near-equal event not yet in taken.
func (m *Model) findFree(e pianoroll.Event, taken map[EventID]struct{}) (EventID, bool) {
	for id, o := range m.store.All() {
		if _, ok := taken[id]; !ok && o.Near(e) {
			return id, true
		}
	}
	return 0, false
}

// Velocity returns the velocity used for new notes. Setting it while events
// are selected re-weights them too, as one undoable change. Setting the value
// it already has is a no-op, so use ApplyVelocity to re-weight a selection to
// the current value.
func (m *Model) Velocity() Int { return MakeInt((*modelVelocity)(m)) }

type modelVelocity Model

func (v *modelVelocity) Value() int { return v.d.Velocity }
func (v *modelVelocity) Range() RangeInclusive {
	return RangeInclusive{1, pianoroll.MaxVelocity}
}
func (v *modelVelocity) SetValue(value int) bool {
	v.d.Velocity = value
	(*Model)(v).reweight()
	return true
}

// ApplyVelocity sets the velocity of every selected event to the current
// insert velocity.
func (m *Model) ApplyVelocity() Action { return MakeAction((*applyVelocity)(m)) }

type applyVelocity Model

func (m *applyVelocity) Enabled() bool {
	for id := range m.selection {
		if ev, ok := m.store.Get(id); ok && ev.Vel != m.d.Velocity {
			return true
		}
	}
	return false
}

func (m *applyVelocity) Do() { (*Model)(m).reweight() }

func (m *Model) reweight() {
	var e Edit
	for id, ev := range m.store.All() {
		if _, ok := m.selection[id]; !ok || ev.Vel == m.d.Velocity {
			continue
		}
		e.Removed = append(e.Removed, EditEntry{ID: id, Event: ev})
		ev.Vel = m.d.Velocity
		e.Added = append(e.Added, EditEntry{Event: ev})
	}
	if m.do("velocity", &e) {
		m.selectAdded(e)
	}
}

// Scroll returns the horizontal scroll offset of the view in pixels.
func (m *Model) Scroll() Int { return MakeInt((*modelScroll)(m)) }

type modelScroll Model

func (v *modelScroll) Value() int { return v.d.Layout.ScrollX }
func (v *modelScroll) Range() RangeInclusive {
	return RangeInclusive{0, v.d.Layout.MaxScroll(v.d.Signature, v.d.Bars)}
}
func (v *modelScroll) SetValue(value int) bool {
	v.d.Layout.ScrollX = value
	return true
}

// Wheel scrolls the view horizontally by dy pixels, like the mouse wheel.
func (m *Model) Wheel(dy float64) bool {
	return m.Scroll().Add(int(dy))
}

func (m *Model) updateDerived() {
	if m.derived.rowOf == nil {
		m.derived.rowOf = map[pianoroll.Key]int{}
	}
	clear(m.derived.rowOf)
	for i, k := range m.d.Keys {
		m.derived.rowOf[k] = i
	}
	m.d.Layout = m.d.Layout.ClampScroll(m.d.Signature, m.d.Bars)
	m.derived.contentWidth = m.d.Layout.ContentWidth(m.d.Signature, m.d.Bars)
	m.derived.contentHeight = m.d.Layout.ContentHeight(len(m.d.Keys))
}
