package editor_test

import (
	"slices"
	"testing"

	"github.com/vsariola/pianoroll"
	"github.com/vsariola/pianoroll/editor"
)

// with the default keys, row 0 is key 48 and row r is key 48-r
func rowKey(row int) pianoroll.Key { return pianoroll.Key(48 - row) }

// at returns canvas coordinates inside the given row, gridX pixels right of
// the start of the grid.
func at(row int, gridX float64) (x, y float64) {
	return 40 + gridX, 26.5 + 13*float64(row)
}

func newTestModel(t *testing.T, events ...pianoroll.Event) (*editor.Model, *editor.Broker) {
	t.Helper()
	broker := editor.NewBroker()
	roll := pianoroll.DefaultRoll()
	roll.Events = events
	prefs := editor.Preferences{Layout: testLayout, Velocity: pianoroll.DefaultVelocity}
	return editor.NewModel(broker, roll, prefs), broker
}

func drain(b *editor.Broker) []editor.MsgToHost {
	var ret []editor.MsgToHost
	for {
		select {
		case msg := <-b.ToHost:
			ret = append(ret, msg)
		default:
			return ret
		}
	}
}

func pointer(m *editor.Model, kind editor.PointerKind, row int, gridX float64, shift bool) {
	x, y := at(row, gridX)
	m.Pointer(editor.PointerEvent{Kind: kind, X: x, Y: y, Shift: shift})
}

func click(m *editor.Model, row int, gridX float64, shift bool) {
	pointer(m, editor.PointerPress, row, gridX, shift)
	pointer(m, editor.PointerRelease, row, gridX, shift)
}

func idOf(t *testing.T, m *editor.Model, e pianoroll.Event) editor.EventID {
	t.Helper()
	id, ok := m.Store().Find(e)
	if !ok {
		t.Fatalf("event %v not in store", e)
	}
	return id
}

type countingCapturer struct{ captures, releases int }

func (c *countingCapturer) Capture() func() {
	c.captures++
	return func() { c.releases++ }
}

func TestInsertDrag(t *testing.T) {
	m, b := newTestModel(t)
	m.SetMode(editor.ModeInsert)
	pointer(m, editor.PointerPress, 2, 0, false)
	pointer(m, editor.PointerMove, 2, 34, false)
	if p, ok := m.Provisional(); !ok || p != ev(rowKey(2), 0, 0, 0, 0.5) {
		t.Errorf("unexpected provisional event %v %v", p, ok)
	}
	pointer(m, editor.PointerRelease, 2, 34, false)
	want := ev(rowKey(2), 0, 0, 0, 0.5)
	if got := m.Store().Events(); len(got) != 1 || got[0] != want {
		t.Fatalf("expected [%v], got %v", want, got)
	}
	msgs := drain(b)
	if len(msgs) != 1 || len(msgs[0].Edit) != 1 || msgs[0].Edit[0] != want {
		t.Errorf("expected one batch with the new event, got %v", msgs)
	}
	if m.History().UndoLen() != 1 {
		t.Errorf("expected one undo entry, got %d", m.History().UndoLen())
	}
	if m.DragMode() != editor.DragNone {
		t.Errorf("drag should have ended")
	}
}

func TestInsertDragBackwards(t *testing.T) {
	m, _ := newTestModel(t)
	m.SetMode(editor.ModeInsert)
	pointer(m, editor.PointerPress, 0, 300, false)
	pointer(m, editor.PointerRelease, 0, 100, false)
	// 300px is bar 1 div 1, 100px is bar 0 div 5
	want := ev(rowKey(0), 0, 1.25, 1, 0.25)
	if got := m.Store().Events(); len(got) != 1 || got[0] != want {
		t.Errorf("expected [%v], got %v", want, got)
	}
}

func TestInsertClickMakesOneDivision(t *testing.T) {
	m, _ := newTestModel(t)
	m.SetMode(editor.ModeInsert)
	click(m, 5, 20, false)
	want := ev(rowKey(5), 0, 0.25, 0, 0.5)
	if got := m.Store().Events(); len(got) != 1 || got[0] != want {
		t.Errorf("expected [%v], got %v", want, got)
	}
}

func TestInsertOverHitSelects(t *testing.T) {
	existing := ev(rowKey(1), 0, 1, 0, 2)
	m, b := newTestModel(t, existing)
	m.SetMode(editor.ModeInsert)
	click(m, 1, 80, false) // 80px is inside beat 1
	if m.Store().Len() != 1 {
		t.Fatalf("pressing an event in insert mode must not insert")
	}
	if !m.Selected(idOf(t, m, existing)) {
		t.Errorf("pressed event should be selected")
	}
	if msgs := drain(b); len(msgs) != 0 {
		t.Errorf("expected no batches, got %v", msgs)
	}
}

func TestInsertOverlapSelectsInstead(t *testing.T) {
	existing := ev(rowKey(1), 0, 1, 0, 2)
	m, _ := newTestModel(t, existing)
	m.SetMode(editor.ModeInsert)
	pointer(m, editor.PointerPress, 1, 0, false)
	pointer(m, editor.PointerRelease, 1, 140, false)
	if m.Store().Len() != 1 {
		t.Fatalf("overlapping insert must not be committed, store has %v", m.Store().Events())
	}
	if !m.Selected(idOf(t, m, existing)) {
		t.Errorf("overlapped event should become selected")
	}
	if m.History().UndoLen() != 0 {
		t.Errorf("no history entry expected")
	}
}

func TestClickSelection(t *testing.T) {
	a, b := ev(rowKey(2), 0, 0, 0, 1), ev(rowKey(3), 0, 0, 0, 1)
	m, _ := newTestModel(t, a, b)
	click(m, 2, 5, false)
	if got := m.SelectedEvents(); len(got) != 1 || got[0] != a {
		t.Fatalf("expected [%v] selected, got %v", a, got)
	}
	click(m, 2, 5, false)
	if len(m.Selection()) != 0 {
		t.Errorf("clicking the sole selected event should deselect it")
	}
	click(m, 2, 5, false)
	click(m, 3, 5, true)
	if len(m.Selection()) != 2 {
		t.Errorf("shift-click should add to the selection, got %v", m.SelectedEvents())
	}
	click(m, 2, 5, true)
	if got := m.SelectedEvents(); len(got) != 1 || got[0] != b {
		t.Errorf("shift-click should toggle, got %v", got)
	}
	click(m, 10, 500, false)
	if len(m.Selection()) != 0 {
		t.Errorf("clicking empty space should clear the selection")
	}
}

func TestRubberBand(t *testing.T) {
	a, b, c := ev(rowKey(2), 0, 0, 0, 1), ev(rowKey(5), 0, 2, 0, 3), ev(rowKey(10), 1, 0, 1, 1)
	m, broker := newTestModel(t, a, b, c)
	pointer(m, editor.PointerPress, 1, 0, false)
	pointer(m, editor.PointerMove, 6, 150, false)
	if _, ok := m.Area(); !ok {
		t.Errorf("expected a rubber band while dragging")
	}
	if len(m.Selection()) != 2 {
		t.Errorf("selection should update live, got %v", m.SelectedEvents())
	}
	pointer(m, editor.PointerRelease, 6, 150, false)
	if got := m.SelectedEvents(); len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("expected [%v %v], got %v", a, b, got)
	}
	if _, ok := m.Area(); ok {
		t.Errorf("rubber band should be gone after release")
	}
	pointer(m, editor.PointerPress, 9, 260, true)
	pointer(m, editor.PointerRelease, 11, 300, true)
	if len(m.Selection()) != 3 {
		t.Errorf("shift rubber band should add to the selection, got %v", m.SelectedEvents())
	}
	if m.History().UndoLen() != 0 || len(drain(broker)) != 0 {
		t.Errorf("selection must not touch history or the host")
	}
}

func TestMoveDownAndUndo(t *testing.T) {
	a := ev(rowKey(2), 0, 0, 0, 1)
	m, b := newTestModel(t, a)
	m.Select(idOf(t, m, a))
	m.Move(editor.MoveDown).Do()
	moved := a
	moved.Key = rowKey(3)
	if got := m.Store().Events(); len(got) != 1 || got[0] != moved {
		t.Fatalf("expected [%v], got %v", moved, got)
	}
	if !m.Selected(idOf(t, m, moved)) {
		t.Errorf("selection should follow the moved event")
	}
	msgs := drain(b)
	if len(msgs) != 1 {
		t.Fatalf("expected one batch, got %v", msgs)
	}
	if want := (pianoroll.Events{a.Zeroed(), moved}); len(msgs[0].Edit) != 2 || msgs[0].Edit[0] != want[0] || msgs[0].Edit[1] != want[1] {
		t.Errorf("expected batch %v, got %v", want, msgs[0].Edit)
	}
	m.History().Undo().Do()
	if got := m.Store().Events(); len(got) != 1 || got[0] != a {
		t.Fatalf("undo: expected [%v], got %v", a, got)
	}
	if msgs := drain(b); len(msgs) != 1 || msgs[0].Edit[0] != moved.Zeroed() || msgs[0].Edit[1] != a {
		t.Errorf("undo should send the inverse batch, got %v", msgs)
	}
	m.History().Redo().Do()
	if got := m.Store().Events(); len(got) != 1 || got[0] != moved {
		t.Errorf("redo: expected [%v], got %v", moved, got)
	}
}

func TestMoveClampsPerEvent(t *testing.T) {
	a, b := ev(rowKey(0), 0, 0, 0, 1), ev(rowKey(1), 0, 2, 0, 3)
	m, broker := newTestModel(t, a, b)
	m.SelectAll().Do()
	m.Move(editor.MoveUp).Do()
	movedB := b
	movedB.Key = rowKey(0)
	got := m.Store().Events()
	if len(got) != 2 || got[0] != a || got[1] != movedB {
		t.Errorf("expected [%v %v], got %v", a, movedB, got)
	}
	if msgs := drain(broker); len(msgs) != 1 || len(msgs[0].Edit) != 2 {
		t.Errorf("only the moved event should be in the batch, got %v", msgs)
	}
	m.SelectAll().Do()
	m.Move(editor.MoveUp).Do()
	if m.History().UndoLen() != 1 {
		t.Errorf("a move that changes nothing should be a no-op")
	}
}

func TestMoveRejectsOverlap(t *testing.T) {
	a, b := ev(rowKey(2), 0, 0, 0, 1), ev(rowKey(3), 0, 0.5, 0, 2)
	m, broker := newTestModel(t, a, b)
	m.Select(idOf(t, m, a))
	m.Move(editor.MoveDown).Do()
	if got := m.Store().Events(); len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("overlapping move must be rejected, got %v", got)
	}
	if m.History().UndoLen() != 0 || len(drain(broker)) != 0 {
		t.Errorf("rejected move must leave no trace")
	}
}

func TestMoveHorizontal(t *testing.T) {
	a := ev(rowKey(2), 0, 3.75, 1, 0.5)
	m, _ := newTestModel(t, a)
	m.Select(idOf(t, m, a))
	m.Move(editor.MoveRight).Do()
	want := ev(rowKey(2), 1, 0, 1, 0.75)
	if got := m.Store().Events(); len(got) != 1 || !got[0].Near(want) {
		t.Errorf("expected [%v], got %v", want, got)
	}
	m.MoveBy(editor.MoveLeft, 1, 8)
	if got := m.Store().Events(); !got[0].Near(want) {
		t.Errorf("moving before the start must leave the event in place, got %v", got)
	}
}

func TestDeleteAndUndo(t *testing.T) {
	a, b := ev(rowKey(2), 0, 0, 0, 1), ev(rowKey(3), 0, 0, 0, 1)
	m, broker := newTestModel(t, a, b)
	if m.Delete().Enabled() {
		t.Errorf("delete should be disabled without a selection")
	}
	m.SelectAll().Do()
	m.Delete().Do()
	if m.Store().Len() != 0 || len(m.Selection()) != 0 {
		t.Fatalf("expected everything deleted")
	}
	msgs := drain(broker)
	if len(msgs) != 1 || len(msgs[0].Edit) != 2 || msgs[0].Edit[0] != a.Zeroed() || msgs[0].Edit[1] != b.Zeroed() {
		t.Errorf("expected zeroed batch, got %v", msgs)
	}
	m.History().Undo().Do()
	if m.Store().Len() != 2 {
		t.Errorf("undo should restore both events, got %v", m.Store().Events())
	}
	if m.History().RedoLen() != 1 || m.History().UndoLen() != 0 {
		t.Errorf("unexpected stack sizes %d/%d", m.History().UndoLen(), m.History().RedoLen())
	}
}

func TestNewActionClearsRedo(t *testing.T) {
	m, _ := newTestModel(t)
	m.SetMode(editor.ModeInsert)
	click(m, 0, 0, false)
	m.History().Undo().Do()
	if m.History().RedoLen() != 1 {
		t.Fatalf("expected a redo entry")
	}
	click(m, 1, 0, false)
	if m.History().RedoLen() != 0 || m.History().Redo().Enabled() {
		t.Errorf("a new action must clear redo")
	}
}

func TestInsertUndoRedoRestoresContents(t *testing.T) {
	a, b := ev(rowKey(0), 0, 0, 0, 1), ev(rowKey(3), 1, 2, 1, 3)
	m, _ := newTestModel(t, a, b)
	before := m.Store().Events()
	m.SetMode(editor.ModeInsert)
	click(m, 1, 0, false)
	inserted := m.Store().Events()
	if len(inserted) != 3 {
		t.Fatalf("expected an inserted event, got %v", inserted)
	}
	m.History().Undo().Do()
	if got := m.Store().Events(); !slices.Equal(got, before) {
		t.Errorf("undo should restore %v, got %v", before, got)
	}
	m.History().Redo().Do()
	if got := m.Store().Events(); !slices.Equal(got, inserted) {
		t.Errorf("redo should restore %v, got %v", inserted, got)
	}
}

func TestUndoDepthIsCapped(t *testing.T) {
	m, _ := newTestModel(t)
	m.SetMode(editor.ModeInsert)
	for i := 0; i < 300; i++ {
		click(m, 0, float64(17*i), false)
	}
	if m.Store().Len() != 300 {
		t.Fatalf("expected 300 events, got %d", m.Store().Len())
	}
	if n := m.History().UndoLen(); n != 256 {
		t.Errorf("expected undo depth 256, got %d", n)
	}
	for m.History().Undo().Enabled() {
		m.History().Undo().Do()
	}
	if m.Store().Len() != 300-256 {
		t.Errorf("the oldest entries should have been dropped, %d events left", m.Store().Len())
	}
}

func TestCopyStamp(t *testing.T) {
	a, b := ev(rowKey(2), 0, 0, 0, 1), ev(rowKey(3), 0, 1, 0, 2)
	m, _ := newTestModel(t, a, b)
	m.SelectAll().Do()
	m.Copy().Do()
	if m.Mode() != editor.ModeCopy || m.Status() != "Copy" {
		t.Fatalf("expected copy mode, got %v %q", m.Mode(), m.Status())
	}
	pointer(m, editor.PointerPress, 4, 272, false)
	pointer(m, editor.PointerRelease, 4, 272, false)
	got := m.Store().Events()
	wantA, wantB := ev(rowKey(4), 1, 0, 1, 1), ev(rowKey(5), 1, 1, 1, 2)
	if len(got) != 4 || got[2] != wantA || got[3] != wantB {
		t.Errorf("expected copies %v %v, got %v", wantA, wantB, got)
	}
	if m.History().UndoLen() != 1 {
		t.Errorf("a stamp should be one history entry")
	}
	m.History().Undo().Do()
	if m.Store().Len() != 2 {
		t.Errorf("undo should remove the stamped copies")
	}
}

func TestCopyDropsOutOfRange(t *testing.T) {
	a, b := ev(rowKey(0), 0, 0, 0, 1), ev(rowKey(1), 0, 1, 0, 2)
	m, _ := newTestModel(t, a, b)
	m.SelectAll().Do()
	m.Copy().Do()
	pointer(m, editor.PointerPress, 36, 544, false)
	got := m.Store().Events()
	want := ev(rowKey(36), 2, 0, 2, 1)
	if len(got) != 3 || got[2] != want {
		t.Errorf("expected only %v stamped, got %v", want, got)
	}
}

func TestCopyDropsPastRollEnd(t *testing.T) {
	a := ev(rowKey(2), 0, 0, 0, 1)
	m, _ := newTestModel(t, a)
	m.SetBars(2)
	m.SelectAll().Do()
	m.Copy().Do()
	// 510px is bar 1 beat 3.5, so the copy would end half a beat past the roll
	pointer(m, editor.PointerPress, 2, 510, false)
	if got := m.Store().Events(); len(got) != 1 {
		t.Fatalf("a copy past the last bar must be dropped, got %v", got)
	}
	if m.History().UndoLen() != 0 {
		t.Errorf("an empty stamp must not create history")
	}
	// 476px is bar 1 beat 3, so the copy ends exactly at the last bar
	pointer(m, editor.PointerPress, 2, 476, false)
	want := ev(rowKey(2), 1, 3, 2, 0)
	if got := m.Store().Events(); len(got) != 2 || got[1] != want {
		t.Errorf("expected %v stamped, got %v", want, got)
	}
}

func TestLeaveReleasesDrag(t *testing.T) {
	m, _ := newTestModel(t)
	c := &countingCapturer{}
	m.SetCapturer(c)
	m.SetMode(editor.ModeInsert)

	pointer(m, editor.PointerPress, 0, 0, false)
	pointer(m, editor.PointerMove, 0, 34, false)
	m.Pointer(editor.PointerEvent{Kind: editor.PointerLeave, X: -500, Y: -500, ToRoot: true})
	if got := m.Store().Events(); len(got) != 1 || got[0] != ev(rowKey(0), 0, 0, 0, 0.5) {
		t.Errorf("leaving to the root should release at the last position, got %v", got)
	}

	pointer(m, editor.PointerPress, 1, 0, false)
	x, y := at(1, 68)
	m.Pointer(editor.PointerEvent{Kind: editor.PointerLeave, X: x, Y: y})
	if got := m.Store().Events(); len(got) != 2 || got[1] != ev(rowKey(1), 0, 0, 0, 1) {
		t.Errorf("leaving should release at the leave position, got %v", got)
	}

	pointer(m, editor.PointerPress, 2, 0, false)
	m.Pointer(editor.PointerEvent{Kind: editor.PointerCancel})
	pointer(m, editor.PointerPress, 3, 0, false)
	m.SetMode(editor.ModeView)
	if m.Store().Len() != 2 {
		t.Errorf("cancelled drags must not commit, got %v", m.Store().Events())
	}
	if c.captures != 4 || c.releases != 4 {
		t.Errorf("expected 4 captures and 4 releases, got %d and %d", c.captures, c.releases)
	}
}

func TestCancelRestoresSelection(t *testing.T) {
	a, b := ev(rowKey(2), 0, 0, 0, 1), ev(rowKey(3), 0, 0, 0, 1)
	m, _ := newTestModel(t, a, b)
	m.Select(idOf(t, m, a))
	pointer(m, editor.PointerPress, 0, 0, false)
	pointer(m, editor.PointerMove, 5, 100, false)
	m.Pointer(editor.PointerEvent{Kind: editor.PointerCancel})
	if got := m.SelectedEvents(); len(got) != 1 || got[0] != a {
		t.Errorf("cancel should restore the selection, got %v", got)
	}
}

func TestSnapshotKeepsSelection(t *testing.T) {
	a, b := ev(rowKey(2), 0, 0, 0, 1), ev(rowKey(3), 0, 0, 0, 1)
	m, _ := newTestModel(t, a)
	m.SelectAll().Do()
	m.ProcessMsg(editor.MsgToModel{HasSnapshot: true, Snapshot: pianoroll.Snapshot{
		Events:   pianoroll.Events{b, a},
		Playhead: pianoroll.Location{Bar: 3, Beat: 1},
		Running:  true,
	}})
	if m.Store().Len() != 2 {
		t.Fatalf("expected the snapshot events, got %v", m.Store().Events())
	}
	if got := m.SelectedEvents(); len(got) != 1 || got[0] != a {
		t.Errorf("selection should carry over by value, got %v", got)
	}
	if m.Playhead() != (pianoroll.Location{Bar: 3, Beat: 1}) || !m.Running() {
		t.Errorf("playhead not updated")
	}
	if !m.SelectionConsistent() {
		t.Errorf("selection refers to events not in the store")
	}
}

func TestUndoAfterSnapshot(t *testing.T) {
	m, _ := newTestModel(t)
	m.SetMode(editor.ModeInsert)
	click(m, 0, 0, false)
	events := m.Store().Events()
	m.ProcessMsg(editor.MsgToModel{HasSnapshot: true, Snapshot: pianoroll.Snapshot{Events: events}})
	m.History().Undo().Do()
	if m.Store().Len() != 0 {
		t.Errorf("undo should find the event by value after a reset, got %v", m.Store().Events())
	}
}

func TestApplyVelocity(t *testing.T) {
	a := ev(rowKey(2), 0, 0, 0, 1)
	a.Vel = 1000
	m, _ := newTestModel(t, a)
	m.SelectAll().Do()
	if m.Velocity().SetValue(pianoroll.DefaultVelocity) {
		t.Errorf("setting the current velocity should be a no-op")
	}
	if !m.ApplyVelocity().Enabled() {
		t.Fatalf("applying should be enabled when a selected event differs")
	}
	m.KeyEvent(editor.KeyEvent{Name: "v"})
	if got := m.Store().Events(); got[0].Vel != pianoroll.DefaultVelocity {
		t.Errorf("selected event should get the insert velocity, got %v", got)
	}
	if m.ApplyVelocity().Enabled() {
		t.Errorf("applying should be disabled when nothing differs")
	}
	if len(m.Selection()) != 1 {
		t.Errorf("the re-weighted event should stay selected")
	}
	m.History().Undo().Do()
	if got := m.Store().Events(); got[0] != a {
		t.Errorf("undo should restore %v, got %v", a, got)
	}
}

func TestVelocity(t *testing.T) {
	a := ev(rowKey(2), 0, 0, 0, 1)
	m, _ := newTestModel(t, a)
	if m.Velocity().Value() != pianoroll.DefaultVelocity {
		t.Errorf("unexpected default velocity %d", m.Velocity().Value())
	}
	m.Velocity().SetValue(0)
	if v := m.Velocity().Value(); v != 1 {
		t.Errorf("velocity should clamp to 1, got %d", v)
	}
	if m.History().UndoLen() != 0 {
		t.Errorf("changing velocity without a selection must not create history")
	}
	m.SelectAll().Do()
	m.Velocity().SetValue(1000)
	m.Velocity().SetValue(2000)
	if got := m.Store().Events(); got[0].Vel != 2000 {
		t.Errorf("selected event should be re-weighted, got %v", got)
	}
	if m.History().UndoLen() != 1 {
		t.Errorf("consecutive velocity changes should merge, got %d entries", m.History().UndoLen())
	}
	m.History().Undo().Do()
	if got := m.Store().Events(); got[0] != a {
		t.Errorf("undo should restore the velocity, got %v", got)
	}
	m.SetMode(editor.ModeInsert)
	click(m, 9, 0, false)
	if _, ok := m.Store().Find(pianoroll.Event{Key: rowKey(9), End: pianoroll.Location{Beat: 0.25}}); !ok {
		t.Fatalf("insert failed")
	}
	for _, e := range m.Store().Events() {
		if e.Key == rowKey(9) && e.Vel != 2000 {
			t.Errorf("new events should use the current velocity, got %v", e)
		}
	}
}

func TestScroll(t *testing.T) {
	m, _ := newTestModel(t)
	if m.Wheel(-10) {
		t.Errorf("scrolling before the start should do nothing")
	}
	m.Wheel(100)
	if m.Layout().ScrollX != 100 {
		t.Errorf("expected scroll 100, got %d", m.Layout().ScrollX)
	}
	m.Scroll().SetValue(1 << 30)
	if got, want := m.Scroll().Value(), 54400-800; got != want {
		t.Errorf("expected scroll clamped to %d, got %d", want, got)
	}
}

func TestSetKeys(t *testing.T) {
	m, b := newTestModel(t)
	m.SetKeys([]pianoroll.Key{60, pianoroll.PedalKey, 61, 60})
	want := []pianoroll.Key{61, 60, pianoroll.PedalKey}
	got := m.Keys()
	if len(got) != len(want) {
		t.Fatalf("expected keys %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected keys %v, got %v", want, got)
		}
	}
	if r, ok := m.RowOf(pianoroll.PedalKey); !ok || r != 2 {
		t.Errorf("expected pedal on row 2, got %d %v", r, ok)
	}
	if msgs := drain(b); len(msgs) != 1 || !msgs[0].HasKeys || len(msgs[0].Keys) != 3 {
		t.Errorf("expected the key set sent to the host, got %v", msgs)
	}
	if _, h := m.ContentSize(); h != 3*13 {
		t.Errorf("content height not recomputed, got %d", h)
	}
}

func TestNumberPrefix(t *testing.T) {
	a := ev(rowKey(2), 0, 0, 0, 1)
	m, _ := newTestModel(t, a)
	m.SelectAll().Do()
	m.KeyEvent(editor.KeyEvent{Name: "3"})
	if m.Mode() != editor.ModeNumber || m.Status() != "3" {
		t.Fatalf("expected number mode with 3, got %v %q", m.Mode(), m.Status())
	}
	m.KeyEvent(editor.KeyEvent{Name: "ArrowDown"})
	moved := a
	moved.Key = rowKey(5)
	if got := m.Store().Events(); len(got) != 1 || got[0] != moved {
		t.Errorf("expected a move of three rows to %v, got %v", moved, got)
	}
	if m.Mode() != editor.ModeView || m.Status() != "View" {
		t.Errorf("expected view mode after the move, got %v %q", m.Mode(), m.Status())
	}
}

func TestKeyBindings(t *testing.T) {
	a := ev(rowKey(2), 0, 0, 0, 1)
	m, _ := newTestModel(t, a)
	m.KeyEvent(editor.KeyEvent{Name: "i"})
	if m.Status() != "Insert" || !m.InsertMode().Value() {
		t.Errorf("expected insert mode, got %q", m.Status())
	}
	m.KeyEvent(editor.KeyEvent{Name: "Escape"})
	if m.Mode() != editor.ModeView {
		t.Errorf("escape should return to view mode")
	}
	m.SelectAll().Do()
	m.KeyEvent(editor.KeyEvent{Name: "d"})
	if m.Store().Len() != 0 {
		t.Errorf("d should delete the selection")
	}
	m.KeyEvent(editor.KeyEvent{Name: "u"})
	if m.Store().Len() != 1 {
		t.Errorf("u should undo")
	}
	m.KeyEvent(editor.KeyEvent{Name: "U", Shift: true})
	if m.Store().Len() != 0 {
		t.Errorf("U should redo")
	}
	m.KeyEvent(editor.KeyEvent{Name: "u"})
	if !m.KeyEvent(editor.KeyEvent{Name: "U"}) || m.Store().Len() != 0 {
		t.Errorf("U without the shift flag should redo too")
	}
	if m.KeyEvent(editor.KeyEvent{Name: "F13"}) {
		t.Errorf("unbound keys should not be handled")
	}
}
