package editor

import (
	"github.com/vsariola/pianoroll"
)

type (
	// Edit is one undoable change to the store: the events an action removed
	// and the events it added. Inserting a note has only Added, deleting only
	// Removed, and moves and velocity changes have both. Entries keep the full
	// event values next to the IDs they last had, so that undo still finds
	// the right events after the store has been reset from a host snapshot.
	Edit struct {
		Removed []EditEntry
		Added   []EditEntry
	}

	EditEntry struct {
		ID    EventID
		Event pianoroll.Event
	}

	// HistoryModel is the view of the model containing the methods to undo
	// and redo changes.
	HistoryModel Model

	historyUndo HistoryModel
	historyRedo HistoryModel
)

const maxUndo = 256

// History returns the History view of the model.
func (m *Model) History() *HistoryModel { return (*HistoryModel)(m) }

// Undo returns an Action to undo the last change.
func (m *HistoryModel) Undo() Action { return MakeAction((*historyUndo)(m)) }

// Redo returns an Action to redo the last undone change.
func (m *HistoryModel) Redo() Action { return MakeAction((*historyRedo)(m)) }

func (m *HistoryModel) UndoLen() int { return len(m.undoStack) }
func (m *HistoryModel) RedoLen() int { return len(m.redoStack) }

func (m *historyUndo) Enabled() bool { return len(m.undoStack) > 0 }
func (m *historyUndo) Do() {
	edit := m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	m.prevUndoKind = ""
	inverse := edit.Inverse()
	if !(*Model)(m).apply(&inverse) {
		violated(&pianoroll.InvariantViolation{Op: "undo", Err: pianoroll.ErrUnknownEvent})
		return
	}
	m.redoStack = pushCapped(m.redoStack, inverse.Inverse())
}

func (m *historyRedo) Enabled() bool { return len(m.redoStack) > 0 }
func (m *historyRedo) Do() {
	edit := m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	m.prevUndoKind = ""
	if !(*Model)(m).apply(&edit) {
		violated(&pianoroll.InvariantViolation{Op: "redo", Err: pianoroll.ErrUnknownEvent})
		return
	}
	m.undoStack = pushCapped(m.undoStack, edit)
}

// Inverse returns the edit that undoes e.
func (e Edit) Inverse() Edit {
	return Edit{Removed: e.Added, Added: e.Removed}
}

func (e Edit) Empty() bool { return len(e.Removed) == 0 && len(e.Added) == 0 }

// Batch returns the edit as a batch for the host: removals as zero velocity
// copies, followed by the additions.
func (e Edit) Batch() pianoroll.Events {
	ret := make(pianoroll.Events, 0, len(e.Removed)+len(e.Added))
	for _, r := range e.Removed {
		ret = append(ret, r.Event.Zeroed())
	}
	for _, a := range e.Added {
		ret = append(ret, a.Event)
	}
	return ret
}

func entries(events ...pianoroll.Event) []EditEntry {
	ret := make([]EditEntry, len(events))
	for i, e := range events {
		ret[i] = EditEntry{Event: e}
	}
	return ret
}

func pushCapped(stack []Edit, e Edit) []Edit {
	if len(stack) >= maxUndo {
		copy(stack, stack[len(stack)-maxUndo+1:])
		stack = stack[:maxUndo-1]
	}
	return append(stack, e)
}

// apply performs the edit on the store atomically: either every removal and
// insertion succeeds or the store is left untouched. On success, the IDs in
// the edit are updated to the ones now in the store, the removed events are
// dropped from the selection and the batch is sent to the host.
func (m *Model) apply(e *Edit) bool {
	removeIDs := make([]EventID, len(e.Removed))
	for i, r := range e.Removed {
		id, ok := m.resolve(r, removeIDs[:i])
		if !ok {
			return false
		}
		removeIDs[i] = id
	}
	for i, a := range e.Added {
		if err := m.store.Check(a.Event, removeIDs...); err != nil {
			return false
		}
		for _, b := range e.Added[:i] {
			if a.Event.Overlaps(b.Event) {
				return false
			}
		}
	}
	for i, id := range removeIDs {
		m.store.Remove(id)
		delete(m.selection, id)
		e.Removed[i].ID = id
	}
	for i := range e.Added {
		id, err := m.store.Insert(e.Added[i].Event)
		if err != nil { // cannot happen, everything was checked above
			violated(err)
			continue
		}
		e.Added[i].ID = id
	}
	TrySend(m.broker.ToHost, MsgToHost{Edit: e.Batch()})
	return true
}

// resolve finds the store ID of an entry: the recorded ID if it still holds
// the same event, otherwise the first near-equal event not already taken.
func (m *Model) resolve(r EditEntry, taken []EventID) (EventID, bool) {
	if ev, ok := m.store.Get(r.ID); ok && ev.Near(r.Event) && !containsID(taken, r.ID) {
		return r.ID, true
	}
	for id, ev := range m.store.All() {
		if ev.Near(r.Event) && !containsID(taken, id) {
			return id, true
		}
	}
	return 0, false
}

func containsID(ids []EventID, id EventID) bool {
	for _, o := range ids {
		if o == id {
			return true
		}
	}
	return false
}

// do applies a new user edit and records it for undo. Consecutive edits of
// the same non-empty kind that continue from each other, like dragging the
// velocity slider, are merged into a single undo step.
func (m *Model) do(kind string, e *Edit) bool {
	if e.Empty() || !m.apply(e) {
		return false
	}
	if n := len(m.undoStack); kind != "" && kind == m.prevUndoKind && n > 0 && sameIDs(m.undoStack[n-1].Added, e.Removed) {
		m.undoStack[n-1].Added = e.Added
	} else {
		m.undoStack = pushCapped(m.undoStack, *e)
	}
	m.prevUndoKind = kind
	m.redoStack = m.redoStack[:0]
	return true
}

func sameIDs(a, b []EditEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
