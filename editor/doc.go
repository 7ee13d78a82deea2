/*
Package editor contains the editing engine of the piano roll.

The editor package defines the Model struct, which holds the working copy of
the events of one roll, the current selection, the undo and redo stacks and
the state of the pointer interaction. The renderer never modifies the Model
directly: it reads the model through accessors like Events(), Provisional()
and Area(), and feeds input back with Pointer(), KeyEvent() and Wheel().

Changes that the user may want to make are exposed as Actions and Ints, in
the same style as the rest of the editor: model.Delete() returns an Action to
delete the selected events, which is executed with model.Delete().Do(), and
model.Velocity() returns an Int that can be bound to a slider. Actions
advertise whether they are enabled, so e.g. Delete is disabled when nothing is
selected.

Every accepted change to the events is sent to the host as an edit batch over
the Broker, and the host periodically replies with a snapshot of its events,
which the model adopts with ProcessMsg.
*/
package editor
