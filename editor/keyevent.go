package editor

import (
	"bytes"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

type (
	// KeyEvent is a key press as reported by the renderer. Name is the key
	// name in the browser's KeyboardEvent.key convention, e.g. "d", "U" or
	// "ArrowUp".
	KeyEvent struct {
		Name             string
		Ctrl, Shift, Alt bool
	}

	KeyBinding struct {
		Key              string
		Ctrl, Shift, Alt bool
		Action           string
	}
)

var keyBindingMap = map[KeyEvent]string{}

//go:embed keybindings.yml
var defaultKeyBindings []byte

func init() {
	var keyBindings, userKeyBindings []KeyBinding
	dec := yaml.NewDecoder(bytes.NewReader(defaultKeyBindings))
	dec.KnownFields(true)
	if err := dec.Decode(&keyBindings); err != nil {
		panic(fmt.Errorf("failed to unmarshal default keybindings: %w", err))
	}
	if _, err := ReadCustomConfig("keybindings.yml", &userKeyBindings); err == nil {
		keyBindings = append(keyBindings, userKeyBindings...)
	}
	for _, kb := range keyBindings {
		e := KeyEvent{Name: kb.Key, Ctrl: kb.Ctrl, Shift: kb.Shift, Alt: kb.Alt}
		if kb.Action == "" { // unbind
			delete(keyBindingMap, e)
		} else {
			keyBindingMap[e] = kb.Action
		}
	}
}

// KeyEvent handles a key press and returns true if it did something. Digits
// without modifiers build up the repeat count of number mode; everything else
// goes through the key bindings.
func (m *Model) KeyEvent(e KeyEvent) bool {
	if len(e.Name) == 1 && e.Name[0] >= '0' && e.Name[0] <= '9' && !e.Ctrl && !e.Alt {
		if m.Digit(int(e.Name[0] - '0')) {
			return true
		}
	}
	action, ok := keyBindingMap[e]
	if !ok {
		return false
	}
	numberMode := m.d.Mode == ModeNumber
	switch action {
	case "Delete":
		m.Delete().Do()
	case "MoveUp":
		m.Move(MoveUp).Do()
	case "MoveDown":
		m.Move(MoveDown).Do()
	case "MoveLeft":
		m.Move(MoveLeft).Do()
	case "MoveRight":
		m.Move(MoveRight).Do()
	case "Undo":
		m.History().Undo().Do()
	case "Redo":
		m.History().Redo().Do()
	case "InsertMode":
		m.InsertMode().SetValue(true)
	case "CopyMode":
		m.Copy().Do()
	case "ViewMode":
		m.SetMode(ModeView)
	case "SelectAll":
		m.SelectAll().Do()
	case "Deselect":
		m.Deselect().Do()
	case "ScrollLeft":
		m.Scroll().Add(-m.d.Layout.BarWidth(m.d.Signature))
	case "ScrollRight":
		m.Scroll().Add(m.d.Layout.BarWidth(m.d.Signature))
	case "VelocityAdd":
		m.Velocity().Add(velocityStep)
	case "VelocitySubtract":
		m.Velocity().Add(-velocityStep)
	case "ApplyVelocity":
		m.ApplyVelocity().Do()
	default:
		return false
	}
	if numberMode && m.d.Mode == ModeNumber {
		m.SetMode(ModeView)
	}
	return true
}

const velocityStep = 1024
