package pianoroll

import (
	"errors"
	"fmt"
)

var (
	ErrNotNumber     = errors.New("not a number")
	ErrBeatRange     = errors.New("beat out of range")
	ErrFractionalBar = errors.New("bar must be an integer")
	ErrKeyName       = errors.New("unknown key name")

	// ErrOutOfRange is returned when a pixel coordinate does not resolve to
	// a row or a location inside the viewport. Callers treat it as "no hit".
	ErrOutOfRange = errors.New("coordinate outside the viewport")

	ErrOverlap      = errors.New("event overlaps an existing event")
	ErrEmptyEvent   = errors.New("event does not end after it begins")
	ErrVelocity     = errors.New("velocity out of range")
	ErrUnknownEvent = errors.New("event not in store")
	ErrPastEnd      = errors.New("event ends after the last bar")
)

// ParseError is returned when location or key text cannot be parsed.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InvariantViolation reports an operation that would break an invariant of
// the event store, e.g. two overlapping events on the same row. Following
// the editor state machine should never produce one.
type InvariantViolation struct {
	Op    string
	Event Event
	Err   error
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("%s %v: %v", e.Op, e.Event, e.Err)
}

func (e *InvariantViolation) Unwrap() error { return e.Err }
