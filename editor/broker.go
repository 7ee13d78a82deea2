package editor

import (
	"time"

	"github.com/vsariola/pianoroll"
)

type (
	// Broker connects the editor model to the host transport. The model runs
	// on the UI goroutine and never blocks: it pushes messages to ToHost with
	// TrySend and drains ToModel whenever the UI loop gets around to it. The
	// transport pump running in another goroutine does the opposite.
	Broker struct {
		ToHost  chan MsgToHost
		ToModel chan MsgToModel
	}

	// MsgToHost is an edit batch or a new key set for the host. In an edit
	// batch, events with zero velocity ask the host to remove the matching
	// event and the rest are added.
	MsgToHost struct {
		Edit    pianoroll.Events
		HasKeys bool
		Keys    []pianoroll.Key
	}

	// MsgToModel carries the latest snapshot pulled from the host.
	MsgToModel struct {
		HasSnapshot bool
		Snapshot    pianoroll.Snapshot
	}
)

func NewBroker() *Broker {
	return &Broker{
		ToHost:  make(chan MsgToHost, 1024),
		ToModel: make(chan MsgToModel, 16),
	}
}

// TrySend is a helper function to send a value to a channel if it is not full.
// It is guaranteed to be non-blocking. Return true if the value was sent, false
// otherwise.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive is a helper function to block until a value is received from a
// channel, or timing out after t. ok will be false if the timeout occurred or
// if the channel is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
