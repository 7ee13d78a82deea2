// Package transport moves edit batches and snapshots between an editor and
// its host. The editor never talks to the host directly: it pushes messages
// to a Broker, and Pump, running in its own goroutine, forwards them with a
// Transport and polls snapshots back.
package transport

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/vsariola/pianoroll"
	"github.com/vsariola/pianoroll/editor"
)

type (
	// Transport is the connection of one player to the host.
	Transport interface {
		PushEdit(ctx context.Context, batch pianoroll.Events) error
		PushKeys(ctx context.Context, keys []pianoroll.Key) error
		PullSnapshot(ctx context.Context) (pianoroll.Snapshot, error)
		PullRoll(ctx context.Context) (pianoroll.Roll, error)
	}

	// Request is a change request to the host player: either an edit batch
	// or a new key set. In an edit batch, events with zero velocity remove
	// the matching event and the rest are added.
	Request struct {
		Edit pianoroll.Events `json:"edit,omitempty"`
		Keys []pianoroll.Key  `json:"keys,omitempty"`
	}

	// TimeRequest starts or stops the host transport. If Beat is given, the
	// playhead jumps there.
	TimeRequest struct {
		Run  bool     `json:"run"`
		Beat *float64 `json:"beat,omitempty"`
	}

	// Backend is what a host must implement to be served over net/rpc or
	// HTTP.
	Backend interface {
		Apply(player int, req Request) error
		Snapshot(player int) (pianoroll.Snapshot, error)
		Roll(player int) (pianoroll.Roll, error)
	}
)

var ErrNoPlayer = errors.New("no such player")

// Pump forwards the editor's messages to the host and polls snapshots from
// the host every interval, until ctx is done. Errors are logged and do not
// stop the pump; the next successful snapshot brings the editor back in sync.
func Pump(ctx context.Context, t Transport, b *editor.Broker, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-b.ToHost:
			if err := push(ctx, t, msg); err != nil {
				log.Printf("transport: push failed: %v", err)
			}
		case <-ticker.C:
			// flush pending edits first so the snapshot reflects them
			for pending := true; pending; {
				select {
				case msg := <-b.ToHost:
					if err := push(ctx, t, msg); err != nil {
						log.Printf("transport: push failed: %v", err)
					}
				default:
					pending = false
				}
			}
			snap, err := t.PullSnapshot(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("transport: pull failed: %v", err)
				}
				continue
			}
			editor.TrySend(b.ToModel, editor.MsgToModel{HasSnapshot: true, Snapshot: snap})
		}
	}
}

func push(ctx context.Context, t Transport, msg editor.MsgToHost) error {
	if msg.HasKeys {
		if err := t.PushKeys(ctx, msg.Keys); err != nil {
			return err
		}
	}
	if len(msg.Edit) > 0 {
		return t.PushEdit(ctx, msg.Edit)
	}
	return nil
}

// Local connects a player directly to a Backend in the same process.
type Local struct {
	Backend Backend
	Player  int
}

func (l Local) PushEdit(ctx context.Context, batch pianoroll.Events) error {
	return l.Backend.Apply(l.Player, Request{Edit: batch})
}

func (l Local) PushKeys(ctx context.Context, keys []pianoroll.Key) error {
	return l.Backend.Apply(l.Player, Request{Keys: keys})
}

func (l Local) PullSnapshot(ctx context.Context) (pianoroll.Snapshot, error) {
	return l.Backend.Snapshot(l.Player)
}

func (l Local) PullRoll(ctx context.Context) (pianoroll.Roll, error) {
	return l.Backend.Roll(l.Player)
}
