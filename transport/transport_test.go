package transport_test

import (
	"context"
	"errors"
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vsariola/pianoroll"
	"github.com/vsariola/pianoroll/editor"
	"github.com/vsariola/pianoroll/host"
	"github.com/vsariola/pianoroll/transport"
)

var testEvent = pianoroll.Event{
	Key:   60,
	Begin: pianoroll.Location{Bar: 1, Beat: 0},
	End:   pianoroll.Location{Bar: 1, Beat: 2},
	Vel:   pianoroll.DefaultVelocity,
}

func newHost(t *testing.T) *host.Server {
	t.Helper()
	s, err := host.New()
	if err != nil {
		t.Fatalf("host.New failed: %v", err)
	}
	return s
}

// exercise runs the same conversation through any transport.
func exercise(t *testing.T, tr transport.Transport) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tr.PushEdit(ctx, pianoroll.Events{testEvent}); err != nil {
		t.Fatalf("PushEdit failed: %v", err)
	}
	snap, err := tr.PullSnapshot(ctx)
	if err != nil {
		t.Fatalf("PullSnapshot failed: %v", err)
	}
	if len(snap.Events) != 1 || !snap.Events[0].Near(testEvent) {
		t.Fatalf("expected snapshot with %v, got %v", testEvent, snap.Events)
	}
	if err := tr.PushEdit(ctx, pianoroll.Events{testEvent}); err == nil {
		t.Errorf("expected an error when pushing an overlapping event")
	}
	keys := []pianoroll.Key{72, 60, pianoroll.PedalKey}
	if err := tr.PushKeys(ctx, keys); err != nil {
		t.Fatalf("PushKeys failed: %v", err)
	}
	roll, err := tr.PullRoll(ctx)
	if err != nil {
		t.Fatalf("PullRoll failed: %v", err)
	}
	if len(roll.Keys) != 3 || len(roll.Events) != 1 {
		t.Errorf("unexpected roll %+v", roll)
	}
	if err := tr.PushEdit(ctx, pianoroll.Events{testEvent.Zeroed()}); err != nil {
		t.Fatalf("removal failed: %v", err)
	}
	if snap, _ := tr.PullSnapshot(ctx); len(snap.Events) != 0 {
		t.Errorf("expected no events after removal, got %v", snap.Events)
	}
}

func TestHTTP(t *testing.T) {
	s := newHost(t)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()
	tr := transport.NewHTTP(ts.URL+"/", 4)
	exercise(t, tr)
	beat := 3.0
	if err := tr.SetTime(context.Background(), transport.TimeRequest{Run: true, Beat: &beat}); err != nil {
		t.Fatalf("SetTime failed: %v", err)
	}
	if !s.Running() {
		t.Errorf("expected the host transport to run")
	}
	missing := transport.NewHTTP(ts.URL, 42)
	if _, err := missing.PullSnapshot(context.Background()); err == nil {
		t.Errorf("expected an error for a missing player")
	}
}

func TestRPC(t *testing.T) {
	s := newHost(t)
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	defer l.Close()
	if err := transport.ServeRPC(l, s); err != nil {
		t.Fatalf("ServeRPC failed: %v", err)
	}
	tr, err := transport.DialRPC(l.Addr().String(), 5)
	if err != nil {
		t.Fatalf("DialRPC failed: %v", err)
	}
	defer tr.Close()
	exercise(t, tr)
}

func TestPump(t *testing.T) {
	s := newHost(t)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()
	broker := editor.NewBroker()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- transport.Pump(ctx, transport.NewHTTP(ts.URL, 0), broker, 10*time.Millisecond) }()

	if !editor.TrySend(broker.ToHost, editor.MsgToHost{Edit: pianoroll.Events{testEvent}}) {
		t.Fatalf("could not send to host")
	}
	deadline := time.After(5 * time.Second)
	for received := false; !received; {
		select {
		case msg := <-broker.ToModel:
			if msg.HasSnapshot && len(msg.Snapshot.Events) == 1 {
				received = true
			}
		case <-deadline:
			t.Fatalf("no snapshot with the pushed event arrived")
		}
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
