package transport

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/rpc"

	"github.com/vsariola/pianoroll"
)

type (
	// PlayerServer exposes a Backend as the net/rpc service "Player".
	PlayerServer struct {
		backend Backend
	}

	PushArgs struct {
		Player  int
		Request Request
	}

	// RPC talks to a host over net/rpc.
	RPC struct {
		client *rpc.Client
		player int
	}
)

func (s *PlayerServer) Push(args PushArgs, reply *int) error {
	return s.backend.Apply(args.Player, args.Request)
}

func (s *PlayerServer) Snapshot(player int, reply *pianoroll.Snapshot) error {
	snap, err := s.backend.Snapshot(player)
	*reply = snap
	return err
}

func (s *PlayerServer) Roll(player int, reply *pianoroll.Roll) error {
	roll, err := s.backend.Roll(player)
	*reply = roll
	return err
}

// ServeRPC serves the backend over net/rpc on the listener, in a new
// goroutine. Closing the listener stops the server.
func ServeRPC(l net.Listener, b Backend) error {
	server := rpc.NewServer()
	if err := server.RegisterName("Player", &PlayerServer{backend: b}); err != nil {
		return fmt.Errorf("rpc register failed: %w", err)
	}
	go func() {
		if err := http.Serve(l, server); err != nil {
			log.Printf("rpc server stopped: %v", err)
		}
	}()
	return nil
}

// DialRPC connects to a host serving net/rpc at address, e.g. "127.0.0.1:31337".
func DialRPC(address string, player int) (*RPC, error) {
	client, err := rpc.DialHTTP("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("rpc.DialHTTP failed: %w", err)
	}
	return &RPC{client: client, player: player}, nil
}

func (r *RPC) Close() error { return r.client.Close() }

func (r *RPC) PushEdit(ctx context.Context, batch pianoroll.Events) error {
	var reply int
	return r.call(ctx, "Player.Push", PushArgs{Player: r.player, Request: Request{Edit: batch}}, &reply)
}

func (r *RPC) PushKeys(ctx context.Context, keys []pianoroll.Key) error {
	var reply int
	return r.call(ctx, "Player.Push", PushArgs{Player: r.player, Request: Request{Keys: keys}}, &reply)
}

func (r *RPC) PullSnapshot(ctx context.Context) (pianoroll.Snapshot, error) {
	var snap pianoroll.Snapshot
	err := r.call(ctx, "Player.Snapshot", r.player, &snap)
	return snap, err
}

func (r *RPC) PullRoll(ctx context.Context) (pianoroll.Roll, error) {
	var roll pianoroll.Roll
	err := r.call(ctx, "Player.Roll", r.player, &roll)
	return roll, err
}

func (r *RPC) call(ctx context.Context, method string, args, reply any) error {
	call := r.client.Go(method, args, reply, make(chan *rpc.Call, 1))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case c := <-call.Done:
		if c.Error != nil {
			return fmt.Errorf("%s error: %w", method, c.Error)
		}
		return nil
	}
}
