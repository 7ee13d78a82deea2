// Package host is a reference host for piano roll editors: it keeps the
// authoritative roll of every player, applies edit and key requests, runs a
// shared playhead clock and saves the rolls on disk.
package host

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/vsariola/pianoroll"
	"github.com/vsariola/pianoroll/transport"
)

// MaxPlayers is the number of players a host serves, numbered from 0.
const MaxPlayers = 16

const DefaultBPM = 120

type (
	// Server guards the rolls of all players with a mutex; it is safe to use
	// from many goroutines.
	Server struct {
		mu      sync.Mutex
		players [MaxPlayers]*pianoroll.Roll
		dir     string
		bpm     float64

		running   bool
		startBeat float64
		startTime time.Time
		now       func() time.Time
	}

	Option func(*Server)
)

// WithDataDir makes the server load rolls from dir at startup and save every
// change there.
func WithDataDir(dir string) Option { return func(s *Server) { s.dir = dir } }

func WithBPM(bpm float64) Option { return func(s *Server) { s.bpm = bpm } }

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option { return func(s *Server) { s.now = now } }

func New(options ...Option) (*Server, error) {
	s := &Server{bpm: DefaultBPM, now: time.Now}
	for _, o := range options {
		o(s)
	}
	if s.bpm <= 0 || math.IsNaN(s.bpm) {
		return nil, fmt.Errorf("invalid bpm %v", s.bpm)
	}
	for i := range s.players {
		roll := pianoroll.DefaultRoll()
		s.players[i] = &roll
	}
	if s.dir != "" {
		if err := s.load(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Server) player(idx int) (*pianoroll.Roll, error) {
	if idx < 0 || idx >= MaxPlayers {
		return nil, fmt.Errorf("player %d: %w", idx, transport.ErrNoPlayer)
	}
	return s.players[idx], nil
}

// Apply performs a request on a player. Edit entries with a positive velocity
// are added unless they end past the last bar or overlap an existing event;
// entries with zero velocity remove the first event with the same
// key and near-equal begin and end. A keys request replaces the rows. Entries
// that cannot be applied are skipped and reported in the returned error; the
// rest of the batch is still applied.
func (s *Server) Apply(idx int, req transport.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	roll, err := s.player(idx)
	if err != nil {
		return err
	}
	var errs []error
	for _, e := range req.Edit {
		if e.Vel == 0 {
			if !removeNear(roll, e) {
				errs = append(errs, &pianoroll.InvariantViolation{Op: "remove", Event: e, Err: pianoroll.ErrUnknownEvent})
			}
			continue
		}
		if err := e.Validate(); err != nil {
			errs = append(errs, &pianoroll.InvariantViolation{Op: "add", Event: e, Err: err})
			continue
		}
		if (pianoroll.Location{Bar: roll.Bars}).Less(e.End) {
			errs = append(errs, &pianoroll.InvariantViolation{Op: "add", Event: e, Err: pianoroll.ErrPastEnd})
			continue
		}
		if overlapping(roll, e) {
			errs = append(errs, &pianoroll.InvariantViolation{Op: "add", Event: e, Err: pianoroll.ErrOverlap})
			continue
		}
		roll.Events = append(roll.Events, e)
	}
	if req.Keys != nil {
		roll.Keys = pianoroll.SortKeys(req.Keys)
	}
	if s.dir != "" {
		if err := s.save(idx, roll); err != nil {
			log.Printf("host: %v", err)
		}
	}
	return errors.Join(errs...)
}

func removeNear(roll *pianoroll.Roll, e pianoroll.Event) bool {
	for i, o := range roll.Events {
		if o.Near(e) {
			roll.Events = append(roll.Events[:i], roll.Events[i+1:]...)
			return true
		}
	}
	return false
}

func overlapping(roll *pianoroll.Roll, e pianoroll.Event) bool {
	for _, o := range roll.Events {
		if o.Overlaps(e) {
			return true
		}
	}
	return false
}

// Snapshot returns the events of a player with the current playhead.
func (s *Server) Snapshot(idx int) (pianoroll.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	roll, err := s.player(idx)
	if err != nil {
		return pianoroll.Snapshot{}, err
	}
	return pianoroll.Snapshot{
		Events:   roll.Events.Copy(),
		Playhead: s.playhead(roll),
		Running:  s.running,
	}, nil
}

// Roll returns a copy of a player's roll.
func (s *Server) Roll(idx int) (pianoroll.Roll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	roll, err := s.player(idx)
	if err != nil {
		return pianoroll.Roll{}, err
	}
	return roll.Copy(), nil
}

// SetRoll replaces a player's roll, e.g. when importing a file.
func (s *Server) SetRoll(idx int, roll pianoroll.Roll) error {
	if err := roll.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.player(idx); err != nil {
		return err
	}
	r := roll.Copy()
	r.Keys = pianoroll.SortKeys(r.Keys)
	s.players[idx] = &r
	if s.dir != "" {
		return s.save(idx, &r)
	}
	return nil
}

// SetTime starts or stops the clock; if req.Beat is set the playhead jumps
// there first.
func (s *Server) SetTime(req transport.TimeRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	beat := s.beat(now)
	if req.Beat != nil {
		beat = max(*req.Beat, 0)
	}
	s.startBeat = beat
	s.startTime = now
	s.running = req.Run
}

func (s *Server) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Server) BPM() float64 { return s.bpm }

// beat returns the playhead position in beats. The caller holds the lock.
func (s *Server) beat(now time.Time) float64 {
	if !s.running {
		return s.startBeat
	}
	return s.startBeat + now.Sub(s.startTime).Minutes()*s.bpm
}

// playhead returns the playhead as a location within the roll, looping at
// the end. The caller holds the lock.
func (s *Server) playhead(roll *pianoroll.Roll) pianoroll.Location {
	length := float64(roll.Bars * roll.Signature.Beats)
	beat := s.beat(s.now())
	if length > 0 {
		beat = math.Mod(beat, length)
	}
	return pianoroll.Normalize(0, beat, roll.Signature.Beats)
}
