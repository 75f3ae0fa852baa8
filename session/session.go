// Package session runs one engine on one goroutine and serializes every
// input that can touch it: player commands, fired timers and frames from
// the peer.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/decred/slog"

	"tetrecs/game"
	"tetrecs/leaderboard"
	"tetrecs/logging"
	"tetrecs/multiplayer"
)

// ErrClosed is returned when a command is sent after Run has returned.
var ErrClosed = errors.New("session closed")

const subscriberBuffer = 64

type Config struct {
	Cols, Rows int
	HiScore    int
	Seed       uint64 // single player piece order

	// Sender makes the session multiplayer: pieces come from the peer and
	// progress is reported back through it.
	Sender multiplayer.Sender

	Clock     clock.Clock
	Log       slog.Logger // session
	EngineLog slog.Logger
	SyncLog   slog.Logger
}

type Session struct {
	Inbox chan any

	engine *game.Engine
	sync   *multiplayer.Sync
	board  *leaderboard.Board
	clock  clock.Clock
	log    slog.Logger

	mu   sync.Mutex
	subs []chan game.Event

	quit     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func New(cfg Config) (*Session, error) {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	s := &Session{
		Inbox: make(chan any, 256),
		board: &leaderboard.Board{},
		clock: cfg.Clock,
		log:   logging.OrDisabled(cfg.Log),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}

	var src game.PieceSource
	if cfg.Sender != nil {
		s.sync = multiplayer.New(cfg.Sender, s.board, cfg.SyncLog)
		src = s.sync.Source()
	} else {
		src = game.NewRandomSource(cfg.Seed)
	}

	e, err := game.New(game.Options{
		Cols:    cfg.Cols,
		Rows:    cfg.Rows,
		Source:  src,
		Clock:   cfg.Clock,
		HiScore: cfg.HiScore,
		Logger:  cfg.EngineLog,
	})
	if err != nil {
		return nil, err
	}
	s.engine = e
	return s, nil
}

// Multiplayer reports whether pieces come from a peer.
func (s *Session) Multiplayer() bool { return s.sync != nil }

// Subscribe returns a channel of engine events. A subscriber that falls
// behind loses events rather than stalling the game. The channel is closed
// when Run returns.
func (s *Session) Subscribe() <-chan game.Event {
	ch := make(chan game.Event, subscriberBuffer)
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.done:
		close(ch)
	default:
		s.subs = append(s.subs, ch)
	}
	return ch
}

func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
}

// Done is closed once Run has returned.
func (s *Session) Done() <-chan struct{} { return s.done }

// Send queues cmd for the session goroutine.
func (s *Session) Send(ctx context.Context, cmd any) error {
	// The inbox is buffered, so it can still accept after Run has returned.
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	select {
	case s.Inbox <- cmd:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Deliver hands a frame from the peer to the session.
func (s *Session) Deliver(ctx context.Context, line string) error {
	return s.Send(ctx, Inbound{Line: line})
}

func (s *Session) Snapshot(ctx context.Context) (game.Snapshot, error) {
	reply := make(chan game.Snapshot, 1)
	if err := s.Send(ctx, Snapshot{Reply: reply}); err != nil {
		return game.Snapshot{}, err
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-s.done:
		return game.Snapshot{}, ErrClosed
	case <-ctx.Done():
		return game.Snapshot{}, ctx.Err()
	}
}

func (s *Session) Place(ctx context.Context, x, y int) (game.PlaceResult, error) {
	reply := make(chan game.PlaceResult, 1)
	if err := s.Send(ctx, Place{X: x, Y: y, Reply: reply}); err != nil {
		return game.Ignored, err
	}
	select {
	case res := <-reply:
		return res, nil
	case <-s.done:
		return game.Ignored, ErrClosed
	case <-ctx.Done():
		return game.Ignored, ctx.Err()
	}
}

func (s *Session) Standings(ctx context.Context) ([]leaderboard.Entry, error) {
	reply := make(chan []leaderboard.Entry, 1)
	if err := s.Send(ctx, Standings{Reply: reply}); err != nil {
		return nil, err
	}
	select {
	case st := <-reply:
		return st, nil
	case <-s.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run starts the game and processes inputs until ctx is cancelled or Stop
// is called. The engine is shut down on the way out.
func (s *Session) Run(ctx context.Context) error {
	defer s.close()

	retry := s.clock.Ticker(game.PieceRetryInterval)
	defer retry.Stop()

	s.engine.Start()
	s.flush()

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return ctx.Err()
		case <-s.quit:
			s.shutdown()
			return nil
		case cmd := <-s.Inbox:
			s.handleCommand(cmd)
		case gen := <-s.engine.Timeouts():
			s.engine.Timeout(gen)
		case <-retry.C:
			if s.sync != nil && s.engine.Awaiting() {
				s.log.Debugf("Still waiting for pieces, asking again")
				s.sync.Source().Retry()
			}
		}
		s.flush()
	}
}

func (s *Session) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Place:
		res := s.engine.Place(c.X, c.Y)
		if c.Reply != nil {
			c.Reply <- res
		}
	case Rotate:
		s.engine.Rotate(c.Turns)
	case Swap:
		s.engine.Swap()
	case Shutdown:
		s.engine.Shutdown()
	case Inbound:
		if s.sync == nil {
			s.log.Debugf("Ignoring frame in single player: %q", c.Line)
			return
		}
		s.sync.HandleInbound(c.Line, s.engine)
	case Snapshot:
		c.Reply <- s.engine.Snapshot()
	case Standings:
		c.Reply <- s.board.Ranked()
	default:
		s.log.Warnf("Unknown command %T", cmd)
	}
}

func (s *Session) shutdown() {
	s.engine.Shutdown()
	s.flush()
}

// flush forwards pending engine events to the peer and to subscribers.
func (s *Session) flush() {
	events := s.engine.Drain()
	if len(events) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range events {
		if s.sync != nil {
			s.sync.HandleEvent(ev)
		}
		for _, ch := range s.subs {
			select {
			case ch <- ev:
			default:
				s.log.Warnf("Subscriber lagging, dropped %v", ev.Kind)
			}
		}
	}
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	close(s.done)
	for _, ch := range s.subs {
		close(ch)
	}
	s.subs = nil
}
