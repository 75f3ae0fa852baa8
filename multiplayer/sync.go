// Package multiplayer keeps a network-fed engine in step with its peer.
package multiplayer

import (
	"errors"

	"github.com/decred/slog"

	"tetrecs/game"
	"tetrecs/leaderboard"
	"tetrecs/logging"
	"tetrecs/protocol"
)

// Sender delivers one outbound frame to the peer.
type Sender interface {
	Send(line string) error
}

// Feeder is the engine side of an inbound piece.
type Feeder interface {
	Feed()
}

// Sync translates engine events into outbound frames and inbound frames
// into queue pushes and leaderboard updates. It must be driven from the
// goroutine that owns the engine.
type Sync struct {
	sender Sender
	source *game.QueueSource
	board  *leaderboard.Board
	log    slog.Logger
}

// New returns a Sync with a fresh QueueSource whose requests go to sender.
func New(sender Sender, board *leaderboard.Board, log slog.Logger) *Sync {
	s := &Sync{
		sender: sender,
		board:  board,
		log:    logging.OrDisabled(log),
	}
	s.source = game.NewQueueSource(s.requestPiece)
	return s
}

// Source is the piece source to hand to the engine.
func (s *Sync) Source() *game.QueueSource { return s.source }

func (s *Sync) Board() *leaderboard.Board { return s.board }

func (s *Sync) requestPiece() {
	s.send(protocol.PieceRequest{})
}

// HandleEvent forwards the parts of ev the peer cares about.
func (s *Sync) HandleEvent(ev game.Event) {
	switch ev.Kind {
	case game.EventPlaced:
		s.send(protocol.Board{Values: ev.Board})
		s.send(protocol.Score{Value: ev.Score})
	case game.EventLifeLost:
		s.send(protocol.Lives{Value: ev.Lives})
	case game.EventFinished:
		s.send(protocol.Lives{Value: -1})
		s.send(protocol.Die{})
	case game.EventParted:
		s.send(protocol.Die{})
	}
}

// HandleInbound applies one frame from the peer. Bad frames are logged and
// dropped.
func (s *Sync) HandleInbound(line string, feeder Feeder) {
	msg, err := protocol.Decode(line)
	if err != nil {
		if errors.Is(err, protocol.ErrUnknownMessage) {
			s.log.Debugf("ignoring frame %q: %v", line, err)
		} else {
			s.log.Warnf("dropping frame: %v", err)
		}
		return
	}

	switch m := msg.(type) {
	case protocol.Piece:
		if err := s.source.Push(m.Kind); err != nil {
			s.log.Warnf("dropping piece: %v", err)
			return
		}
		if feeder != nil {
			feeder.Feed()
		}
	case protocol.Scores:
		entries := make([]leaderboard.Entry, len(m.Entries))
		for i, e := range m.Entries {
			entries[i] = leaderboard.Entry{Name: e.Name, Score: e.Score, Lives: e.Lives}
		}
		s.board.Replace(entries)
		s.log.Tracef("leaderboard replaced with %d entries", len(entries))
	default:
		s.log.Debugf("ignoring %T from peer", m)
	}
}

func (s *Sync) send(payload any) {
	line, err := protocol.Encode(payload)
	if err != nil {
		s.log.Errorf("encode %T: %v", payload, err)
		return
	}
	if err := s.sender.Send(line); err != nil {
		s.log.Warnf("send %q: %v", line, err)
	}
}
