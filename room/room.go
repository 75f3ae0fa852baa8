package room

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/decred/slog"
	"github.com/google/uuid"

	"tetrecs/game"
	"tetrecs/logging"
	"tetrecs/protocol"
)

type member struct {
	id    string
	name  string
	conn  Conn
	score int
	lives int
	dead  bool
	board []int
	next  int // absolute position in the room's piece sequence
}

// Room is one game channel. Every member draws from the same piece
// sequence, so all players see the same pieces in the same order.
type Room struct {
	Inbox   chan any
	members map[string]*member
	order   []string // join order
	pieces  []int // sequence from position base onward
	base    int
	rng     *rand.Rand
	joined  int
	count   atomic.Int32
	metrics *Metrics
	log     slog.Logger
	quit    chan struct{}
	stop    sync.Once
	done    chan struct{}

	Code    string            // room code (e.g. "ABC123")
	OnEmpty func(code string) // called when last player leaves
}

func New(seed uint64, metrics *Metrics, log slog.Logger) *Room {
	return &Room{
		Inbox:   make(chan any, 256),
		members: make(map[string]*member),
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		metrics: metrics,
		log:     logging.OrDisabled(log),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (r *Room) Stop() {
	r.stop.Do(func() { close(r.quit) })
}

// Done is closed once Run has returned.
func (r *Room) Done() <-chan struct{} { return r.done }

// NumPlayers returns the current number of connected members.
func (r *Room) NumPlayers() int {
	return int(r.count.Load())
}

func (r *Room) Run() {
	defer close(r.done)
	for {
		select {
		case <-r.quit:
			r.closeAll()
			return
		case cmd := <-r.Inbox:
			r.handleCommand(cmd)
		}
	}
}

func (r *Room) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Join:
		r.joined++
		m := &member{
			id:    uuid.NewString(),
			name:  c.Name,
			conn:  c.Conn,
			lives: game.LivesStart,
			next:  r.base,
		}
		if m.name == "" {
			m.name = fmt.Sprintf("Player %d", r.joined)
		}
		r.members[m.id] = m
		r.order = append(r.order, m.id)
		r.count.Add(1)
		r.metrics.playerJoined()
		r.log.Infof("Room %s: %s joined as %s", r.Code, m.name, m.id)
		c.Reply <- JoinResult{PlayerID: m.id}
		r.broadcastScores()
	case Line:
		m, ok := r.members[c.PlayerID]
		if !ok {
			return
		}
		r.handleLine(m, c.Text)
	case Leave:
		r.handleLeave(c.PlayerID)
	case Members:
		out := make([]MemberInfo, 0, len(r.order))
		for _, id := range r.order {
			m := r.members[id]
			out = append(out, MemberInfo{
				ID:    m.id,
				Name:  m.name,
				Score: m.score,
				Lives: m.lives,
				Dead:  m.dead,
				Board: append([]int(nil), m.board...),
			})
		}
		c.Reply <- out
	}
}

func (r *Room) handleLine(m *member, text string) {
	msg, err := protocol.Decode(text)
	if err != nil {
		r.metrics.malformed()
		r.log.Debugf("Room %s: bad frame from %s: %v", r.Code, m.name, err)
		return
	}

	switch p := msg.(type) {
	case protocol.PieceRequest:
		r.servePiece(m)
	case protocol.Score:
		m.score = p.Value
		r.broadcastScores()
	case protocol.Lives:
		m.lives = p.Value
		if p.Value < 0 {
			m.dead = true
		}
		r.broadcastScores()
	case protocol.Board:
		m.board = p.Values
	case protocol.Die:
		if !m.dead {
			m.dead = true
			r.log.Infof("Room %s: %s is out with %d", r.Code, m.name, m.score)
			r.broadcastScores()
		}
	default:
		r.metrics.malformed()
		r.log.Debugf("Room %s: unexpected %T from %s", r.Code, msg, m.name)
	}
}

// servePiece answers a PIECE request with the member's next piece in the
// room sequence.
func (r *Room) servePiece(m *member) {
	for m.next-r.base >= len(r.pieces) {
		r.pieces = append(r.pieces, r.rng.IntN(game.PieceCount))
	}
	kind := r.pieces[m.next-r.base]
	m.next++
	r.trimPieces()

	line, _ := protocol.Encode(protocol.Piece{Kind: kind})
	if err := m.conn.Send(line); err != nil {
		r.log.Warnf("Room %s: send to %s: %v", r.Code, m.name, err)
		r.removeMember(m.id)
		r.afterRemoval()
		return
	}
	r.metrics.pieceServed()
}

func (r *Room) standings() protocol.Scores {
	s := protocol.Scores{Entries: make([]protocol.ScoreEntry, 0, len(r.order))}
	for _, id := range r.order {
		m := r.members[id]
		lives := m.lives
		if m.dead {
			lives = -1
		}
		s.Entries = append(s.Entries, protocol.ScoreEntry{Name: m.name, Score: m.score, Lives: lives})
	}
	return s
}

func (r *Room) broadcastScores() {
	for {
		line, err := protocol.Encode(r.standings())
		if err != nil {
			return
		}

		var failed []string
		for _, id := range r.order {
			if err := r.members[id].conn.Send(line); err != nil {
				failed = append(failed, id)
			}
		}
		if len(failed) == 0 {
			return
		}
		for _, id := range failed {
			r.log.Warnf("Room %s: dropping %s after failed send", r.Code, r.members[id].name)
			r.removeMember(id)
		}
		if len(r.members) == 0 {
			r.afterRemoval()
			return
		}
		// Survivors get a list without the dropped members.
	}
}

func (r *Room) handleLeave(playerID string) {
	if _, ok := r.members[playerID]; !ok {
		return
	}
	r.removeMember(playerID)
	r.afterRemoval()
}

func (r *Room) afterRemoval() {
	if len(r.members) > 0 {
		r.broadcastScores()
		return
	}
	if r.OnEmpty != nil && r.Code != "" {
		r.OnEmpty(r.Code)
	}
}

func (r *Room) removeMember(playerID string) {
	m, ok := r.members[playerID]
	if !ok {
		return
	}
	_ = m.conn.Close()
	delete(r.members, playerID)
	for i, id := range r.order {
		if id == playerID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.count.Add(-1)
	r.trimPieces()
	r.metrics.playerLeft()
	r.log.Infof("Room %s: %s left", r.Code, m.name)
}

// trimPieces drops the part of the sequence every member has already drawn.
// Late joiners start at the slowest member's position.
func (r *Room) trimPieces() {
	if len(r.members) == 0 {
		r.base += len(r.pieces)
		r.pieces = nil
		return
	}
	low := -1
	for _, m := range r.members {
		if low < 0 || m.next < low {
			low = m.next
		}
	}
	if drop := low - r.base; drop > 0 {
		r.pieces = slices.Delete(r.pieces, 0, drop)
		r.base = low
	}
}

func (r *Room) closeAll() {
	for len(r.order) > 0 {
		r.removeMember(r.order[0])
	}
}
