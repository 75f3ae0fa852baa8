package game

import (
	"math/rand/v2"

	"github.com/gammazero/deque"
)

// PieceSource supplies pieces to an engine.
type PieceSource interface {
	// Prime is called once by Start, before the first Draw.
	Prime()
	// Draw returns the next piece, or false when none is available yet.
	Draw() (Piece, bool)
}

// RandomSource draws uniformly from the catalog. Used for single player.
type RandomSource struct {
	rng *rand.Rand
}

func NewRandomSource(seed uint64) *RandomSource {
	return &RandomSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *RandomSource) Prime() {}

func (s *RandomSource) Draw() (Piece, bool) {
	return Piece{Kind: s.rng.IntN(PieceCount)}, true
}

// QueueSource is fed piece kinds by a remote peer. It never generates pieces
// itself; Request is invoked whenever more pieces should be asked for.
// It is not safe for concurrent use: the session loop owns it.
type QueueSource struct {
	queue       deque.Deque[int]
	outstanding int
	Request     func()
}

func NewQueueSource(request func()) *QueueSource {
	return &QueueSource{Request: request}
}

// Prime asks for enough pieces to fill current, following and the queue.
func (s *QueueSource) Prime() {
	for range QueueDepth + 2 {
		s.request()
	}
}

// Push appends a piece kind received from the peer.
func (s *QueueSource) Push(kind int) error {
	if _, err := NewPiece(kind); err != nil {
		return err
	}
	s.queue.PushBack(kind)
	if s.outstanding > 0 {
		s.outstanding--
	}
	return nil
}

func (s *QueueSource) Draw() (Piece, bool) {
	if s.queue.Len() == 0 {
		if s.outstanding == 0 {
			s.request()
		}
		return Piece{}, false
	}
	p := Piece{Kind: s.queue.PopFront()}
	for s.queue.Len()+s.outstanding < QueueDepth {
		s.request()
	}
	return p, true
}

// Retry re-issues one request regardless of what is outstanding.
func (s *QueueSource) Retry() {
	s.request()
}

func (s *QueueSource) Len() int { return s.queue.Len() }

func (s *QueueSource) Outstanding() int { return s.outstanding }

func (s *QueueSource) request() {
	s.outstanding++
	if s.Request != nil {
		s.Request()
	}
}
