package multiplayer

import (
	"errors"
	"strings"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tetrecs/game"
	"tetrecs/leaderboard"
)

type fakeSender struct {
	lines []string
	err   error
}

func (f *fakeSender) Send(line string) error {
	f.lines = append(f.lines, line)
	return f.err
}

func (f *fakeSender) take() []string {
	out := f.lines
	f.lines = nil
	return out
}

func count(lines []string, want string) int {
	n := 0
	for _, l := range lines {
		if l == want {
			n++
		}
	}
	return n
}

func newSynced(t *testing.T) (*Sync, *game.Engine, *fakeSender) {
	t.Helper()
	sender := &fakeSender{}
	s := New(sender, &leaderboard.Board{}, nil)
	e, err := game.New(game.Options{Source: s.Source(), Clock: clock.NewMock()})
	require.NoError(t, err)
	t.Cleanup(e.Shutdown)
	return s, e, sender
}

func pump(s *Sync, e *game.Engine) {
	for _, ev := range e.Drain() {
		s.HandleEvent(ev)
	}
}

func TestStartRequestsInitialPieces(t *testing.T) {
	s, e, sender := newSynced(t)
	e.Start()
	pump(s, e)
	assert.Equal(t, game.QueueDepth+2, count(sender.take(), "PIECE"))
}

func TestInboundPiecesFillSlots(t *testing.T) {
	s, e, _ := newSynced(t)
	e.Start()
	s.HandleInbound("PIECE 3", e)
	s.HandleInbound("PIECE 2", e)
	s.HandleInbound("PIECE 0", e)

	snap := e.Snapshot()
	require.NotNil(t, snap.Current)
	require.NotNil(t, snap.Following)
	assert.Equal(t, 3, snap.Current.Kind)
	assert.Equal(t, 2, snap.Following.Kind)
	assert.Equal(t, 1, s.Source().Len())
}

func TestPlacementSendsBoardThenScore(t *testing.T) {
	s, e, sender := newSynced(t)
	e.Start()
	s.HandleInbound("PIECE 3", e)
	s.HandleInbound("PIECE 3", e)
	pump(s, e)
	sender.take()

	require.Equal(t, game.Placed, e.Place(0, 0))
	pump(s, e)
	lines := sender.take()

	board, score := -1, -1
	for i, l := range lines {
		switch {
		case strings.HasPrefix(l, "BOARD "):
			board = i
		case strings.HasPrefix(l, "SCORE "):
			score = i
		}
	}
	require.NotEqual(t, -1, board)
	assert.Equal(t, board+1, score)
	assert.Equal(t, "BOARD 0 0 0 0 0 0 4 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0", lines[board])
	assert.Equal(t, "SCORE 0", lines[score])
}

func TestPlacementReportsNewScore(t *testing.T) {
	s, e, sender := newSynced(t)
	e.Start()
	for range 3 {
		s.HandleInbound("PIECE 3", e)
	}
	for x := 0; x < 4; x++ {
		e.Grid().Set(x, 0, 1)
	}
	pump(s, e)
	sender.take()

	// Dot lands on (4,0) and completes the top row.
	require.Equal(t, game.Placed, e.Place(3, -1))
	pump(s, e)
	lines := sender.take()
	assert.Contains(t, lines, "SCORE 50")
	assert.Contains(t, lines, "BOARD "+strings.TrimSpace(strings.Repeat("0 ", 25)))
}

func TestLivesAndDeathSignals(t *testing.T) {
	s, e, sender := newSynced(t)
	e.Start()
	for range 4 {
		s.HandleInbound("PIECE 3", e)
	}
	pump(s, e)
	sender.take()

	require.True(t, e.Timeout(e.Generation()))
	pump(s, e)
	assert.Contains(t, sender.take(), "LIVES 2")

	for e.State() == game.Running {
		e.Timeout(e.Generation())
	}
	pump(s, e)
	lines := sender.take()
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, []string{"LIVES -1", "DIE"}, lines[len(lines)-2:])
	assert.Equal(t, 1, count(lines, "DIE"))
}

func TestShutdownSendsDieOnly(t *testing.T) {
	s, e, sender := newSynced(t)
	e.Start()
	pump(s, e)
	sender.take()
	e.Shutdown()
	pump(s, e)
	assert.Equal(t, []string{"DIE"}, sender.take())
}

func TestScoresReplaceLeaderboard(t *testing.T) {
	s, e, _ := newSynced(t)
	s.HandleInbound("SCORES a:10:1\nb:20:DEAD", e)
	ranked := s.Board().Ranked()
	require.Len(t, ranked, 2)
	assert.Equal(t, leaderboard.Entry{Name: "b", Score: 20, Lives: -1}, ranked[0])

	s.HandleInbound("SCORES c:5:3", e)
	assert.Equal(t, 1, s.Board().Len())
}

func TestBadFramesIgnored(t *testing.T) {
	s, e, sender := newSynced(t)
	e.Start()
	pump(s, e)
	sender.take()
	before := e.Snapshot()

	for _, line := range []string{"", "HELLO", "PIECE x", "PIECE 99", "SCORES broken", "DIE", "BOARD 1 2"} {
		s.HandleInbound(line, e)
	}
	assert.Equal(t, before, e.Snapshot())
	assert.Zero(t, s.Source().Len())
	assert.Zero(t, s.Board().Len())
	assert.Empty(t, sender.take())
}

func TestSendErrorsDoNotStopTheGame(t *testing.T) {
	s, e, sender := newSynced(t)
	sender.err = errors.New("closed")
	e.Start()
	pump(s, e)
	s.HandleInbound("PIECE 1", e)
	assert.Equal(t, game.Running, e.State())
	assert.NotNil(t, e.Snapshot().Current)
}
