package game

import (
	"errors"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/decred/slog"
)

type Options struct {
	Cols, Rows int
	Source     PieceSource
	Clock      clock.Clock // defaults to the wall clock
	HiScore    int         // best score known before this game
	Logger     slog.Logger
}

// Engine owns one grid, the current and following pieces, the score
// counters and a single countdown timer.
//
// Engine is not safe for concurrent use. Exactly one goroutine must call its
// methods, and that goroutine must also receive from Timeouts and pass each
// generation back to Timeout.
type Engine struct {
	grid   *Grid
	source PieceSource
	clock  clock.Clock
	log    slog.Logger

	state      State
	score      int
	lives      int
	level      int
	multiplier int
	hiScore    int

	current   *Piece
	following *Piece

	gen   uint64
	timer *clock.Timer
	fired chan uint64
	done  chan struct{}

	outbox []Event
}

func New(opts Options) (*Engine, error) {
	if opts.Source == nil {
		return nil, errors.New("game: nil piece source")
	}
	if opts.Cols == 0 {
		opts.Cols = DefaultCols
	}
	if opts.Rows == 0 {
		opts.Rows = DefaultRows
	}
	if opts.Cols < 3 || opts.Rows < 3 {
		return nil, errors.New("game: grid smaller than a piece")
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Disabled
	}
	return &Engine{
		grid:       NewGrid(opts.Cols, opts.Rows),
		source:     opts.Source,
		clock:      opts.Clock,
		log:        opts.Logger,
		state:      Created,
		lives:      LivesStart,
		multiplier: MultiplierStart,
		hiScore:    opts.HiScore,
		fired:      make(chan uint64, 1),
		done:       make(chan struct{}),
	}, nil
}

func (e *Engine) Grid() *Grid        { return e.grid }
func (e *Engine) State() State       { return e.state }
func (e *Engine) Score() int         { return e.score }
func (e *Engine) Lives() int         { return e.lives }
func (e *Engine) Level() int         { return e.level }
func (e *Engine) Multiplier() int    { return e.multiplier }
func (e *Engine) HiScore() int       { return max(e.hiScore, e.score) }
func (e *Engine) Generation() uint64 { return e.gen }

// Timeouts delivers the generation of every timer that fires.
func (e *Engine) Timeouts() <-chan uint64 { return e.fired }

// Awaiting reports whether the engine is running with an empty piece slot.
func (e *Engine) Awaiting() bool {
	return e.state == Running && (e.current == nil || e.following == nil)
}

func (e *Engine) TimerDelay() time.Duration { return TimerDelay(e.level) }

// Start moves Created -> Running, draws current and following and arms the timer.
func (e *Engine) Start() bool {
	if e.state != Created {
		e.log.Debugf("Start ignored in state %v", e.state)
		return false
	}
	e.log.Infof("Starting game on %dx%d grid", e.grid.Cols(), e.grid.Rows())
	e.state = Running
	e.emit(Event{Kind: EventStarted})
	e.source.Prime()
	e.fill()
	e.arm()
	return true
}

// Place tries to put the current piece with its template origin at (x, y).
func (e *Engine) Place(x, y int) PlaceResult {
	if e.state != Running {
		e.log.Debugf("Place ignored in state %v", e.state)
		return Ignored
	}
	if e.current == nil {
		e.log.Debugf("Place ignored, no current piece")
		return Ignored
	}
	piece := *e.current
	if !e.grid.CanPlace(piece, x, y) {
		e.log.Debugf("Cannot play %v at (%d,%d)", piece, x, y)
		e.emit(Event{Kind: EventPlacementRejected, X: x, Y: y})
		return Rejected
	}

	e.grid.Place(piece, x, y)
	e.log.Debugf("Played %v at (%d,%d)", piece, x, y)
	e.resolveLines()

	e.emit(Event{
		Kind:    EventPlaced,
		Current: &piece,
		X:       x,
		Y:       y,
		Board:   e.grid.Values(),
		Score:   e.score,
		Lives:   e.lives,
		Level:   e.level,
	})
	e.advance()
	e.arm()
	return Placed
}

func (e *Engine) resolveLines() {
	cells, lines := e.grid.FullLines()
	if len(cells) == 0 {
		e.setMultiplier(MultiplierStart)
		return
	}
	for _, c := range cells {
		e.grid.Clear(c.X, c.Y)
	}
	e.emit(Event{Kind: EventLinesCleared, Cells: cells, Lines: lines})

	gained := ScoreFor(lines, len(cells), e.multiplier)
	e.score += gained
	e.log.Infof("Cleared %d lines (%d blocks), scored %d (%d)", lines, len(cells), gained, e.score)
	e.emit(Event{Kind: EventScoreChanged, Score: e.score})
	e.setMultiplier(e.multiplier + 1)

	if lvl := LevelFor(e.score); lvl > e.level {
		e.level = lvl
		e.log.Infof("Reached level %d", lvl)
		e.emit(Event{Kind: EventLevelUp, Level: lvl})
	}
}

func (e *Engine) setMultiplier(m int) {
	if m == e.multiplier {
		return
	}
	e.multiplier = m
	e.emit(Event{Kind: EventMultiplierChanged, Multiplier: m})
}

// Rotate turns the current piece by quarter turns (positive is clockwise).
func (e *Engine) Rotate(turns int) bool {
	if e.state != Running || e.current == nil {
		e.log.Debugf("Rotate ignored in state %v", e.state)
		return false
	}
	e.current.Rotate(turns)
	e.emitPieces()
	return true
}

func (e *Engine) RotateRight() bool { return e.Rotate(1) }
func (e *Engine) RotateLeft() bool  { return e.Rotate(3) }

// Swap exchanges the current and following pieces.
func (e *Engine) Swap() bool {
	if e.state != Running || e.current == nil || e.following == nil {
		e.log.Debugf("Swap ignored in state %v", e.state)
		return false
	}
	e.current, e.following = e.following, e.current
	e.emitPieces()
	return true
}

// Timeout applies a fired timer. Generations other than the one most
// recently armed are stale and dropped.
func (e *Engine) Timeout(gen uint64) bool {
	if e.state != Running {
		e.log.Debugf("Timeout %d ignored in state %v", gen, e.state)
		return false
	}
	if gen != e.gen {
		e.log.Debugf("Stale timeout %d dropped (current %d)", gen, e.gen)
		return false
	}

	e.lives--
	if e.lives < 0 {
		e.finish()
		return true
	}
	e.log.Infof("Life lost, %d left", e.lives)
	e.emit(Event{Kind: EventLifeLost, Lives: e.lives})

	e.current = nil
	e.fill()
	e.setMultiplier(MultiplierStart)
	e.arm()
	return true
}

// Feed fills empty piece slots from the source. Call it after the source
// receives pieces.
func (e *Engine) Feed() {
	if e.state != Running {
		return
	}
	if e.current != nil && e.following != nil {
		return
	}
	e.fill()
}

// Shutdown ends the game without the normal finished signal, as when the
// player quits.
func (e *Engine) Shutdown() {
	if e.state == Ended {
		return
	}
	e.log.Infof("Forcibly ended game")
	e.stop()
	e.emit(Event{Kind: EventParted, Score: e.score, Lives: e.lives})
}

func (e *Engine) finish() {
	e.log.Infof("Game over with score %d", e.score)
	e.stop()
	e.emit(Event{Kind: EventFinished, Score: e.score, Lives: e.lives})
}

func (e *Engine) stop() {
	e.state = Ended
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	close(e.done)
}

func (e *Engine) advance() {
	e.current = e.following
	e.following = nil
	e.fill()
}

func (e *Engine) fill() {
	if e.current == nil {
		if p, ok := e.source.Draw(); ok {
			e.current = &p
		}
	}
	if e.current != nil && e.following == nil {
		if p, ok := e.source.Draw(); ok {
			e.following = &p
		}
	}
	e.emitPieces()
	if e.current == nil || e.following == nil {
		e.log.Debugf("Waiting for pieces")
		e.emit(Event{Kind: EventAwaitingPiece})
	}
}

// arm cancels any armed timer and starts a new one for the current level.
func (e *Engine) arm() {
	if e.timer != nil {
		e.timer.Stop()
	}
	e.gen++
	gen := e.gen
	delay := TimerDelay(e.level)
	e.timer = e.clock.AfterFunc(delay, func() {
		select {
		case e.fired <- gen:
		case <-e.done:
		}
	})
	e.emit(Event{Kind: EventTimerArmed, Delay: delay})
}

func (e *Engine) emitPieces() {
	ev := Event{Kind: EventPiecesChanged}
	if e.current != nil {
		c := *e.current
		ev.Current = &c
	}
	if e.following != nil {
		f := *e.following
		ev.Following = &f
	}
	e.emit(ev)
}

func (e *Engine) emit(ev Event) {
	e.outbox = append(e.outbox, ev)
}

// Drain returns and clears the events produced since the last call.
func (e *Engine) Drain() []Event {
	out := e.outbox
	e.outbox = nil
	return out
}

func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		State:      e.state,
		Score:      e.score,
		Lives:      e.lives,
		Level:      e.level,
		Multiplier: e.multiplier,
		HiScore:    e.HiScore(),
		Cols:       e.grid.Cols(),
		Rows:       e.grid.Rows(),
		Board:      e.grid.Values(),
		Generation: e.gen,
	}
	if e.current != nil {
		c := *e.current
		s.Current = &c
	}
	if e.following != nil {
		f := *e.following
		s.Following = &f
	}
	return s
}
