package game

import "time"

type EventKind uint8

const (
	EventStarted EventKind = iota
	EventPiecesChanged
	EventPlaced
	EventPlacementRejected
	EventLinesCleared
	EventScoreChanged
	EventMultiplierChanged
	EventLevelUp
	EventLifeLost
	EventTimerArmed
	EventAwaitingPiece
	EventFinished
	EventParted
)

var eventNames = [...]string{
	EventStarted:           "started",
	EventPiecesChanged:     "pieces",
	EventPlaced:            "placed",
	EventPlacementRejected: "rejected",
	EventLinesCleared:      "cleared",
	EventScoreChanged:      "score",
	EventMultiplierChanged: "multiplier",
	EventLevelUp:           "level",
	EventLifeLost:          "life-lost",
	EventTimerArmed:        "timer",
	EventAwaitingPiece:     "awaiting",
	EventFinished:          "finished",
	EventParted:            "parted",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// Event is one outbound notification from an engine. Only the fields
// relevant to Kind are set.
type Event struct {
	Kind EventKind

	Current   *Piece // PiecesChanged, Placed
	Following *Piece // PiecesChanged
	X, Y      int    // Placed, PlacementRejected

	Board []int   // Placed: row-major cell values after line clears
	Cells []Coord // LinesCleared
	Lines int     // LinesCleared

	Score      int // ScoreChanged, Finished
	Lives      int // LifeLost, Finished
	Level      int // LevelUp
	Multiplier int // MultiplierChanged

	Delay time.Duration // TimerArmed
}
