package game

// State is the engine lifecycle: Created -> Running -> Ended.
type State uint8

const (
	Created State = iota
	Running
	Ended
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Running:
		return "running"
	case Ended:
		return "ended"
	}
	return "unknown"
}

// PlaceResult is the outcome of Engine.Place.
type PlaceResult uint8

const (
	Placed   PlaceResult = iota
	Rejected             // piece does not fit at that position
	Ignored              // engine not running, or no current piece
)

func (r PlaceResult) String() string {
	switch r {
	case Placed:
		return "placed"
	case Rejected:
		return "rejected"
	}
	return "ignored"
}

// Snapshot is a copy of the observable engine state.
type Snapshot struct {
	State      State
	Score      int
	Lives      int
	Level      int
	Multiplier int
	HiScore    int
	Current    *Piece
	Following  *Piece
	Cols, Rows int
	Board      []int
	Generation uint64
}
