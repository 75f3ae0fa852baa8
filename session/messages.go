package session

import (
	"tetrecs/game"
	"tetrecs/leaderboard"
)

// Place: drop the current piece with its template origin at (X, Y)
type Place struct {
	X, Y  int
	Reply chan<- game.PlaceResult // optional
}

// Rotate: turn the current piece clockwise Turns quarter turns
type Rotate struct {
	Turns int
}

type Swap struct{}

// Shutdown: the player quits; the game ends without the finished signal
type Shutdown struct{}

// Inbound: one frame received from the peer
type Inbound struct {
	Line string
}

type Snapshot struct {
	Reply chan<- game.Snapshot
}

// Standings: current lobby leaderboard, ranked
type Standings struct {
	Reply chan<- []leaderboard.Entry
}
