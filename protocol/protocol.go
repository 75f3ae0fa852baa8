package protocol

import "errors"

// Message kinds. Each message is one text frame: the kind, a space, then the body.
const (
	MsgPiece  = "PIECE"  // engine -> peer: request; peer -> engine: "PIECE <n>"
	MsgBoard  = "BOARD"  // engine -> peer: row-major cell values
	MsgScore  = "SCORE"  // engine -> peer: current score
	MsgLives  = "LIVES"  // engine -> peer: current lives, -1 on death
	MsgDie    = "DIE"    // engine -> peer: player is out
	MsgScores = "SCORES" // peer -> engine: name:score:lives per line
)

// Dead is the lives field a peer sends for a player who is out.
const Dead = "DEAD"

var (
	ErrUnknownMessage = errors.New("unknown message")
	ErrMalformed      = errors.New("malformed message")
)

type Envelope struct {
	T string // kind
	P string // body, may be empty
}
