package protocol

// messages a peer sends to an engine.

// Piece carries a catalog index to enqueue.
type Piece struct {
	Kind int
}

type ScoreEntry struct {
	Name  string
	Score int
	Lives int // -1 when the player is out
}

type Scores struct {
	Entries []ScoreEntry
}
