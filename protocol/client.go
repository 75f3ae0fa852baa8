package protocol

// messages an engine sends to its peer.

// PieceRequest asks the peer for one more piece.
type PieceRequest struct{}

type Board struct {
	Values []int // row-major
}

type Score struct {
	Value int
}

type Lives struct {
	Value int
}

type Die struct{}
