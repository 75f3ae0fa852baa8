package game

import (
	"errors"
	"fmt"
)

var ErrInvalidPiece = errors.New("invalid piece kind")

// PieceCount is the number of shapes in the catalog.
const PieceCount = 15

type Template [3][3]int

// catalog holds the occupancy of each shape, indexed [i][j] with i the x offset.
var catalog = [PieceCount]struct {
	name  string
	shape Template
}{
	{"Line", Template{{0, 0, 0}, {1, 1, 1}, {0, 0, 0}}},
	{"C", Template{{0, 0, 0}, {1, 1, 1}, {1, 0, 1}}},
	{"Plus", Template{{0, 1, 0}, {1, 1, 1}, {0, 1, 0}}},
	{"Dot", Template{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}}},
	{"Square", Template{{1, 1, 0}, {1, 1, 0}, {0, 0, 0}}},
	{"L", Template{{0, 0, 0}, {1, 1, 1}, {0, 0, 1}}},
	{"J", Template{{0, 0, 1}, {1, 1, 1}, {0, 0, 0}}},
	{"S", Template{{0, 0, 0}, {0, 1, 1}, {1, 1, 0}}},
	{"Z", Template{{1, 1, 0}, {0, 1, 1}, {0, 0, 0}}},
	{"T", Template{{1, 0, 0}, {1, 1, 0}, {1, 0, 0}}},
	{"X", Template{{1, 0, 1}, {0, 1, 0}, {1, 0, 1}}},
	{"Corner", Template{{0, 0, 0}, {1, 1, 0}, {1, 0, 0}}},
	{"Inverse Corner", Template{{1, 0, 0}, {1, 1, 0}, {0, 0, 0}}},
	{"Diagonal", Template{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}},
	{"Double", Template{{0, 1, 0}, {0, 1, 0}, {0, 0, 0}}},
}

// Piece is a catalog entry plus a quarter-turn rotation in [0,3].
type Piece struct {
	Kind     int
	Rotation int
}

func NewPiece(kind int) (Piece, error) {
	if kind < 0 || kind >= PieceCount {
		return Piece{}, fmt.Errorf("%w: %d", ErrInvalidPiece, kind)
	}
	return Piece{Kind: kind}, nil
}

// Value is the color id written into the grid.
func (p Piece) Value() int {
	return p.Kind + 1
}

func (p Piece) Name() string {
	return catalog[p.Kind].name
}

func (p Piece) String() string {
	return fmt.Sprintf("%s(%d)@%d", p.Name(), p.Value(), p.Rotation)
}

// Rotate returns the rotation state after turns clockwise quarter turns.
func Rotate(rotation, turns int) int {
	return ((rotation+turns)%4 + 4) % 4
}

func (p *Piece) Rotate(turns int) {
	p.Rotation = Rotate(p.Rotation, turns)
}

// Blocks returns the rotated template with every occupied cell set to Value.
func (p Piece) Blocks() Template {
	shape := catalog[p.Kind].shape
	for r := 0; r < p.Rotation; r++ {
		shape = rotateTemplate(shape)
	}
	v := p.Value()
	for i := range shape {
		for j := range shape[i] {
			if shape[i][j] != 0 {
				shape[i][j] = v
			}
		}
	}
	return shape
}

func rotateTemplate(t Template) Template {
	var out Template
	n := len(t)
	for i := range n {
		for j := range n {
			out[j][n-1-i] = t[i][j]
		}
	}
	return out
}
