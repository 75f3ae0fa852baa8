package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	kindLine = 0
	kindPlus = 2
	kindDot  = 3
)

func fillRow(g *Grid, y, skipX int) {
	for x := 0; x < g.Cols(); x++ {
		if x != skipX {
			g.Set(x, y, 1)
		}
	}
}

func fillCol(g *Grid, x, skipY int) {
	for y := 0; y < g.Rows(); y++ {
		if y != skipY {
			g.Set(x, y, 1)
		}
	}
}

func TestCanPlaceMatchesBoundsAndOccupancy(t *testing.T) {
	// Exhaustive check against a direct reading of the rule.
	g := NewGrid(5, 5)
	g.Set(2, 2, 7)
	g.Set(0, 4, 3)

	for kind := 0; kind < PieceCount; kind++ {
		for rot := 0; rot < 4; rot++ {
			p := Piece{Kind: kind, Rotation: rot}
			blocks := p.Blocks()
			for x := -3; x < 7; x++ {
				for y := -3; y < 7; y++ {
					want := true
					for i := range 3 {
						for j := range 3 {
							if blocks[i][j] == 0 {
								continue
							}
							tx, ty := x+i, y+j
							if tx < 0 || tx >= 5 || ty < 0 || ty >= 5 || g.Get(tx, ty) != 0 {
								want = false
							}
						}
					}
					assert.Equal(t, want, g.CanPlace(p, x, y), "%v at (%d,%d)", p, x, y)
				}
			}
		}
	}
}

func TestPlaceOnlyWritesOccupiedCells(t *testing.T) {
	g := NewGrid(5, 5)
	before := g.Values()
	p := Piece{Kind: kindPlus}
	require.True(t, g.CanPlace(p, 1, 1))
	g.Place(p, 1, 1)

	blocks := p.Blocks()
	for x := 0; x < 5; x++ {
		for y := 0; y < 5; y++ {
			i, j := x-1, y-1
			inTemplate := i >= 0 && i < 3 && j >= 0 && j < 3 && blocks[i][j] != 0
			if inTemplate {
				assert.Equal(t, p.Value(), g.Get(x, y))
			} else {
				assert.Equal(t, before[y*5+x], g.Get(x, y), "cell (%d,%d) changed", x, y)
			}
		}
	}
}

func TestGetOutOfBounds(t *testing.T) {
	g := NewGrid(4, 3)
	assert.Equal(t, -1, g.Get(-1, 0))
	assert.Equal(t, -1, g.Get(4, 0))
	assert.Equal(t, -1, g.Get(0, 3))
	assert.Equal(t, 0, g.Get(3, 2))
}

func TestRowAndColFull(t *testing.T) {
	g := NewGrid(4, 3)
	fillRow(g, 1, -1)
	assert.True(t, g.RowFull(1))
	assert.False(t, g.RowFull(0))
	assert.False(t, g.ColFull(0))

	fillCol(g, 2, -1)
	assert.True(t, g.ColFull(2))

	g.ClearRow(1)
	assert.False(t, g.RowFull(1))
	assert.False(t, g.ColFull(2))

	g.ClearCol(2)
	g.ClearAll()
	for _, v := range g.Values() {
		assert.Zero(t, v)
	}
}

func TestFullLinesSingleRow(t *testing.T) {
	g := NewGrid(5, 4)
	fillRow(g, 3, -1)
	cells, lines := g.FullLines()
	assert.Equal(t, 1, lines)
	require.Len(t, cells, 5)
	for x, c := range cells {
		assert.Equal(t, Coord{X: x, Y: 3}, c)
	}
}

func TestFullLinesIntersectionCountedOnce(t *testing.T) {
	g := NewGrid(5, 4)
	fillRow(g, 1, -1)
	fillCol(g, 3, -1)
	cells, lines := g.FullLines()
	assert.Equal(t, 2, lines)
	assert.Len(t, cells, 5+4-1)
}

func TestValuesRowMajor(t *testing.T) {
	g := NewGrid(3, 2)
	g.Set(2, 0, 5)
	g.Set(0, 1, 9)
	assert.Equal(t, []int{0, 0, 5, 9, 0, 0}, g.Values())

	// Values is a copy.
	v := g.Values()
	v[0] = 4
	assert.Zero(t, g.Get(0, 0))
}
