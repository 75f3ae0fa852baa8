package game

import (
	"slices"

	"github.com/kamstrup/intmap"
)

// Coord is a grid cell, X the column and Y the row.
type Coord struct {
	X, Y int
}

// Grid is a cols x rows matrix of cell values, 0 empty and 1..15 a piece color.
type Grid struct {
	cols, rows int
	cells      []int // row-major
}

func NewGrid(cols, rows int) *Grid {
	return &Grid{
		cols:  cols,
		rows:  rows,
		cells: make([]int, cols*rows),
	}
}

func (g *Grid) Cols() int { return g.cols }
func (g *Grid) Rows() int { return g.rows }

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.cols && y >= 0 && y < g.rows
}

// Get returns the value at (x, y), or -1 when out of bounds.
func (g *Grid) Get(x, y int) int {
	if !g.inBounds(x, y) {
		return -1
	}
	return g.cells[y*g.cols+x]
}

func (g *Grid) Set(x, y, v int) {
	g.cells[y*g.cols+x] = v
}

// CanPlace reports whether every occupied cell of p, offset by (x, y), lands
// on an empty in-bounds cell.
func (g *Grid) CanPlace(p Piece, x, y int) bool {
	blocks := p.Blocks()
	for i := range blocks {
		for j := range blocks[i] {
			if blocks[i][j] == 0 {
				continue
			}
			if g.Get(x+i, y+j) != 0 {
				return false
			}
		}
	}
	return true
}

// Place writes p's color into its occupied cells. The caller must have
// checked CanPlace; an invalid position panics or corrupts the grid.
func (g *Grid) Place(p Piece, x, y int) {
	blocks := p.Blocks()
	for i := range blocks {
		for j := range blocks[i] {
			if blocks[i][j] != 0 {
				g.Set(x+i, y+j, blocks[i][j])
			}
		}
	}
}

func (g *Grid) RowFull(y int) bool {
	for x := 0; x < g.cols; x++ {
		if g.Get(x, y) == 0 {
			return false
		}
	}
	return true
}

func (g *Grid) ColFull(x int) bool {
	for y := 0; y < g.rows; y++ {
		if g.Get(x, y) == 0 {
			return false
		}
	}
	return true
}

func (g *Grid) ClearRow(y int) {
	for x := 0; x < g.cols; x++ {
		g.Set(x, y, 0)
	}
}

func (g *Grid) ClearCol(x int) {
	for y := 0; y < g.rows; y++ {
		g.Set(x, y, 0)
	}
}

func (g *Grid) Clear(x, y int) {
	g.Set(x, y, 0)
}

func (g *Grid) ClearAll() {
	clear(g.cells)
}

// FullLines returns the distinct cells of every full row and column, sorted
// row-major, and the number of full lines. A cell on both a full row and a
// full column appears once.
func (g *Grid) FullLines() ([]Coord, int) {
	set := intmap.New[int, struct{}](g.cols + g.rows)
	lines := 0
	for y := 0; y < g.rows; y++ {
		if g.RowFull(y) {
			lines++
			for x := 0; x < g.cols; x++ {
				set.Put(y*g.cols+x, struct{}{})
			}
		}
	}
	for x := 0; x < g.cols; x++ {
		if g.ColFull(x) {
			lines++
			for y := 0; y < g.rows; y++ {
				set.Put(y*g.cols+x, struct{}{})
			}
		}
	}

	keys := make([]int, 0, set.Len())
	set.ForEach(func(k int, _ struct{}) bool {
		keys = append(keys, k)
		return true
	})
	slices.Sort(keys)
	cells := make([]Coord, len(keys))
	for i, k := range keys {
		cells[i] = Coord{X: k % g.cols, Y: k / g.cols}
	}
	return cells, lines
}

// Values returns a row-major copy of every cell.
func (g *Grid) Values() []int {
	return slices.Clone(g.cells)
}
