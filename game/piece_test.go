package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogColorsDistinct(t *testing.T) {
	seen := map[int]bool{}
	for kind := 0; kind < PieceCount; kind++ {
		p, err := NewPiece(kind)
		require.NoError(t, err)
		v := p.Value()
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, MaxCellValue)
		assert.False(t, seen[v], "duplicate color %d", v)
		seen[v] = true
	}
}

func TestNewPieceRejectsOutOfRange(t *testing.T) {
	for _, kind := range []int{-1, PieceCount, 99} {
		_, err := NewPiece(kind)
		assert.True(t, errors.Is(err, ErrInvalidPiece), "kind %d", kind)
	}
}

func TestRotateClosedOverFourStates(t *testing.T) {
	for r := 0; r < 4; r++ {
		for turns := -9; turns <= 9; turns++ {
			got := Rotate(r, turns)
			assert.GreaterOrEqual(t, got, 0)
			assert.Less(t, got, 4)
		}
		assert.Equal(t, r, Rotate(r, 4))
		assert.Equal(t, Rotate(Rotate(r, 1), 3), Rotate(Rotate(r, 3), 1))
	}
}

func TestFourRotationsIsIdentity(t *testing.T) {
	for kind := 0; kind < PieceCount; kind++ {
		p := Piece{Kind: kind}
		want := p.Blocks()
		for range 4 {
			p.Rotate(1)
		}
		assert.Equal(t, want, p.Blocks(), p.Name())
		assert.Equal(t, kind, p.Kind, "rotation must not change identity")
	}
}

func TestRotateLineQuarterTurn(t *testing.T) {
	p := Piece{Kind: kindLine}
	p.Rotate(1)
	b := p.Blocks()
	// Line along x becomes a line along y through the centre.
	want := Template{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}}
	assert.Equal(t, want, b)
}

func TestBlocksCarryValue(t *testing.T) {
	p := Piece{Kind: 9, Rotation: 2}
	count := 0
	for _, row := range p.Blocks() {
		for _, v := range row {
			if v != 0 {
				assert.Equal(t, 10, v)
				count++
			}
		}
	}
	assert.Equal(t, 4, count)
}
