package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tetrecs/game"
)

var (
	emptyCell  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	boardFrame = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true)
)

// cellColors is indexed by cell value; 0 is empty.
var cellColors = [game.MaxCellValue + 1]string{
	"", "196", "208", "226", "46", "51", "21", "129", "201",
	"160", "34", "33", "214", "93", "118", "231",
}

func cell(v int) string {
	if v <= 0 || v >= len(cellColors) {
		return emptyCell.Render("· ")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(cellColors[v])).Render("██")
}

// renderBoard draws row-major values with 1-based column and row numbers.
func renderBoard(values []int, cols int) string {
	var b strings.Builder
	b.WriteString("  ")
	for x := 0; x < cols; x++ {
		b.WriteString(axisStyle.Render(fmt.Sprintf("%-2d", x+1)))
	}
	for i, v := range values {
		if i%cols == 0 {
			b.WriteString("\n")
			b.WriteString(axisStyle.Render(fmt.Sprintf("%-2d", i/cols+1)))
		}
		b.WriteString(cell(v))
	}
	return boardFrame.Render(b.String())
}

func renderPiece(title string, p *game.Piece) string {
	var b strings.Builder
	if p == nil {
		b.WriteString(titleStyle.Render(title) + "\n(waiting)")
		return b.String()
	}
	b.WriteString(titleStyle.Render(title + ": " + p.Name()))
	blocks := p.Blocks()
	for j := 0; j < 3; j++ {
		b.WriteString("\n")
		for i := 0; i < 3; i++ {
			b.WriteString(cell(blocks[i][j]))
		}
	}
	return b.String()
}

func renderStatus(s game.Snapshot) string {
	return strings.Join([]string{
		"score " + strconv.Itoa(s.Score),
		"hi " + strconv.Itoa(s.HiScore),
		"level " + strconv.Itoa(s.Level),
		"lives " + strconv.Itoa(s.Lives),
		"x" + strconv.Itoa(s.Multiplier),
	}, "  ")
}

func renderSnapshot(s game.Snapshot) string {
	pieces := lipgloss.JoinVertical(lipgloss.Left,
		renderPiece("current", s.Current),
		"",
		renderPiece("next", s.Following),
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, renderBoard(s.Board, s.Cols), "  ", pieces),
		renderStatus(s),
	)
}
