// Package leaderboard ranks the lobby's players from the latest SCORES broadcast.
package leaderboard

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Entry struct {
	Name  string
	Score int
	Lives int
}

// Out reports whether the player has no lives left.
func (e Entry) Out() bool { return e.Lives < 0 }

// Board holds the most recent set of lobby scores. The zero value is empty
// and ready to use. It is not safe for concurrent use.
type Board struct {
	entries []Entry
}

// Replace swaps in a whole new set of entries; nothing is merged.
func (b *Board) Replace(entries []Entry) {
	b.entries = slices.Clone(entries)
}

func (b *Board) Len() int { return len(b.entries) }

// Ranked returns every entry, score descending then lives descending.
// Ties beyond that keep broadcast order.
func (b *Board) Ranked() []Entry {
	out := slices.Clone(b.entries)
	slices.SortStableFunc(out, func(a, c Entry) int {
		if n := cmp.Compare(c.Score, a.Score); n != 0 {
			return n
		}
		return cmp.Compare(c.Lives, a.Lives)
	})
	return out
}

// Top returns at most n ranked entries.
func (b *Board) Top(n int) []Entry {
	r := b.Ranked()
	if n >= 0 && n < len(r) {
		r = r[:n]
	}
	return r
}

var (
	nameStyle  = lipgloss.NewStyle().Width(16)
	scoreStyle = lipgloss.NewStyle().Width(8).Align(lipgloss.Right)
	livesStyle = lipgloss.NewStyle().Width(7).Align(lipgloss.Right)
	outStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
	headStyle  = lipgloss.NewStyle().Bold(true)
)

// Render draws the top n entries as a table, one player per line.
func (b *Board) Render(n int) string {
	rows := []string{headStyle.Render(row("NAME", "SCORE", "LIVES"))}
	for _, e := range b.Top(n) {
		lives := "X"
		if !e.Out() {
			lives = strconv.Itoa(e.Lives)
		}
		line := row(e.Name, strconv.Itoa(e.Score), lives)
		if e.Out() {
			line = outStyle.Render(line)
		}
		rows = append(rows, line)
	}
	return strings.Join(rows, "\n")
}

// maxName keeps a name on one line inside nameStyle's width.
const maxName = 15

func row(name, score, lives string) string {
	if r := []rune(name); len(r) > maxName {
		name = string(r[:maxName])
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		nameStyle.Render(name),
		scoreStyle.Render(score),
		livesStyle.Render(lives),
	)
}
