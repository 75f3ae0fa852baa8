// Package scores reads and writes the local high score file: one
// name:score pair per line, best first.
package scores

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// Limit is how many entries the local table keeps.
const Limit = 10

type Entry struct {
	Name  string
	Score int
}

var defaults = []Entry{
	{"Ada", 5000},
	{"Brook", 4000},
	{"Cass", 3000},
	{"Dev", 2500},
	{"Eli", 2000},
	{"Fern", 1500},
	{"Gus", 1000},
	{"Hal", 750},
	{"Ivy", 500},
	{"Jo", 250},
}

// Defaults returns the table used when no local file exists yet.
func Defaults() []Entry {
	return slices.Clone(defaults)
}

// Load reads entries from r. Reading stops quietly at the first line that
// is not name:score.
func Load(r io.Reader) ([]Entry, error) {
	var out []Entry
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		e, ok := parseLine(sc.Text())
		if !ok {
			break
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return out, fmt.Errorf("read scores: %w", err)
	}
	return out, nil
}

func parseLine(line string) (Entry, bool) {
	i := strings.LastIndexByte(line, ':')
	if i <= 0 {
		return Entry{}, false
	}
	score, err := strconv.Atoi(strings.TrimSpace(line[i+1:]))
	if err != nil {
		return Entry{}, false
	}
	return Entry{Name: line[:i], Score: score}, true
}

// LoadFile loads path, falling back to Defaults when it does not exist.
func LoadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func Write(w io.Writer, list []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range list {
		if _, err := fmt.Fprintf(bw, "%s:%d\n", e.Name, e.Score); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile replaces path atomically.
func WriteFile(path string, list []Entry) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".scores-*")
	if err != nil {
		return fmt.Errorf("write scores: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, list); err != nil {
		tmp.Close()
		return fmt.Errorf("write scores: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write scores: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// Insert places e after every entry scoring at least as much and trims the
// result to limit. The returned index is -1 when e did not make the table.
func Insert(list []Entry, e Entry, limit int) ([]Entry, int) {
	i := 0
	for i < len(list) && list[i].Score >= e.Score {
		i++
	}
	if limit > 0 && i >= limit {
		return list, -1
	}
	out := slices.Insert(slices.Clone(list), i, e)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, i
}

// Qualifies reports whether score would enter a table of limit entries.
func Qualifies(list []Entry, score, limit int) bool {
	_, idx := Insert(list, Entry{Score: score}, limit)
	return idx >= 0
}

// HighScore returns the best score in list, or 0.
func HighScore(list []Entry) int {
	best := 0
	for _, e := range list {
		best = max(best, e.Score)
	}
	return best
}
