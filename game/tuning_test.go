package game

import (
	"testing"
	"time"
)

func TestScoreFormula(t *testing.T) {
	if got := ScoreFor(2, 20, 2); got != 800 {
		t.Fatalf("ScoreFor(2, 20, 2) = %d, want 800", got)
	}
	if got := ScoreFor(1, 5, 1); got != 50 {
		t.Fatalf("ScoreFor(1, 5, 1) = %d, want 50", got)
	}
}

func TestLevelFor(t *testing.T) {
	cases := map[int]int{0: 0, 999: 0, 1000: 1, 1999: 1, 2000: 2, 12345: 12}
	for score, want := range cases {
		if got := LevelFor(score); got != want {
			t.Fatalf("LevelFor(%d) = %d, want %d", score, got, want)
		}
	}
}

func TestTimerDelay(t *testing.T) {
	cases := map[int]time.Duration{
		0:   12500 * time.Millisecond,
		1:   12000 * time.Millisecond,
		19:  3000 * time.Millisecond,
		20:  2500 * time.Millisecond,
		30:  2500 * time.Millisecond,
		500: 2500 * time.Millisecond,
	}
	for level, want := range cases {
		if got := TimerDelay(level); got != want {
			t.Fatalf("TimerDelay(%d) = %v, want %v", level, got, want)
		}
	}
}

func TestTimerDelayMonotonic(t *testing.T) {
	prev := TimerDelay(0)
	for level := 1; level < 100; level++ {
		d := TimerDelay(level)
		if d > prev {
			t.Fatalf("TimerDelay(%d) = %v increased from %v", level, d, prev)
		}
		if d < TimerMin {
			t.Fatalf("TimerDelay(%d) = %v below floor", level, d)
		}
		prev = d
	}
}
