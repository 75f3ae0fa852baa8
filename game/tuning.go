package game

import "time"

const (
	DefaultCols        = 5
	DefaultRows        = 5
	LivesStart         = 3
	MultiplierStart    = 1
	ScorePerBlock      = 10   // per cleared block, per line, per multiplier step
	ScorePerLevel      = 1000 // level = score / ScorePerLevel
	TimerMax           = 12500 * time.Millisecond
	TimerMin           = 2500 * time.Millisecond
	TimerStep          = 500 * time.Millisecond // decrease per level
	QueueDepth         = 5                      // pieces kept queued ahead in multiplayer
	PieceRetryInterval = 2 * time.Second
	MaxCellValue       = 15
)

// TimerDelay is max(12500 - 500*level, 2500) ms.
func TimerDelay(level int) time.Duration {
	d := TimerMax - time.Duration(level)*TimerStep
	if d < TimerMin {
		return TimerMin
	}
	return d
}

// LevelFor is floor(score / 1000).
func LevelFor(score int) int {
	if score <= 0 {
		return 0
	}
	return score / ScorePerLevel
}

// ScoreFor is lines * blocks * 10 * multiplier.
func ScoreFor(lines, blocks, multiplier int) int {
	return lines * blocks * ScorePerBlock * multiplier
}
