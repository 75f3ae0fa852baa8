package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/decred/slog"
)

// LogConfig controls where log lines go and how verbose they are.
type LogConfig struct {
	LogFile    string // optional, appended to alongside stderr
	DebugLevel string // trace, debug, info, warn, error, critical, off
	UseStderr  bool
}

// LogBackend hands out per-subsystem loggers that share one writer and level.
type LogBackend struct {
	mu      sync.Mutex
	backend *slog.Backend
	level   slog.Level
	loggers map[string]slog.Logger
	file    *os.File
}

func NewLogBackend(cfg LogConfig) (*LogBackend, error) {
	level := slog.LevelInfo
	if cfg.DebugLevel != "" {
		l, ok := slog.LevelFromString(cfg.DebugLevel)
		if !ok {
			return nil, fmt.Errorf("unknown log level %q", cfg.DebugLevel)
		}
		level = l
	}

	var writers []io.Writer
	if cfg.UseStderr {
		writers = append(writers, os.Stderr)
	}
	lb := &LogBackend{level: level, loggers: make(map[string]slog.Logger)}
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		lb.file = f
		writers = append(writers, f)
	}
	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	lb.backend = slog.NewBackend(io.MultiWriter(writers...))
	return lb, nil
}

// Logger returns the logger for subsystem, creating it on first use.
func (lb *LogBackend) Logger(subsystem string) slog.Logger {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	if l, ok := lb.loggers[subsystem]; ok {
		return l
	}
	l := lb.backend.Logger(subsystem)
	l.SetLevel(lb.level)
	lb.loggers[subsystem] = l
	return l
}

// SetLevel changes the level of every logger handed out so far and of future ones.
func (lb *LogBackend) SetLevel(level slog.Level) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.level = level
	for _, l := range lb.loggers {
		l.SetLevel(level)
	}
}

func (lb *LogBackend) Close() error {
	if lb.file == nil {
		return nil
	}
	return lb.file.Close()
}

// OrDisabled returns l, or slog.Disabled when l is nil.
func OrDisabled(l slog.Logger) slog.Logger {
	if l == nil {
		return slog.Disabled
	}
	return l
}
