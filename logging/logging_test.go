package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/decred/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tetrecs.log")
	lb, err := NewLogBackend(LogConfig{LogFile: path, DebugLevel: "debug"})
	require.NoError(t, err)

	log := lb.Logger("GAME")
	assert.Same(t, log, lb.Logger("GAME"))
	log.Debugf("placed at %d,%d", 1, 2)
	log.Tracef("not shown")
	require.NoError(t, lb.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(b)
	assert.Contains(t, out, "[DBG] GAME: placed at 1,2")
	assert.NotContains(t, out, "not shown")
}

func TestSetLevelAppliesToExistingLoggers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tetrecs.log")
	lb, err := NewLogBackend(LogConfig{LogFile: path})
	require.NoError(t, err)
	log := lb.Logger("ROOM")
	assert.Equal(t, slog.LevelInfo, log.Level())

	lb.SetLevel(slog.LevelError)
	assert.Equal(t, slog.LevelError, log.Level())
	assert.Equal(t, slog.LevelError, lb.Logger("SESN").Level())
	log.Warnf("hidden")
	require.NoError(t, lb.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(b), "hidden"))
}

func TestBadLevelRejected(t *testing.T) {
	_, err := NewLogBackend(LogConfig{DebugLevel: "loud"})
	assert.Error(t, err)
}

func TestOrDisabled(t *testing.T) {
	assert.Equal(t, slog.Disabled, OrDisabled(nil))
	lb, err := NewLogBackend(LogConfig{})
	require.NoError(t, err)
	l := lb.Logger("MAIN")
	assert.Same(t, l, OrDisabled(l))
}
