package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutEnvFile(t *testing.T) {
	t.Setenv("TETRECS_GRID_COLS", "")
	t.Setenv("TETRECS_GRID_ROWS", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.GridCols)
	assert.Equal(t, 5, cfg.GridRows)
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	body := "TETRECS_PLAYER_NAME=alice\nTETRECS_GRID_COLS=7\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("TETRECS_PLAYER_NAME")
		os.Unsetenv("TETRECS_GRID_COLS")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "alice", cfg.PlayerName)
	assert.Equal(t, 7, cfg.GridCols)
	assert.Equal(t, 5, cfg.GridRows)
}

func TestLoadRejectsBadGrid(t *testing.T) {
	t.Setenv("TETRECS_GRID_ROWS", "two")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)

	t.Setenv("TETRECS_GRID_ROWS", "2")
	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}

func TestGetEnvVariable(t *testing.T) {
	_, err := GetEnvVariable("")
	require.Error(t, err)

	t.Setenv("TETRECS_TEST_VAR", "x")
	v, err := GetEnvVariable("TETRECS_TEST_VAR")
	require.NoError(t, err)
	assert.Equal(t, "x", v)
}
