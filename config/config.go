package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerURL  string // websocket url of the game server
	ListenAddr string // server bind address
	ScoresPath string // local name:score file
	PlayerName string
	GridCols   int
	GridRows   int
	LogLevel   string
}

func Default() Config {
	return Config{
		ServerURL:  "ws://127.0.0.1:9700/ws",
		ListenAddr: ":9700",
		ScoresPath: "localScores.txt",
		PlayerName: "player",
		GridCols:   5,
		GridRows:   5,
		LogLevel:   "info",
	}
}

// InitConfig loads .env files into the process environment. A missing .env is fine.
func InitConfig(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load environment: %w", err)
	}
	return nil
}

// Load returns Default overridden by whatever TETRECS_* variables are set.
func Load(files ...string) (Config, error) {
	cfg := Default()
	if err := InitConfig(files...); err != nil {
		return cfg, err
	}

	if v, err := GetEnvVariable("TETRECS_SERVER_URL"); err == nil {
		cfg.ServerURL = v
	}
	if v, err := GetEnvVariable("TETRECS_LISTEN_ADDR"); err == nil {
		cfg.ListenAddr = v
	}
	if v, err := GetEnvVariable("TETRECS_SCORES_PATH"); err == nil {
		cfg.ScoresPath = v
	}
	if v, err := GetEnvVariable("TETRECS_PLAYER_NAME"); err == nil {
		cfg.PlayerName = v
	}
	if v, err := GetEnvVariable("LOG_LEVEL"); err == nil {
		cfg.LogLevel = v
	}

	var err error
	if cfg.GridCols, err = envInt("TETRECS_GRID_COLS", cfg.GridCols); err != nil {
		return cfg, err
	}
	if cfg.GridRows, err = envInt("TETRECS_GRID_ROWS", cfg.GridRows); err != nil {
		return cfg, err
	}
	if cfg.GridCols < 3 || cfg.GridRows < 3 {
		return cfg, fmt.Errorf("grid must be at least 3x3, got %dx%d", cfg.GridCols, cfg.GridRows)
	}
	return cfg, nil
}

func GetEnvVariable(v string) (string, error) {
	if v == "" {
		return "", fmt.Errorf("input param empty")
	}
	b := os.Getenv(v)
	if b == "" {
		return "", fmt.Errorf("failed to get variable for %s", v)
	}

	return b, nil

}

func envInt(name string, def int) (int, error) {
	v, err := GetEnvVariable(name)
	if err != nil {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}
