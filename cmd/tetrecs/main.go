// Command tetrecs plays the game in a terminal, alone or against a room on
// a tetrecs server.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/decred/slog"
	"golang.org/x/sync/errgroup"

	"tetrecs/config"
	"tetrecs/game"
	"tetrecs/leaderboard"
	"tetrecs/logging"
	"tetrecs/network"
	"tetrecs/scores"
	"tetrecs/session"
)

var (
	flagMulti   = flag.Bool("multi", false, "Join a room on the server instead of playing alone")
	flagServer  = flag.String("server", "", "Websocket URL of the server")
	flagRoom    = flag.String("room", "", "Room code to join")
	flagName    = flag.String("name", "", "Player name")
	flagScores  = flag.String("scores", "", "Local high score file")
	flagSeed    = flag.Uint64("seed", 0, "Piece seed for single player (0 picks one)")
	flagLogFile = flag.String("logfile", "", "Also write logs to this file")
	flagDebug   = flag.String("debug", "", "Log level: trace, debug, info, warn, error")
	flagEnv     = flag.String("env", ".env", "Environment file to load")
)

var errServerGone = errors.New("server closed the connection")

type client struct {
	cfg  config.Config
	sess *session.Session
	log  slog.Logger

	best []scores.Entry
}

func realMain() error {
	flag.Parse()
	cfg, err := config.Load(*flagEnv)
	if err != nil {
		return err
	}

	// Apply overrides from flags
	if *flagServer != "" {
		cfg.ServerURL = *flagServer
	}
	if *flagName != "" {
		cfg.PlayerName = *flagName
	}
	if *flagScores != "" {
		cfg.ScoresPath = *flagScores
	}
	if *flagDebug != "" {
		cfg.LogLevel = *flagDebug
	}

	lb, err := logging.NewLogBackend(logging.LogConfig{
		LogFile:    *flagLogFile,
		DebugLevel: cfg.LogLevel,
		UseStderr:  *flagLogFile == "",
	})
	if err != nil {
		return err
	}
	defer lb.Close()
	log := lb.Logger("MAIN")

	best, err := scores.LoadFile(cfg.ScoresPath)
	if err != nil {
		log.Warnf("Loading %s: %v", cfg.ScoresPath, err)
		best = scores.Defaults()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	sessCfg := session.Config{
		Cols:      cfg.GridCols,
		Rows:      cfg.GridRows,
		HiScore:   scores.HighScore(best),
		Seed:      *flagSeed,
		Log:       lb.Logger("SESN"),
		EngineLog: lb.Logger("GAME"),
		SyncLog:   lb.Logger("SYNC"),
	}
	if sessCfg.Seed == 0 {
		sessCfg.Seed = uint64(os.Getpid())
	}

	var conn *network.Conn
	if *flagMulti {
		u, err := roomURL(cfg.ServerURL, *flagRoom, cfg.PlayerName)
		if err != nil {
			return err
		}
		conn, err = network.Dial(ctx, u, lb.Logger("NETW"))
		if err != nil {
			return err
		}
		defer conn.Close()
		sessCfg.Sender = conn
		log.Infof("Connected to %s", u)
	}

	sess, err := session.New(sessCfg)
	if err != nil {
		return err
	}
	c := &client{cfg: cfg, sess: sess, log: log, best: best}
	events := sess.Subscribe()

	g.Go(func() error {
		if conn != nil {
			defer conn.Close()
		}
		return sess.Run(gctx)
	})
	if conn != nil {
		g.Go(func() error {
			err := conn.ReadLoop(gctx, func(line string) {
				_ = sess.Deliver(gctx, line)
			})
			select {
			case <-sess.Done():
				return nil
			default:
			}
			if err == nil {
				err = errServerGone
			}
			return err
		})
	}
	g.Go(func() error { return c.renderLoop(gctx, events) })
	g.Go(func() error { return c.inputLoop(gctx, lines(os.Stdin)) })

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func roomURL(base, room, name string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("server url: %w", err)
	}
	q := u.Query()
	if room != "" {
		q.Set("room", room)
	}
	if name != "" {
		q.Set("name", name)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// lines feeds stdin to a channel so the input loop can also watch ctx.
func lines(f *os.File) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			ch <- sc.Text()
		}
	}()
	return ch
}

func (c *client) renderLoop(ctx context.Context, events <-chan game.Event) error {
	for ev := range events {
		switch ev.Kind {
		case game.EventStarted, game.EventPlaced, game.EventLifeLost:
			c.show(ctx)
		case game.EventPlacementRejected:
			fmt.Printf("Cannot place at %d %d\n", ev.X+2, ev.Y+2)
		case game.EventLinesCleared:
			fmt.Printf("Cleared %d line(s)\n", ev.Lines)
		case game.EventLevelUp:
			fmt.Printf("Level %d\n", ev.Level)
		case game.EventAwaitingPiece:
			fmt.Println("Waiting for pieces from the server")
		case game.EventFinished:
			c.gameOver(ctx, ev.Score)
			c.sess.Stop()
		case game.EventParted:
			c.sess.Stop()
		}
	}
	return nil
}

func (c *client) show(ctx context.Context) {
	snap, err := c.sess.Snapshot(ctx)
	if err != nil {
		return
	}
	fmt.Println(renderSnapshot(snap))
	if c.sess.Multiplayer() {
		c.showStandings(ctx)
	}
}

func (c *client) showStandings(ctx context.Context) {
	st, err := c.sess.Standings(ctx)
	if err != nil || len(st) == 0 {
		return
	}
	var b leaderboard.Board
	b.Replace(st)
	fmt.Println(b.Render(5))
}

func (c *client) gameOver(ctx context.Context, score int) {
	fmt.Printf("Game over, score %d\n", score)
	if c.sess.Multiplayer() {
		c.showStandings(ctx)
		return
	}
	list, idx := scores.Insert(c.best, scores.Entry{Name: c.cfg.PlayerName, Score: score}, scores.Limit)
	if idx < 0 {
		return
	}
	if err := scores.WriteFile(c.cfg.ScoresPath, list); err != nil {
		c.log.Errorf("Saving scores: %v", err)
		return
	}
	c.best = list
	fmt.Printf("New high score table entry #%d\n", idx+1)
}

const help = `commands:
  p X Y   place the current piece centred on column X, row Y (1-based)
  r       rotate right      l   rotate left
  s       swap current and next
  b       show the board    t   show the room leaderboard
  q       quit`

func (c *client) inputLoop(ctx context.Context, in <-chan string) error {
	fmt.Println(help)
	for {
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return nil
		case <-c.sess.Done():
			return nil
		case line, ok = <-in:
			if !ok {
				c.sess.Stop()
				return nil
			}
		}

		cmd, err := parseCommand(line)
		if err != nil {
			fmt.Println(err)
			continue
		}
		switch cmd := cmd.(type) {
		case nil:
		case showBoard:
			c.show(ctx)
		case showStandings:
			c.showStandings(ctx)
		case quit:
			_ = c.sess.Send(ctx, session.Shutdown{})
			c.sess.Stop()
			return nil
		default:
			if err := c.sess.Send(ctx, cmd); err != nil {
				return nil
			}
		}
	}
}

type (
	showBoard     struct{}
	showStandings struct{}
	quit          struct{}
)

// parseCommand turns a typed line into a session command. Placement input
// is the 1-based cell under the piece's centre; the engine wants the
// 0-based template origin, one up and one left of the centre.
func parseCommand(line string) (any, error) {
	f := strings.Fields(strings.ToLower(line))
	if len(f) == 0 {
		return nil, nil
	}
	switch f[0] {
	case "p", "place":
		if len(f) != 3 {
			return nil, errors.New("usage: p X Y")
		}
		x, err1 := strconv.Atoi(f[1])
		y, err2 := strconv.Atoi(f[2])
		if err1 != nil || err2 != nil {
			return nil, errors.New("usage: p X Y")
		}
		return session.Place{X: x - 2, Y: y - 2}, nil
	case "r", "rotate":
		return session.Rotate{Turns: 1}, nil
	case "l", "left":
		return session.Rotate{Turns: 3}, nil
	case "s", "swap":
		return session.Swap{}, nil
	case "b", "board":
		return showBoard{}, nil
	case "t", "top", "scores":
		return showStandings{}, nil
	case "q", "quit", "exit":
		return quit{}, nil
	case "h", "help", "?":
		return nil, errors.New(help)
	}
	return nil, fmt.Errorf("unknown command %q, h for help", f[0])
}

func main() {
	if err := realMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
