// Command tetrecs-server hosts game rooms: it hands out pieces and keeps
// each room's leaderboard.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"tetrecs/config"
	"tetrecs/logging"
	"tetrecs/room"
)

var (
	flagAddr    = flag.String("addr", "", "Listen address (default from TETRECS_LISTEN_ADDR)")
	flagLogFile = flag.String("logfile", "", "Also write logs to this file")
	flagDebug   = flag.String("debug", "", "Log level: trace, debug, info, warn, error")
	flagEnv     = flag.String("env", ".env", "Environment file to load")
)

const shutdownGrace = 5 * time.Second

func newMux(mgr *room.Manager, reg *prometheus.Registry, lb *logging.LogBackend) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", room.Handler(mgr, lb.Logger("NETW")))
	mux.Handle("/rooms", room.ListHandler(mgr))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func realMain() error {
	flag.Parse()
	cfg, err := config.Load(*flagEnv)
	if err != nil {
		return err
	}
	if *flagAddr != "" {
		cfg.ListenAddr = *flagAddr
	}
	if *flagDebug != "" {
		cfg.LogLevel = *flagDebug
	}

	lb, err := logging.NewLogBackend(logging.LogConfig{
		LogFile:    *flagLogFile,
		DebugLevel: cfg.LogLevel,
		UseStderr:  true,
	})
	if err != nil {
		return err
	}
	defer lb.Close()
	log := lb.Logger("MAIN")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	mgr := room.NewManager(room.NewMetrics(reg), lb.Logger("ROOM"))

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           newMux(mgr, reg, lb),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("Listening on %s (ws endpoint: /ws)", cfg.ListenAddr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Infof("Shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		mgr.Close()
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}

func main() {
	if err := realMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
