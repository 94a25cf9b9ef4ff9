package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/la2go/internal/adminconsole"
	"github.com/udisondev/la2go/internal/config"
	"github.com/udisondev/la2go/internal/connset"
	"github.com/udisondev/la2go/internal/directory"
	"github.com/udisondev/la2go/internal/history"
	"github.com/udisondev/la2go/internal/identity"
	"github.com/udisondev/la2go/internal/lobby"
	"github.com/udisondev/la2go/internal/metrics"
	"github.com/udisondev/la2go/internal/server"
)

const ConfigPath = "config/blackjackd.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("BLACKJACKD_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("blackjackd starting",
		"bind", cfg.Addr(), "lobby_count", cfg.LobbyCount, "admin_enabled", cfg.AdminEnabled)

	registry := identity.New()
	conns := connset.New()
	metricsCtr := &metrics.Counters{}
	dir := directory.New()

	histSink, closeSink, err := newHistorySink(cfg.HistoryFile)
	if err != nil {
		return fmt.Errorf("opening history sink: %w", err)
	}
	defer closeSink()

	lobbies := make([]*lobby.Lobby, cfg.LobbyCount)
	for i := range lobbies {
		lobbies[i] = lobby.New(i, registry,
			metricsCtr.MatchStarted,
			metricsCtr.MatchEnded,
			func(name1 string, value1 int, name2 string, value2 int, winner string) {
				histSink.Record(history.Entry{
					Time: time.Now(),
					Lobby: i, Name1: name1, Value1: value1, Name2: name2, Value2: value2, Winner: winner,
				})
			},
			lobby.DefaultTiming(),
		)
	}

	// A SHUTDOWN admin command and a process signal both fold into the
	// same cancellation: whichever fires first brings every listener
	// down, since ctx.Done() triggers ln.Close() in Serve.
	shutdownCtx, shutdownAll := context.WithCancel(ctx)
	defer shutdownAll()

	g, gctx := errgroup.WithContext(shutdownCtx)

	srv := server.New(registry, lobbies, conns, metricsCtr, dir)
	g.Go(func() error {
		if err := srv.Run(gctx, cfg.Addr()); err != nil {
			return fmt.Errorf("game server: %w", err)
		}
		return nil
	})

	if cfg.AdminEnabled {
		console := adminconsole.New(registry, lobbies, metricsCtr, dir, shutdownAll)
		g.Go(func() error {
			if err := console.Run(gctx, cfg.AdminAddr()); err != nil {
				return fmt.Errorf("admin console: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// newHistorySink builds the match-history sink: a file-backed sink fanned
// out alongside the in-memory ring buffer when a history file is
// configured, or the ring alone otherwise.
func newHistorySink(path string) (history.Sink, func(), error) {
	ring := history.NewRing(256)
	if path == "" {
		return ring, func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	sink := history.Multi{ring, history.NewWriterSink(f)}
	return sink, func() { f.Close() }, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
