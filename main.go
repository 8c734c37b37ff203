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

	"mapwalker/internal/config"
	"mapwalker/internal/core"
	"mapwalker/internal/explorer"
	"mapwalker/internal/gameclient"
	"mapwalker/internal/graph"
	"mapwalker/internal/hooks"
	"mapwalker/internal/presenter"
	"mapwalker/internal/scheduler"
	"mapwalker/internal/storage"
	"mapwalker/src/logger"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [-config config.yaml] <command> [args]\n\n", os.Args[0])
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  explore                 discover every reachable room")
	fmt.Fprintln(out, "  travel <room|landmark>  walk the shortest known route")
	fmt.Fprintln(out, "  path <from> <to>        print the shortest known route without moving")
	fmt.Fprintln(out, "  landmarks               list named rooms")
	fmt.Fprintln(out, "  well                    travel to the wishing well and examine it")
	fmt.Fprintln(out, "  rooms                   print graph statistics")
	fmt.Fprintln(out, "  status                  print the player status")
	fmt.Fprintln(out, "\nFlags:")
	flag.PrintDefaults()
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
	}

	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.InitLogger(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("startup failed")
		os.Exit(1)
	}

	err = a.run(ctx, flag.Arg(0), flag.Args()[1:])
	a.Close()
	if err != nil {
		logger.Logger.Error().Err(err).Str("command", flag.Arg(0)).Msg("command failed")
		os.Exit(1)
	}
}

// app wires the engine together for one CLI invocation
type app struct {
	cfg      *core.Config
	graph    *graph.Store
	store    storage.SnapshotStore
	sched    *scheduler.Scheduler
	client   *gameclient.Client
	explorer *explorer.Explorer
	console  *presenter.Console
	metrics  *http.Server
}

func newApp(ctx context.Context, cfg *core.Config) (*app, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	store, err := storage.Open(ctx, cfg.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}

	g := graph.NewStore()
	data, err := store.Load(ctx)
	switch {
	case errors.Is(err, storage.ErrNoSnapshot):
		logger.Logger.Info().Str("driver", cfg.Snapshot.Driver).Msg("no snapshot yet, starting with an empty graph")
	case err != nil:
		store.Close()
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	default:
		if err := g.Restore(data); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to restore snapshot: %w", err)
		}
		logger.Logger.Info().Int("rooms", g.Size()).Str("driver", cfg.Snapshot.Driver).Msg("snapshot restored")
	}

	promauto.With(registry).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "mapwalker",
		Subsystem: "graph",
		Name:      "rooms",
		Help:      "Rooms currently known.",
	}, func() float64 { return float64(g.Size()) })

	sched := scheduler.New(
		scheduler.WithMetrics(scheduler.NewMetrics(registry)),
		scheduler.WithLogger(logger.Component("scheduler")),
	)
	client := gameclient.New(cfg.Game, gameclient.WithLogger(logger.Component("gameclient")))
	console := presenter.NewConsole(os.Stdout)

	var mover explorer.Mover = explorer.MoverFunc(client.Move)
	if cfg.Game.MoveMode == "fly" {
		mover = explorer.MoverFunc(client.Fly)
	}

	opts := []explorer.Option{
		explorer.WithSnapshots(store),
		explorer.WithSink(console),
		explorer.WithLogger(logger.Component("explorer")),
	}
	if cfg.Explorer.Pickup {
		opts = append(opts, explorer.WithRoomHook(hooks.NewPickup(client, sched, g, console, logger.Component("pickup"))))
	}
	if cfg.Explorer.SellAtHub {
		opts = append(opts, explorer.WithHubHook(hooks.NewSellOff(client, sched, console, logger.Component("selloff"))))
	}

	ex := explorer.New(g, sched, client, mover, explorer.Config{
		MaxRooms:        cfg.Explorer.MaxRooms,
		HubRoom:         core.RoomID(cfg.Explorer.HubRoom),
		CheckpointEvery: cfg.Explorer.CheckpointEvery,
	}, opts...)

	a := &app{
		cfg:      cfg,
		graph:    g,
		store:    store,
		sched:    sched,
		client:   client,
		explorer: ex,
		console:  console,
	}
	if cfg.Metrics.Addr != "" {
		a.serveMetrics(registry)
	}
	return a, nil
}

func (a *app) serveMetrics(registry *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	a.metrics = &http.Server{Addr: a.cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Logger.Info().Str("addr", a.cfg.Metrics.Addr).Msg("serving metrics")
		if err := a.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Error().Err(err).Msg("metrics server stopped")
		}
	}()
}

// Close releases the snapshot store and stops the metrics server
func (a *app) Close() {
	if a.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = a.metrics.Shutdown(ctx)
	}
	if err := a.store.Close(); err != nil {
		logger.Logger.Warn().Err(err).Msg("failed to close snapshot store")
	}
}
