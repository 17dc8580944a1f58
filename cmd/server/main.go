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

	"go.uber.org/zap"

	"github.com/azybler/map_distance/pkg/api"
	"github.com/azybler/map_distance/pkg/config"
	"github.com/azybler/map_distance/pkg/graph"
	"github.com/azybler/map_distance/pkg/logger"
	"github.com/azybler/map_distance/pkg/routing"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	graphPath := flag.String("graph", "", "Path to preprocessed graph binary (overrides config)")
	addr := flag.String("addr", "", "Listen address, e.g. :8080 (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *graphPath != "" {
		cfg.Graph.Path = *graphPath
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	start := time.Now()
	g, err := graph.ReadBinary(cfg.Graph.Path)
	if err != nil {
		log.Fatal("load graph", zap.String("path", cfg.Graph.Path), zap.Error(err))
	}
	log.Info("graph loaded", zap.Int("nodes", g.NodeCount()), zap.Int("edges", g.EdgeCount()))

	svc := routing.NewServiceWith(
		routing.NewPool(g, cfg.Graph.Engines),
		routing.NewSnapperWithRadius(g, cfg.Graph.SnapRadiusMeters),
	)
	log.Info("ready",
		zap.Int("engines", cfg.Graph.Engines),
		zap.Duration("elapsed", time.Since(start).Round(time.Millisecond)))

	stats := api.StatsResponse{NumNodes: g.NodeCount(), NumEdges: g.EdgeCount()}
	handlers := api.NewHandlers(svc, stats, log)
	srv := api.NewServer(cfg.Server, handlers, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := api.ListenAndServe(ctx, srv, log); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
