package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/azybler/map_distance/pkg/bench"
	"github.com/azybler/map_distance/pkg/graph"
	"github.com/azybler/map_distance/pkg/logger"
	"github.com/azybler/map_distance/pkg/routing"
)

func main() {
	graphPath := flag.String("graph", "graph.bin", "Path to preprocessed graph binary")
	queriesPath := flag.String("queries", "", "Query set written by preprocess (YAML); generated when empty")
	count := flag.Int("count", bench.DefaultCount, "Sources and targets to generate when no query set is given")
	seed := flag.Uint64("seed", bench.DefaultSeed, "Seed used when generating the query set")
	workers := flag.Int("workers", 0, "Compute the matrix with N parallel engines (0 = one sequential engine)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	start := time.Now()
	g, err := graph.ReadBinary(*graphPath)
	if err != nil {
		log.Fatal("load graph", zap.String("path", *graphPath), zap.Error(err))
	}
	log.Info("graph loaded",
		zap.Int("nodes", g.NodeCount()), zap.Int("edges", g.EdgeCount()),
		zap.Duration("elapsed", time.Since(start).Round(time.Millisecond)))

	var qs bench.QuerySet
	if *queriesPath != "" {
		if qs, err = bench.Read(*queriesPath); err != nil {
			log.Fatal("read query set", zap.Error(err))
		}
	} else {
		qs = bench.Generate(g, *count, *seed)
	}
	sources, targets, err := qs.Resolve(g)
	if err != nil {
		log.Fatal("resolve query set", zap.Error(err))
	}

	start = time.Now()
	var matrix [][]routing.Dist
	if *workers > 0 {
		matrix, err = routing.DistanceMatrix(context.Background(), g, sources, targets, *workers)
	} else {
		matrix, err = sequential(g, sources, targets)
	}
	if err != nil {
		log.Fatal("compute distances", zap.Error(err))
	}
	elapsed := time.Since(start)

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	for i, row := range matrix {
		for j, d := range row {
			fmt.Fprintf(out, "%d, %d, %s\n", qs.Sources[i], qs.Targets[j], formatDist(d))
		}
	}

	pairs := len(sources) * len(targets)
	fields := []zap.Field{zap.Int("pairs", pairs), zap.Duration("elapsed", elapsed)}
	if pairs > 0 {
		fields = append(fields, zap.Duration("per_query", elapsed/time.Duration(pairs)))
	}
	log.Info("distances computed", fields...)
}

// sequential answers every pair on one engine. Rows share a source, so all
// but the first query of a row resume the retained search.
func sequential(g *graph.Graph, sources, targets []graph.NodeID) ([][]routing.Dist, error) {
	eng := routing.NewEngine(g)
	out := make([][]routing.Dist, len(sources))
	for i, s := range sources {
		out[i] = make([]routing.Dist, len(targets))
		for j, t := range targets {
			d, err := eng.Distance(s, t)
			if err != nil {
				return nil, err
			}
			out[i][j] = d
		}
	}
	return out, nil
}

func formatDist(d routing.Dist) string {
	if d == routing.Infinity {
		return "unreachable"
	}
	return fmt.Sprintf("%d", d)
}
