package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/azybler/map_distance/pkg/bench"
	"github.com/azybler/map_distance/pkg/graph"
	"github.com/azybler/map_distance/pkg/logger"
	osmparser "github.com/azybler/map_distance/pkg/osm"
)

func main() {
	input := flag.String("input", "", "Path to .osm.pbf file")
	output := flag.String("output", "graph.bin", "Output binary graph file path (.bz2 suffix compresses)")
	queries := flag.String("queries", "", "Optional output path for a generated query set (YAML)")
	count := flag.Int("count", bench.DefaultCount, "Number of sources and of targets in the query set")
	seed := flag.Uint64("seed", bench.DefaultSeed, "Seed for query set generation")
	bbox := flag.String("bbox", "", "Bounding box filter: minLat,minLng,maxLat,maxLng (e.g. 1.15,103.6,1.48,104.1)")
	singapore := flag.Bool("singapore", false, "Shortcut for --bbox 1.15,103.6,1.48,104.1 (Singapore bounding box)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: preprocess --input <file.osm.pbf> [--output graph.bin] [--queries queries.yaml] [--singapore | --bbox minLat,minLng,maxLat,maxLng]")
		os.Exit(1)
	}

	log, err := logger.New(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	var opts osmparser.ParseOptions
	if *singapore {
		opts.BBox = osmparser.BBox{MinLat: 1.15, MaxLat: 1.48, MinLng: 103.6, MaxLng: 104.1}
	} else if *bbox != "" {
		var minLat, minLng, maxLat, maxLng float64
		if _, err := fmt.Sscanf(*bbox, "%f,%f,%f,%f", &minLat, &minLng, &maxLat, &maxLng); err != nil {
			log.Fatal("invalid bbox, expected minLat,minLng,maxLat,maxLng", zap.Error(err))
		}
		opts.BBox = osmparser.BBox{MinLat: minLat, MaxLat: maxLat, MinLng: minLng, MaxLng: maxLng}
	}
	if !opts.BBox.IsZero() {
		log.Info("using bounding box filter",
			zap.Float64("min_lat", opts.BBox.MinLat), zap.Float64("max_lat", opts.BBox.MaxLat),
			zap.Float64("min_lng", opts.BBox.MinLng), zap.Float64("max_lng", opts.BBox.MaxLng))
	}

	start := time.Now()

	// Step 1: Parse OSM data.
	f, err := os.Open(*input)
	if err != nil {
		log.Fatal("open input", zap.Error(err))
	}
	defer f.Close()

	parsed, err := osmparser.Parse(context.Background(), f, log, opts)
	if err != nil {
		log.Fatal("parse OSM data", zap.Error(err))
	}

	// Step 2: Build graph.
	g, err := graph.Construct(parsed.Nodes, parsed.Edges)
	if err != nil {
		log.Fatal("build graph", zap.Error(err))
	}
	log.Info("graph built", zap.Int("nodes", g.NodeCount()), zap.Int("edges", g.EdgeCount()))

	// Step 3: Extract largest connected component.
	keep := graph.LargestComponent(g)
	if g.NodeCount() > 0 {
		log.Info("largest component",
			zap.Int("nodes", len(keep)),
			zap.Float64("percent", float64(len(keep))/float64(g.NodeCount())*100))
	}
	g = graph.FilterToComponent(g, keep)
	log.Info("filtered graph", zap.Int("nodes", g.NodeCount()), zap.Int("edges", g.EdgeCount()))

	// Step 4: Serialize to binary.
	if err := graph.WriteBinary(*output, g); err != nil {
		log.Fatal("write binary", zap.Error(err))
	}

	// Step 5: Benchmark queries.
	if *queries != "" {
		qs := bench.Generate(g, *count, *seed)
		if err := bench.Write(*queries, qs); err != nil {
			log.Fatal("write query set", zap.Error(err))
		}
		log.Info("query set written", zap.String("path", *queries),
			zap.Int("sources", len(qs.Sources)), zap.Int("targets", len(qs.Targets)))
	}

	var size int64
	if info, err := os.Stat(*output); err == nil {
		size = info.Size()
	}
	log.Info("done",
		zap.String("output", *output),
		zap.Float64("size_mb", float64(size)/(1024*1024)),
		zap.Duration("elapsed", time.Since(start).Round(time.Millisecond)))
}
