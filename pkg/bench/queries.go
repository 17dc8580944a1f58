// Package bench generates, stores and resolves the source and target node
// sets used to benchmark distance queries.
package bench

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/exp/rand"
	"gopkg.in/yaml.v3"

	"github.com/azybler/map_distance/pkg/graph"
)

const (
	// DefaultSeed makes generated query sets reproducible across runs.
	DefaultSeed uint64 = 42
	// DefaultCount is the number of sources and of targets.
	DefaultCount = 10
)

// QuerySet lists benchmark endpoints by external node id. Every source is
// queried against every target.
type QuerySet struct {
	Seed    uint64  `yaml:"seed"`
	Sources []int64 `yaml:"sources"`
	Targets []int64 `yaml:"targets"`
}

// Generate draws count sources and count targets uniformly from the nodes
// of g. Draws are independent, so an id may repeat.
func Generate(g *graph.Graph, count int, seed uint64) QuerySet {
	qs := QuerySet{Seed: seed}
	n := g.NodeCount()
	if n == 0 || count <= 0 {
		return qs
	}

	rng := rand.New(rand.NewSource(seed))
	draw := func() []int64 {
		ids := make([]int64, count)
		for i := range ids {
			ids[i] = g.Node(graph.NodeID(rng.Intn(n))).ID
		}
		return ids
	}
	qs.Sources = draw()
	qs.Targets = draw()
	return qs
}

// Resolve maps the external ids of qs to dense node ids of g.
func (qs QuerySet) Resolve(g *graph.Graph) (sources, targets []graph.NodeID, err error) {
	if sources, err = resolve(g, qs.Sources); err != nil {
		return nil, nil, fmt.Errorf("sources: %w", err)
	}
	if targets, err = resolve(g, qs.Targets); err != nil {
		return nil, nil, fmt.Errorf("targets: %w", err)
	}
	return sources, targets, nil
}

func resolve(g *graph.Graph, ids []int64) ([]graph.NodeID, error) {
	out := make([]graph.NodeID, len(ids))
	for i, id := range ids {
		n, ok := g.NodeByExternalID(id)
		if !ok {
			return nil, fmt.Errorf("%w: %d", graph.ErrUnknownNode, id)
		}
		out[i] = n
	}
	return out, nil
}

// Write stores qs as YAML at path, replacing any existing file atomically.
func Write(path string, qs QuerySet) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(qs); err != nil {
		return fmt.Errorf("encode query set: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode query set: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".queries-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write query set: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Read loads a query set written by Write.
func Read(path string) (QuerySet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return QuerySet{}, err
	}
	var qs QuerySet
	if err := yaml.Unmarshal(data, &qs); err != nil {
		return QuerySet{}, fmt.Errorf("decode query set %s: %w", path, err)
	}
	return qs, nil
}
