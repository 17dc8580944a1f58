package routing

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/azybler/map_distance/pkg/graph"
)

// Pool hands out engines bound to one shared graph, one per concurrent
// caller.
type Pool struct {
	g       *graph.Graph
	engines chan *Engine
}

// NewPool creates a pool of size engines bound to g.
func NewPool(g *graph.Graph, size int) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{g: g, engines: make(chan *Engine, size)}
	for range size {
		p.engines <- NewEngine(g)
	}
	return p
}

// Graph returns the shared graph.
func (p *Pool) Graph() *graph.Graph { return p.g }

// Acquire blocks until an engine is free or ctx is done.
func (p *Pool) Acquire(ctx context.Context) (*Engine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case e := <-p.engines:
		return e, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns an engine obtained from Acquire.
func (p *Pool) Release(e *Engine) {
	p.engines <- e
}

// Distance runs a single query on a pooled engine.
func (p *Pool) Distance(ctx context.Context, from, to graph.NodeID) (Dist, error) {
	e, err := p.Acquire(ctx)
	if err != nil {
		return Infinity, err
	}
	defer p.Release(e)
	return e.Distance(from, to)
}

// DistanceMatrix computes the distance from every source to every target.
// Rows are distributed over workers goroutines, each owning a private
// engine, so consecutive targets of a row reuse that row's search.
// ctx is checked between rows.
func DistanceMatrix(ctx context.Context, g *graph.Graph, sources, targets []graph.NodeID, workers int) ([][]Dist, error) {
	if workers < 1 {
		workers = 1
	}
	workers = min(workers, max(len(sources), 1))

	out := make([][]Dist, len(sources))
	rows := make(chan int)

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		defer close(rows)
		for i := range sources {
			select {
			case rows <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for range workers {
		eg.Go(func() error {
			eng := NewEngine(g)
			for i := range rows {
				if err := ctx.Err(); err != nil {
					return err
				}
				row := make([]Dist, len(targets))
				for j, t := range targets {
					d, err := eng.Distance(sources[i], t)
					if err != nil {
						return err
					}
					row[j] = d
				}
				out[i] = row
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
