package routing

import (
	"errors"
	"fmt"

	"github.com/azybler/map_distance/pkg/graph"
)

var (
	// ErrOutOfRange is returned when a query names a node id the bound
	// graph does not contain.
	ErrOutOfRange = errors.New("node id out of range")

	// ErrNoRoute is returned by callers that treat an unreachable target as
	// a failure.
	ErrNoRoute = errors.New("no route found")
)

// QueryStats describes the work done by the most recent query.
type QueryStats struct {
	Settled int  // nodes finalized
	Pushed  int  // heap insertions
	Stale   int  // outdated heap entries discarded
	Resumed bool // the query continued a retained search from the same source
}

// Engine answers point-to-point distance queries on a Graph with Dijkstra's
// algorithm. It keeps its search state between calls: consecutive queries
// from the same source continue the previous search, and switching sources
// only resets the nodes the previous search finalized.
//
// An Engine is not safe for concurrent use. Any number of engines may share
// one Graph.
type Engine struct {
	g *graph.Graph

	dist    []Dist         // finalized distance, Infinity if not finalized
	pred    []graph.NodeID // predecessor on the shortest path tree
	pq      MinHeap
	touched []graph.NodeID // nodes finalized by the current search (for fast reset)

	source    graph.NodeID // source of the retained search, InvalidNode if none
	exhausted bool         // the retained search drained the heap

	stats QueryStats
}

// NewEngine creates an engine bound to g.
func NewEngine(g *graph.Graph) *Engine {
	n := g.NodeCount()
	dist := make([]Dist, n)
	pred := make([]graph.NodeID, n)
	for i := range dist {
		dist[i] = Infinity
		pred[i] = graph.InvalidNode
	}
	return &Engine{
		g:       g,
		dist:    dist,
		pred:    pred,
		pq:      MinHeap{items: make([]PQItem, 0, 256)},
		touched: make([]graph.NodeID, 0, 1024),
		source:  graph.InvalidNode,
	}
}

// Graph returns the graph the engine is bound to.
func (e *Engine) Graph() *graph.Graph { return e.g }

// Stats returns the counters of the most recent query.
func (e *Engine) Stats() QueryStats { return e.stats }

// Distance returns the length of the shortest path from -> to, or Infinity
// if to is unreachable from from.
func (e *Engine) Distance(from, to graph.NodeID) (Dist, error) {
	if err := e.checkRange(from, to); err != nil {
		return Infinity, err
	}
	e.stats = QueryStats{}

	if from == to {
		return 0, nil
	}

	if from != e.source {
		e.Reset()
		e.source = from
		e.pq.Push(0, from, from)
		e.stats.Pushed++
	} else {
		e.stats.Resumed = true
	}

	if d := e.dist[to]; d != Infinity {
		return d, nil
	}
	if e.exhausted {
		return Infinity, nil
	}
	return e.settleUntil(to), nil
}

// Reset discards the retained search. Only the slots finalized by that
// search are cleared.
func (e *Engine) Reset() {
	for _, n := range e.touched {
		e.dist[n] = Infinity
		e.pred[n] = graph.InvalidNode
	}
	e.touched = e.touched[:0]
	e.pq.Reset()
	e.source = graph.InvalidNode
	e.exhausted = false
}

// settleUntil pops heap entries until target is finalized or the heap is
// empty. Edges of every finalized node are relaxed before returning, so the
// heap always holds the complete frontier and the search can be resumed.
func (e *Engine) settleUntil(target graph.NodeID) Dist {
	for e.pq.Len() > 0 {
		item := e.pq.Pop()
		u := item.Node
		d := item.Dist

		if d >= e.dist[u] {
			e.stats.Stale++
			continue // stale entry
		}

		e.dist[u] = d
		e.pred[u] = item.Pred
		e.touched = append(e.touched, u)
		e.stats.Settled++

		for _, he := range e.g.OutgoingEdgesOf(u) {
			candidate := SaturatingAdd(d, Dist(he.Weight))
			if candidate < e.dist[he.To] {
				e.pq.Push(candidate, he.To, u)
				e.stats.Pushed++
			}
		}

		if u == target {
			return d
		}
	}

	e.exhausted = true
	return Infinity
}

func (e *Engine) checkRange(from, to graph.NodeID) error {
	if !e.g.Contains(from) {
		return fmt.Errorf("%w: from=%d, graph has %d nodes", ErrOutOfRange, from, e.g.NodeCount())
	}
	if !e.g.Contains(to) {
		return fmt.Errorf("%w: to=%d, graph has %d nodes", ErrOutOfRange, to, e.g.NodeCount())
	}
	return nil
}
