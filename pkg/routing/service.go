package routing

import (
	"context"
	"fmt"

	"github.com/azybler/map_distance/pkg/graph"
)

// RouteResult is the output of a route query.
type RouteResult struct {
	DistanceMeters Dist
	Start          SnapResult
	End            SnapResult
	Nodes          []graph.NodeID
	Geometry       []LatLng
}

// Router is the interface for distance and route queries.
type Router interface {
	Distance(ctx context.Context, fromID, toID int64) (Dist, error)
	Route(ctx context.Context, start, end LatLng) (*RouteResult, error)
}

// Service implements Router on top of an engine pool and a snapper.
// It is safe for concurrent use.
type Service struct {
	pool    *Pool
	snapper *Snapper
}

// NewService creates a Service with poolSize engines sharing g.
func NewService(g *graph.Graph, poolSize int) *Service {
	return NewServiceWith(NewPool(g, poolSize), NewSnapper(g))
}

// NewServiceWith creates a Service from an existing pool and snapper, which
// must be bound to the same graph.
func NewServiceWith(pool *Pool, snapper *Snapper) *Service {
	return &Service{pool: pool, snapper: snapper}
}

// Distance returns the shortest distance between two external node ids.
// Unreachable targets yield Infinity and no error.
func (s *Service) Distance(ctx context.Context, fromID, toID int64) (Dist, error) {
	g := s.pool.Graph()
	from, ok := g.NodeByExternalID(fromID)
	if !ok {
		return Infinity, fmt.Errorf("%w: from=%d", graph.ErrUnknownNode, fromID)
	}
	to, ok := g.NodeByExternalID(toID)
	if !ok {
		return Infinity, fmt.Errorf("%w: to=%d", graph.ErrUnknownNode, toID)
	}
	return s.pool.Distance(ctx, from, to)
}

// Route snaps both points to their nearest nodes and computes the shortest
// path between them.
func (s *Service) Route(ctx context.Context, start, end LatLng) (*RouteResult, error) {
	startSnap, err := s.snapper.Snap(start.Lat, start.Lng)
	if err != nil {
		return nil, err
	}
	endSnap, err := s.snapper.Snap(end.Lat, end.Lng)
	if err != nil {
		return nil, err
	}

	eng, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer s.pool.Release(eng)

	nodes, d, err := eng.Path(startSnap.Node, endSnap.Node)
	if err != nil {
		return nil, err
	}
	if d == Infinity {
		return nil, ErrNoRoute
	}

	g := s.pool.Graph()
	geometry := make([]LatLng, len(nodes))
	for i, n := range nodes {
		node := g.Node(n)
		geometry[i] = LatLng{Lat: node.Lat, Lng: node.Lng}
	}

	return &RouteResult{
		DistanceMeters: d,
		Start:          startSnap,
		End:            endSnap,
		Nodes:          nodes,
		Geometry:       geometry,
	}, nil
}
