package routing

import (
	"errors"
	"math"

	"github.com/tidwall/rtree"

	"github.com/azybler/map_distance/pkg/geo"
	"github.com/azybler/map_distance/pkg/graph"
)

// DefaultMaxSnapDistMeters is the snapping radius used by NewSnapper.
const DefaultMaxSnapDistMeters = 500.0

// ErrPointTooFar is returned when the query point is too far from any road.
var ErrPointTooFar = errors.New("point too far from road")

// LatLng represents a geographic coordinate.
type LatLng struct {
	Lat float64
	Lng float64
}

// SnapResult represents a point snapped to a graph node.
type SnapResult struct {
	Node graph.NodeID
	Dist float64 // distance in meters from query point to the node
}

// Snapper provides nearest-node lookup backed by an R-tree over node
// coordinates. Points are stored as degenerate boxes in (lng, lat) order.
type Snapper struct {
	tr            rtree.RTreeG[graph.NodeID]
	g             *graph.Graph
	maxDistMeters float64
}

// NewSnapper indexes every node of g.
func NewSnapper(g *graph.Graph) *Snapper {
	return NewSnapperWithRadius(g, DefaultMaxSnapDistMeters)
}

// NewSnapperWithRadius indexes every node of g with a custom snapping radius.
func NewSnapperWithRadius(g *graph.Graph, maxDistMeters float64) *Snapper {
	s := &Snapper{g: g, maxDistMeters: maxDistMeters}
	for i := 0; i < g.NodeCount(); i++ {
		n := g.Node(graph.NodeID(i))
		p := [2]float64{n.Lng, n.Lat}
		s.tr.Insert(p, p, graph.NodeID(i))
	}
	return s
}

// Snap finds the nearest node to the given lat/lng within the snapping
// radius.
func (s *Snapper) Snap(lat, lng float64) (SnapResult, error) {
	minLat, minLon, maxLat, maxLon := geo.BoundingBox(lat, lng, s.maxDistMeters)

	best := graph.InvalidNode
	bestApprox := math.Inf(1)

	s.tr.Search([2]float64{minLon, minLat}, [2]float64{maxLon, maxLat},
		func(min, max [2]float64, id graph.NodeID) bool {
			d := geo.EquirectangularDist(lat, lng, min[1], min[0])
			if d < bestApprox || (d == bestApprox && id < best) {
				bestApprox = d
				best = id
			}
			return true
		})

	if best == graph.InvalidNode {
		return SnapResult{}, ErrPointTooFar
	}

	n := s.g.Node(best)
	exact := geo.Haversine(lat, lng, n.Lat, n.Lng)
	if exact > s.maxDistMeters {
		return SnapResult{}, ErrPointTooFar
	}
	return SnapResult{Node: best, Dist: exact}, nil
}
