package osm

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"go.uber.org/zap"

	"github.com/azybler/map_distance/pkg/geo"
	"github.com/azybler/map_distance/pkg/graph"
	"github.com/azybler/map_distance/pkg/logger"
)

// ParseResult holds the road network extracted from an OSM PBF file.
// Nodes are sorted by id and contain exactly the endpoints of Edges.
type ParseResult struct {
	Nodes []graph.Node
	Edges []graph.RawEdge
}

// excludedHighways lists highway values that are not part of the car
// network.
var excludedHighways = map[string]bool{
	"footway":      true,
	"bridleway":    true,
	"steps":        true,
	"path":         true,
	"cycleway":     true,
	"track":        true,
	"proposed":     true,
	"construction": true,
	"pedestrian":   true,
	"rest_area":    true,
	"elevator":     true,
	"raceway":      true,
	"service":      true,
	"unclassified": true,
}

// isRoad returns true if the way belongs to the routable network.
func isRoad(tags osm.Tags) bool {
	hw := tags.Find("highway")
	if hw == "" || excludedHighways[hw] {
		return false
	}

	if tags.Find("area") == "yes" {
		return false
	}

	access := tags.Find("access")
	if access == "no" || access == "private" {
		return false
	}
	if tags.Find("motor_vehicle") == "no" {
		return false
	}

	return true
}

// directionFlags returns (forward, backward) based on highway type and oneway tags.
func directionFlags(tags osm.Tags) (forward, backward bool) {
	forward = true
	backward = true

	hw := tags.Find("highway")

	// Implied oneway for motorways and roundabouts.
	if hw == "motorway" || hw == "motorway_link" || tags.Find("junction") == "roundabout" {
		backward = false
	}

	// Explicit oneway tag overrides.
	switch tags.Find("oneway") {
	case "yes", "true", "1":
		forward = true
		backward = false
	case "-1", "reverse":
		forward = false
		backward = true
	case "no", "false", "0":
		forward = true
		backward = true
	case "reversible":
		// Time dependent, skipped.
		forward = false
		backward = false
	}

	return forward, backward
}

// wayInfo holds the routing relevant part of a way collected in pass 1.
type wayInfo struct {
	NodeIDs  []osm.NodeID
	Forward  bool
	Backward bool
}

// BBox defines a geographic bounding box for filtering.
// If non-zero, only edges with both endpoints inside the box are kept.
type BBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// IsZero returns true if the bbox is unset.
func (b BBox) IsZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLng == 0 && b.MaxLng == 0
}

// Contains returns true if the point is inside the bounding box.
func (b BBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// ParseOptions configures the OSM parser.
type ParseOptions struct {
	BBox BBox // if non-zero, filter edges to this bounding box
}

// Parse reads an OSM PBF file and returns the directed road network with
// edge weights in whole meters. The reader is consumed twice (seeks back to
// start for the second pass), so it must implement io.ReadSeeker.
func Parse(ctx context.Context, rs io.ReadSeeker, log *zap.Logger, opts ...ParseOptions) (*ParseResult, error) {
	log = logger.OrNop(log)
	var opt ParseOptions
	if len(opts) > 0 {
		opt = opts[0]
	}

	// Pass 1: ways and the node ids they reference.
	referenced := make(map[osm.NodeID]struct{})
	var ways []wayInfo

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		w, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		if !isRoad(w.Tags) || len(w.Nodes) < 2 {
			continue
		}

		fwd, bwd := directionFlags(w.Tags)
		if !fwd && !bwd {
			continue
		}

		nodeIDs := make([]osm.NodeID, len(w.Nodes))
		for i, wn := range w.Nodes {
			nodeIDs[i] = wn.ID
			referenced[wn.ID] = struct{}{}
		}
		ways = append(ways, wayInfo{NodeIDs: nodeIDs, Forward: fwd, Backward: bwd})
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 1 (ways): %w", err)
	}
	scanner.Close()

	log.Info("pass 1 complete", zap.Int("ways", len(ways)), zap.Int("referenced_nodes", len(referenced)))

	// Pass 2: coordinates of referenced nodes only.
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek for pass 2: %w", err)
	}

	coords := make(map[osm.NodeID]geo.Point, len(referenced))

	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referenced[n.ID]; !needed {
			continue
		}
		coords[n.ID] = geo.Point{Lat: n.Lat, Lng: n.Lon}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	scanner.Close()

	log.Info("pass 2 complete", zap.Int("coordinates", len(coords)))

	res, st := buildNetwork(ways, coords, opt)
	if st.missing > 0 {
		log.Warn("skipped edges with missing node coordinates", zap.Int("edges", st.missing))
	}
	if st.outside > 0 {
		log.Info("filtered edges outside bounding box", zap.Int("edges", st.outside))
	}
	log.Info("built road network", zap.Int("nodes", len(res.Nodes)), zap.Int("edges", len(res.Edges)))

	return res, nil
}

type buildStats struct {
	missing int // segments with an endpoint lacking coordinates
	outside int // segments dropped by the bounding box
}

// buildNetwork turns consecutive way nodes into directed edges and collects
// their endpoints.
func buildNetwork(ways []wayInfo, coords map[osm.NodeID]geo.Point, opt ParseOptions) (*ParseResult, buildStats) {
	useBBox := !opt.BBox.IsZero()
	used := make(map[osm.NodeID]struct{})
	var edges []graph.RawEdge
	var st buildStats

	for _, w := range ways {
		for i := 0; i < len(w.NodeIDs)-1; i++ {
			fromID := w.NodeIDs[i]
			toID := w.NodeIDs[i+1]

			from, fromOk := coords[fromID]
			to, toOk := coords[toID]
			if !fromOk || !toOk {
				st.missing++
				continue
			}

			if useBBox && (!opt.BBox.Contains(from.Lat, from.Lng) || !opt.BBox.Contains(to.Lat, to.Lng)) {
				st.outside++
				continue
			}

			weight := geo.WeightMeters(from.Lat, from.Lng, to.Lat, to.Lng)
			if w.Forward {
				edges = append(edges, graph.RawEdge{From: int64(fromID), To: int64(toID), Weight: weight})
			}
			if w.Backward {
				edges = append(edges, graph.RawEdge{From: int64(toID), To: int64(fromID), Weight: weight})
			}
			used[fromID] = struct{}{}
			used[toID] = struct{}{}
		}
	}

	nodes := make([]graph.Node, 0, len(used))
	for id := range used {
		p := coords[id]
		nodes = append(nodes, graph.Node{ID: int64(id), Lat: p.Lat, Lng: p.Lng})
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	return &ParseResult{Nodes: nodes, Edges: edges}, st
}
