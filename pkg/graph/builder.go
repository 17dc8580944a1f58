package graph

import (
	"fmt"
	"sort"
)

// Construct builds a CSR Graph from raw node and edge lists.
//
// External node ids are renumbered to the dense range [0, N) in ascending
// id order. Edges are remapped, stably sorted by source node and assigned
// their sorted position as id. The inputs are not modified.
func Construct(nodes []Node, edges []RawEdge) (*Graph, error) {
	// Step 1: Sort nodes by external id; position becomes the dense id.
	sorted := make([]Node, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})

	oldToNew := make(map[int64]NodeID, len(sorted))
	for i, n := range sorted {
		if _, dup := oldToNew[n.ID]; dup {
			return nil, &ConstructionError{Edge: -1, NodeID: n.ID, Err: ErrDuplicateNode}
		}
		oldToNew[n.ID] = NodeID(i)
	}

	// Step 2: Remap edge endpoints.
	compact := make([]Edge, len(edges))
	for i, e := range edges {
		from, ok := oldToNew[e.From]
		if !ok {
			return nil, &ConstructionError{Edge: i, NodeID: e.From, Err: ErrUnknownNode}
		}
		to, ok := oldToNew[e.To]
		if !ok {
			return nil, &ConstructionError{Edge: i, NodeID: e.To, Err: ErrUnknownNode}
		}
		compact[i] = Edge{From: from, To: to, Weight: e.Weight}
	}

	// Step 3: Sort edges by source node and reassign ids.
	sort.SliceStable(compact, func(i, j int) bool {
		return compact[i].From < compact[j].From
	})
	for i := range compact {
		compact[i].ID = EdgeID(i)
	}

	return fromSorted(sorted, compact), nil
}

// fromSorted builds the offset and half-edge arrays for edges that are
// already sorted by source and carry dense endpoints.
func fromSorted(nodes []Node, edges []Edge) *Graph {
	numNodes := len(nodes)
	offset := make([]uint32, numNodes+1)
	halfEdges := make([]HalfEdge, len(edges))

	// Build offset via counting.
	for i, e := range edges {
		offset[e.From+1]++
		halfEdges[i] = HalfEdge{To: e.To, Weight: e.Weight}
	}
	// Prefix sum.
	for i := 1; i <= numNodes; i++ {
		offset[i] += offset[i-1]
	}

	return &Graph{
		nodes:     nodes,
		edges:     edges,
		offset:    offset,
		halfEdges: halfEdges,
	}
}

// Validate checks the CSR invariants.
func (g *Graph) Validate() error {
	numNodes := len(g.nodes)
	if len(g.offset) != numNodes+1 {
		return fmt.Errorf("offset length %d != NumNodes+1 %d", len(g.offset), numNodes+1)
	}
	if int(g.offset[numNodes]) != len(g.edges) {
		return fmt.Errorf("offset[%d]=%d != NumEdges=%d", numNodes, g.offset[numNodes], len(g.edges))
	}
	if len(g.halfEdges) != len(g.edges) {
		return fmt.Errorf("half-edge count %d != NumEdges %d", len(g.halfEdges), len(g.edges))
	}
	for i := 1; i <= numNodes; i++ {
		if g.offset[i] < g.offset[i-1] {
			return fmt.Errorf("offset not monotonic at %d: %d < %d", i, g.offset[i], g.offset[i-1])
		}
	}
	for i := 1; i < numNodes; i++ {
		if g.nodes[i].ID <= g.nodes[i-1].ID {
			return fmt.Errorf("node ids not strictly increasing at %d", i)
		}
	}
	for i, e := range g.edges {
		if int(e.ID) != i {
			return fmt.Errorf("edge %d has id %d", i, e.ID)
		}
		if int(e.From) >= numNodes || int(e.To) >= numNodes {
			return fmt.Errorf("edge %d (%d->%d) out of range for %d nodes", i, e.From, e.To, numNodes)
		}
		if i > 0 && e.From < g.edges[i-1].From {
			return fmt.Errorf("edges not sorted by source at %d", i)
		}
		if uint32(i) < g.offset[e.From] || uint32(i) >= g.offset[e.From+1] {
			return fmt.Errorf("edge %d outside the offset range of node %d", i, e.From)
		}
		if g.halfEdges[i] != (HalfEdge{To: e.To, Weight: e.Weight}) {
			return fmt.Errorf("half-edge %d does not match edge", i)
		}
	}
	return nil
}
