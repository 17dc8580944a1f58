package graph

import "sort"

// NodeID is a dense node handle in [0, NodeCount). It is only meaningful
// relative to the Graph that issued it.
type NodeID uint32

// EdgeID is the position of an edge after sorting by source node.
type EdgeID uint32

// InvalidNode marks the absence of a node (e.g. no predecessor).
const InvalidNode = ^NodeID(0)

// Node carries the metadata of a road network vertex.
type Node struct {
	ID  int64 // external id (OSM node id)
	Lat float64
	Lng float64
}

// RawEdge is an input edge keyed by external node ids.
type RawEdge struct {
	From   int64
	To     int64
	Weight uint32 // distance in meters
}

// Edge is a directed edge between two dense node ids.
type Edge struct {
	ID     EdgeID
	From   NodeID
	To     NodeID
	Weight uint32
}

// HalfEdge is an Edge without its source, which is implied by CSR position.
type HalfEdge struct {
	To     NodeID
	Weight uint32
}

// Graph represents a directed graph in CSR (Compressed Sparse Row) format.
// It is immutable once built and safe for concurrent readers.
type Graph struct {
	nodes     []Node     // sorted by external id; index = NodeID
	edges     []Edge     // sorted by source node
	offset    []uint32   // len: NumNodes + 1; offset[i]..offset[i+1] are edges from node i
	halfEdges []HalfEdge // parallel to edges
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of directed edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Contains reports whether n is a valid node id for this graph.
func (g *Graph) Contains(n NodeID) bool { return int(n) < len(g.nodes) }

// OutgoingEdgesOf returns the half-edges leaving node n.
// n must be in range.
func (g *Graph) OutgoingEdgesOf(n NodeID) []HalfEdge {
	return g.halfEdges[g.offset[n]:g.offset[n+1]]
}

// EdgesFrom returns the range of edge ids for edges originating from node n.
func (g *Graph) EdgesFrom(n NodeID) (start, end EdgeID) {
	return EdgeID(g.offset[n]), EdgeID(g.offset[n+1])
}

// Node returns the metadata of node id.
func (g *Graph) Node(id NodeID) Node { return g.nodes[id] }

// Edge returns the edge with the given id.
func (g *Graph) Edge(id EdgeID) Edge { return g.edges[id] }

// NodeByExternalID looks up the dense id of an external node id.
func (g *Graph) NodeByExternalID(id int64) (NodeID, bool) {
	i := sort.Search(len(g.nodes), func(i int) bool {
		return g.nodes[i].ID >= id
	})
	if i < len(g.nodes) && g.nodes[i].ID == id {
		return NodeID(i), true
	}
	return InvalidNode, false
}
