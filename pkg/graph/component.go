package graph

import "sort"

// UnionFind implements a disjoint-set data structure with path halving
// and union by rank.
type UnionFind struct {
	parent []uint32
	rank   []byte // rank stays below 32 for any uint32 node count
	size   []uint32
}

// NewUnionFind creates a UnionFind for n elements.
func NewUnionFind(n uint32) *UnionFind {
	parent := make([]uint32, n)
	size := make([]uint32, n)
	for i := range n {
		parent[i] = i
		size[i] = 1
	}
	return &UnionFind{
		parent: parent,
		rank:   make([]byte, n),
		size:   size,
	}
}

// Find returns the representative of the set containing x.
func (uf *UnionFind) Find(x uint32) uint32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already same set.
func (uf *UnionFind) Union(x, y uint32) bool {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return false
	}

	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// LargestComponent returns the ids, in ascending order, of the nodes in the
// largest weakly connected component (treating the directed graph as
// undirected).
func LargestComponent(g *Graph) []NodeID {
	n := uint32(g.NodeCount())
	if n == 0 {
		return nil
	}

	uf := NewUnionFind(n)
	for _, e := range g.edges {
		uf.Union(uint32(e.From), uint32(e.To))
	}

	bestRoot := uint32(0)
	bestSize := uint32(0)
	for i := range n {
		root := uf.Find(i)
		if uf.size[root] > bestSize {
			bestRoot = root
			bestSize = uf.size[root]
		}
	}

	nodes := make([]NodeID, 0, bestSize)
	for i := range n {
		if uf.Find(i) == bestRoot {
			nodes = append(nodes, NodeID(i))
		}
	}
	return nodes
}

// FilterToComponent creates a new graph containing only the specified nodes
// and the edges between them. Dense ids are reassigned; external ids and
// coordinates are preserved.
func FilterToComponent(g *Graph, keep []NodeID) *Graph {
	if len(keep) == 0 {
		return fromSorted(nil, nil)
	}

	ids := make([]NodeID, len(keep))
	copy(ids, keep)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	oldToNew := make(map[NodeID]NodeID, len(ids))
	nodes := make([]Node, len(ids))
	for newIdx, oldIdx := range ids {
		oldToNew[oldIdx] = NodeID(newIdx)
		nodes[newIdx] = g.nodes[oldIdx]
	}

	// Iterating sources in ascending order keeps the edges sorted by source.
	var edges []Edge
	for _, oldU := range ids {
		start, end := g.EdgesFrom(oldU)
		for e := start; e < end; e++ {
			newV, ok := oldToNew[g.edges[e].To]
			if !ok {
				continue
			}
			edges = append(edges, Edge{
				ID:     EdgeID(len(edges)),
				From:   oldToNew[oldU],
				To:     newV,
				Weight: g.edges[e].Weight,
			})
		}
	}

	return fromSorted(nodes, edges)
}
