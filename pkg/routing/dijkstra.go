package routing

import (
	"math"

	"github.com/azybler/map_distance/pkg/graph"
)

// Dist is an accumulated path cost in meters.
type Dist uint32

// Infinity is the distance of an unreachable node. It compares greater
// than every finite distance.
const Infinity = Dist(math.MaxUint32)

// SaturatingAdd returns a+b, clamped to Infinity on overflow.
func SaturatingAdd(a, b Dist) Dist {
	s := a + b
	if s < a {
		return Infinity
	}
	return s
}

// MinHeap is a concrete-typed min-heap for Dijkstra priority queue.
// Avoids interface boxing overhead of container/heap.
//
// There is no decrease-key: a node may appear several times and outdated
// entries are discarded when popped.
type MinHeap struct {
	items []PQItem
}

// PQItem is a priority queue entry: a tentative distance to Node reached
// through Pred.
type PQItem struct {
	Dist Dist
	Node graph.NodeID
	Pred graph.NodeID
}

func (h *MinHeap) Len() int { return len(h.items) }

func (h *MinHeap) Push(dist Dist, node, pred graph.NodeID) {
	h.items = append(h.items, PQItem{Dist: dist, Node: node, Pred: pred})
	h.siftUp(len(h.items) - 1)
}

func (h *MinHeap) Pop() PQItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

func (h *MinHeap) PeekDist() Dist {
	if len(h.items) == 0 {
		return Infinity
	}
	return h.items[0].Dist
}

func (h *MinHeap) Reset() {
	h.items = h.items[:0]
}

// siftUp uses hole-sift: saves the floating item and does 1 assignment per
// level instead of 3 (swap).
func (h *MinHeap) siftUp(i int) {
	item := h.items[i]
	for i > 0 {
		parent := (i - 1) / 2
		if item.Dist >= h.items[parent].Dist {
			break
		}
		h.items[i] = h.items[parent]
		i = parent
	}
	h.items[i] = item
}

func (h *MinHeap) siftDown(i int) {
	n := len(h.items)
	item := h.items[i]
	for {
		smallest := 2*i + 1
		if smallest >= n {
			break
		}
		if right := smallest + 1; right < n && h.items[right].Dist < h.items[smallest].Dist {
			smallest = right
		}
		if item.Dist <= h.items[smallest].Dist {
			break
		}
		h.items[i] = h.items[smallest]
		i = smallest
	}
	h.items[i] = item
}
