package graph

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestConstructSimpleGraph(t *testing.T) {
	// Triangle: 100 -> 200 -> 300 -> 100
	nodes := []Node{
		{ID: 300, Lat: 1.0, Lng: 103.1},
		{ID: 100, Lat: 1.0, Lng: 103.0},
		{ID: 200, Lat: 1.1, Lng: 103.0},
	}
	edges := []RawEdge{
		{From: 100, To: 200, Weight: 1000},
		{From: 200, To: 300, Weight: 2000},
		{From: 300, To: 100, Weight: 3000},
	}

	g, err := Construct(nodes, edges)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}

	if g.NodeCount() != 3 {
		t.Fatalf("NodeCount = %d, want 3", g.NodeCount())
	}
	if g.EdgeCount() != 3 {
		t.Fatalf("EdgeCount = %d, want 3", g.EdgeCount())
	}

	// Dense ids follow external id order.
	for i, want := range []int64{100, 200, 300} {
		if got := g.Node(NodeID(i)).ID; got != want {
			t.Errorf("Node(%d).ID = %d, want %d", i, got, want)
		}
	}

	// Every node has exactly 1 outgoing edge.
	for i := 0; i < g.NodeCount(); i++ {
		if n := len(g.OutgoingEdgesOf(NodeID(i))); n != 1 {
			t.Errorf("Node %d has %d edges, want 1", i, n)
		}
	}

	want := []HalfEdge{{To: 1, Weight: 1000}}
	if diff := cmp.Diff(want, g.OutgoingEdgesOf(0)); diff != "" {
		t.Errorf("OutgoingEdgesOf(0) mismatch (-want +got):\n%s", diff)
	}

	if err := g.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestConstructSortsEdgesAndAssignsIDs(t *testing.T) {
	nodes := []Node{{ID: 10}, {ID: 20}, {ID: 30}, {ID: 40}}
	edges := []RawEdge{
		{From: 30, To: 10, Weight: 5},
		{From: 10, To: 40, Weight: 3},
		{From: 10, To: 20, Weight: 1},
		{From: 20, To: 30, Weight: 2},
	}

	g, err := Construct(nodes, edges)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}

	// Stable sort by source keeps 10->40 before 10->20.
	want := []Edge{
		{ID: 0, From: 0, To: 3, Weight: 3},
		{ID: 1, From: 0, To: 1, Weight: 1},
		{ID: 2, From: 1, To: 2, Weight: 2},
		{ID: 3, From: 2, To: 0, Weight: 5},
	}
	got := make([]Edge, g.EdgeCount())
	for i := range got {
		got[i] = g.Edge(EdgeID(i))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}

	if len(g.OutgoingEdgesOf(3)) != 0 {
		t.Errorf("node 3 should have no outgoing edges")
	}

	// Input slices are not reordered.
	if edges[0].From != 30 || nodes[0].ID != 10 {
		t.Errorf("Construct modified its inputs")
	}
}

func TestConstructEmptyGraph(t *testing.T) {
	g, err := Construct(nil, nil)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	if g.NodeCount() != 0 {
		t.Errorf("NodeCount = %d, want 0", g.NodeCount())
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount = %d, want 0", g.EdgeCount())
	}
	if len(g.offset) != 1 {
		t.Errorf("len(offset) = %d, want 1", len(g.offset))
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestConstructNodesWithoutEdges(t *testing.T) {
	g, err := Construct([]Node{{ID: 5}, {ID: 7}}, nil)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	if g.NodeCount() != 2 {
		t.Fatalf("NodeCount = %d, want 2", g.NodeCount())
	}
	for i := 0; i < g.NodeCount(); i++ {
		if n := len(g.OutgoingEdgesOf(NodeID(i))); n != 0 {
			t.Errorf("Node %d has %d edges, want 0", i, n)
		}
	}
}

func TestConstructCSRInvariants(t *testing.T) {
	// Star graph: center -> A, center -> B, center -> C
	nodes := []Node{{ID: 10}, {ID: 20}, {ID: 30}, {ID: 40}}
	edges := []RawEdge{
		{From: 10, To: 20, Weight: 100},
		{From: 10, To: 30, Weight: 200},
		{From: 10, To: 40, Weight: 300},
		{From: 20, To: 10, Weight: 100},
	}

	g, err := Construct(nodes, edges)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}

	// offset is monotonically non-decreasing.
	for i := 1; i <= g.NodeCount(); i++ {
		if g.offset[i] < g.offset[i-1] {
			t.Errorf("offset[%d]=%d < offset[%d]=%d", i, g.offset[i], i-1, g.offset[i-1])
		}
	}

	// offset[NumNodes] == NumEdges.
	if int(g.offset[g.NodeCount()]) != g.EdgeCount() {
		t.Errorf("offset[%d]=%d != NumEdges=%d", g.NodeCount(), g.offset[g.NodeCount()], g.EdgeCount())
	}

	// Half-edges project the sorted edges.
	for i := 0; i < g.EdgeCount(); i++ {
		e := g.Edge(EdgeID(i))
		if g.halfEdges[i].To != e.To || g.halfEdges[i].Weight != e.Weight {
			t.Errorf("halfEdges[%d] = %+v, edge = %+v", i, g.halfEdges[i], e)
		}
	}

	start, end := g.EdgesFrom(0)
	if end-start != 3 {
		t.Errorf("EdgesFrom(0) spans %d edges, want 3", end-start)
	}
}

func TestConstructUnknownNode(t *testing.T) {
	tests := []struct {
		name    string
		edges   []RawEdge
		wantIdx int
		wantID  int64
	}{
		{
			name:    "unknown source",
			edges:   []RawEdge{{From: 1, To: 2, Weight: 1}, {From: 9, To: 1, Weight: 1}},
			wantIdx: 1,
			wantID:  9,
		},
		{
			name:    "unknown target",
			edges:   []RawEdge{{From: 1, To: 42, Weight: 1}},
			wantIdx: 0,
			wantID:  42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Construct([]Node{{ID: 1}, {ID: 2}}, tt.edges)
			if !errors.Is(err, ErrUnknownNode) {
				t.Fatalf("err = %v, want ErrUnknownNode", err)
			}
			var ce *ConstructionError
			if !errors.As(err, &ce) {
				t.Fatalf("err = %T, want *ConstructionError", err)
			}
			if ce.Edge != tt.wantIdx || ce.NodeID != tt.wantID {
				t.Errorf("ConstructionError = {Edge: %d, NodeID: %d}, want {%d, %d}", ce.Edge, ce.NodeID, tt.wantIdx, tt.wantID)
			}
		})
	}
}

func TestConstructDuplicateNode(t *testing.T) {
	_, err := Construct([]Node{{ID: 1}, {ID: 2}, {ID: 1}}, nil)
	if !errors.Is(err, ErrDuplicateNode) {
		t.Fatalf("err = %v, want ErrDuplicateNode", err)
	}
}

func TestNodeByExternalID(t *testing.T) {
	g, err := Construct([]Node{{ID: 50}, {ID: -3}, {ID: 7}}, nil)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}

	tests := []struct {
		ext    int64
		want   NodeID
		wantOK bool
	}{
		{-3, 0, true},
		{7, 1, true},
		{50, 2, true},
		{8, InvalidNode, false},
		{100, InvalidNode, false},
	}
	for _, tt := range tests {
		got, ok := g.NodeByExternalID(tt.ext)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NodeByExternalID(%d) = (%d, %v), want (%d, %v)", tt.ext, got, ok, tt.want, tt.wantOK)
		}
	}
}
