package routing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azybler/map_distance/pkg/graph"
)

func TestServiceDistance(t *testing.T) {
	svc := NewService(gridGraph(t), 2)
	ctx := context.Background()

	// 100 is the south west corner, 108 the north east one.
	d, err := svc.Distance(ctx, 100, 108)
	require.NoError(t, err)
	assert.Equal(t, Dist(4*111), d)

	d, err = svc.Distance(ctx, 104, 104)
	require.NoError(t, err)
	assert.Equal(t, Dist(0), d)

	_, err = svc.Distance(ctx, 99, 104)
	assert.ErrorIs(t, err, graph.ErrUnknownNode)

	_, err = svc.Distance(ctx, 104, 999)
	assert.ErrorIs(t, err, graph.ErrUnknownNode)
}

func TestServiceDistanceUnreachable(t *testing.T) {
	g, err := graph.Construct(
		[]graph.Node{{ID: 1, Lat: 1.3, Lng: 103.8}, {ID: 2, Lat: 1.31, Lng: 103.8}},
		[]graph.RawEdge{{From: 1, To: 2, Weight: 1112}},
	)
	require.NoError(t, err)
	svc := NewService(g, 1)

	d, err := svc.Distance(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.Equal(t, Infinity, d)

	_, err = svc.Route(context.Background(), LatLng{Lat: 1.31, Lng: 103.8}, LatLng{Lat: 1.3, Lng: 103.8})
	assert.ErrorIs(t, err, ErrNoRoute)
}

func TestServiceRoute(t *testing.T) {
	svc := NewService(gridGraph(t), 1)

	res, err := svc.Route(context.Background(),
		LatLng{Lat: 1.3, Lng: 103.8},
		LatLng{Lat: 1.3, Lng: 103.802})
	require.NoError(t, err)

	assert.Equal(t, Dist(222), res.DistanceMeters)
	assert.Equal(t, []graph.NodeID{0, 1, 2}, res.Nodes)
	assert.Equal(t, graph.NodeID(0), res.Start.Node)
	assert.Equal(t, graph.NodeID(2), res.End.Node)
	require.Len(t, res.Geometry, 3)
	assert.InDelta(t, 1.3, res.Geometry[1].Lat, 1e-9)
	assert.InDelta(t, 103.801, res.Geometry[1].Lng, 1e-9)
}

func TestServiceRouteTooFar(t *testing.T) {
	svc := NewService(gridGraph(t), 1)

	_, err := svc.Route(context.Background(), LatLng{Lat: 10, Lng: 10}, LatLng{Lat: 1.3, Lng: 103.8})
	assert.ErrorIs(t, err, ErrPointTooFar)
}

func TestServiceRouteCanceled(t *testing.T) {
	svc := NewService(gridGraph(t), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Route(ctx, LatLng{Lat: 1.3, Lng: 103.8}, LatLng{Lat: 1.302, Lng: 103.802})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestServiceImplementsRouter(t *testing.T) {
	var _ Router = (*Service)(nil)
}
