package api

// RouteRequest is the JSON body for POST /api/v1/route.
type RouteRequest struct {
	Start LatLngJSON `json:"start"`
	End   LatLngJSON `json:"end"`
}

// LatLngJSON represents a lat/lng pair in JSON.
type LatLngJSON struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

// distanceRequest holds the parsed query of GET /api/v1/distance.
type distanceRequest struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

// DistanceResponse is the JSON response for GET /api/v1/distance.
// DistanceMeters is null when the target is unreachable.
type DistanceResponse struct {
	From           int64   `json:"from"`
	To             int64   `json:"to"`
	DistanceMeters *uint32 `json:"distance_meters"`
	Reachable      bool    `json:"reachable"`
}

// RouteResponse is the JSON response for a successful route query.
type RouteResponse struct {
	DistanceMeters uint32      `json:"distance_meters"`
	NumNodes       int         `json:"num_nodes"`
	Polyline       string      `json:"polyline"`
	Start          SnappedJSON `json:"start"`
	End            SnappedJSON `json:"end"`
}

// SnappedJSON is a query point moved onto the road network.
type SnappedJSON struct {
	Lat                float64 `json:"lat"`
	Lng                float64 `json:"lng"`
	SnapDistanceMeters float64 `json:"snap_distance_meters"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Field   string   `json:"field,omitempty"`
	Details []string `json:"details,omitempty"`
}

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	NumNodes int `json:"num_nodes"`
	NumEdges int `json:"num_edges"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
