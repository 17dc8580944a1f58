package geo

import "math"

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// earthRadiusMeters is the mean earth radius used for all edge weights.
const earthRadiusMeters = 6_371_007.2

// metersPerDegree is the length of one degree of latitude.
const metersPerDegree = math.Pi / 180 * earthRadiusMeters

// Haversine returns the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Asin(math.Min(1, math.Sqrt(a)))

	return earthRadiusMeters * c
}

// WeightMeters returns the haversine distance rounded to whole meters,
// saturating at math.MaxUint32.
func WeightMeters(lat1, lon1, lat2, lon2 float64) uint32 {
	d := math.Round(Haversine(lat1, lon1, lat2, lon2))
	if d >= math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(d)
}

// EquirectangularDist returns an approximate distance in meters.
// ~3x faster than Haversine and accurate for short distances.
// Use for candidate filtering and comparisons, not for final edge weights.
func EquirectangularDist(lat1, lon1, lat2, lon2 float64) float64 {
	x := (lon2 - lon1) * math.Cos((lat1+lat2)/2*math.Pi/180) * math.Pi / 180
	y := (lat2 - lat1) * math.Pi / 180
	return math.Sqrt(x*x+y*y) * earthRadiusMeters
}

// BoundingBox returns the degree box around (lat, lon) that contains every
// point within radius meters.
func BoundingBox(lat, lon, radius float64) (minLat, minLon, maxLat, maxLon float64) {
	dLat := radius / metersPerDegree
	cosLat := math.Cos(lat * math.Pi / 180)
	dLon := 180.0
	if cosLat > 1e-9 {
		dLon = math.Min(180, dLat/cosLat)
	}
	return lat - dLat, lon - dLon, lat + dLat, lon + dLon
}
