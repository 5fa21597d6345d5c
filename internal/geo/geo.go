// Package geo provides great-circle distance and bounding-box helpers on a
// spherical-earth approximation. Pure functions, no I/O.
package geo

import "math"

const (
	earthRadiusMeters = 6371000.0
	earthRadiusKm     = 6371.0
)

// DistanceMeters returns the haversine distance between two points in meters.
// Symmetric, and 0 for identical points.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// BoundingBox is an axis-aligned lat/lon range approximating a circular
// search radius. A cheap index-friendly prefilter: points near the corners
// may fall outside the true circle.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// BoxAround computes the bounding box for a radius (km) around a point
// using the small-angle approximation. The longitude span widens with
// latitude to keep the box roughly radius-wide on the ground.
func BoxAround(lat, lon, radiusKm float64) BoundingBox {
	latChange := (radiusKm / earthRadiusKm) * (180 / math.Pi)
	lonChange := (radiusKm / (earthRadiusKm * math.Cos(lat*math.Pi/180))) * (180 / math.Pi)

	return BoundingBox{
		MinLat: lat - latChange,
		MaxLat: lat + latChange,
		MinLon: lon - lonChange,
		MaxLon: lon + lonChange,
	}
}

// ValidLatLon reports whether the coordinates are within
// [-90,90] x [-180,180].
func ValidLatLon(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
