// Package geo computes great-circle distances between coordinates.
package geo

import "math"

const earthRadiusKm = 6371.0

// DistanceKm returns the haversine distance between two points in kilometres.
func DistanceKm(lat1, long1, lat2, long2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLong := radians(long2 - long1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLong/2)*math.Sin(dLong/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}

// WithinRadius reports whether the second point is at most radiusKm from the first.
func WithinRadius(lat, long, otherLat, otherLong, radiusKm float64) bool {
	return DistanceKm(lat, long, otherLat, otherLong) <= radiusKm
}

// BoundingBox returns the latitude and longitude ranges that contain every
// point within radiusKm of (lat, long). It is used to pre-filter in SQL.
func BoundingBox(lat, long, radiusKm float64) (minLat, maxLat, minLong, maxLong float64) {
	dLat := radiusKm / earthRadiusKm * 180 / math.Pi
	minLat, maxLat = lat-dLat, lat+dLat

	cosLat := math.Cos(radians(lat))
	if cosLat < 1e-9 || maxLat >= 90 || minLat <= -90 {
		return math.Max(minLat, -90), math.Min(maxLat, 90), -180, 180
	}
	dLong := dLat / cosLat
	return minLat, maxLat, long - dLong, long + dLong
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
