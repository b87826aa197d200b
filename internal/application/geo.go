package application

import "math"

// earthRadiusMeters is the mean Earth radius used by the haversine formula.
const earthRadiusMeters = 6371000

// DistanceMeters returns the great-circle distance between two coordinates.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Pow(math.Sin(dLon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// withinRadius reports whether point lies inside the geofence and the
// measured distance. Callers skip the check entirely when no geofence is
// configured on the meeting.
func withinRadius(fence Geofence, lat, lng float64) (float64, bool) {
	distance := DistanceMeters(fence.Lat, fence.Lng, lat, lng)
	return distance, distance <= fence.RadiusMeters
}
