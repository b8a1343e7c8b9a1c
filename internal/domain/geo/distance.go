package geo

import "math"

const (
	earthRadiusKm = 6371.0

	// cruiseSpeedKmh is the planning speed used for flight time estimates.
	cruiseSpeedKmh = 120.0
)

// DistanceKm returns the great-circle distance between two coordinates using
// the haversine formula.
func DistanceKm(start, end Coordinate) float64 {
	dLat := degreesToRadians(end.Lat - start.Lat)
	dLng := degreesToRadians(end.Lng - start.Lng)

	lat1Rad := degreesToRadians(start.Lat)
	lat2Rad := degreesToRadians(end.Lat)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// PathDistanceKm sums the leg distances along points in the order given.
func PathDistanceKm(points ...Coordinate) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += DistanceKm(points[i-1], points[i])
	}
	return total
}

// EstimatedFlightMinutes returns the flight time at cruise speed, rounded to whole minutes.
func EstimatedFlightMinutes(distanceKm float64) int {
	if distanceKm <= 0 {
		return 0
	}
	return int(math.Round(distanceKm / cruiseSpeedKmh * 60))
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
