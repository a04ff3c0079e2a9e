package services

import (
	"fmt"
	"math"

	"fleetops-backend/internal/models"
)

// Default constants for travel time estimation. Collection trucks average
// about 20 km/h in city traffic and spend roughly 5 minutes at each stop.
const (
	DefaultAvgSpeedKmh = 20.0
	DefaultStopMinutes = 5
)

// Location represents a geographic point
type Location struct {
	Latitude  float64
	Longitude float64
}

// haversineDistance calculates the distance between two GPS coordinates in kilometers
func haversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371.0 // Earth's radius in kilometers

	// Convert to radians
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	// Haversine formula
	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// Distance returns the great-circle distance between two locations in kilometers
func Distance(a, b Location) float64 {
	return haversineDistance(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// RouteDistance sums the leg distances between consecutive points, in
// kilometers. Returns 0 for fewer than 2 points.
func RouteDistance(points []models.RoutePoint) float64 {
	if len(points) < 2 {
		return 0
	}

	total := 0.0
	for i := 1; i < len(points); i++ {
		total += haversineDistance(
			points[i-1].Latitude, points[i-1].Longitude,
			points[i].Latitude, points[i].Longitude,
		)
	}
	return total
}

// EstimateMinutes returns the rounded total minutes for a route: travel time
// at avgSpeedKmh plus stopMinutes per point.
func EstimateMinutes(points []models.RoutePoint, avgSpeedKmh float64, stopMinutes int) int {
	travelMinutes := RouteDistance(points) / avgSpeedKmh * 60
	return int(math.Round(travelMinutes + float64(len(points)*stopMinutes)))
}

// FormatDuration renders minutes as "2h 15m" or "45m"
func FormatDuration(totalMinutes int) string {
	if totalMinutes >= 60 {
		return fmt.Sprintf("%dh %dm", totalMinutes/60, totalMinutes%60)
	}
	return fmt.Sprintf("%dm", totalMinutes)
}

// EstimateTime returns the formatted time estimate for a route using the
// default speed and stop-time constants
func EstimateTime(points []models.RoutePoint) string {
	return FormatDuration(EstimateMinutes(points, DefaultAvgSpeedKmh, DefaultStopMinutes))
}
