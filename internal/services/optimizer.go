package services

import (
	"log"
	"math"

	"fleetops-backend/internal/models"
)

// RouteOptimizer suggests a point ordering using nearest neighbor TSP
type RouteOptimizer struct{}

// NewRouteOptimizer creates a new route optimizer
func NewRouteOptimizer() *RouteOptimizer {
	return &RouteOptimizer{}
}

// OptimizePointOrder reorders route points using nearest neighbor TSP,
// always selecting the closest remaining point from the current location.
// The result is a preview only; order numbers are renumbered 1..N and the
// caller decides whether to save the new sequence.
func (ro *RouteOptimizer) OptimizePointOrder(
	points []models.RoutePoint,
	startLocation Location,
) []models.RoutePoint {
	if len(points) <= 1 {
		return points
	}

	log.Printf("🎯 Starting point order optimization from (%.6f, %.6f)",
		startLocation.Latitude, startLocation.Longitude)
	log.Printf("   Total points to optimize: %d", len(points))

	optimized := make([]models.RoutePoint, 0, len(points))
	remaining := make([]models.RoutePoint, len(points))
	copy(remaining, points)

	current := startLocation

	for len(remaining) > 0 {
		bestIdx := 0
		bestDistance := math.MaxFloat64

		for i, p := range remaining {
			distance := haversineDistance(
				current.Latitude,
				current.Longitude,
				p.Latitude,
				p.Longitude,
			)
			if distance < bestDistance {
				bestDistance = distance
				bestIdx = i
			}
		}

		best := remaining[bestIdx]
		optimized = append(optimized, best)

		current = Location{
			Latitude:  best.Latitude,
			Longitude: best.Longitude,
		}

		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	renumber(optimized)

	log.Printf("✅ Point order optimization complete!")
	log.Printf("   Total distance: %.2f km", RouteDistance(optimized))

	return optimized
}
