package services

import (
	"fleetops-backend/internal/models"
)

// Directions accepted by MovePoint
const (
	MoveUp   = "up"
	MoveDown = "down"
)

// renumber rewrites the Order fields to a contiguous 1..N sequence in the
// points' current slice order
func renumber(points []models.RoutePoint) {
	for i := range points {
		points[i].Order = i + 1
	}
}

// InsertPoint appends a point to the end of the route with the next order
// number. Duplicate positions are allowed; there is no geographic validation.
func InsertPoint(points []models.RoutePoint, p models.RoutePoint) []models.RoutePoint {
	p.Order = len(points) + 1
	return append(points, p)
}

// RemovePoint removes the point with the given id and renumbers the rest.
// Removing an unknown id is a silent no-op.
func RemovePoint(points []models.RoutePoint, pointID string) []models.RoutePoint {
	idx := -1
	for i, p := range points {
		if p.ID == pointID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return points
	}

	out := make([]models.RoutePoint, 0, len(points)-1)
	out = append(out, points[:idx]...)
	out = append(out, points[idx+1:]...)
	renumber(out)
	return out
}

// MovePoint swaps the point at index with its neighbor in the given direction
// and renumbers. Moving past either end of the list is a no-op.
func MovePoint(points []models.RoutePoint, index int, direction string) []models.RoutePoint {
	if index < 0 || index >= len(points) {
		return points
	}

	target := index
	switch direction {
	case MoveUp:
		target = index - 1
	case MoveDown:
		target = index + 1
	default:
		return points
	}

	if target < 0 || target >= len(points) {
		return points
	}

	out := make([]models.RoutePoint, len(points))
	copy(out, points)
	out[index], out[target] = out[target], out[index]
	renumber(out)
	return out
}

// ValidateRouteForSave runs the save-time checks in order: name, point count,
// then the type-specific start/end constraints. A primary route must end at a
// collection point; a secondary route must start at a collection point and
// end at a dumping site. Pure; re-run from scratch on every save attempt.
func ValidateRouteForSave(name string, routeType models.RouteType, points []models.RoutePoint) error {
	if name == "" {
		return &ValidationError{Reason: "Route name is required"}
	}
	if len(points) < 2 {
		return &ValidationError{Reason: "Route needs at least 2 points"}
	}

	first := points[0]
	last := points[len(points)-1]

	switch routeType {
	case models.RoutePrimary:
		if last.PointType != models.PointCollectionPoint {
			return &ValidationError{Reason: "Primary route must end with a collection point"}
		}
	case models.RouteSecondary:
		if first.PointType != models.PointCollectionPoint {
			return &ValidationError{Reason: "Secondary route must start with a collection point"}
		}
		if last.PointType != models.PointDumpingSite {
			return &ValidationError{Reason: "Secondary route must end with a dumping site"}
		}
	}

	return nil
}
