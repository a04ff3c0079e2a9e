package services

import (
	"fleetops-backend/internal/models"
)

// Shared filter -> aggregate -> paginate pipeline used by every reporting
// endpoint. Filters return new slices and never mutate their input.

// FilterVehiclesByStatus returns the vehicles matching the given status
func FilterVehiclesByStatus(fleet []models.Vehicle, status models.VehicleStatus) []models.Vehicle {
	var out []models.Vehicle
	for _, v := range fleet {
		if v.Status == status {
			out = append(out, v)
		}
	}
	return out
}

// FilterAssignmentsByDateRange returns the records with from <= created_at <= to.
// A zero bound disables that side of the range.
func FilterAssignmentsByDateRange(records []models.AssignmentRecord, from, to int64) []models.AssignmentRecord {
	var out []models.AssignmentRecord
	for _, r := range records {
		if from > 0 && r.CreatedAt < from {
			continue
		}
		if to > 0 && r.CreatedAt > to {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Paginate returns the 1-indexed page of the given size. Pages are not
// clamped: an out-of-range page returns an empty slice and the caller
// decides what to do with it.
func Paginate[T any](data []T, page, pageSize int) []T {
	if page < 1 || pageSize < 1 {
		return []T{}
	}

	start := (page - 1) * pageSize
	if start >= len(data) {
		return []T{}
	}

	end := start + pageSize
	if end > len(data) {
		end = len(data)
	}
	return data[start:end]
}

// StatusCounts aggregates a fleet into per-status totals
func StatusCounts(fleet []models.Vehicle) map[models.VehicleStatus]int {
	counts := make(map[models.VehicleStatus]int)
	for _, v := range fleet {
		counts[v.Status]++
	}
	return counts
}
