package services

import (
	"math"
	"testing"

	"fleetops-backend/internal/models"
)

func TestRouteDistanceFewerThanTwoPoints(t *testing.T) {
	if d := RouteDistance(nil); d != 0 {
		t.Fatalf("distance of nil = %f, want 0", d)
	}
	if d := RouteDistance([]models.RoutePoint{{Latitude: 12.97, Longitude: 77.59}}); d != 0 {
		t.Fatalf("distance of 1 point = %f, want 0", d)
	}
}

func TestRouteDistanceKnownLeg(t *testing.T) {
	// One degree of latitude is about 111.19 km on a 6371 km sphere
	points := []models.RoutePoint{
		{Latitude: 0, Longitude: 0},
		{Latitude: 1, Longitude: 0},
	}

	d := RouteDistance(points)
	want := 6371.0 * math.Pi / 180

	if math.Abs(d-want) > 1e-9 {
		t.Fatalf("distance = %.12f, want %.12f", d, want)
	}
}

func TestRouteDistanceSymmetric(t *testing.T) {
	a := models.RoutePoint{Latitude: 12.9716, Longitude: 77.5946}
	b := models.RoutePoint{Latitude: 13.0827, Longitude: 80.2707}

	ab := RouteDistance([]models.RoutePoint{a, b})
	ba := RouteDistance([]models.RoutePoint{b, a})

	if ab != ba {
		t.Fatalf("distance not symmetric: %.12f vs %.12f", ab, ba)
	}
	if ab <= 0 {
		t.Fatalf("expected positive distance, got %f", ab)
	}
}

func TestRouteDistanceSumsLegs(t *testing.T) {
	a := models.RoutePoint{Latitude: 0, Longitude: 0}
	b := models.RoutePoint{Latitude: 0.5, Longitude: 0}
	c := models.RoutePoint{Latitude: 1, Longitude: 0}

	full := RouteDistance([]models.RoutePoint{a, b, c})
	legs := RouteDistance([]models.RoutePoint{a, b}) + RouteDistance([]models.RoutePoint{b, c})

	if math.Abs(full-legs) > 1e-9 {
		t.Fatalf("summed legs %.12f != full %.12f", legs, full)
	}
}

func TestEstimateMinutes(t *testing.T) {
	// Two coincident points: zero travel, stop time only
	points := []models.RoutePoint{
		{Latitude: 12.97, Longitude: 77.59},
		{Latitude: 12.97, Longitude: 77.59},
	}

	if m := EstimateMinutes(points, 20, 5); m != 10 {
		t.Fatalf("minutes = %d, want 10", m)
	}
	if m := EstimateMinutes(nil, 20, 5); m != 0 {
		t.Fatalf("minutes of empty route = %d, want 0", m)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{45, "45m"},
		{59, "59m"},
		{60, "1h 0m"},
		{75, "1h 15m"},
		{135, "2h 15m"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.minutes); got != tt.want {
			t.Fatalf("FormatDuration(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestOptimizePointOrderVisitsNearestFirst(t *testing.T) {
	points := []models.RoutePoint{
		{ID: "far", Latitude: 10, Longitude: 0, PointType: models.PointPickup},
		{ID: "near", Latitude: 1, Longitude: 0, PointType: models.PointPickup},
		{ID: "mid", Latitude: 5, Longitude: 0, PointType: models.PointPickup},
	}

	ro := NewRouteOptimizer()
	out := ro.OptimizePointOrder(points, Location{Latitude: 0, Longitude: 0})

	wantIDs := []string{"near", "mid", "far"}
	for i, id := range wantIDs {
		if out[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, out[i].ID, id)
		}
		if out[i].Order != i+1 {
			t.Fatalf("position %d: order = %d, want %d", i, out[i].Order, i+1)
		}
	}
}
