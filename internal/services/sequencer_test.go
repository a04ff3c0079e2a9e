package services

import (
	"testing"

	"fleetops-backend/internal/models"
)

func makePoints(types ...models.PointType) []models.RoutePoint {
	points := make([]models.RoutePoint, len(types))
	for i, t := range types {
		points[i] = models.RoutePoint{
			ID:        string(rune('a' + i)),
			PointType: t,
			Order:     i + 1,
		}
	}
	return points
}

func assertContiguous(t *testing.T, points []models.RoutePoint) {
	t.Helper()
	for i, p := range points {
		if p.Order != i+1 {
			t.Fatalf("order at index %d = %d, want %d", i, p.Order, i+1)
		}
	}
}

func TestInsertPointAssignsNextOrder(t *testing.T) {
	points := makePoints(models.PointPickup, models.PointPickup)

	points = InsertPoint(points, models.RoutePoint{ID: "x", PointType: models.PointCollectionPoint})

	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if points[2].Order != 3 {
		t.Fatalf("inserted point order = %d, want 3", points[2].Order)
	}
	assertContiguous(t, points)
}

func TestRemovePointRenumbers(t *testing.T) {
	points := makePoints(models.PointPickup, models.PointPickup, models.PointCollectionPoint)

	points = RemovePoint(points, "b")

	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].ID != "a" || points[1].ID != "c" {
		t.Fatalf("unexpected remaining ids: %s, %s", points[0].ID, points[1].ID)
	}
	assertContiguous(t, points)
}

func TestRemovePointUnknownIDIsNoOp(t *testing.T) {
	points := makePoints(models.PointPickup, models.PointCollectionPoint)

	out := RemovePoint(points, "does-not-exist")

	if len(out) != 2 {
		t.Fatalf("expected 2 points, got %d", len(out))
	}
	for i := range points {
		if out[i].ID != points[i].ID || out[i].Order != points[i].Order {
			t.Fatalf("point %d changed: %+v vs %+v", i, out[i], points[i])
		}
	}
}

func TestMovePoint(t *testing.T) {
	tests := []struct {
		name      string
		index     int
		direction string
		wantIDs   []string
	}{
		{"move middle up", 1, MoveUp, []string{"b", "a", "c"}},
		{"move middle down", 1, MoveDown, []string{"a", "c", "b"}},
		{"move first up is no-op", 0, MoveUp, []string{"a", "b", "c"}},
		{"move last down is no-op", 2, MoveDown, []string{"a", "b", "c"}},
		{"out of range index is no-op", 5, MoveUp, []string{"a", "b", "c"}},
		{"unknown direction is no-op", 1, "sideways", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := makePoints(models.PointPickup, models.PointPickup, models.PointCollectionPoint)

			out := MovePoint(points, tt.index, tt.direction)

			if len(out) != len(tt.wantIDs) {
				t.Fatalf("expected %d points, got %d", len(tt.wantIDs), len(out))
			}
			for i, id := range tt.wantIDs {
				if out[i].ID != id {
					t.Fatalf("position %d: got %s, want %s", i, out[i].ID, id)
				}
			}
			assertContiguous(t, out)
		})
	}
}

func TestOrderStaysContiguousAcrossOperations(t *testing.T) {
	points := makePoints(models.PointPickup)

	points = InsertPoint(points, models.RoutePoint{ID: "p2", PointType: models.PointPickup})
	points = InsertPoint(points, models.RoutePoint{ID: "p3", PointType: models.PointPickup})
	points = InsertPoint(points, models.RoutePoint{ID: "p4", PointType: models.PointCollectionPoint})
	points = MovePoint(points, 2, MoveUp)
	points = RemovePoint(points, "p2")
	points = MovePoint(points, 0, MoveDown)
	points = RemovePoint(points, "nope")

	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	assertContiguous(t, points)
}

func TestValidateRouteForSave(t *testing.T) {
	tests := []struct {
		name      string
		routeName string
		routeType models.RouteType
		points    []models.RoutePoint
		wantErr   string
	}{
		{
			name:      "name required",
			routeName: "",
			routeType: models.RoutePrimary,
			points:    makePoints(models.PointPickup, models.PointCollectionPoint),
			wantErr:   "Route name is required",
		},
		{
			name:      "too few points",
			routeName: "Ward 4 morning",
			routeType: models.RoutePrimary,
			points:    makePoints(models.PointPickup),
			wantErr:   "Route needs at least 2 points",
		},
		{
			name:      "primary ok",
			routeName: "Ward 4 morning",
			routeType: models.RoutePrimary,
			points:    makePoints(models.PointPickup, models.PointPickup, models.PointCollectionPoint),
		},
		{
			name:      "primary must end at collection point",
			routeName: "Ward 4 morning",
			routeType: models.RoutePrimary,
			points:    makePoints(models.PointPickup, models.PointDumpingSite),
			wantErr:   "Primary route must end with a collection point",
		},
		{
			name:      "secondary ok",
			routeName: "Transfer leg 2",
			routeType: models.RouteSecondary,
			points:    makePoints(models.PointCollectionPoint, models.PointPickup, models.PointDumpingSite),
		},
		{
			name:      "secondary must start at collection point",
			routeName: "Transfer leg 2",
			routeType: models.RouteSecondary,
			points:    makePoints(models.PointPickup, models.PointDumpingSite),
			wantErr:   "Secondary route must start with a collection point",
		},
		{
			name:      "secondary must end at dumping site",
			routeName: "Transfer leg 2",
			routeType: models.RouteSecondary,
			points:    makePoints(models.PointCollectionPoint, models.PointPickup),
			wantErr:   "Secondary route must end with a dumping site",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRouteForSave(tt.routeName, tt.routeType, tt.points)

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %q, got nil", tt.wantErr)
			}
			if !IsValidation(err) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if err.Error() != tt.wantErr {
				t.Fatalf("error = %q, want %q", err.Error(), tt.wantErr)
			}
		})
	}
}
