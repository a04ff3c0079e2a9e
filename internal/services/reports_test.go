package services

import (
	"testing"

	"fleetops-backend/internal/models"
)

func TestPaginate(t *testing.T) {
	data := make([]int, 12)
	for i := range data {
		data[i] = i + 1
	}

	tests := []struct {
		name     string
		page     int
		pageSize int
		want     []int
	}{
		{"first page", 1, 5, []int{1, 2, 3, 4, 5}},
		{"middle page", 2, 5, []int{6, 7, 8, 9, 10}},
		{"short last page", 3, 5, []int{11, 12}},
		{"past the end", 4, 5, []int{}},
		{"page zero", 0, 5, []int{}},
		{"negative page", -1, 5, []int{}},
		{"zero page size", 1, 0, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(data, tt.page, tt.pageSize)

			if len(got) != len(tt.want) {
				t.Fatalf("got %d items, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("item %d = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFilterAssignmentsByDateRange(t *testing.T) {
	records := []models.AssignmentRecord{
		{ID: "a", CreatedAt: 100},
		{ID: "b", CreatedAt: 200},
		{ID: "c", CreatedAt: 300},
	}

	tests := []struct {
		name    string
		from    int64
		to      int64
		wantIDs []string
	}{
		{"inside range", 150, 250, []string{"b"}},
		{"inclusive bounds", 100, 300, []string{"a", "b", "c"}},
		{"open from", 0, 200, []string{"a", "b"}},
		{"open to", 200, 0, []string{"b", "c"}},
		{"fully open", 0, 0, []string{"a", "b", "c"}},
		{"empty result", 400, 500, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterAssignmentsByDateRange(records, tt.from, tt.to)

			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d records, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Fatalf("record %d = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestFilterVehiclesByStatus(t *testing.T) {
	fleet := []models.Vehicle{
		{ID: "v1", Status: models.StatusActive},
		{ID: "v2", Status: models.StatusBreakdown},
		{ID: "v3", Status: models.StatusActive},
		{ID: "v4", Status: models.StatusIdle},
	}

	active := FilterVehiclesByStatus(fleet, models.StatusActive)
	if len(active) != 2 || active[0].ID != "v1" || active[1].ID != "v3" {
		t.Fatalf("active filter wrong: %+v", active)
	}

	broken := FilterVehiclesByStatus(fleet, models.StatusBreakdown)
	if len(broken) != 1 || broken[0].ID != "v2" {
		t.Fatalf("breakdown filter wrong: %+v", broken)
	}

	if got := FilterVehiclesByStatus(fleet, models.StatusOffline); len(got) != 0 {
		t.Fatalf("expected no offline vehicles, got %d", len(got))
	}
}

func TestStatusCounts(t *testing.T) {
	fleet := []models.Vehicle{
		{Status: models.StatusActive},
		{Status: models.StatusActive},
		{Status: models.StatusBreakdown},
	}

	counts := StatusCounts(fleet)

	if counts[models.StatusActive] != 2 {
		t.Fatalf("active count = %d, want 2", counts[models.StatusActive])
	}
	if counts[models.StatusBreakdown] != 1 {
		t.Fatalf("breakdown count = %d, want 1", counts[models.StatusBreakdown])
	}
}
