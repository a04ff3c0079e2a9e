package services

import (
	"testing"

	"fleetops-backend/internal/models"
)

func vendorFleet(vendorID string, nonSpare, spares, deployed int) []models.Vehicle {
	var fleet []models.Vehicle
	for i := 0; i < nonSpare; i++ {
		fleet = append(fleet, models.Vehicle{
			ID:       vendorID + "-t" + string(rune('0'+i)),
			VendorID: vendorID,
			Status:   models.StatusActive,
		})
	}
	for i := 0; i < spares; i++ {
		v := models.Vehicle{
			ID:       vendorID + "-s" + string(rune('0'+i)),
			VendorID: vendorID,
			IsSpare:  true,
			Status:   models.StatusIdle,
		}
		if i < deployed {
			covered := "covered-truck"
			v.ReplacingTruckID = &covered
		}
		fleet = append(fleet, v)
	}
	return fleet
}

func TestEvaluateVendorCompliance(t *testing.T) {
	tests := []struct {
		name          string
		nonSpare      int
		spares        int
		deployed      int
		percent       float64
		wantRequired  int
		wantCompliant bool
	}{
		{"20 trucks at 10 percent needs 2, has 2", 20, 2, 0, 10, 2, true},
		{"20 trucks at 10 percent needs 2, has 1", 20, 1, 0, 10, 2, false},
		{"ceil rounds up", 21, 3, 0, 10, 3, true},
		{"deployed spares still count toward total", 10, 1, 1, 10, 1, true},
		{"zero trucks needs zero spares", 0, 0, 0, 10, 0, true},
		{"exact boundary", 10, 1, 0, 10, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vendor := models.Vendor{ID: "vendor-1", Name: "City Haulers"}
			fleet := vendorFleet("vendor-1", tt.nonSpare, tt.spares, tt.deployed)
			// Another vendor's trucks must not leak into the numbers
			fleet = append(fleet, vendorFleet("vendor-2", 5, 5, 0)...)

			summary := EvaluateVendorCompliance(vendor, fleet, tt.percent)

			if summary.ActiveVehicles != tt.nonSpare {
				t.Fatalf("active vehicles = %d, want %d", summary.ActiveVehicles, tt.nonSpare)
			}
			if summary.TotalSpares != tt.spares {
				t.Fatalf("total spares = %d, want %d", summary.TotalSpares, tt.spares)
			}
			if summary.RequiredSpares != tt.wantRequired {
				t.Fatalf("required spares = %d, want %d", summary.RequiredSpares, tt.wantRequired)
			}
			if summary.DeployedSpares != tt.deployed {
				t.Fatalf("deployed spares = %d, want %d", summary.DeployedSpares, tt.deployed)
			}
			if summary.AvailableSpares != tt.spares-tt.deployed {
				t.Fatalf("available spares = %d, want %d", summary.AvailableSpares, tt.spares-tt.deployed)
			}
			if summary.Compliant != tt.wantCompliant {
				t.Fatalf("compliant = %v, want %v", summary.Compliant, tt.wantCompliant)
			}
		})
	}
}

func TestEvaluateVendorComplianceDoesNotMutate(t *testing.T) {
	vendor := models.Vendor{ID: "vendor-1", Name: "City Haulers"}
	fleet := vendorFleet("vendor-1", 3, 1, 0)
	before := make([]models.Vehicle, len(fleet))
	copy(before, fleet)

	EvaluateVendorCompliance(vendor, fleet, 25)

	for i := range fleet {
		if fleet[i] != before[i] {
			t.Fatalf("vehicle %d mutated by evaluation", i)
		}
	}
}
