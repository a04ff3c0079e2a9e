package services

import (
	"errors"
	"testing"

	"fleetops-backend/internal/models"
)

func strPtr(s string) *string { return &s }

func breakdownTruck() models.Vehicle {
	gcp := "GCP-7 Market Yard"
	dump := "North Transfer Station"
	routeID := "route-12"
	now := int64(1700000000)
	reason := "engine overheating"
	return models.Vehicle{
		ID:               "truck-1",
		RegistrationNo:   "KA-01-1234",
		VehicleClass:     models.ClassCompactor,
		RouteAffinity:    models.AffinityPrimary,
		Status:           models.StatusBreakdown,
		CurrentRouteName: "Ward 4 morning",
		CurrentRouteID:   &routeID,
		AssignedGCP:      &gcp,
		AssignedDumpSite: &dump,
		VendorID:         "vendor-1",
		BreakdownTime:    &now,
		BreakdownReason:  &reason,
	}
}

func spareTruck() models.Vehicle {
	return models.Vehicle{
		ID:               "spare-1",
		RegistrationNo:   "KA-01-9001",
		VehicleClass:     models.ClassCompactor,
		RouteAffinity:    models.AffinityPrimary,
		Status:           models.StatusIdle,
		IsSpare:          true,
		CurrentRouteName: models.UnassignedRoute,
		VendorID:         "vendor-1",
	}
}

func TestReportBreakdown(t *testing.T) {
	v := models.Vehicle{
		ID:             "truck-2",
		RegistrationNo: "KA-01-5678",
		VehicleClass:   models.ClassDumper,
		Status:         models.StatusActive,
	}

	if err := ReportBreakdown(&v, "flat tire", 1700000100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Status != models.StatusBreakdown {
		t.Fatalf("status = %s, want breakdown", v.Status)
	}
	if v.BreakdownReason == nil || *v.BreakdownReason != "flat tire" {
		t.Fatalf("breakdown reason not recorded")
	}
	if v.BreakdownTime == nil || *v.BreakdownTime != 1700000100 {
		t.Fatalf("breakdown time not recorded")
	}

	// Reporting again is refused
	if err := ReportBreakdown(&v, "again", 1700000200); !IsPrecondition(err) {
		t.Fatalf("expected PreconditionError on double report, got %v", err)
	}
}

func TestReportBreakdownRejectsSpare(t *testing.T) {
	v := spareTruck()

	err := ReportBreakdown(&v, "noise", 1700000100)

	if !IsPrecondition(err) {
		t.Fatalf("expected PreconditionError, got %v", err)
	}
	if v.Status != models.StatusIdle {
		t.Fatalf("spare was mutated on refused transition")
	}
}

func TestAssignSpareUpdatesBothSides(t *testing.T) {
	bd := breakdownTruck()
	spare := spareTruck()

	rec, err := AssignSpare(&bd, &spare, "engine overheating", 1700000500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if bd.ReplacedBySpareID == nil || *bd.ReplacedBySpareID != spare.ID {
		t.Fatalf("breakdown truck does not point at spare")
	}
	if spare.ReplacingTruckID == nil || *spare.ReplacingTruckID != bd.ID {
		t.Fatalf("spare does not point at breakdown truck")
	}
	if spare.Status != models.StatusMoving {
		t.Fatalf("spare status = %s, want moving", spare.Status)
	}
	if spare.CurrentRouteName != bd.CurrentRouteName {
		t.Fatalf("spare did not inherit route name")
	}
	if spare.AssignedGCP == nil || *spare.AssignedGCP != *bd.AssignedGCP {
		t.Fatalf("spare did not inherit collection point")
	}
	if spare.AssignedDumpSite == nil || *spare.AssignedDumpSite != *bd.AssignedDumpSite {
		t.Fatalf("spare did not inherit dumping site")
	}

	if rec.BreakdownVehicleID != bd.ID || rec.SpareVehicleID != spare.ID {
		t.Fatalf("assignment record ids wrong: %+v", rec)
	}
	if rec.RouteID == nil || *rec.RouteID != *bd.CurrentRouteID {
		t.Fatalf("assignment record route id wrong")
	}
	if rec.Reason != "engine overheating" {
		t.Fatalf("assignment record reason = %q", rec.Reason)
	}
}

func TestAssignSpareRefusalsLeaveStateUntouched(t *testing.T) {
	tests := []struct {
		name  string
		bd    func() models.Vehicle
		spare func() models.Vehicle
	}{
		{
			name: "target not broken down",
			bd: func() models.Vehicle {
				v := breakdownTruck()
				v.Status = models.StatusActive
				return v
			},
			spare: spareTruck,
		},
		{
			name: "spare flag missing",
			bd:   breakdownTruck,
			spare: func() models.Vehicle {
				v := spareTruck()
				v.IsSpare = false
				return v
			},
		},
		{
			name: "spare already deployed",
			bd:   breakdownTruck,
			spare: func() models.Vehicle {
				v := spareTruck()
				v.ReplacingTruckID = strPtr("other-truck")
				return v
			},
		},
		{
			name: "spare offline",
			bd:   breakdownTruck,
			spare: func() models.Vehicle {
				v := spareTruck()
				v.Status = models.StatusOffline
				return v
			},
		},
		{
			name: "class mismatch",
			bd:   breakdownTruck,
			spare: func() models.Vehicle {
				v := spareTruck()
				v.VehicleClass = models.ClassDumper
				return v
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bd := tt.bd()
			spare := tt.spare()
			bdBefore := bd
			spareBefore := spare

			_, err := AssignSpare(&bd, &spare, "r", 1700000500)

			if !IsPrecondition(err) {
				t.Fatalf("expected PreconditionError, got %v", err)
			}
			if bd != bdBefore {
				t.Fatalf("breakdown truck mutated on refusal: %+v", bd)
			}
			if spare != spareBefore {
				t.Fatalf("spare mutated on refusal: %+v", spare)
			}
		})
	}
}

func TestCompatibleSpares(t *testing.T) {
	bd := breakdownTruck()
	fleet := []models.Vehicle{
		bd,
		spareTruck(), // eligible
		func() models.Vehicle {
			v := spareTruck()
			v.ID = "spare-2"
			v.VehicleClass = models.ClassDumper // wrong class
			return v
		}(),
		func() models.Vehicle {
			v := spareTruck()
			v.ID = "spare-3"
			v.Status = models.StatusOffline // offline
			return v
		}(),
		func() models.Vehicle {
			v := spareTruck()
			v.ID = "spare-4"
			v.ReplacingTruckID = strPtr("other") // deployed
			return v
		}(),
		func() models.Vehicle {
			v := spareTruck()
			v.ID = "not-spare"
			v.IsSpare = false
			return v
		}(),
	}

	spares := CompatibleSpares(bd, fleet)

	if len(spares) != 1 || spares[0].ID != "spare-1" {
		t.Fatalf("compatible spares = %+v, want only spare-1", spares)
	}

	// Fleet-wide availability ignores class
	available := AvailableSpares(fleet)
	if len(available) != 2 {
		t.Fatalf("available spares = %d, want 2 (spare-1 and the dumper)", len(available))
	}
}

func TestReleaseSpareRestoresIdle(t *testing.T) {
	bd := breakdownTruck()
	spare := spareTruck()
	if _, err := AssignSpare(&bd, &spare, "engine overheating", 1700000500); err != nil {
		t.Fatalf("setup assign failed: %v", err)
	}

	if err := ReleaseSpare(&spare, &bd, 1700001000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if bd.Status != models.StatusIdle {
		t.Fatalf("covered truck status = %s, want idle", bd.Status)
	}
	if bd.ReplacedBySpareID != nil {
		t.Fatalf("covered truck still points at spare")
	}
	if bd.BreakdownTime != nil || bd.BreakdownReason != nil {
		t.Fatalf("breakdown info not cleared")
	}

	if spare.ReplacingTruckID != nil {
		t.Fatalf("spare still deployed")
	}
	if spare.Status != models.StatusIdle {
		t.Fatalf("spare status = %s, want idle", spare.Status)
	}
	if spare.CurrentRouteName != models.UnassignedRoute {
		t.Fatalf("spare route = %q, want %q", spare.CurrentRouteName, models.UnassignedRoute)
	}
	if spare.CurrentRouteID != nil || spare.AssignedGCP != nil {
		t.Fatalf("spare route id or collection point not cleared")
	}
	if spare.AssignedDumpSite != nil {
		t.Fatalf("primary-affinity spare should drop its dumping site")
	}
}

func TestReleaseSecondarySpareKeepsDumpSite(t *testing.T) {
	bd := breakdownTruck()
	spare := spareTruck()
	spare.RouteAffinity = models.AffinitySecondary

	if _, err := AssignSpare(&bd, &spare, "clutch failure", 1700000500); err != nil {
		t.Fatalf("setup assign failed: %v", err)
	}
	if err := ReleaseSpare(&spare, &bd, 1700001000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Secondary trucks stay bound to their disposal site even when idle
	if spare.AssignedDumpSite == nil || *spare.AssignedDumpSite != "North Transfer Station" {
		t.Fatalf("secondary spare lost its dumping site")
	}
	if spare.AssignedGCP != nil {
		t.Fatalf("collection point should be cleared regardless of affinity")
	}
}

func TestReleaseSpareRefusals(t *testing.T) {
	spare := spareTruck()
	other := breakdownTruck()

	// Not deployed
	if err := ReleaseSpare(&spare, &other, 1700001000); !IsPrecondition(err) {
		t.Fatalf("expected PreconditionError, got %v", err)
	}

	// Deployed, but the covered vehicle does not match
	spare.ReplacingTruckID = strPtr("someone-else")
	if err := ReleaseSpare(&spare, &other, 1700001000); !errors.Is(err, ErrVehicleNotFound) {
		t.Fatalf("expected ErrVehicleNotFound, got %v", err)
	}
	if other.Status != models.StatusBreakdown {
		t.Fatalf("mismatched release mutated the covered vehicle")
	}
}
