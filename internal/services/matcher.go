package services

import (
	"fmt"

	"fleetops-backend/internal/models"
)

// Fleet substitution rules. Each transition validates all preconditions
// before touching any field, so a refused transition leaves both vehicles
// exactly as they were. Persistence and locking are the caller's problem;
// handlers run these inside a single database transaction.

// CompatibleSpares returns the spares eligible to cover the given breakdown
// truck: held in reserve, not currently deployed, not offline, and of the
// exact same vehicle class. There is no fallback to other classes.
func CompatibleSpares(breakdown models.Vehicle, fleet []models.Vehicle) []models.Vehicle {
	var spares []models.Vehicle
	for _, v := range fleet {
		if !v.IsSpare {
			continue
		}
		if v.ReplacingTruckID != nil {
			continue
		}
		if v.Status == models.StatusOffline {
			continue
		}
		if v.VehicleClass != breakdown.VehicleClass {
			continue
		}
		spares = append(spares, v)
	}
	return spares
}

// AvailableSpares returns every spare that is free to be deployed,
// regardless of class. Used for fleet-wide dashboard counts.
func AvailableSpares(fleet []models.Vehicle) []models.Vehicle {
	var spares []models.Vehicle
	for _, v := range fleet {
		if v.IsSpare && v.ReplacingTruckID == nil && v.Status != models.StatusOffline {
			spares = append(spares, v)
		}
	}
	return spares
}

// ReportBreakdown marks a non-spare truck as broken down. The truck keeps its
// route assignment; no spare is touched until one is explicitly assigned.
func ReportBreakdown(v *models.Vehicle, reason string, now int64) error {
	if v.IsSpare {
		return &PreconditionError{Reason: fmt.Sprintf("Vehicle %s is a spare and cannot report a breakdown", v.RegistrationNo)}
	}
	if v.Status == models.StatusBreakdown {
		return &PreconditionError{Reason: fmt.Sprintf("Vehicle %s is already broken down", v.RegistrationNo)}
	}

	v.Status = models.StatusBreakdown
	v.BreakdownTime = &now
	v.BreakdownReason = &reason
	v.UpdatedAt = now
	return nil
}

// AssignSpare deploys a spare truck to cover a broken-down truck. Both sides
// are updated together: the breakdown truck records which spare covers it,
// and the spare inherits the breakdown truck's route, collection point and
// dumping site. Returns the log entry to append; the caller persists both
// vehicles and the entry in one transaction.
func AssignSpare(bd *models.Vehicle, spare *models.Vehicle, reason string, now int64) (models.AssignmentRecord, error) {
	var rec models.AssignmentRecord

	if bd.Status != models.StatusBreakdown {
		return rec, &PreconditionError{Reason: fmt.Sprintf("Vehicle %s is not broken down", bd.RegistrationNo)}
	}
	if !spare.IsSpare {
		return rec, &PreconditionError{Reason: fmt.Sprintf("Vehicle %s is not a spare", spare.RegistrationNo)}
	}
	if spare.ReplacingTruckID != nil {
		return rec, &PreconditionError{Reason: fmt.Sprintf("Spare %s is already deployed", spare.RegistrationNo)}
	}
	if spare.Status == models.StatusOffline {
		return rec, &PreconditionError{Reason: fmt.Sprintf("Spare %s is offline", spare.RegistrationNo)}
	}
	if spare.VehicleClass != bd.VehicleClass {
		return rec, &PreconditionError{Reason: fmt.Sprintf("No compatible spare of class %s available: %s is a %s",
			bd.VehicleClass, spare.RegistrationNo, spare.VehicleClass)}
	}

	bd.ReplacedBySpareID = &spare.ID
	bd.UpdatedAt = now

	spare.ReplacingTruckID = &bd.ID
	spare.CurrentRouteName = bd.CurrentRouteName
	spare.CurrentRouteID = bd.CurrentRouteID
	spare.AssignedGCP = bd.AssignedGCP
	spare.AssignedDumpSite = bd.AssignedDumpSite
	spare.Status = models.StatusMoving
	spare.UpdatedAt = now

	rec = models.AssignmentRecord{
		BreakdownVehicleID: bd.ID,
		SpareVehicleID:     spare.ID,
		RouteID:            bd.CurrentRouteID,
		Reason:             reason,
		CreatedAt:          now,
	}
	return rec, nil
}

// ReleaseSpare returns a deployed spare to the available pool and restores
// the covered truck to idle. Secondary-affinity spares keep their dumping
// site even while idle; secondary trucks are permanently bound to a disposal
// site independent of route. The assignment log is never touched here.
func ReleaseSpare(spare *models.Vehicle, covered *models.Vehicle, now int64) error {
	if spare.ReplacingTruckID == nil {
		return &PreconditionError{Reason: fmt.Sprintf("Spare %s is not deployed", spare.RegistrationNo)}
	}
	if covered == nil || covered.ID != *spare.ReplacingTruckID {
		return ErrVehicleNotFound
	}

	covered.Status = models.StatusIdle
	covered.ReplacedBySpareID = nil
	covered.BreakdownTime = nil
	covered.BreakdownReason = nil
	covered.UpdatedAt = now

	spare.ReplacingTruckID = nil
	spare.CurrentRouteName = models.UnassignedRoute
	spare.CurrentRouteID = nil
	spare.AssignedGCP = nil
	if spare.RouteAffinity != models.AffinitySecondary {
		spare.AssignedDumpSite = nil
	}
	spare.Status = models.StatusIdle
	spare.UpdatedAt = now
	return nil
}
