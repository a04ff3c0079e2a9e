package database

import (
	"database/sql"
	"fmt"

	"fleetops-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// The assignment log is append-only: entries are inserted when a spare is
// deployed and never updated or deleted afterwards, including on release.

// AppendAssignmentRecord inserts one deployment log entry inside the caller's
// transaction and returns it with its generated id.
func AppendAssignmentRecord(tx *sqlx.Tx, rec models.AssignmentRecord) (models.AssignmentRecord, error) {
	rec.ID = uuid.New().String()

	_, err := tx.Exec(`
		INSERT INTO assignment_records (id, breakdown_vehicle_id, spare_vehicle_id, route_id, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.ID, rec.BreakdownVehicleID, rec.SpareVehicleID, rec.RouteID, rec.Reason, rec.CreatedAt)
	if err != nil {
		return rec, fmt.Errorf("failed to append assignment record: %w", err)
	}

	return rec, nil
}

// GetAssignmentRecords returns the full deployment log, newest first
func GetAssignmentRecords(db *sqlx.DB) ([]models.AssignmentRecord, error) {
	var records []models.AssignmentRecord
	err := db.Select(&records, `
		SELECT id, breakdown_vehicle_id, spare_vehicle_id, route_id, reason, created_at
		FROM assignment_records
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment records: %w", err)
	}
	return records, nil
}

// GetAssignmentRecordsForVehicle returns log entries where the vehicle was
// either the breakdown truck or the covering spare, newest first
func GetAssignmentRecordsForVehicle(db *sqlx.DB, vehicleID string) ([]models.AssignmentRecord, error) {
	var records []models.AssignmentRecord
	err := db.Select(&records, `
		SELECT id, breakdown_vehicle_id, spare_vehicle_id, route_id, reason, created_at
		FROM assignment_records
		WHERE breakdown_vehicle_id = $1 OR spare_vehicle_id = $1
		ORDER BY created_at DESC, id DESC
	`, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment records for vehicle: %w", err)
	}
	return records, nil
}

// GetVehicleForUpdate loads a vehicle row with a row lock inside a
// transaction. Both sides of a substitution are locked this way so no reader
// in another transaction can observe only one side updated.
func GetVehicleForUpdate(tx *sqlx.Tx, vehicleID string) (models.Vehicle, error) {
	var v models.Vehicle
	err := tx.Get(&v, `
		SELECT id, registration_no, vehicle_class, route_affinity, status, is_spare,
		       replaced_by_spare_id, replacing_truck_id, current_route_name, current_route_id,
		       assigned_gcp, assigned_dump_site, vendor_id, breakdown_time, breakdown_reason,
		       driver_id, created_at, updated_at
		FROM vehicles
		WHERE id = $1
		FOR UPDATE
	`, vehicleID)
	return v, err
}

// MissingVehicleError reports which vehicle of a locked pair does not exist
type MissingVehicleError struct {
	ID string
}

func (e *MissingVehicleError) Error() string {
	return fmt.Sprintf("vehicle %s not found", e.ID)
}

// lockOrder returns two vehicle ids in the order their rows must be locked.
// Every transition that locks a pair goes through this, so two transactions
// touching the same vehicles always take the locks in the same order and
// cannot deadlock each other.
func lockOrder(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// GetVehiclePairForUpdate locks two vehicle rows in ascending id order and
// returns them keyed to the argument order
func GetVehiclePairForUpdate(tx *sqlx.Tx, firstID, secondID string) (models.Vehicle, models.Vehicle, error) {
	lockA, lockB := lockOrder(firstID, secondID)

	a, err := GetVehicleForUpdate(tx, lockA)
	if err == sql.ErrNoRows {
		return models.Vehicle{}, models.Vehicle{}, &MissingVehicleError{ID: lockA}
	}
	if err != nil {
		return models.Vehicle{}, models.Vehicle{}, err
	}

	b, err := GetVehicleForUpdate(tx, lockB)
	if err == sql.ErrNoRows {
		return models.Vehicle{}, models.Vehicle{}, &MissingVehicleError{ID: lockB}
	}
	if err != nil {
		return models.Vehicle{}, models.Vehicle{}, err
	}

	if a.ID == firstID {
		return a, b, nil
	}
	return b, a, nil
}

// SaveVehicleState persists the mutable substitution fields of a vehicle
// inside the caller's transaction
func SaveVehicleState(tx *sqlx.Tx, v models.Vehicle) error {
	_, err := tx.Exec(`
		UPDATE vehicles
		SET status = $1,
		    replaced_by_spare_id = $2,
		    replacing_truck_id = $3,
		    current_route_name = $4,
		    current_route_id = $5,
		    assigned_gcp = $6,
		    assigned_dump_site = $7,
		    breakdown_time = $8,
		    breakdown_reason = $9,
		    updated_at = $10
		WHERE id = $11
	`, v.Status, v.ReplacedBySpareID, v.ReplacingTruckID, v.CurrentRouteName, v.CurrentRouteID,
		v.AssignedGCP, v.AssignedDumpSite, v.BreakdownTime, v.BreakdownReason, v.UpdatedAt, v.ID)
	if err != nil {
		return fmt.Errorf("failed to save vehicle %s: %w", v.ID, err)
	}
	return nil
}
