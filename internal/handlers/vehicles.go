package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"fleetops-backend/internal/database"
	"fleetops-backend/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const selectVehicleColumns = `
	SELECT id, registration_no, vehicle_class, route_affinity, status, is_spare,
	       replaced_by_spare_id, replacing_truck_id, current_route_name, current_route_id,
	       assigned_gcp, assigned_dump_site, vendor_id, breakdown_time, breakdown_reason,
	       driver_id, created_at, updated_at
	FROM vehicles`

// GetVehicles returns the fleet, optionally filtered by status, vendor or spare flag
func GetVehicles(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := selectVehicleColumns
		args := []interface{}{}
		where := ""

		if status := r.URL.Query().Get("status"); status != "" {
			if !models.VehicleStatus(status).IsValid() {
				http.Error(w, "Invalid status filter", http.StatusBadRequest)
				return
			}
			where = " WHERE status = $1"
			args = append(args, status)
		} else if vendorID := r.URL.Query().Get("vendor_id"); vendorID != "" {
			where = " WHERE vendor_id = $1"
			args = append(args, vendorID)
		} else if r.URL.Query().Get("spares") == "true" {
			where = " WHERE is_spare = TRUE"
		}

		var vehicles []models.Vehicle
		if err := db.Select(&vehicles, query+where+" ORDER BY registration_no ASC", args...); err != nil {
			http.Error(w, "Failed to fetch vehicles", http.StatusInternalServerError)
			return
		}

		responses := make([]models.VehicleResponse, len(vehicles))
		for i := range vehicles {
			responses[i] = vehicles[i].ToVehicleResponse()
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(responses)
	}
}

// GetVehicle returns a single vehicle
func GetVehicle(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID := chi.URLParam(r, "id")

		var vehicle models.Vehicle
		err := db.Get(&vehicle, selectVehicleColumns+" WHERE id = $1", vehicleID)
		if err == sql.ErrNoRows {
			http.Error(w, "Vehicle not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to fetch vehicle", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(vehicle.ToVehicleResponse())
	}
}

// CreateVehicle registers a new truck in the fleet
func CreateVehicle(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateVehicleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		// Validate required fields. Class, affinity and status are closed
		// enumerations; invalid values are rejected here rather than stored.
		if req.RegistrationNo == "" || req.VendorID == "" {
			http.Error(w, "Missing required fields: registration_no and vendor_id", http.StatusBadRequest)
			return
		}
		if !req.VehicleClass.IsValid() {
			http.Error(w, "Invalid vehicle_class", http.StatusBadRequest)
			return
		}
		if !req.RouteAffinity.IsValid() {
			http.Error(w, "Invalid route_affinity", http.StatusBadRequest)
			return
		}

		id := uuid.New().String()
		now := time.Now().Unix()

		// New trucks start idle; spares start in the available pool
		_, err := db.Exec(`
			INSERT INTO vehicles (id, registration_no, vehicle_class, route_affinity, status, is_spare,
			                      current_route_name, assigned_gcp, assigned_dump_site, vendor_id, driver_id,
			                      created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`, id, req.RegistrationNo, req.VehicleClass, req.RouteAffinity, models.StatusIdle, req.IsSpare,
			models.UnassignedRoute, req.AssignedGCP, req.AssignedDumpSite, req.VendorID, req.DriverID, now, now)
		if err != nil {
			http.Error(w, "Failed to create vehicle", http.StatusInternalServerError)
			return
		}

		var created models.Vehicle
		if err := db.Get(&created, selectVehicleColumns+" WHERE id = $1", id); err != nil {
			http.Error(w, "Failed to fetch created vehicle", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created.ToVehicleResponse())
	}
}

// UpdateVehicle patches mutable vehicle fields. Substitution links and spare
// flags are only ever changed by the breakdown/assign/release transitions.
func UpdateVehicle(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID := chi.URLParam(r, "id")

		var req models.UpdateVehicleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if req.Status != nil && !req.Status.IsValid() {
			http.Error(w, "Invalid status", http.StatusBadRequest)
			return
		}
		if req.Status != nil && *req.Status == models.StatusBreakdown {
			http.Error(w, "Use the breakdown endpoint to report a breakdown", http.StatusBadRequest)
			return
		}

		now := time.Now().Unix()

		result, err := db.Exec(`
			UPDATE vehicles
			SET registration_no = COALESCE($1, registration_no),
			    status = COALESCE($2, status),
			    assigned_gcp = COALESCE($3, assigned_gcp),
			    assigned_dump_site = COALESCE($4, assigned_dump_site),
			    driver_id = COALESCE($5, driver_id),
			    updated_at = $6
			WHERE id = $7
		`, req.RegistrationNo, req.Status, req.AssignedGCP, req.AssignedDumpSite, req.DriverID, now, vehicleID)
		if err != nil {
			http.Error(w, "Failed to update vehicle", http.StatusInternalServerError)
			return
		}

		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			http.Error(w, "Vehicle not found", http.StatusNotFound)
			return
		}

		var updated models.Vehicle
		if err := db.Get(&updated, selectVehicleColumns+" WHERE id = $1", vehicleID); err != nil {
			http.Error(w, "Failed to fetch updated vehicle", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated.ToVehicleResponse())
	}
}

// DeleteVehicle removes a truck from the fleet. A deployed spare or a covered
// breakdown truck cannot be deleted while the substitution link exists.
func DeleteVehicle(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID := chi.URLParam(r, "id")

		var vehicle models.Vehicle
		err := db.Get(&vehicle, selectVehicleColumns+" WHERE id = $1", vehicleID)
		if err == sql.ErrNoRows {
			http.Error(w, "Vehicle not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to fetch vehicle", http.StatusInternalServerError)
			return
		}

		if vehicle.ReplacedBySpareID != nil || vehicle.ReplacingTruckID != nil {
			http.Error(w, "Vehicle is part of an active substitution; release the spare first", http.StatusConflict)
			return
		}

		if _, err := db.Exec("DELETE FROM vehicles WHERE id = $1", vehicleID); err != nil {
			http.Error(w, "Failed to delete vehicle", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// GetVehicleAssignments returns the deployment log entries involving a vehicle
func GetVehicleAssignments(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID := chi.URLParam(r, "id")

		records, err := database.GetAssignmentRecordsForVehicle(db, vehicleID)
		if err != nil {
			http.Error(w, "Failed to fetch assignment records", http.StatusInternalServerError)
			return
		}

		responses := make([]models.AssignmentRecordResponse, len(records))
		for i := range records {
			responses[i] = records[i].ToAssignmentRecordResponse()
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(responses)
	}
}
