package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"fleetops-backend/internal/database"
	"fleetops-backend/internal/metrics"
	"fleetops-backend/internal/models"
	"fleetops-backend/internal/services"
	"fleetops-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

// writeTransitionError maps engine errors onto HTTP statuses
func writeTransitionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrVehicleNotFound):
		http.Error(w, "Vehicle not found", http.StatusNotFound)
	case services.IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case services.IsPrecondition(err):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "Transition failed", http.StatusInternalServerError)
	}
}

// adminFCMTokens returns the registered device tokens of all admin users
func adminFCMTokens(db *sqlx.DB) ([]string, error) {
	var tokens []string
	err := db.Select(&tokens, `
		SELECT t.token FROM fcm_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE u.role = 'admin'
	`)
	return tokens, err
}

// ReportBreakdown marks a truck as broken down. The vehicle row is locked for
// the duration of the transition so concurrent reports cannot interleave.
func ReportBreakdown(db *sqlx.DB, hub *websocket.Hub, fcm *services.FCMService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID := chi.URLParam(r, "id")

		var req models.ReportBreakdownRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Reason == "" {
			http.Error(w, "Breakdown reason is required", http.StatusBadRequest)
			return
		}

		tx, err := db.Beginx()
		if err != nil {
			http.Error(w, "Failed to start transaction", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		vehicle, err := database.GetVehicleForUpdate(tx, vehicleID)
		if err == sql.ErrNoRows {
			http.Error(w, "Vehicle not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to fetch vehicle", http.StatusInternalServerError)
			return
		}

		if err := services.ReportBreakdown(&vehicle, req.Reason, time.Now().Unix()); err != nil {
			writeTransitionError(w, err)
			return
		}

		if err := database.SaveVehicleState(tx, vehicle); err != nil {
			http.Error(w, "Failed to save vehicle", http.StatusInternalServerError)
			return
		}
		if err := tx.Commit(); err != nil {
			http.Error(w, "Failed to commit transaction", http.StatusInternalServerError)
			return
		}

		log.Printf("🚨 Breakdown reported: %s (%s) - %s", vehicle.RegistrationNo, vehicle.VehicleClass, req.Reason)
		metrics.BreakdownsReported.WithLabelValues(string(vehicle.VehicleClass)).Inc()

		if hub != nil {
			hub.BroadcastToRole("admin", map[string]interface{}{
				"type":            "breakdown_reported",
				"vehicle_id":      vehicle.ID,
				"registration_no": vehicle.RegistrationNo,
				"reason":          req.Reason,
				"timestamp":       time.Now().UTC().Format(time.RFC3339),
			})
		}

		// Push the alert to every manager with a registered device
		if fcm != nil {
			tokens, err := adminFCMTokens(db)
			if err != nil {
				log.Printf("⚠️ Failed to load admin FCM tokens: %v", err)
			} else if len(tokens) > 0 {
				title, body, data := services.BreakdownAlertMessage(vehicle.RegistrationNo, string(vehicle.VehicleClass), req.Reason)
				if err := fcm.SendMulticast(tokens, title, body, data); err != nil {
					log.Printf("⚠️ FCM breakdown alert failed: %v", err)
				}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(vehicle.ToVehicleResponse())
	}
}

// GetCompatibleSpares lists available spares whose class matches the broken
// down truck. An empty list is a valid answer, not an error.
func GetCompatibleSpares(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID := chi.URLParam(r, "id")

		var breakdown models.Vehicle
		err := db.Get(&breakdown, selectVehicleColumns+" WHERE id = $1", vehicleID)
		if err == sql.ErrNoRows {
			http.Error(w, "Vehicle not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to fetch vehicle", http.StatusInternalServerError)
			return
		}

		var fleet []models.Vehicle
		if err := db.Select(&fleet, selectVehicleColumns+" WHERE is_spare = TRUE ORDER BY registration_no ASC"); err != nil {
			http.Error(w, "Failed to fetch spares", http.StatusInternalServerError)
			return
		}

		spares := services.CompatibleSpares(breakdown, fleet)
		responses := make([]models.VehicleResponse, len(spares))
		for i := range spares {
			responses[i] = spares[i].ToVehicleResponse()
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(responses)
	}
}

// AssignSpare deploys a spare truck onto a broken down truck's route. Both
// vehicle rows are locked in a single transaction; either every side of the
// substitution persists or none of it does.
func AssignSpare(db *sqlx.DB, hub *websocket.Hub, fcm *services.FCMService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.AssignSpareRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.BreakdownVehicleID == "" || req.SpareVehicleID == "" {
			http.Error(w, "Missing required fields: breakdown_vehicle_id and spare_vehicle_id", http.StatusBadRequest)
			return
		}
		if req.BreakdownVehicleID == req.SpareVehicleID {
			http.Error(w, "A vehicle cannot replace itself", http.StatusBadRequest)
			return
		}

		tx, err := db.Beginx()
		if err != nil {
			http.Error(w, "Failed to start transaction", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		// Both rows locked in ascending id order; a concurrent release on the
		// same pair takes its locks the same way
		breakdown, spare, err := database.GetVehiclePairForUpdate(tx, req.BreakdownVehicleID, req.SpareVehicleID)
		var missing *database.MissingVehicleError
		if errors.As(err, &missing) {
			if missing.ID == req.BreakdownVehicleID {
				http.Error(w, "Breakdown vehicle not found", http.StatusNotFound)
			} else {
				http.Error(w, "Spare vehicle not found", http.StatusNotFound)
			}
			return
		}
		if err != nil {
			http.Error(w, "Failed to fetch vehicles", http.StatusInternalServerError)
			return
		}

		record, err := services.AssignSpare(&breakdown, &spare, req.Reason, time.Now().Unix())
		if err != nil {
			metrics.SpareAssignments.WithLabelValues(string(spare.VehicleClass), "rejected").Inc()
			writeTransitionError(w, err)
			return
		}

		if err := database.SaveVehicleState(tx, breakdown); err != nil {
			http.Error(w, "Failed to save breakdown vehicle", http.StatusInternalServerError)
			return
		}
		if err := database.SaveVehicleState(tx, spare); err != nil {
			http.Error(w, "Failed to save spare vehicle", http.StatusInternalServerError)
			return
		}

		record, err = database.AppendAssignmentRecord(tx, record)
		if err != nil {
			http.Error(w, "Failed to record assignment", http.StatusInternalServerError)
			return
		}

		if err := tx.Commit(); err != nil {
			http.Error(w, "Failed to commit transaction", http.StatusInternalServerError)
			return
		}

		log.Printf("🔄 Spare assigned: %s covering %s on %s", spare.RegistrationNo, breakdown.RegistrationNo, spare.CurrentRouteName)
		metrics.SpareAssignments.WithLabelValues(string(spare.VehicleClass), "assigned").Inc()

		if hub != nil {
			hub.BroadcastToRole("admin", map[string]interface{}{
				"type":           "spare_assigned",
				"breakdown_id":   breakdown.ID,
				"spare_id":       spare.ID,
				"spare_reg_no":   spare.RegistrationNo,
				"route_name":     spare.CurrentRouteName,
				"assignment_id":  record.ID,
				"timestamp":      time.Now().UTC().Format(time.RFC3339),
			})
		}

		// Notify the spare's driver if they have a registered device token
		if fcm != nil && spare.DriverID != nil {
			var token string
			if err := db.Get(&token, "SELECT token FROM fcm_tokens WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1", *spare.DriverID); err == nil {
				if err := fcm.SendSpareAssignedNotification(token, spare.RegistrationNo, spare.CurrentRouteName); err != nil {
					log.Printf("⚠️ FCM notification failed for driver %s: %v", *spare.DriverID, err)
				}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"assignment": record.ToAssignmentRecordResponse(),
			"breakdown":  breakdown.ToVehicleResponse(),
			"spare":      spare.ToVehicleResponse(),
		})
	}
}

// ReleaseSpare returns a deployed spare to the available pool and restores
// the truck it was covering to idle duty.
func ReleaseSpare(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spareID := chi.URLParam(r, "id")

		tx, err := db.Beginx()
		if err != nil {
			http.Error(w, "Failed to start transaction", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		// The covered truck's id has to be known before both rows can be
		// locked in ascending order, so read the link without a lock first
		var replacing sql.NullString
		err = tx.Get(&replacing, "SELECT replacing_truck_id FROM vehicles WHERE id = $1", spareID)
		if err == sql.ErrNoRows {
			http.Error(w, "Spare vehicle not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to fetch spare vehicle", http.StatusInternalServerError)
			return
		}
		if !replacing.Valid {
			http.Error(w, "Spare is not currently deployed", http.StatusConflict)
			return
		}

		spare, covered, err := database.GetVehiclePairForUpdate(tx, spareID, replacing.String)
		var missing *database.MissingVehicleError
		if errors.As(err, &missing) {
			if missing.ID == spareID {
				http.Error(w, "Spare vehicle not found", http.StatusNotFound)
			} else {
				http.Error(w, "Covered vehicle not found", http.StatusNotFound)
			}
			return
		}
		if err != nil {
			http.Error(w, "Failed to fetch vehicles", http.StatusInternalServerError)
			return
		}

		// The link may have changed between the unlocked read and taking the
		// locks; the engine re-validates it against the locked rows
		if err := services.ReleaseSpare(&spare, &covered, time.Now().Unix()); err != nil {
			writeTransitionError(w, err)
			return
		}

		if err := database.SaveVehicleState(tx, spare); err != nil {
			http.Error(w, "Failed to save spare vehicle", http.StatusInternalServerError)
			return
		}
		if err := database.SaveVehicleState(tx, covered); err != nil {
			http.Error(w, "Failed to save covered vehicle", http.StatusInternalServerError)
			return
		}
		if err := tx.Commit(); err != nil {
			http.Error(w, "Failed to commit transaction", http.StatusInternalServerError)
			return
		}

		log.Printf("✅ Spare released: %s back in pool, %s restored", spare.RegistrationNo, covered.RegistrationNo)
		metrics.SpareReleases.Inc()

		if hub != nil {
			hub.BroadcastToRole("admin", map[string]interface{}{
				"type":       "spare_released",
				"spare_id":   spare.ID,
				"covered_id": covered.ID,
				"timestamp":  time.Now().UTC().Format(time.RFC3339),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"spare":   spare.ToVehicleResponse(),
			"covered": covered.ToVehicleResponse(),
		})
	}
}
