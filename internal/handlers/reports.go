package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"fleetops-backend/internal/database"
	"fleetops-backend/internal/models"
	"fleetops-backend/internal/services"

	"github.com/jmoiron/sqlx"
)

// parseUnixParam reads an optional Unix-timestamp query parameter; 0 means absent
func parseUnixParam(r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// GetAssignmentReport returns the deployment log, newest first, with optional
// date range filtering and page/page_size pagination. Pages are 1-indexed and
// a page past the end of the data comes back empty.
func GetAssignmentReport(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, ok := parseUnixParam(r, "from")
		if !ok {
			http.Error(w, "Invalid from parameter", http.StatusBadRequest)
			return
		}
		to, ok := parseUnixParam(r, "to")
		if !ok {
			http.Error(w, "Invalid to parameter", http.StatusBadRequest)
			return
		}

		page := 1
		if raw := r.URL.Query().Get("page"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				http.Error(w, "Invalid page parameter", http.StatusBadRequest)
				return
			}
			page = parsed
		}
		pageSize := 20
		if raw := r.URL.Query().Get("page_size"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				http.Error(w, "Invalid page_size parameter", http.StatusBadRequest)
				return
			}
			pageSize = parsed
		}

		records, err := database.GetAssignmentRecords(db)
		if err != nil {
			http.Error(w, "Failed to fetch assignment records", http.StatusInternalServerError)
			return
		}

		filtered := services.FilterAssignmentsByDateRange(records, from, to)
		pageRecords := services.Paginate(filtered, page, pageSize)

		responses := make([]models.AssignmentRecordResponse, len(pageRecords))
		for i := range pageRecords {
			responses[i] = pageRecords[i].ToAssignmentRecordResponse()
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"page":      page,
			"page_size": pageSize,
			"total":     len(filtered),
			"records":   responses,
		})
	}
}

// GetFleetStatusReport returns the fleet grouped by status, with per-status
// counts for the dashboard summary cards
func GetFleetStatusReport(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fleet []models.Vehicle
		if err := db.Select(&fleet, selectVehicleColumns+" ORDER BY registration_no ASC"); err != nil {
			http.Error(w, "Failed to fetch fleet", http.StatusInternalServerError)
			return
		}

		counts := services.StatusCounts(fleet)

		var vehicles []models.VehicleResponse
		if status := r.URL.Query().Get("status"); status != "" {
			if !models.VehicleStatus(status).IsValid() {
				http.Error(w, "Invalid status filter", http.StatusBadRequest)
				return
			}
			filtered := services.FilterVehiclesByStatus(fleet, models.VehicleStatus(status))
			vehicles = make([]models.VehicleResponse, len(filtered))
			for i := range filtered {
				vehicles[i] = filtered[i].ToVehicleResponse()
			}
		} else {
			vehicles = make([]models.VehicleResponse, len(fleet))
			for i := range fleet {
				vehicles[i] = fleet[i].ToVehicleResponse()
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"counts":   counts,
			"vehicles": vehicles,
		})
	}
}
