package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"fleetops-backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

type sparePolicyResponse struct {
	SparePercentage float64 `json:"spare_percentage"`
}

type updateSparePolicyRequest struct {
	SparePercentage *float64 `json:"spare_percentage"`
}

// GetSparePolicy returns the fleet-wide required spare percentage
func GetSparePolicy(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var percentage float64
		if err := db.Get(&percentage, "SELECT spare_percentage FROM fleet_settings WHERE id = 1"); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch spare policy")
			return
		}

		utils.Success(w, sparePolicyResponse{SparePercentage: percentage})
	}
}

// UpdateSparePolicy sets the required spare percentage used by compliance checks
func UpdateSparePolicy(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateSparePolicyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.SparePercentage == nil {
			utils.RespondError(w, http.StatusBadRequest, "spare_percentage is required")
			return
		}
		if *req.SparePercentage < 0 || *req.SparePercentage > 100 {
			utils.RespondError(w, http.StatusBadRequest, "spare_percentage must be between 0 and 100")
			return
		}

		_, err := db.Exec(`
			UPDATE fleet_settings SET spare_percentage = $1, updated_at = $2 WHERE id = 1
		`, *req.SparePercentage, time.Now().Unix())
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update spare policy")
			return
		}

		log.Printf("⚙️ Spare percentage policy updated to %.1f%%", *req.SparePercentage)

		utils.Success(w, sparePolicyResponse{SparePercentage: *req.SparePercentage})
	}
}
