package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"fleetops-backend/internal/models"
	"fleetops-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// GetVendors returns all vendors
func GetVendors(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var vendors []models.Vendor
		if err := db.Select(&vendors, "SELECT * FROM vendors ORDER BY name ASC"); err != nil {
			http.Error(w, "Failed to fetch vendors", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(vendors)
	}
}

// GetVendor returns a single vendor
func GetVendor(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID := chi.URLParam(r, "id")

		var vendor models.Vendor
		err := db.Get(&vendor, "SELECT * FROM vendors WHERE id = $1", vendorID)
		if err == sql.ErrNoRows {
			http.Error(w, "Vendor not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to fetch vendor", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(vendor)
	}
}

// CreateVendor registers a new vendor
func CreateVendor(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateVendorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "Vendor name is required", http.StatusBadRequest)
			return
		}

		id := uuid.New().String()
		now := time.Now().Unix()

		_, err := db.Exec(`
			INSERT INTO vendors (id, name, contact_name, phone, email, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, id, req.Name, req.ContactName, req.Phone, req.Email, now, now)
		if err != nil {
			http.Error(w, "Failed to create vendor", http.StatusInternalServerError)
			return
		}

		log.Printf("🏢 Vendor created: %s", req.Name)

		var vendor models.Vendor
		if err := db.Get(&vendor, "SELECT * FROM vendors WHERE id = $1", id); err != nil {
			http.Error(w, "Failed to fetch created vendor", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(vendor)
	}
}

// UpdateVendor patches vendor contact details
func UpdateVendor(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID := chi.URLParam(r, "id")

		var req models.UpdateVendorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		result, err := db.Exec(`
			UPDATE vendors
			SET name = COALESCE($1, name),
			    contact_name = COALESCE($2, contact_name),
			    phone = COALESCE($3, phone),
			    email = COALESCE($4, email),
			    updated_at = $5
			WHERE id = $6
		`, req.Name, req.ContactName, req.Phone, req.Email, time.Now().Unix(), vendorID)
		if err != nil {
			http.Error(w, "Failed to update vendor", http.StatusInternalServerError)
			return
		}

		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			http.Error(w, "Vendor not found", http.StatusNotFound)
			return
		}

		var vendor models.Vendor
		if err := db.Get(&vendor, "SELECT * FROM vendors WHERE id = $1", vendorID); err != nil {
			http.Error(w, "Failed to fetch updated vendor", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(vendor)
	}
}

// DeleteVendor removes a vendor that no longer owns any vehicles
func DeleteVendor(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID := chi.URLParam(r, "id")

		var vehicleCount int
		if err := db.Get(&vehicleCount, "SELECT COUNT(*) FROM vehicles WHERE vendor_id = $1", vendorID); err != nil {
			http.Error(w, "Failed to check vendor fleet", http.StatusInternalServerError)
			return
		}
		if vehicleCount > 0 {
			http.Error(w, "Vendor still owns vehicles", http.StatusConflict)
			return
		}

		result, err := db.Exec("DELETE FROM vendors WHERE id = $1", vendorID)
		if err != nil {
			http.Error(w, "Failed to delete vendor", http.StatusInternalServerError)
			return
		}
		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			http.Error(w, "Vendor not found", http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// GetVendorCompliance evaluates every vendor against the fleet-wide spare
// percentage policy stored in fleet_settings.
func GetVendorCompliance(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var requiredPercent float64
		if err := db.Get(&requiredPercent, "SELECT spare_percentage FROM fleet_settings WHERE id = 1"); err != nil {
			http.Error(w, "Failed to fetch spare policy", http.StatusInternalServerError)
			return
		}

		var vendors []models.Vendor
		if err := db.Select(&vendors, "SELECT * FROM vendors ORDER BY name ASC"); err != nil {
			http.Error(w, "Failed to fetch vendors", http.StatusInternalServerError)
			return
		}

		var fleet []models.Vehicle
		if err := db.Select(&fleet, selectVehicleColumns); err != nil {
			http.Error(w, "Failed to fetch fleet", http.StatusInternalServerError)
			return
		}

		summaries := make([]services.VendorCompliance, len(vendors))
		for i, vendor := range vendors {
			summaries[i] = services.EvaluateVendorCompliance(vendor, fleet, requiredPercent)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"required_percent": requiredPercent,
			"vendors":          summaries,
		})
	}
}
