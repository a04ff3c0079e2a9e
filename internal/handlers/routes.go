package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"fleetops-backend/internal/metrics"
	"fleetops-backend/internal/middleware"
	"fleetops-backend/internal/models"
	"fleetops-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// loadRoutePoints returns a route's points in sequence order
func loadRoutePoints(q sqlx.Queryer, routeID string) ([]models.RoutePoint, error) {
	var points []models.RoutePoint
	err := sqlx.Select(q, &points, `
		SELECT id, route_id, point_type, latitude, longitude, sequence_order, created_at
		FROM route_points
		WHERE route_id = $1
		ORDER BY sequence_order ASC
	`, routeID)
	return points, err
}

// saveRoutePoints replaces a route's point list inside an open transaction.
// Delete-and-reinsert keeps the UNIQUE(route_id, sequence_order) constraint
// satisfied no matter how the sequence was rearranged.
func saveRoutePoints(tx *sqlx.Tx, routeID string, points []models.RoutePoint) error {
	if _, err := tx.Exec("DELETE FROM route_points WHERE route_id = $1", routeID); err != nil {
		return err
	}
	for _, p := range points {
		_, err := tx.Exec(`
			INSERT INTO route_points (id, route_id, point_type, latitude, longitude, sequence_order, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, p.ID, routeID, p.PointType, p.Latitude, p.Longitude, p.Order, p.CreatedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

// updateRouteGeometry recomputes the derived distance and time columns
func updateRouteGeometry(tx *sqlx.Tx, routeID string, points []models.RoutePoint) error {
	distance := services.RouteDistance(points)
	estimated := services.EstimateTime(points)
	_, err := tx.Exec(`
		UPDATE routes SET distance_km = $1, estimated_time = $2, updated_at = $3 WHERE id = $4
	`, distance, estimated, time.Now().Unix(), routeID)
	return err
}

// getRouteForUpdate locks a route row for the duration of a point mutation
func getRouteForUpdate(tx *sqlx.Tx, routeID string) (models.Route, error) {
	var route models.Route
	err := tx.Get(&route, `
		SELECT id, name, route_type, status, distance_km, estimated_time,
		       assigned_vehicle_id, created_by_user_id, created_at, updated_at
		FROM routes WHERE id = $1 FOR UPDATE
	`, routeID)
	return route, err
}

// GetRoutes returns all routes with their ordered points
func GetRoutes(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var routes []models.Route
		query := `
			SELECT id, name, route_type, status, distance_km, estimated_time,
			       assigned_vehicle_id, created_by_user_id, created_at, updated_at
			FROM routes ORDER BY created_at DESC
		`
		args := []interface{}{}
		if routeType := r.URL.Query().Get("route_type"); routeType != "" {
			if !models.RouteType(routeType).IsValid() {
				http.Error(w, "Invalid route_type filter", http.StatusBadRequest)
				return
			}
			query = `
				SELECT id, name, route_type, status, distance_km, estimated_time,
				       assigned_vehicle_id, created_by_user_id, created_at, updated_at
				FROM routes WHERE route_type = $1 ORDER BY created_at DESC
			`
			args = append(args, routeType)
		}

		if err := db.Select(&routes, query, args...); err != nil {
			http.Error(w, "Failed to fetch routes", http.StatusInternalServerError)
			return
		}

		result := make([]models.RouteWithPoints, 0, len(routes))
		for _, route := range routes {
			points, err := loadRoutePoints(db, route.ID)
			if err != nil {
				http.Error(w, "Failed to fetch route points", http.StatusInternalServerError)
				return
			}
			result = append(result, models.RouteWithPoints{Route: route, Points: points})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

// GetRoute returns one route with its ordered points
func GetRoute(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routeID := chi.URLParam(r, "id")

		var route models.Route
		err := db.Get(&route, `
			SELECT id, name, route_type, status, distance_km, estimated_time,
			       assigned_vehicle_id, created_by_user_id, created_at, updated_at
			FROM routes WHERE id = $1
		`, routeID)
		if err == sql.ErrNoRows {
			http.Error(w, "Route not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to fetch route", http.StatusInternalServerError)
			return
		}

		points, err := loadRoutePoints(db, routeID)
		if err != nil {
			http.Error(w, "Failed to fetch route points", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.RouteWithPoints{Route: route, Points: points})
	}
}

// CreateRoute creates a draft route, optionally seeded with an initial point list
func CreateRoute(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateRouteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if req.Name == "" {
			http.Error(w, "Route name is required", http.StatusBadRequest)
			return
		}
		if !req.RouteType.IsValid() {
			http.Error(w, "Invalid route_type", http.StatusBadRequest)
			return
		}
		for _, p := range req.Points {
			if !p.PointType.IsValid() {
				http.Error(w, "Invalid point_type", http.StatusBadRequest)
				return
			}
		}

		routeID := uuid.New().String()
		now := time.Now().Unix()

		var createdBy *string
		if claims, ok := middleware.GetUserFromContext(r); ok {
			createdBy = &claims.UserID
		}

		points := []models.RoutePoint{}
		for _, input := range req.Points {
			points = services.InsertPoint(points, models.RoutePoint{
				ID:        uuid.New().String(),
				RouteID:   routeID,
				PointType: input.PointType,
				Latitude:  input.Latitude,
				Longitude: input.Longitude,
				CreatedAt: now,
			})
		}

		tx, err := db.Beginx()
		if err != nil {
			http.Error(w, "Failed to start transaction", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		_, err = tx.Exec(`
			INSERT INTO routes (id, name, route_type, status, distance_km, estimated_time, created_by_user_id, created_at, updated_at)
			VALUES ($1, $2, $3, 'draft', $4, $5, $6, $7, $8)
		`, routeID, req.Name, req.RouteType, services.RouteDistance(points), services.EstimateTime(points), createdBy, now, now)
		if err != nil {
			http.Error(w, "Failed to create route", http.StatusInternalServerError)
			return
		}

		if err := saveRoutePoints(tx, routeID, points); err != nil {
			http.Error(w, "Failed to save route points", http.StatusInternalServerError)
			return
		}
		if err := tx.Commit(); err != nil {
			http.Error(w, "Failed to commit transaction", http.StatusInternalServerError)
			return
		}

		log.Printf("🗺️ Route created: %s (%s, %d points)", req.Name, req.RouteType, len(points))

		var route models.Route
		if err := db.Get(&route, `
			SELECT id, name, route_type, status, distance_km, estimated_time,
			       assigned_vehicle_id, created_by_user_id, created_at, updated_at
			FROM routes WHERE id = $1
		`, routeID); err != nil {
			http.Error(w, "Failed to fetch created route", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.RouteWithPoints{Route: route, Points: points})
	}
}

// UpdateRoute renames a route and/or replaces its entire point list
func UpdateRoute(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routeID := chi.URLParam(r, "id")

		var req models.UpdateRouteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		for _, p := range req.Points {
			if !p.PointType.IsValid() {
				http.Error(w, "Invalid point_type", http.StatusBadRequest)
				return
			}
		}

		tx, err := db.Beginx()
		if err != nil {
			http.Error(w, "Failed to start transaction", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		route, err := getRouteForUpdate(tx, routeID)
		if err == sql.ErrNoRows {
			http.Error(w, "Route not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to fetch route", http.StatusInternalServerError)
			return
		}

		now := time.Now().Unix()

		if req.Name != nil {
			if *req.Name == "" {
				http.Error(w, "Route name is required", http.StatusBadRequest)
				return
			}
			if _, err := tx.Exec("UPDATE routes SET name = $1, updated_at = $2 WHERE id = $3", *req.Name, now, routeID); err != nil {
				http.Error(w, "Failed to update route", http.StatusInternalServerError)
				return
			}
		}

		points, err := loadRoutePoints(tx, routeID)
		if err != nil {
			http.Error(w, "Failed to fetch route points", http.StatusInternalServerError)
			return
		}

		if req.Points != nil {
			points = []models.RoutePoint{}
			for _, input := range req.Points {
				points = services.InsertPoint(points, models.RoutePoint{
					ID:        uuid.New().String(),
					RouteID:   routeID,
					PointType: input.PointType,
					Latitude:  input.Latitude,
					Longitude: input.Longitude,
					CreatedAt: now,
				})
			}
			if err := saveRoutePoints(tx, routeID, points); err != nil {
				http.Error(w, "Failed to save route points", http.StatusInternalServerError)
				return
			}
		}

		if err := updateRouteGeometry(tx, routeID, points); err != nil {
			http.Error(w, "Failed to update route geometry", http.StatusInternalServerError)
			return
		}
		if err := tx.Commit(); err != nil {
			http.Error(w, "Failed to commit transaction", http.StatusInternalServerError)
			return
		}

		respondWithRoute(w, db, route.ID)
	}
}

// DeleteRoute removes a route and its points
func DeleteRoute(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routeID := chi.URLParam(r, "id")

		result, err := db.Exec("DELETE FROM routes WHERE id = $1", routeID)
		if err != nil {
			http.Error(w, "Failed to delete route", http.StatusInternalServerError)
			return
		}
		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			http.Error(w, "Route not found", http.StatusNotFound)
			return
		}

		log.Printf("🗑️ Route deleted: %s", routeID)
		w.WriteHeader(http.StatusNoContent)
	}
}

// AddRoutePoint appends a stop at the end of the route's sequence
func AddRoutePoint(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routeID := chi.URLParam(r, "id")

		var req models.AddRoutePointRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if !req.PointType.IsValid() {
			http.Error(w, "Invalid point_type", http.StatusBadRequest)
			return
		}

		tx, err := db.Beginx()
		if err != nil {
			http.Error(w, "Failed to start transaction", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		if _, err := getRouteForUpdate(tx, routeID); err == sql.ErrNoRows {
			http.Error(w, "Route not found", http.StatusNotFound)
			return
		} else if err != nil {
			http.Error(w, "Failed to fetch route", http.StatusInternalServerError)
			return
		}

		points, err := loadRoutePoints(tx, routeID)
		if err != nil {
			http.Error(w, "Failed to fetch route points", http.StatusInternalServerError)
			return
		}

		points = services.InsertPoint(points, models.RoutePoint{
			ID:        uuid.New().String(),
			RouteID:   routeID,
			PointType: req.PointType,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			CreatedAt: time.Now().Unix(),
		})

		if err := saveRoutePoints(tx, routeID, points); err != nil {
			http.Error(w, "Failed to save route points", http.StatusInternalServerError)
			return
		}
		if err := updateRouteGeometry(tx, routeID, points); err != nil {
			http.Error(w, "Failed to update route geometry", http.StatusInternalServerError)
			return
		}
		if err := tx.Commit(); err != nil {
			http.Error(w, "Failed to commit transaction", http.StatusInternalServerError)
			return
		}

		respondWithRoute(w, db, routeID)
	}
}

// RemoveRoutePoint deletes a stop and closes the gap in the sequence.
// Removing a point that is not on the route leaves the route unchanged.
func RemoveRoutePoint(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routeID := chi.URLParam(r, "id")
		pointID := chi.URLParam(r, "pointId")

		tx, err := db.Beginx()
		if err != nil {
			http.Error(w, "Failed to start transaction", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		if _, err := getRouteForUpdate(tx, routeID); err == sql.ErrNoRows {
			http.Error(w, "Route not found", http.StatusNotFound)
			return
		} else if err != nil {
			http.Error(w, "Failed to fetch route", http.StatusInternalServerError)
			return
		}

		points, err := loadRoutePoints(tx, routeID)
		if err != nil {
			http.Error(w, "Failed to fetch route points", http.StatusInternalServerError)
			return
		}

		points = services.RemovePoint(points, pointID)

		if err := saveRoutePoints(tx, routeID, points); err != nil {
			http.Error(w, "Failed to save route points", http.StatusInternalServerError)
			return
		}
		if err := updateRouteGeometry(tx, routeID, points); err != nil {
			http.Error(w, "Failed to update route geometry", http.StatusInternalServerError)
			return
		}
		if err := tx.Commit(); err != nil {
			http.Error(w, "Failed to commit transaction", http.StatusInternalServerError)
			return
		}

		respondWithRoute(w, db, routeID)
	}
}

// MoveRoutePoint swaps a stop with its neighbor. Moves past either end of the
// sequence are ignored rather than rejected.
func MoveRoutePoint(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routeID := chi.URLParam(r, "id")

		var req models.MoveRoutePointRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		tx, err := db.Beginx()
		if err != nil {
			http.Error(w, "Failed to start transaction", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		if _, err := getRouteForUpdate(tx, routeID); err == sql.ErrNoRows {
			http.Error(w, "Route not found", http.StatusNotFound)
			return
		} else if err != nil {
			http.Error(w, "Failed to fetch route", http.StatusInternalServerError)
			return
		}

		points, err := loadRoutePoints(tx, routeID)
		if err != nil {
			http.Error(w, "Failed to fetch route points", http.StatusInternalServerError)
			return
		}

		points = services.MovePoint(points, req.Index, req.Direction)

		if err := saveRoutePoints(tx, routeID, points); err != nil {
			http.Error(w, "Failed to save route points", http.StatusInternalServerError)
			return
		}
		if err := tx.Commit(); err != nil {
			http.Error(w, "Failed to commit transaction", http.StatusInternalServerError)
			return
		}

		respondWithRoute(w, db, routeID)
	}
}

// SaveRoute validates the route structure and promotes it from draft to active
func SaveRoute(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routeID := chi.URLParam(r, "id")

		tx, err := db.Beginx()
		if err != nil {
			http.Error(w, "Failed to start transaction", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		route, err := getRouteForUpdate(tx, routeID)
		if err == sql.ErrNoRows {
			http.Error(w, "Route not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to fetch route", http.StatusInternalServerError)
			return
		}

		points, err := loadRoutePoints(tx, routeID)
		if err != nil {
			http.Error(w, "Failed to fetch route points", http.StatusInternalServerError)
			return
		}

		if err := services.ValidateRouteForSave(route.Name, route.RouteType, points); err != nil {
			metrics.RouteSaves.WithLabelValues("rejected").Inc()
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if _, err := tx.Exec("UPDATE routes SET status = 'active', updated_at = $1 WHERE id = $2", time.Now().Unix(), routeID); err != nil {
			http.Error(w, "Failed to save route", http.StatusInternalServerError)
			return
		}
		if err := tx.Commit(); err != nil {
			http.Error(w, "Failed to commit transaction", http.StatusInternalServerError)
			return
		}

		log.Printf("✅ Route saved as active: %s (%s)", route.Name, route.RouteType)
		metrics.RouteSaves.WithLabelValues("saved").Inc()

		respondWithRoute(w, db, routeID)
	}
}

// OptimizeRoutePreview suggests a nearest-neighbor ordering of the route's
// points. The stored sequence is not modified; the caller applies the
// suggestion through the regular update endpoint if they want to keep it.
func OptimizeRoutePreview(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routeID := chi.URLParam(r, "id")

		points, err := loadRoutePoints(db, routeID)
		if err != nil {
			http.Error(w, "Failed to fetch route points", http.StatusInternalServerError)
			return
		}
		if len(points) == 0 {
			http.Error(w, "Route has no points to optimize", http.StatusBadRequest)
			return
		}

		start := services.Location{Latitude: points[0].Latitude, Longitude: points[0].Longitude}
		optimizer := services.NewRouteOptimizer()
		optimized := optimizer.OptimizePointOrder(points, start)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"points":         optimized,
			"distance_km":    services.RouteDistance(optimized),
			"estimated_time": services.EstimateTime(optimized),
		})
	}
}

// respondWithRoute writes the current state of a route with its points
func respondWithRoute(w http.ResponseWriter, db *sqlx.DB, routeID string) {
	var route models.Route
	if err := db.Get(&route, `
		SELECT id, name, route_type, status, distance_km, estimated_time,
		       assigned_vehicle_id, created_by_user_id, created_at, updated_at
		FROM routes WHERE id = $1
	`, routeID); err != nil {
		http.Error(w, "Failed to fetch route", http.StatusInternalServerError)
		return
	}

	points, err := loadRoutePoints(db, routeID)
	if err != nil {
		http.Error(w, "Failed to fetch route points", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.RouteWithPoints{Route: route, Points: points})
}
