package models

// RouteType distinguishes primary routes (pickups -> collection point) from
// secondary routes (collection point -> dumping site)
type RouteType string

const (
	RoutePrimary   RouteType = "primary"
	RouteSecondary RouteType = "secondary"
)

// IsValid checks if the route type is valid
func (t RouteType) IsValid() bool {
	return t == RoutePrimary || t == RouteSecondary
}

// PointType is the kind of stop on a route
type PointType string

const (
	PointPickup          PointType = "pickup"
	PointCollectionPoint PointType = "collection_point"
	PointDumpingSite     PointType = "dumping_site"
)

// IsValid checks if the point type is valid
func (t PointType) IsValid() bool {
	switch t {
	case PointPickup, PointCollectionPoint, PointDumpingSite:
		return true
	}
	return false
}

// Route represents a route blueprint. Distance and estimated time are derived
// from the point list and recomputed whenever the points change.
type Route struct {
	ID                string    `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	RouteType         RouteType `json:"route_type" db:"route_type"`
	Status            string    `json:"status" db:"status"` // "draft" or "active"
	DistanceKm        float64   `json:"distance_km" db:"distance_km"`
	EstimatedTime     string    `json:"estimated_time" db:"estimated_time"`
	AssignedVehicleID *string   `json:"assigned_vehicle_id,omitempty" db:"assigned_vehicle_id"`
	CreatedByUserID   *string   `json:"created_by_user_id,omitempty" db:"created_by_user_id"`
	CreatedAt         int64     `json:"created_at" db:"created_at"` // Unix timestamp
	UpdatedAt         int64     `json:"updated_at" db:"updated_at"` // Unix timestamp
}

// RoutePoint is one stop on a route. Order is 1-based and contiguous per route.
type RoutePoint struct {
	ID        string    `json:"id" db:"id"`
	RouteID   string    `json:"route_id" db:"route_id"`
	PointType PointType `json:"point_type" db:"point_type"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	Order     int       `json:"sequence_order" db:"sequence_order"`
	CreatedAt int64     `json:"created_at" db:"created_at"` // Unix timestamp
}

// RouteWithPoints represents a route with its ordered points
type RouteWithPoints struct {
	Route
	Points []RoutePoint `json:"points"`
}

// RoutePointInput is one point in a create/update request
type RoutePointInput struct {
	PointType PointType `json:"point_type"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
}

// CreateRouteRequest is the request body for POST /api/routes
type CreateRouteRequest struct {
	Name      string            `json:"name"`
	RouteType RouteType         `json:"route_type"`
	Points    []RoutePointInput `json:"points"`
}

// UpdateRouteRequest is the request body for PATCH /api/routes/:id
type UpdateRouteRequest struct {
	Name   *string           `json:"name,omitempty"`
	Points []RoutePointInput `json:"points,omitempty"`
}

// AddRoutePointRequest is the request body for POST /api/routes/:id/points
type AddRoutePointRequest struct {
	PointType PointType `json:"point_type"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
}

// MoveRoutePointRequest is the request body for POST /api/routes/:id/points/move
type MoveRoutePointRequest struct {
	Index     int    `json:"index"`     // 0-based position in the current order
	Direction string `json:"direction"` // "up" or "down"
}
