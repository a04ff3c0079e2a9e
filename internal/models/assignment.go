package models

import "time"

// AssignmentRecord is one entry in the append-only spare deployment log.
// Records are only ever inserted, never updated or deleted.
type AssignmentRecord struct {
	ID                 string  `json:"id" db:"id"`
	BreakdownVehicleID string  `json:"breakdown_vehicle_id" db:"breakdown_vehicle_id"`
	SpareVehicleID     string  `json:"spare_vehicle_id" db:"spare_vehicle_id"`
	RouteID            *string `json:"route_id,omitempty" db:"route_id"`
	Reason             string  `json:"reason" db:"reason"`
	CreatedAt          int64   `json:"created_at" db:"created_at"` // Unix timestamp
}

// AssignmentRecordResponse is what we send to the client with ISO timestamps
type AssignmentRecordResponse struct {
	ID                 string  `json:"id"`
	BreakdownVehicleID string  `json:"breakdown_vehicle_id"`
	SpareVehicleID     string  `json:"spare_vehicle_id"`
	RouteID            *string `json:"route_id,omitempty"`
	Reason             string  `json:"reason"`
	CreatedAtIso       string  `json:"createdAtIso"`
}

// ToAssignmentRecordResponse converts an AssignmentRecord to its response form
func (a *AssignmentRecord) ToAssignmentRecordResponse() AssignmentRecordResponse {
	return AssignmentRecordResponse{
		ID:                 a.ID,
		BreakdownVehicleID: a.BreakdownVehicleID,
		SpareVehicleID:     a.SpareVehicleID,
		RouteID:            a.RouteID,
		Reason:             a.Reason,
		CreatedAtIso:       time.Unix(a.CreatedAt, 0).Format(time.RFC3339),
	}
}
