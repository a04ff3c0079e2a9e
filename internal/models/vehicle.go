package models

import "time"

// VehicleClass is the closed set of truck classes in the fleet.
// Spare substitution requires an exact class match.
type VehicleClass string

const (
	ClassMiniTruck VehicleClass = "mini_truck"
	ClassCompactor VehicleClass = "compactor"
	ClassDumper    VehicleClass = "dumper"
	ClassOpenTruck VehicleClass = "open_truck"
)

// IsValid checks if the vehicle class is one of the known classes
func (c VehicleClass) IsValid() bool {
	switch c {
	case ClassMiniTruck, ClassCompactor, ClassDumper, ClassOpenTruck:
		return true
	}
	return false
}

// RouteAffinity marks whether a truck works primary legs
// (pickups -> collection point) or secondary legs (collection point -> dumping site)
type RouteAffinity string

const (
	AffinityPrimary   RouteAffinity = "primary"
	AffinitySecondary RouteAffinity = "secondary"
)

// IsValid checks if the route affinity is valid
func (a RouteAffinity) IsValid() bool {
	return a == AffinityPrimary || a == AffinitySecondary
}

// VehicleStatus is the operational status of a truck
type VehicleStatus string

const (
	StatusActive      VehicleStatus = "active"
	StatusMoving      VehicleStatus = "moving"
	StatusIdle        VehicleStatus = "idle"
	StatusDumping     VehicleStatus = "dumping"
	StatusBreakdown   VehicleStatus = "breakdown"
	StatusOffline     VehicleStatus = "offline"
	StatusMaintenance VehicleStatus = "maintenance"
	StatusInactive    VehicleStatus = "inactive"
)

// IsValid checks if the status is one of the known statuses
func (s VehicleStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusMoving, StatusIdle, StatusDumping,
		StatusBreakdown, StatusOffline, StatusMaintenance, StatusInactive:
		return true
	}
	return false
}

// UnassignedRoute is the route name a spare truck carries while it is not
// covering any breakdown
const UnassignedRoute = "Unassigned"

type Vehicle struct {
	ID                string        `json:"id" db:"id"`
	RegistrationNo    string        `json:"registration_no" db:"registration_no"`
	VehicleClass      VehicleClass  `json:"vehicle_class" db:"vehicle_class"`
	RouteAffinity     RouteAffinity `json:"route_affinity" db:"route_affinity"`
	Status            VehicleStatus `json:"status" db:"status"`
	IsSpare           bool          `json:"is_spare" db:"is_spare"`
	ReplacedBySpareID *string       `json:"replaced_by_spare_id,omitempty" db:"replaced_by_spare_id"`
	ReplacingTruckID  *string       `json:"replacing_truck_id,omitempty" db:"replacing_truck_id"`
	CurrentRouteName  string        `json:"current_route_name" db:"current_route_name"`
	CurrentRouteID    *string       `json:"current_route_id,omitempty" db:"current_route_id"`
	AssignedGCP       *string       `json:"assigned_gcp,omitempty" db:"assigned_gcp"`
	AssignedDumpSite  *string       `json:"assigned_dump_site,omitempty" db:"assigned_dump_site"`
	VendorID          string        `json:"vendor_id" db:"vendor_id"`
	BreakdownTime     *int64        `json:"breakdown_time,omitempty" db:"breakdown_time"` // Unix timestamp
	BreakdownReason   *string       `json:"breakdown_reason,omitempty" db:"breakdown_reason"`
	DriverID          *string       `json:"driver_id,omitempty" db:"driver_id"`
	CreatedAt         int64         `json:"created_at" db:"created_at"` // Unix timestamp
	UpdatedAt         int64         `json:"updated_at" db:"updated_at"` // Unix timestamp
}

// VehicleResponse is what we send to the client with ISO timestamps
type VehicleResponse struct {
	ID                string        `json:"id"`
	RegistrationNo    string        `json:"registration_no"`
	VehicleClass      VehicleClass  `json:"vehicle_class"`
	RouteAffinity     RouteAffinity `json:"route_affinity"`
	Status            VehicleStatus `json:"status"`
	IsSpare           bool          `json:"is_spare"`
	ReplacedBySpareID *string       `json:"replaced_by_spare_id,omitempty"`
	ReplacingTruckID  *string       `json:"replacing_truck_id,omitempty"`
	CurrentRouteName  string        `json:"current_route_name"`
	CurrentRouteID    *string       `json:"current_route_id,omitempty"`
	AssignedGCP       *string       `json:"assigned_gcp,omitempty"`
	AssignedDumpSite  *string       `json:"assigned_dump_site,omitempty"`
	VendorID          string        `json:"vendor_id"`
	BreakdownTimeIso  *string       `json:"breakdownTimeIso,omitempty"`
	BreakdownReason   *string       `json:"breakdown_reason,omitempty"`
	DriverID          *string       `json:"driver_id,omitempty"`
}

// ToVehicleResponse converts a Vehicle to VehicleResponse
func (v *Vehicle) ToVehicleResponse() VehicleResponse {
	resp := VehicleResponse{
		ID:                v.ID,
		RegistrationNo:    v.RegistrationNo,
		VehicleClass:      v.VehicleClass,
		RouteAffinity:     v.RouteAffinity,
		Status:            v.Status,
		IsSpare:           v.IsSpare,
		ReplacedBySpareID: v.ReplacedBySpareID,
		ReplacingTruckID:  v.ReplacingTruckID,
		CurrentRouteName:  v.CurrentRouteName,
		CurrentRouteID:    v.CurrentRouteID,
		AssignedGCP:       v.AssignedGCP,
		AssignedDumpSite:  v.AssignedDumpSite,
		VendorID:          v.VendorID,
		BreakdownReason:   v.BreakdownReason,
		DriverID:          v.DriverID,
	}

	if v.BreakdownTime != nil {
		t := time.Unix(*v.BreakdownTime, 0)
		iso := t.Format(time.RFC3339)
		resp.BreakdownTimeIso = &iso
	}

	return resp
}

// CreateVehicleRequest is the request body for POST /api/vehicles
type CreateVehicleRequest struct {
	RegistrationNo   string        `json:"registration_no"`
	VehicleClass     VehicleClass  `json:"vehicle_class"`
	RouteAffinity    RouteAffinity `json:"route_affinity"`
	IsSpare          bool          `json:"is_spare"`
	VendorID         string        `json:"vendor_id"`
	AssignedGCP      *string       `json:"assigned_gcp,omitempty"`
	AssignedDumpSite *string       `json:"assigned_dump_site,omitempty"`
	DriverID         *string       `json:"driver_id,omitempty"`
}

// UpdateVehicleRequest is the request body for PATCH /api/vehicles/:id
type UpdateVehicleRequest struct {
	RegistrationNo   *string        `json:"registration_no,omitempty"`
	Status           *VehicleStatus `json:"status,omitempty"`
	AssignedGCP      *string        `json:"assigned_gcp,omitempty"`
	AssignedDumpSite *string        `json:"assigned_dump_site,omitempty"`
	DriverID         *string        `json:"driver_id,omitempty"`
}

// ReportBreakdownRequest is the request body for POST /api/manager/vehicles/:id/breakdown
type ReportBreakdownRequest struct {
	Reason string `json:"reason"`
}

// AssignSpareRequest is the request body for POST /api/manager/assign-spare
type AssignSpareRequest struct {
	BreakdownVehicleID string `json:"breakdown_vehicle_id"`
	SpareVehicleID     string `json:"spare_vehicle_id"`
	Reason             string `json:"reason"`
}
