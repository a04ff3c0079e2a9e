package services

import (
	"math"

	"fleetops-backend/internal/models"
)

// VendorCompliance is the read-only summary of one vendor's spare coverage
type VendorCompliance struct {
	VendorID        string  `json:"vendor_id"`
	VendorName      string  `json:"vendor_name"`
	ActiveVehicles  int     `json:"active_vehicles"`
	TotalSpares     int     `json:"total_spares"`
	AvailableSpares int     `json:"available_spares"`
	DeployedSpares  int     `json:"deployed_spares"`
	RequiredSpares  int     `json:"required_spares"`
	RequiredPercent float64 `json:"required_percent"`
	Compliant       bool    `json:"compliant"`
}

// EvaluateVendorCompliance computes whether a vendor's spare count meets the
// required percentage of their non-spare fleet. Pure; never mutates any
// vehicle, safe to call on every evaluation cycle. The policy percentage is
// injected by the caller, never read from ambient configuration here.
func EvaluateVendorCompliance(vendor models.Vendor, fleet []models.Vehicle, requiredPercent float64) VendorCompliance {
	ownedNonSpare := 0
	totalSpares := 0
	availableSpares := 0

	for _, v := range fleet {
		if v.VendorID != vendor.ID {
			continue
		}
		if v.IsSpare {
			totalSpares++
			if v.ReplacingTruckID == nil {
				availableSpares++
			}
		} else {
			ownedNonSpare++
		}
	}

	required := int(math.Ceil(float64(ownedNonSpare) * requiredPercent / 100))

	return VendorCompliance{
		VendorID:        vendor.ID,
		VendorName:      vendor.Name,
		ActiveVehicles:  ownedNonSpare,
		TotalSpares:     totalSpares,
		AvailableSpares: availableSpares,
		DeployedSpares:  totalSpares - availableSpares,
		RequiredSpares:  required,
		RequiredPercent: requiredPercent,
		Compliant:       totalSpares >= required,
	}
}
