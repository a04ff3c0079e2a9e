package models

// Vendor owns a subset of the fleet and is held to the spare-percentage policy
type Vendor struct {
	ID          string  `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	ContactName *string `json:"contact_name,omitempty" db:"contact_name"`
	Phone       *string `json:"phone,omitempty" db:"phone"`
	Email       *string `json:"email,omitempty" db:"email"`
	CreatedAt   int64   `json:"created_at" db:"created_at"` // Unix timestamp
	UpdatedAt   int64   `json:"updated_at" db:"updated_at"` // Unix timestamp
}

// CreateVendorRequest is the request body for POST /api/manager/vendors
type CreateVendorRequest struct {
	Name        string  `json:"name"`
	ContactName *string `json:"contact_name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty"`
}

// UpdateVendorRequest is the request body for PATCH /api/manager/vendors/:id
type UpdateVendorRequest struct {
	Name        *string `json:"name,omitempty"`
	ContactName *string `json:"contact_name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty"`
}
