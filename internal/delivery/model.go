package delivery

import (
	"time"

	"github.com/google/uuid"
)

type Status string

// The farmer-facing UI capitalises Pending; the driver transitions are
// lowercase. The strings are part of the stored contract, so they stay as-is.
const (
	StatusPending   Status = "Pending"
	StatusAccepted  Status = "accepted"
	StatusCompleted Status = "completed"
)

// DeliveryRequest is a farmer's pickup request, independent of any buyer
// order. Exactly one driver may hold an accepted request.
type DeliveryRequest struct {
	ID               uuid.UUID
	FarmerID         uint
	DriverID         *uint
	District         string
	WasteType        string
	PickupDate       time.Time
	EmergencyContact string
	Lat              float64
	Lng              float64
	Status           Status
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type CreateParams struct {
	FarmerID         uint
	District         string
	WasteType        string
	PickupDate       time.Time
	EmergencyContact string
	Lat              float64
	Lng              float64
}

// UpdateParams carries the farmer-editable fields. All are optional; nil
// leaves the stored value untouched.
type UpdateParams struct {
	District         *string
	WasteType        *string
	PickupDate       *time.Time
	EmergencyContact *string
	Lat              *float64
	Lng              *float64
}

func (p UpdateParams) Empty() bool {
	return p.District == nil && p.WasteType == nil && p.PickupDate == nil &&
		p.EmergencyContact == nil && p.Lat == nil && p.Lng == nil
}

type Filter struct {
	FarmerID *uint
	DriverID *uint
	Status   *Status
	District *string
}
