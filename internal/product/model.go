package product

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// Product is a farmer's waste listing: crop residue, husks, manure and the
// like, priced per unit.
type Product struct {
	ID        uint
	FarmerID  uint
	Name      string
	WasteType string
	UnitPrice decimal.Decimal
	// DeliveryFee is the flat delivery cost applied to an order for this
	// listing's district.
	DeliveryFee decimal.Decimal
	Stock       int
	District    string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateProductParams struct {
	FarmerID    uint
	Name        string
	WasteType   string
	UnitPrice   decimal.Decimal
	DeliveryFee decimal.Decimal
	Stock       int
	District    string
}

type ProductFilter struct {
	WasteType *string
	District  *string
	FarmerID  *uint
}
