package refund

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// RefundRequest snapshots the order at cancellation time. TotalPrice is fixed
// at creation; later product price changes never move the amount owed.
type RefundRequest struct {
	ID           uuid.UUID
	OrderID      *uint
	UserID       uint
	ProductName  string
	Quantity     int
	TotalPrice   decimal.Decimal
	OrderDate    time.Time
	CanceledDate time.Time
	Status       Status
	Reason       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateParams struct {
	OrderID     *uint
	UserID      uint
	ProductName string
	Quantity    int
	TotalPrice  decimal.Decimal
	OrderDate   time.Time
	Reason      string
}

type Filter struct {
	Status *Status
	UserID *uint
}
