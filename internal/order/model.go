package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	// StatusToDeliver is the initial status after checkout.
	StatusToDeliver OrderStatus = "toDeliver"
	// StatusToReceive means the delivery actor accepted the order.
	StatusToReceive OrderStatus = "toReceive"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// transitions is the full order state machine. cancelled and completed are
// terminal; nothing leaves them.
var transitions = map[OrderStatus][]OrderStatus{
	StatusToDeliver: {StatusToReceive, StatusCancelled},
	StatusToReceive: {StatusCompleted},
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID           uint
	BuyerID      uint
	ProductID    uint
	FarmerID     uint
	Quantity     int
	UnitPrice    decimal.Decimal
	DeliveryCost decimal.Decimal
	// TotalPrice is derived at checkout and immutable afterwards.
	TotalPrice decimal.Decimal
	OrderDate  time.Time
	Status     OrderStatus
	UpdatedAt  time.Time

	ProductName string
}

// ComputeTotal derives an order's total: quantity x unitPrice + deliveryCost,
// rounded half away from zero to two decimal places.
func ComputeTotal(quantity int, unitPrice, deliveryCost decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Add(deliveryCost).Round(2)
}

type OrderFilter struct {
	BuyerID  *uint
	FarmerID *uint
	Status   *OrderStatus
	DateFrom *time.Time
	DateTo   *time.Time
}
