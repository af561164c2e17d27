package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is one row of stripe_payments: money that moved through Stripe for
// an order, either the buyer's capture or a driver payout. The settlement
// aggregator folds over captured rows only.
type Payment struct {
	ID         uint
	OrderID    *uint
	SessionID  string
	DriverName string
	PayAmount  decimal.Decimal
	PayDate    time.Time
	Captured   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type CheckoutSessionParams struct {
	OrderID     uint
	Amount      decimal.Decimal
	Currency    string
	ProductName string
	BuyerEmail  string
}

type CheckoutSession struct {
	SessionID string
	URL       string
	ExpiresAt time.Time
}

type PayoutParams struct {
	Amount      decimal.Decimal
	Currency    string
	Description string
	ReferenceID string
}

type Payout struct {
	PayoutID string
	Status   string
}

// Event is the slice of a Stripe webhook envelope this service acts on.
type Event struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
	Data    struct {
		Object EventObject `json:"object"`
	} `json:"data"`
}

type EventObject struct {
	ID            string `json:"id"`
	AmountTotal   int64  `json:"amount_total"`
	Currency      string `json:"currency"`
	PaymentStatus string `json:"payment_status"`
	Metadata      struct {
		OrderID    string `json:"order_id"`
		DriverName string `json:"driver_name"`
	} `json:"metadata"`
}
