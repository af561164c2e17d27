package payment

import (
	"context"
	"net/http"
)

type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error)
	CreatePayout(ctx context.Context, params PayoutParams) (*Payout, error)
	VerifySignature(r *http.Request, payload []byte) error
}
